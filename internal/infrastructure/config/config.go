// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"flightops-bot/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Ops server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Discord
	DiscordToken       string
	DiscordAppID       string
	GuildID            string
	StaffChannelID     string
	BoardingChannelID  string
	AffiliateChannelID string
	SchedulerRoleIDs   []string
	AffiliateRoleIDs   []string
	StaffReactions     []string

	// Flights
	FlightTimezone string
	Location       *time.Location
	ReminderLead   time.Duration
	GateTimeout    time.Duration

	// MongoDB audit trail, optional
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres capability grants, optional
	PostgresURI string

	// NATS lifecycle events, optional
	NatsURL           string
	NatsSubjectPrefix string
}

// LoadConfig loads configuration from environment variables. envFile, when
// set, is loaded first and must exist; otherwise a .env in the working
// directory is loaded if present.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		godotenv.Load()
	}

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		DiscordToken:       getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:       getEnv("DISCORD_APP_ID", ""),
		GuildID:            getEnv("GUILD_ID", ""),
		StaffChannelID:     getEnv("STAFF_CHANNEL_ID", ""),
		BoardingChannelID:  getEnv("BOARDING_CHANNEL_ID", ""),
		AffiliateChannelID: getEnv("AFFILIATE_CHANNEL_ID", ""),
		SchedulerRoleIDs:   utils.ParseIDList(getEnv("SCHEDULER_ROLE_IDS", "")),
		AffiliateRoleIDs:   utils.ParseIDList(getEnv("AFFILIATE_ROLE_IDS", "")),
		StaffReactions:     utils.ParseIDList(getEnv("STAFF_REACTIONS", "✅,❔,❌")),

		FlightTimezone: getEnv("FLIGHT_TIMEZONE", "UTC"),
		ReminderLead:   time.Duration(getEnvAsInt("REMINDER_LEAD_MINUTES", 15)) * time.Minute,
		GateTimeout:    time.Duration(getEnvAsInt("GATE_TIMEOUT_SECONDS", 120)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "flightops"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_URI", ""),

		NatsURL:           getEnv("NATS_URL", ""),
		NatsSubjectPrefix: strings.TrimSuffix(getEnv("NATS_SUBJECT_PREFIX", "flightops"), "."),
	}

	location, err := time.LoadLocation(config.FlightTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid FLIGHT_TIMEZONE %q: %w", config.FlightTimezone, err)
	}
	config.Location = location

	return config, nil
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DiscordToken == "" {
		missing = append(missing, "DISCORD_TOKEN")
	}
	if c.DiscordAppID == "" {
		missing = append(missing, "DISCORD_APP_ID")
	}
	if c.GuildID == "" {
		missing = append(missing, "GUILD_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.ReminderLead < 0 {
		return errors.New("REMINDER_LEAD_MINUTES must not be negative")
	}
	if c.GateTimeout <= 0 {
		return errors.New("GATE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
