package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/infrastructure/config"
	"flightops-bot/internal/infrastructure/persistence"
	"flightops-bot/internal/interface/discord"
	"flightops-bot/internal/interface/repository"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run overwrites the guild's slash commands with the bot's command table,
// or stores capability grants when --grant is given.
func run() error {
	var envFile string
	var guildID string
	var dryRun bool
	var grants []string

	flagSet := pflag.NewFlagSet("flightops-utils", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")
	flagSet.StringVar(&guildID, "guild", "", "guild to register commands in (default: GUILD_ID)")
	flagSet.BoolVar(&dryRun, "dry-run", false, "print the commands without registering them")
	flagSet.StringArrayVar(&grants, "grant", nil, "store a capability:role grant in PostgreSQL (repeatable)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if len(grants) > 0 {
		return storeGrants(envFile, guildID, grants)
	}

	commands := discord.Commands()
	if dryRun {
		for _, command := range commands {
			fmt.Printf("%s (%d options): %s\n", command.Name, len(command.Options), command.Description)
		}
		return nil
	}

	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return err
	}
	if guildID == "" {
		guildID = cfg.GuildID
	}
	if cfg.DiscordToken == "" || cfg.DiscordAppID == "" || guildID == "" {
		return fmt.Errorf("DISCORD_TOKEN, DISCORD_APP_ID and a guild are required")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	registered, err := session.ApplicationCommandBulkOverwrite(cfg.DiscordAppID, guildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	for _, command := range registered {
		fmt.Printf("Registered /%s (%s)\n", command.Name, command.ID)
	}
	return nil
}

// storeGrants writes capability grants to the grants table. Every grant is
// parsed before anything is written.
func storeGrants(envFile, guildID string, values []string) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return err
	}
	if guildID == "" {
		guildID = cfg.GuildID
	}
	if cfg.PostgresURI == "" || guildID == "" {
		return fmt.Errorf("POSTGRES_URI and a guild are required to store grants")
	}

	parsed := make([]*entity.CapabilityGrant, 0, len(values))
	for _, value := range values {
		grant, err := entity.ParseCapabilityGrant(guildID, value)
		if err != nil {
			return err
		}
		parsed = append(parsed, grant)
	}

	db, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		return err
	}
	grantRepo := repository.NewGormCapabilityGrantRepository(db)
	if err := grantRepo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate capability grants: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, grant := range parsed {
		if err := grantRepo.Grant(ctx, grant); err != nil {
			return fmt.Errorf("failed to grant %s to role %s: %w", grant.Capability, grant.RoleID, err)
		}
		fmt.Printf("Granted %s to role %s in guild %s\n", grant.Capability, grant.RoleID, grant.GuildID)
	}
	return nil
}
