package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightops-bot/internal/domain/entity"
	"flightops-bot/internal/domain/repository"
	"flightops-bot/internal/infrastructure/config"
	"flightops-bot/internal/infrastructure/httpserver"
	"flightops-bot/internal/infrastructure/persistence"
	"flightops-bot/internal/infrastructure/router"
	"flightops-bot/internal/interface/discord"
	platformRepo "flightops-bot/internal/interface/repository"
	"flightops-bot/internal/usecase"
	"flightops-bot/pkg/logger"
	"flightops-bot/pkg/metrics"

	"github.com/benbjohnson/clock"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	var envFile string
	flagSet := pflag.NewFlagSet("flightops-bot", pflag.ExitOnError)
	flagSet.StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")
	flagSet.Parse(os.Args[1:])

	// Load configuration
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting flightops bot", "version", cfg.AppVersion)

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics("flightops", prometheus.DefaultRegisterer)
	clk := clock.New()

	// Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal("Failed to create Discord session", "error", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	platform := platformRepo.NewDiscordPlatformRepository(session, log)

	// Optional audit trail
	var audit repository.FlightAuditRepository = platformRepo.NoopFlightAuditRepository{}
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoDatabase(ctx, persistence.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDB,
			Username: cfg.MongoUser,
			Password: cfg.MongoPassword,
			AppName:  "flightops-bot",
		})
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		audit, err = platformRepo.NewMongoFlightAuditRepository(ctx, db)
		if err != nil {
			log.Fatal("Failed to set up flight audit", "error", err)
		}
	}

	// Optional event fan-out
	var publisher repository.FlightEventPublisher = platformRepo.NoopFlightEventPublisher{}
	if cfg.NatsURL != "" {
		log.Info("Connecting to NATS", "url", cfg.NatsURL)
		conn, err := persistence.NewNatsConnection(cfg.NatsURL, "flightops-bot", log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", "error", err)
		}
		defer conn.Drain()
		publisher = platformRepo.NewNatsFlightEventPublisher(conn, cfg.NatsSubjectPrefix)
	}

	// Capability grants: configured roles plus optional database grants
	grants := []repository.CapabilityGrantRepository{
		platformRepo.NewStaticCapabilityGrantRepository(cfg.GuildID, map[entity.Capability][]string{
			entity.CapabilityScheduleFlights: cfg.SchedulerRoleIDs,
			entity.CapabilityAffiliate:       cfg.AffiliateRoleIDs,
		}),
	}
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		grantRepo := platformRepo.NewGormCapabilityGrantRepository(gormDB)
		if err := grantRepo.Migrate(); err != nil {
			log.Fatal("Failed to migrate capability grants", "error", err)
		}
		grants = append(grants, grantRepo)
	}

	// Core
	gates := usecase.NewGateRegistry(clk, log, m)
	flights := usecase.NewFlightController(platform, audit, publisher, gates, clk, usecase.FlightControllerConfig{
		StaffChannelID:    cfg.StaffChannelID,
		BoardingChannelID: cfg.BoardingChannelID,
		StaffReactions:    cfg.StaffReactions,
		ReminderLead:      cfg.ReminderLead,
		GateTimeout:       cfg.GateTimeout,
		Location:          cfg.Location,
	}, log, m)
	affiliates := usecase.NewAffiliateController(platform, gates, cfg.AffiliateChannelID, cfg.GateTimeout, log, m)
	authorizer := usecase.NewCommandAuthorizer(platform, log, grants...)

	commandRouter := router.NewCommandRouter(log)
	commandRouter.Register(usecase.NewFlightCreateHandler(flights))
	commandRouter.Register(usecase.NewFlightHostHandler(flights))
	commandRouter.Register(usecase.NewFlightCancelHandler(flights))
	commandRouter.Register(usecase.NewAffiliateAnnounceHandler(affiliates))

	dispatcher := usecase.NewCommandDispatcher(commandRouter, authorizer, gates, log, m)
	gateway := discord.NewGateway(session, dispatcher, log)
	gates.SetTimeoutNotifier(gateway.ReleaseGate)

	session.AddHandler(gateway.OnInteraction)
	session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Info("Connected to Discord", "user", r.User.Username, "guilds", len(r.Guilds))
	})
	if err := session.Open(); err != nil {
		log.Fatal("Failed to open Discord session", "error", err)
	}

	// Ops HTTP server
	ops := httpserver.NewOpsServer(flights, audit, prometheus.DefaultGatherer, httpserver.Config{
		Port:         cfg.Port,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Version:      cfg.AppVersion,
	}, log)
	server := ops.Server()

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	if err := session.Close(); err != nil {
		log.Error("Discord session close error", "error", err)
	}
	flights.Shutdown()

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flightops bot stopped")
}
