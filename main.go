package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/Billy-Davies-2/bracket-champs/internal/auth"
	"github.com/Billy-Davies-2/bracket-champs/internal/clickhouse"
	"github.com/Billy-Davies-2/bracket-champs/internal/config"
	"github.com/Billy-Davies-2/bracket-champs/internal/dal"
	grpcserver "github.com/Billy-Davies-2/bracket-champs/internal/grpc"
	"github.com/Billy-Davies-2/bracket-champs/internal/handlers"
	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/mocks"
	"github.com/Billy-Davies-2/bracket-champs/internal/pubsub"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger first
	logger.Init(cfg.LogLevel)
	logger.Info("Starting Bracket Champs", "environment", cfg.Environment)

	dataStore := openStore(cfg)
	defer dataStore.Close()

	bus := openBus(cfg)
	defer bus.Close()
	events := pubsub.NewWithUpstream(bus)

	recorder := openRecorder(cfg)
	defer recorder.Close()

	// Use mock auth in development mode, Authentik OAuth2 in production
	var authProvider auth.AuthProvider
	if cfg.IsDevelopment() {
		logger.Info("Using mock authentication for local development (no Authentik server required)")
		authProvider = auth.NewMockAuth()
	} else {
		if cfg.Authentik.BaseURL == "" || cfg.Authentik.ClientID == "" || cfg.Authentik.ClientSecret == "" {
			logger.Error("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET environment variables are required for production")
			log.Fatal("AUTHENTIK_BASE_URL, AUTHENTIK_CLIENT_ID, and AUTHENTIK_CLIENT_SECRET environment variables are required for production")
		}
		authProvider = auth.NewAuthentikAuth(&auth.AuthentikConfig{
			BaseURL:      cfg.Authentik.BaseURL,
			ClientID:     cfg.Authentik.ClientID,
			ClientSecret: cfg.Authentik.ClientSecret,
			RedirectURL:  cfg.Authentik.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
		})
		logger.Info("Connected to Authentik", "url", cfg.Authentik.BaseURL)
	}

	sessions := session.NewManager(session.Options{
		RevealAfter:  cfg.RevealAfter,
		AdvanceAfter: cfg.AdvanceAfter,
		Bus:          events,
		Recorder:     recorder,
	})
	defer sessions.CloseAll()

	h, err := handlers.NewHandlers(handlers.Options{
		DAL:         dataStore,
		Bus:         events,
		Sessions:    sessions,
		Recorder:    recorder,
		Auth:        authProvider,
		Features:    cfg.Features,
		CORSOrigins: cfg.CORSOrigins,
		Production:  !cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Error("Failed to initialize handlers", "error", err)
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// drop abandoned and unclaimed sessions
	go sessions.Janitor(ctx, time.Minute)

	// Start gRPC server in a goroutine
	grpcServer := grpc.NewServer()
	grpcserver.Register(grpcServer, grpcserver.NewServer(dataStore, sessions, events, cfg.Features))
	go func() {
		addr := "0.0.0.0:" + cfg.GRPCPort
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen for gRPC", "error", err, "port", cfg.GRPCPort)
			log.Fatalf("Failed to listen for gRPC: %v", err)
		}
		logger.Info("gRPC server starting", "address", addr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
}

// openStore picks the catalog store named by DB_DRIVER
func openStore(cfg *config.Config) dal.CatalogDAL {
	switch cfg.DBDriver {
	case "memory":
		logger.Info("Using in-memory data store")
		return dal.NewMemoryDAL()
	case "sqlite":
		store, err := dal.NewSQLiteDAL(cfg.SQLiteFile)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.SQLiteFile)
		return store
	case "postgres":
		if cfg.IsDevelopment() && cfg.DatabaseURL == "" {
			store, err := mocks.NewMockPostgresDAL(cfg.SQLiteFile)
			if err != nil {
				logger.Error("Failed to initialize mock Postgres", "error", err)
				log.Fatalf("Failed to initialize mock Postgres: %v", err)
			}
			return store
		}
		if cfg.DatabaseURL == "" {
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		store, err := dal.NewPostgresDAL(cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		logger.Info("Connected to Postgres database")
		return store
	}
	logger.Error("Unknown DB_DRIVER", "driver", cfg.DBDriver)
	log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", cfg.DBDriver)
	return nil
}

// openBus picks the event transport named by NATS_MODE
func openBus(cfg *config.Config) pubsub.Bus {
	switch cfg.NATSMode {
	case "embedded":
		logger.Info("Starting embedded NATS server for local development")
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATSSubject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
		return embedded
	case "nats":
		logger.Info("Using real NATS JetStream for production")
		remote, err := pubsub.NewNATSPubSub(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		err = remote.SubscribeJetStream("bracket-completions", func(ev pubsub.Event) {
			if ev.Type == pubsub.EventSessionComplete {
				logger.Info("Bracket completed", "session", ev.Session, "picks", ev.Payload["picks"])
			}
		})
		if err != nil {
			logger.Warn("Failed to start completion consumer", "error", err)
		}
		return remote
	case "mock":
		return mocks.NewMockNATSPubSub(cfg.NATSSubject)
	}
	logger.Error("Unknown NATS_MODE", "mode", cfg.NATSMode)
	log.Fatalf("Unknown NATS_MODE: %s (valid: embedded, nats, mock)", cfg.NATSMode)
	return nil
}

// openRecorder returns the ClickHouse pick recorder, or the mock in development
func openRecorder(cfg *config.Config) clickhouse.PickRecorder {
	if cfg.IsDevelopment() {
		logger.Info("Using mock ClickHouse for local development (no ClickHouse server required)")
		return mocks.NewMockClickHouseClient()
	}
	client, err := clickhouse.NewClient(cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.User, cfg.ClickHouse.Password)
	if err != nil {
		logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouse.Addr)
		log.Fatalf("Failed to initialize ClickHouse: %v", err)
	}
	logger.Info("Connected to ClickHouse", "address", cfg.ClickHouse.Addr, "database", cfg.ClickHouse.Database)
	return client
}
