package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/share"
)

const (
	DefaultAppStoreURL = "https://apps.apple.com/us/app/takes/id1633475437"
	DefaultUpsetAlert  = "Vermont leads Duke 38-30 at half 🚨"
	DefaultNextRound   = "14 hours"
	DefaultUserCampus  = "Oregon"
)

// Features are the demo switches and copy that a YAML file may override
type Features struct {
	GamesStarted     bool   `yaml:"games_started"`
	UpsetAlert       string `yaml:"upset_alert"`
	NextRoundOpensIn string `yaml:"next_round_opens_in"`
	UserCampus       string `yaml:"user_campus"`
	ShareLink        string `yaml:"share_link"`
	AppStoreURL      string `yaml:"app_store_url"`
}

type ClickHouse struct {
	Addr     string
	Database string
	User     string
	Password string
}

type Authentik struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Config is everything the server reads from the environment
type Config struct {
	Port        string
	GRPCPort    string
	Environment string
	LogLevel    string

	DBDriver    string
	SQLiteFile  string
	DatabaseURL string

	NATSMode    string
	NATSURL     string
	NATSSubject string

	ClickHouse ClickHouse
	Authentik  Authentik

	CORSOrigins  []string
	RevealAfter  time.Duration
	AdvanceAfter time.Duration

	ConfigFile string
	Features   Features
}

// IsDevelopment reports whether mocks should stand in for external services
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

// DefaultFeatures mirrors the fixture constants of the demo
func DefaultFeatures() Features {
	return Features{
		GamesStarted:     false,
		UpsetAlert:       DefaultUpsetAlert,
		NextRoundOpensIn: DefaultNextRound,
		UserCampus:       DefaultUserCampus,
		ShareLink:        share.Link,
		AppStoreURL:      DefaultAppStoreURL,
	}
}

// Load reads .env (when present), the environment and the optional feature file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "3000"),
		GRPCPort:    getEnv("GRPC_PORT", "50051"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "memory"),
		SQLiteFile:  getEnv("SQLITE_FILE", "dev.sqlite"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		NATSURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject: getEnv("NATS_SUBJECT", "bracket.events"),

		ClickHouse: ClickHouse{
			Addr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CLICKHOUSE_DB", "default"),
			User:     getEnv("CLICKHOUSE_USER", "default"),
			Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		},
		Authentik: Authentik{
			BaseURL:      os.Getenv("AUTHENTIK_BASE_URL"),
			ClientID:     os.Getenv("AUTHENTIK_CLIENT_ID"),
			ClientSecret: os.Getenv("AUTHENTIK_CLIENT_SECRET"),
			RedirectURL:  getEnv("AUTHENTIK_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		},

		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),
		RevealAfter:  getEnvAsDuration("PICK_REVEAL_AFTER", pickflow.DefaultRevealAfter),
		AdvanceAfter: getEnvAsDuration("PICK_ADVANCE_AFTER", pickflow.DefaultAdvanceAfter),

		ConfigFile: os.Getenv("CONFIG_FILE"),
		Features:   DefaultFeatures(),
	}

	defaultNATSMode := "nats"
	if cfg.IsDevelopment() {
		defaultNATSMode = "embedded"
	}
	cfg.NATSMode = getEnv("NATS_MODE", defaultNATSMode)

	if cfg.ConfigFile != "" {
		if err := cfg.Features.LoadFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}
	if v, ok := os.LookupEnv("GAMES_STARTED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("GAMES_STARTED: %w", err)
		}
		cfg.Features.GamesStarted = b
	}

	if cfg.AdvanceAfter < cfg.RevealAfter {
		return nil, fmt.Errorf("PICK_ADVANCE_AFTER (%s) must not be shorter than PICK_REVEAL_AFTER (%s)", cfg.AdvanceAfter, cfg.RevealAfter)
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys missing from the file keep their current values.
func (f *Features) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
