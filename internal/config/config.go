package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	OutcomeIndependent = "independent"
	OutcomeLegacy      = "legacy"
)

type Config struct {
	LabAPIURL     string        `env:"LAB_API_URL" envDefault:"http://localhost:8338"`
	LabAPITimeout time.Duration `env:"LAB_API_TIMEOUT" envDefault:"60s"`

	RecipeExtension  string        `env:"RECIPE_EXTENSION" envDefault:".yaml"`
	GalleryCacheTTL  time.Duration `env:"GALLERY_CACHE_TTL" envDefault:"5m"`
	GalleryCacheSize int           `env:"GALLERY_CACHE_SIZE" envDefault:"16"`
	OutcomePolicy    string        `env:"OUTCOME_POLICY" envDefault:"independent"`

	// Empty disables the import journal.
	JournalURL string `env:"JOURNAL_URL"`

	// The daemon imports recipe files dropped into this folder. Empty
	// disables watching.
	WatchDir    string        `env:"WATCH_DIR"`
	WatchSettle time.Duration `env:"WATCH_SETTLE" envDefault:"500ms"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	Port           int      `env:"PORT" envDefault:"3002"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig loads the optional env file and parses the environment into a Config.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		log.Printf("loading env from file %s", envFile)
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("error loading env file '%s': %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.S3EndpointURL != "" && (cfg.S3AccessKeyID == "" || cfg.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.LabAPIURL == "" {
		return fmt.Errorf("LAB_API_URL must not be empty")
	}
	if c.OutcomePolicy != OutcomeIndependent && c.OutcomePolicy != OutcomeLegacy {
		return fmt.Errorf("invalid OUTCOME_POLICY '%s': expected '%s' or '%s'", c.OutcomePolicy, OutcomeIndependent, OutcomeLegacy)
	}
	if c.RecipeExtension != "" && !strings.HasPrefix(c.RecipeExtension, ".") {
		c.RecipeExtension = "." + c.RecipeExtension
	}
	if c.GalleryCacheSize <= 0 {
		c.GalleryCacheSize = 1
	}
	return nil
}

func (c *Config) SetupLogging() {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
