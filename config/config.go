// Package config loads connector settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file, and are parsed with caarlos0/env then checked with
// go-playground/validator.
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	conn, err := connector.New(cfg)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/reoring/nsconnector/httpapi"
)

// Config holds everything needed to build a connector.
type Config struct {
	Tenant                string        `env:"NEWSTORE_TENANT,required" validate:"required,hostname_rfc1123"`
	Environment           string        `env:"NEWSTORE_ENV" envDefault:"production" validate:"required,hostname_rfc1123"`
	Token                 string        `env:"NEWSTORE_TOKEN,required" validate:"required"`
	Timeout               time.Duration `env:"NEWSTORE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	OrderInjectionVersion string        `env:"NEWSTORE_ORDER_INJECTION_VERSION" envDefault:"0.1" validate:"required"`
	OrderNotesVersion     string        `env:"NEWSTORE_ORDER_NOTES_VERSION" envDefault:"0.1.0" validate:"required"`
	LogLevel              string        `env:"NEWSTORE_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// BaseURL renders the API base URL for the configured tenant.
func (c Config) BaseURL() string { return httpapi.BaseURL(c.Tenant, c.Environment) }

// Level maps LogLevel to a slog level, defaulting to info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var validate = validatorv10.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validatorv10.ValidationErrors
		if errors.As(err, &ve) {
			parts := make([]string, 0, len(ve))
			for _, fe := range ve {
				parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return &httpapi.ConfigError{Component: "config", Reason: strings.Join(parts, "; ")}
		}
		return err
	}
	return nil
}

// Load reads the configuration from the environment. Each file in envFiles
// (".env" when none are given) is loaded first if it exists; variables
// already set in the process take precedence.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return Parse()
}

// Parse reads the configuration from process environment variables only.
func Parse() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, &httpapi.ConfigError{Component: "config", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
