package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from GONDOLA_-prefixed environment variables; a .env
// file is honored in development (see main).
type Config struct {
	App     AppConfig
	Backend BackendConfig
	Meili   MeiliConfig
	DB      DBConfig
}

type AppConfig struct {
	Addr     string `envconfig:"GONDOLA_ADDR" default:":8080"`
	LogLevel string `envconfig:"GONDOLA_LOG_LEVEL" default:"info"`
}

type BackendConfig struct {
	URL            string `envconfig:"GONDOLA_BACKEND_URL" default:"http://127.0.0.1:5678"`
	TimeoutSeconds int    `envconfig:"GONDOLA_BACKEND_TIMEOUT_SECONDS" default:"25"`
	Retries        int    `envconfig:"GONDOLA_BACKEND_RETRIES" default:"2"`
}

func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

type MeiliConfig struct {
	URL    string `envconfig:"GONDOLA_MEILI_URL" default:"http://127.0.0.1:7700"`
	APIKey string `envconfig:"GONDOLA_MEILI_API_KEY"`
}

type DBConfig struct {
	// DSN is optional: without it the price history features stay off.
	DSN string `envconfig:"GONDOLA_DATABASE_URL"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
