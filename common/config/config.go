package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	API      API    `envPrefix:"HRM_API_"`
	Tokens   Tokens `envPrefix:"HRM_TOKEN_"`
}

// API contains parameters of the remote HRM API.
type API struct {
	URL       string        `env:"URL" envDefault:"http://localhost:8000"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
	UserAgent string        `env:"USER_AGENT" envDefault:"hrmapi/1.0"`
}

// Tokens selects where the token pair is persisted.
type Tokens struct {
	Store string `env:"STORE" envDefault:"file"`
	Path  string `env:"PATH"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
