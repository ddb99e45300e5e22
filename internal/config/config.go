package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Source selects where invoice templates are read from.
type Source string

const (
	SourcePostgres Source = "postgres"
	SourceREST     Source = "rest"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Invoicer"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		LogFile  string `envconfig:"LOG_FILE"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"invoicer"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
		AuthSecret  string        `envconfig:"AUTH_SECRET"`
	}

	Backend struct {
		Source Source `envconfig:"SOURCE" default:"postgres"`
		URL    string `envconfig:"BACKEND_URL" default:"http://localhost:8000/api"`
		Token  string `envconfig:"BACKEND_TOKEN"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Backend.Source {
	case SourcePostgres, SourceREST:
	default:
		return nil, fmt.Errorf("unknown SOURCE %q: want %q or %q", cfg.Backend.Source, SourcePostgres, SourceREST)
	}

	return &cfg, nil
}
