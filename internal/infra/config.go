package infra

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"astropet"`
	PGPassword  string `env:"PGPASSWORD" envDefault:"astropet"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"astropet"`

	// Server ports
	APIPort       int `env:"API_PORT" envDefault:"3100"`
	AuthorityPort int `env:"AUTHORITY_PORT" envDefault:"4001"`

	// The api process reaches the authority server over HTTP.
	AuthorityBaseURL string `env:"AUTHORITY_BASE_URL" envDefault:"http://localhost:4001"`

	// Kafka
	KafkaBrokers string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaTopic   string `env:"KAFKA_TOPIC" envDefault:"pet.changes"`
	KafkaGroupID string `env:"KAFKA_GROUP_ID" envDefault:"astropet-api"`

	// Local durable cache
	SessionCachePath string `env:"SESSION_CACHE_PATH" envDefault:"./data/session.json"`

	// Migrations. Empty means locate db/migrations relative to the
	// working directory.
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	// CORS
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.KafkaEnabled && c.KafkaBrokers == "" {
		return fmt.Errorf("KAFKA_ENABLED is set but KAFKA_BROKERS is empty")
	}
	if c.AuthorityBaseURL == "" {
		return fmt.Errorf("AUTHORITY_BASE_URL must be set")
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
