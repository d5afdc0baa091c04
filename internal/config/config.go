// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every environment-derived setting. It is constructed once at
// startup and passed by reference; no component reads ambient global state.
type Config struct {
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME"`

	HTTPPort   string `env:"PORT" envDefault:"8080"`
	AdminToken string `env:"ADMIN_TOKEN" envDefault:"changeme_secret_for_admin_pages"`

	// WebBaseURL is the public base under which simulation links are built.
	WebBaseURL string `env:"WEB_BASE_URL"`

	// DefaultChannelID is the broadcast delivery target (a channel, not a person).
	DefaultChannelID string `env:"DEFAULT_CHANNEL_ID"`

	// ChatGatewayURL points at the chat-platform client service. When empty
	// the dispatcher falls back to the mock delivery channel.
	ChatGatewayURL string `env:"CHAT_GATEWAY_URL"`

	AMQPURL string `env:"AMQP_URL"`

	DispatchInterval time.Duration `env:"DISPATCH_INTERVAL" envDefault:"5m"`
	SendTimeout      time.Duration `env:"SEND_TIMEOUT" envDefault:"10s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"true"`
}

// Load reads .env if present, then parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine, the OS environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// ValidateDB checks the settings every binary needs.
func (c *Config) ValidateDB() error {
	if c.DBUser == "" || c.DBName == "" {
		return fmt.Errorf("DB_USER and DB_NAME must be set")
	}
	return nil
}

// ValidateDispatcher checks the settings the dispatch engine cannot run
// without. A failure here is fatal at startup.
func (c *Config) ValidateDispatcher() error {
	if err := c.ValidateDB(); err != nil {
		return err
	}
	if c.DefaultChannelID == "" {
		return fmt.Errorf("DEFAULT_CHANNEL_ID must be set")
	}
	if c.WebBaseURL == "" {
		return fmt.Errorf("WEB_BASE_URL must be set")
	}
	if c.DispatchInterval <= 0 {
		return fmt.Errorf("DISPATCH_INTERVAL must be positive")
	}
	return nil
}
