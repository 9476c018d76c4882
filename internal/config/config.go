// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	GinMode      string `env:"GIN_MODE" envDefault:"debug"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/folio.db"`

	SMTPHost  string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort  string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	ToEmail   string `env:"TO_EMAIL" envDefault:"owner@example.com"`
	FromEmail string `env:"FROM_EMAIL"`
	OwnerName string `env:"OWNER_NAME" envDefault:"Fahad Ali"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	SettleDelay      time.Duration `env:"SETTLE_DELAY" envDefault:"50ms"`
	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
	HighlightStyle   string        `env:"HIGHLIGHT_STYLE" envDefault:"monokai"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &cfg, nil
}

// DefaultAdmin reports whether the admin credentials were left at their
// development defaults.
func (c *Config) DefaultAdmin() bool {
	return c.AdminUsername == "admin" && c.AdminPassword == "admin123"
}
