package config

import (
	"fmt"

	"github.com/pkg/errors"
)

type App struct {
	Name        string `env:"APP_NAME" envDefault:"Identity Gateway"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Host        string `env:"HOST" envDefault:"0.0.0.0"`
	Port        int    `env:"PORT" envDefault:"8000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// Addr returns the listen address for the HTTP server.
func (a App) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// IsDevelopment reports whether the service runs in the development
// environment (console logging, demo account seeding).
func (a App) IsDevelopment() bool {
	return a.Environment == "development"
}

func (a App) validate() error {
	if a.Port <= 0 || a.Port > 65535 {
		return errors.Errorf("config: invalid PORT %d", a.Port)
	}
	switch a.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return errors.Errorf("config: unknown ENVIRONMENT %q", a.Environment)
	}
}
