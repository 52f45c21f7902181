package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Version of the service, reported by the health endpoints.
const Version = "0.1.0"

// Config is the full startup configuration, loaded once from the environment
// and treated as immutable for the process lifetime.
type Config struct {
	App       App
	Security  Security
	Directory Directory
	RateLimit RateLimit
}

// Load parses the environment into a Config and validates it. Validation
// failures here are fatal at startup, never per-request.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Security.validate(c.App.Environment); err != nil {
		return err
	}
	if err := c.Directory.validate(); err != nil {
		return err
	}
	return c.RateLimit.validate()
}
