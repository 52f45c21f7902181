package config

import (
	"time"

	"github.com/pkg/errors"
)

const insecureDefaultSecret = "your-secret-key-change-this-in-production"

// Security holds the token-signing configuration.
type Security struct {
	SecretKey       string        `env:"SECRET_KEY" envDefault:"your-secret-key-change-this-in-production"`
	Algorithm       string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
}

func (s Security) validate(environment string) error {
	if s.SecretKey == "" {
		return errors.New("config: SECRET_KEY must not be empty")
	}
	if environment == "production" && s.SecretKey == insecureDefaultSecret {
		return errors.New("config: SECRET_KEY must be changed for production")
	}
	if s.AccessTokenTTL <= 0 {
		return errors.Errorf("config: ACCESS_TOKEN_TTL must be positive, got %s", s.AccessTokenTTL)
	}
	if s.RefreshTokenTTL <= 0 {
		return errors.Errorf("config: REFRESH_TOKEN_TTL must be positive, got %s", s.RefreshTokenTTL)
	}
	return nil
}
