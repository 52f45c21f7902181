package config

import (
	"time"

	"github.com/pkg/errors"
)

// RateLimit configures the per-client request governor. Exempt paths bypass
// the window entirely (health and liveness probes).
type RateLimit struct {
	Enabled     bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Requests    int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	ExemptPaths []string      `env:"RATE_LIMIT_EXEMPT_PATHS" envDefault:"/health,/health/detailed,/ping"`
}

func (r RateLimit) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.Requests <= 0 {
		return errors.Errorf("config: RATE_LIMIT_REQUESTS must be positive, got %d", r.Requests)
	}
	if r.Window <= 0 {
		return errors.Errorf("config: RATE_LIMIT_WINDOW must be positive, got %s", r.Window)
	}
	return nil
}
