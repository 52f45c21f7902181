package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-gateway/auth"
	"github.com/jrsteele09/go-identity-gateway/internal/config"
	"github.com/jrsteele09/go-identity-gateway/internal/metrics"
	"github.com/jrsteele09/go-identity-gateway/ratelimit"
)

type Server struct {
	env       string // Environment (e.g., "development", "production")
	mux       *http.ServeMux
	routes    []string
	config    *config.Config
	auth      *auth.Service
	limiter   *ratelimit.Limiter // nil disables governance
	metrics   *metrics.Metrics
	exempt    map[string]struct{}
	startTime time.Time
}

func New(cfg *config.Config, authService *auth.Service, limiter *ratelimit.Limiter, m *metrics.Metrics) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}

	exempt := make(map[string]struct{}, len(cfg.RateLimit.ExemptPaths))
	for _, path := range cfg.RateLimit.ExemptPaths {
		exempt[path] = struct{}{}
	}

	s := &Server{
		env:       cfg.App.Environment,
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      authService,
		limiter:   limiter,
		metrics:   m,
		exempt:    exempt,
		startTime: time.Now(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "development" {
		return // Skip logging outside development
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route")
		}
	}
}
