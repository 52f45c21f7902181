package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-identity-gateway/auth"
	"github.com/jrsteele09/go-identity-gateway/directory"
	"github.com/jrsteele09/go-identity-gateway/internal/config"
	"github.com/jrsteele09/go-identity-gateway/internal/metrics"
	"github.com/jrsteele09/go-identity-gateway/ratelimit"
	"github.com/jrsteele09/go-identity-gateway/server"
	"github.com/jrsteele09/go-identity-gateway/token"
	"github.com/jrsteele09/go-identity-gateway/users"
	fakeuserrepo "github.com/jrsteele09/go-identity-gateway/users/repofake"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "config.Load")
	}

	setupLogging(cfg)
	displayAppName(cfg.App.Name)

	m := metrics.New(nil)

	signer, err := token.NewSigner(cfg.Security.Algorithm, cfg.Security.SecretKey)
	if err != nil {
		return errors.Wrap(err, "token.NewSigner")
	}
	tokens := token.New(signer, token.WithTokenExpiry(cfg.Security.AccessTokenTTL, cfg.Security.RefreshTokenTTL))

	userRepo := fakeuserrepo.NewFakeUserRepo()
	if cfg.App.IsDevelopment() {
		if err := seedDemoUser(userRepo); err != nil {
			return errors.Wrap(err, "seedDemoUser")
		}
	}

	authOptions := []auth.ServiceOption{auth.WithMetrics(m)}
	if cfg.Directory.Enabled {
		dir, err := directory.New(cfg.Directory)
		if err != nil {
			return errors.Wrap(err, "directory.New")
		}
		authOptions = append(authOptions, auth.WithDirectory(dir))
		log.Info().Str("server", cfg.Directory.Server).Msg("directory authentication enabled")
	}

	authService, err := auth.NewService(userRepo, tokens, authOptions...)
	if err != nil {
		return errors.Wrap(err, "auth.NewService")
	}

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	srv, err := server.New(cfg, authService, limiter, m)
	if err != nil {
		return errors.Wrap(err, "server.New")
	}

	httpServer := &http.Server{Addr: cfg.App.Addr(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server.Shutdown")
	}
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.App.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// seedDemoUser registers the development demo account so the API is usable
// out of the box without a user store behind it.
func seedDemoUser(repo users.UserRepo) error {
	hash, err := users.HashPassword("testpassword")
	if err != nil {
		return err
	}
	return repo.Upsert(&users.User{
		Email:        "test@example.com",
		FullName:     "Test User",
		PasswordHash: hash,
		Active:       true,
	})
}

func displayAppName(appName string) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
