// Command rectopt-server runs the rectopt HTTP optimize service.
//
// Build:
//
//	go build -o rectopt-server ./cmd/rectopt-server
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/piwi3910/rectopt/internal/config"
	"github.com/piwi3910/rectopt/internal/httpapi"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-server: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zlog.With().Str("service", httpapi.ServiceName).Logger()

	srv := httpapi.New(settings, logger)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", settings.Port),
		Handler:      srv.Mux(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().
		Int("port", settings.Port).
		Str("version", httpapi.Version).
		Int("max_concurrent_jobs", settings.MaxConcurrentJobs).
		Int64("max_body_bytes", settings.MaxBodyBytes).
		Msg("server bootstrap configured")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			os.Exit(1)
		}
	}
}
