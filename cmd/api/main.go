// Package main is the entry point for the Âm lịch API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/zapponejosh/amlich-api/internal/api"
	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/config"
	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/logger"
	"github.com/zapponejosh/amlich-api/internal/lunar"
	"github.com/zapponejosh/amlich-api/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.Setup(cfg)

	log.Info("starting amlich API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.CalendarTimezone),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Info("database migrated", slog.Int("applied", applied))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	converter := lunar.NewConverter(lunar.Engine{},
		lunar.WithLogger(log),
		lunar.WithObserver(collector),
	)
	cal := calendar.NewService(converter, calendar.WithLocation(cfg.Location()))

	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	handlers := api.NewHandlers(db, cal, converter, cfg, log)
	router := api.NewRouter(handlers, api.RouterDeps{
		Config:    cfg,
		Logger:    log,
		Metrics:   collector,
		Gatherer:  reg,
		RateLimit: limiter,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
