// Package main provides the entry point for the parlay recommendation service.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-advisor/internal/api"
	"github.com/yourusername/parlay-advisor/internal/config"
	"github.com/yourusername/parlay-advisor/internal/datasource"
	"github.com/yourusername/parlay-advisor/internal/health"
	"github.com/yourusername/parlay-advisor/internal/logger"
	"github.com/yourusername/parlay-advisor/internal/metrics"
	"github.com/yourusername/parlay-advisor/internal/scheduler"
	"github.com/yourusername/parlay-advisor/internal/service"
	"github.com/yourusername/parlay-advisor/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to configuration file")
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName)
		cancel()
		if err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		log.Fatalf("Invalid configuration for %s: %v", cfg.App.Environment, err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	if err := logger.AttachFile(appLog, logger.FileOptions{Path: cfg.App.LogFile, Compress: true}); err != nil {
		appLog.WithError(err).Fatal("Failed to open log file")
	}
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Parlay advisor starting")

	metrics.InitRegistry()

	if err := tracing.Initialize(tracing.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: Version,
		Enabled:        cfg.Tracing.Enabled,
		DaemonAddr:     cfg.Tracing.DaemonAddr,
	}, appLog); err != nil {
		appLog.WithError(err).Fatal("Failed to initialize tracing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stack, err := datasource.NewFactory(cfg, appLog).Build(ctx)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build data provider")
	}
	defer func() {
		if err := stack.Close(); err != nil {
			appLog.WithError(err).Error("Failed to close data provider")
		}
	}()
	provider := stack.Provider

	parlays := service.NewParlayService(provider, service.OptionsFromConfig(cfg.Analysis), appLog)

	apiCfg := api.Config{
		Addr:         cfg.ServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		Debug:        cfg.IsDevelopment(),
	}
	if cfg.Metrics.Enabled {
		apiCfg.MetricsPath = cfg.Metrics.Path
	}
	if cfg.Tracing.Enabled {
		apiCfg.TraceName = cfg.App.Name
	}
	apiServer := api.NewServer(apiCfg, parlays, appLog)

	dependencies := map[string]health.Pinger{provider.Name(): provider}
	if stack.Store != nil {
		dependencies["cache"] = stack.Store
	}
	healthServer := health.NewServer(health.Config{
		ServiceName:  cfg.App.Name,
		Version:      Version,
		Commit:       GitCommit,
		Port:         strconv.Itoa(cfg.Health.Port),
		Logger:       appLog,
		Dependencies: dependencies,
		CheckTTL:     cfg.HealthCheckTTL(),
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	var warmer *scheduler.Scheduler
	if cfg.Warmup.Enabled {
		warmer = scheduler.NewScheduler(parlays, appLog)
		if err := warmer.ScheduleWarmup(cfg.Warmup.Schedule); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule cache warm-up")
		}
		if err := warmer.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", warmer.GetNextRun()).Info("Cache warm-up scheduled")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- apiServer.ListenAndServe()
	}()

	healthServer.SetReady(true)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			appLog.WithError(err).Error("API server stopped unexpectedly")
		}
	}

	appLog.Info("Initiating graceful shutdown...")
	healthServer.SetReady(false)

	if warmer != nil {
		warmer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		appLog.WithError(err).Error("Error during API server shutdown")
	}

	cancel()
	appLog.Info("Parlay advisor shut down successfully")
}
