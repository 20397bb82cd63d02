package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"grana/internal/advisor"
	"grana/internal/backend"
	"grana/internal/cache"
	"grana/internal/cli"
	apphttp "grana/internal/http"
	"grana/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", "error", err, "type", backendCfg.Type)
		os.Exit(1)
	}

	insights := services.NewInsightService(result.Backend)

	janitor := cache.NewJanitor()
	insights.RegisterStores(janitor)
	janitor.Start(10 * time.Minute)

	opts := apphttp.Options{
		Ledger:         result.Backend,
		Insights:       insights,
		Advisor:        advisor.NewContextBuilder(insights, cfg.ProjectionHorizon),
		DefaultHorizon: cfg.ProjectionHorizon,
	}
	if result.Ledger != nil {
		opts.RequestReport = result.Ledger.RequestReport
		result.Ledger.OnChange(insights.Invalidate)
	}

	srv := apphttp.NewServer(":"+cfg.Port, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		janitor.Stop()
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting grana server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"projection_horizon", cfg.ProjectionHorizon)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
