package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"grana/internal/amqp"
	"grana/internal/cli"
	"grana/internal/services"
)

// reportRequestSpec asks for last month's report shortly after the
// materializer ran on the 1st.
const reportRequestSpec = "0 7 1 * *"

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting schedule-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.LedgerQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	ledgerService := services.NewLedgerService(repo, amqpClient)
	materializer := services.NewMaterializer(repo, ledgerService)

	scheduler := cron.New()

	_, err := scheduler.AddFunc(cfg.MaterializeSpec, func() {
		ctx, cancel := contextWithTimeout(2 * time.Minute)
		defer cancel()

		created, err := materializer.MaterializeMonth(ctx, time.Now())
		if err != nil {
			logger.Error("Materialization run failed", "error", err)
			return
		}
		if created > 0 {
			logger.Info("Materialized scheduled expenses", "created", created)
		}
	})
	if err != nil {
		logger.Error("Invalid materialize cron spec", "spec", cfg.MaterializeSpec, "error", err)
		return
	}

	_, err = scheduler.AddFunc(reportRequestSpec, func() {
		ctx, cancel := contextWithTimeout(time.Minute)
		defer cancel()

		lastMonth := time.Now().AddDate(0, -1, 0).Format("2006-01")
		if err := ledgerService.RequestReport(ctx, lastMonth); err != nil {
			logger.Error("Monthly report request failed", "month", lastMonth, "error", err)
			return
		}
		logger.Info("Monthly report requested", "month", lastMonth)
	})
	if err != nil {
		logger.Error("Invalid report cron spec", "spec", reportRequestSpec, "error", err)
		return
	}

	scheduler.Start()
	logger.Info("Scheduler running",
		"materialize_spec", cfg.MaterializeSpec,
		"report_spec", reportRequestSpec,
		"sqlite_db", cfg.SQLiteDBPath)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
	})

	cli.WaitForShutdown(ctx, done)
	logger.Info("Scheduler stopped gracefully")
}

func contextWithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
