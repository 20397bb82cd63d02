package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"grana/internal/adapters"
	"grana/internal/amqp"
	"grana/internal/cli"
	"grana/internal/report"
	"grana/internal/services"
	"grana/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting grana-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The worker reads snapshots straight from storage; it never writes
	// through the ledger service.
	snapshots := adapters.NewSQLiteAdapter(repo, services.NewLedgerService(repo, nil))
	builder := report.NewBuilder(snapshots)

	var sink report.Sink
	if cfg.ReportSpreadsheetID != "" {
		sheetsSink, err := report.NewSheetsSink(context.Background(), cfg.ReportSpreadsheetID, cfg.ReportSheetName)
		if err != nil {
			logger.Error("Failed to initialize Sheets sink", "error", err)
			os.Exit(1)
		}
		sink = sheetsSink
		logger.Info("Sheets report sink initialized", "spreadsheet_id", cfg.ReportSpreadsheetID)
	} else {
		sink = report.LogSink{}
		logger.Info("No REPORT_SPREADSHEET_ID set, reports go to the log")
	}

	reportWorker := worker.NewReportWorker(repo, builder, sink, cfg.ReportBatchSize)

	// AMQP is optional; without it the outbox drain still exports
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.ReportQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, running on outbox drain only", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "queue", cfg.ReportQueue)
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := reportWorker.StartupCheck(ctx); err != nil {
		logger.Error("Startup report check failed", "error", err)
		// Keep running; the drain loop retries
	}

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeReportRequests(gctx, func(msg *amqp.ReportRequestMessage) error {
				return reportWorker.HandleReportRequest(gctx, msg)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(cfg.OutboxInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := reportWorker.DrainOutbox(gctx); err != nil {
					logger.Error("Outbox drain failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
