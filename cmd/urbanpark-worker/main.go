package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"urbanpark/internal/amqp"
	"urbanpark/internal/config"
	"urbanpark/internal/export"
	exportgoogle "urbanpark/internal/export/google"
	exportmem "urbanpark/internal/export/memory"
	"urbanpark/internal/log"
	"urbanpark/internal/store/sqlite"
	"urbanpark/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production).
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting urbanpark-worker", log.FieldOperation, log.OpStartup)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	// The worker reads the same database the server writes.
	st, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite store", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		receiptWriter export.ReceiptWriter
		saleWriter    export.SaleWriter
		reportWriter  export.ReportWriter
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := exportgoogle.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		receiptWriter, saleWriter, reportWriter = client, client, client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		exp := exportmem.New()
		receiptWriter, saleWriter, reportWriter = exp, exp, exp
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided, exporting to memory only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	expWorker := worker.NewExportWorker(st, receiptWriter, saleWriter, reportWriter)

	// One report pass at startup so a fresh sheet is populated before
	// the first tick.
	if err := expWorker.ExportProfitReport(ctx); err != nil {
		logger.Error("Startup report export failed", log.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return expWorker.Run(ctx, amqpClient, cfg.ExportInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
