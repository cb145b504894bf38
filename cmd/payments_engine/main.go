package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/payments-engine/internal/config"
	"github.com/payments-engine/internal/data/postgres"
	"github.com/payments-engine/internal/domain/snapshot"
	"github.com/payments-engine/internal/engine"
	"github.com/payments-engine/internal/ingest"
	"github.com/payments-engine/internal/logger"
	"github.com/payments-engine/internal/platform/persistence"
	"github.com/payments-engine/internal/report"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}
	inputPath := os.Args[1]

	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("payments_engine")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger; every line of this run carries the run id.
	// The report goes to stdout, so logs go to stderr.
	runID := uuid.New()
	log := logger.NewLogger(cfg).With("run_id", runID.String())

	log.Info("Starting payments engine",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"input", inputPath,
		"shards", cfg.Engine.Shards,
	)

	input, err := os.Open(inputPath)
	if err != nil {
		log.Error("Failed to open input file", "path", inputPath, "error", err)
		os.Exit(1)
	}
	defer input.Close()

	// Build the processor: one shard is the reference sequential fold,
	// more shards partition clients across parallel workers.
	var processor engine.Processor
	if cfg.Engine.Shards > 1 {
		sharded, err := engine.NewShardedProcessor(cfg.Engine.Shards, log)
		if err != nil {
			log.Error("Failed to create sharded processor", "error", err)
			os.Exit(1)
		}
		processor = sharded
	} else {
		processor = engine.NewEngine(log)
	}

	// Fold the record stream into the ledger
	reader := ingest.NewReader(input, cfg.Engine.AmountPrecision, log)
	records := 0
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Error("Failed reading input", "path", inputPath, "error", err)
			os.Exit(1)
		}
		processor.Submit(rec)
		records++
	}
	processor.Close()

	accounts := processor.Accounts()
	log.Info("Input exhausted",
		"records", records,
		"malformed", reader.Malformed(),
		"clients", len(accounts),
	)

	// Emit the final account table
	if err := report.Write(os.Stdout, accounts, cfg.Engine.AmountPrecision); err != nil {
		log.Error("Failed to write report", "error", err)
		os.Exit(1)
	}

	// Optionally persist the run as a snapshot
	if cfg.Snapshot.Enabled {
		db, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
		if err != nil {
			log.Error("Failed to initialize PostgreSQL", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		repo := postgres.NewSnapshotRepository(log, db)
		rows := snapshot.FromAccounts(runID, accounts, time.Now().UTC())
		err = db.ExecuteTx(appCtx, func(tx pgx.Tx) error {
			return repo.WithTx(tx).SaveRun(appCtx, rows)
		})
		if err != nil {
			log.Error("Failed to persist snapshot", "error", err)
			os.Exit(1)
		}
		log.Info("Snapshot persisted", "rows", len(rows))
	}

	log.Info("Run completed")
}
