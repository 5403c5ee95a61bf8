package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/eburton/receiptmatch/internal/adapters/snapshot"
	"github.com/eburton/receiptmatch/internal/application/recon"
	"github.com/eburton/receiptmatch/internal/cli"
	"github.com/eburton/receiptmatch/internal/domain/matcher"
	"github.com/eburton/receiptmatch/internal/infrastructure/config"
	"github.com/eburton/receiptmatch/internal/infrastructure/logging"
	"github.com/eburton/receiptmatch/internal/infrastructure/storage"
)

func main() {
	flags := cli.ParseMatchFlags()

	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "match")

	cli.PrintHeader(flags.DryRun)

	// Load snapshots
	txns, err := snapshot.ReadLedger(cfg.Snapshots.LedgerPath, logger)
	if err != nil {
		logger.Error("Failed to load ledger snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ordersByAccount, err := snapshot.ReadOrdersByAccount(cfg.Snapshots.OrderPaths, logger)
	if err != nil {
		logger.Error("Failed to load order snapshots", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cands := matcher.Candidates{OrdersByAccount: ordersByAccount}
	if cfg.Snapshots.ReceiptsPath != "" {
		receipts, err := snapshot.ReadReceipts(cfg.Snapshots.ReceiptsPath, logger)
		if err != nil {
			logger.Error("Failed to load receipt snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cands.Receipts = receipts
	}

	// Initialize the review store
	store, err := storage.NewStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// Run reconciliation
	matcherCfg := recon.MatcherConfig(cfg.Matching, cfg.Sources)
	orchestrator := recon.New(matcherCfg, store, logger)

	result, err := orchestrator.Run(context.Background(), txns, cands, flags.ToOptions())
	if err != nil {
		logger.Error("Reconciliation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cli.PrintRunSummary(result, store, flags.DryRun)
}
