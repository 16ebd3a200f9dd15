// Command exportdw runs the export-declaration warehouse pipeline end to
// end: ingest the configured periods, integrate and clean them, rebuild the
// star schema, and print the fixed reports.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"exportdw/internal/config"
	"exportdw/internal/infrastructure"
	"exportdw/internal/ingest"
	"exportdw/internal/report"
	"exportdw/internal/transform"
	"exportdw/internal/warehouse"
)

func main() {
	configFile := flag.String("config", "config.yaml", "path to optional YAML configuration file")
	dataDir := flag.String("data", "", "data directory override (defaults to ./data)")
	flag.Parse()

	cfg, err := config.Load(*configFile, *dataDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("failed to create directories", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging).
		With(slog.String("run_id", uuid.New().String()))

	ctx := context.Background()
	start := time.Now()
	logger.Info("pipeline starting", slog.Int("periods", len(cfg.Periods)))

	reader := ingest.NewReader(cfg, logger)
	frames, err := reader.ReadAll(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	transformer := transform.New(logger)
	core := transformer.Integrate(ctx, cfg.Periods, frames)
	if !core.Empty() {
		if err := transformer.WriteCore(core, cfg.CorePath()); err != nil {
			logger.Error("failed to write core snapshot", "error", err)
			os.Exit(1)
		}
	}

	store, err := warehouse.Open(cfg.WarehousePath(), logger)
	if err != nil {
		logger.Error("failed to open warehouse", "error", err)
		os.Exit(1)
	}
	if err := store.BuildSemanticLayer(ctx, core); err != nil {
		logger.Error("semantic layer build failed", "error", err)
		store.Close()
		os.Exit(1)
	}

	// Reporting is attempted even after a failed build; queries against a
	// missing fact table surface as logged errors.
	year, lastMonth := lastPeriod(cfg)
	analyzer := report.NewAnalyzer(store, logger, os.Stdout)
	if err := analyzer.Run(ctx, year, lastMonth); err != nil {
		logger.Error("reporting finished with errors", "error", err)
	}
	store.Close()

	logger.Info("pipeline finished", slog.Duration("elapsed", time.Since(start)))
}

// lastPeriod derives the reporting year and month from the final configured
// period name (YYYY-MM), falling back to the current date.
func lastPeriod(cfg *config.Config) (int, int) {
	if len(cfg.Periods) > 0 {
		name := cfg.Periods[len(cfg.Periods)-1].Name
		if t, err := time.Parse("2006-01", name); err == nil {
			return t.Year(), int(t.Month())
		}
	}
	now := time.Now()
	return now.Year(), int(now.Month())
}
