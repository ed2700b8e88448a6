package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"comicz/internal/batch"
	"comicz/internal/compressor"
	"comicz/internal/config"
	"comicz/internal/faults"
	"comicz/internal/history"
	"comicz/internal/logging"
	"comicz/internal/preflight"
)

type convertOptions struct {
	input           string
	output          string
	recursive       bool
	skip            bool
	quality         int
	parallel        bool
	multiProcessing int
	workers         int
	noHistory       bool
	verbose         bool
}

// applyOverrides copies explicitly set flags onto cfg and re-validates it.
func (o convertOptions) applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Paths.OutputDir = o.output
	}
	if flags.Changed("recursive") {
		cfg.Conversion.Recursive = o.recursive
	}
	if flags.Changed("skip") {
		cfg.Conversion.SkipExisting = o.skip
	}
	if flags.Changed("quality") {
		cfg.Conversion.Quality = o.quality
	}
	if flags.Changed("parallel") {
		cfg.Conversion.Parallel = o.parallel
	}
	if flags.Changed("multi-processing") {
		cfg.Conversion.MultiProcessing = o.multiProcessing
	}
	if flags.Changed("workers") {
		cfg.Conversion.ParallelWorkers = o.workers
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return faults.Wrap(faults.ErrConfiguration, "cli", "flags", "", err)
	}
	return nil
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions) error {
	start := time.Now()
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfgCopy := *loaded
	cfg := &cfgCopy
	if err := opts.applyOverrides(cmd, cfg); err != nil {
		return err
	}

	input, err := config.ExpandPath(strings.TrimSpace(opts.input))
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if failed := preflight.Failed(preflight.RunAll(cfg, input)); len(failed) > 0 {
		rows := make([][]string, 0, len(failed))
		for _, r := range failed {
			rows = append(rows, []string{r.Name, r.Detail})
		}
		fmt.Fprintln(cmd.ErrOrStderr(), renderTable([]string{"Check", "Detail"}, rows, nil))
		return errors.New("preflight checks failed")
	}

	logger, err := ctx.newLogger(cfg)
	if err != nil {
		return err
	}

	if swept := batch.CleanStale(cfg.Paths.OutputDir, batch.StaleArtifactAge, logger); len(swept.Removed) > 0 {
		logger.Info("output tree cleaned", logging.Int("removed", len(swept.Removed)))
	}

	files, err := batch.Discover(input, cfg.Conversion.Recursive)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "%v under %s\n", batch.ErrNoFiles, input)
		return nil
	}

	var recorder batch.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.Paths.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		recorder = store
	}

	runner := batch.NewRunner(cfg, compressor.NewFromConfig(cfg, logger), recorder, logger)
	stats, runErr := runner.Run(cmd.Context(), input, files)

	fmt.Fprintln(out, batch.RenderSummary(stats, opts.verbose))
	logger.Info("run complete",
		logging.String(logging.FieldRunID, stats.RunID),
		logging.Duration("elapsed", time.Since(start)),
	)
	return runErr
}
