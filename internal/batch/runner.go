package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"comicz/internal/archive"
	"comicz/internal/compressor"
	"comicz/internal/config"
	"comicz/internal/fileutil"
	"comicz/internal/history"
	"comicz/internal/logging"
)

// Converter recompresses a single archive.
type Converter interface {
	Compress(ctx context.Context, src, dst string) (*compressor.Result, error)
}

// Recorder persists conversion attempts.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) (int64, error)
}

// Runner drives a batch of conversions.
type Runner struct {
	cfg       *config.Config
	converter Converter
	recorder  Recorder
	logger    *slog.Logger
}

// NewRunner wires a runner. recorder may be nil when history is disabled.
func NewRunner(cfg *config.Config, converter Converter, recorder Recorder, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		converter: converter,
		recorder:  recorder,
		logger:    logging.NewComponentLogger(logger, "batch"),
	}
}

// Run converts files, all discovered under input. Per-file failures are
// counted in the returned Stats; an error is returned only when ctx is
// cancelled before every file was dispatched.
func (r *Runner) Run(ctx context.Context, input string, files []string) (*Stats, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	workers := r.cfg.FileWorkers()
	logger.Info("batch started",
		logging.String("input", input),
		logging.Int("files", len(files)),
		logging.Int("file_workers", workers),
		logging.String(logging.FieldOutput, r.cfg.Paths.OutputDir),
	)

	results := make([]FileResult, len(files))
	dispatched := make([]bool, len(files))
	var g errgroup.Group
	g.SetLimit(workers)

	var runErr error
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("batch interrupted: %w", err)
			break
		}
		dispatched[i] = true
		g.Go(func() error {
			results[i] = r.processFile(ctx, logger, input, file)
			return nil
		})
	}
	_ = g.Wait()

	stats := &Stats{RunID: runID}
	for i, fr := range results {
		if dispatched[i] {
			stats.add(fr)
		}
	}
	stats.Elapsed = time.Since(start)

	logger.Info("batch finished",
		logging.Int("converted", stats.Converted),
		logging.Int("unsupported", stats.Unsupported),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed),
		logging.Duration("elapsed", stats.Elapsed),
	)
	return stats, runErr
}

func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, input, file string) FileResult {
	started := time.Now()
	out := OutputPath(input, file, r.cfg.Paths.OutputDir)
	fr := FileResult{Source: file, Output: out}
	fileLogger := logger.With(logging.String(logging.FieldArchive, file))

	finish := func(res *compressor.Result, err error) FileResult {
		finished := time.Now()
		fr.Elapsed = finished.Sub(started)
		if fr.Status == "" {
			rec := history.FromResult(runIDOf(ctx), file, res, err, started, finished)
			fr.Status, fr.Result, fr.Err = rec.Status, res, err
			if res != nil {
				fr.Output = res.Output
			}
			r.record(ctx, fileLogger, rec)
		} else {
			r.record(ctx, fileLogger, history.Record{
				RunID:        runIDOf(ctx),
				SourcePath:   file,
				OutputPath:   out,
				Status:       fr.Status,
				ErrorMessage: fr.Reason,
				StartedAt:    started,
				FinishedAt:   finished,
			})
		}
		return fr
	}

	if !archive.Supported(file) {
		return finish(r.converter.Compress(ctx, file, out))
	}

	if r.cfg.Conversion.SkipExisting && fileutil.Exists(out) {
		fileLogger.Info("output exists; skipping", logging.String(logging.FieldOutput, out))
		fr.Status, fr.Reason = history.StatusSkipped, "output exists"
		return finish(nil, nil)
	}

	unlock, locked, err := lockOutput(out)
	if err != nil {
		logging.ErrorWithContext(fileLogger, "output lock failed", "output_lock_failed",
			logging.Error(err),
			logging.String(logging.FieldOutput, out),
			logging.String(logging.FieldErrorHint, "check output directory permissions"),
		)
		return finish(nil, err)
	}
	if !locked {
		logging.WarnWithContext(fileLogger, "output locked by another run; skipping", "output_locked",
			logging.String(logging.FieldOutput, out),
			logging.String(logging.FieldErrorHint, "wait for the other comicz process or remove a stale "+filepath.Base(out)+".lock"),
			logging.String(logging.FieldImpact, "archive not converted in this run"),
		)
		fr.Status, fr.Reason = history.StatusSkipped, "output locked"
		return finish(nil, nil)
	}
	defer unlock()

	res, err := r.converter.Compress(ctx, file, out)
	if err != nil {
		logging.ErrorWithContext(fileLogger, "archive conversion failed", "archive_failed",
			logging.Error(err),
			logging.String(logging.FieldOutput, out),
			logging.String(logging.FieldErrorHint, "check that the archive opens in a comic reader and the output directory is writable"),
		)
	}
	return finish(res, err)
}

// lockOutput takes an exclusive advisory lock beside out so concurrent runs
// never write the same archive. The returned func releases it. The lock file
// itself stays on disk; unlinking it would let a waiter holding the old inode
// and a newcomer on a fresh file both acquire. CleanStale removes old ones.
func lockOutput(out string) (func(), bool, error) {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, false, fmt.Errorf("create output directory: %w", err)
	}
	lockPath := out + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return func() { _ = lock.Unlock() }, true, nil
}

func (r *Runner) record(ctx context.Context, logger *slog.Logger, rec history.Record) {
	if r.recorder == nil {
		return
	}
	// Recorded even after cancellation.
	if _, err := r.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "conversion missing from comicz history"),
		)
	}
}

func runIDOf(ctx context.Context) string {
	id, _ := logging.RunIDFromContext(ctx)
	return id
}
