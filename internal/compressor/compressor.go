package compressor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"comicz/internal/archive"
	"comicz/internal/config"
	"comicz/internal/faults"
	"comicz/internal/logging"
	"comicz/internal/router"
	"comicz/internal/transcode"
)

// OutputExtension is forced onto every destination path.
const OutputExtension = ".cbz"

// Options is the job configuration shared by every Compress call.
type Options struct {
	Quality        int
	MaxParallelism int
}

// Compressor recompresses archives with a fixed quality and entry concurrency.
// It holds no per-call state and may be shared across goroutines.
type Compressor struct {
	opts      Options
	logger    *slog.Logger
	transcode func(data []byte, quality int) ([]byte, error)
}

// New constructs a Compressor. MaxParallelism below 1 is treated as 1.
func New(opts Options, logger *slog.Logger) *Compressor {
	if opts.MaxParallelism < 1 {
		opts.MaxParallelism = 1
	}
	return &Compressor{
		opts:      opts,
		logger:    logging.NewComponentLogger(logger, "compressor"),
		transcode: transcode.Transcode,
	}
}

// NewFromConfig constructs a Compressor from the conversion section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Compressor {
	return New(Options{
		Quality:        cfg.Conversion.Quality,
		MaxParallelism: cfg.Conversion.MultiProcessing,
	}, logger)
}

// Options returns the job configuration.
func (c *Compressor) Options() Options {
	return c.opts
}

// DestinationPath returns the path Compress writes for src when asked to write
// dst. An empty dst places the output beside src. The extension is always
// replaced with .cbz.
func DestinationPath(src, dst string) string {
	if strings.TrimSpace(dst) == "" {
		dst = src
	}
	return strings.TrimSuffix(dst, filepath.Ext(dst)) + OutputExtension
}

// Compress converts the archive at src into a CBZ at dst (see DestinationPath).
// An unsupported source extension is logged and reported through
// Result.Unsupported with a nil error. Open, extract, and finalize failures
// are returned; in that case no file is left at the destination.
func (c *Compressor) Compress(ctx context.Context, src, dst string) (*Result, error) {
	start := time.Now()
	logger := logging.WithContext(ctx, c.logger).With(logging.String(logging.FieldArchive, src))
	result := &Result{Source: src}

	if !archive.Supported(src) {
		logging.WarnWithContext(logger, "unsupported container skipped", "unsupported_container",
			logging.String("extension", filepath.Ext(src)),
			logging.String(logging.FieldErrorHint, "only .cbz, .zip, .cbr and .rar are read"),
			logging.String(logging.FieldImpact, "no output produced for this file"),
		)
		result.Unsupported = true
		return result, nil
	}

	result.Output = DestinationPath(src, dst)
	logger = logger.With(logging.String(logging.FieldOutput, result.Output))
	logger.Info("archive processing started",
		logging.Int("quality", c.opts.Quality),
		logging.Int("max_parallelism", c.opts.MaxParallelism),
	)
	if info, err := os.Stat(src); err == nil {
		result.InputBytes = info.Size()
	}

	entries, err := c.extract(src)
	if err != nil {
		return result, err
	}
	logger.Debug("entries extracted", logging.Int("entries", len(entries)))

	out := archive.NewOutput(logger)
	results, err := c.fanOut(ctx, logger, entries, out)
	if err != nil {
		return result, err
	}
	result.fold(results)

	size, err := out.Finalize(result.Output)
	if err != nil {
		return result, err
	}
	result.OutputBytes = size
	result.Elapsed = time.Since(start)

	logger.Info("archive processing finished",
		logging.Int("entries", result.Entries),
		logging.Int("transcoded", result.Transcoded),
		logging.Int("passed_through", result.PassedThrough),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed),
		logging.Int("duplicates", result.Duplicates),
		logging.Int64("input_bytes", result.InputBytes),
		logging.Int64("output_bytes", result.OutputBytes),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// extract reads every entry before any worker starts; the source is closed
// before fan-out because RAR streams cannot be shared between goroutines.
func (c *Compressor) extract(src string) ([]archive.Entry, error) {
	source, err := archive.Open(src)
	if err != nil {
		return nil, err
	}
	entries, err := archive.Extract(source)
	if closeErr := source.Close(); closeErr != nil && err == nil {
		err = faults.Wrap(faults.ErrCorruptContainer, "compressor", "close source", src, closeErr)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Compressor) fanOut(ctx context.Context, logger *slog.Logger, entries []archive.Entry, out *archive.Output) ([]EntryResult, error) {
	results := make([]EntryResult, len(entries))
	var g errgroup.Group
	g.SetLimit(c.opts.MaxParallelism)

	for i := range entries {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return nil, fmt.Errorf("compress interrupted before entry %q: %w", entries[i].Name, err)
		}
		g.Go(func() error {
			results[i] = c.processEntry(logger, entries[i], out)
			entries[i].Data = nil
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

func (c *Compressor) processEntry(logger *slog.Logger, entry archive.Entry, out *archive.Output) EntryResult {
	res := EntryResult{Name: entry.Name}

	switch router.Classify(entry.Name) {
	case router.Skip:
		res.Outcome = OutcomeSkipped
		logger.Debug("metadata entry skipped", logging.String(logging.FieldEntry, entry.Name))
		return res

	case router.PassThrough:
		res.OutputName = entry.Name
		res.Outcome = OutcomePassedThrough

	case router.Transcode:
		data, err := c.transcode(entry.Data, c.opts.Quality)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			logging.WarnWithContext(logger, "page transcode failed; entry dropped", "entry_"+faults.Kind(err),
				logging.String(logging.FieldEntry, entry.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "open the page in an image viewer to confirm it is damaged"),
				logging.String(logging.FieldImpact, "page missing from output archive"),
			)
			return res
		}
		res.OutputName = router.OutputName(entry.Name)
		res.Outcome = OutcomeTranscoded
		entry = archive.Entry{Name: res.OutputName, Data: data, Modified: entry.Modified}
	}

	if !out.Append(entry) {
		res.Outcome = OutcomeDuplicate
	}
	return res
}
