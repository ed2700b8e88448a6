package testsupport

import (
	"path/filepath"
	"testing"

	"comicz/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "data", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithQuality overrides the encode quality.
func WithQuality(q int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Quality = q
	}
}

// WithMultiProcessing overrides the per-archive entry concurrency.
func WithMultiProcessing(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.MultiProcessing = n
	}
}

// WithParallel enables per-file dispatch across n workers.
func WithParallel(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.Parallel = true
		b.cfg.Conversion.ParallelWorkers = n
	}
}

// WithoutHistory disables the history ledger.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
