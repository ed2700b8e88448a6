package batch

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"comicz/internal/logging"
)

// StaleArtifactAge is how old a leftover temp or lock file must be before
// CleanStale removes it.
const StaleArtifactAge = 6 * time.Hour

// CleanResult contains the outcome of a stale artifact sweep.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes artifacts that interrupted runs leave under outputDir:
// half-written ".<name>.cbz.*.tmp" files and "<name>.cbz.lock" files. Only
// files older than maxAge are considered, and lock files still held by a live
// process are kept.
func CleanStale(outputDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}

	outputDir = strings.TrimSpace(outputDir)
	if outputDir == "" {
		return result
	}
	cutoff := time.Now().Add(-maxAge)

	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if !os.IsNotExist(walkErr) {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: walkErr})
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		kind := artifactKind(d.Name())
		if kind == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}
		if kind == "lock" {
			var held bool
			if held, err = removeUnheldLock(path); err == nil && held {
				return nil
			}
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale "+kind+" file", "output_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check output_dir permissions"),
				logging.String(logging.FieldImpact, "leftover file remains in the output tree"),
			)
			return nil
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale "+kind+" file",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime()).Round(time.Second)),
				logging.String(logging.FieldEventType, "output_cleanup"),
			)
		}
		return nil
	})
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: outputDir, Error: err})
	}
	return result
}

func artifactKind(name string) string {
	switch {
	case strings.HasSuffix(name, ".cbz.lock"):
		return "lock"
	case strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp") && strings.Contains(name, ".cbz."):
		return "temp"
	default:
		return ""
	}
}

// removeUnheldLock deletes a lock file only if no process holds it, and
// deletes it while holding the lock itself.
func removeUnheldLock(path string) (held bool, err error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil || !ok {
		return true, nil
	}
	defer func() { _ = lock.Unlock() }()
	return false, os.Remove(path)
}
