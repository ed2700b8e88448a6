package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"comicz/internal/testsupport"
)

func TestCleanStale(t *testing.T) {
	root := t.TempDir()
	old := time.Now().Add(-2 * StaleArtifactAge)

	staleTemp := filepath.Join(root, "series", ".issue1.cbz.123456.tmp")
	staleLock := filepath.Join(root, "series", "issue2.cbz.lock")
	heldLock := filepath.Join(root, "issue3.cbz.lock")
	freshTemp := filepath.Join(root, ".issue4.cbz.999.tmp")
	output := filepath.Join(root, "issue5.cbz")
	unrelated := filepath.Join(root, "notes.tmp")

	for _, path := range []string{staleTemp, staleLock, heldLock, freshTemp, output, unrelated} {
		testsupport.WriteFile(t, path, 4)
	}
	for _, path := range []string{staleTemp, staleLock, heldLock, output, unrelated} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	held := flock.New(heldLock)
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	result := CleanStale(root, StaleArtifactAge, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 2 {
		t.Fatalf("removed %v, want the stale temp and lock", result.Removed)
	}
	for _, path := range []string{staleTemp, staleLock} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("%s should be removed", path)
		}
	}
	for _, path := range []string{heldLock, freshTemp, output, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("%s should remain: %v", path, err)
		}
	}
}

func TestCleanStaleMissingDir(t *testing.T) {
	result := CleanStale(filepath.Join(t.TempDir(), "absent"), time.Hour, nil)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if got := CleanStale("", time.Hour, nil); len(got.Removed) != 0 {
		t.Fatalf("expected no-op for empty dir")
	}
}
