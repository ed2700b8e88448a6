package testsupport

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// Entry is a fixture entry. Names ending in "/" are written as directories.
type Entry struct {
	Name string
	Data []byte
}

// RARFixtureModified is the DOS timestamp stored on every entry of the RAR
// fixture. RAR keeps it as local wall-clock time.
var RARFixtureModified = [6]int{2023, 5, 17, 10, 20, 30}

// RARFixtureText is the content of pages/002.txt in the RAR fixture.
const RARFixtureText = "credits\n"

// CopyRARFixture copies testdata/pages.cbr (a RAR 4 archive with stored
// entries: directory "pages", then pages/001.png 4x3, pages/002.txt,
// pages/003.png 6x2) to dir and returns the new path.
func CopyRARFixture(t testing.TB, dir string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("locate testsupport package")
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(file), "testdata", "pages.cbr"))
	if err != nil {
		t.Fatalf("read rar fixture: %v", err)
	}
	path := filepath.Join(dir, "pages.cbr")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write rar fixture: %v", err)
	}
	return path
}

// SameWallClock reports whether got shows the given year, month, day, hour,
// minute, and second in its own location.
func SameWallClock(got time.Time, want [6]int) bool {
	return got.Year() == want[0] && int(got.Month()) == want[1] && got.Day() == want[2] &&
		got.Hour() == want[3] && got.Minute() == want[4] && got.Second() == want[5]
}

// WriteCBZ writes entries into a ZIP container at path in the given order.
func WriteCBZ(t testing.TB, path string, entries ...Entry) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		if strings.HasSuffix(e.Name, "/") {
			if _, err := zw.Create(e.Name); err != nil {
				t.Fatalf("create dir entry %s: %v", e.Name, err)
			}
			continue
		}
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("create entry %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("write entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
	return path
}

// ReadCBZ returns the entries of the ZIP container at path keyed by name,
// failing the test if a name appears twice.
func ReadCBZ(t testing.TB, path string) map[string][]byte {
	t.Helper()
	rc, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer rc.Close()

	out := make(map[string][]byte, len(rc.File))
	for _, f := range rc.File {
		if _, dup := out[f.Name]; dup {
			t.Fatalf("duplicate entry %s in %s", f.Name, path)
		}
		if f.Method != zip.Deflate {
			t.Fatalf("entry %s uses method %d, want deflate", f.Name, f.Method)
		}
		r, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(r)
		_ = r.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		out[f.Name] = data
	}
	return out
}
