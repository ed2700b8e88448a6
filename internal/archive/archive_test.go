package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"comicz/internal/faults"
	"comicz/internal/testsupport"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"book.cbz", KindZIP},
		{"book.CBZ", KindZIP},
		{"book.zip", KindZIP},
		{"dir/book.cbr", KindRAR},
		{"book.Rar", KindRAR},
		{"book.cb7", KindUnknown},
		{"notes.txt", KindUnknown},
		{"noext", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindOf(tt.path); got != tt.want {
			t.Errorf("KindOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
		if got := Supported(tt.path); got != (tt.want != KindUnknown) {
			t.Errorf("Supported(%q) = %v", tt.path, got)
		}
	}
}

func TestOpenUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	testsupport.WriteFile(t, path, 16)

	_, err := Open(path)
	if !errors.Is(err, faults.ErrUnsupportedContainer) {
		t.Fatalf("expected ErrUnsupportedContainer, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.cbz"))
	if !errors.Is(err, faults.ErrCorruptContainer) {
		t.Fatalf("expected ErrCorruptContainer, got %v", err)
	}
}

func TestOpenGarbageContainers(t *testing.T) {
	for _, name := range []string{"bogus.cbz", "bogus.cbr"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := os.WriteFile(path, bytes.Repeat([]byte("not an archive "), 64), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			src, err := Open(path)
			if err == nil {
				_, err = Extract(src)
				_ = src.Close()
			}
			if !errors.Is(err, faults.ErrCorruptContainer) {
				t.Fatalf("expected ErrCorruptContainer, got %v", err)
			}
		})
	}
}

func TestExtractPreservesOrderAndSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteCBZ(t, filepath.Join(dir, "book.cbz"),
		testsupport.Entry{Name: "pages/"},
		testsupport.Entry{Name: "pages/002.png", Data: []byte("two")},
		testsupport.Entry{Name: "pages/001.png", Data: []byte("one")},
		testsupport.Entry{Name: "ComicInfo.xml", Data: []byte("<ComicInfo/>")},
	)

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	if src.Kind() != KindZIP {
		t.Fatalf("kind = %q", src.Kind())
	}

	entries, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"pages/002.png", "pages/001.png", "ComicInfo.xml"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name, want[i])
		}
	}
	if string(entries[2].Data) != "<ComicInfo/>" {
		t.Errorf("unexpected data %q", entries[2].Data)
	}
}

func TestExtractRAR(t *testing.T) {
	path := testsupport.CopyRARFixture(t, t.TempDir())

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	if src.Kind() != KindRAR {
		t.Fatalf("kind = %q", src.Kind())
	}

	entries, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"pages/001.png", "pages/002.txt", "pages/003.png"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name, want[i])
		}
		if !testsupport.SameWallClock(e.Modified, testsupport.RARFixtureModified) {
			t.Errorf("entry %s modified %v", e.Name, e.Modified)
		}
	}
	if string(entries[1].Data) != testsupport.RARFixtureText {
		t.Errorf("text entry = %q", entries[1].Data)
	}
	for _, i := range []int{0, 2} {
		if !bytes.HasPrefix(entries[i].Data, []byte("\x89PNG")) {
			t.Errorf("entry %s is not a complete png", entries[i].Name)
		}
	}
	if err := src.Walk(func(Header, io.Reader) error { return nil }); err == nil {
		t.Fatal("second walk of a rar source should fail")
	}
}

func TestOutputRejectsDuplicates(t *testing.T) {
	out := NewOutput(nil)
	if !out.Append(Entry{Name: "a.webp", Data: []byte("first")}) {
		t.Fatal("first append rejected")
	}
	if out.Append(Entry{Name: "a.webp", Data: []byte("second")}) {
		t.Fatal("duplicate append accepted")
	}
	if out.Len() != 1 {
		t.Fatalf("Len = %d, want 1", out.Len())
	}

	path := filepath.Join(t.TempDir(), "out.cbz")
	if _, err := out.Finalize(path); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	got := testsupport.ReadCBZ(t, path)
	if string(got["a.webp"]) != "first" {
		t.Fatalf("kept %q, want first", got["a.webp"])
	}
}

func TestOutputConcurrentAppend(t *testing.T) {
	out := NewOutput(nil)
	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out.Append(Entry{Name: fmt.Sprintf("%03d.webp", i), Data: []byte{byte(i)}})
		}(i)
	}
	wg.Wait()
	if out.Len() != n {
		t.Fatalf("Len = %d, want %d", out.Len(), n)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.cbz")
	size, err := out.Finalize(path)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != size {
		t.Fatalf("reported size %d, file size %d", size, info.Size())
	}
	got := testsupport.ReadCBZ(t, path)
	if len(got) != n {
		t.Fatalf("archive has %d entries, want %d", len(got), n)
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%03d.webp", i)
		if !bytes.Equal(got[name], []byte{byte(i)}) {
			t.Fatalf("entry %s = %v", name, got[name])
		}
	}
}

func TestOutputPreservesModifiedTime(t *testing.T) {
	stamp := time.Date(2021, 6, 14, 10, 30, 0, 0, time.UTC)
	out := NewOutput(nil)
	out.Append(Entry{Name: "page.webp", Data: []byte("x"), Modified: stamp})

	path := filepath.Join(t.TempDir(), "out.cbz")
	if _, err := out.Finalize(path); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	entries, err := Extract(src)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(entries) != 1 || !entries[0].Modified.Equal(stamp) {
		t.Fatalf("modified = %v, want %v", entries[0].Modified, stamp)
	}
}

func TestOutputEmptyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cbz")
	if _, err := NewOutput(nil).Finalize(path); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got := testsupport.ReadCBZ(t, path); len(got) != 0 {
		t.Fatalf("expected empty archive, got %d entries", len(got))
	}
}

func TestFinalizeFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	testsupport.WriteFile(t, blocker, 4)

	out := NewOutput(nil)
	out.Append(Entry{Name: "a.webp", Data: []byte("a")})
	path := filepath.Join(blocker, "out.cbz")
	_, err := out.Finalize(path)
	if !errors.Is(err, faults.ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr == nil {
		t.Fatalf("output should not exist")
	}
}
