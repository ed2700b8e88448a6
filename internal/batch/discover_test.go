package batch

import (
	"path/filepath"
	"reflect"
	"testing"

	"comicz/internal/testsupport"
)

func TestDiscover(t *testing.T) {
	root := filepath.Join(t.TempDir(), "comics")
	for _, name := range []string{"b.CBR", "a.cbz", "notes.txt", "sub/c.cbz", "sub/deeper/d.rar", "sub/e.pdf"} {
		testsupport.WriteFile(t, filepath.Join(root, name), 4)
	}

	flat, err := Discover(root, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	wantFlat := []string{filepath.Join(root, "a.cbz"), filepath.Join(root, "b.CBR")}
	if !reflect.DeepEqual(flat, wantFlat) {
		t.Fatalf("flat = %v, want %v", flat, wantFlat)
	}

	deep, err := Discover(root, true)
	if err != nil {
		t.Fatalf("Discover recursive: %v", err)
	}
	wantDeep := []string{
		filepath.Join(root, "a.cbz"),
		filepath.Join(root, "b.CBR"),
		filepath.Join(root, "sub", "c.cbz"),
		filepath.Join(root, "sub", "deeper", "d.rar"),
	}
	if !reflect.DeepEqual(deep, wantDeep) {
		t.Fatalf("deep = %v, want %v", deep, wantDeep)
	}

	single, err := Discover(filepath.Join(root, "notes.txt"), false)
	if err != nil {
		t.Fatalf("Discover file: %v", err)
	}
	if len(single) != 1 || single[0] != filepath.Join(root, "notes.txt") {
		t.Fatalf("file input should be returned as-is, got %v", single)
	}

	if _, err := Discover(filepath.Join(root, "missing"), false); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name, input, file, base, want string
	}{
		{"single file", "/in/book.cbr", "/in/book.cbr", "out", "out/book.cbz"},
		{"directory keeps its name", "/in/comics", "/in/comics/a.cbr", "out", "out/comics/a.cbz"},
		{"trailing slash", "/in/comics/", "/in/comics/sub/b.zip", "/abs", "/abs/comics/sub/b.cbz"},
		{"already cbz", "/in/comics", "/in/comics/c.cbz", "out", "out/comics/c.cbz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputPath(tt.input, tt.file, tt.base); got != tt.want {
				t.Fatalf("OutputPath = %q, want %q", got, tt.want)
			}
		})
	}
}
