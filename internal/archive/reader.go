package archive

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"comicz/internal/faults"
)

// Kind identifies a supported container family.
type Kind string

const (
	KindUnknown Kind = ""
	KindZIP     Kind = "zip"
	KindRAR     Kind = "rar"
)

var containerKinds = map[string]Kind{
	".cbz": KindZIP,
	".zip": KindZIP,
	".cbr": KindRAR,
	".rar": KindRAR,
}

// KindOf maps a path to its container kind by extension (case-insensitive).
func KindOf(path string) Kind {
	return containerKinds[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether path has a readable container extension.
func Supported(path string) bool {
	return KindOf(path) != KindUnknown
}

// Header describes one non-directory entry of a source container.
type Header struct {
	Name     string
	Modified time.Time
	Size     int64
}

// WalkFunc receives each entry in archive order. The reader is only valid for
// the duration of the call.
type WalkFunc func(h Header, r io.Reader) error

// Source is an opened read-only container.
type Source interface {
	Kind() Kind
	// Walk visits every non-directory entry once. Sources are single-pass.
	Walk(fn WalkFunc) error
	Close() error
}

// Entry is an extracted entry owning its bytes.
type Entry struct {
	Name     string
	Data     []byte
	Modified time.Time
}

// Open opens the container at path. Unknown extensions yield an
// ErrUnsupportedContainer error; containers that cannot be opened or parsed
// yield ErrCorruptContainer.
func Open(path string) (Source, error) {
	switch KindOf(path) {
	case KindZIP:
		return openZIP(path)
	case KindRAR:
		return openRAR(path)
	default:
		return nil, faults.Wrap(faults.ErrUnsupportedContainer, "archive", "open", filepath.Ext(path), nil)
	}
}

// Extract reads every entry of src fully into memory, preserving archive order.
// A read failure anywhere in the container is reported as ErrCorruptContainer.
func Extract(src Source) ([]Entry, error) {
	var entries []Entry
	err := src.Walk(func(h Header, r io.Reader) error {
		var buf bytes.Buffer
		if h.Size > 0 && h.Size < maxPrealloc {
			buf.Grow(int(h.Size))
		}
		if _, err := io.Copy(&buf, r); err != nil {
			return faults.Wrap(faults.ErrCorruptContainer, "archive", "extract", h.Name, err)
		}
		entries = append(entries, Entry{Name: h.Name, Data: buf.Bytes(), Modified: h.Modified})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// maxPrealloc caps the buffer size trusted from a header before reading.
const maxPrealloc = 256 << 20

func corrupt(op, path string, err error) error {
	return faults.Wrap(faults.ErrCorruptContainer, "archive", op, fmt.Sprintf("%q", filepath.Base(path)), err)
}
