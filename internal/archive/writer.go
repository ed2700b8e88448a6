package archive

import (
	"io"
	"log/slog"
	"sync"

	"github.com/klauspost/compress/zip"

	"comicz/internal/faults"
	"comicz/internal/fileutil"
	"comicz/internal/logging"
)

// Output accumulates named buffers for the destination container. Appends
// from concurrent workers are serialized; the first entry for a name wins.
type Output struct {
	mu      sync.Mutex
	entries []Entry
	names   map[string]struct{}
	logger  *slog.Logger
}

// NewOutput returns an empty output container.
func NewOutput(logger *slog.Logger) *Output {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Output{names: make(map[string]struct{}), logger: logger}
}

// Append adds e to the container and takes ownership of e.Data. A name that
// is already present is rejected with a warning and Append returns false.
func (o *Output) Append(e Entry) bool {
	o.mu.Lock()
	_, dup := o.names[e.Name]
	if !dup {
		o.names[e.Name] = struct{}{}
		o.entries = append(o.entries, e)
	}
	o.mu.Unlock()

	if dup {
		logging.WarnWithContext(o.logger, "duplicate output entry ignored", "duplicate_entry",
			logging.String(logging.FieldEntry, e.Name),
			logging.String(logging.FieldImpact, "first entry with this name is kept"),
			logging.String(logging.FieldErrorHint, "source archive maps two pages to the same name"),
		)
	}
	return !dup
}

// Len returns the number of accepted entries.
func (o *Output) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

// Names returns the accepted entry names in append order.
func (o *Output) Names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, len(o.entries))
	for i, e := range o.entries {
		names[i] = e.Name
	}
	return names
}

// Finalize writes the container to path with Deflate compression, creating
// parent directories as needed. It must be called once, after every Append
// has returned. On failure no file is left at path. The returned size is the
// number of bytes written.
func (o *Output) Finalize(path string) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var size int64
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		zw := zip.NewWriter(cw)
		for _, e := range o.entries {
			hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
			if !e.Modified.IsZero() {
				hdr.Modified = e.Modified
			}
			fw, err := zw.CreateHeader(hdr)
			if err != nil {
				return err
			}
			if _, err := fw.Write(e.Data); err != nil {
				return err
			}
		}
		if err := zw.Close(); err != nil {
			return err
		}
		size = cw.n
		return nil
	})
	if err != nil {
		return 0, faults.Wrap(faults.ErrWrite, "archive", "finalize", path, err)
	}
	return size, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
