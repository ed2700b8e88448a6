package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"comicz/internal/archive"
	"comicz/internal/compressor"
)

// ErrNoFiles reports that discovery found nothing to convert.
var ErrNoFiles = errors.New("no comic archives found")

// Discover resolves input into the files to convert. A file input is returned
// as-is whatever its extension, so that unsupported files are reported by the
// compressor. A directory input yields the supported archives it contains,
// descending into subdirectories only when recursive is set. Results are
// sorted lexicographically.
func Discover(input string, recursive bool) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	var files []string
	if !recursive {
		entries, err := os.ReadDir(input)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !archive.Supported(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(input, entry.Name()))
		}
	} else {
		err := filepath.WalkDir(input, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !archive.Supported(d.Name()) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk input directory: %w", err)
		}
	}
	sort.Strings(files)
	return files, nil
}

// OutputPath maps file (found under input) to its destination beneath
// outputBase. The path relative to input's parent is kept, so converting the
// directory "comics" writes "<outputBase>/comics/...". The extension is
// always .cbz.
func OutputPath(input, file, outputBase string) string {
	parent := filepath.Dir(filepath.Clean(input))
	rel, err := filepath.Rel(parent, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(file)
	}
	return compressor.DestinationPath(file, filepath.Join(outputBase, rel))
}
