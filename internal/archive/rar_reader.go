package archive

import (
	"errors"
	"io"

	"github.com/nwaples/rardecode/v2"
)

// rarSource streams a RAR archive. Entries can only be read in order, which is
// why Walk hands out the shared stream instead of per-entry openers.
type rarSource struct {
	path string
	rc   *rardecode.ReadCloser
	done bool
}

func openRAR(path string) (Source, error) {
	rc, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, corrupt("open rar", path, err)
	}
	return &rarSource{path: path, rc: rc}, nil
}

func (s *rarSource) Kind() Kind { return KindRAR }

func (s *rarSource) Walk(fn WalkFunc) error {
	if s.done {
		return errors.New("rar source already walked")
	}
	s.done = true
	for {
		h, err := s.rc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return corrupt("read rar header", s.path, err)
		}
		if h.IsDir {
			continue
		}
		if err := fn(Header{Name: h.Name, Modified: h.ModificationTime, Size: h.UnPackedSize}, s.rc); err != nil {
			return err
		}
	}
}

func (s *rarSource) Close() error {
	return s.rc.Close()
}
