package archive

import (
	"strings"

	"github.com/klauspost/compress/zip"
)

type zipSource struct {
	path string
	rc   *zip.ReadCloser
}

func openZIP(path string) (Source, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, corrupt("open zip", path, err)
	}
	return &zipSource{path: path, rc: rc}, nil
}

func (s *zipSource) Kind() Kind { return KindZIP }

func (s *zipSource) Walk(fn WalkFunc) error {
	for _, f := range s.rc.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		r, err := f.Open()
		if err != nil {
			return corrupt("open zip entry "+f.Name, s.path, err)
		}
		err = fn(Header{Name: f.Name, Modified: f.Modified, Size: int64(f.UncompressedSize64)}, r)
		_ = r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *zipSource) Close() error {
	return s.rc.Close()
}
