// SPDX-License-Identifier: MIT

package txt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/katalvlaran/ct/model"
)

// readCloser pairs a decompressing reader with the cleanup of its layers.
type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open opens path for reading and decompresses it by extension: ".xz",
// ".zst" and ".gz" are decoded, anything else is read as is.
//
// Errors:
//   - os.Open errors.
//   - decoder header errors, wrapped; the file is closed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("txt: open %s: %w", path, err)
		}
		return readCloser{Reader: r, close: f.Close}, nil

	case ".zst":
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("txt: open %s: %w", path, err)
		}
		return readCloser{Reader: dec, close: func() error {
			dec.Close()
			return f.Close()
		}}, nil

	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("txt: open %s: %w", path, err)
		}
		return readCloser{Reader: zr, close: func() error {
			zerr := zr.Close()
			if err := f.Close(); err != nil {
				return err
			}
			return zerr
		}}, nil
	}

	return f, nil
}

// Load opens and converts the model file at path.
func Load(path string) (*model.Model, *BiMap, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	return Convert(NewReader(rc))
}
