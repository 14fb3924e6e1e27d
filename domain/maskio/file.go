// Package maskio reads and writes annotation masks.
//
// The canonical on-disk encoding is a NumPy .npy array of dtype uint8 with
// shape (height, width). Masks written through an image encoder are still read
// for compatibility but that encoding is deprecated: it is lossy in tools that
// rescale gray levels on save.
package maskio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/soocke/dotcount/domain/annotation"
)

// Format identifies a mask file encoding.
type Format int

const (
	FormatNPY Format = iota
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatNPY:
		return "npy"
	case FormatImage:
		return "image"
	default:
		return "unknown"
	}
}

var imageExts = map[string]bool{
	".png": true, ".bmp": true, ".gif": true, ".tif": true, ".tiff": true,
	".jpg": true, ".jpeg": true, ".webp": true,
}

// FormatFor picks the encoding from the file extension. Anything that is not
// a known image extension is treated as .npy.
func FormatFor(path string) Format {
	if imageExts[strings.ToLower(filepath.Ext(path))] {
		return FormatImage
	}
	return FormatNPY
}

// Read decodes a mask of shape (rows, cols) in the given format. A stored
// shape that differs fails with annotation.ErrShapeMismatch before the data
// is decoded.
func Read(r io.Reader, f Format, rows, cols int) (*annotation.Mask, error) {
	if f == FormatImage {
		return ReadImage(r, rows, cols)
	}
	return ReadNPY(r, rows, cols)
}

// Load reads the mask at path and checks it has shape (rows, cols).
// A missing file yields an all-zero mask of that shape.
func Load(path string, rows, cols int, logger *slog.Logger) (*annotation.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if logger != nil {
				logger.Info("mask file not found, starting empty", "path", path, "rows", rows, "cols", cols)
			}
			return annotation.NewMask(rows, cols), nil
		}
		return nil, fmt.Errorf("maskio: open %s: %w", path, err)
	}
	defer f.Close()

	format := FormatFor(path)
	if format == FormatImage && logger != nil {
		logger.Warn("reading mask through deprecated image encoding", "path", path)
	}
	m, err := Read(f, format, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("maskio: read %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("mask loaded", "path", path, "format", format.String(), "dots", m.Count())
	}
	return m, nil
}

// Save writes the mask to path atomically: the data goes to a temporary file
// in the same directory which is synced and then renamed over path.
func Save(path string, m *annotation.Mask, logger *slog.Logger) error {
	if err := m.Validate(); err != nil {
		return err
	}
	format := FormatFor(path)
	if format == FormatImage {
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" {
			return fmt.Errorf("maskio: cannot write %s masks, use .npy", ext)
		}
		if logger != nil {
			logger.Warn("writing mask through deprecated image encoding", "path", path)
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("maskio: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if format == FormatImage {
		err = WritePNG(tmp, m)
	} else {
		err = WriteNPY(tmp, m)
	}
	if err != nil {
		cleanup()
		return fmt.Errorf("maskio: encode %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("maskio: sync %s: %w", tmpName, err)
	}
	info, _ := tmp.Stat()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("maskio: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("maskio: rename to %s: %w", path, err)
	}
	syncDir(dir)
	if logger != nil {
		size := "?"
		if info != nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		logger.Info("saving ground truth", "path", path, "format", format.String(), "dots", m.Count(), "size", size)
	}
	return nil
}

// syncDir flushes the directory entry after a rename. Not every platform
// supports syncing a directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
