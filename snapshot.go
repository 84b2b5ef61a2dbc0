package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// SnapshotWriter saves rendered frames to disk.
type SnapshotWriter struct {
	dir    string
	format string // "webp" or "png"
	now    func() time.Time
}

// NewSnapshotWriter returns a writer that saves into dir using format.
func NewSnapshotWriter(dir, format string) *SnapshotWriter {
	return &SnapshotWriter{dir: dir, format: format, now: time.Now}
}

// Save writes img as a timestamped file and returns its path.
func (s *SnapshotWriter) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("snapshot dir: %w", err)
	}
	name := fmt.Sprintf("attitude-%s.%s", s.now().Format("20060102-150405.000"), s.format)
	path := filepath.Join(s.dir, name)
	if err := WriteImage(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// WriteImage encodes img to path. The extension selects WebP or PNG.
func WriteImage(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := enc(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, nil
	case ".png":
		return png.Encode, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))
	}
}
