package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"attitude-indicator/indicator"
)

func renderTestFrame(t *testing.T) *image.RGBA {
	t.Helper()
	ind, err := indicator.New(indicator.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = ind.Close() })
	ind.OnViewportResized(64, 64)
	ind.SetAttitude(10, 20)
	img, err := ind.Render()
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return img
}

func TestWriteImagePNG(t *testing.T) {
	img := renderTestFrame(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WriteImage(path, img); err != nil {
		t.Fatalf("WriteImage() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
}

func TestWriteImageWebP(t *testing.T) {
	img := renderTestFrame(t)
	path := filepath.Join(t.TempDir(), "frame.WEBP")
	if err := WriteImage(path, img); err != nil {
		t.Fatalf("WriteImage() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
		t.Errorf("file does not start with a WebP header: % x", data[:min(len(data), 12)])
	}
}

func TestWriteImageUnknownFormat(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path := filepath.Join(t.TempDir(), "frame.bmp")
	if err := WriteImage(path, img); err == nil {
		t.Fatal("WriteImage(.bmp) error = nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file created for an unsupported format")
	}
}

func TestSnapshotWriterSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	w := NewSnapshotWriter(dir, "png")
	w.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	path, err := w.Save(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Save() path = %q, want under %q", path, dir)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "attitude-20240506-070809") || filepath.Ext(base) != ".png" {
		t.Errorf("Save() name = %q", base)
	}
}

func TestRenderSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.png")
	if err := renderSnapshot(indicator.DefaultConfig(), path, "80x40", 5, -5); err != nil {
		t.Fatalf("renderSnapshot() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 80 || cfg.Height != 40 {
		t.Errorf("snapshot size = %dx%d, want 80x40", cfg.Width, cfg.Height)
	}

	if err := renderSnapshot(indicator.DefaultConfig(), path, "large", 0, 0); err == nil {
		t.Error("renderSnapshot() accepted a bad size")
	}
}
