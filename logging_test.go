package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/gg"

	"attitude-indicator/indicator"
)

func TestSetupLoggingFile(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		indicator.SetLogger(nil)
		gg.SetLogger(nil)
	})

	path := filepath.Join(t.TempDir(), "indicator.log")
	closer, err := setupLogging(path, "debug")
	if err != nil {
		t.Fatalf("setupLogging() error = %v", err)
	}

	indicator.Logger().Debug("resize", slog.Int("width", 64))
	log.Printf("console line")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"logging started"`, `"component":"indicator"`, `"width":64`, "console line"} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %s:\n%s", want, out)
		}
	}
}

func TestSetupLoggingBadLevel(t *testing.T) {
	if _, err := setupLogging("", "loud"); err == nil {
		t.Error("setupLogging() accepted an unknown level")
	}
}
