package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/gogpu/gg"
	"gopkg.in/natefinch/lumberjack.v2"

	"attitude-indicator/indicator"
)

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// setupLogging routes the console log, the indicator logger and the gg
// logger. With a log file they all write JSON records to a rotating file;
// without one, structured records go to stderr as text. The returned closer
// flushes the file.
func setupLogging(file, level string) (io.Closer, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		h      slog.Handler
		closer io.Closer = io.NopCloser(nil)
	)
	if file != "" {
		w := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    32, // MB
			MaxBackups: 3,
		}
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		log.SetOutput(io.MultiWriter(os.Stderr, w))
		closer = w
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	logger := slog.New(h)
	indicator.SetLogger(logger.With("component", "indicator"))
	gg.SetLogger(logger.With("component", "gg"))

	logger.Info("logging started",
		slog.Time("start", time.Now()),
		slog.String("GOOS", runtime.GOOS),
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("level", lvl.String()))
	return closer, nil
}
