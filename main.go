package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attitude-indicator/feed"
	"attitude-indicator/indicator"
)

func main() {
	// Command line flags
	grpcAddr := flag.String("grpc", "", "Attitude feed gRPC address (default localhost:10000)")
	serveAddr := flag.String("serve", "", "Run a demo attitude feed server on this address instead of the window")
	demo := flag.Bool("demo", false, "Start with the built-in demo attitude source")
	fullscreen := flag.Bool("fullscreen", false, "Start in fullscreen mode")
	width := flag.Int("width", 0, "Window width")
	height := flag.Int("height", 0, "Window height")
	touchBtns := flag.Bool("touch", false, "Enable on-screen touch buttons")
	configPath := flag.String("config", "", "JSON settings file")
	logFile := flag.String("logfile", "", "Write JSON logs to this rotating file")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error")
	snapDir := flag.String("snapdir", "", "Directory for snapshots")
	fpsLog := flag.Bool("fps", false, "Log frames per second")
	snapshot := flag.String("snapshot", "", "Render one frame to this .webp or .png file and exit")
	pitch := flag.Float64("pitch", 0, "Pitch in degrees for -snapshot")
	roll := flag.Float64("roll", 0, "Roll in degrees for -snapshot")
	size := flag.String("size", "512x512", "Viewport WxH for -snapshot")
	flag.Parse()

	var settings Settings
	if *configPath != "" {
		s, err := LoadSettings(*configPath)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		settings = s
	}
	settings.Resolve(Flags{
		GRPCAddr:    *grpcAddr,
		ServeAddr:   *serveAddr,
		Demo:        *demo,
		Width:       *width,
		Height:      *height,
		Fullscreen:  *fullscreen,
		Touch:       *touchBtns,
		LogFile:     *logFile,
		LogLevel:    *logLevel,
		SnapshotDir: *snapDir,
		FPSLog:      *fpsLog,
	})

	closer, err := setupLogging(settings.LogFile, settings.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	cfg, err := settings.IndicatorConfig()
	if err != nil {
		log.Fatalf("Invalid instrument settings: %v", err)
	}

	switch {
	case *snapshot != "":
		if err := renderSnapshot(cfg, *snapshot, *size, *pitch, *roll); err != nil {
			log.Fatalf("Snapshot failed: %v", err)
		}
		log.Printf("Wrote %s", *snapshot)
		return
	case settings.ServeAddr != "":
		if err := serveDemo(settings.ServeAddr); err != nil {
			log.Fatalf("Feed server error: %v", err)
		}
		return
	}

	log.Println("Attitude Indicator")
	log.Printf("Attitude feed at %s", settings.GRPCAddr)

	ind, err := indicator.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create indicator: %v", err)
	}
	ind.SetFPSLogging(settings.FPSLog)

	trim := NewTrim(ind)
	link := NewFeedLink(settings.GRPCAddr, settings.ReconnectDelay(), trim)
	app := NewApp(ind, link, trim, settings)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		app.RequestQuit()
	}()

	runErr := app.Run()
	app.Shutdown()
	if runErr != nil {
		log.Fatalf("Application error: %v", runErr)
	}
}

// renderSnapshot draws a single frame without opening a window.
func renderSnapshot(cfg indicator.Config, path, size string, pitch, roll float64) error {
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil {
		return fmt.Errorf("size %q: %w", size, err)
	}

	ind, err := indicator.New(cfg)
	if err != nil {
		return err
	}
	defer ind.Close()

	ind.OnViewportResized(w, h)
	ind.SetAttitude(pitch, roll)
	img, err := ind.Render()
	if err != nil {
		return err
	}
	return WriteImage(path, img)
}

// serveDemo publishes the demo source until interrupted.
func serveDemo(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return feed.Serve(ctx, lis, feed.NewServer(feed.NewDemoSource(), 20*time.Millisecond))
}
