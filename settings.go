package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/gogpu/gg"

	"attitude-indicator/indicator"
)

// Settings holds everything the host can be configured with. Values come
// from an optional JSON file, then command line flags.
type Settings struct {
	// Feed
	GRPCAddr    string `json:"grpc_addr"`
	ServeAddr   string `json:"serve_addr"`
	Demo        bool   `json:"demo"`
	ReconnectMs int    `json:"reconnect_ms"`

	// Window
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen"`
	Touch      bool   `json:"touch"`
	GPIORoot   string `json:"gpio_root"`

	// Logging
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level"`
	FPSLog   bool   `json:"fps_log"`

	// Snapshots
	SnapshotDir string `json:"snapshot_dir"`

	// Instrument
	Colors            ColorSettings `json:"colors"`
	TotalVisiblePitch float64       `json:"total_visible_pitch"`
	MaxPixels         *int          `json:"max_pixels,omitempty"` // nil keeps the default, 0 is unlimited
}

// ColorSettings are hex strings ("#RRGGBB" or "#RRGGBBAA").
type ColorSettings struct {
	Sky          string `json:"sky"`
	Earth        string `json:"earth"`
	PitchLadder  string `json:"pitch_ladder"`
	GroundLadder string `json:"ground_ladder"`
	Aircraft     string `json:"aircraft"`
}

// LoadSettings reads a JSON settings file. Fields not in the file keep
// their zero values.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	return s, nil
}

// Flags holds command line values that override the settings file.
type Flags struct {
	GRPCAddr    string
	ServeAddr   string
	Demo        bool
	Width       int
	Height      int
	Fullscreen  bool
	Touch       bool
	LogFile     string
	LogLevel    string
	SnapshotDir string
	FPSLog      bool
}

// Resolve applies flag overrides and fills defaults for anything still
// empty.
func (s *Settings) Resolve(f Flags) {
	if f.GRPCAddr != "" {
		s.GRPCAddr = f.GRPCAddr
	}
	if f.ServeAddr != "" {
		s.ServeAddr = f.ServeAddr
	}
	if f.Width > 0 {
		s.Width = f.Width
	}
	if f.Height > 0 {
		s.Height = f.Height
	}
	if f.LogFile != "" {
		s.LogFile = f.LogFile
	}
	if f.LogLevel != "" {
		s.LogLevel = f.LogLevel
	}
	if f.SnapshotDir != "" {
		s.SnapshotDir = f.SnapshotDir
	}
	s.Demo = s.Demo || f.Demo
	s.Fullscreen = s.Fullscreen || f.Fullscreen
	s.Touch = s.Touch || f.Touch
	s.FPSLog = s.FPSLog || f.FPSLog

	if s.GRPCAddr == "" {
		s.GRPCAddr = "localhost:10000"
	}
	if s.ReconnectMs <= 0 {
		s.ReconnectMs = 1000
	}
	if s.Width <= 0 {
		s.Width = 800
	}
	if s.Height <= 0 {
		s.Height = 600
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.SnapshotDir == "" {
		s.SnapshotDir = "snapshots"
	}
	if s.GPIORoot == "" {
		s.GPIORoot = "/sys/class/gpio"
	}
}

// ReconnectDelay returns the feed reconnect pause.
func (s Settings) ReconnectDelay() time.Duration {
	return time.Duration(s.ReconnectMs) * time.Millisecond
}

// IndicatorConfig builds the instrument configuration. Empty colours keep
// the stock palette.
func (s Settings) IndicatorConfig() (indicator.Config, error) {
	cfg := indicator.DefaultConfig()

	colors := []struct {
		name string
		hex  string
		dst  *color.Color
	}{
		{"sky", s.Colors.Sky, &cfg.SkyColor},
		{"earth", s.Colors.Earth, &cfg.EarthColor},
		{"pitch_ladder", s.Colors.PitchLadder, &cfg.PitchLadderColor},
		{"ground_ladder", s.Colors.GroundLadder, &cfg.GroundLadderColor},
		{"aircraft", s.Colors.Aircraft, &cfg.AircraftColor},
	}
	for _, c := range colors {
		if c.hex == "" {
			continue
		}
		if !validHex(c.hex) {
			return cfg, fmt.Errorf("settings: %s color %q is not hex", c.name, c.hex)
		}
		*c.dst = gg.Hex(c.hex).Color()
	}

	if s.TotalVisiblePitch != 0 {
		cfg.TotalVisiblePitchDegrees = s.TotalVisiblePitch
	}
	if s.MaxPixels != nil {
		cfg.MaxPixels = *s.MaxPixels
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("settings: %w", err)
	}
	return cfg, nil
}

func validHex(s string) bool {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
