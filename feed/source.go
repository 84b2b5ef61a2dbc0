package feed

import (
	"context"
	"math"
	"time"
)

// Source produces attitude samples on demand.
type Source interface {
	Next() (Sample, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() (Sample, error)

// Next calls f.
func (f SourceFunc) Next() (Sample, error) { return f() }

// DemoSource generates a smooth synthetic attitude from elapsed time:
// roll swings ±20°, pitch ±15° at a slower rate, yaw turns 30°/s.
type DemoSource struct {
	start time.Time
	now   func() time.Time
}

// NewDemoSource returns a demo source starting now.
func NewDemoSource() *DemoSource {
	return &DemoSource{start: time.Now(), now: time.Now}
}

// Next implements Source.
func (d *DemoSource) Next() (Sample, error) {
	t := d.now().Sub(d.start).Seconds()
	return Sample{
		Pitch: 15 * math.Cos(0.7*t),
		Roll:  20 * math.Sin(t),
		Yaw:   math.Mod(t*30, 360),
	}, nil
}

// Pump forwards one sample from src to l per interval until ctx is done or
// src fails.
func Pump(ctx context.Context, src Source, l Listener, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := src.Next()
		if err != nil {
			return err
		}
		l.OnAttitudeChanged(s.Pitch, s.Roll)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
