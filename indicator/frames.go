package indicator

import (
	"sync"
	"sync/atomic"
	"time"
)

// FrameCounter measures rendered frames per second. When logging is on it
// emits one info record per elapsed second.
type FrameCounter struct {
	logging atomic.Bool
	now     func() time.Time

	mu     sync.Mutex
	start  time.Time
	frames int
	fps    float64
}

// NewFrameCounter returns a counter using the wall clock.
func NewFrameCounter() *FrameCounter {
	return &FrameCounter{now: time.Now}
}

// SetLogging switches the per-second log record.
func (f *FrameCounter) SetLogging(on bool) {
	f.logging.Store(on)
}

// Logging reports whether per-second records are emitted.
func (f *FrameCounter) Logging() bool {
	return f.logging.Load()
}

// Tick records one completed frame.
func (f *FrameCounter) Tick() {
	f.mu.Lock()
	now := f.now()
	if f.start.IsZero() {
		f.start = now
	}
	f.frames++
	elapsed := now.Sub(f.start)
	if elapsed < time.Second {
		f.mu.Unlock()
		return
	}
	fps := float64(f.frames) / elapsed.Seconds()
	f.fps = fps
	f.frames = 0
	f.start = now
	f.mu.Unlock()

	if f.logging.Load() {
		Logger().Info("indicator: frame rate", "fps", fps)
	}
}

// FPS returns the rate measured over the last complete window.
func (f *FrameCounter) FPS() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fps
}
