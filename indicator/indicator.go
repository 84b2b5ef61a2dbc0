package indicator

import (
	"fmt"
	"image"
)

// View is the surface a host drives: it reports size changes, asks for
// frames, and forwards orientation updates.
type View interface {
	OnViewportResized(width, height int)
	Render() (*image.RGBA, error)
	SetAttitude(pitch, roll float64)
}

// Indicator is an attitude indicator bound to one rendering goroutine.
type Indicator struct {
	cfg      Config
	state    *AttitudeState
	pipeline *Pipeline
	viewport Viewport
	closed   bool
}

var _ View = (*Indicator)(nil)

// New returns an indicator for cfg with a level attitude and an empty
// viewport.
func New(cfg Config) (*Indicator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Indicator{
		cfg:      cfg,
		state:    NewAttitudeState(),
		pipeline: NewPipeline(cfg),
	}, nil
}

// Config returns the configuration the indicator was built with.
func (ind *Indicator) Config() Config {
	return ind.cfg
}

// SetAttitude stores pitch and roll in degrees and requests a redraw.
// Safe for concurrent use.
func (ind *Indicator) SetAttitude(pitch, roll float64) {
	ind.state.Set(pitch, roll)
}

// OnAttitudeChanged is the listener hook for orientation providers.
func (ind *Indicator) OnAttitudeChanged(pitch, roll float64) {
	ind.SetAttitude(pitch, roll)
}

// Attitude returns the last stored attitude.
func (ind *Indicator) Attitude() Attitude {
	return ind.state.Get()
}

// Redraw receives a value whenever a new frame should be rendered.
func (ind *Indicator) Redraw() <-chan struct{} {
	return ind.state.Redraw()
}

// OnViewportResized records a new viewport size. Negative dimensions count
// as zero. A changed size discards the cached buffers and requests a redraw.
func (ind *Indicator) OnViewportResized(width, height int) {
	vp := Viewport{Width: max(width, 0), Height: max(height, 0)}
	if vp == ind.viewport {
		return
	}
	Logger().Debug("indicator: viewport resized", "from", ind.viewport.String(), "to", vp.String())
	ind.viewport = vp
	ind.pipeline.Invalidate()
	ind.state.requestRedraw()
}

// Viewport returns the current viewport size.
func (ind *Indicator) Viewport() Viewport {
	return ind.viewport
}

// Render draws the current attitude into the current viewport. The returned
// image stays valid until the next Render, resize, or Close.
func (ind *Indicator) Render() (*image.RGBA, error) {
	if ind.closed {
		return nil, ErrClosed
	}
	img, err := ind.pipeline.RenderFrame(ind.viewport, ind.state.Get())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", ind.viewport, err)
	}
	return img, nil
}

// SetFPSLogging switches the per-second frame rate log record.
func (ind *Indicator) SetFPSLogging(on bool) {
	ind.pipeline.Frames().SetLogging(on)
}

// FPSLogging reports whether frame rate logging is on.
func (ind *Indicator) FPSLogging() bool {
	return ind.pipeline.Frames().Logging()
}

// FPS returns the measured frame rate.
func (ind *Indicator) FPS() float64 {
	return ind.pipeline.Frames().FPS()
}

// Allocs returns how many offscreen surfaces have been allocated.
func (ind *Indicator) Allocs() int {
	return ind.pipeline.Buffers().Allocs()
}

// Close releases all buffers. Later Render calls fail with ErrClosed.
func (ind *Indicator) Close() error {
	if ind.closed {
		return nil
	}
	ind.closed = true
	ind.pipeline.Invalidate()
	return nil
}
