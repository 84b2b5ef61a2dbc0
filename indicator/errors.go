package indicator

import "errors"

var (
	// ErrDegenerateViewport is returned by Render when the viewport has no
	// area. The frame is skipped and nothing is allocated.
	ErrDegenerateViewport = errors.New("indicator: degenerate viewport")

	// ErrAllocation is returned when an offscreen buffer cannot be created.
	// The frame is dropped.
	ErrAllocation = errors.New("indicator: buffer allocation failed")

	// ErrInvalidConfig is returned by Config.Validate and New.
	ErrInvalidConfig = errors.New("indicator: invalid config")

	// ErrClosed is returned by Render after Close.
	ErrClosed = errors.New("indicator: closed")
)
