package main

import (
	"sync/atomic"

	"attitude-indicator/feed"
	"attitude-indicator/indicator"
)

// Trim sits between the feed and the instrument and subtracts a captured
// level reference from every sample.
type Trim struct {
	next   feed.Listener
	raw    atomic.Pointer[indicator.Attitude]
	offset atomic.Pointer[indicator.Attitude]
}

// NewTrim returns an inactive trim forwarding to next.
func NewTrim(next feed.Listener) *Trim {
	return &Trim{next: next}
}

// OnAttitudeChanged implements feed.Listener.
func (t *Trim) OnAttitudeChanged(pitch, roll float64) {
	t.raw.Store(&indicator.Attitude{Pitch: pitch, Roll: roll})
	t.forward(pitch, roll)
}

// Toggle captures the latest raw attitude as level, or clears an active
// trim. It reports whether a trim is active afterwards.
func (t *Trim) Toggle() bool {
	if t.offset.Load() != nil {
		t.offset.Store(nil)
	} else {
		raw := indicator.Attitude{}
		if r := t.raw.Load(); r != nil {
			raw = *r
		}
		t.offset.Store(&raw)
	}

	if r := t.raw.Load(); r != nil {
		t.forward(r.Pitch, r.Roll)
	}
	return t.offset.Load() != nil
}

// Offset returns the active reference.
func (t *Trim) Offset() (indicator.Attitude, bool) {
	if o := t.offset.Load(); o != nil {
		return *o, true
	}
	return indicator.Attitude{}, false
}

func (t *Trim) forward(pitch, roll float64) {
	if o := t.offset.Load(); o != nil {
		pitch -= o.Pitch
		roll -= o.Roll
	}
	t.next.OnAttitudeChanged(pitch, roll)
}
