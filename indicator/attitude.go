package indicator

import (
	"fmt"
	"sync/atomic"
)

// Attitude is an orientation relative to the horizon, in degrees.
// Positive pitch is nose-up, positive roll is a left roll.
type Attitude struct {
	Pitch float64
	Roll  float64
}

func (a Attitude) String() string {
	return fmt.Sprintf("pitch=%+.1f roll=%+.1f", a.Pitch, a.Roll)
}

// AttitudeState holds the latest attitude and the pending-redraw signal.
// Writers may run on any goroutine.
type AttitudeState struct {
	current atomic.Pointer[Attitude]
	redraw  chan struct{}
}

// NewAttitudeState returns a level state with no redraw pending.
func NewAttitudeState() *AttitudeState {
	s := &AttitudeState{redraw: make(chan struct{}, 1)}
	s.current.Store(&Attitude{})
	return s
}

// Set stores the pair and requests a redraw. Identical values still
// request a redraw.
func (s *AttitudeState) Set(pitch, roll float64) {
	s.current.Store(&Attitude{Pitch: pitch, Roll: roll})
	s.requestRedraw()
}

// Get returns the last stored pair.
func (s *AttitudeState) Get() Attitude {
	return *s.current.Load()
}

// Redraw returns the channel that receives one value per pending redraw.
// Requests posted while one is already pending are coalesced.
func (s *AttitudeState) Redraw() <-chan struct{} {
	return s.redraw
}

func (s *AttitudeState) requestRedraw() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}
