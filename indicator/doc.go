// Package indicator renders a synthetic attitude indicator.
//
// Given a pitch/roll pair and a viewport size, an Indicator produces a
// circular instrument face: a sky/earth horizon that rotates with roll and
// translates with pitch, a pitch ladder, and a miniature-aircraft symbol that
// stays fixed in screen space. The face is clipped to the ellipse inscribed
// in the viewport by compositing against a cached mask buffer.
//
// # Buffers
//
// Two offscreen surfaces back every frame. The scene surface is redrawn from
// scratch on each Render. The mask surface holds one opaque ellipse and is
// rebuilt only when the viewport size changes. Both are allocated lazily and
// discarded together whenever the size changes.
//
// # Threading
//
// SetAttitude and OnAttitudeChanged may be called from any goroutine. The
// stored pair is swapped atomically and a redraw request is posted on the
// channel returned by Redraw. Everything else (OnViewportResized, Render,
// Close) belongs to the single rendering goroutine.
//
// # Errors
//
// Render reports skipped frames with ErrDegenerateViewport and dropped frames
// with ErrAllocation. Neither is fatal: the host keeps presenting its last
// good frame.
package indicator
