package figure

import (
	"time"

	"github.com/irfansharif/lenses/internal/geom"
)

// FoldAnimator linearly interpolates a fold angle over a fixed duration. It
// is advanced by an external tick source; at most one interpolation is in
// flight, and starting a new one replaces it and restarts the clock.
type FoldAnimator struct {
	Duration time.Duration

	from, to float64
	elapsed  time.Duration
	active   bool
}

func NewFoldAnimator(d time.Duration) *FoldAnimator {
	return &FoldAnimator{Duration: d}
}

// Start begins interpolating from one angle to another, superseding any
// interpolation in flight.
func (a *FoldAnimator) Start(from, to float64) {
	a.from, a.to = from, to
	a.elapsed = 0
	a.active = true
}

// Advance moves the clock forward by dt and returns the interpolated angle,
// and whether the interpolation has completed. Once complete (or if none was
// started) it keeps returning the target angle.
func (a *FoldAnimator) Advance(dt time.Duration) (angle float64, done bool) {
	if !a.active {
		return a.to, true
	}
	a.elapsed += dt
	if a.elapsed >= a.Duration {
		a.active = false
		return a.to, true
	}
	return geom.Lerp(a.from, a.to, float64(a.elapsed)/float64(a.Duration)), false
}

func (a *FoldAnimator) Active() bool { return a.active }

// Target is the angle the current (or last) interpolation ends at.
func (a *FoldAnimator) Target() float64 { return a.to }

// Cancel stops the interpolation where it is.
func (a *FoldAnimator) Cancel() { a.active = false }
