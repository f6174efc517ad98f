package ecs

import "time"

// Time is the frame clock resource. Delta is the time elapsed between the two
// most recent host cycles.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64

	last time.Time
}

// Advance moves the clock forward by d as one frame.
func (t *Time) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.Delta = d
	t.Elapsed += d
	t.Frame++
}

// Start sets the reference point for the next Update without counting a frame.
func (t *Time) Start(now time.Time) {
	t.last = now
}

// Update records a frame boundary at now. The first call yields a zero delta.
func (t *Time) Update(now time.Time) {
	var d time.Duration
	if !t.last.IsZero() {
		d = now.Sub(t.last)
	}
	t.last = now
	t.Advance(d)
}

// DeltaSeconds returns Delta in fractional seconds.
func (t *Time) DeltaSeconds() float64 {
	return t.Delta.Seconds()
}
