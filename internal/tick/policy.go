// Package tick decides when a packed pipeline fires: on every driving cycle,
// or on a fixed interval fed by the frame delta.
package tick

import (
	"fmt"
	"math"
)

// Kind identifies a policy variant.
type Kind int

const (
	// KindAlways fires exactly once per driving cycle.
	KindAlways Kind = iota
	// KindFixedRate fires once per elapsed interval, carrying the remainder.
	KindFixedRate
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindAlways:
		return "Always"
	case KindFixedRate:
		return "FixedRate"
	default:
		return "Unknown"
	}
}

// Policy is a tick policy. The zero value is Always.
type Policy struct {
	kind        Kind
	interval    float64
	accumulator float64
	maxCatchUp  int
}

// Always returns a policy that fires once per driving cycle.
func Always() Policy {
	return Policy{kind: KindAlways}
}

// FixedRate returns a policy that fires once every interval seconds.
// It panics if interval is not a finite positive number.
func FixedRate(interval float64) Policy {
	if !(interval > 0) || math.IsInf(interval, 0) {
		panic(fmt.Sprintf("tick: fixed-rate interval must be a finite positive number of seconds, got %v", interval))
	}
	return Policy{kind: KindFixedRate, interval: interval}
}

// FixedRateInverse returns a policy that fires ticksPerSecond times per
// second. It panics if ticksPerSecond is not a finite positive number.
func FixedRateInverse(ticksPerSecond float64) Policy {
	if !(ticksPerSecond > 0) || math.IsInf(ticksPerSecond, 0) {
		panic(fmt.Sprintf("tick: ticks per second must be a finite positive number, got %v", ticksPerSecond))
	}
	return FixedRate(1.0 / ticksPerSecond)
}

// WithMaxCatchUp caps the ticks a fixed-rate policy may fire in one driving
// cycle. Zero means unbounded.
func (p Policy) WithMaxCatchUp(n int) Policy {
	if n < 0 {
		n = 0
	}
	p.maxCatchUp = n
	return p
}

// Kind returns the policy variant.
func (p Policy) Kind() Kind { return p.kind }

// Interval returns the fixed-rate interval in seconds; zero for Always.
func (p Policy) Interval() float64 { return p.interval }

// Accumulator returns the time carried over from previous cycles, in seconds.
func (p Policy) Accumulator() float64 { return p.accumulator }

// MaxCatchUp returns the per-cycle tick cap; zero means unbounded.
func (p Policy) MaxCatchUp() int { return p.maxCatchUp }

// Accumulate adds delta seconds to a fixed-rate accumulator. Negative deltas
// and Always policies are ignored.
func (p *Policy) Accumulate(delta float64) {
	if p.kind != KindFixedRate || !(delta > 0) {
		return
	}
	p.accumulator += delta
}

// Due reports whether a fixed-rate policy has at least one whole interval
// accumulated.
func (p Policy) Due() bool {
	return p.kind == KindFixedRate && p.accumulator >= p.interval
}

// Consume subtracts one interval after a tick has fired.
func (p *Policy) Consume() {
	if p.kind == KindFixedRate {
		p.accumulator -= p.interval
	}
}

// Drop discards every whole interval still accumulated and returns how many
// ticks were dropped. The fractional remainder is kept.
func (p *Policy) Drop() int {
	if !p.Due() {
		return 0
	}
	dropped := math.Floor(p.accumulator / p.interval)
	p.accumulator -= dropped * p.interval
	for p.accumulator >= p.interval {
		p.accumulator -= p.interval
		dropped++
	}
	for p.accumulator < 0 {
		p.accumulator += p.interval
		dropped--
	}
	return int(dropped)
}

// String describes the policy for logs.
func (p Policy) String() string {
	if p.kind == KindFixedRate {
		return fmt.Sprintf("FixedRate(%gs, acc=%gs)", p.interval, p.accumulator)
	}
	return p.kind.String()
}
