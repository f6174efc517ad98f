package tick

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive mirrors one driving cycle of a fixed-rate pipeline and returns how
// many ticks fired.
func drive(p *Policy, delta float64) int {
	p.Accumulate(delta)
	ticks := 0
	for p.Due() {
		ticks++
		p.Consume()
	}
	return ticks
}

func TestAlways(t *testing.T) {
	p := Always()
	assert.Equal(t, KindAlways, p.Kind())
	assert.False(t, p.Due(), "always is never 'due', it fires unconditionally")
	p.Accumulate(10)
	assert.Zero(t, p.Accumulator())
	assert.Equal(t, "Always", p.String())

	var zero Policy
	assert.Equal(t, KindAlways, zero.Kind())
}

func TestFixedRate_DocumentedSequence(t *testing.T) {
	p := FixedRate(0.5)
	var perDrive []int
	for _, d := range []float64{0.3, 0.3, 0.3} {
		perDrive = append(perDrive, drive(&p, d))
	}
	assert.Equal(t, []int{0, 1, 0}, perDrive)
	assert.InDelta(t, 0.4, p.Accumulator(), 1e-9)
}

func TestFixedRate_ChunkingIndependence(t *testing.T) {
	// Binary fractions keep the arithmetic exact.
	sequences := [][]float64{
		{0.25, 0.25, 0.25, 0.25, 0.25},
		{1.25},
		{0.125, 0.875, 0.25},
		{0, 0, 1.25, 0},
		{0.375, 0.375, 0.375, 0.125},
	}
	for _, seq := range sequences {
		p := FixedRate(0.5)
		total, sum := 0, 0.0
		for _, d := range seq {
			total += drive(&p, d)
			sum += d
		}
		assert.Equal(t, int(math.Floor(sum/0.5)), total, "sequence %v", seq)
		assert.GreaterOrEqual(t, p.Accumulator(), 0.0)
		assert.Less(t, p.Accumulator(), 0.5)
	}
}

func TestFixedRate_AccumulatorTrace(t *testing.T) {
	p := FixedRate(0.1)
	var ticks []int
	var trace []float64
	for range 4 {
		ticks = append(ticks, drive(&p, 0.07))
		trace = append(trace, p.Accumulator())
	}
	assert.Equal(t, []int{0, 1, 1, 0}, ticks)
	want := []float64{0.07, 0.04, 0.01, 0.08}
	if diff := cmp.Diff(want, trace, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("accumulator trace mismatch (-want +got):\n%s", diff)
	}
}

func TestFixedRate_CatchUpInOneDrive(t *testing.T) {
	p := FixedRate(0.1)
	assert.Equal(t, 10, drive(&p, 1.05))
	assert.InDelta(t, 0.05, p.Accumulator(), 1e-9)
}

func TestFixedRate_IgnoresNegativeDelta(t *testing.T) {
	p := FixedRate(1)
	p.Accumulate(0.5)
	p.Accumulate(-3)
	p.Accumulate(math.NaN())
	assert.Equal(t, 0.5, p.Accumulator())
}

func TestFixedRateInverse_MatchesFixedRate(t *testing.T) {
	inverse := FixedRateInverse(10)
	direct := FixedRate(0.1)
	require.Equal(t, direct.Interval(), inverse.Interval())

	for _, d := range []float64{0.016, 0.033, 0.5, 0.0, 0.09, 0.25, 1.7} {
		assert.Equal(t, drive(&direct, d), drive(&inverse, d))
		assert.Equal(t, direct.Accumulator(), inverse.Accumulator())
	}
}

func TestFixedRate_InvalidIntervalPanics(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.Panics(t, func() { FixedRate(v) }, "interval %v", v)
		assert.Panics(t, func() { FixedRateInverse(v) }, "ticks per second %v", v)
	}
}

func TestDrop(t *testing.T) {
	p := FixedRate(0.25).WithMaxCatchUp(2)
	assert.Equal(t, 2, p.MaxCatchUp())

	p.Accumulate(1.125)
	assert.Equal(t, 4, p.Drop())
	assert.Equal(t, 0.125, p.Accumulator())
	assert.Zero(t, p.Drop())

	assert.Zero(t, FixedRate(1).WithMaxCatchUp(-5).MaxCatchUp())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "FixedRate", KindFixedRate.String())
	assert.Equal(t, "Unknown", Kind(42).String())
	assert.Equal(t, "FixedRate(0.5s, acc=0s)", FixedRate(0.5).String())
}
