package packed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting(n *int) pipeline.Job {
	return pipeline.NewJob("count", func(context.Context, *ecs.World, *ecs.Resources) error {
		*n++
		return nil
	})
}

func withTime(delta time.Duration) *ecs.Resources {
	r := ecs.NewResources()
	clock := &ecs.Time{}
	clock.Advance(delta)
	ecs.InsertResource(r, clock)
	return r
}

func TestNew_Defaults(t *testing.T) {
	p := New(tick.Always())
	assert.False(t, p.IsPlaceholder())
	assert.Equal(t, pipeline.DefaultStages(), p.Stages().StageNames())
	assert.NotEqual(t, New(tick.Always()).ID(), p.ID())
	assert.IsType(t, &executor.Parallel{}, p.Executor())
}

func TestRun_AlwaysOncePerDrive(t *testing.T) {
	ctx := context.Background()
	runs := 0
	p := New(tick.Always())
	p.Stages().AddJobToStage(pipeline.Update, counting(&runs))

	// No Time resource at all: Always does not care.
	w, r := ecs.NewWorld(), ecs.NewResources()
	for i := 0; i < 3; i++ {
		ticks, err := p.Run(ctx, w, r)
		require.NoError(t, err)
		assert.Equal(t, 1, ticks)
	}
	assert.Equal(t, 3, runs)

	ticks, err := p.Run(ctx, w, withTime(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, ticks)
}

func TestRun_FixedRate(t *testing.T) {
	ctx := context.Background()
	runs := 0
	p := New(tick.FixedRate(0.5))
	p.Stages().AddJobToStage(pipeline.Update, counting(&runs))
	w := ecs.NewWorld()

	var perDrive []int
	for range 3 {
		ticks, err := p.Run(ctx, w, withTime(300*time.Millisecond))
		require.NoError(t, err)
		perDrive = append(perDrive, ticks)
	}
	assert.Equal(t, []int{0, 1, 0}, perDrive)
	assert.Equal(t, 1, runs)
	assert.InDelta(t, 0.4, p.Policy().Accumulator(), 1e-9)
}

func TestRun_FixedRateMissingTime(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	runs := 0
	p := New(tick.FixedRate(0.1))
	p.Stages().AddJobToStage(pipeline.Update, counting(&runs))
	w := ecs.NewWorld()

	_, err := p.Run(ctx, w, withTime(50*time.Millisecond))
	require.NoError(t, err)
	before := p.Policy()

	ticks, err := p.Run(ctx, w, ecs.NewResources())
	require.NoError(t, err)
	assert.Zero(t, ticks)
	assert.Equal(t, before, p.Policy(), "policy state must not change without time")
	assert.Contains(t, logs.String(), "Time resource does not exist")
	assert.Contains(t, logs.String(), "pipeline="+p.ID().String())

	// Recovers once the resource is back.
	ticks, err = p.Run(ctx, w, withTime(60*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 1, runs)
}

func TestRun_MaxCatchUp(t *testing.T) {
	ctx := context.Background()
	runs := 0
	p := New(tick.FixedRate(0.25))
	p.SetMaxCatchUp(2)
	p.Stages().AddJobToStage(pipeline.Update, counting(&runs))

	ticks, err := p.Run(ctx, ecs.NewWorld(), withTime(1125*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, 2, runs)
	assert.InDelta(t, 0.125, p.Policy().Accumulator(), 1e-9)
}

func TestRun_JobErrorStopsCatchUp(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	p := New(tick.FixedRate(0.1))
	p.SetExecutor(executor.NewSequential())
	p.Stages().AddJobToStage(pipeline.Update, pipeline.NewJob("bad", func(context.Context, *ecs.World, *ecs.Resources) error {
		return boom
	}))

	ticks, err := p.Run(ctx, ecs.NewWorld(), withTime(time.Second))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ticks)
	assert.InDelta(t, 0.9, p.Policy().Accumulator(), 1e-9, "the failed tick still consumed its interval")
}

func TestRun_InitializesJobs(t *testing.T) {
	ctx := context.Background()
	p := New(tick.Always())
	initErr := errors.New("setup failed")
	p.Stages().AddJobToStage(pipeline.Update, &failingInit{err: initErr})

	ticks, err := p.Run(ctx, ecs.NewWorld(), ecs.NewResources())
	assert.ErrorIs(t, err, initErr)
	assert.Zero(t, ticks)
}

type failingInit struct{ err error }

func (f *failingInit) Name() string            { return "failing_init" }
func (f *failingInit) Access() pipeline.Access { return pipeline.NewAccess() }
func (f *failingInit) Run(context.Context, *ecs.World, *ecs.Resources) error {
	return nil
}
func (f *failingInit) Initialize(context.Context, *ecs.World, *ecs.Resources) error {
	return f.err
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	assert.True(t, p.IsPlaceholder())

	var nilPipeline *Pipeline
	assert.True(t, nilPipeline.IsPlaceholder())

	ticks, err := p.Run(context.Background(), ecs.NewWorld(), ecs.NewResources())
	require.NoError(t, err)
	assert.Zero(t, ticks)
}
