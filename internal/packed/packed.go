// Package packed couples a tick policy, a staged job pipeline and an executor,
// and decides whether and how many times the pipeline runs on each drive.
package packed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/tick"
)

// Pipeline is a self-contained schedule. It is moved between its runner
// handle and the driver, never copied. The zero value is an inert placeholder.
type Pipeline struct {
	id       uuid.UUID
	policy   tick.Policy
	stages   *pipeline.Pipeline
	executor executor.Executor
}

// New creates a pipeline with the given policy, the default stages and a
// parallel executor.
func New(policy tick.Policy) *Pipeline {
	return &Pipeline{
		id:       uuid.New(),
		policy:   policy,
		stages:   pipeline.NewDefault(),
		executor: executor.NewParallel(0),
	}
}

// Placeholder returns the inert value left in a runner handle while its
// pipeline is detached.
func Placeholder() *Pipeline {
	return &Pipeline{}
}

// IsPlaceholder reports whether p carries no schedule.
func (p *Pipeline) IsPlaceholder() bool {
	return p == nil || p.stages == nil
}

// ID identifies the pipeline in logs.
func (p *Pipeline) ID() uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.id
}

// Policy returns a copy of the tick policy, including its accumulator.
func (p *Pipeline) Policy() tick.Policy { return p.policy }

// SetMaxCatchUp caps the ticks a fixed-rate pipeline may fire per drive.
func (p *Pipeline) SetMaxCatchUp(n int) {
	p.policy = p.policy.WithMaxCatchUp(n)
}

// Stages exposes the job pipeline for construction.
func (p *Pipeline) Stages() *pipeline.Pipeline { return p.stages }

// Executor returns the executor that runs the stages.
func (p *Pipeline) Executor() executor.Executor { return p.executor }

// SetExecutor replaces the executor.
func (p *Pipeline) SetExecutor(e executor.Executor) {
	p.executor = e
}

// Run drives the pipeline once and returns the number of ticks executed.
//
// Always fires exactly one tick. FixedRate adds the frame delta from the
// ecs.Time resource to its accumulator and fires one tick per whole interval.
// A missing Time resource is not an error: nothing runs and the accumulator is
// left untouched until the resource shows up.
func (p *Pipeline) Run(ctx context.Context, w *ecs.World, r *ecs.Resources) (int, error) {
	if p.IsPlaceholder() {
		return 0, nil
	}
	ctx = ctxlog.With(ctx, "pipeline", p.id.String())
	logger := ctxlog.FromContext(ctx)

	if err := p.stages.Initialize(ctx, w, r); err != nil {
		return 0, fmt.Errorf("pipeline %s: %w", p.id, err)
	}

	switch p.policy.Kind() {
	case tick.KindAlways:
		if err := p.executor.Run(ctx, p.stages, w, r); err != nil {
			return 1, fmt.Errorf("pipeline %s: %w", p.id, err)
		}
		return 1, nil

	case tick.KindFixedRate:
		clock, ok := ecs.Resource[ecs.Time](r)
		if !ok {
			logger.Debug("Time resource does not exist, fixed-rate pipeline cannot run.")
			return 0, nil
		}
		p.policy.Accumulate(clock.DeltaSeconds())

		ticks := 0
		for p.policy.Due() {
			if limit := p.policy.MaxCatchUp(); limit > 0 && ticks >= limit {
				dropped := p.policy.Drop()
				logger.Warn("Dropped catch-up ticks.", "limit", limit, "dropped", dropped)
				break
			}
			err := p.executor.Run(ctx, p.stages, w, r)
			p.policy.Consume()
			ticks++
			if err != nil {
				return ticks, fmt.Errorf("pipeline %s: tick %d: %w", p.id, ticks, err)
			}
		}
		if ticks > 0 {
			logger.Debug("Fixed-rate pipeline ticked.", "ticks", ticks, "accumulator", p.policy.Accumulator())
		}
		return ticks, nil

	default:
		return 0, fmt.Errorf("pipeline %s: unsupported tick policy %s", p.id, p.policy.Kind())
	}
}
