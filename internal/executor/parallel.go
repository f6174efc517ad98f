package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

// Parallel runs non-conflicting jobs of a stage concurrently on a bounded
// number of workers.
type Parallel struct {
	workers int
}

// NewParallel creates a parallel executor. A non-positive worker count uses
// GOMAXPROCS.
func NewParallel(workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Parallel{workers: workers}
}

// Workers returns the concurrency limit.
func (e *Parallel) Workers() int { return e.workers }

// Run executes every stage once. The first failing batch stops the run; the
// jobs already started in that batch are allowed to finish.
func (e *Parallel) Run(ctx context.Context, p *pipeline.Pipeline, w *ecs.World, r *ecs.Resources) error {
	logger := ctxlog.FromContext(ctx)

	for _, stage := range p.Stages() {
		if stage.Len() == 0 {
			continue
		}
		for i, batch := range batches(stage.Jobs()) {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("stage '%s': %w", stage.Name(), err)
			}
			logger.Debug("Running job batch.", "stage", stage.Name(), "batch", i, "jobs", len(batch))
			if err := e.runBatch(ctx, w, r, batch); err != nil {
				return fmt.Errorf("stage '%s': %w", stage.Name(), err)
			}
		}
	}
	return nil
}

func (e *Parallel) runBatch(ctx context.Context, w *ecs.World, r *ecs.Resources, batch []pipeline.Job) error {
	if len(batch) == 1 {
		return runJob(ctx, w, r, batch[0])
	}

	// A plain Group has no shared context, so one failure does not cancel the
	// rest of the batch; errs keeps every failure, not just the first.
	errs := make([]error, len(batch))
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, job := range batch {
		g.Go(func() error {
			errs[i] = runJob(ctx, w, r, job)
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}

	var failed []string
	var joined []error
	for i, err := range errs {
		if err != nil {
			failed = append(failed, batch[i].Name())
			joined = append(joined, err)
		}
	}
	return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), errors.Join(joined...))
}

func runJob(ctx context.Context, w *ecs.World, r *ecs.Resources, job pipeline.Job) error {
	if err := job.Run(ctx, w, r); err != nil {
		return fmt.Errorf("job '%s': %w", job.Name(), err)
	}
	return nil
}
