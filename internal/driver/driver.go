package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/packed"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/runner"
)

// Name is the job name the driver registers under.
const Name = "schedule_runner"

// Report summarizes one driver invocation.
type Report struct {
	// Pipelines is the number of non-placeholder pipelines that were run.
	Pipelines int
	// Ticks is the total number of ticks across all pipelines.
	Ticks int
	// Discarded counts detached pipelines dropped because their entity or
	// runner component went away during the drive.
	Discarded int
}

// detached is a per-entity pipeline taken out of its handle for this drive.
// entity is the first entity the handle was found on.
type detached struct {
	entity   ecs.Entity
	pipeline *packed.Pipeline
}

// Drive runs the singleton runner and then every per-entity runner once.
// Failures are collected and returned together; a failing pipeline never
// keeps the others from running or being reattached.
//
// The working set is keyed by handle, so a handle attached to several
// entities runs once per drive, and a handle that is also the singleton
// resource only runs as the singleton.
func Drive(ctx context.Context, w *ecs.World, r *ecs.Resources) (Report, error) {
	logger := ctxlog.FromContext(ctx)
	var report Report
	var errs []error

	singleton, hasSingleton := ecs.Resource[runner.Runner](r)
	if hasSingleton {
		p := singleton.Detach()
		ticks, err := run(ctx, w, r, p, &report)
		if err != nil {
			logger.Error("Singleton pipeline failed.", "pipeline", p.ID().String(), "error", err)
			errs = append(errs, fmt.Errorf("singleton runner: %w", err))
		}
		singleton.Attach(p)
		if current, ok := ecs.Resource[runner.Runner](r); (!ok || current != singleton) && !p.IsPlaceholder() {
			report.Discarded++
			logger.Debug("Singleton runner left the resource store during its run.", "pipeline", p.ID().String())
		}
		logger.Debug("Singleton pipeline driven.", "ticks", ticks)
	}

	rows := ecs.Query[*runner.Runner](w)
	working := make(map[*runner.Runner]detached, len(rows))
	order := make([]*runner.Runner, 0, len(rows))
	for _, row := range rows {
		if hasSingleton && row.Value == singleton {
			logger.Debug("Entity shares the singleton runner, skipping.", "entity", row.Entity.String())
			continue
		}
		if _, seen := working[row.Value]; seen {
			continue
		}
		working[row.Value] = detached{entity: row.Entity, pipeline: row.Value.Detach()}
		order = append(order, row.Value)
	}

	for _, handle := range order {
		d := working[handle]
		if _, err := run(ctx, w, r, d.pipeline, &report); err != nil {
			logger.Error("Entity pipeline failed.", "entity", d.entity.String(), "pipeline", d.pipeline.ID().String(), "error", err)
			errs = append(errs, fmt.Errorf("runner on entity %s: %w", d.entity, err))
		}
	}

	for _, row := range ecs.Query[*runner.Runner](w) {
		d, ok := working[row.Value]
		if !ok {
			// Not detached this drive, e.g. a fresh handle inserted during the run.
			continue
		}
		delete(working, row.Value)
		row.Value.Attach(d.pipeline)
	}

	for _, handle := range order {
		d, ok := working[handle]
		if !ok || d.pipeline.IsPlaceholder() {
			continue
		}
		report.Discarded++
		logger.Debug("Discarded pipeline of a runner that left the world.", "entity", d.entity.String(), "pipeline", d.pipeline.ID().String())
	}

	return report, errors.Join(errs...)
}

func run(ctx context.Context, w *ecs.World, r *ecs.Resources, p *packed.Pipeline, report *Report) (int, error) {
	if p.IsPlaceholder() {
		return 0, nil
	}
	report.Pipelines++
	ticks, err := p.Run(ctx, w, r)
	report.Ticks += ticks
	return ticks, err
}

// System adapts Drive to the host job contract. It declares exclusive access
// so the host executor never overlaps it with other jobs.
type System struct{}

// NewSystem creates the driver job.
func NewSystem() *System { return &System{} }

// Name implements pipeline.Job.
func (*System) Name() string { return Name }

// Access implements pipeline.Job.
func (*System) Access() pipeline.Access { return pipeline.NewAccess(pipeline.Exclusive()) }

// Run implements pipeline.Job.
func (*System) Run(ctx context.Context, w *ecs.World, r *ecs.Resources) error {
	report, err := Drive(ctx, w, r)
	ctxlog.FromContext(ctx).Debug("Driver cycle finished.", "pipelines", report.Pipelines, "ticks", report.Ticks, "discarded", report.Discarded)
	return err
}
