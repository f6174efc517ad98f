// Package runner provides the caller-facing handle for a nested schedule.
//
// A Runner is stored either once as a resource (singleton) or as a component
// on any number of entities (one independent schedule per entity). The
// builder methods mirror the host pipeline's construction API and are meant
// for registration time only; they panic on wiring mistakes.
package runner

import (
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/packed"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/tick"
)

// Runner wraps a packed pipeline.
type Runner struct {
	packed *packed.Pipeline
}

// New creates a runner that ticks on every drive, with the default stages.
func New() *Runner {
	return FromPolicy(tick.Always())
}

// FromRate creates a runner that ticks every interval seconds.
func FromRate(interval float64) *Runner {
	return FromPolicy(tick.FixedRate(interval))
}

// FromRateInverse creates a runner that ticks ticksPerSecond times per second.
func FromRateInverse(ticksPerSecond float64) *Runner {
	return FromPolicy(tick.FixedRateInverse(ticksPerSecond))
}

// FromPolicy creates a runner with an explicit policy and the default stages.
func FromPolicy(policy tick.Policy) *Runner {
	return &Runner{packed: packed.New(policy)}
}

// AddStage appends an empty stage.
func (r *Runner) AddStage(name string) *Runner {
	r.stages().AddStage(name)
	return r
}

// AddStageAfter inserts an empty stage after target.
func (r *Runner) AddStageAfter(target, name string) *Runner {
	r.stages().AddStageAfter(target, name)
	return r
}

// AddStageBefore inserts an empty stage before target.
func (r *Runner) AddStageBefore(target, name string) *Runner {
	r.stages().AddStageBefore(target, name)
	return r
}

// AddJob appends job to the update stage.
func (r *Runner) AddJob(job pipeline.Job) *Runner {
	return r.AddJobToStage(pipeline.Update, job)
}

// AddJobs appends jobs to the update stage.
func (r *Runner) AddJobs(jobs ...pipeline.Job) *Runner {
	return r.AddJobsToStage(pipeline.Update, jobs...)
}

// AddJobToStage appends job to the named stage.
func (r *Runner) AddJobToStage(stage string, job pipeline.Job) *Runner {
	r.stages().AddJobToStage(stage, job)
	return r
}

// AddJobToStageFront prepends job to the named stage.
func (r *Runner) AddJobToStageFront(stage string, job pipeline.Job) *Runner {
	r.stages().AddJobToStageFront(stage, job)
	return r
}

// AddJobsToStage appends jobs to the named stage in order.
func (r *Runner) AddJobsToStage(stage string, jobs ...pipeline.Job) *Runner {
	for _, job := range jobs {
		r.AddJobToStage(stage, job)
	}
	return r
}

// WithExecutor replaces the executor used to run the stages.
func (r *Runner) WithExecutor(e executor.Executor) *Runner {
	r.attached().SetExecutor(e)
	return r
}

// WithMaxCatchUp caps the ticks a fixed-rate runner may fire per drive.
func (r *Runner) WithMaxCatchUp(n int) *Runner {
	r.attached().SetMaxCatchUp(n)
	return r
}

// Pipeline returns the packed pipeline currently held, which is a
// placeholder while the driver runs it.
func (r *Runner) Pipeline() *packed.Pipeline {
	return r.packed
}

// Detach takes the packed pipeline out of the handle and leaves a
// placeholder in its place.
func (r *Runner) Detach() *packed.Pipeline {
	p := r.packed
	r.packed = packed.Placeholder()
	return p
}

// Attach puts a detached packed pipeline back.
func (r *Runner) Attach(p *packed.Pipeline) {
	r.packed = p
}

func (r *Runner) attached() *packed.Pipeline {
	if r.packed.IsPlaceholder() {
		panic("runner: cannot configure a detached runner")
	}
	return r.packed
}

func (r *Runner) stages() *pipeline.Pipeline {
	return r.attached().Stages()
}
