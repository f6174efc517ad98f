package pipeline

import (
	"context"

	"github.com/specialistvlad/tickgrid/internal/ecs"
)

// Job is one unit of work in a stage. The pipeline only stores and forwards
// jobs; what they do with the world is their own business.
type Job interface {
	Name() string
	Access() Access
	Run(ctx context.Context, w *ecs.World, r *ecs.Resources) error
}

// Initializer is implemented by jobs that need a one-time setup against the
// world before their first run.
type Initializer interface {
	Initialize(ctx context.Context, w *ecs.World, r *ecs.Resources) error
}

// Func is the signature of a function-backed job.
type Func func(ctx context.Context, w *ecs.World, r *ecs.Resources) error

type funcJob struct {
	name   string
	fn     Func
	access Access
}

// NewJob wraps fn as a Job.
func NewJob(name string, fn Func, opts ...AccessOption) Job {
	return &funcJob{name: name, fn: fn, access: NewAccess(opts...)}
}

func (j *funcJob) Name() string   { return j.name }
func (j *funcJob) Access() Access { return j.access }

func (j *funcJob) Run(ctx context.Context, w *ecs.World, r *ecs.Resources) error {
	return j.fn(ctx, w, r)
}
