package registry

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
)

// Module is the interface that all job modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredJob holds the compiled Go parts of a job type.
type RegisteredJob struct {
	// NewInput returns a pointer to a fresh input struct with defaults preset.
	NewInput func() any
	// Build creates the job from its configured name and decoded input.
	Build func(name string, input any) (pipeline.Job, error)
}

// Registry holds the job types known to one application instance.
type Registry struct {
	jobs map[string]*RegisteredJob
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{jobs: make(map[string]*RegisteredJob)}
}

// RegisterJob adds a job type. Registering the same type twice panics.
func (r *Registry) RegisterJob(jobType string, job *RegisteredJob) {
	if _, exists := r.jobs[jobType]; exists {
		panic(fmt.Sprintf("job type '%s' already registered", jobType))
	}
	if job == nil || job.NewInput == nil || job.Build == nil {
		panic(fmt.Sprintf("job type '%s' must provide NewInput and Build", jobType))
	}
	r.jobs[jobType] = job
}

// Lookup returns the registration for jobType.
func (r *Registry) Lookup(jobType string) (*RegisteredJob, bool) {
	job, ok := r.jobs[jobType]
	return job, ok
}

// Types returns the registered job types in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.jobs))
	for t := range r.jobs {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// BuildJob decodes the job's arguments with conv and builds the job.
func (r *Registry) BuildJob(ctx context.Context, conv config.Converter, def *config.Job) (pipeline.Job, error) {
	reg, ok := r.jobs[def.Type]
	if !ok {
		return nil, fmt.Errorf("job '%s': unknown job type '%s'", def.Name, def.Type)
	}
	input := reg.NewInput()
	if err := conv.DecodeArguments(ctx, input, def.Arguments); err != nil {
		return nil, fmt.Errorf("job '%s' (%s): %w", def.Name, def.Type, err)
	}
	job, err := reg.Build(def.Name, input)
	if err != nil {
		return nil, fmt.Errorf("job '%s' (%s): %w", def.Name, def.Type, err)
	}
	ctxlog.FromContext(ctx).Debug("Built job.", "job", def.Name, "type", def.Type)
	return job, nil
}
