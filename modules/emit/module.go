// Package emit provides the "emit" job, which reports each of its runs to the
// telemetry client when one is configured.
package emit

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/registry"
	"github.com/specialistvlad/tickgrid/internal/telemetry"
)

// Type is the job type name used in grid files.
const Type = "emit"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the emit job.
type Input struct {
	Event string `arg:"event"`
}

// Job emits one event per run.
type Job struct {
	name  string
	event string
	runs  atomic.Uint64
}

// New creates an emit job.
func New(name string, in *Input) (*Job, error) {
	if in.Event == "" {
		return nil, fmt.Errorf("event must not be empty")
	}
	return &Job{name: name, event: in.Event}, nil
}

func (j *Job) Name() string { return j.name }

func (j *Job) Access() pipeline.Access {
	return pipeline.NewAccess(
		pipeline.ReadsResource[telemetry.Client](),
		pipeline.ReadsResource[ecs.Time](),
	)
}

func (j *Job) Run(ctx context.Context, _ *ecs.World, r *ecs.Resources) error {
	run := j.runs.Add(1)
	logger := ctxlog.FromContext(ctx)

	client, ok := ecs.Resource[telemetry.Client](r)
	if !ok {
		logger.Debug("Telemetry client is not configured, skipping event.", "job", j.name, "event", j.event)
		return nil
	}

	payload := map[string]any{"job": j.name, "run": run}
	if clock, ok := ecs.Resource[ecs.Time](r); ok {
		payload["frame"] = clock.Frame
	}
	if err := client.Emit(j.event, payload); err != nil {
		return fmt.Errorf("emitting '%s': %w", j.event, err)
	}
	logger.Debug("Event emitted.", "job", j.name, "event", j.event, "run", run)
	return nil
}

// Register registers the job type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterJob(Type, &registry.RegisteredJob{
		NewInput: func() any { return new(Input) },
		Build: func(name string, input any) (pipeline.Job, error) {
			return New(name, input.(*Input))
		},
	})
}
