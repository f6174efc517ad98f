// Package print provides the "print" job: it writes a message to the shared
// output writer every Nth time it runs.
package print

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/registry"
)

// Type is the job type name used in grid files.
const Type = "print"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print job.
type Input struct {
	Message string `arg:"message"`
	Every   int    `arg:"every,optional"`
}

// Output is the resource print jobs write to.
type Output struct {
	mu sync.Mutex
	w  io.Writer
}

// NewOutput wraps w as the print output resource.
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

// Println writes one line.
func (o *Output) Println(msg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.w, msg)
	return err
}

// Job prints its message.
type Job struct {
	name    string
	message string
	every   uint64
	runs    atomic.Uint64
}

// New creates a print job.
func New(name string, in *Input) (*Job, error) {
	if in.Every < 0 {
		return nil, fmt.Errorf("every must not be negative, got %d", in.Every)
	}
	every := uint64(in.Every)
	if every == 0 {
		every = 1
	}
	return &Job{name: name, message: in.Message, every: every}, nil
}

func (j *Job) Name() string { return j.name }

func (j *Job) Access() pipeline.Access {
	return pipeline.NewAccess(pipeline.WritesResource[Output]())
}

// Runs returns how many times the job has run.
func (j *Job) Runs() uint64 { return j.runs.Load() }

func (j *Job) Run(ctx context.Context, _ *ecs.World, r *ecs.Resources) error {
	n := j.runs.Add(1)
	if n%j.every != 0 {
		return nil
	}
	ctxlog.FromContext(ctx).Info("Printing message.", "job", j.name, "message", j.message, "run", n)

	out, ok := ecs.Resource[Output](r)
	if !ok {
		return nil
	}
	if err := out.Println(j.message); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
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
