// Package counter provides the "counter" job, which adds to a named counter
// in the shared Counters resource on every run.
package counter

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/registry"
)

// Type is the job type name used in grid files.
const Type = "counter"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the counter job.
type Input struct {
	Key string `arg:"key"`
	By  int64  `arg:"by,optional"`
}

// Counters is a concurrency-safe set of named totals.
type Counters struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounters creates an empty Counters resource.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]int64)}
}

// Add increases key by delta and returns the new total.
func (c *Counters) Add(key string, delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] += delta
	return c.values[key]
}

// Get returns the total for key.
func (c *Counters) Get(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Snapshot returns a copy of all totals.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.values)
}

// Job adds to one counter.
type Job struct {
	name string
	key  string
	by   int64
}

// New creates a counter job.
func New(name string, in *Input) (*Job, error) {
	if in.Key == "" {
		return nil, fmt.Errorf("key must not be empty")
	}
	return &Job{name: name, key: in.Key, by: in.By}, nil
}

func (j *Job) Name() string { return j.name }

func (j *Job) Access() pipeline.Access {
	return pipeline.NewAccess(pipeline.WritesResource[Counters]())
}

// Initialize makes sure the Counters resource exists.
func (j *Job) Initialize(ctx context.Context, _ *ecs.World, r *ecs.Resources) error {
	if !ecs.HasResource[Counters](r) {
		ctxlog.FromContext(ctx).Debug("Inserting missing counters resource.", "job", j.name)
		ecs.InsertResource(r, NewCounters())
	}
	return nil
}

func (j *Job) Run(ctx context.Context, _ *ecs.World, r *ecs.Resources) error {
	counters, ok := ecs.Resource[Counters](r)
	if !ok {
		return fmt.Errorf("counters resource does not exist")
	}
	total := counters.Add(j.key, j.by)
	ctxlog.FromContext(ctx).Debug("Counter updated.", "job", j.name, "key", j.key, "total", total)
	return nil
}

// Register registers the job type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterJob(Type, &registry.RegisteredJob{
		NewInput: func() any { return &Input{By: 1} },
		Build: func(name string, input any) (pipeline.Job, error) {
			return New(name, input.(*Input))
		},
	})
}
