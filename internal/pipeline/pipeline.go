package pipeline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/ecs"
)

// Default stage names, in execution order.
const (
	First      = "first"
	PreUpdate  = "pre_update"
	Update     = "update"
	PostUpdate = "post_update"
	Last       = "last"
)

// DefaultStages returns the default stage names in order.
func DefaultStages() []string {
	return []string{First, PreUpdate, Update, PostUpdate, Last}
}

type entry struct {
	job         Job
	initialized bool
}

// Stage is a named, ordered group of jobs.
type Stage struct {
	name    string
	entries []entry
}

// Name returns the stage name.
func (s *Stage) Name() string { return s.name }

// Jobs returns the stage's jobs in order.
func (s *Stage) Jobs() []Job {
	jobs := make([]Job, len(s.entries))
	for i, e := range s.entries {
		jobs[i] = e.job
	}
	return jobs
}

// Len returns the number of jobs in the stage.
func (s *Stage) Len() int { return len(s.entries) }

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []*Stage
}

// New creates a pipeline with no stages.
func New() *Pipeline {
	return &Pipeline{}
}

// NewDefault creates a pipeline with the default stages.
func NewDefault() *Pipeline {
	p := New()
	for _, name := range DefaultStages() {
		p.AddStage(name)
	}
	return p
}

// AddStage appends an empty stage.
func (p *Pipeline) AddStage(name string) *Pipeline {
	p.mustNotExist(name)
	p.stages = append(p.stages, &Stage{name: name})
	return p
}

// AddStageAfter inserts an empty stage right after target.
func (p *Pipeline) AddStageAfter(target, name string) *Pipeline {
	idx := p.mustIndex(target)
	p.mustNotExist(name)
	p.insertStage(idx+1, name)
	return p
}

// AddStageBefore inserts an empty stage right before target.
func (p *Pipeline) AddStageBefore(target, name string) *Pipeline {
	idx := p.mustIndex(target)
	p.mustNotExist(name)
	p.insertStage(idx, name)
	return p
}

// AddJobToStage appends job to the named stage.
func (p *Pipeline) AddJobToStage(stage string, job Job) *Pipeline {
	s := p.stages[p.mustIndex(stage)]
	s.entries = append(s.entries, entry{job: job})
	return p
}

// AddJobToStageFront prepends job to the named stage.
func (p *Pipeline) AddJobToStageFront(stage string, job Job) *Pipeline {
	s := p.stages[p.mustIndex(stage)]
	s.entries = append([]entry{{job: job}}, s.entries...)
	return p
}

// Has reports whether a stage with the given name exists.
func (p *Pipeline) Has(name string) bool {
	return p.index(name) >= 0
}

// Stage returns the named stage, or nil.
func (p *Pipeline) Stage(name string) *Stage {
	if i := p.index(name); i >= 0 {
		return p.stages[i]
	}
	return nil
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []*Stage {
	return append([]*Stage(nil), p.stages...)
}

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// JobCount returns the number of jobs across all stages.
func (p *Pipeline) JobCount() int {
	n := 0
	for _, s := range p.stages {
		n += len(s.entries)
	}
	return n
}

// Initialize runs the one-time setup of every job added since the previous
// call. Calling it every cycle is cheap once all jobs are initialized.
func (p *Pipeline) Initialize(ctx context.Context, w *ecs.World, r *ecs.Resources) error {
	for _, s := range p.stages {
		for i := range s.entries {
			e := &s.entries[i]
			if e.initialized {
				continue
			}
			if init, ok := e.job.(Initializer); ok {
				if err := init.Initialize(ctx, w, r); err != nil {
					return fmt.Errorf("initializing job '%s' in stage '%s': %w", e.job.Name(), s.name, err)
				}
			}
			e.initialized = true
		}
	}
	return nil
}

func (p *Pipeline) insertStage(at int, name string) {
	p.stages = append(p.stages, nil)
	copy(p.stages[at+1:], p.stages[at:])
	p.stages[at] = &Stage{name: name}
}

func (p *Pipeline) index(name string) int {
	for i, s := range p.stages {
		if s.name == name {
			return i
		}
	}
	return -1
}

func (p *Pipeline) mustIndex(name string) int {
	i := p.index(name)
	if i < 0 {
		panic(fmt.Sprintf("stage '%s' does not exist", name))
	}
	return i
}

func (p *Pipeline) mustNotExist(name string) {
	if p.index(name) >= 0 {
		panic(fmt.Sprintf("stage '%s' already exists", name))
	}
}
