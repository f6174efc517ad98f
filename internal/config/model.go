package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Placement says where a runner handle lives in the host.
type Placement string

const (
	// PlacementResource stores the handle as the singleton runner resource.
	PlacementResource Placement = "resource"
	// PlacementEntity attaches the handle as a component to spawned entities.
	PlacementEntity Placement = "entity"
)

// DefaultStage is the stage a job lands in when it does not name one.
const DefaultStage = "update"

// Model is the unified representation of one simulation grid.
type Model struct {
	Telemetry *Telemetry
	Runners   []*Runner
}

// Telemetry configures the optional socket.io event sink.
type Telemetry struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
}

// Runner is the format-agnostic representation of a `runner` block.
type Runner struct {
	Name      string
	Placement Placement
	// Count is the number of entities spawned for PlacementEntity.
	Count int
	// Interval is the fixed tick interval in seconds. Zero means the runner
	// ticks on every drive.
	Interval   float64
	MaxCatchUp int
	Workers    int
	Stages     []*Stage
	Jobs       []*Job
}

// IsFixedRate reports whether the runner ticks at a fixed interval.
func (r *Runner) IsFixedRate() bool { return r.Interval > 0 }

// Stage is an additional stage inserted relative to an existing one.
// With neither After nor Before set the stage is appended.
type Stage struct {
	Name   string
	After  string
	Before string
}

// Job is the format-agnostic representation of a `job` block.
type Job struct {
	Type      string
	Name      string
	Stage     string
	Front     bool
	Arguments map[string]hcl.Expression
}

// ResourceRunner returns the singleton runner, if any.
func (m *Model) ResourceRunner() (*Runner, bool) {
	for _, r := range m.Runners {
		if r.Placement == PlacementResource {
			return r, true
		}
	}
	return nil, false
}

// JobCount returns the jobs declared across all runners.
func (m *Model) JobCount() int {
	n := 0
	for _, r := range m.Runners {
		n += len(r.Jobs)
	}
	return n
}
