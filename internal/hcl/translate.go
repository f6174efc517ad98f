package hcl

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
)

func translateTelemetry(b *telemetryBlock) *config.Telemetry {
	ns := b.Namespace
	if ns == "" {
		ns = "/"
	}
	return &config.Telemetry{URL: b.URL, Namespace: ns, InsecureSkipVerify: b.InsecureSkipVerify}
}

// translateRunner converts a runner block into the model and checks that
// every stage and job reference resolves against the default stages plus the
// stages the block declares, in declaration order.
func translateRunner(ctx context.Context, b *runnerBlock) (*config.Runner, error) {
	r := &config.Runner{
		Name:      b.Name,
		Placement: config.PlacementEntity,
		Count:     1,
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf("runner '%s': %s", b.Name, fmt.Sprintf(format, args...))
	}

	if b.Placement != nil {
		switch p := config.Placement(*b.Placement); p {
		case config.PlacementEntity, config.PlacementResource:
			r.Placement = p
		default:
			return nil, fail("unknown placement %q, expected %q or %q", *b.Placement, config.PlacementResource, config.PlacementEntity)
		}
	}

	if b.Count != nil {
		if r.Placement == config.PlacementResource {
			return nil, fail("count is only valid with placement %q", config.PlacementEntity)
		}
		if *b.Count < 1 {
			return nil, fail("count must be at least 1, got %d", *b.Count)
		}
		r.Count = *b.Count
	}

	switch {
	case b.Rate != nil && b.TicksPerSecond != nil:
		return nil, fail("rate and ticks_per_second are mutually exclusive")
	case b.Rate != nil:
		if !positive(*b.Rate) {
			return nil, fail("rate must be a positive number of seconds, got %v", *b.Rate)
		}
		r.Interval = *b.Rate
	case b.TicksPerSecond != nil:
		if !positive(*b.TicksPerSecond) {
			return nil, fail("ticks_per_second must be positive, got %v", *b.TicksPerSecond)
		}
		r.Interval = 1.0 / *b.TicksPerSecond
	}

	if b.MaxCatchUp != nil {
		if *b.MaxCatchUp < 0 {
			return nil, fail("max_catch_up must not be negative, got %d", *b.MaxCatchUp)
		}
		if r.Interval == 0 {
			ctxlog.FromContext(ctx).Warn("max_catch_up has no effect without a fixed rate.", "runner", b.Name)
		}
		r.MaxCatchUp = *b.MaxCatchUp
	}
	if b.Workers != nil {
		if *b.Workers < 0 {
			return nil, fail("workers must not be negative, got %d", *b.Workers)
		}
		r.Workers = *b.Workers
	}

	known := make(map[string]bool)
	for _, name := range pipeline.DefaultStages() {
		known[name] = true
	}

	for _, s := range b.Stages {
		stage := &config.Stage{Name: s.Name}
		if s.After != nil && s.Before != nil {
			return nil, fail("stage '%s' sets both after and before", s.Name)
		}
		if known[s.Name] {
			return nil, fail("stage '%s' already exists", s.Name)
		}
		if s.After != nil {
			stage.After = *s.After
		}
		if s.Before != nil {
			stage.Before = *s.Before
		}
		if target := stage.After + stage.Before; target != "" && !known[target] {
			return nil, fail("stage '%s' is placed relative to unknown stage '%s'", s.Name, target)
		}
		known[s.Name] = true
		r.Stages = append(r.Stages, stage)
	}

	jobNames := make(map[string]bool)
	for _, j := range b.Jobs {
		job := &config.Job{
			Type:  j.Type,
			Name:  j.Name,
			Stage: config.DefaultStage,
		}
		if jobNames[j.Name] {
			return nil, fail("job '%s' is declared more than once", j.Name)
		}
		jobNames[j.Name] = true
		if j.Stage != nil {
			job.Stage = *j.Stage
		}
		if !known[job.Stage] {
			return nil, fail("job '%s' targets unknown stage '%s'", j.Name, job.Stage)
		}
		if j.Front != nil {
			job.Front = *j.Front
		}
		args, err := extractBodyAttributes(j.Arguments)
		if err != nil {
			return nil, fail("job '%s': %v", j.Name, err)
		}
		job.Arguments = args
		r.Jobs = append(r.Jobs, job)
	}

	return r, nil
}

// validateModel checks constraints spanning several runners.
func validateModel(m *config.Model) error {
	var singletons []string
	for _, r := range m.Runners {
		if r.Placement == config.PlacementResource {
			singletons = append(singletons, r.Name)
		}
	}
	if len(singletons) > 1 {
		return fmt.Errorf("at most one runner may use placement %q, found: %s", config.PlacementResource, strings.Join(singletons, ", "))
	}
	if m.Telemetry != nil && m.Telemetry.URL == "" {
		return errors.New("telemetry url must not be empty")
	}
	return nil
}

// extractBodyAttributes flattens an arguments block into expressions.
func extractBodyAttributes(block *argumentsBlock) (map[string]hcl.Expression, error) {
	if block == nil || block.Body == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	exprs := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprs[name] = attr.Expr
	}
	return exprs, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
