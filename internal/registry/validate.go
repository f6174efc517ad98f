package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
)

// Validate checks every job in model against the registry by decoding its
// arguments with conv. All problems are reported together.
func (r *Registry) Validate(ctx context.Context, model *config.Model, conv config.Converter) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, runner := range model.Runners {
		for _, job := range runner.Jobs {
			reg, ok := r.jobs[job.Type]
			if !ok {
				errs = append(errs, fmt.Sprintf("runner '%s', job '%s': unknown job type '%s' (known: %s)", runner.Name, job.Name, job.Type, strings.Join(r.Types(), ", ")))
				continue
			}
			if err := conv.DecodeArguments(ctx, reg.NewInput(), job.Arguments); err != nil {
				errs = append(errs, fmt.Sprintf("runner '%s', job '%s': %v", runner.Name, job.Name, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validated.", "job_types", len(r.jobs), "jobs", model.JobCount())
	return nil
}
