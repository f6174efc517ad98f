package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/executor"
	"github.com/specialistvlad/tickgrid/internal/runner"
)

// buildRunner creates a fresh handle for def. Jobs are built anew for every
// call so entities never share job state.
func (a *App) buildRunner(ctx context.Context, def *config.Runner) (*runner.Runner, error) {
	var handle *runner.Runner
	if def.IsFixedRate() {
		handle = runner.FromRate(def.Interval)
	} else {
		handle = runner.New()
	}
	handle.WithExecutor(executor.NewParallel(def.Workers)).WithMaxCatchUp(def.MaxCatchUp)

	for _, stage := range def.Stages {
		switch {
		case stage.After != "":
			handle.AddStageAfter(stage.After, stage.Name)
		case stage.Before != "":
			handle.AddStageBefore(stage.Before, stage.Name)
		default:
			handle.AddStage(stage.Name)
		}
	}

	for _, jobDef := range def.Jobs {
		job, err := a.registry.BuildJob(ctx, a.converter, jobDef)
		if err != nil {
			return nil, fmt.Errorf("runner '%s': %w", def.Name, err)
		}
		if jobDef.Front {
			handle.AddJobToStageFront(jobDef.Stage, job)
		} else {
			handle.AddJobToStage(jobDef.Stage, job)
		}
	}

	ctxlog.FromContext(ctx).Debug("Runner built.",
		"runner", def.Name,
		"pipeline", handle.Pipeline().ID().String(),
		"policy", handle.Pipeline().Policy().String(),
		"stages", handle.Pipeline().Stages().StageNames(),
	)
	return handle, nil
}
