// Package executor runs a pipeline's stages against a world.
//
// Stages always run front to back. Within a stage the Parallel executor
// overlaps jobs whose declared access does not conflict; the Sequential
// executor runs them one at a time in registration order.
package executor

import (
	"context"

	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
)

// Executor runs every stage of a pipeline once.
type Executor interface {
	Run(ctx context.Context, p *pipeline.Pipeline, w *ecs.World, r *ecs.Resources) error
}
