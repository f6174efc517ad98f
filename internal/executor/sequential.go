package executor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
)

// Sequential runs jobs one at a time in registration order.
type Sequential struct{}

// NewSequential creates a sequential executor.
func NewSequential() *Sequential { return &Sequential{} }

// Run executes every stage once and stops at the first failing job.
func (Sequential) Run(ctx context.Context, p *pipeline.Pipeline, w *ecs.World, r *ecs.Resources) error {
	for _, stage := range p.Stages() {
		for _, job := range stage.Jobs() {
			if err := runJob(ctx, w, r, job); err != nil {
				return fmt.Errorf("stage '%s': %w", stage.Name(), err)
			}
		}
	}
	return nil
}
