package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type score struct{}

// recorder collects job names in the order they finish.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) job(name string, opts ...pipeline.AccessOption) pipeline.Job {
	return pipeline.NewJob(name, func(context.Context, *ecs.World, *ecs.Resources) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.order = append(r.order, name)
		return nil
	}, opts...)
}

func names(batch []pipeline.Job) []string {
	var out []string
	for _, j := range batch {
		out = append(out, j.Name())
	}
	return out
}

func TestBatches(t *testing.T) {
	rec := &recorder{}
	jobs := []pipeline.Job{
		rec.job("read1", pipeline.ReadsResource[score]()),
		rec.job("read2", pipeline.ReadsResource[score]()),
		rec.job("write", pipeline.WritesResource[score]()),
		rec.job("free"),
		rec.job("solo", pipeline.Exclusive()),
		rec.job("tail"),
	}

	got := batches(jobs)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"read1", "read2"}, names(got[0]))
	assert.Equal(t, []string{"write", "free"}, names(got[1]))
	assert.Equal(t, []string{"solo"}, names(got[2]))
	assert.Equal(t, []string{"tail"}, names(got[3]))
}

func TestParallel_OverlapsIndependentJobs(t *testing.T) {
	ctx := context.Background()
	aStarted, bStarted := make(chan struct{}), make(chan struct{})

	// Each job waits for the other one to start, which only succeeds when
	// they run at the same time.
	rendezvous := func(mine, theirs chan struct{}) pipeline.Func {
		return func(context.Context, *ecs.World, *ecs.Resources) error {
			close(mine)
			select {
			case <-theirs:
				return nil
			case <-time.After(2 * time.Second):
				return errors.New("peer never started")
			}
		}
	}

	p := pipeline.NewDefault().
		AddJobToStage(pipeline.Update, pipeline.NewJob("a", rendezvous(aStarted, bStarted))).
		AddJobToStage(pipeline.Update, pipeline.NewJob("b", rendezvous(bStarted, aStarted)))

	require.NoError(t, NewParallel(2).Run(ctx, p, ecs.NewWorld(), ecs.NewResources()))
}

func TestParallel_StageOrderAndConflicts(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}

	p := pipeline.NewDefault().
		AddJobToStage(pipeline.Last, rec.job("last")).
		AddJobToStage(pipeline.Update, rec.job("w1", pipeline.WritesResource[score]())).
		AddJobToStage(pipeline.Update, rec.job("w2", pipeline.WritesResource[score]())).
		AddJobToStage(pipeline.First, rec.job("first"))

	require.NoError(t, NewParallel(4).Run(ctx, p, ecs.NewWorld(), ecs.NewResources()))
	assert.Equal(t, []string{"first", "w1", "w2", "last"}, rec.order)
}

func TestParallel_FailFast(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	boom := errors.New("boom")

	p := pipeline.NewDefault().
		AddJobToStage(pipeline.Update, pipeline.NewJob("bad", func(context.Context, *ecs.World, *ecs.Resources) error {
			return boom
		})).
		AddJobToStage(pipeline.Update, rec.job("sibling")).
		AddJobToStage(pipeline.PostUpdate, rec.job("after"))

	err := NewParallel(4).Run(ctx, p, ecs.NewWorld(), ecs.NewResources())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage 'update'")
	assert.Contains(t, err.Error(), "execution failed for bad")
	assert.Equal(t, []string{"sibling"}, rec.order, "batch siblings finish, later stages are skipped")
}

func TestParallel_ReportsEveryFailureInBatch(t *testing.T) {
	errA, errB := errors.New("a failed"), errors.New("b failed")
	failing := func(err error) pipeline.Func {
		return func(context.Context, *ecs.World, *ecs.Resources) error { return err }
	}
	p := pipeline.NewDefault().
		AddJobToStage(pipeline.Update, pipeline.NewJob("a", failing(errA))).
		AddJobToStage(pipeline.Update, pipeline.NewJob("b", failing(errB)))

	// One worker runs the batch jobs one after another; the first failure must
	// not stop the second.
	err := NewParallel(1).Run(context.Background(), p, ecs.NewWorld(), ecs.NewResources())
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "execution failed for a, b")
}

func TestParallel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	p := pipeline.NewDefault().AddJobToStage(pipeline.Update, rec.job("never"))

	err := NewParallel(1).Run(ctx, p, ecs.NewWorld(), ecs.NewResources())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.order)
}

func TestNewParallel_DefaultWorkers(t *testing.T) {
	assert.Positive(t, NewParallel(0).Workers())
	assert.Equal(t, 3, NewParallel(3).Workers())
}

func TestSequential_Order(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	boom := errors.New("boom")

	p := pipeline.NewDefault().
		AddJobToStage(pipeline.Update, rec.job("a")).
		AddJobToStage(pipeline.Update, rec.job("b")).
		AddJobToStage(pipeline.PostUpdate, pipeline.NewJob("bad", func(context.Context, *ecs.World, *ecs.Resources) error {
			return boom
		})).
		AddJobToStage(pipeline.Last, rec.job("never"))

	err := NewSequential().Run(ctx, p, ecs.NewWorld(), ecs.NewResources())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"a", "b"}, rec.order)
}
