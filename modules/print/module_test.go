package print

import (
	"testing"

	"github.com/specialistvlad/tickgrid/internal/ecs"
	"github.com/specialistvlad/tickgrid/internal/pipeline"
	"github.com/specialistvlad/tickgrid/internal/registry"
	"github.com/specialistvlad/tickgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_PrintsEveryNth(t *testing.T) {
	ctx, logs := testutil.NewContext(t)
	var buf testutil.SafeBuffer
	r := ecs.NewResources()
	ecs.InsertResource(r, NewOutput(&buf))

	job, err := New("tick", &Input{Message: "game tick!", Every: 2})
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, job.Run(ctx, ecs.NewWorld(), r))
	}
	assert.Equal(t, "game tick!\ngame tick!\n", buf.String())
	assert.Equal(t, uint64(5), job.Runs())
	assert.Contains(t, logs.String(), "Printing message.")
}

func TestJob_WithoutOutputOnlyLogs(t *testing.T) {
	ctx, logs := testutil.NewContext(t)
	job, err := New("tick", &Input{Message: "hello"})
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx, ecs.NewWorld(), ecs.NewResources()))
	assert.Contains(t, logs.String(), "message=hello")
}

func TestNew_RejectsNegativeEvery(t *testing.T) {
	_, err := New("x", &Input{Message: "m", Every: -1})
	assert.ErrorContains(t, err, "every must not be negative")
}

func TestModule_Register(t *testing.T) {
	reg := registry.New()
	(&Module{}).Register(reg)

	rj, ok := reg.Lookup(Type)
	require.True(t, ok)
	input := rj.NewInput().(*Input)
	input.Message = "m"
	job, err := rj.Build("p", input)
	require.NoError(t, err)
	assert.Equal(t, "p", job.Name())
	assert.True(t, job.Access().Conflicts(pipeline.NewAccess(pipeline.ReadsResource[Output]())))
}
