package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_ExtendsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), base)

	ctx = With(ctx, "pipeline", "p-1")
	FromContext(ctx).Info("ticked")

	assert.Contains(t, buf.String(), "pipeline=p-1")
	assert.Contains(t, buf.String(), "msg=ticked")
}
