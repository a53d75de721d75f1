package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "folio/internal/core/context"
)

func TestWithContext_AddsTraceAndAdmin(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{zap.New(core).Sugar()}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext("t-1", "r-1"))
	ctx = appctx.WithAdmin(ctx, &appctx.AdminContext{Email: "editor@example.com"})

	l.WithContext(ctx).Infow("saved", "resource", "works")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "editor@example.com", fields["admin"])
	assert.Equal(t, "works", fields["resource"])
}

func TestWithContext_Empty(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{zap.New(core).Sugar()}

	l.WithComponent("http").WithContext(context.Background()).Infow("ok")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, map[string]any{"component": "http"}, logs.All()[0].ContextMap())
}

func TestNew_FallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
}
