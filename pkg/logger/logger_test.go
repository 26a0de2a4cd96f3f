package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLogger("history-test", dir)
	l.Info("hello", zap.String("trader", "0xabc"))
	_ = l.Sync()

	body, err := os.ReadFile(filepath.Join(dir, "history-test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"msg":"hello"`)
	assert.Contains(t, string(body), `"trader":"0xabc"`)
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel("info")

	SetLogLevel("warn")
	assert.Equal(t, zapcore.WarnLevel, logLevel.Level())

	SetLogLevel("not-a-level")
	assert.Equal(t, zapcore.WarnLevel, logLevel.Level())
}

func TestWithTrace(t *testing.T) {
	tp := InitTrace("test", "history")
	defer tp.Shutdown(context.Background())

	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	// 没有 span 时不添加字段
	WithTrace(context.Background(), base).Info("plain")

	ctx, span := StartSpan(context.Background(), "test", "run")
	defer span.End()
	WithTrace(ctx, base).Info("traced")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[1].ContextMap()["trace_id"])
}
