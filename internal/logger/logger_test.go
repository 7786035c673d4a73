package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level LogLevel) (*Logger, *observer.ObservedLogs) {
	atomic := zap.NewAtomicLevelAt(zapLevels[level])
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{level: atomic, base: zap.New(core)}, logs
}

func TestLoggerTagsComponent(t *testing.T) {
	l, logs := newObserved(LevelInfo)

	l.Info("Scheduler", "posts due: count=%d", 3)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "posts due: count=3", entries[0].Message)
	assert.Equal(t, "Scheduler", entries[0].ContextMap()["component"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	l, logs := newObserved(LevelWarn)

	l.Debug("X", "dropped")
	l.Info("X", "dropped")
	l.Warn("X", "kept")
	assert.Equal(t, 1, logs.Len())

	l.SetLogLevel(LevelDebug)
	l.Debug("X", "kept too")
	assert.Equal(t, 2, logs.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}
