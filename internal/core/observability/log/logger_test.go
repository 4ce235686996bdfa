package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core), level), logs
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	l, logs := observed(LevelInfo)
	l.Debug("hidden")
	l.Info("shown")
	require.Equal(t, 1, logs.Len())

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("now shown")
	assert.Equal(t, 2, logs.Len())
}

func TestFieldsReachZap(t *testing.T) {
	l, logs := observed(LevelDebug)
	l.With(String("session", "s1")).Info("tick",
		Int("tick", 3),
		Bool("ok", true),
		Float64("r", 80),
		Duration("period", 50*time.Millisecond),
		Error(errors.New("boom")),
		Any("pos", [2]int{1, 2}),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "s1", ctx["session"])
	assert.EqualValues(t, 3, ctx["tick"])
	assert.Equal(t, true, ctx["ok"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, 50*time.Millisecond, ctx["period"])
}

func TestNamed(t *testing.T) {
	l, logs := observed(LevelInfo)
	l.Named("server").Warn("slow client")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "server", logs.All()[0].LoggerName)
}

func TestNewBuildsBothEncodings(t *testing.T) {
	for _, dev := range []bool{false, true} {
		l, err := New(Options{Level: LevelWarn, Development: dev, OutputPaths: []string{"stdout"}})
		require.NoError(t, err)
		assert.Equal(t, LevelWarn, l.GetLevel())
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
	assert.Equal(t, LevelInfo, l.GetLevel())
}
