package sim

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pursuit/internal/core/entity"
)

func TestRunnerSteps(t *testing.T) {
	s := NewSession(testConfig(entity.Position{}, entity.Position{X: 30, Y: 40}))
	var seen []uint64
	r := NewRunner(s, time.Millisecond, func(f Frame) { seen = append(seen, f.Tick) }, nil)

	f := r.Steps(3)
	assert.EqualValues(t, 3, f.Tick)
	assert.Equal(t, []uint64{1, 2, 3}, seen)
	assert.Equal(t, entity.Position{X: 3, Y: 3}, f.Enemy)

	f = r.Steps(0)
	assert.EqualValues(t, 3, f.Tick, "zero steps only snapshots")
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	s := NewSession(testConfig(entity.Position{}, entity.Position{X: 500}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames atomic.Int64
	r := NewRunner(s, time.Millisecond, func(Frame) {
		if frames.Add(1) == 5 {
			cancel()
		}
	}, nil)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.GreaterOrEqual(t, frames.Load(), int64(5))
	assert.EqualValues(t, frames.Load(), s.Snapshot().Tick)
}
