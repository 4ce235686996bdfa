package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceWinner(t *testing.T) {
	var tr Trace
	root := NewSelector("root",
		Tap(NewSequence("flee", &fixed{status: StatusFailure}), &tr),
		Tap(NewSequence("chase", &fixed{status: StatusSuccess}, &fixed{status: StatusRunning}), &tr),
		Tap(&fixed{status: StatusRunning}, &tr),
	)

	assert.Equal(t, StatusRunning, root.Tick())
	w, ok := tr.Winner()
	assert.True(t, ok)
	assert.Equal(t, "chase", w.Node)
	assert.Equal(t, StatusRunning, w.Status)
	assert.Len(t, tr.Entries(), 2, "wander must not be ticked once chase handles the tick")

	tr.Reset()
	assert.Empty(t, tr.Entries())
	_, ok = tr.Winner()
	assert.False(t, ok)
}

func TestTapNilTrace(t *testing.T) {
	n := &fixed{status: StatusSuccess}
	assert.Same(t, n, Tap(n, nil))
}
