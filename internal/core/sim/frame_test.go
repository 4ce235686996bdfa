package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pursuit/internal/core/entity"
)

func TestHistoryRing(t *testing.T) {
	h := newHistory(2)
	assert.Empty(t, h.list())
	h.add(Decision{Tick: 1})
	assert.Len(t, h.list(), 1)
	h.add(Decision{Tick: 2})
	h.add(Decision{Tick: 3})
	got := h.list()
	require.Len(t, got, 2)
	assert.EqualValues(t, 2, got[0].Tick)
	assert.EqualValues(t, 3, got[1].Tick)
}

func TestFrameJSON(t *testing.T) {
	s := NewSession(testConfig(entity.Position{}, entity.Position{X: 3}))
	raw, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"status"`)

	raw, err = json.Marshal(s.Tick())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "Running", m["status"])
	assert.Equal(t, "Chase", m["branch"])
	assert.Equal(t, map[string]any{"x": 1.0, "y": 0.0}, m["enemy"])
	trace := m["trace"].([]any)
	assert.Equal(t, "Failure", trace[0].(map[string]any)["status"])
}

func TestHealthRatio(t *testing.T) {
	assert.Equal(t, 0.25, Frame{EnemyHealth: 25, MaxHealth: 100}.HealthRatio())
	assert.Zero(t, Frame{}.HealthRatio())
}
