package sim

import (
	"github.com/zeusync/pursuit/internal/core/bt"
	"github.com/zeusync/pursuit/internal/core/entity"
)

// Frame is a read-only view of the session taken after a tick or an event.
type Frame struct {
	SessionID       string          `json:"session_id"`
	Tick            uint64          `json:"tick"`
	Enemy           entity.Position `json:"enemy"`
	EnemyHealth     int             `json:"enemy_health"`
	MaxHealth       int             `json:"max_health"`
	Player          entity.Position `json:"player"`
	DetectionRadius float64         `json:"detection_radius"`
	LowHealth       int             `json:"low_health"`
	// Status and Branch describe the last tick; both are empty before the first one.
	Status string          `json:"status,omitempty"`
	Branch string          `json:"branch,omitempty"`
	Trace  []bt.TraceEntry `json:"trace,omitempty"`
}

// HealthRatio is EnemyHealth/MaxHealth in [0, 1].
func (f Frame) HealthRatio() float64 {
	if f.MaxHealth <= 0 {
		return 0
	}
	return float64(f.EnemyHealth) / float64(f.MaxHealth)
}

// Decision is one entry of the session's decision log.
type Decision struct {
	Tick   uint64          `json:"tick"`
	Branch string          `json:"branch"`
	Status string          `json:"status"`
	Enemy  entity.Position `json:"enemy"`
	Health int             `json:"health"`
}

// history is a fixed-size ring of decisions.
type history struct {
	buf  []Decision
	next int
	full bool
}

func newHistory(size int) *history {
	size = max(size, 0)
	return &history{buf: make([]Decision, size)}
}

func (h *history) add(d Decision) {
	if len(h.buf) == 0 {
		return
	}
	h.buf[h.next] = d
	h.next = (h.next + 1) % len(h.buf)
	if h.next == 0 {
		h.full = true
	}
}

// list returns decisions oldest first.
func (h *history) list() []Decision {
	if !h.full {
		out := make([]Decision, h.next)
		copy(out, h.buf[:h.next])
		return out
	}
	out := make([]Decision, 0, len(h.buf))
	out = append(out, h.buf[h.next:]...)
	return append(out, h.buf[:h.next]...)
}
