package npc

import (
	"math/rand"

	"github.com/zeusync/pursuit/internal/core/bt"
	"github.com/zeusync/pursuit/internal/core/entity"
)

// Branch names of the root selector, highest priority first.
const (
	BranchFlee   = "Flee"
	BranchChase  = "Chase"
	BranchWander = "Wander"
)

// Params tunes the enemy policy.
type Params struct {
	// DetectionRadius is the inclusive chase radius around the enemy.
	DetectionRadius float64
	// LowHealth is the exclusive threshold under which the enemy flees.
	LowHealth int
}

// DefaultParams returns the stock tuning: chase within 80, flee under 30 health.
func DefaultParams() Params {
	return Params{DetectionRadius: 80, LowHealth: 30}
}

// Policy is the enemy's behavior tree:
//
//	Selector
//	├── Sequence "Flee":  HealthBelow(enemy, LowHealth) → FleeFrom(enemy, player)
//	├── Sequence "Chase": InRange(enemy, player, DetectionRadius) → ChaseToward(enemy, player)
//	└── Wander(enemy)
//
// The shape is fixed at construction. The policy keeps a per-tick trace so
// callers can tell which branch handled the last tick.
type Policy struct {
	root   *bt.Selector
	trace  *bt.Trace
	params Params
}

// NewPolicy wires the tree around enemy and player. The leaves keep the
// pointers; they do not own the agents.
func NewPolicy(enemy *entity.Enemy, player *entity.Player, params Params, rng *rand.Rand) *Policy {
	trace := &bt.Trace{}

	flee := bt.NewSequence(BranchFlee,
		NewHealthBelow(enemy, params.LowHealth),
		NewFleeFrom(enemy, player),
	)
	chase := bt.NewSequence(BranchChase,
		NewRangeCheck(enemy, player, params.DetectionRadius),
		NewChaseToward(enemy, player),
	)
	wander := NewWander(enemy, rng)

	root := bt.NewSelector("Root",
		bt.Tap(flee, trace),
		bt.Tap(chase, trace),
		bt.Tap(wander, trace),
	)
	return &Policy{root: root, trace: trace, params: params}
}

// Root exposes the tree's root node. Ticking it is the same as calling Tick,
// so the trace always describes the last tick.
func (p *Policy) Root() bt.Node { return policyRoot{p: p} }

func (p *Policy) Params() Params { return p.params }

// Tick evaluates the tree once and reports the root status together with the
// name of the branch that handled the tick ("" if every branch failed).
func (p *Policy) Tick() (bt.Status, string) {
	p.trace.Reset()
	st := p.root.Tick()
	w, ok := p.trace.Winner()
	if !ok {
		return st, ""
	}
	return st, w.Node
}

// Trace returns what the last tick evaluated, in order.
func (p *Policy) Trace() []bt.TraceEntry { return p.trace.Entries() }

// policyRoot is the root selector seen from outside the policy.
type policyRoot struct{ p *Policy }

func (r policyRoot) Name() string { return r.p.root.Name() }

func (r policyRoot) Tick() bt.Status {
	st, _ := r.p.Tick()
	return st
}

// Children returns the branches in priority order.
func (r policyRoot) Children() []bt.Node { return r.p.root.Children() }
