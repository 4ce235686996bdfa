package npc

import (
	"fmt"
	"math/rand"

	"github.com/zeusync/pursuit/internal/core/bt"
	"github.com/zeusync/pursuit/internal/core/entity"
)

// Positioned is anything with a location on the plane.
type Positioned interface {
	Position() entity.Position
}

// Mover is an agent an action leaf can step around.
type Mover interface {
	Positioned
	Move(dx, dy int)
}

// Vital exposes an agent's current health.
type Vital interface {
	Health() int
}

// RangeCheck succeeds while the Euclidean distance between a and b is at most
// radius (inclusive). The check is symmetric in a and b.
type RangeCheck struct {
	a, b   Positioned
	radius float64
}

func NewRangeCheck(a, b Positioned, radius float64) *RangeCheck {
	return &RangeCheck{a: a, b: b, radius: radius}
}

func (c *RangeCheck) Name() string { return fmt.Sprintf("InRange(%g)", c.radius) }

func (c *RangeCheck) Tick() bt.Status {
	if c.a.Position().Distance(c.b.Position()) <= c.radius {
		return bt.StatusSuccess
	}
	return bt.StatusFailure
}

// HealthBelow succeeds while the agent's health is strictly below threshold.
type HealthBelow struct {
	agent     Vital
	threshold int
}

func NewHealthBelow(agent Vital, threshold int) *HealthBelow {
	return &HealthBelow{agent: agent, threshold: threshold}
}

func (c *HealthBelow) Name() string { return fmt.Sprintf("HealthBelow(%d)", c.threshold) }

func (c *HealthBelow) Tick() bt.Status {
	if c.agent.Health() < c.threshold {
		return bt.StatusSuccess
	}
	return bt.StatusFailure
}

// ChaseToward steps self one unit toward target on each axis independently.
// It always reports Running.
type ChaseToward struct {
	self   Mover
	target Positioned
}

func NewChaseToward(self Mover, target Positioned) *ChaseToward {
	return &ChaseToward{self: self, target: target}
}

func (a *ChaseToward) Name() string { return "ChaseToward" }

func (a *ChaseToward) Tick() bt.Status {
	a.self.Move(a.self.Position().StepToward(a.target.Position()))
	return bt.StatusRunning
}

// FleeFrom steps self one unit away from target on each axis independently.
// An axis on which both are aligned is held. It always reports Running.
type FleeFrom struct {
	self   Mover
	target Positioned
}

func NewFleeFrom(self Mover, target Positioned) *FleeFrom {
	return &FleeFrom{self: self, target: target}
}

func (a *FleeFrom) Name() string { return "FleeFrom" }

func (a *FleeFrom) Tick() bt.Status {
	dx, dy := a.self.Position().StepToward(a.target.Position())
	a.self.Move(-dx, -dy)
	return bt.StatusRunning
}

// Wander steps self by an independent uniform draw from {-1, 0, +1} on each
// axis. The random source is injected so runs can be reproduced.
type Wander struct {
	self Mover
	rng  *rand.Rand
}

func NewWander(self Mover, rng *rand.Rand) *Wander {
	return &Wander{self: self, rng: rng}
}

func (a *Wander) Name() string { return "Wander" }

func (a *Wander) Tick() bt.Status {
	dx := a.rng.Intn(3) - 1
	dy := a.rng.Intn(3) - 1
	a.self.Move(dx, dy)
	return bt.StatusRunning
}
