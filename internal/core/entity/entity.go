// Package entity holds the plain agent state the behavior tree reads and
// mutates. It contains no decision logic and no locking: callers serialize
// access (see sim.Session).
package entity

import (
	"cmp"
	"math"
)

// DefaultMaxHealth is the health an enemy starts with unless configured otherwise.
const DefaultMaxHealth = 100

// Position is a point on the integer plane.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Hypot(float64(p.X)-float64(q.X), float64(p.Y)-float64(q.Y))
}

// Chebyshev returns the larger of the per-axis distances between p and q,
// saturating at math.MaxInt.
func (p Position) Chebyshev(q Position) int {
	return max(absDiff(p.X, q.X), absDiff(p.Y, q.Y))
}

// Translate returns p shifted by (dx, dy).
func (p Position) Translate(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// StepToward returns the per-axis unit step (-1, 0 or +1 on each axis) that
// moves p toward target.
func (p Position) StepToward(target Position) (dx, dy int) {
	return cmp.Compare(target.X, p.X), cmp.Compare(target.Y, p.Y)
}

// Player only owns a position; it is moved by external input.
type Player struct {
	pos Position
}

func NewPlayer(pos Position) *Player {
	return &Player{pos: pos}
}

func (p *Player) Position() Position { return p.pos }

func (p *Player) SetPosition(pos Position) { p.pos = pos }

// Enemy owns a position and a health value clamped to [0, MaxHealth].
type Enemy struct {
	pos       Position
	health    int
	maxHealth int
}

// NewEnemy creates an enemy at full health. A non-positive maxHealth falls
// back to DefaultMaxHealth.
func NewEnemy(pos Position, maxHealth int) *Enemy {
	if maxHealth <= 0 {
		maxHealth = DefaultMaxHealth
	}
	return &Enemy{pos: pos, health: maxHealth, maxHealth: maxHealth}
}

func (e *Enemy) Position() Position { return e.pos }

func (e *Enemy) SetPosition(pos Position) { e.pos = pos }

// Move shifts the enemy by (dx, dy).
func (e *Enemy) Move(dx, dy int) { e.pos = e.pos.Translate(dx, dy) }

func (e *Enemy) Health() int { return e.health }

func (e *Enemy) MaxHealth() int { return e.maxHealth }

// Damage lowers health by amount, never below zero. Negative amounts are ignored.
func (e *Enemy) Damage(amount int) {
	if amount <= 0 {
		return
	}
	e.setHealth(e.health - amount)
}

// Heal raises health by amount, never above MaxHealth. Negative amounts are ignored.
func (e *Enemy) Heal(amount int) {
	if amount <= 0 {
		return
	}
	e.setHealth(e.health + amount)
}

// SetHealth assigns health, clamped to [0, MaxHealth].
func (e *Enemy) SetHealth(h int) { e.setHealth(h) }

func (e *Enemy) setHealth(h int) {
	e.health = min(max(h, 0), e.maxHealth)
}

func absDiff(a, b int) int {
	if a < b {
		a, b = b, a
	}
	if d := a - b; d >= 0 {
		return d
	}
	return math.MaxInt
}
