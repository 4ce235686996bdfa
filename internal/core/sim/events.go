package sim

import "github.com/zeusync/pursuit/internal/core/entity"

// Event types published on the session bus.
const (
	EventFrame        = "frame"
	EventPlayerMoved  = "player.moved"
	EventEnemyDamaged = "enemy.damaged"
)

// PlayerMoved is the payload of EventPlayerMoved.
type PlayerMoved struct {
	From entity.Position `json:"from"`
	To   entity.Position `json:"to"`
}

// EnemyDamaged is the payload of EventEnemyDamaged.
type EnemyDamaged struct {
	Amount int `json:"amount"`
	Health int `json:"health"`
}
