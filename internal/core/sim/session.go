package sim

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/bt"
	"github.com/zeusync/pursuit/internal/core/entity"
	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/npc"
	"github.com/zeusync/pursuit/internal/core/observability/log"
)

// ErrInvalidAmount is returned by DamageEnemy for negative amounts.
var ErrInvalidAmount = errors.New("damage amount must not be negative")

// Config is everything a session needs at start.
type Config struct {
	Player       entity.Position
	Enemy        entity.Position
	MaxHealth    int
	Policy       npc.Params
	DamageAmount int
	// Seed feeds the wander RNG; zero seeds from the clock.
	Seed        int64
	HistorySize int
}

func DefaultConfig() Config {
	return ConfigFrom(config.Default())
}

// ConfigFrom projects the file configuration onto a session config.
func ConfigFrom(c config.Config) Config {
	return Config{
		Player:    entity.Position{X: c.Player.X, Y: c.Player.Y},
		Enemy:     entity.Position{X: c.Enemy.X, Y: c.Enemy.Y},
		MaxHealth: c.Enemy.MaxHealth,
		Policy: npc.Params{
			DetectionRadius: c.Policy.DetectionRadius,
			LowHealth:       c.Policy.LowHealth,
		},
		DamageAmount: c.Policy.DamageAmount,
		Seed:         c.Tick.Seed,
		HistorySize:  c.Tick.History,
	}
}

type Option func(*Session)

func WithLogger(l log.Log) Option {
	return func(s *Session) { s.log = l }
}

// WithBus makes the session publish frame and event notifications on b.
func WithBus(b bus.EventBus) Option {
	return func(s *Session) { s.bus = b }
}

func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session owns one enemy, one player and the enemy's policy. Every method is
// safe for concurrent use: ticks and external events are serialized, so a tick
// sees either all or none of an event's effects.
type Session struct {
	mu sync.Mutex

	id     string
	seed   int64
	enemy  *entity.Enemy
	player *entity.Player
	policy *npc.Policy
	damage int

	tick    uint64
	status  bt.Status
	branch  string
	trace   []bt.TraceEntry
	history *history

	log log.Log
	bus bus.EventBus
}

func NewSession(cfg Config, opts ...Option) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Session{
		id:     uuid.NewString(),
		seed:   seed,
		enemy:  entity.NewEnemy(cfg.Enemy, cfg.MaxHealth),
		player: entity.NewPlayer(cfg.Player),
		damage: cfg.DamageAmount,
		log:    log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.history = newHistory(cfg.HistorySize)
	s.policy = npc.NewPolicy(s.enemy, s.player, cfg.Policy, rand.New(rand.NewSource(seed)))
	s.log = s.log.With(log.String("session", s.id))
	s.log.Info("session started",
		log.Int64("seed", seed),
		log.Any("enemy", cfg.Enemy),
		log.Any("player", cfg.Player),
		log.Float64("detection_radius", cfg.Policy.DetectionRadius),
		log.Int("low_health", cfg.Policy.LowHealth),
	)
	return s
}

func (s *Session) ID() string { return s.id }

// Seed is the RNG seed actually used, so a clock-seeded run can be replayed.
func (s *Session) Seed() int64 { return s.seed }

// Tick evaluates the policy once and returns the resulting frame.
func (s *Session) Tick() Frame {
	s.mu.Lock()
	s.status, s.branch = s.policy.Tick()
	s.trace = s.policy.Trace()
	s.tick++
	s.history.add(Decision{
		Tick:   s.tick,
		Branch: s.branch,
		Status: s.status.String(),
		Enemy:  s.enemy.Position(),
		Health: s.enemy.Health(),
	})
	f := s.frameLocked()
	s.mu.Unlock()

	s.log.Debug("tick",
		log.Uint64("tick", f.Tick),
		log.String("branch", f.Branch),
		log.String("status", f.Status),
		log.Any("enemy", f.Enemy),
		log.Any("player", f.Player),
		log.Int("health", f.EnemyHealth),
	)
	s.publish(EventFrame, f)
	return f
}

// MovePlayer teleports the player to pos.
func (s *Session) MovePlayer(pos entity.Position) {
	s.mu.Lock()
	from := s.player.Position()
	s.player.SetPosition(pos)
	s.mu.Unlock()

	s.log.Info("player moved", log.Any("from", from), log.Any("to", pos))
	s.publish(EventPlayerMoved, PlayerMoved{From: from, To: pos})
}

// DamageEnemy lowers enemy health by amount, clamped at zero.
func (s *Session) DamageEnemy(amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	s.enemy.Damage(amount)
	health := s.enemy.Health()
	s.mu.Unlock()

	s.log.Info("enemy damaged", log.Int("amount", amount), log.Int("health", health))
	s.publish(EventEnemyDamaged, EnemyDamaged{Amount: amount, Health: health})
	return nil
}

// Click moves the player to pos and damages the enemy by the configured
// amount, as one atomic event.
func (s *Session) Click(pos entity.Position) {
	s.mu.Lock()
	from := s.player.Position()
	s.player.SetPosition(pos)
	s.enemy.Damage(s.damage)
	health := s.enemy.Health()
	s.mu.Unlock()

	s.log.Info("click", log.Any("at", pos), log.Int("health", health))
	s.publish(EventPlayerMoved, PlayerMoved{From: from, To: pos})
	s.publish(EventEnemyDamaged, EnemyDamaged{Amount: s.damage, Health: health})
}

// Snapshot returns the current state without ticking.
func (s *Session) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

// History returns the retained decisions, oldest first.
func (s *Session) History() []Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.list()
}

func (s *Session) DamageAmount() int { return s.damage }

func (s *Session) frameLocked() Frame {
	params := s.policy.Params()
	f := Frame{
		SessionID:       s.id,
		Tick:            s.tick,
		Enemy:           s.enemy.Position(),
		EnemyHealth:     s.enemy.Health(),
		MaxHealth:       s.enemy.MaxHealth(),
		Player:          s.player.Position(),
		DetectionRadius: params.DetectionRadius,
		LowHealth:       params.LowHealth,
	}
	if s.tick > 0 {
		f.Status = s.status.String()
		f.Branch = s.branch
		f.Trace = append([]bt.TraceEntry(nil), s.trace...)
	}
	return f
}

func (s *Session) publish(eventType string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(eventType, s.id, data)); err != nil {
		s.log.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
