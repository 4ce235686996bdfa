package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/pursuit/internal/core/observability/log"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	World  WorldConfig  `yaml:"world" json:"world"`
	Player PointConfig  `yaml:"player" json:"player"`
	Enemy  EnemyConfig  `yaml:"enemy" json:"enemy"`
	Policy PolicyConfig `yaml:"policy" json:"policy"`
	Tick   TickConfig   `yaml:"tick" json:"tick"`
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// WorldConfig sizes the viewer window. The simulation itself is unbounded.
type WorldConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

type PointConfig struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

type EnemyConfig struct {
	X         int `yaml:"x" json:"x"`
	Y         int `yaml:"y" json:"y"`
	MaxHealth int `yaml:"max_health" json:"max_health"`
}

type PolicyConfig struct {
	DetectionRadius float64 `yaml:"detection_radius" json:"detection_radius"`
	LowHealth       int     `yaml:"low_health" json:"low_health"`
	DamageAmount    int     `yaml:"damage_amount" json:"damage_amount"`
}

type TickConfig struct {
	Period time.Duration `yaml:"period" json:"period"`
	// Seed feeds the wander RNG. Zero seeds from the clock.
	Seed int64 `yaml:"seed" json:"seed"`
	// History bounds the decision log kept by the session.
	History int `yaml:"history" json:"history"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	// TokenSecret signs viewer tokens. Empty generates a random secret at startup.
	TokenSecret  string        `yaml:"token_secret" json:"-"`
	TokenTTL     time.Duration `yaml:"token_ttl" json:"token_ttl"`
	ControlRate  float64       `yaml:"control_rate" json:"control_rate"`
	ControlBurst int           `yaml:"control_burst" json:"control_burst"`
}

type LogConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
}

func Default() Config {
	return Config{
		World:  WorldConfig{Width: 400, Height: 400},
		Player: PointConfig{X: 200, Y: 200},
		Enemy:  EnemyConfig{X: 50, Y: 50, MaxHealth: 100},
		Policy: PolicyConfig{DetectionRadius: 80, LowHealth: 30, DamageAmount: 10},
		Tick:   TickConfig{Period: 50 * time.Millisecond, Seed: 0, History: 64},
		Server: ServerConfig{
			Addr:         ":8080",
			TokenTTL:     5 * time.Minute,
			ControlRate:  20,
			ControlBurst: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over Default. Fields absent from the file keep
// their default values; unknown keys are an error. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return invalid("world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	case c.Enemy.MaxHealth <= 0:
		return invalid("enemy.max_health must be positive, got %d", c.Enemy.MaxHealth)
	case c.Policy.DetectionRadius < 0:
		return invalid("policy.detection_radius must not be negative, got %g", c.Policy.DetectionRadius)
	case c.Policy.LowHealth < 0 || c.Policy.LowHealth > c.Enemy.MaxHealth:
		return invalid("policy.low_health must be within [0, %d], got %d", c.Enemy.MaxHealth, c.Policy.LowHealth)
	case c.Policy.DamageAmount < 0:
		return invalid("policy.damage_amount must not be negative, got %d", c.Policy.DamageAmount)
	case c.Tick.Period <= 0:
		return invalid("tick.period must be positive, got %s", c.Tick.Period)
	case c.Tick.History < 0:
		return invalid("tick.history must not be negative, got %d", c.Tick.History)
	case c.Server.TokenTTL <= 0:
		return invalid("server.token_ttl must be positive, got %s", c.Server.TokenTTL)
	case c.Server.ControlRate <= 0 || c.Server.ControlBurst <= 0:
		return invalid("server.control_rate and control_burst must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// TPS is the tick rate implied by Tick.Period.
func (c Config) TPS() int {
	tps := int(time.Second / c.Tick.Period)
	if tps < 1 {
		return 1
	}
	return tps
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
