package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pursuit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 80.0, cfg.Policy.DetectionRadius)
	assert.Equal(t, 30, cfg.Policy.LowHealth)
	assert.Equal(t, 10, cfg.Policy.DamageAmount)
	assert.Equal(t, 100, cfg.Enemy.MaxHealth)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick.Period)
	assert.Equal(t, 20, cfg.TPS())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := writeConfig(t, `
enemy:
  x: 10
policy:
  detection_radius: 120
tick:
  period: 100ms
  seed: 42
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Enemy.X)
	assert.Equal(t, 50, cfg.Enemy.Y, "unset field keeps default")
	assert.Equal(t, 100, cfg.Enemy.MaxHealth)
	assert.Equal(t, 120.0, cfg.Policy.DetectionRadius)
	assert.Equal(t, 30, cfg.Policy.LowHealth)
	assert.Equal(t, 100*time.Millisecond, cfg.Tick.Period)
	assert.EqualValues(t, 42, cfg.Tick.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.TPS())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "policy: [not, a, map]"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "tick:\n  period: 0s\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "policy:\n  detection_raduis: 120\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detection_raduis")

	_, err = Load(writeConfig(t, "ticks:\n  period: 10ms\n"))
	require.Error(t, err)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }},
		{"zero max health", func(c *Config) { c.Enemy.MaxHealth = 0 }},
		{"negative radius", func(c *Config) { c.Policy.DetectionRadius = -1 }},
		{"low health above max", func(c *Config) { c.Policy.LowHealth = 101 }},
		{"negative damage", func(c *Config) { c.Policy.DamageAmount = -5 }},
		{"zero period", func(c *Config) { c.Tick.Period = 0 }},
		{"negative history", func(c *Config) { c.Tick.History = -1 }},
		{"zero ttl", func(c *Config) { c.Server.TokenTTL = 0 }},
		{"zero rate", func(c *Config) { c.Server.ControlRate = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestTPSFloor(t *testing.T) {
	cfg := Default()
	cfg.Tick.Period = 3 * time.Second
	assert.Equal(t, 1, cfg.TPS())
}
