package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/internal/server"
)

func build(t *testing.T, addr string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Addr = addr
	cfg.Tick.Period = time.Millisecond

	b := bus.New()
	logger := log.NewNop()
	session := sim.NewSession(sim.ConfigFrom(cfg), sim.WithBus(b), sim.WithLogger(logger))
	runner := sim.NewRunner(session, cfg.Tick.Period, nil, logger)
	srv, err := server.New(server.ConfigFrom(cfg.Server), session, b, logger)
	require.NoError(t, err)
	return New(cfg, logger, session, runner, srv)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	a := build(t, "127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool { return a.Session.Snapshot().Tick >= 5 },
		2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRunFailsWhenAddressTaken(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	a := build(t, ln.Addr().String())
	err = a.Run(context.Background())
	assert.Error(t, err, "listen failure stops the runner too")
}
