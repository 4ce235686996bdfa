package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/internal/server"
)

// App is the serve-mode process: one session ticked by a runner and exposed
// by the observation server.
type App struct {
	Config  config.Config
	Logger  log.Log
	Session *sim.Session
	Runner  *sim.Runner
	Server  *server.Server
}

func New(cfg config.Config, logger log.Log, session *sim.Session, runner *sim.Runner, srv *server.Server) *App {
	return &App{Config: cfg, Logger: logger, Session: session, Runner: runner, Server: srv}
}

// Run blocks until ctx is done or either component fails.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("pursuit starting",
		log.String("session", a.Session.ID()),
		log.Int64("seed", a.Session.Seed()),
		log.String("addr", a.Config.Server.Addr),
		log.Duration("period", a.Config.Tick.Period),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Runner.Run(ctx) })
	g.Go(func() error { return a.Server.Run(ctx) })
	err := g.Wait()

	if cErr := a.Server.Close(); cErr != nil {
		a.Logger.Warn("detach server", log.Error(cErr))
	}
	if err != nil {
		a.Logger.Error("pursuit stopped", log.Error(err))
		return err
	}
	a.Logger.Info("pursuit stopped", log.Uint64("ticks", a.Session.Snapshot().Tick))
	return nil
}
