package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/internal/server"
)

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, err := log.New(log.Options{Level: level, Development: cfg.Log.Development})
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// ProvideBus returns a bus that logs its traffic and keeps delivery metrics.
func ProvideBus(logger log.Log) bus.EventBus {
	b := bus.New()
	b.AddObserver(bus.NewLogObserver(logger))
	return b
}

func ProvideSession(cfg config.Config, logger log.Log, b bus.EventBus) *sim.Session {
	return sim.NewSession(sim.ConfigFrom(cfg), sim.WithLogger(logger), sim.WithBus(b))
}

func ProvideRunner(cfg config.Config, session *sim.Session, logger log.Log) *sim.Runner {
	return sim.NewRunner(session, cfg.Tick.Period, nil, logger.Named("runner"))
}

func ProvideServer(cfg config.Config, session *sim.Session, b bus.EventBus, logger log.Log) (*server.Server, error) {
	return server.New(server.ConfigFrom(cfg.Server), session, b, logger)
}

// SessionSet is everything a headless session needs.
var SessionSet = wire.NewSet(ProvideLogger, ProvideBus, ProvideSession)
