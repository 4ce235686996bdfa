//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/pursuit/internal/app"
	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/sim"
)

// InitializeApp wires the serve-mode process.
func InitializeApp(cfg config.Config) (*app.App, error) {
	wire.Build(SessionSet, ProvideRunner, ProvideServer, app.New)
	return nil, nil
}

// InitializeSession wires a headless session for simulate and the viewer.
func InitializeSession(cfg config.Config) (*sim.Session, error) {
	wire.Build(SessionSet)
	return nil, nil
}
