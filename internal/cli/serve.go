package cli

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/pursuit/internal/injector"
)

func (a *App) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and the observation server",
		Long: `serve ticks the session at the configured period and exposes it over HTTP:

  POST /session   issue a viewer token
  GET  /ws        websocket frame stream and control channel
  GET  /snapshot  current frame
  GET  /history   recent decisions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			app, err := injector.InitializeApp(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Logger.Sync() }()
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
