package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/injector"
	"github.com/zeusync/pursuit/internal/viewer"
)

func main() {
	var configPath string
	root := &cobra.Command{
		Use:   "viewer",
		Short: "Desktop viewer: click to move the player and hit the enemy",
		Long: `viewer opens a window with the enemy (red), the player (blue), the enemy's
health bar and its detection radius. Left click moves the player and deals
damage, space pauses, C copies the current frame to the clipboard.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			session, err := injector.InitializeSession(cfg)
			if err != nil {
				return err
			}

			ebiten.SetWindowSize(cfg.World.Width, cfg.World.Height)
			ebiten.SetWindowTitle("pursuit")
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
			ebiten.SetTPS(cfg.TPS())

			err = ebiten.RunGame(viewer.NewGame(session, cfg.World.Width, cfg.World.Height, nil))
			if err != nil && err != ebiten.Termination {
				return err
			}
			return nil
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "viewer:", err)
		os.Exit(1)
	}
}
