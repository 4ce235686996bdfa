package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/pursuit/sdk/go/client"
)

func (a *App) newWatchCmd() *cobra.Command {
	var (
		url    string
		count  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print frames streamed by a running pursuit server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := client.DefaultConfig()
			cfg.BaseURL = url
			c, err := client.Connect(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer c.Close()

			enc := json.NewEncoder(a.stdout)
			seen := 0
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case err := <-c.Errors():
					fmt.Fprintln(a.stderr, err)
				case f, ok := <-c.Frames():
					if !ok {
						return fmt.Errorf("connection closed")
					}
					if asJSON {
						_ = enc.Encode(f)
					} else {
						fmt.Fprintln(a.stdout, formatFrame(f))
					}
					seen++
					if count > 0 && seen >= count {
						return nil
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many frames (0 = until interrupted)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print frames as JSON lines")
	return cmd
}
