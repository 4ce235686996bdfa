package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/pursuit/internal/core/entity"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/internal/injector"
)

// scheduledClick is a --click flag: a click at Pos just before tick At.
type scheduledClick struct {
	At  uint64
	Pos entity.Position
}

// parseClick reads "x,y@tick".
func parseClick(s string) (scheduledClick, error) {
	coords, at, ok := strings.Cut(s, "@")
	if !ok {
		return scheduledClick{}, fmt.Errorf("click %q: want x,y@tick", s)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return scheduledClick{}, fmt.Errorf("click %q: want x,y@tick", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return scheduledClick{}, fmt.Errorf("click %q: x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return scheduledClick{}, fmt.Errorf("click %q: y: %w", s, err)
	}
	tick, err := strconv.ParseUint(strings.TrimSpace(at), 10, 64)
	if err != nil || tick == 0 {
		return scheduledClick{}, fmt.Errorf("click %q: tick must be a positive integer", s)
	}
	return scheduledClick{At: tick, Pos: entity.Position{X: x, Y: y}}, nil
}

func (a *App) newSimulateCmd() *cobra.Command {
	var (
		ticks   int
		clicks  []string
		summary bool
		asJSON  bool
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the session headless for a fixed number of ticks",
		Example: `  pursuit simulate --ticks 200 --seed 7
  pursuit simulate --ticks 50 --click 60,60@10 --click 60,60@11 --summary`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks < 0 {
				return fmt.Errorf("--ticks must not be negative")
			}
			schedule := make(map[uint64][]entity.Position)
			for _, c := range clicks {
				sc, err := parseClick(c)
				if err != nil {
					return err
				}
				schedule[sc.At] = append(schedule[sc.At], sc.Pos)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Tick.Seed = seed
			}
			session, err := injector.InitializeSession(cfg)
			if err != nil {
				return err
			}

			var emit sim.FrameFunc
			switch {
			case summary:
			case asJSON:
				enc := json.NewEncoder(a.stdout)
				emit = func(f sim.Frame) { _ = enc.Encode(f) }
			default:
				emit = func(f sim.Frame) { fmt.Fprintln(a.stdout, formatFrame(f)) }
			}

			stats := newBranchStats()
			runner := sim.NewRunner(session, cfg.Tick.Period, func(f sim.Frame) {
				stats.add(f)
				if emit != nil {
					emit(f)
				}
			}, nil)

			for i := 1; i <= ticks; i++ {
				for _, pos := range schedule[uint64(i)] {
					session.Click(pos)
				}
				runner.Steps(1)
			}

			if summary {
				stats.write(a.stdout, session.Snapshot())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 100, "number of ticks to run")
	cmd.Flags().StringArrayVar(&clicks, "click", nil, "click at x,y before the given tick (repeatable), e.g. 60,60@10")
	cmd.Flags().BoolVar(&summary, "summary", false, "print only a summary")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print frames as JSON lines")
	cmd.Flags().Int64Var(&seed, "seed", 0, "wander seed (overrides tick.seed)")
	return cmd
}

func formatFrame(f sim.Frame) string {
	return fmt.Sprintf("tick=%d branch=%s status=%s enemy=(%d,%d) hp=%d/%d player=(%d,%d)",
		f.Tick, f.Branch, f.Status, f.Enemy.X, f.Enemy.Y, f.EnemyHealth, f.MaxHealth, f.Player.X, f.Player.Y)
}

type branchStats struct {
	counts map[string]int
	total  int
}

func newBranchStats() *branchStats { return &branchStats{counts: make(map[string]int)} }

func (s *branchStats) add(f sim.Frame) {
	s.counts[f.Branch]++
	s.total++
}

func (s *branchStats) write(w io.Writer, last sim.Frame) {
	fmt.Fprintf(w, "ticks: %d\n", s.total)
	names := make([]string, 0, len(s.counts))
	for name := range s.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %d\n", name, s.counts[name])
	}
	fmt.Fprintln(w, "final: "+formatFrame(last))
}
