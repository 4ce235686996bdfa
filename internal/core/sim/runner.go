package sim

import (
	"context"
	"time"

	"github.com/zeusync/pursuit/internal/core/observability/log"
)

// FrameFunc observes each frame produced by a Runner.
type FrameFunc func(Frame)

// Runner drives a Session at a fixed period. It holds no tree logic of its own.
type Runner struct {
	session *Session
	period  time.Duration
	onFrame FrameFunc
	log     log.Log
}

// NewRunner builds a runner; onFrame and logger may be nil.
func NewRunner(session *Session, period time.Duration, onFrame FrameFunc, logger log.Log) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Runner{session: session, period: period, onFrame: onFrame, log: logger}
}

// Run ticks the session every period until ctx is done. A tick in progress
// always completes; cancellation is observed between ticks.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.log.Info("runner started", log.Duration("period", r.period))
	for {
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped", log.Uint64("tick", r.session.Snapshot().Tick))
			return nil
		case <-ticker.C:
			r.step()
		}
	}
}

// Steps runs n ticks back to back and returns the last frame.
func (r *Runner) Steps(n int) Frame {
	var f Frame
	if n <= 0 {
		return r.session.Snapshot()
	}
	for i := 0; i < n; i++ {
		f = r.step()
	}
	return f
}

func (r *Runner) step() Frame {
	f := r.session.Tick()
	if r.onFrame != nil {
		r.onFrame(f)
	}
	return f
}
