package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/zeusync/pursuit/internal/config"
	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/pkg/pool"
)

// Config holds observation server settings.
type Config struct {
	Addr         string
	TokenSecret  string
	TokenTTL     time.Duration
	ControlRate  float64
	ControlBurst int
	// SendBuffer is the per-viewer outbound queue length.
	SendBuffer      int
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return ConfigFrom(config.Default().Server)
}

func ConfigFrom(c config.ServerConfig) Config {
	return Config{
		Addr:            c.Addr,
		TokenSecret:     c.TokenSecret,
		TokenTTL:        c.TokenTTL,
		ControlRate:     c.ControlRate,
		ControlBurst:    c.ControlBurst,
		SendBuffer:      64,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server exposes one session over HTTP and websockets: viewers get a token,
// receive frames as they are produced and may send player events back.
type Server struct {
	cfg     Config
	session *sim.Session
	bus     bus.EventBus
	subs    []bus.Subscription
	tokens  *Tokens
	hub     *wsHub
	buffers *pool.BufferPool
	logger  log.Log

	running atomic.Bool
	addr    atomic.Value // net.Addr
}

// New subscribes the server to frame and state-change events on b. Call
// Close to detach.
func New(cfg Config, session *sim.Session, b bus.EventBus, logger log.Log) (*Server, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	tokens, err := NewTokens(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		session: session,
		bus:     b,
		tokens:  tokens,
		hub:     newHub(),
		buffers: pool.NewBufferPool(),
		logger:  logger.Named("server"),
	}

	handlers := map[string]bus.EventHandler{
		sim.EventFrame:        s.onFrame,
		sim.EventPlayerMoved:  s.onStateChange,
		sim.EventEnemyDamaged: s.onStateChange,
	}
	for eventType, h := range handlers {
		sub, err := b.Subscribe(eventType, h)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("subscribe to %s: %w", eventType, err)
		}
		s.subs = append(s.subs, sub)
	}
	return s, nil
}

// Tokens exposes the issuer, mainly for tests and tooling.
func (s *Server) Tokens() *Tokens { return s.tokens }

// Addr is the bound listen address once Run has started listening.
func (s *Server) Addr() net.Addr {
	if a, ok := s.addr.Load().(net.Addr); ok {
		return a
	}
	return nil
}

// Run serves until ctx is done, then disconnects viewers and shuts down.
func (s *Server) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.addr.Store(ln.Addr())

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	s.logger.Info("server listening", log.String("addr", ln.Addr().String()))

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown", log.Error(err))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Close detaches the server from the bus.
func (s *Server) Close() error {
	var err error
	for _, sub := range s.subs {
		err = errors.Join(err, s.bus.Unsubscribe(sub))
	}
	s.subs = nil
	return err
}
