// Package client is a Go client for the pursuit observation server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/pursuit/internal/core/entity"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
	"github.com/zeusync/pursuit/internal/server"
)

// Config holds client settings.
type Config struct {
	// BaseURL is the server's HTTP root, e.g. http://localhost:8080.
	BaseURL        string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	// FrameBuffer is the length of the Frames channel. Frames are dropped
	// when the consumer falls behind.
	FrameBuffer int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		ConnectTimeout: 10 * time.Second,
		WriteTimeout:   5 * time.Second,
		FrameBuffer:    64,
	}
}

// Client is one viewer connection: it receives frames and can send player
// events back to the session.
type Client struct {
	cfg     Config
	http    *http.Client
	conn    *websocket.Conn
	session server.SessionResponse
	logger  log.Log

	frames chan sim.Frame
	errs   chan error
	done   chan struct{}

	writeMu sync.Mutex
	closed  atomic.Bool
}

// Connect obtains a viewer token and opens the websocket.
func Connect(ctx context.Context, cfg Config, logger log.Log) (*Client, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.FrameBuffer <= 0 {
		cfg.FrameBuffer = 64
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger.Named("client"),
		frames: make(chan sim.Frame, cfg.FrameBuffer),
		errs:   make(chan error, 8),
		done:   make(chan struct{}),
	}

	if err := c.issue(ctx); err != nil {
		return nil, err
	}

	wsURL, err := c.wsURL()
	if err != nil {
		return nil, err
	}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: websocket: %s", ErrRejected, resp.Status)
		}
		return nil, fmt.Errorf("dial %s: %w", c.cfg.BaseURL, err)
	}
	c.conn = conn

	go c.readLoop()

	c.logger.Info("connected",
		log.String("session", c.session.SessionID),
		log.String("viewer", c.session.ViewerID))
	return c, nil
}

func (c *Client) issue(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.cfg.BaseURL, "/")+"/session", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: token: %s", ErrRejected, resp.Status)
	}
	if err = json.NewDecoder(resp.Body).Decode(&c.session); err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	return nil
}

func (c *Client) wsURL() (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {c.session.Token}}.Encode()
	return u.String(), nil
}

func (c *Client) readLoop() {
	defer close(c.frames)
	defer close(c.done)
	for {
		var msg server.Outbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !c.closed.Load() {
				c.logger.Debug("read loop ended", log.Error(err))
			}
			return
		}
		switch {
		case msg.Type == "frame" && msg.Frame != nil:
			select {
			case c.frames <- *msg.Frame:
			default:
				c.logger.Debug("frame dropped", log.Uint64("tick", msg.Frame.Tick))
			}
		case msg.Type == "error":
			select {
			case c.errs <- fmt.Errorf("%w: %s", ErrServer, msg.Error):
			default:
			}
		}
	}
}

// Frames delivers frames in arrival order. It is closed when the connection ends.
func (c *Client) Frames() <-chan sim.Frame { return c.frames }

// Errors delivers errors the server reported for sent events.
func (c *Client) Errors() <-chan error { return c.errs }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) SessionID() string { return c.session.SessionID }
func (c *Client) ViewerID() string  { return c.session.ViewerID }

func (c *Client) Move(pos entity.Position) error {
	return c.send(server.ControlMessage{Type: server.ControlMove, X: pos.X, Y: pos.Y})
}

func (c *Client) Click(pos entity.Position) error {
	return c.send(server.ControlMessage{Type: server.ControlClick, X: pos.X, Y: pos.Y})
}

// Damage hits the enemy by amount; zero or less uses the server's configured amount.
func (c *Client) Damage(amount int) error {
	msg := server.ControlMessage{Type: server.ControlDamage}
	if amount > 0 {
		msg.Amount = &amount
	}
	return c.send(msg)
}

// Snapshot fetches the current frame over plain HTTP.
func (c *Client) Snapshot(ctx context.Context) (sim.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(c.cfg.BaseURL, "/")+"/snapshot", nil)
	if err != nil {
		return sim.Frame{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return sim.Frame{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return sim.Frame{}, fmt.Errorf("%w: snapshot: %s", ErrRejected, resp.Status)
	}
	var f sim.Frame
	if err = json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return sim.Frame{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return f, nil
}

func (c *Client) send(msg server.ControlMessage) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	return c.conn.WriteJSON(msg)
}

// Close ends the connection. It is safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}
