package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/zeusync/pursuit/internal/core/entity"
	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/observability/log"
	"github.com/zeusync/pursuit/internal/core/sim"
)

const (
	writeWait      = 5 * time.Second
	maxControlSize = 1 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Control message types accepted from viewers.
const (
	ControlMove   = "move"
	ControlDamage = "damage"
	ControlClick  = "click"
)

// ControlMessage is an inbound viewer event.
type ControlMessage struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	// Amount overrides the configured damage for "damage" messages.
	Amount *int `json:"amount,omitempty"`
}

// Outbound is what the server pushes to viewers.
type Outbound struct {
	Type  string     `json:"type"`
	Frame *sim.Frame `json:"frame,omitempty"`
	Error string     `json:"error,omitempty"`
}

type wsClient struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// wsHub fans frames out to connected viewers. Slow viewers drop frames
// instead of stalling the tick loop.
type wsHub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	closed  bool

	// last pushed frame: its tick and a digest of its state, tick excluded
	lastTick   uint64
	lastDigest uint64
	hasDigest  bool
}

func newHub() *wsHub { return &wsHub{clients: make(map[*wsClient]struct{})} }

func (h *wsHub) add(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *wsHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *wsHub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// push broadcasts b, the encoded frame for tick with the given state digest,
// unless the state repeats the last pushed frame or tick is older than it.
// It reports whether b was sent.
func (h *wsHub) push(tick, digest uint64, b []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hasDigest && (tick < h.lastTick || digest == h.lastDigest) {
		return false
	}
	h.lastTick, h.lastDigest, h.hasDigest = tick, digest, true
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
		}
	}
	return true
}

// sendTo queues b for c if c is still connected.
func (h *wsHub) sendTo(c *wsClient, b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

func (h *wsHub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// onFrame is the bus handler for sim.EventFrame.
func (s *Server) onFrame(e bus.Event) error {
	f, ok := e.Data().(sim.Frame)
	if !ok {
		return fmt.Errorf("%w: frame event carries %T", ErrInvalidMessage, e.Data())
	}
	return s.pushFrame(f)
}

// onStateChange pushes the current snapshot after a player move or enemy
// damage, so viewers see the effect before the next tick.
func (s *Server) onStateChange(bus.Event) error {
	return s.pushFrame(s.session.Snapshot())
}

func (s *Server) pushFrame(f sim.Frame) error {
	state := f
	state.Tick = 0
	buf := s.buffers.Get()
	defer s.buffers.Put(buf)
	if err := json.NewEncoder(buf).Encode(state); err != nil {
		return err
	}
	digest := xxhash.Sum64(buf.Bytes())

	b, err := json.Marshal(Outbound{Type: "frame", Frame: &f})
	if err != nil {
		return err
	}
	s.hub.push(f.Tick, digest, b)
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request, claims *Claims) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	client := &wsClient{
		id:      claims.Subject,
		conn:    conn,
		send:    make(chan []byte, s.cfg.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.ControlRate), s.cfg.ControlBurst),
	}
	if !s.hub.add(client) {
		_ = conn.Close()
		return
	}

	clientLogger := s.logger.With(log.String("viewer", client.id))
	clientLogger.Info("viewer connected", log.Int("viewers", s.hub.len()))

	snapshot := s.session.Snapshot()
	if b, err := json.Marshal(Outbound{Type: "frame", Frame: &snapshot}); err == nil {
		s.hub.sendTo(client, b)
	}

	go s.readControls(client, clientLogger)

	defer func() {
		s.hub.remove(client)
		_ = conn.Close()
		clientLogger.Info("viewer disconnected", log.Int("viewers", s.hub.len()))
	}()
	for b := range client.send {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			clientLogger.Debug("write failed", log.Error(err))
			return
		}
	}
	if s.hub.isClosed() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
	}
}

// readControls applies inbound control messages until the connection fails.
// A message that does not decode gets an error reply; the viewer stays
// connected.
func (s *Server) readControls(c *wsClient, clientLogger log.Log) {
	defer s.hub.remove(c)
	c.conn.SetReadLimit(maxControlSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				clientLogger.Debug("read failed", log.Error(err))
			}
			return
		}
		if !c.limiter.Allow() {
			s.reply(c, ErrRateLimited)
			continue
		}
		var msg ControlMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			s.reply(c, fmt.Errorf("%w: %v", ErrInvalidMessage, err))
			continue
		}
		if err = s.applyControl(msg); err != nil {
			clientLogger.Debug("control rejected", log.String("type", msg.Type), log.Error(err))
			s.reply(c, err)
		}
	}
}

func (s *Server) applyControl(msg ControlMessage) error {
	pos := entity.Position{X: msg.X, Y: msg.Y}
	switch msg.Type {
	case ControlMove:
		s.session.MovePlayer(pos)
	case ControlClick:
		s.session.Click(pos)
	case ControlDamage:
		amount := s.session.DamageAmount()
		if msg.Amount != nil {
			amount = *msg.Amount
		}
		return s.session.DamageEnemy(amount)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidMessage, msg.Type)
	}
	return nil
}

func (s *Server) reply(c *wsClient, err error) {
	b, mErr := json.Marshal(Outbound{Type: "error", Error: err.Error()})
	if mErr != nil {
		return
	}
	s.hub.sendTo(c, b)
}
