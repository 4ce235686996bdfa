package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zeusync/pursuit/internal/core/events/bus"
	"github.com/zeusync/pursuit/internal/core/observability/log"
)

// SessionResponse is returned by POST /session.
type SessionResponse struct {
	Token     string    `json:"token"`
	ViewerID  string    `json:"viewer_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Health is returned by GET /healthz.
type Health struct {
	Status    string              `json:"status"`
	SessionID string              `json:"session_id"`
	Tick      uint64              `json:"tick"`
	Viewers   int                 `json:"viewers"`
	Bus       bus.EventBusMetrics `json:"bus"`
}

// Handler returns the server's routes:
//
//	POST /session   issue a viewer token
//	GET  /ws        frame stream and control channel (token required)
//	GET  /snapshot  current frame
//	GET  /history   recent decisions
//	GET  /healthz   liveness, viewer count and bus metrics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /session", s.handleSession)
	mux.HandleFunc("GET /ws", s.requireToken(s.handleWebSocket))
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /history", s.handleHistory)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	token, viewerID, expires, err := s.tokens.Issue(s.session.ID())
	if err != nil {
		s.logger.Error("issue token", log.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.logger.Info("viewer token issued", log.String("viewer", viewerID))
	writeJSON(w, http.StatusCreated, SessionResponse{
		Token:     token,
		ViewerID:  viewerID,
		SessionID: s.session.ID(),
		ExpiresAt: expires,
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.History())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status:    "ok",
		SessionID: s.session.ID(),
		Tick:      s.session.Snapshot().Tick,
		Viewers:   s.hub.len(),
		Bus:       s.bus.GetMetrics(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
