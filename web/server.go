// Package web serves the layout's live status: JSON snapshots and a
// WebSocket stream for the classroom dashboard. It only makes sense in
// simulation mode, where the control core runs on the host.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/controller"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/logger"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	defaultInterval = time.Second
	maxInterval     = 10 * time.Second
)

// StateFunc returns the current controller snapshot.
type StateFunc func() controller.State

// Server exposes the controller state over HTTP.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	state  StateFunc
	log    *logger.Logger
}

type wsEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewServer wires the routes. Call Run to serve.
func NewServer(addr string, state StateFunc, log *logger.Logger) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		state: state,
		log:   log,
	}
	s.mux.HandleFunc("/api/v1/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/state", s.handleState)
	s.mux.HandleFunc("/api/v1/ws", s.handleWS)

	s.server = &http.Server{Addr: addr, Handler: s.mux}
	return s
}

// Handler returns the route handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.log.Infow("status server listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("error running status server: %w", err)
	}
	return nil
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.state())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	interval := parseInterval(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorw("websocket upgrade failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// drain incoming messages to handle control frames and spot disconnects
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer ping.Stop()

	if err := s.sendState(conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.sendState(conn); err != nil {
				s.log.Debugw("websocket write failed", "err", err)
				return
			}
		}
	}
}

func (s *Server) sendState(conn *websocket.Conn) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "state", Data: s.state()})
}

func parseInterval(r *http.Request) time.Duration {
	if q := r.URL.Query().Get("interval"); q != "" {
		if d, err := time.ParseDuration(q); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	return defaultInterval
}
