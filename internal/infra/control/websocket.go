package control

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"jasper-launcher/internal/domain/model"
	"jasper-launcher/pkg/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// checkLocalOrigin accepts non-browser clients and pages served from the
// loopback interface.
func checkLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// handleEvents streams hub events as JSON text frames. The optional events
// query parameter is a comma separated list of event names to receive.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var names []string
	if raw := r.URL.Query().Get("events"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	sub := s.hub.Subscribe(names...)
	s.subscribersChanged()
	log.Debug("Event client connected", "remote", r.RemoteAddr, "events", names)

	closed := make(chan struct{})
	go readPump(conn, closed)

	s.writePump(conn, sub.Events(), closed)

	sub.Close()
	conn.Close()
	s.subscribersChanged()
	log.Debug("Event client disconnected", "remote", r.RemoteAddr, "dropped", sub.Dropped())
}

// readPump discards client messages and signals closed when the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, events <-chan model.Event, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (s *Server) subscribersChanged() {
	if s.opts.OnSubscribers != nil {
		s.opts.OnSubscribers(s.hub.Subscribers())
	}
}
