// Package api pkg/api/ws.go

package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Aboubacarelhacen/silo/pkg/broadcast"
	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin dashboards are expected; CORS is already wide open
	// on the REST surface.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWS upgrades the connection and bridges the broadcast hub onto
// it. Each client gets both measurement topics; a client that
// reconnects simply waits for the next tick, there is no replay.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade failed: %v", err)
		return
	}

	sub := s.hub.Subscribe(conn.RemoteAddr().String(),
		models.TopicLevelUpdated, models.TopicTemperatureUpdated)

	log.Printf("api: live client connected: %s", sub.ID())

	go s.writePump(conn, sub)
	go s.readPump(conn, sub)
}

// writePump forwards hub messages to the client until the subscription
// ends or a write fails.
func (s *Server) writePump(conn *websocket.Conn, sub *broadcast.Subscriber) {
	defer func() {
		s.hub.Unsubscribe(sub)

		if err := conn.Close(); err != nil {
			log.Printf("api: error closing websocket: %v", err)
		}
	}()

	for msg := range sub.C() {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return
		}

		if err := conn.WriteJSON(wsEvent{Type: msg.Topic, Payload: msg.Payload}); err != nil {
			log.Printf("api: write to live client %s failed: %v", sub.ID(), err)
			return
		}
	}
}

// readPump drains the connection to detect the client going away.
// Inbound payloads are ignored; the live channel is push-only.
func (s *Server) readPump(conn *websocket.Conn, sub *broadcast.Subscriber) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Printf("api: live client disconnected: %s", sub.ID())
			s.hub.Unsubscribe(sub)

			return
		}
	}
}
