package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket connections and wires each
// accepted socket into the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler builds the upgrade handler. Browser requests are accepted
// only from allowedOrigin; requests without an Origin header (non-browser
// clients) pass through.
func NewHandler(hub *Hub, allowedOrigin string) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

// ServeWS accepts a connection and starts its pump goroutines. The client
// is registered before the read pump starts, so its events are always
// processed against a known connection.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		log.Printf("websocket upgrade failed: %v", err)
		return nil
	}

	cl := newClient(uuid.NewString(), conn, h.hub)
	h.hub.Register(cl)

	go cl.keepAlive()
	go cl.writePump()
	go cl.readPump()
	return nil
}

// RoomCounts exposes live per-room session counts for the HTTP surface.
func (h *Handler) RoomCounts() map[string]int {
	return h.hub.RoomCounts()
}
