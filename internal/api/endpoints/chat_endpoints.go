package endpoints

import (
	"net/http"

	"room-chat-server/internal/websocket"
)

// RoomInfo is one entry in the room directory response. The room set is
// fixed at startup; only the member counts are live.
type RoomInfo struct {
	Room  string `json:"room"`
	Users int    `json:"users"`
}

type ChatEndpoints interface {
	Rooms(http.ResponseWriter, *http.Request) error
	Websocket(http.ResponseWriter, *http.Request) error
}

type chatEndpoints struct {
	handler *websocket.Handler
	rooms   []string
}

func NewChatEndpoints(handler *websocket.Handler, rooms []string) ChatEndpoints {
	return &chatEndpoints{
		handler: handler,
		rooms:   rooms,
	}
}

// Rooms lists the configured rooms with their current member counts.
func (h *chatEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.listRooms,
	})
}

func (h *chatEndpoints) listRooms(w http.ResponseWriter, r *http.Request) error {
	counts := h.handler.RoomCounts()

	rooms := make([]RoomInfo, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, RoomInfo{
			Room:  room,
			Users: counts[room],
		})
	}

	return WriteJSON(w, http.StatusOK, rooms)
}

// Websocket upgrades the request and hands the connection to the hub.
func (h *chatEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	return h.handler.ServeWS(w, r)
}
