package websocket

import (
	"time"
)

const systemUsername = "System"

// Session is the (username, room) pair bound to one live connection.
// It is created on the first join event and overwritten on re-join.
type Session struct {
	Username string
	Room     string
}

type inbound struct {
	client *Client
	event  InboundEvent
}

// Hub owns every piece of mutable chat state: the set of live clients and
// the session bound to each of them. All mutation happens on the goroutine
// running Run, one event at a time, so the maps need no lock. Room
// membership is derived by scanning sessions rather than kept as a
// reverse index.
type Hub struct {
	clients  map[string]*Client
	sessions map[string]Session

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	counts     chan chan map[string]int

	now func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		sessions:   make(map[string]Session),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		counts:     make(chan chan map[string]int),
		now:        time.Now,
	}
}

// Run is the hub's event loop. It must run on exactly one goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case in := <-h.inbound:
			h.handleEvent(in.client, in.event)

		case reply := <-h.counts:
			reply <- h.roomCounts()
		}
	}
}

// Register hands a freshly upgraded connection to the hub. It returns once
// the hub has accepted the client, so events read afterwards are always
// processed against a registered connection.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection. Safe to call for clients the hub has
// already dropped.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Dispatch queues a decoded client event for processing.
func (h *Hub) Dispatch(client *Client, event InboundEvent) {
	h.inbound <- inbound{client: client, event: event}
}

// RoomCounts reports how many sessions are bound to each room. The count is
// computed on the hub goroutine so callers never observe a partial update.
func (h *Hub) RoomCounts() map[string]int {
	reply := make(chan map[string]int, 1)
	h.counts <- reply
	return <-reply
}

func (h *Hub) handleEvent(client *Client, event InboundEvent) {
	countEventReceived()

	switch ev := event.(type) {
	case JoinEvent:
		h.handleJoin(client, ev)
	case TypingEvent:
		h.handleTyping(client, ev)
	case SendMessageEvent:
		h.handleSendMessage(client, ev)
	}
}

func (h *Hub) handleRegister(client *Client) {
	h.clients[client.ID] = client
	incConnections()
}

// handleJoin binds the session and announces the arrival. Room names are
// not checked against the configured room list; any string is accepted.
func (h *Hub) handleJoin(client *Client, ev JoinEvent) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	h.sessions[client.ID] = Session{Username: ev.Username, Room: ev.Room}

	h.broadcastExcept(ev.Room, client.ID, &OutboundEvent{
		Event: EventMessage,
		Data: ChatMessage{
			Username: systemUsername,
			Text:     ev.Username + " has joined the room",
			Time:     h.timestamp(),
		},
	})
	h.announcePresence(ev.Room)
	setRooms(len(h.roomCounts()))
}

// handleTyping relays the indicator to everyone else in the room. The hub
// keeps no typing state; each client reconstructs the set from the stream.
func (h *Hub) handleTyping(client *Client, ev TypingEvent) {
	h.broadcastExcept(ev.Room, client.ID, &OutboundEvent{
		Event: EventTyping,
		Data:  TypingNotice{Username: ev.Username, IsTyping: ev.IsTyping},
	})
}

// handleSendMessage fans the message out to the whole room, sender
// included, then emits a synthetic stop-typing notice so clients clear the
// indicator without an explicit signal.
func (h *Hub) handleSendMessage(client *Client, ev SendMessageEvent) {
	h.broadcast(ev.Room, &OutboundEvent{
		Event: EventMessage,
		Data: ChatMessage{
			Username: ev.Username,
			Text:     ev.Text,
			Time:     h.timestamp(),
		},
	})
	h.broadcastExcept(ev.Room, client.ID, &OutboundEvent{
		Event: EventTyping,
		Data:  TypingNotice{Username: ev.Username, IsTyping: false},
	})
}

// handleDisconnect drops the connection and, if it had joined, announces
// the departure to the vacated room. A connection that never joined leaves
// without any broadcast.
func (h *Hub) handleDisconnect(client *Client) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
	decConnections()

	session, joined := h.sessions[client.ID]
	if !joined {
		return
	}
	delete(h.sessions, client.ID)

	h.broadcast(session.Room, &OutboundEvent{
		Event: EventMessage,
		Data: ChatMessage{
			Username: systemUsername,
			Text:     session.Username + " has left the room",
			Time:     h.timestamp(),
		},
	})
	h.announcePresence(session.Room)
	setRooms(len(h.roomCounts()))
}

// announcePresence pushes the full member list to every connection in the
// room, after every join and every session-removing disconnect.
func (h *Hub) announcePresence(room string) {
	h.broadcast(room, &OutboundEvent{
		Event: EventRoomUsers,
		Data:  RoomUsers{Room: room, Users: h.membersOf(room)},
	})
}

// membersOf lists the usernames joined to room, in map iteration order.
// Duplicate display names are allowed and preserved.
func (h *Hub) membersOf(room string) []string {
	users := make([]string, 0)
	for _, session := range h.sessions {
		if session.Room == room {
			users = append(users, session.Username)
		}
	}
	return users
}

func (h *Hub) roomCounts() map[string]int {
	counts := make(map[string]int)
	for _, session := range h.sessions {
		counts[session.Room]++
	}
	return counts
}

func (h *Hub) broadcast(room string, event *OutboundEvent) {
	h.fanOut(room, "", event)
}

func (h *Hub) broadcastExcept(room, exceptID string, event *OutboundEvent) {
	h.fanOut(room, exceptID, event)
}

func (h *Hub) fanOut(room, exceptID string, event *OutboundEvent) {
	delivered := 0
	for id, client := range h.clients {
		if id == exceptID {
			continue
		}
		session, ok := h.sessions[id]
		if !ok || session.Room != room {
			continue
		}
		if h.deliver(client, event) {
			delivered++
		}
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
}

// deliver queues the event on the client's send channel. A client whose
// buffer is full is dropped on the spot rather than blocking the hub.
func (h *Hub) deliver(client *Client, event *OutboundEvent) bool {
	select {
	case client.send <- event:
		return true
	default:
		delete(h.clients, client.ID)
		delete(h.sessions, client.ID)
		close(client.send)
		decConnections()
		setRooms(len(h.roomCounts()))
		return false
	}
}

func (h *Hub) timestamp() string {
	return h.now().Format("3:04:05 PM")
}
