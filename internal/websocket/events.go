package websocket

import (
	"encoding/json"
	"fmt"
)

// Event names shared with the browser client. Inbound and outbound frames
// both use the {"event": ..., "data": ...} envelope.
const (
	EventJoin        = "join"
	EventTyping      = "typing"
	EventSendMessage = "sendMessage"
	EventMessage     = "message"
	EventRoomUsers   = "roomUsers"
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// InboundEvent is one of JoinEvent, TypingEvent or SendMessageEvent.
// Frames are decoded and validated at the transport boundary so the hub
// only ever sees well-formed variants.
type InboundEvent interface {
	inboundEvent()
}

type JoinEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type TypingEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	IsTyping bool   `json:"isTyping"`
}

type SendMessageEvent struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Text     string `json:"text"`
}

func (JoinEvent) inboundEvent()        {}
func (TypingEvent) inboundEvent()      {}
func (SendMessageEvent) inboundEvent() {}

// DecodeInbound parses a raw client frame into a tagged event. Username and
// room are required on every variant; text is deliberately not checked, the
// client is responsible for suppressing empty messages.
func DecodeInbound(data []byte) (InboundEvent, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case EventJoin:
		var ev JoinEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode join: %w", err)
		}
		if ev.Username == "" || ev.Room == "" {
			return nil, fmt.Errorf("join: username and room are required")
		}
		return ev, nil

	case EventTyping:
		var ev TypingEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode typing: %w", err)
		}
		if ev.Username == "" || ev.Room == "" {
			return nil, fmt.Errorf("typing: username and room are required")
		}
		return ev, nil

	case EventSendMessage:
		var ev SendMessageEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return nil, fmt.Errorf("decode sendMessage: %w", err)
		}
		if ev.Username == "" || ev.Room == "" {
			return nil, fmt.Errorf("sendMessage: username and room are required")
		}
		return ev, nil
	}

	return nil, fmt.Errorf("unknown event %q", env.Event)
}

// OutboundEvent is a server-to-client frame.
type OutboundEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ChatMessage is built at broadcast time and never stored.
type ChatMessage struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Time     string `json:"time"`
}

type RoomUsers struct {
	Room  string   `json:"room"`
	Users []string `json:"users"`
}

type TypingNotice struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}
