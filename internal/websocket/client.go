package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	maxFrameSize   = 512 * 1024
)

// Client is one live transport connection. It carries no chat state of its
// own; the session bound to it lives in the hub.
type Client struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub
	send chan *OutboundEvent

	done     chan struct{} // Signal for coordinating goroutine shutdown
	mu       sync.Mutex    // Mutex for connection access
	isClosed bool
}

func newClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		hub:  hub,
		send: make(chan *OutboundEvent, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (cl *Client) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.conn.WriteMessage(websocket.PingMessage, nil)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("ping error for client %s: %v", cl.ID, err)
				return
			}
		}
	}
}

func (cl *Client) writePump() {
	defer func() {
		cl.mu.Lock()
		cl.isClosed = true
		cl.conn.Close()
		cl.mu.Unlock()
	}()

	for {
		select {
		case <-cl.done:
			return
		case event, ok := <-cl.send:
			if !ok {
				return
			}

			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.conn.WriteJSON(event)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("error sending event to client %s: %v", cl.ID, err)
				return
			}
		}
	}
}

// readPump decodes inbound frames at the transport boundary and feeds the
// hub. A frame that fails to decode is dropped; the failure stays local to
// that event and the connection keeps reading.
func (cl *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered from panic in readPump: %v", r)
		}

		close(cl.done)
		cl.hub.Unregister(cl)
		log.Printf("client %s disconnected", cl.ID)
	}()

	cl.conn.SetReadLimit(maxFrameSize)

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("error reading from client %s: %v", cl.ID, err)
			break
		}

		event, err := DecodeInbound(data)
		if err != nil {
			log.Printf("client %s: dropping frame: %v", cl.ID, err)
			countEventRejected()
			continue
		}

		cl.hub.Dispatch(cl, event)
	}
}
