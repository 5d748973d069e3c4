package notify

import (
	"encoding/json"
	"log"

	websocket "github.com/gofiber/contrib/websocket"
)

const (
	EventTypeMatch   = "match"
	EventTypeMessage = "message"
)

// Event is what a connected client receives. Delivery is best-effort: events
// for users without an open connection are dropped, never queued.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type envelope struct {
	UserID  int64
	Payload []byte
}

// Hub keeps at most one live connection per user. A new connection from the
// same user evicts the previous one (last-connection-wins).
type Hub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	events     chan envelope
	broker     *RedisBroker
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

func NewHub(broker *RedisBroker) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan envelope, 64),
		broker:     broker,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	if h.broker != nil {
		go h.broker.Subscribe(h.deliverLocal)
	}

	for {
		select {
		case client := <-h.register:
			if previous, ok := h.clients[client.userID]; ok {
				close(previous.send)
			}
			h.clients[client.userID] = client
		case client := <-h.unregister:
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
		case event := <-h.events:
			h.send(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Notify pushes an event toward a user. Errors are logged and swallowed so a
// failed push never aborts the mutation that triggered it.
func (h *Hub) Notify(userID int64, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("notify: encode event for user %d: %v", userID, err)
		return
	}

	if h.broker != nil {
		if err := h.broker.Publish(userID, payload); err != nil {
			log.Printf("notify: publish event for user %d: %v", userID, err)
			h.deliverLocal(userID, payload)
		}
		return
	}

	h.deliverLocal(userID, payload)
}

func (h *Hub) deliverLocal(userID int64, payload []byte) {
	select {
	case h.events <- envelope{UserID: userID, Payload: payload}:
	default:
		log.Printf("notify: event queue full, dropping event for user %d", userID)
	}
}

func (h *Hub) send(event envelope) {
	client, ok := h.clients[event.UserID]
	if !ok {
		return
	}

	select {
	case client.send <- event.Payload:
	default:
		delete(h.clients, event.UserID)
		close(client.send)
	}
}

// ReadPump drains the connection until it closes; the notification stream is
// one-way, so inbound frames are ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
