package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

const (
	writeWait = 10 * time.Second

	// A viewer that sends no pong within pongWait is dropped.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Viewers only send control frames.
	maxMessageSize = 512
)

// Event names carried in Message.Event.
const (
	EventStateUpdate    = "state_update"
	EventSessionDeleted = "session_deleted"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Boards are public; any page may subscribe.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is the JSON frame pushed to viewers of a session.
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// Client is one WebSocket connection watching a single session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// countRequest asks the hub goroutine for the number of clients watching a session.
type countRequest struct {
	sessionID string
	reply     chan int
}

type subscribers map[*Client]struct{}

// Hub fans game updates out to the clients watching each session. Only the Run goroutine
// reads or writes watchers.
type Hub struct {
	watchers   map[string]subscribers
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	count      chan countRequest
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		watchers:   make(map[string]subscribers),
		broadcast:  make(chan *Message, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan countRequest),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case req := <-h.count:
			req.reply <- len(h.watchers[req.sessionID])

		case <-h.done:
			for _, subs := range h.watchers {
				for c := range subs {
					close(c.send)
				}
			}
			h.watchers = make(map[string]subscribers)
			return
		}
	}
}

// Stop ends the event loop and closes every client connection.
func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// ServeWS upgrades the request and subscribes the connection to sessionID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade for session %s: %v", sessionID, err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of clients subscribed to a session.
func (h *Hub) ClientCount(sessionID string) int {
	req := countRequest{sessionID: sessionID, reply: make(chan int, 1)}
	select {
	case h.count <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// BroadcastToSession pushes a state_update carrying state to the session's viewers.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.enqueue(&Message{
		SessionID: sessionID,
		GameState: state,
		Event:     EventStateUpdate,
	})
}

// BroadcastEvent pushes a named event with an arbitrary payload.
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.enqueue(&Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	})
}

// enqueue hands a message to the hub goroutine without blocking the caller. Updates are
// dropped when the queue is full; the next state update supersedes them.
func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		log.Printf("[WS] queue full, dropped %s for session %s", message.Event, message.SessionID)
	}
}

func (h *Hub) registerClient(c *Client) {
	subs := h.watchers[c.sessionID]
	if subs == nil {
		subs = make(subscribers)
		h.watchers[c.sessionID] = subs
	}
	subs[c] = struct{}{}

	log.Printf("[WS] session=%s viewers=%d (+1)", c.sessionID, len(subs))
}

// unregisterClient drops c and closes its send channel. Unknown clients are ignored, so
// a client removed for being slow can still unregister from its read pump.
func (h *Hub) unregisterClient(c *Client) {
	subs := h.watchers[c.sessionID]
	if _, ok := subs[c]; !ok {
		return
	}

	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.watchers, c.sessionID)
	}

	log.Printf("[WS] session=%s viewers=%d (-1)", c.sessionID, len(subs))
}

// broadcastMessage encodes message once and queues it on every viewer of its session.
// Viewers whose queue is full are disconnected.
func (h *Hub) broadcastMessage(message *Message) {
	subs := h.watchers[message.SessionID]
	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] encode %s for session %s: %v", message.Event, message.SessionID, err)
		return
	}

	for c := range subs {
		select {
		case c.send <- data:
		default:
			h.unregisterClient(c)
		}
	}
}

// readPump discards inbound frames and keeps the read deadline moving on pongs. When the
// connection ends it unregisters the client.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] session=%s read: %v", c.sessionID, err)
			}
			return
		}
	}
}

// writePump writes queued messages one frame each and pings on pingPeriod. A closed
// send channel means the hub dropped the client.
func (c *Client) writePump() {
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()
	defer c.conn.Close()

	for {
		var (
			kind    int
			payload []byte
		)

		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind, payload = websocket.TextMessage, message
		case <-pings.C:
			kind = websocket.PingMessage
		}

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(kind, payload); err != nil {
			return
		}
	}
}
