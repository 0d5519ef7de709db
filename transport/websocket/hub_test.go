package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.watchers == nil {
		t.Error("Hub watchers map is nil")
	}
	if cap(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected buffered broadcast channel of %d, got %d", engine.WebSocketBufferSize, cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, ok := hub.watchers["test-session"][client]; !ok {
		t.Error("Client was not registered in session")
	}
	if len(hub.watchers["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.watchers["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.watchers["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel closed")
	}

	// Unregistering twice must not panic on the closed channel.
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.watchers[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.watchers[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.watchers[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.watchers[sessionID]))
	}
	if _, ok := hub.watchers[sessionID][client2]; !ok {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	state := &engine.GameState{
		Grid:       engine.Grid{{2, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 4}},
		Seed:       "ws",
		EmptyCells: 14,
	}
	hub.broadcastMessage(&Message{SessionID: sessionID, GameState: state, Event: EventStateUpdate})

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.SessionID != sessionID || msg.Event != EventStateUpdate {
			t.Errorf("Unexpected message header %+v", msg)
		}
		if msg.GameState == nil || msg.GameState.Grid != state.Grid {
			t.Error("Expected the grid in the broadcast state")
		}
	default:
		t.Fatal("Expected a message for the subscribed client")
	}

	select {
	case <-other.send:
		t.Error("Client of another session should not receive the message")
	default:
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "slow", Event: EventStateUpdate})

	if _, exists := hub.watchers["slow"]; exists {
		t.Error("Expected the slow client to be unregistered")
	}
}

func TestHubEnqueueWithoutRunner(t *testing.T) {
	hub := NewHub()

	// The queue absorbs broadcasts while nobody drains it and drops the overflow.
	done := make(chan struct{})
	go func() {
		for i := 0; i < engine.WebSocketBufferSize+10; i++ {
			hub.BroadcastEvent("s", "tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastEvent blocked without a running hub")
	}
	if len(hub.broadcast) != engine.WebSocketBufferSize {
		t.Errorf("Expected full queue, got %d", len(hub.broadcast))
	}
}

func TestHubStop(t *testing.T) {
	hub := NewHub()
	finished := make(chan struct{})
	go func() {
		hub.Run()
		close(finished)
	}()

	hub.Stop()
	hub.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if hub.ClientCount("any") != 0 {
		t.Error("Expected no clients after stop")
	}
}

func dial(t *testing.T, server *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?session=" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients for %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestHubServeWS(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	conn := dial(t, server, "live")
	defer conn.Close()
	waitForClients(t, hub, "live", 1)

	state := &engine.GameState{Grid: engine.Grid{{0, 0, 0, 2}}, Seed: "live"}
	hub.BroadcastToSession("live", state)
	hub.BroadcastEvent("live", "moved", map[string]string{"dir": "right"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first Message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("Failed to read state update: %v", err)
	}
	if first.Event != EventStateUpdate || first.GameState == nil || first.GameState.Grid[0][3] != 2 {
		t.Errorf("Unexpected first message %+v", first)
	}

	var second Message
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	if second.Event != "moved" {
		t.Errorf("Expected moved event, got %q", second.Event)
	}

	conn.Close()
	waitForClients(t, hub, "live", 0)
}

func TestHubServeWSRejectsPlainHTTP(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ws?session=x", nil)
	hub.ServeWS(rec, req, "x")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-upgrade request, got %d", rec.Code)
	}
	if hub.ClientCount("x") != 0 {
		t.Error("Expected no registered client")
	}
}
