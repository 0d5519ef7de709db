// Package websocket pushes board updates to browsers watching a session.
//
// A single Hub goroutine owns the per-session client sets. Handlers call
// BroadcastToSession or BroadcastEvent, which queue a Message without blocking;
// the hub fans it out to every client subscribed to that session.
//
// Outgoing frames are JSON:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// Clients connect with /ws?session=<id>. Incoming frames are ignored; the read loop
// only keeps ping/pong alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
package websocket
