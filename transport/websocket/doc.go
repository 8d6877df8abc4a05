// Package websocket pushes live Klondike boards and game events to browsers
// and other watchers.
//
// Architecture:
//
// A central Hub keeps the connected clients grouped by session ID. Each
// connection gets a read pump and a write pump goroutine; the hub loop
// handles registration and queued events.
//
// Message Protocol:
//
// Outgoing messages are JSON:
//   - {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//   - {"session_id": "ab12", "event": "victory", "data": {...GameEvent}}
//
// Clients connect with /ws?session=ab12 and only receive messages for that
// session. Incoming frames are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	svc := service.NewGameService(sessions, deals, hub)
package websocket
