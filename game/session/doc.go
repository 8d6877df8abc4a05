// Package session provides session management for the Klondike server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique 4-character session ID generation
//   - Case-insensitive lookup
//   - Session cleanup and expiration
//   - Optional persistence of every session to disk
//
// Core Types:
//
// Manager owns the in-memory sessions. Each service.Session holds its own
// engine.GameEngine, the name of the deal it started from, and creation and
// last access times.
//
// FilePersistence stores one JSON file per session in a directory. The file
// keeps the current board and the starting deal in save-file text, plus the
// move history, so a restarted server can restore games exactly. Files are
// replaced atomically.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", "standard", engine.StandardDeal())
//	sess, err = manager.Get(sess.ID)
package session
