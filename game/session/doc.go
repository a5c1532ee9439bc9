// Package session provides in-memory game storage for Connect Four.
//
// The session package implements:
//   - Thread-safe storage and retrieval of running games
//   - UUID generation for games created without an ID
//   - Case-insensitive game IDs
//   - Expiry of games nobody has touched for a while
//
// Core Types:
//
// Manager is the session store used by the game service. Each service.Session
// owns its own engine instance together with its creation and last access
// times.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "Ana", "Bo")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop games idle for a day
//	removedIDs := manager.CleanupExpiredSessions(24 * time.Hour)
//
// Games live only as long as the process. Nothing is written to disk.
package session
