// Package session provides session management for the Monopoly engine.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Session ID generation and validation
//   - Session lifecycle management and expiry
//   - Pluggable persistence: JSON files, SQLite or Redis
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each session owns one engine, the rules it was created with and metadata
// like creation time and last access time.
//
// Session Identifiers:
//
// Clients may choose an ID (letters, digits, '-' and '_', at most 64
// characters). Otherwise the manager generates an 8-character ID from a
// random UUID. Lookups are case-insensitive.
//
// Persistence:
//
// Every backend stores the same JSON document (PersistedSessionData): the
// rules plus the engine snapshot, including the random generator position,
// so a reloaded game continues exactly where it stopped.
//
//	persistence, err := session.OpenSQLitePersistence("sessions.db", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err := manager.Create("", rules, service.NewGame{Players: []string{"Ada", "Grace"}})
//
// Cleanup:
//
// CleanupExpiredSessions and RunCleanup evict idle sessions from memory.
// Stored copies remain and are reloaded on the next Get.
package session
