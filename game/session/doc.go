// Package session keeps live game sessions in memory.
//
// Each session owns one engine built from a preset and a seed. Sessions are
// addressed by short case-insensitive IDs; an empty ID asks the manager to
// generate four hex characters from crypto/rand.
//
// Concurrency:
//
// The manager guards its map with a read/write mutex. Callers that drive a
// session's engine lock the session itself, so requests on different
// sessions proceed in parallel while requests on one session are serialized.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", preset, "my-seed")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fork, err := manager.Clone(sess.ID, "")
//
// Sessions live only as long as the process. CleanupExpiredSessions drops
// the ones nobody touched within a given age.
package session
