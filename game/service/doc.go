// Package service provides the business logic layer for the tile-merge game.
//
// GameService is what every transport calls. It resolves presets through a
// ConfigManager, stores engines through a SessionManager, and turns engine move
// results into events, per-step traces and paginated history.
//
// Each Session carries its own mutex. Operations on one session are serialized while
// different sessions proceed in parallel.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, "left", false)
//
// Replay runs a move list against a fresh engine without creating a session, which
// makes it the tool for checking that a seed and a move list reproduce a game.
package service
