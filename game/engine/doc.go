// Package engine provides the deterministic rule engine of the tile-merge game.
//
// The engine package implements:
//   - Sliding and pairwise merging of tiles in four directions
//   - Per-cell slide distances (the transformation) for animating a move
//   - Seeded, reproducible tile spawning after every changing move
//   - Presets describing a seed, an optional starting grid and status lines
//
// Core Types:
//
// Board owns one 4x4 Grid and the Transformation of its last move. It is the
// pure rule engine: Collapse computes a move without touching the board, and
// Board.Move replaces grid and transformation together only when something
// moved. GameEngine wraps a Board with the GameConfig it was built from, a
// status message and a move log.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults("my-seed")
//
//	result, err := eng.Move("left")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Spawned {
//		fmt.Printf("new tile %d at (%d,%d)\n", result.Spawn.Value, result.Spawn.Col, result.Spawn.Row)
//	}
//	fmt.Print(eng)
//
// Determinism:
//
// The spawned tile depends only on the seed and the grid after the collapse.
// Replaying the same moves from the same seed and starting grid always
// reproduces the same boards.
package engine
