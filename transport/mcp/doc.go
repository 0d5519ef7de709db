// Package mcp exposes the tile-merge game as Model Context Protocol tools.
//
// The Client wraps an mcp-go server whose tools call the REST API over HTTP,
// so an agent sees the same sessions as browser clients and WebSocket viewers.
//
// Tools:
//   - create_session, list_sessions, get_session, clone_session
//   - game_state: grid, seed, empty cells and possible moves
//   - move, bulk_move: one or several directions (up, down, left, right)
//   - reset_game, clear_transformation
//   - move_history: paginated cumulative history plus the current segment
//   - replay: run a move list on a throwaway board from a preset and seed
//   - list_configs, game_instructions
//
// Results are rendered as plain text. API failures come back as tool errors
// carrying the server's error message rather than as protocol errors.
//
// The server is served either over stdio or through the /mcp HTTP endpoint
// registered by the main package.
package mcp
