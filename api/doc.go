// Package api provides the HTTP REST API for the tile-merge game.
//
// Endpoints (all JSON):
//
// Sessions:
//   - POST   /api/sessions                 - Create a session {config_id, seed}
//   - GET    /api/sessions                 - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}            - Get one session
//   - DELETE /api/sessions/{id}            - Delete a session
//   - POST   /api/sessions/{id}/clone      - Fork a session into a new one
//
// Game operations:
//   - GET    /api/sessions/{id}/state          - Current game state
//   - POST   /api/sessions/{id}/move           - {direction, reset}
//   - POST   /api/sessions/{id}/bulk-move      - {moves, reset}
//   - POST   /api/sessions/{id}/reset          - Restart from the preset
//   - DELETE /api/sessions/{id}/transformation - Clear slide distances after animating
//   - GET    /api/sessions/{id}/history        - ?page=&limit=&order=
//   - POST   /api/replay                       - {config_id, seed, moves} on a throwaway board
//
// Configuration:
//   - GET  /api/configs         - List presets
//   - GET  /api/configs/{name}  - Get one preset
//   - POST /api/configs         - Save a preset as JSON
//
// GET /health reports liveness and GET /ws?session=<id> upgrades to a WebSocket that
// receives a state_update after every change to that session.
//
// Errors are returned as {"error": "..."}. Unknown sessions and presets give 404,
// bad directions, presets, IDs or oversized replays give 400, and a taken ID gives 409.
//
// Move responses carry a step {idx, dir, changed, spawn, empty_before, empty_after} and
// events (move, spawn, no_change, board_full, reset). Bulk move responses add the
// per-step trace, start_empty/end_empty and stop_reason_code when an unknown direction
// ends the run.
package api
