package service

import (
	"time"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// Event types reported by moves and resets.
const (
	EventReset     = "reset"
	EventMove      = "move"
	EventNoChange  = "no_change"
	EventSpawn     = "spawn"
	EventBoardFull = "board_full"
)

// Stop reason codes for bulk moves.
const (
	StopInvalidDirection = "invalid_direction"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success   bool              `json:"success"`
	Changed   bool              `json:"changed"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	MovesChanged   int               `json:"moves_changed"`
	RequestedMoves int               `json:"requested_moves"` // The number of moves requested in this call
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`   // Human-readable reason
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // Machine-friendly code: invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based index of the move that caused stop
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartEmpty int `json:"start_empty"`
	EndEmpty   int `json:"end_empty"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	// Final status aids
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record for each executed move
type StepInfo struct {
	Idx         int           `json:"idx"`
	Dir         string        `json:"dir"`
	Changed     bool          `json:"changed"`
	Spawn       *engine.Spawn `json:"spawn,omitempty"`
	EmptyBefore int           `json:"empty_before"`
	EmptyAfter  int           `json:"empty_after"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "reset", "move", "no_change", "spawn", "board_full"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Spawn     *engine.Spawn `json:"spawn,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ReplayResult is the outcome of replaying a move list on a fresh board
type ReplayResult struct {
	ConfigName   string            `json:"config_name"`
	Seed         string            `json:"seed"`
	InitialGrid  engine.Grid       `json:"initial_grid"`
	Steps        []StepInfo        `json:"steps"`
	MovesApplied int               `json:"moves_applied"`
	MovesChanged int               `json:"moves_changed"`
	GameState    *engine.GameState `json:"game_state"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Format         string `json:"format"` // json, hcl, yaml or yml
	Seed           string `json:"seed,omitempty"`
	HasInitialGrid bool   `json:"has_initial_grid"`
}
