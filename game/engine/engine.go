package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	GetGrid() Grid
	GetTransformation() Transformation
	ClearTransformation()
	Clone() *GameEngine

	// Movement operations
	Move(direction string) (MoveResult, error)
	CanMove(direction string) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *GameConfig
	GetSeed() string

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface on top of a Board, adding the preset it was
// built from and a move log.
type GameEngine struct {
	board  *Board
	config *GameConfig
	seed   string

	history    []MoveHistoryEntry
	current    []MoveHistoryEntry
	totalMoves int
	lastSpawn  *Spawn
	message    string
}

// NewEngine creates a new game engine with the provided configuration.
// A non-empty seed overrides the configuration's seed.
func NewEngine(config *GameConfig, seed string) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if seed == "" {
		seed = config.Seed
	}

	board, err := NewBoardFromConfig(config, seed)
	if err != nil {
		return nil, err
	}

	return &GameEngine{
		board:   board,
		config:  config,
		seed:    seed,
		history: []MoveHistoryEntry{},
		current: []MoveHistoryEntry{},
		message: config.messages().Welcome,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with default configuration
func NewEngineWithDefaults(seed string) *GameEngine {
	eng, err := NewEngine(DefaultConfig(), seed)
	if err != nil {
		// The default configuration is always valid.
		panic(fmt.Sprintf("engine: default config rejected: %v", err))
	}
	return eng
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Grid:              e.board.Grid(),
		Transformation:    e.board.Transformation(),
		Seed:              e.seed,
		ConfigName:        e.config.Name,
		EmptyCells:        e.board.EmptyCount(),
		LastSpawn:         copySpawn(e.lastSpawn),
		Message:           e.message,
		MoveHistory:       append([]MoveHistoryEntry{}, e.history...),
		TotalMoves:        e.totalMoves,
		CurrentMoves:      append([]MoveHistoryEntry{}, e.current...),
		CurrentMovesCount: len(e.current),
		PossibleMoves:     e.GetPossibleMoves(),
	}
}

// Reset starts a new board from the configuration with the same seed. The cumulative
// history and totals are preserved; only the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	board, err := NewBoardFromConfig(e.config, e.seed)
	if err != nil {
		// The configuration was validated when the engine was built.
		panic(fmt.Sprintf("engine: reset from validated config failed: %v", err))
	}

	e.board = board
	e.current = []MoveHistoryEntry{}
	e.lastSpawn = nil
	e.message = e.config.messages().Welcome

	return e.GetState()
}

// GetGrid returns a copy of the grid
func (e *GameEngine) GetGrid() Grid {
	return e.board.Grid()
}

// GetTransformation returns a copy of the last move's slide distances
func (e *GameEngine) GetTransformation() Transformation {
	return e.board.Transformation()
}

// ClearTransformation zeroes the slide distances
func (e *GameEngine) ClearTransformation() {
	e.board.ClearTransformation()
}

// Clone returns an independent engine sharing the configuration but not the board or history.
func (e *GameEngine) Clone() *GameEngine {
	return &GameEngine{
		board:      e.board.Clone(),
		config:     e.config,
		seed:       e.seed,
		history:    append([]MoveHistoryEntry{}, e.history...),
		current:    append([]MoveHistoryEntry{}, e.current...),
		totalMoves: e.totalMoves,
		lastSpawn:  copySpawn(e.lastSpawn),
		message:    e.message,
	}
}

// Move applies one move by name and records it in the history. An unknown direction is an
// error and leaves everything untouched.
func (e *GameEngine) Move(direction string) (MoveResult, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return MoveResult{}, err
	}

	result := e.board.Move(dir)

	msgs := e.config.messages()
	switch {
	case !result.Changed:
		e.message = msgs.NoChange
	case !result.Spawned:
		e.message = msgs.BoardFull
	default:
		e.message = fmt.Sprintf(msgs.Moved, dir)
		e.lastSpawn = copySpawn(result.Spawn)
	}

	e.addMoveToHistory(dir.String(), result)
	return result, nil
}

// CanMove reports whether direction would change the grid
func (e *GameEngine) CanMove(direction string) bool {
	dir, err := ParseDirection(direction)
	if err != nil {
		return false
	}
	return e.board.CanMove(dir)
}

// GetPossibleMoves returns the directions that would change the grid
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range Directions {
		if e.board.CanMove(dir) {
			possible = append(possible, dir.String())
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetSeed returns the effective seed
func (e *GameEngine) GetSeed() string {
	return e.seed
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry{}, e.history...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// String renders the board
func (e *GameEngine) String() string {
	return e.board.String()
}

// BulkMove executes moves in sequence. It stops at the first unknown direction and returns
// the results of the moves applied before it.
func (e *GameEngine) BulkMove(moves []string) ([]MoveResult, error) {
	results := make([]MoveResult, 0, len(moves))

	for i, direction := range moves {
		result, err := e.Move(direction)
		if err != nil {
			return results, fmt.Errorf("move %d: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

func (e *GameEngine) addMoveToHistory(action string, result MoveResult) {
	entry := MoveHistoryEntry{
		Action:     action,
		Changed:    result.Changed,
		Spawn:      copySpawn(result.Spawn),
		EmptyAfter: e.board.EmptyCount(),
		Timestamp:  time.Now().Unix(),
		MoveNumber: e.totalMoves + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	e.history = append(e.history, entry)
	e.totalMoves++

	e.current = append(e.current, entry)
}

func copySpawn(s *Spawn) *Spawn {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
