package engine

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the fixed edge length of the board.
	Size = 4

	// CellCount is the number of cells on the board.
	CellCount = Size * Size

	// Validation constants
	MaxBulkMoves        = 50
	MaxReplayMoves      = 10000
	MaxTileValue        = 1 << 30
	WebSocketBufferSize = 256
)

var ErrInvalidDirection = errors.New("invalid direction")

// Grid holds tile values indexed grid[row][col]. Zero is an empty cell.
type Grid [Size][Size]int

// At returns the value at (col, row).
func (g Grid) At(col, row int) int {
	return g[row][col]
}

// EmptyCount returns the number of empty cells.
func (g Grid) EmptyCount() int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] == 0 {
				count++
			}
		}
	}
	return count
}

// Transformation records, per cell, the signed slide distance of the last move.
type Transformation [Size][Size]int

// Direction selects the edge tiles slide toward.
type Direction int

const (
	Left  Direction = iota // toward column 0
	Right                  // toward column 3
	Up                     // toward row 0
	Down                   // toward row 3
)

// Directions lists every direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts "left", "right", "up" or "down" (any case) to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Spawn describes a tile placed by the spawner.
type Spawn struct {
	Col   int `json:"col"`
	Row   int `json:"row"`
	Value int `json:"value"`
}

// MoveResult reports the outcome of a single directional move.
type MoveResult struct {
	Direction Direction `json:"-"`
	Changed   bool      `json:"changed"`
	Spawned   bool      `json:"spawned"`
	Spawn     *Spawn    `json:"spawn,omitempty"`
}

// GameConfig describes a preset: the seed and optional starting grid of a new board.
type GameConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Seed        string   `json:"seed,omitempty" yaml:"seed,omitempty"`
	InitialGrid *Grid    `json:"initial_grid,omitempty" yaml:"initial_grid,omitempty"`
	Messages    Messages `json:"messages" yaml:"messages"`
}

// Messages are the status lines an engine reports after each operation.
// Moved receives the direction name through %s.
type Messages struct {
	Welcome   string `json:"welcome,omitempty" yaml:"welcome,omitempty"`
	Moved     string `json:"moved,omitempty" yaml:"moved,omitempty"`
	NoChange  string `json:"no_change,omitempty" yaml:"no_change,omitempty"`
	BoardFull string `json:"board_full,omitempty" yaml:"board_full,omitempty"`
}

// GameState is a copy-based view of an engine, safe to hand to callers and encoders.
type GameState struct {
	Grid           Grid               `json:"grid"`
	Transformation Transformation     `json:"transformation"`
	Seed           string             `json:"seed"`
	ConfigName     string             `json:"config_name"`
	EmptyCells     int                `json:"empty_cells"`
	LastSpawn      *Spawn             `json:"last_spawn,omitempty"`
	Message        string             `json:"message"`
	MoveHistory    []MoveHistoryEntry `json:"move_history"`
	TotalMoves     int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last reset. It mirrors MoveHistory entries
	// but gets cleared on reset while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action     string `json:"action"`
	Changed    bool   `json:"changed"`
	Spawn      *Spawn `json:"spawn,omitempty"`
	EmptyAfter int    `json:"empty_after"`
	Timestamp  int64  `json:"timestamp"`
	MoveNumber int    `json:"move_number"`
}
