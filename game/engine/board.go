package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Board is the rule engine: one grid, the transformation of the last move, and the seed
// that drives spawning. It is not safe for concurrent use.
type Board struct {
	seed      string
	grid      Grid
	transform Transformation
}

// NewBoard creates a new game: an empty grid receiving two spawned tiles.
func NewBoard(seed string) *Board {
	b := &Board{seed: seed}
	b.spawnInitial()
	return b
}

// NewBoardFromGrid creates a board from a snapshot. Snapshots with at least one tile are
// taken as-is; an all-empty snapshot starts a new game like NewBoard.
func NewBoardFromGrid(seed string, g Grid) (*Board, error) {
	if err := ValidateGrid(g); err != nil {
		return nil, err
	}
	b := &Board{seed: seed, grid: g}
	b.spawnInitial()
	return b, nil
}

func (b *Board) spawnInitial() {
	if b.grid.EmptyCount() != CellCount {
		return
	}
	for i := 0; i < 2; i++ {
		b.grid, _, _ = PlaceSpawn(b.grid, b.seed)
	}
}

// Seed returns the seed the board was created with.
func (b *Board) Seed() string {
	return b.seed
}

// Grid returns a copy of the current grid.
func (b *Board) Grid() Grid {
	return b.grid
}

// Transformation returns a copy of the slide distances recorded by the last move.
func (b *Board) Transformation() Transformation {
	return b.transform
}

// ClearTransformation resets every slide distance to zero. Callers invoke it once the
// animation consuming the values is done; moves never clear it on their own.
func (b *Board) ClearTransformation() {
	b.transform = Transformation{}
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	return b.grid.EmptyCount()
}

// Move applies dir. When the grid changes, the new grid and transformation replace the old
// ones together and one tile is spawned. A move that changes nothing leaves the board
// exactly as it was.
func (b *Board) Move(dir Direction) MoveResult {
	result := MoveResult{Direction: dir}

	next, transform, changed := Collapse(b.grid, dir)
	if !changed {
		return result
	}

	next, spawn, spawned := PlaceSpawn(next, b.seed)
	b.grid = next
	b.transform = transform

	result.Changed = true
	result.Spawned = spawned
	result.Spawn = spawn
	return result
}

func (b *Board) MoveLeft() bool  { return b.Move(Left).Changed }
func (b *Board) MoveRight() bool { return b.Move(Right).Changed }
func (b *Board) MoveUp() bool    { return b.Move(Up).Changed }
func (b *Board) MoveDown() bool  { return b.Move(Down).Changed }

// CanMove reports whether dir would change the grid, without applying it.
func (b *Board) CanMove(dir Direction) bool {
	_, _, changed := Collapse(b.grid, dir)
	return changed
}

// Clone returns an independent board with the same seed and grid. No tile is spawned and
// the transformation starts cleared.
func (b *Board) Clone() *Board {
	return &Board{seed: b.seed, grid: b.grid}
}

// String renders the grid as a bordered block, one line per row.
func (b *Board) String() string {
	width := 1
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if n := len(strconv.Itoa(b.grid[row][col])); n > width {
				width = n
			}
		}
	}

	border := "+" + strings.Repeat("-", Size*(width+2)) + "+\n"

	var sb strings.Builder
	sb.WriteString(border)
	for row := 0; row < Size; row++ {
		sb.WriteString("|")
		for col := 0; col < Size; col++ {
			fmt.Fprintf(&sb, " %*d ", width, b.grid[row][col])
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

// IsTileValue reports whether v may occupy a non-empty cell: a power of two from 2 up.
func IsTileValue(v int) bool {
	return v >= 2 && v <= MaxTileValue && v&(v-1) == 0
}

// ValidateGrid checks that every cell is empty or holds a tile value.
func ValidateGrid(g Grid) error {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			v := g[row][col]
			if v != 0 && !IsTileValue(v) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, want 0 or a power of two", ErrInvalidGrid, col, row, v)
			}
		}
	}
	return nil
}
