package engine

import (
	"fmt"
	"math"
)

// spawnDraw turns one Rand draw into a tile value and an index into the empty cells.
// Both decisions come from the same draw: the integer part of r*10 picks the value
// (0 gives a 4, anything else a 2) and the fractional part picks the cell.
func spawnDraw(r float64, empty int) (value, index int) {
	r *= 10
	value = 2
	if r < 1 {
		value = 4
	}
	frac := r - math.Floor(r)
	index = int(math.Floor(float64(empty) * frac))
	return value, index
}

// PlaceSpawn places one tile in an empty cell of g chosen from seed and the grid contents.
// It returns false and g unchanged when there is no empty cell.
func PlaceSpawn(g Grid, seed string) (Grid, *Spawn, bool) {
	empty := g.EmptyCount()
	if empty == 0 {
		return g, nil, false
	}

	value, index := spawnDraw(Rand(CombinedSeed(seed, g)), empty)

	seen := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if g[row][col] != 0 {
				continue
			}
			if seen == index {
				g[row][col] = value
				return g, &Spawn{Col: col, Row: row, Value: value}, true
			}
			seen++
		}
	}

	panic(fmt.Sprintf("engine: spawn index %d not found among %d empty cells", index, empty))
}
