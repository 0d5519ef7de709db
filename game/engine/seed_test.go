package engine

import "testing"

func TestStringToSeed_Stable(t *testing.T) {
	if StringToSeed("abc") != StringToSeed("abc") {
		t.Error("Expected identical seeds for identical strings")
	}
	if StringToSeed("abc") == StringToSeed("abd") {
		t.Error("Expected different seeds for different strings")
	}
	// FNV-1a 64 offset basis
	if got := StringToSeed(""); got != 0xcbf29ce484222325 {
		t.Errorf("Expected empty string to hash to the offset basis, got %#x", got)
	}
}

func TestCellsToSeed_OrderSensitive(t *testing.T) {
	a := Grid{{2, 0, 0, 0}}
	b := Grid{{0, 2, 0, 0}}
	c := Grid{{2, 0, 0, 0}}

	if CellsToSeed(a) == CellsToSeed(b) {
		t.Error("Expected grids with tiles in different cells to hash differently")
	}
	if CellsToSeed(a) != CellsToSeed(c) {
		t.Error("Expected equal grids to hash identically")
	}
	if CellsToSeed(Grid{}) == CellsToSeed(a) {
		t.Error("Expected empty grid to differ from a grid with one tile")
	}
}

func TestCombinedSeed(t *testing.T) {
	g := Grid{{2, 4, 0, 0}}
	want := StringToSeed("seed") + CellsToSeed(g)
	if got := CombinedSeed("seed", g); got != want {
		t.Errorf("CombinedSeed = %d, want %d", got, want)
	}
}

func TestRand_RangeAndDeterminism(t *testing.T) {
	for n := uint64(0); n < 10000; n++ {
		r := Rand(n)
		if r < 0 || r >= 1 {
			t.Fatalf("Rand(%d) = %v, out of [0, 1)", n, r)
		}
		if r != Rand(n) {
			t.Fatalf("Rand(%d) is not deterministic", n)
		}
	}

	if Rand(^uint64(0)) >= 1 {
		t.Error("Rand(max uint64) out of range")
	}
}

func TestRand_Spread(t *testing.T) {
	// A crude bucket check: no decile should be empty or hold most of the draws.
	var buckets [10]int
	const draws = 20000
	for n := uint64(0); n < draws; n++ {
		buckets[int(Rand(n)*10)]++
	}
	for i, count := range buckets {
		if count < draws/20 || count > draws/5 {
			t.Errorf("bucket %d holds %d of %d draws", i, count, draws)
		}
	}
}

func TestSpawnDraw(t *testing.T) {
	tests := []struct {
		name  string
		r     float64
		empty int
		value int
		index int
	}{
		{"lowest draw gives a four in the first cell", 0, 16, 4, 0},
		{"first decile gives a four", 0.0625, 8, 4, 5},
		{"second decile gives a two", 0.125, 8, 2, 2},
		{"high draw gives a two", 0.96875, 16, 2, 11},
		{"single empty cell", 0.5, 1, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, index := spawnDraw(tt.r, tt.empty)
			if value != tt.value {
				t.Errorf("value: expected %d, got %d", tt.value, value)
			}
			if index != tt.index {
				t.Errorf("index: expected %d, got %d", tt.index, index)
			}
		})
	}
}

func TestPlaceSpawn(t *testing.T) {
	g := Grid{
		{2, 4, 8, 16},
		{0, 0, 0, 0},
	}

	next, spawn, ok := PlaceSpawn(g, "spawn-test")
	if !ok {
		t.Fatal("Expected a spawn on a grid with empty cells")
	}
	if spawn.Value != 2 && spawn.Value != 4 {
		t.Errorf("Expected spawned value 2 or 4, got %d", spawn.Value)
	}
	if g[spawn.Row][spawn.Col] != 0 {
		t.Errorf("Spawn landed on occupied cell (%d,%d)", spawn.Col, spawn.Row)
	}
	if next[spawn.Row][spawn.Col] != spawn.Value {
		t.Errorf("Expected cell (%d,%d) to hold %d", spawn.Col, spawn.Row, spawn.Value)
	}
	if next.EmptyCount() != g.EmptyCount()-1 {
		t.Errorf("Expected exactly one cell to fill, empty went %d -> %d", g.EmptyCount(), next.EmptyCount())
	}

	again, spawnAgain, _ := PlaceSpawn(g, "spawn-test")
	if again != next || *spawnAgain != *spawn {
		t.Error("Expected identical spawn for identical seed and grid")
	}
}

func TestPlaceSpawn_FullGrid(t *testing.T) {
	g := Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}

	next, spawn, ok := PlaceSpawn(g, "full")
	if ok {
		t.Error("Expected no spawn on a full grid")
	}
	if spawn != nil {
		t.Errorf("Expected nil spawn, got %+v", spawn)
	}
	if next != g {
		t.Error("Expected full grid unchanged")
	}
}

func TestPlaceSpawn_SeedMatters(t *testing.T) {
	// Different seeds over the same empty grid should not all pick the same cell.
	cells := make(map[[2]int]bool)
	for _, seed := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		_, spawn, _ := PlaceSpawn(Grid{}, seed)
		cells[[2]int{spawn.Col, spawn.Row}] = true
	}
	if len(cells) < 2 {
		t.Error("Expected different seeds to reach different cells")
	}
}
