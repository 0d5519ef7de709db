package main

import (
	"fmt"
	"os"
	"testing"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

func TestAnalyze_Counts(t *testing.T) {
	result, err := analyze(engine.DefaultConfig(), "analyze-test", 200)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if result.Seed != "analyze-test" {
		t.Errorf("Expected seed analyze-test, got %q", result.Seed)
	}
	if result.Moves != result.Changed+result.NoChange {
		t.Errorf("Moves %d != changed %d + no change %d", result.Moves, result.Changed, result.NoChange)
	}
	if len(result.Spawns) != result.Changed-result.BoardFull {
		t.Errorf("Expected one spawn per changing move with room, got %d spawns for %d changes (%d full)",
			len(result.Spawns), result.Changed, result.BoardFull)
	}
	if !result.Locked && result.Moves != 200 {
		t.Errorf("Expected 200 moves unless locked, got %d", result.Moves)
	}
	if result.MaxTile < 4 {
		t.Errorf("Expected at least one merge, largest tile %d", result.MaxTile)
	}
	if result.EmptyCells != result.FinalGrid.EmptyCount() {
		t.Errorf("Empty cells %d disagree with final grid %d", result.EmptyCells, result.FinalGrid.EmptyCount())
	}
	for _, s := range result.Spawns {
		if s.Value != 2 && s.Value != 4 {
			t.Errorf("Unexpected spawn value %d", s.Value)
		}
	}
}

func TestAnalyze_LockedPreset(t *testing.T) {
	g := engine.Grid{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	cfg := &engine.GameConfig{Name: "locked", Description: "No moves", InitialGrid: &g}

	result, err := analyze(cfg, "x", 50)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Locked || result.Moves != 0 {
		t.Errorf("Expected an immediately locked board, got locked=%v moves=%d", result.Locked, result.Moves)
	}
	if result.FourShare() != 0 {
		t.Errorf("Expected zero share without spawns, got %f", result.FourShare())
	}
}

func TestAnalyzeTwice_Deterministic(t *testing.T) {
	for _, seed := range []string{"a", "b", "tilemerge"} {
		if _, err := analyzeTwice(engine.DefaultConfig(), seed, 150); err != nil {
			t.Errorf("seed %q: %v", seed, err)
		}
	}
}

func TestAnalyze_SeedsDiffer(t *testing.T) {
	a, err := analyze(engine.DefaultConfig(), "first", 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := analyze(engine.DefaultConfig(), "second", 20)
	if err != nil {
		t.Fatal(err)
	}
	if a.FinalGrid == b.FinalGrid {
		t.Error("Expected different seeds to produce different games")
	}
}

func TestAnalyze_FourShare(t *testing.T) {
	spawns, fours := 0, 0
	for i := 0; i < 40; i++ {
		result, err := analyze(engine.DefaultConfig(), fmt.Sprintf("share-%d", i), 300)
		if err != nil {
			t.Fatal(err)
		}
		spawns += len(result.Spawns)
		fours += result.Fours
	}
	if spawns < 1000 {
		t.Skipf("Only %d spawns, too few to measure", spawns)
	}

	share := float64(fours) / float64(spawns)
	if share < 0.05 || share > 0.16 {
		t.Errorf("Expected roughly one 4 in ten spawns, got %.3f over %d spawns", share, spawns)
	}
}

func TestAnalyze_InvalidConfig(t *testing.T) {
	if _, err := analyze(&engine.GameConfig{}, "", 10); err == nil {
		t.Error("Expected error for a config without a name")
	}
}

func TestRun(t *testing.T) {
	if _, err := os.Stat("../../configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	if err := run("../../configs", "", 100, nil); err != nil {
		t.Errorf("Expected every shipped preset to analyze cleanly: %v", err)
	}
	if err := run("../../configs", "override", 50, []string{"corner", "endgame.hcl"}); err != nil {
		t.Errorf("Expected named presets to analyze cleanly: %v", err)
	}
	if err := run("../../configs", "", 10, []string{"missing"}); err == nil {
		t.Error("Expected error for an unknown preset")
	}
	if err := run("/non/existent/path", "", 10, nil); err == nil {
		t.Error("Expected error for a missing config directory")
	}
}
