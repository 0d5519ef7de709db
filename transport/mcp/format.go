package mcp

import (
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
	"github.com/wricardo/mcp-training/tilemerge/game/service"
)

const instructions = `Tile Merge - Complete Instructions

BOARD:
A 4x4 grid. Cells hold 0 (empty) or a power of two. Coordinates are (col,row) with (0,0)
at the top left.

MOVES:
• left / right slide every row toward column 0 / column 3
• up / down slide every column toward row 0 / row 3
• Tiles close the gaps in the direction of the move
• Two equal neighbours merge into their sum; a tile merges at most once per move
  ([2,2,2,2] left becomes [4,4,0,0], not [8,0,0,0])

SPAWNS:
• After a move that changes the board, one tile appears in an empty cell
• It is a 4 roughly one time in ten, otherwise a 2
• The cell and value depend only on the seed and the board, so a seed plus a move list
  always replays to the same game
• A move that changes nothing is recorded but spawns nothing

TRANSFORMATION:
Each move records how far every cell's tile slid (negative toward left/up, positive toward
right/down). Clients use it for animation and clear it with clear_transformation.

STRATEGY NOTES:
• Keep the largest tile in a corner and build along one edge
• Favour two directions (for example left and down) and use a third only when stuck
• Check possible_moves before committing a bulk_move
• Use clone_session to try a line of play without losing your position
• Use replay to check what a move list does from a preset and seed

MOVEMENT COMMANDS:
• move: one direction
• bulk_move: several directions; unknown directions stop the run, unchanged moves do not

Good luck merging!`

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatGrid renders a grid as right-aligned columns with '.' for empty cells.
func formatGrid(g engine.Grid) string {
	width := 1
	for _, row := range g {
		for _, v := range row {
			if n := len(fmt.Sprint(v)); n > width {
				width = n
			}
		}
	}

	var b strings.Builder
	for _, row := range g {
		for col, v := range row {
			if col > 0 {
				b.WriteString(" ")
			}
			cell := "."
			if v != 0 {
				cell = fmt.Sprint(v)
			}
			b.WriteString(fmt.Sprintf("%*s", width, cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSpawn(s *engine.Spawn) string {
	if s == nil {
		return "none"
	}
	return fmt.Sprintf("%d at (%d,%d)", s.Value, s.Col, s.Row)
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Seed: %q | Empty: %d | Moves: %d\n\n",
		state.Seed, state.EmptyCells, state.TotalMoves))

	result.WriteString(formatGrid(state.Grid))

	if state.LastSpawn != nil {
		result.WriteString(fmt.Sprintf("\nLast spawn: %s", formatSpawn(state.LastSpawn)))
	}
	if len(state.PossibleMoves) > 0 {
		result.WriteString(fmt.Sprintf("\nPossible moves: %s", strings.Join(state.PossibleMoves, ",")))
	} else {
		result.WriteString("\nNo move changes the board")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatStep(s *service.StepInfo) string {
	status := "unchanged"
	if s.Changed {
		status = "changed"
	}
	return fmt.Sprintf("%d. %s %s spawn=%s empty=%d->%d",
		s.Idx, s.Dir, status, formatSpawn(s.Spawn), s.EmptyBefore, s.EmptyAfter)
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Changed {
		b.WriteString("✓ Board changed\n")
	} else {
		b.WriteString("• Nothing moved\n")
	}

	if result.Step != nil {
		b.WriteString("Step: " + formatStep(result.Step) + "\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Config: %s\n", sessionID, configName))

	b.WriteString(fmt.Sprintf("Executed %d/%d moves (%d changed the board)\n",
		result.MovesExecuted, result.RequestedMoves, result.MovesChanged))
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the first %d moves\n", result.Limit))
	}
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason))
	}
	b.WriteString(fmt.Sprintf("Empty cells: %d -> %d\n", result.StartEmpty, result.EndEmpty))

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range result.Steps {
			b.WriteString(formatStep(&result.Steps[i]) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatReplayResult(result *service.ReplayResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Replay of %q with seed %q: %d moves, %d changed the board\n\n",
		result.ConfigName, result.Seed, result.MovesApplied, result.MovesChanged))
	b.WriteString("Start:\n")
	b.WriteString(formatGrid(result.InitialGrid))

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range result.Steps {
			b.WriteString(formatStep(&result.Steps[i]) + "\n")
		}
	}

	b.WriteString("\nFinal:\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistoryEntry(num int, move engine.MoveHistoryEntry) string {
	status := "✓"
	if !move.Changed {
		status = "·"
	}
	return fmt.Sprintf("%d. %s %s [spawn: %s, empty: %d]\n",
		num, move.Action, status, formatSpawn(move.Spawn), move.EmptyAfter)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Move History (Page %d/%d) - Total (cumulative): %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves))

	for _, move := range history.Moves {
		b.WriteString(formatHistoryEntry(move.MoveNumber, move))
	}

	return b.String()
}

func formatCurrentSegment(state *engine.GameState) string {
	if state == nil {
		return "Current Segment: unavailable"
	}
	header := fmt.Sprintf("Current Move Segment - Moves: %d\n\n", state.CurrentMovesCount)
	if len(state.CurrentMoves) == 0 {
		return header + "(no moves in current segment)"
	}

	var b strings.Builder
	b.WriteString(header)
	for i, move := range state.CurrentMoves {
		b.WriteString(formatHistoryEntry(i+1, move))
	}
	return b.String()
}
