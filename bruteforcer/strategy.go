package main

import (
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// preference breaks ties between equally scored moves and keeps play anchored to the
// top-left corner.
var preference = []engine.Direction{engine.Left, engine.Up, engine.Right, engine.Down}

// GreedyStrategy picks the move whose resulting grid (before the spawn) scores best.
// It looks one move ahead and never needs the seed.
type GreedyStrategy struct {
	EmptyWeight  int
	CornerWeight int
	EdgeWeight   int
}

func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{
		EmptyWeight:  10,
		CornerWeight: 15,
		EdgeWeight:   1,
	}
}

// NextMove returns the best direction for g, or "" when nothing changes the board.
func (s *GreedyStrategy) NextMove(g engine.Grid) string {
	best := ""
	bestScore := 0

	for _, dir := range preference {
		next, _, changed := engine.Collapse(g, dir)
		if !changed {
			continue
		}
		score := s.score(next)
		if best == "" || score > bestScore {
			best = dir.String()
			bestScore = score
		}
	}

	return best
}

func (s *GreedyStrategy) score(g engine.Grid) int {
	score := s.EmptyWeight * g.EmptyCount()

	largest := maxTile(g)
	if g[0][0] == largest {
		score += s.CornerWeight
	}

	// Reward a top row that decreases away from the corner.
	for col := 1; col < engine.Size; col++ {
		if g[0][col] != 0 && g[0][col] <= g[0][col-1] {
			score += s.EdgeWeight
		}
	}

	return score
}

func maxTile(g engine.Grid) int {
	largest := 0
	for _, row := range g {
		for _, v := range row {
			if v > largest {
				largest = v
			}
		}
	}
	return largest
}
