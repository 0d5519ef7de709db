// Command analyze plays a fixed move cycle on each preset and prints quick,
// human-readable statistics: how many moves changed the board, how often a 4
// spawned, the largest tile reached and whether the board locked. Every preset is
// played twice and the two spawn sequences are compared, so the command doubles as
// a determinism check.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/config"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// moveCycle favours one corner and only falls back to up when stuck.
var moveCycle = []string{"left", "down", "right", "down", "up"}

// errNondeterministic is returned when two runs of the same preset and seed diverge.
var errNondeterministic = errors.New("replay diverged")

// AnalysisResult summarises one play-through.
type AnalysisResult struct {
	Name       string
	Seed       string
	Moves      int
	Changed    int
	NoChange   int
	BoardFull  int
	Fours      int
	MaxTile    int
	EmptyCells int
	Locked     bool
	Spawns     []engine.Spawn
	FinalGrid  engine.Grid
}

// FourShare is the fraction of move spawns that were 4s.
func (r *AnalysisResult) FourShare() float64 {
	if len(r.Spawns) == 0 {
		return 0
	}
	return float64(r.Fours) / float64(len(r.Spawns))
}

// analyze plays up to maxMoves moves from cfg with the move cycle. It stops early once
// no direction changes the board.
func analyze(cfg *engine.GameConfig, seed string, maxMoves int) (*AnalysisResult, error) {
	eng, err := engine.NewEngine(cfg, seed)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{Name: cfg.Name, Seed: eng.GetSeed()}

	for i := 0; i < maxMoves; i++ {
		if len(eng.GetPossibleMoves()) == 0 {
			result.Locked = true
			break
		}

		res, err := eng.Move(moveCycle[i%len(moveCycle)])
		if err != nil {
			return nil, err
		}
		result.Moves++

		switch {
		case !res.Changed:
			result.NoChange++
		case !res.Spawned:
			result.Changed++
			result.BoardFull++
		default:
			result.Changed++
			result.Spawns = append(result.Spawns, *res.Spawn)
			if res.Spawn.Value == 4 {
				result.Fours++
			}
		}
	}

	state := eng.GetState()
	result.FinalGrid = state.Grid
	result.EmptyCells = state.EmptyCells
	for _, row := range state.Grid {
		for _, v := range row {
			if v > result.MaxTile {
				result.MaxTile = v
			}
		}
	}
	if len(state.PossibleMoves) == 0 {
		result.Locked = true
	}

	return result, nil
}

// analyzeTwice runs analyze twice and fails if the runs disagree.
func analyzeTwice(cfg *engine.GameConfig, seed string, maxMoves int) (*AnalysisResult, error) {
	first, err := analyze(cfg, seed, maxMoves)
	if err != nil {
		return nil, err
	}
	second, err := analyze(cfg, seed, maxMoves)
	if err != nil {
		return nil, err
	}
	if first.FinalGrid != second.FinalGrid || !reflect.DeepEqual(first.Spawns, second.Spawns) {
		return first, fmt.Errorf("%s: %w", cfg.Name, errNondeterministic)
	}
	return first, nil
}

func printResult(r *AnalysisResult) {
	fmt.Printf("Seed: %q\n", r.Seed)
	fmt.Printf("Moves: %d (changed %d, nothing moved %d, board full %d)\n",
		r.Moves, r.Changed, r.NoChange, r.BoardFull)
	fmt.Printf("Spawns: %d (4s: %d, %.1f%%)\n", len(r.Spawns), r.Fours, 100*r.FourShare())
	fmt.Printf("Largest tile: %d, empty cells: %d\n", r.MaxTile, r.EmptyCells)
	if r.Locked {
		fmt.Println("⚠️  Board locked: no move changes it")
	}
	fmt.Println("✅ Two runs produced identical spawns")
}

// run analyzes the named presets, or every preset in configDir when names is empty.
func run(configDir, seed string, maxMoves int, names []string) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		infos, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.ConfigID)
		}
	}

	var failed []string
	for _, name := range names {
		fmt.Printf("\n=== Analyzing %s ===\n", name)

		cfg, err := manager.LoadConfig(name)
		if err != nil {
			fmt.Printf("Error loading preset: %v\n", err)
			failed = append(failed, name)
			continue
		}

		result, err := analyzeTwice(cfg, seed, maxMoves)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			failed = append(failed, name)
			continue
		}
		printResult(result)
	}

	if len(failed) > 0 {
		return fmt.Errorf("analysis failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Play a fixed move cycle on presets and report spawn statistics",
		ArgsUsage: "[preset...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Seed overriding each preset's own",
			},
			&cli.IntFlag{
				Name:  "moves",
				Value: 500,
				Usage: "Maximum moves per play-through",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Int("moves") <= 0 {
				return fmt.Errorf("--moves must be positive")
			}
			return run(cmd.String("config-dir"), cmd.String("seed"), cmd.Int("moves"), cmd.Args().Slice())
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
