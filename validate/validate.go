// Command validate checks the game presets in a directory (default ../configs). For each
// JSON, HCL or YAML file it checks:
//   - the file decodes with no unknown fields
//   - name and description are present
//   - initial_grid has four rows of four cells, each 0 or a power of two
//   - message templates are well formed (moved takes exactly one %s)
//   - the starting board builds, and how many moves it allows
//
// It also warns when two files share an identifier, since only the first extension
// in lookup order is served. The exit status is non-zero if any preset is invalid.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/tilemerge/game/config"
	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig decodes and validates a single preset file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cfg, err := config.DecodeFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to decode: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	eng, err := engine.NewEngine(cfg, "")
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to build starting board: %v", err))
		return result
	}
	state := eng.GetState()

	start := "empty board with two opening tiles"
	if cfg.InitialGrid != nil {
		start = "preset grid"
	}
	seed := cfg.Seed
	if seed == "" {
		seed = "(none)"
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Seed: %s", seed))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Start: %s", start))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Largest tile: %d", maxTile(state.Grid)))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Empty cells: %d", state.EmptyCells))
	if len(state.PossibleMoves) == 0 {
		result.Errors = append(result.Errors, "⚠ Starting board has no moves")
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Possible moves: %s", strings.Join(state.PossibleMoves, ",")))
	}

	return result
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

// presetFiles lists the preset files in dir, sorted by name.
func presetFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// shadowedPresets reports files whose identifier is already served by a file with an
// earlier extension.
func shadowedPresets(files []string) []string {
	rank := func(path string) int {
		ext := strings.ToLower(filepath.Ext(path))
		for i, e := range config.Extensions {
			if e == ext {
				return i
			}
		}
		return len(config.Extensions)
	}

	byID := map[string][]string{}
	for _, f := range files {
		base := filepath.Base(f)
		id := strings.TrimSuffix(base, filepath.Ext(base))
		byID[id] = append(byID[id], f)
	}

	var warnings []string
	for id, paths := range byID {
		if len(paths) < 2 {
			continue
		}
		sort.Slice(paths, func(i, j int) bool { return rank(paths[i]) < rank(paths[j]) })
		for _, p := range paths[1:] {
			warnings = append(warnings, fmt.Sprintf("%s is shadowed by %s for preset %q",
				filepath.Base(p), filepath.Base(paths[0]), id))
		}
	}
	sort.Strings(warnings)
	return warnings
}

// run validates every preset in dir and reports whether all of them are valid.
func run(dir string) (bool, error) {
	files, err := presetFiles(dir)
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no preset files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	for _, warning := range shadowedPresets(files) {
		fmt.Println("⚠ " + warning)
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
	}
	return allValid, nil
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate tile-merge presets",
		ArgsUsage: "[config-dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := "../configs"
			if cmd.Args().Present() {
				dir = cmd.Args().First()
			}

			ok, err := run(dir)
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
