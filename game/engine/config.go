package engine

import (
	"fmt"
	"strings"
)

// Default status lines, used for any message a configuration leaves empty.
const (
	DefaultWelcome   = "New game. Slide tiles with up, down, left or right."
	DefaultMoved     = "Moved %s."
	DefaultNoChange  = "Nothing moved."
	DefaultBoardFull = "Tiles moved but there is no room for a new one."
)

// ValidateGameConfig validates a game configuration for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate starting grid
	if config.InitialGrid != nil {
		if err := ValidateGrid(*config.InitialGrid); err != nil {
			return fmt.Errorf("config validation: initial_grid: %w", err)
		}
	}

	// Validate format strings
	if config.Messages.Moved != "" && strings.Count(config.Messages.Moved, "%s") != 1 {
		return fmt.Errorf("config validation: messages.moved must contain exactly one %%s for the direction")
	}
	for name, msg := range map[string]string{
		"welcome":    config.Messages.Welcome,
		"no_change":  config.Messages.NoChange,
		"board_full": config.Messages.BoardFull,
	} {
		if strings.Contains(msg, "%") {
			return fmt.Errorf("config validation: messages.%s must not contain format verbs", name)
		}
	}

	return nil
}

// messages returns the configured status lines with defaults filled in.
func (c *GameConfig) messages() Messages {
	m := c.Messages
	if m.Welcome == "" {
		m.Welcome = DefaultWelcome
	}
	if m.Moved == "" {
		m.Moved = DefaultMoved
	}
	if m.NoChange == "" {
		m.NoChange = DefaultNoChange
	}
	if m.BoardFull == "" {
		m.BoardFull = DefaultBoardFull
	}
	return m
}

// NewBoardFromConfig builds the starting board of a configuration. Without an initial grid
// the board starts empty and receives its two opening tiles.
func NewBoardFromConfig(config *GameConfig, seed string) (*Board, error) {
	if config.InitialGrid == nil {
		return NewBoard(seed), nil
	}
	return NewBoardFromGrid(seed, *config.InitialGrid)
}

// DefaultConfig returns the built-in configuration: empty start, empty seed.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Empty 4x4 board with two opening tiles",
		Messages: Messages{
			Welcome:   DefaultWelcome,
			Moved:     DefaultMoved,
			NoChange:  DefaultNoChange,
			BoardFull: DefaultBoardFull,
		},
	}
}
