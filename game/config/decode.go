package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/tilemerge/game/engine"
)

// presetFile is the on-disk shape shared by every preset format. The grid is decoded as
// nested lists so that a wrong row or column count is reported instead of padded.
type presetFile struct {
	Name        string          `json:"name" yaml:"name" hcl:"name"`
	Description string          `json:"description" yaml:"description" hcl:"description"`
	Seed        string          `json:"seed,omitempty" yaml:"seed,omitempty" hcl:"seed,optional"`
	InitialGrid [][]int         `json:"initial_grid,omitempty" yaml:"initial_grid,omitempty" hcl:"initial_grid,optional"`
	Messages    *presetMessages `json:"messages,omitempty" yaml:"messages,omitempty" hcl:"messages,block"`
}

type presetMessages struct {
	Welcome   string `json:"welcome,omitempty" yaml:"welcome,omitempty" hcl:"welcome,optional"`
	Moved     string `json:"moved,omitempty" yaml:"moved,omitempty" hcl:"moved,optional"`
	NoChange  string `json:"no_change,omitempty" yaml:"no_change,omitempty" hcl:"no_change,optional"`
	BoardFull string `json:"board_full,omitempty" yaml:"board_full,omitempty" hcl:"board_full,optional"`
}

// DecodeFile reads a preset in the format given by its extension. The result is not
// validated; callers run engine.ValidateGameConfig.
func DecodeFile(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var preset presetFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&preset); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".hcl":
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		diags = gohcl.DecodeBody(file.Body, nil, &preset)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&preset); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	return preset.toGameConfig()
}

func (p *presetFile) toGameConfig() (*engine.GameConfig, error) {
	config := &engine.GameConfig{
		Name:        p.Name,
		Description: p.Description,
		Seed:        p.Seed,
	}
	if p.Messages != nil {
		config.Messages = engine.Messages{
			Welcome:   p.Messages.Welcome,
			Moved:     p.Messages.Moved,
			NoChange:  p.Messages.NoChange,
			BoardFull: p.Messages.BoardFull,
		}
	}

	if p.InitialGrid != nil {
		if len(p.InitialGrid) != engine.Size {
			return nil, fmt.Errorf("initial_grid: want %d rows, got %d", engine.Size, len(p.InitialGrid))
		}
		var g engine.Grid
		for row, cells := range p.InitialGrid {
			if len(cells) != engine.Size {
				return nil, fmt.Errorf("initial_grid: row %d: want %d cells, got %d", row, engine.Size, len(cells))
			}
			copy(g[row][:], cells)
		}
		config.InitialGrid = &g
	}

	return config, nil
}
