// Package config loads and caches game presets from a directory.
//
// A preset names a seed, an optional starting grid and the status lines a
// session reports. Presets may be written as JSON, HCL or YAML; the file
// extension selects the decoder:
//
//	classic.json   {"name": "classic", "description": "...", "seed": "abc"}
//	endgame.hcl    name = "endgame"  initial_grid = [[1024, 1024, 0, 0], ...]
//	corner.yaml    name: corner      initial_grid: [[2, 0, 0, 0], ...]
//
// The config identifier is the file name without its extension. When two
// files share an identifier, the first extension in Extensions wins.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("endgame")
//	defaultPreset := manager.GetDefault()
//	presets, err := manager.ListConfigs()
//
// Every loaded preset passes engine.ValidateGameConfig. Grids must be exactly
// 4x4 and hold only zero or powers of two.
package config
