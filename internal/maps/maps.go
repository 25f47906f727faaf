// Package maps loads destructible-wall playfield layouts from JSON,
// falling back to an embedded default when no on-disk map is
// configured. Grounded on the embed pattern used for the radar overview
// assets elsewhere in the reference pack.
package maps

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed default.json
var defaultFS embed.FS

// WallDef is a single destructible wall as described in map JSON.
type WallDef struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Material string  `json:"material"`
}

// SpawnDef is a single team spawn point as described in map JSON.
type SpawnDef struct {
	Team string  `json:"team"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Map is a fully parsed playfield layout.
type Map struct {
	Name   string     `json:"name"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Walls  []WallDef  `json:"walls"`
	Spawns []SpawnDef `json:"spawns"`
}

// Load reads a map from path, or the embedded default map if path is
// empty.
func Load(path string) (*Map, error) {
	var data []byte
	var err error

	if path == "" {
		data, err = defaultFS.ReadFile("default.json")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}

	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing map %q: %w", path, err)
	}

	if err := Validate(&m); err != nil {
		return nil, fmt.Errorf("validating map %q: %w", path, err)
	}

	return &m, nil
}

// Validate checks a map for structural sanity: positive dimensions,
// walls within bounds, at least one spawn per team, and unique wall
// IDs.
func Validate(m *Map) error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map dimensions must be positive, got %gx%g", m.Width, m.Height)
	}

	seen := make(map[string]bool)
	for _, w := range m.Walls {
		if w.ID == "" {
			return fmt.Errorf("wall missing id")
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate wall id %q", w.ID)
		}
		seen[w.ID] = true
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("wall %q has non-positive dimensions", w.ID)
		}
		if w.X < 0 || w.Y < 0 || w.X+w.Width > m.Width || w.Y+w.Height > m.Height {
			return fmt.Errorf("wall %q extends outside map bounds", w.ID)
		}
		switch w.Material {
		case "concrete", "wood", "metal", "glass":
		default:
			return fmt.Errorf("wall %q has unknown material %q", w.ID, w.Material)
		}
	}

	teams := make(map[string]int)
	for _, s := range m.Spawns {
		teams[s.Team]++
	}
	if teams["red"] == 0 || teams["blue"] == 0 {
		return fmt.Errorf("map must define at least one spawn for both red and blue")
	}

	return nil
}
