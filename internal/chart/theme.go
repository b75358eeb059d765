package chart

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Palette maps chart elements to colors. The up/down pair is the categorical
// direction mapping; the rest is decoration.
type Palette struct {
	Up       string `yaml:"up"`
	Down     string `yaml:"down"`
	GridH    string `yaml:"grid_h"`
	GridV    string `yaml:"grid_v"`
	GridText string `yaml:"grid_text"`
	AxisText string `yaml:"axis_text"`
}

// DefaultPalette is the built-in dark theme.
func DefaultPalette() Palette {
	return Palette{
		Up:       "#22c55e",
		Down:     "#ef4444",
		GridH:    "#23262e",
		GridV:    "#20232b",
		GridText: "#8a8f9a",
		AxisText: "#c7c7c7",
	}
}

// LoadPalette reads an optional theme file. A missing or unreadable file is
// never an error: the simulator degrades to the built-in palette, matching
// how an absent background asset falls back to a solid fill.
func LoadPalette(path string) Palette {
	p := DefaultPalette()
	if path == "" {
		return p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("theme file unavailable, using built-in palette", "path", path, "err", err)
		return p
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		slog.Debug("theme file unparsable, using built-in palette", "path", path, "err", err)
		return DefaultPalette()
	}

	// Partial themes inherit the defaults for unset entries.
	def := DefaultPalette()
	if p.Up == "" {
		p.Up = def.Up
	}
	if p.Down == "" {
		p.Down = def.Down
	}
	if p.GridH == "" {
		p.GridH = def.GridH
	}
	if p.GridV == "" {
		p.GridV = def.GridV
	}
	if p.GridText == "" {
		p.GridText = def.GridText
	}
	if p.AxisText == "" {
		p.AxisText = def.AxisText
	}
	return p
}
