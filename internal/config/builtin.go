package config

// DefaultPreset is the preset the main window uses unless configured.
const DefaultPreset = "form"

// BuiltinPresets returns the built-in Bix preset library.
//
// These are always available to users without needing to define them in YAML.
// Users can define additional presets, or override these by name.
func BuiltinPresets() map[string]PresetConfig {
	return map[string]PresetConfig{
		// Label/field pairs with an expanding notes area and a button row.
		"form": {
			Bix: "Y[XY2[%,f%;%,f%],f%,X[f%,%,%]]",
			Sizes: []SizeConfig{
				{60, 24}, {200, 24},
				{60, 24}, {200, 24},
				{260, 120},
				{10, 10}, {80, 28}, {80, 28},
			},
		},
		// Buttons packed to the left of a stretching spacer.
		"toolbar": {
			Bix:   "X[%,%,%,f%]",
			Sizes: []SizeConfig{{32, 32}, {32, 32}, {32, 32}, {0, 32}},
		},
		// Sidebar, content and status line.
		"sidebar": {
			Bix:   "Y[fX[%,f%],%]",
			Sizes: []SizeConfig{{180, 300}, {400, 300}, {580, 20}},
		},
		// Equal 3x3 grid.
		"keypad": {
			Bix: "eXY3[%,%,%;%,%,%;%,%,%]",
			Sizes: []SizeConfig{
				{40, 40}, {40, 40}, {40, 40},
				{40, 40}, {40, 40}, {40, 40},
				{40, 40}, {40, 40}, {40, 40},
			},
		},
	}
}
