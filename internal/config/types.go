// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme selects terminal rendering for guidance output.
	ColorScheme string

	// Config is the application configuration.
	Config struct {
		// CargoBin is the cargo executable; the $CARGO environment
		// variable takes precedence at call sites.
		CargoBin string `mapstructure:"cargo_bin"`
		// Expand holds default expansion flags.
		Expand ExpandConfig `mapstructure:"expand"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// ExpandConfig carries expansion defaults applied before CLI flags.
	ExpandConfig struct {
		Features          []string `mapstructure:"features"`
		AllFeatures       bool     `mapstructure:"all_features"`
		NoDefaultFeatures bool     `mapstructure:"no_default_features"`
		Tests             bool     `mapstructure:"tests"`
		Release           bool     `mapstructure:"release"`
		UnstableFlags     []string `mapstructure:"unstable_flags"`
	}

	// UIConfig carries presentation settings.
	UIConfig struct {
		Verbose     bool        `mapstructure:"verbose"`
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
	}
)

// IsValid reports whether the color scheme is one of the known values.
func (c ColorScheme) IsValid() bool {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true
	default:
		return false
	}
}

// Validate returns an error wrapping ErrInvalidColorScheme when the value
// is not recognized.
func (c ColorScheme) Validate() error {
	if !c.IsValid() {
		return fmt.Errorf("%w: %q (expected auto, dark, or light)", ErrInvalidColorScheme, string(c))
	}
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CargoBin: "cargo",
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
