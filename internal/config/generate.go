// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// depex configuration file\n\n")

	sb.WriteString(fmt.Sprintf("cargo_bin: %q\n", cfg.CargoBin))

	sb.WriteString("\nexpand: {\n")
	if len(cfg.Expand.Features) > 0 {
		sb.WriteString("\tfeatures: [\n")
		for _, f := range cfg.Expand.Features {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", f))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString(fmt.Sprintf("\tall_features: %v\n", cfg.Expand.AllFeatures))
	sb.WriteString(fmt.Sprintf("\tno_default_features: %v\n", cfg.Expand.NoDefaultFeatures))
	sb.WriteString(fmt.Sprintf("\ttests: %v\n", cfg.Expand.Tests))
	sb.WriteString(fmt.Sprintf("\trelease: %v\n", cfg.Expand.Release))
	if len(cfg.Expand.UnstableFlags) > 0 {
		sb.WriteString("\tunstable_flags: [\n")
		for _, f := range cfg.Expand.UnstableFlags {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", f))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}

// InitDefault creates the config directory and writes the default
// configuration file. It refuses to overwrite an existing file and
// returns its path either way.
func InitDefault() (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if fileExists(cfgPath) {
		return cfgPath, fmt.Errorf("config file already exists: %s", cfgPath)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}
