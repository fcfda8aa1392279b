// SPDX-License-Identifier: MPL-2.0

package config

var (
	// configDirOverride allows tests to override the config directory.
	// Necessary because os.UserHomeDir() doesn't reliably respect the
	// HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces a specific config file, set from the
	// --config flag.
	configFilePathOverride string
)

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// Primarily intended for testing.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces loading from a specific config file.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// ConfigFilePathOverride reports the forced config file path, or "" when
// the standard lookup order applies.
func ConfigFilePathOverride() string {
	return configFilePathOverride
}
