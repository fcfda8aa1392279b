// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// Provider supplies configuration without relying on package-level
	// mutable state, which makes dependency injection and parallel tests
	// possible.
	Provider interface {
		// Load returns the effective configuration.
		Load(ctx context.Context) (*Config, error)
		// ConfigFilePath returns the path of the loaded config file, or
		// "" when defaults are in effect.
		ConfigFilePath() string
	}

	// LoadOptions controls where a file-backed provider looks for its
	// configuration.
	LoadOptions struct {
		// ConfigFilePath, when set, is used exclusively; no other
		// locations are consulted.
		ConfigFilePath string
		// ConfigDirPath overrides the platform config directory.
		ConfigDirPath string
	}

	fileProvider struct {
		opts LoadOptions
		// global makes the provider consult the package-level overrides at
		// load time rather than construction time, since the --config flag
		// is only known after flag parsing.
		global bool
		cfg    *Config
		path   string
		loaded bool
	}
)

// NewProvider returns a file-backed Provider with the given options.
func NewProvider(opts LoadOptions) Provider {
	return &fileProvider{opts: opts}
}

// DefaultProvider returns a Provider that follows the standard lookup
// order (explicit override, platform config dir, current directory).
func DefaultProvider() Provider {
	return &fileProvider{global: true}
}

func (p *fileProvider) Load(ctx context.Context) (*Config, error) {
	if p.loaded {
		return p.cfg, nil
	}

	opts := p.opts
	if p.global && opts.ConfigFilePath == "" {
		opts.ConfigFilePath = configFilePathOverride
	}

	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	p.cfg = cfg
	p.path = path
	p.loaded = true

	return cfg, nil
}

func (p *fileProvider) ConfigFilePath() string {
	return p.path
}
