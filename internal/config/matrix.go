package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/spachava753/compatmatrix/internal/models"
)

// LoadMatrixConfig loads a matrix config file. The format is chosen by
// extension: .toml for TOML, .yaml or .yml for YAML. An empty path returns
// the built-in defaults.
func LoadMatrixConfig(path string) (models.MatrixConfig, error) {
	if path == "" {
		return DefaultMatrixConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.MatrixConfig{}, fmt.Errorf("reading matrix config: %w", err)
	}

	var cfg models.MatrixConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		cfg, err = ParseTOML(data)
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data)
	default:
		return cfg, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	if err != nil {
		return cfg, err
	}

	// Relative patch paths are relative to the config file.
	base := filepath.Dir(path)
	for i := range cfg.Components {
		for j, f := range cfg.Components[i].Fixups {
			if f.Patch != "" && !filepath.IsAbs(f.Patch) {
				cfg.Components[i].Fixups[j].Patch = filepath.Join(base, f.Patch)
			}
		}
	}

	return cfg, nil
}

// ParseYAML parses and validates a YAML matrix config.
func ParseYAML(data []byte) (models.MatrixConfig, error) {
	var cfg models.MatrixConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing matrix config: %w", err)
	}

	var sections struct {
		Tests *yaml.Node `yaml:"tests"`
	}
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return cfg, fmt.Errorf("parsing matrix config: %w", err)
	}
	if sections.Tests == nil {
		cfg.Tests = DefaultMatrixConfig().Tests
	}

	applyDefaults(&cfg)
	return cfg, Validate(cfg)
}

// ParseTOML parses and validates a TOML matrix config.
func ParseTOML(data []byte) (models.MatrixConfig, error) {
	var cfg models.MatrixConfig
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing matrix config: %w", err)
	}

	for _, key := range md.Undecoded() {
		slog.Warn("ignoring unknown matrix config key", "key", key.String())
	}

	// Without a [tests] table there is nothing sensible to run other than
	// the built-in suite.
	if !md.IsDefined("tests") {
		cfg.Tests = DefaultMatrixConfig().Tests
	}

	applyDefaults(&cfg)
	return cfg, Validate(cfg)
}

// Validate checks cross references inside a matrix config.
func Validate(cfg models.MatrixConfig) error {
	if len(cfg.Components) == 0 {
		return fmt.Errorf("matrix config: no components configured")
	}

	ids := make(map[string]bool, len(cfg.Components))
	for i, c := range cfg.Components {
		if c.ID == "" {
			return fmt.Errorf("components[%d]: missing id", i)
		}
		if c.URL == "" {
			return fmt.Errorf("components[%d] (%s): missing url", i, c.ID)
		}
		if c.Kind != "" && !c.Kind.Valid() {
			return fmt.Errorf("components[%d] (%s): unknown kind %q", i, c.ID, c.Kind)
		}
		for j, f := range c.Fixups {
			actions := 0
			if f.Patch != "" {
				actions++
			}
			if f.WriteFile != "" {
				actions++
			}
			if len(f.Command) > 0 {
				actions++
			}
			if actions != 1 {
				return fmt.Errorf("components[%d] (%s): fixups[%d]: must specify exactly one of 'patch', 'write_file' or 'command'", i, c.ID, j)
			}
		}
		if ids[c.ID] {
			return fmt.Errorf("components[%d]: duplicate id %q", i, c.ID)
		}
		ids[c.ID] = true
	}

	if cfg.Primary == "" {
		return fmt.Errorf("matrix config: 'primary' is required")
	}
	if !ids[cfg.Primary] {
		return fmt.Errorf("matrix config: primary component %q is not configured", cfg.Primary)
	}
	if !ids[cfg.Tests.Component] {
		return fmt.Errorf("matrix config: tests component %q is not configured", cfg.Tests.Component)
	}
	if len(cfg.Tests.Names) == 0 {
		return fmt.Errorf("matrix config: tests.names is empty")
	}
	if len(cfg.Tests.Harness) == 0 && len(cfg.Tests.Driver) == 0 {
		return fmt.Errorf("matrix config: tests needs a 'harness' or a 'driver'")
	}

	return nil
}
