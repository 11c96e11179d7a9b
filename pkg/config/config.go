// Package config loads the YAML configuration for a Wilbur build.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
	"github.com/ezrec/3dp-wilbur/pkg/wilbur"
)

// Config represents the complete Wilbur configuration
type Config struct {
	// Stackup overrides reference dimensions and margins by name,
	// e.g. rod-diameter or gap_bearing.
	Stackup map[string]float64 `yaml:"stackup,omitempty"`
	Pose    PoseConfig         `yaml:"pose"`
	Export  ExportConfig       `yaml:"export"`
	// Script is an optional pose script evaluated after the file.
	Script string `yaml:"script,omitempty"`
}

// PoseConfig places the tool head.
type PoseConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// ExportConfig configures STL export
type ExportConfig struct {
	// Dir is the output directory for STL files and the manifest.
	Dir string `yaml:"dir"`
	// Materials limits export to parts of these materials.
	Materials []string `yaml:"materials"`
	// Cells is the marching cubes resolution along the longest axis.
	Cells int `yaml:"cells"`
}

// DefaultConfig returns a Config with the stock frame
func DefaultConfig() *Config {
	p := wilbur.DefaultPose()
	return &Config{
		Stackup: map[string]float64{},
		Pose:    PoseConfig{X: p.ToolX, Y: p.ToolY, Z: p.ToolZ},
		Export: ExportConfig{
			Dir:       "stl",
			Materials: []string{string(assembly.Plastic)},
			Cells:     200,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	for name := range c.Stackup {
		if !stackup.Overridable(stackup.OverrideName(name)) {
			return fmt.Errorf("stackup.%s is not a known dimension", name)
		}
	}
	if _, err := c.Reference(); err != nil {
		return err
	}
	if c.Export.Dir == "" {
		return fmt.Errorf("export.dir is required")
	}
	if c.Export.Cells <= 0 {
		return fmt.Errorf("export.cells must be positive")
	}
	for _, m := range c.Export.Materials {
		if m == "" {
			return fmt.Errorf("export.materials must not contain empty names")
		}
	}
	return nil
}

// Reference returns the stack-up reference with the configured overrides.
func (c *Config) Reference() (stackup.Reference, error) {
	ref := stackup.DefaultReference()
	overrides := make(map[string]float64, len(c.Stackup))
	for name, v := range c.Stackup {
		overrides[stackup.OverrideName(name)] = v
	}
	if err := ref.Apply(overrides); err != nil {
		return stackup.Reference{}, fmt.Errorf("stackup: %w", err)
	}
	if _, err := stackup.Derive(ref); err != nil {
		return stackup.Reference{}, fmt.Errorf("stackup: %w", err)
	}
	return ref, nil
}

// ToolPose returns the configured tool head pose.
func (c *Config) ToolPose() wilbur.Pose {
	return wilbur.Pose{ToolX: c.Pose.X, ToolY: c.Pose.Y, ToolZ: c.Pose.Z}
}

// SetToolPose stores p as the configured pose.
func (c *Config) SetToolPose(p wilbur.Pose) {
	c.Pose = PoseConfig{X: p.ToolX, Y: p.ToolY, Z: p.ToolZ}
}

// Materials returns the export material filter.
func (c *Config) Materials() []assembly.Material {
	out := make([]assembly.Material, 0, len(c.Export.Materials))
	for _, m := range c.Export.Materials {
		out = append(out, assembly.ParseMaterial(m))
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A relative script path is relative to the config file.
	if config.Script != "" && !filepath.IsAbs(config.Script) {
		config.Script = filepath.Join(filepath.Dir(path), config.Script)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
