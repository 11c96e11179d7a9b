package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/3dp-wilbur/pkg/assembly"
	"github.com/ezrec/3dp-wilbur/pkg/stackup"
	"github.com/ezrec/3dp-wilbur/pkg/wilbur"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, wilbur.DefaultPose(), cfg.ToolPose())
	assert.Equal(t, "stl", cfg.Export.Dir)
	assert.Equal(t, []assembly.Material{assembly.Plastic}, cfg.Materials())
	assert.Positive(t, cfg.Export.Cells)
	require.NoError(t, cfg.Validate())

	ref, err := cfg.Reference()
	require.NoError(t, err)
	assert.Equal(t, stackup.DefaultReference(), ref)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "kebab-case override",
			modify:  func(c *Config) { c.Stackup["gap-bearing"] = 3 },
			wantErr: false,
		},
		{
			name:    "unknown override",
			modify:  func(c *Config) { c.Stackup["rod_colour"] = 1 },
			wantErr: true,
		},
		{
			name:    "non-positive rod",
			modify:  func(c *Config) { c.Stackup["rod_diameter"] = 0 },
			wantErr: true,
		},
		{
			name:    "missing export dir",
			modify:  func(c *Config) { c.Export.Dir = "" },
			wantErr: true,
		},
		{
			name:    "zero cells",
			modify:  func(c *Config) { c.Export.Cells = 0 },
			wantErr: true,
		},
		{
			name:    "empty material",
			modify:  func(c *Config) { c.Export.Materials = []string{""} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "wilbur.yaml")

	content := `
stackup:
  rod-diameter: 10
  vslot_length: 500
pose:
  x: -100
  y: 120
export:
  dir: out
  materials: [plastic, metal]
script: pose.zy
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, wilbur.Pose{ToolX: -100, ToolY: 120, ToolZ: 0}, cfg.ToolPose())
	assert.Equal(t, "out", cfg.Export.Dir)
	assert.Equal(t, []assembly.Material{assembly.Plastic, assembly.Metal}, cfg.Materials())
	assert.Equal(t, 200, cfg.Export.Cells, "unset fields keep defaults")
	assert.Equal(t, filepath.Join(tmpDir, "pose.zy"), cfg.Script)

	ref, err := cfg.Reference()
	require.NoError(t, err)
	assert.Equal(t, 5.0, ref.Rod.Radius)
	assert.Equal(t, 500.0, ref.VSlot.Length)
}

func TestLoadFromFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := LoadFromFile(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("pose: [1, 2"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wilbur.yaml")

	cfg := DefaultConfig()
	cfg.Stackup["tolerance"] = 0.4
	cfg.SetToolPose(wilbur.Pose{ToolX: 10, ToolY: 20, ToolZ: 30})
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ToolPose(), loaded.ToolPose())
	assert.Equal(t, 0.4, loaded.Stackup["tolerance"])
}

func TestLoaderExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pose:\n  y: 80\n"), 0644))

	cfg, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.Pose.Y)
	assert.Equal(t, -140.0, cfg.Pose.X)
}

func TestLoaderRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wilbur.yaml")
	require.NoError(t, os.WriteFile(path, []byte("stackup:\n  rod_diameter: -8\n"), 0644))

	_, err := NewLoader(nil).Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, stackup.ErrInvalidDimension)
}

func TestLoaderMissingExplicitPath(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
