package config

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the name of the project-level config file
const ProjectConfigFile = "wilbur.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. The file at path, or wilbur.yaml in the current or a parent directory
//
// An explicit path that cannot be read is an error; a missing project
// config is not.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		path = l.ProjectConfig()
	}
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded project config", slog.String("path", path))
		config = loaded
	} else {
		l.logger.Debug("No project config found")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ProjectConfig searches for wilbur.yaml in current and parent directories.
// It returns "" when there is none.
func (l *Loader) ProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
