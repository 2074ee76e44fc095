package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ProjectConfigFile is the manifest name searched for by Loader.
const ProjectConfigFile = "reachkb.yaml"

// Loader finds and loads the manifest.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load returns the validated configuration. An explicit path must exist.
// With an empty path, reachkb.yaml is searched for from dir upwards; if none
// is found the defaults (rooted at dir) are used.
func (l *Loader) Load(path, dir string) (*Config, error) {
	config := DefaultConfig()
	config.DataDir = dir

	if path == "" {
		path = l.findProjectConfig(dir)
	}
	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", zap.String("path", path))
		config = fileConfig
	} else {
		l.logger.Debug("No project config found, using defaults", zap.String("dir", dir))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// findProjectConfig searches dir and its parents for the manifest.
func (l *Loader) findProjectConfig(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(abs, ProjectConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Cannot stat config candidate", zap.String("path", candidate), zap.Error(err))
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

// NewLogger builds a production zap logger at level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
