package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// config holds the optional settings file. Flags override everything
// here when set explicitly.
type config struct {
	// Directory where cached environments go.
	Directory string `yaml:"directory"`

	// Python selects the interpreter new environments are built around.
	Python string `yaml:"python"`

	// CreateCommand overrides the command used to create environments,
	// for example [python3, -m, venv].
	CreateCommand []string `yaml:"create_command"`

	// InstallArgs are passed to every pip install run.
	InstallArgs []string `yaml:"install_args"`

	KeepBroken bool `yaml:"keep_broken"`
	FixPip     bool `yaml:"fix_pip"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// defaultConfigPath returns ~/.config/venvcache/config.yaml, or empty
// when the home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "venvcache", "config.yaml")
}

// loadConfig reads the settings file. A missing file is fine unless the
// path was given explicitly.
func loadConfig(path string, explicit bool) (*config, error) {
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return &config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
