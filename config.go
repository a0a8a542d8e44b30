package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds the optional shell configuration. Every field can be
// overridden from the command line.
type Config struct {
	Volume   string `yaml:"volume"`
	Prompt   string `yaml:"prompt"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Prompt:   "fs> ",
		LogLevel: "warning",
	}
}

// LoadConfig reads a YAML config file. With an empty path it falls back to
// ~/.fatfs.yaml; a missing file is not an error, only defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".fatfs.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, "read config file")
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(err, "parse config file")
	}

	if cfg.Prompt == "" {
		cfg.Prompt = DefaultConfig().Prompt
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultConfig().LogLevel
	}

	return cfg, nil
}
