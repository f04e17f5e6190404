package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// config is loaded from .sourcemaprc.toml in the working directory, if
// present. Every field has a sane zero value so a missing file is not an
// error.
type config struct {
	LogLevel string `toml:"log_level"`
	CacheDir string `toml:"cache_dir"`
}

func loadConfig(path string) (config, error) {
	cfg := config{LogLevel: "info", CacheDir: ".sourcemap-cache"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
