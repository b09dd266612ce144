package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads, parses, and validates a config file. Relative results_dir and
// db paths are resolved against the directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	base := filepath.Dir(path)
	cfg.ResultsDir = resolve(base, cfg.ResultsDir)
	cfg.DB = resolve(base, cfg.DB)
	return cfg, nil
}

// LoadOptional loads the file at path, or returns Defaults when path is empty.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func resolve(base, value string) string {
	if value == "" || filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(base, value)
}
