// Package config reads the optional .rlsummary.yml file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for the analysis inputs.
const (
	DefaultResultsDir = "result"
	DefaultPattern    = "run-*.csv"
)

// Config holds the settings an invocation can take from a file.
type Config struct {
	ResultsDir string `yaml:"results_dir"`
	Pattern    string `yaml:"pattern"`
	DB         string `yaml:"db"`
	HTML       bool   `yaml:"html"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		ResultsDir: DefaultResultsDir,
		Pattern:    DefaultPattern,
	}
}

// ParseConfig decodes a single YAML document, rejecting unknown fields.
// Unset fields keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := Defaults()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks a config for usable values.
func Validate(cfg Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if strings.TrimSpace(cfg.ResultsDir) == "" {
		add("results_dir", "is required")
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		add("pattern", "is required")
	} else if _, err := path.Match(cfg.Pattern, ""); err != nil {
		add("pattern", fmt.Sprintf("invalid glob: %v", err))
	} else if strings.ContainsRune(cfg.Pattern, '/') {
		add("pattern", "must match file names, not paths")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
