package batch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options controls what a scan includes. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	IncludeExtensions []string `yaml:"include_extensions"`
	ExcludePatterns   []string `yaml:"exclude_patterns"`
	Recursive         bool     `yaml:"recursive"`
	MaxDepth          int      `yaml:"max_depth"`
	SkipHidden        bool     `yaml:"skip_hidden"`
	MinSizeBytes      int64    `yaml:"min_size_bytes"`
	MaxSizeBytes      int64    `yaml:"max_size_bytes"`
	// Estimate enables the cheap per-file entry estimation pass.
	Estimate bool `yaml:"estimate"`
}

// DefaultOptions mirrors the conventional localization layout: common
// text-format extensions, build and VCS directories excluded, 50 MB cap.
func DefaultOptions() Options {
	return Options{
		IncludeExtensions: []string{
			"json", "po", "pot", "resx", "csv", "txt",
			"srt", "vtt", "ass", "ssa",
			"xml", "yaml", "yml", "properties",
		},
		ExcludePatterns: []string{
			"node_modules", ".git", "target", "__pycache__", ".venv", "dist", "build",
		},
		Recursive:    true,
		MaxDepth:     10,
		SkipHidden:   true,
		MaxSizeBytes: 50 * 1024 * 1024,
		Estimate:     true,
	}
}

// LoadOptions layers a YAML options file over the defaults. An empty
// path yields the defaults untouched.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	if path == "" {
		return opts, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read scan options: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse scan options: %w", err)
	}
	return opts, nil
}
