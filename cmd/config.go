package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the optional YAML run configuration. Flags set explicitly on
// the command line override its values.
type RunConfig struct {
	Input  string `yaml:"input"`
	Mode   string `yaml:"mode"`   // single, independent or both
	Output string `yaml:"output"` // JSON report path, empty for none
	Trace  string `yaml:"trace"`  // none or service
}

// LoadRunConfig parses a run configuration file.
// Uses strict field checking: typos must cause errors.
func LoadRunConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading run config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}
