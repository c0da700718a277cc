// Package config loads tool configuration and governance rule files.
// Tool config merges, highest priority first: CLI flags, DBTGOV_
// environment variables, the config file, built-in defaults. The rules
// file is a separate YAML document loaded into the governance data model.
package config

import "fmt"

// Default file locations and names.
const (
	// DefaultConfigFileName is the tool config file searched for in the
	// working directory.
	DefaultConfigFileName = "dbtgov.yaml"

	// DefaultConfigFileNameAlt is the alternate config file name.
	DefaultConfigFileNameAlt = "dbtgov.yml"

	// DefaultRulesFileName is the governance rules file.
	DefaultRulesFileName = "governance-rules.yml"

	// DefaultOutputFileName is where the JSON report is written.
	DefaultOutputFileName = "governance-results.json"

	// DefaultStateFile is the run-history database.
	DefaultStateFile = ".dbtgov/history.db"

	// DefaultOutput is the default output format.
	DefaultOutput = "auto"
)

// Config is the resolved tool configuration.
type Config struct {
	// ProjectPath is a single dbt project; ProjectPaths lists several.
	// At least one of the two must be set to evaluate.
	ProjectPath  string   `koanf:"project_path"`
	ProjectPaths []string `koanf:"project_paths"`

	// RulesFile is the governance rules YAML document.
	RulesFile string `koanf:"rules_file"`

	// OutputPath is where the JSON report is written.
	OutputPath string `koanf:"output_path"`

	// StatePath is the run-history SQLite database.
	StatePath string `koanf:"state_path"`

	// NoHistory disables run-history recording.
	NoHistory bool `koanf:"no_history"`

	Verbose bool `koanf:"verbose"`

	// Output is the CLI output format (auto|text|markdown|json).
	Output string `koanf:"output"`
}

// GetProjectPaths returns the dbt projects to evaluate. A single
// project_path takes precedence over the project_paths list.
func (c *Config) GetProjectPaths() ([]string, error) {
	if c.ProjectPath != "" {
		return []string{c.ProjectPath}, nil
	}
	if len(c.ProjectPaths) > 0 {
		return c.ProjectPaths, nil
	}
	return nil, fmt.Errorf("no project paths found in configuration")
}
