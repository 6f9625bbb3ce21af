// Package config loads rule schemas and run options for the scanner.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigLoad marks a fatal configuration error: an unreadable or
// malformed rule schema file. Callers report it to the user and stop
// before the scan starts.
var ErrConfigLoad = errors.New("config load")

// KeysWithSecrets is one anchor group: keyword anchors paired with the
// value regexes that may follow any of them.
type KeysWithSecrets struct {
	Keys    []string `yaml:"keys"`
	Secrets []string `yaml:"secrets"`
}

// RuleSchema is one YAML rule descriptor, per spec §6.
type RuleSchema struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description,omitempty"`
	Groups          []string          `yaml:"groups,omitempty"`
	SecretRegexes   []string          `yaml:"secret_regexes,omitempty"`
	KeysWithSecrets []KeysWithSecrets `yaml:"keys_with_secrets,omitempty"`
	KeysRequired    []string          `yaml:"keys_required,omitempty"`
}

// LoadRuleSchemas reads a YAML file containing a list of rule
// descriptors. The returned error, if any, wraps ErrConfigLoad.
func LoadRuleSchemas(path string) ([]RuleSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfigLoad, path, err)
	}

	var schemas []RuleSchema
	if err := yaml.Unmarshal(data, &schemas); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfigLoad, path, err)
	}
	for i, s := range schemas {
		if s.Name == "" {
			return nil, fmt.Errorf("%w: %s: rule at index %d has no name", ErrConfigLoad, path, i)
		}
	}
	return schemas, nil
}

// Branches selects which git branches an Executor scans.
type Branches int

const (
	// Head scans only the current working tree, under the synthetic
	// filesystem branch label; no branch switching occurs.
	Head Branches = iota
	// Local enumerates local git branches.
	Local
	// Remote enumerates remote-tracking git branches.
	Remote
	// All enumerates both local and remote branches.
	All
)

// RunOptions gathers the flags a CLI invocation assembles, independent
// of whether the source is a filesystem path or a git repository.
type RunOptions struct {
	ConfigPath   string
	Omit         []string
	Dedup        int
	ScanArchives bool
	ScanBinary   bool
	Branches     Branches
	BranchFilter []string
	Format       OutputFormat
}

// OutputFormat selects the reporter's rendering.
type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatJSON
	FormatYAML
)
