package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Policy   PolicyConfig   `yaml:"policy"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// PolicyConfig holds per-project overrides layered on top of the built-in
// validation policy.
type PolicyConfig struct {
	ForbiddenPaths     []string `yaml:"forbidden_paths"`
	ProtectedRoots     []string `yaml:"protected_roots"`
	DisabledCurrencies []string `yaml:"disabled_currencies"`
}

func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	switch cfg.Database.Driver {
	case "", "sqlite", "postgres":
		// empty means no store configured
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if cfg.Database.Driver != "" && strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required when driver is set")
	}
	for i, p := range cfg.Policy.ForbiddenPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("policy forbidden_paths[%d] is empty", i)
		}
	}
	for i, p := range cfg.Policy.ProtectedRoots {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("policy protected_roots[%d] is empty", i)
		}
	}
	return nil
}

// DefaultYAML is the starter yamen.yaml written by the init command.
const DefaultYAML = `project: my-county
version: 1

database:
  driver: sqlite
  dsn: saves.db

# Per-project additions to the built-in command policy.
policy:
  forbidden_paths: []
  protected_roots: []
  disabled_currencies: []
`
