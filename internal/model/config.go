package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Project is one configured project: a display key plus a mapping from
// source-kind name to a source-specific identifier (repository URL, package
// name, local path).
type Project struct {
	Key     string
	Sources map[string]string
}

// Config carries the project list, per-source-kind credentials and runtime
// knobs. The YAML file supplies projects and credentials; everything else
// comes from defaults and CLI flags.
type Config struct {
	// Projects in declared order. Report output follows this order.
	Projects []Project

	HTTP  HTTPConfig
	Fetch FetchConfig
	Cache CacheConfig
	Rate  RateConfig

	creds map[string]map[string]string
}

// HTTPConfig controls the shared HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	// HTTPProxy and HTTPSProxy override the environment proxy settings
	// when set.
	HTTPProxy  string
	HTTPSProxy string
}

// FetchConfig controls fetch concurrency and per-adapter deadlines.
type FetchConfig struct {
	SourceTimeout  time.Duration
	ProjectWorkers int
}

// CacheConfig controls the read-through fetch cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Dir     string
}

// RateConfig controls per-host request rate limiting.
type RateConfig struct {
	PerHost float64
	Burst   int
}

// DefaultConfig returns a Config with sensible defaults and no projects.
func DefaultConfig() *Config {
	cacheDir := ".projstat-cache"
	if dir, err := os.UserCacheDir(); err == nil {
		cacheDir = filepath.Join(dir, "projstat")
	}
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "projstat/0.4 (+https://github.com/ppiankov/projstat)",
			MaxBodyBytes: 2_000_000,
		},
		Fetch: FetchConfig{
			SourceTimeout:  60 * time.Second,
			ProjectWorkers: 8,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
			Dir:     cacheDir,
		},
		Rate: RateConfig{
			PerHost: 5,
			Burst:   5,
		},
		creds: make(map[string]map[string]string),
	}
}

// Credential looks up a nested credential by path, e.g.
// Credential("github", "user"). Missing entries yield "".
func (c *Config) Credential(path ...string) string {
	if len(path) != 2 || c.creds == nil {
		return ""
	}
	return c.creds[path[0]][path[1]]
}

// SetCredential stores a credential, overriding any file-supplied value.
// Used by the CLI layer to inject environment overrides.
func (c *Config) SetCredential(kind, field, value string) {
	if c.creds == nil {
		c.creds = make(map[string]map[string]string)
	}
	if c.creds[kind] == nil {
		c.creds[kind] = make(map[string]string)
	}
	c.creds[kind][field] = value
}

// UnmarshalYAML decodes the config document. Projects are decoded from the
// raw node list so that declared order survives; any other top-level mapping
// of string scalars is treated as a credential block for that source kind.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config: expected mapping at top level")
	}
	if c.creds == nil {
		c.creds = make(map[string]map[string]string)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		switch keyNode.Value {
		case "projects":
			projects, err := decodeProjects(valNode)
			if err != nil {
				return err
			}
			c.Projects = projects
		default:
			if valNode.Kind != yaml.MappingNode {
				continue
			}
			block := make(map[string]string)
			if err := valNode.Decode(&block); err != nil {
				return fmt.Errorf("config: credentials for %q: %w", keyNode.Value, err)
			}
			c.creds[keyNode.Value] = block
		}
	}
	return nil
}

func decodeProjects(node *yaml.Node) ([]Project, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: projects must be a mapping")
	}
	var projects []Project
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		sources := make(map[string]string)
		if err := valNode.Decode(&sources); err != nil {
			return nil, fmt.Errorf("config: project %q: %w", keyNode.Value, err)
		}
		projects = append(projects, Project{Key: keyNode.Value, Sources: sources})
	}
	return projects, nil
}

// LoadConfig reads and decodes the config file at path on top of defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SelectConfig resolves the config file path. An explicit path wins (with ~
// expansion); otherwise the conventional locations are tried in order. When
// nothing is found the error lists every tried path.
func SelectConfig(explicit string) (string, error) {
	if explicit != "" {
		return expandHome(explicit), nil
	}

	home, _ := os.UserHomeDir()
	choices := []string{
		"projects.yml",
		".projects.yml",
		filepath.Join(home, ".config", "projects.yml"),
		filepath.Join(home, ".projects.yml"),
	}
	for _, path := range choices {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no config file available, tried %s", strings.Join(choices, ", "))
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
