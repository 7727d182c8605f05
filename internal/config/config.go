package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the complete varta configuration.
type Config struct {
	API    APIConfig    `yaml:"api"`
	Region RegionConfig `yaml:"region"`
	Tools  ToolsConfig  `yaml:"tools"`
	MCP    MCPConfig    `yaml:"mcp"`
}

// APIConfig selects the LLM backend. Key supports ${VAR} expansion.
type APIConfig struct {
	Key         string `yaml:"key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	ImageModel  string `yaml:"image_model"`
	SearchModel string `yaml:"search_model"`
}

// RegionConfig tunes the Indian-context enhancement layer.
type RegionConfig struct {
	Language string `yaml:"language"`
	City     string `yaml:"city"`
}

// ToolsConfig controls the function-calling dispatch layer.
type ToolsConfig struct {
	// Disabled lists tool names registered but blocked from dispatch.
	Disabled []string `yaml:"disabled"`
	// RateLimits maps tool name to maximum calls per minute.
	RateLimits map[string]int `yaml:"rate_limits"`
	// Confirm lists tools requiring interactive confirmation before dispatch.
	Confirm []string `yaml:"confirm"`
}

// MCPConfig contains external tool server settings.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig defines a single MCP server.
type MCPServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "stdio" (only supported)
	Command   string            `yaml:"command"`
	Args      []string          `yaml:"args"`
	Env       map[string]string `yaml:"env"` // values support ${VAR} expansion
	Disabled  bool              `yaml:"disabled"`
}

// Load reads and parses the YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg.API.Key = ExpandEnv(cfg.API.Key)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config with fallback to default locations.
// Checks: ./varta.yaml, ./configs/varta.yaml, ~/.config/varta/varta.yaml,
// /etc/varta/varta.yaml. No file found returns an empty config, not an error.
func LoadWithDefaults() (*Config, error) {
	locations := []string{
		"./varta.yaml",
		"./configs/varta.yaml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "varta", "varta.yaml"))
	}

	locations = append(locations, "/etc/varta/varta.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return Load(loc)
		}
	}

	return &Config{}, nil
}

// Validate checks config correctness.
func (c *Config) Validate() error {
	for name, perMinute := range c.Tools.RateLimits {
		if perMinute < 0 {
			return fmt.Errorf("tool %s: rate limit cannot be negative", name)
		}
	}

	names := make(map[string]bool)
	for i, server := range c.MCP.Servers {
		if server.Name == "" {
			return fmt.Errorf("mcp server #%d: name cannot be empty", i+1)
		}
		if names[server.Name] {
			return fmt.Errorf("duplicate mcp server name: %s", server.Name)
		}
		names[server.Name] = true

		if err := server.Validate(); err != nil {
			return fmt.Errorf("mcp server %s: %w", server.Name, err)
		}
	}

	return nil
}

// Validate checks a single server config.
func (s *MCPServerConfig) Validate() error {
	if s.Command == "" {
		return fmt.Errorf("command is required")
	}
	if s.Transport != "" && s.Transport != "stdio" {
		return fmt.Errorf("unsupported transport %q (only stdio)", s.Transport)
	}
	return nil
}
