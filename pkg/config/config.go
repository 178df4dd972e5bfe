package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultServerURL     = "http://localhost:8000"
	DefaultSkeletonLines = 50
)

// ResearchConstraints bounds the research phase on the backend. The values
// are passed through opaquely; the backend owns their interpretation.
type ResearchConstraints struct {
	MaxPapers      int      `json:"max_papers"`
	AllowedSources []string `json:"allowed_sources"`
}

type Config struct {
	ServerURL           string              `json:"server_url"`
	RequestTimeoutSecs  int                 `json:"request_timeout_secs"`
	SkeletonLines       int                 `json:"skeleton_lines"`
	SourceExtensions    []string            `json:"source_extensions"`
	ExtraIgnorePatterns []string            `json:"extra_ignore_patterns"`
	Research            ResearchConstraints `json:"research_constraints"`
	DryRunDefault       bool                `json:"dry_run_default"`
	SkipPrompt          bool                `json:"-"` // Internal use, not saved to config
}

func getHomeConfigPath() (string, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(home, ".recast")
	return configDir, filepath.Join(configDir, "config.json")
}

func getCurrentConfigPath() (string, string) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(cwd, ".recast")
	return configDir, filepath.Join(configDir, "config.json")
}

// DefaultConfig returns a config populated with working defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:          DefaultServerURL,
		RequestTimeoutSecs: 120,
		SkeletonLines:      DefaultSkeletonLines,
		SourceExtensions: []string{
			".go", ".py", ".js", ".jsx", ".ts", ".tsx", ".java", ".kt",
			".rb", ".rs", ".c", ".h", ".cpp", ".hpp", ".cs", ".php",
			".swift", ".scala", ".sh",
		},
		Research: ResearchConstraints{
			MaxPapers:      3,
			AllowedSources: []string{"arxiv.org", "acm.org"},
		},
		DryRunDefault: true,
	}
}

// LoadOrInitConfig loads the workspace config, falling back to the home
// config, falling back to defaults. A missing config file is not an error.
func LoadOrInitConfig(skipPrompt bool) (*Config, error) {
	cfg := DefaultConfig()

	_, homePath := getHomeConfigPath()
	_, localPath := getCurrentConfigPath()
	for _, path := range []string{homePath, localPath} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if cfg.SkeletonLines <= 0 {
		cfg.SkeletonLines = DefaultSkeletonLines
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	cfg.SkipPrompt = skipPrompt
	return cfg, nil
}

// Save writes the config to the workspace .recast directory.
func (c *Config) Save() error {
	configDir, configPath := getCurrentConfigPath()
	if configPath == "" {
		return fmt.Errorf("could not determine config path")
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}
