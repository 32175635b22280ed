package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the release configuration.
type Config struct {
	Remote        string                  `yaml:"remote"`
	ChangelogFile string                  `yaml:"changelog_file"`
	ReadmeFile    string                  `yaml:"readme_file"`
	ReadmeEntries int                     `yaml:"readme_entries"`
	Plugins       map[string]PluginConfig `yaml:"plugins"`
	Provider      ProviderConfig          `yaml:"provider"`
	VCS           VCSConfig               `yaml:"vcs"`
	Build         BuildConfig             `yaml:"build"`
	Logging       LoggingConfig           `yaml:"logging"`
}

// PluginConfig holds the static metadata of one releasable plugin.
type PluginConfig struct {
	File     string `yaml:"file"`
	Constant string `yaml:"constant"`
	Repo     string `yaml:"repo"`
}

// ProviderConfig selects the code-hosting backend.
type ProviderConfig struct {
	Name    string `yaml:"name"` // gh, github, gitlab
	BaseURL string `yaml:"base_url"`
}

// VCSConfig selects the version-control backend.
type VCSConfig struct {
	Backend string `yaml:"backend"` // git, go-git
}

// BuildConfig holds archive build settings.
type BuildConfig struct {
	Command string `yaml:"command"`
	Image   string `yaml:"image"` // run the command in this container image when set
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	TranscriptDir string `yaml:"transcript_dir"`
	RetentionDays int    `yaml:"retention_days"`
}

// Provider names.
const (
	ProviderGH     = "gh"
	ProviderGitHub = "github"
	ProviderGitLab = "gitlab"
)

// VCS backends.
const (
	BackendGit   = "git"
	BackendGoGit = "go-git"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Remote:        "origin",
		ChangelogFile: "changelog.txt",
		ReadmeFile:    "readme.txt",
		ReadmeEntries: 5,
		Plugins: map[string]PluginConfig{
			"wp-job-manager": {
				File:     "wp-job-manager.php",
				Constant: "JOB_MANAGER_VERSION",
				Repo:     "yscik/wp-job-manager",
			},
		},
		Provider: ProviderConfig{Name: ProviderGH},
		VCS:      VCSConfig{Backend: BackendGit},
		Build:    BuildConfig{Command: "npm run build"},
		Logging:  LoggingConfig{Level: "info", RetentionDays: 30},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	// A config that lists plugins replaces the built-in table instead of merging into it.
	var probe struct {
		Plugins map[string]PluginConfig `yaml:"plugins"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if len(probe.Plugins) > 0 {
		cfg.Plugins = nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields DefaultConfig.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case ProviderGH, ProviderGitHub, ProviderGitLab:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	switch c.VCS.Backend {
	case BackendGit, BackendGoGit:
	default:
		return fmt.Errorf("unknown vcs backend %q", c.VCS.Backend)
	}
	if c.ReadmeEntries < 1 {
		return fmt.Errorf("readme_entries must be positive, got %d", c.ReadmeEntries)
	}
	for slug, p := range c.Plugins {
		if p.File == "" || p.Repo == "" {
			return fmt.Errorf("plugin %q: file and repo are required", slug)
		}
	}
	return nil
}
