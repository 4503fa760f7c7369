// Package config provides hierarchical configuration management for
// relog using koanf. Configuration is loaded with priority:
// environment variables > project config (.relog.yml) > user config
// (~/.config/relog/config.yml) > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/relog-cli/relog/internal/changelog"
)

// Configuration represents the relog CLI tool configuration.
type Configuration struct {
	// Document is the default changelog document path used when a
	// command receives no path argument.
	Document string `koanf:"document"`

	// RepoURL enables version comparison links in rendered markdown
	// and is also used by verify-tags messaging.
	RepoURL string `koanf:"repo_url"`

	// Tags controls the recognized tag set used by validation.
	Tags TagsConfig `koanf:"tags"`

	// Tickets configures ticket link rendering.
	Tickets TicketsConfig `koanf:"tickets"`

	// Refs configures cross-reference link rendering.
	Refs RefsConfig `koanf:"refs"`

	// Render holds output formatting preferences.
	Render RenderConfig `koanf:"render"`
}

// TagsConfig controls which tags the validator accepts.
type TagsConfig struct {
	// Recognized replaces the built-in tag set entirely when set.
	Recognized []string `koanf:"recognized"`
	// Extra extends the built-in tag set.
	Extra []string `koanf:"extra"`
}

// TicketsConfig configures ticket reference rendering. The template's
// "{ticket}" placeholder is replaced with the ticket ID.
type TicketsConfig struct {
	URLTemplate string `koanf:"url_template"`
}

// RefsConfig configures cross-reference rendering. The template's
// "{ref}" placeholder is replaced with the label.
type RefsConfig struct {
	URLTemplate string `koanf:"url_template"`
}

// RenderConfig holds output formatting preferences.
type RenderConfig struct {
	// Width caps terminal output width (0 = auto-detect).
	Width int `koanf:"width"`
	// Plain disables colors in terminal output.
	Plain bool `koanf:"plain"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path
	// (default: .relog.yml).
	ProjectConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads the project-level YAML config when present.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		path = customPath
	}
	if !fileExists(path) {
		if customPath != "" {
			return fmt.Errorf("project config %s does not exist", customPath)
		}
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading project config %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("RELOG_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("loading environment config: %w", err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// A double underscore separates nesting levels:
// RELOG_TICKETS__URL_TEMPLATE -> tickets.url_template
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "RELOG_")), "__", ".")
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateConfigValues(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ValidateConfigValues checks merged configuration values for sanity.
func ValidateConfigValues(cfg *Configuration) error {
	if cfg.Render.Width < 0 {
		return fmt.Errorf("render.width must not be negative, got %d", cfg.Render.Width)
	}
	if cfg.Tickets.URLTemplate != "" && !strings.Contains(cfg.Tickets.URLTemplate, "{ticket}") {
		return fmt.Errorf("tickets.url_template must contain the {ticket} placeholder")
	}
	if cfg.Refs.URLTemplate != "" && !strings.Contains(cfg.Refs.URLTemplate, "{ref}") {
		return fmt.Errorf("refs.url_template must contain the {ref} placeholder")
	}
	return nil
}

// RecognizedTags resolves the tag set validation should accept.
// Returns nil to signal the built-in default set.
func (c *Configuration) RecognizedTags() []string {
	if len(c.Tags.Recognized) > 0 {
		return c.Tags.Recognized
	}
	if len(c.Tags.Extra) > 0 {
		return append(changelog.DefaultTags(), c.Tags.Extra...)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
