// Package config loads the diagramgen configuration file. Configuration
// is immutable after load: the CLI reads it once at startup and flags
// override individual fields from there.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// DefaultFileName is the config file looked up under the user config dir.
const DefaultFileName = "diagramgen.toml"

// Config is the full configuration file.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Compile  CompileConfig  `toml:"compile"`
	Agent    AgentConfig    `toml:"agent"`
	Demos    []Demo         `toml:"demo"`
}

// ProviderConfig selects the LLM backend. API keys come from the
// environment, never from the file.
type ProviderConfig struct {
	Name      string `toml:"name"`       // "anthropic" or "openai"; empty auto-detects
	Model     string `toml:"model"`      // backend default when empty
	BaseURL   string `toml:"base_url"`   // for OpenAI-compatible local endpoints
	MaxTokens int    `toml:"max_tokens"` // completion token cap
}

// CompileConfig carries default diagram options.
type CompileConfig struct {
	Style        string  `toml:"style"`
	Width        float64 `toml:"width"`
	NodeSpacing  float64 `toml:"node_spacing"`
	LayerSpacing float64 `toml:"layer_spacing"`
	FontSize     float64 `toml:"font_size"`
	FontFamily   string  `toml:"font_family"`
}

// AgentConfig bounds agent runs.
type AgentConfig struct {
	MaxSteps int `toml:"max_steps"`
}

// Demo is one entry in the demo gallery.
type Demo struct {
	Name        string `toml:"name"`
	Style       string `toml:"style"`
	Description string `toml:"description"`
	Purpose     string `toml:"purpose"`
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Demos: builtinDemos,
	}
}

// Load reads the config file at path. An empty path falls back to the
// user config dir; a missing file yields the built-in defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, "diagramgen", DefaultFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Compile.Style != "" {
		if _, err := diagram.ParseStyle(c.Compile.Style); err != nil {
			return err
		}
	}
	for _, d := range c.Demos {
		if _, err := diagram.ParseStyle(d.Style); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "demo %q", d.Name)
		}
	}
	if c.Agent.MaxSteps < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "agent.max_steps must not be negative")
	}
	return nil
}

// DiagramOptions maps the compile section to compiler options. Unset
// fields stay zero so the compiler applies its own defaults.
func (c *Config) DiagramOptions() diagram.Options {
	return diagram.Options{
		Style:        diagram.Style(c.Compile.Style),
		Width:        c.Compile.Width,
		NodeSpacing:  c.Compile.NodeSpacing,
		LayerSpacing: c.Compile.LayerSpacing,
		FontSize:     c.Compile.FontSize,
		FontFamily:   c.Compile.FontFamily,
	}
}
