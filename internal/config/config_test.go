package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
[provider]
name = "openai"
model = "gpt-4o-mini"
base_url = "http://localhost:1234"
max_tokens = 2048

[compile]
style = "architecture"
width = 1024.0
font_size = 16.0

[agent]
max_steps = 5

[[demo]]
name = "custom"
style = "pipeline"
description = "A -> B"
purpose = "p"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider.Name != "openai" || cfg.Provider.Model != "gpt-4o-mini" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.MaxTokens != 2048 {
		t.Errorf("max_tokens = %d", cfg.Provider.MaxTokens)
	}
	if cfg.Agent.MaxSteps != 5 {
		t.Errorf("max_steps = %d", cfg.Agent.MaxSteps)
	}
	if len(cfg.Demos) != 1 || cfg.Demos[0].Name != "custom" {
		t.Errorf("demos = %+v", cfg.Demos)
	}

	opts := cfg.DiagramOptions()
	if opts.Style != diagram.StyleArchitecture {
		t.Errorf("style = %q", opts.Style)
	}
	if opts.Width != 1024 || opts.FontSize != 16 {
		t.Errorf("opts = %+v", opts)
	}
	// Unset fields stay zero for the compiler to default.
	if opts.NodeSpacing != 0 {
		t.Errorf("node_spacing = %v, want 0", opts.NodeSpacing)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Demos) == 0 {
		t.Error("expected built-in demos")
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("expected error for explicit missing path")
	}
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("code = %v", errors.CodeOf(err))
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: "[provider\nname = "},
		{name: "bad compile style", content: "[compile]\nstyle = \"mindmap\""},
		{name: "bad demo style", content: "[[demo]]\nname = \"d\"\nstyle = \"gantt\"\ndescription = \"A\""},
		{name: "negative max steps", content: "[agent]\nmax_steps = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestBuiltinDemosCompile(t *testing.T) {
	for _, d := range Default().Demos {
		style, err := diagram.ParseStyle(d.Style)
		if err != nil {
			t.Errorf("demo %q: %v", d.Name, err)
			continue
		}
		res, err := diagram.Compile(d.Description, diagram.Options{Style: style})
		if err != nil {
			t.Errorf("demo %q: compile: %v", d.Name, err)
			continue
		}
		if res.NodeCount() == 0 {
			t.Errorf("demo %q produced no nodes", d.Name)
		}
	}
}
