// Package llm provides the outbound LLM provider abstraction used to
// generate free-text diagram suggestions.
//
// Two wire formats are supported: the Anthropic messages API and
// OpenAI-compatible chat completions (which also covers local
// LMStudio-style endpoints via a custom base URL). Providers return the
// raw completion text; parsing it into structured suggestions is the
// suggest package's job.
package llm

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider performs a chat completion against an LLM backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Name identifies the backend (e.g. "anthropic", "openai").
	Name() string

	// Model returns the model identifier requests are sent with.
	Model() string

	// Complete sends the system prompt and messages and returns the raw
	// completion text. Cancellation and timeouts come from ctx.
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// Config selects and configures a provider. Zero-value fields fall back
// to provider defaults; APIKey falls back to the conventional environment
// variable for the chosen backend.
type Config struct {
	Provider  string // "anthropic", "openai", or "" to auto-detect
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	client    *http.Client
}

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

const defaultRequestTimeout = 120 * time.Second

// New creates a provider from cfg. With an empty cfg.Provider the backend
// is detected from the environment: ANTHROPIC_API_KEY wins, then
// OPENAI_API_KEY. A configured BaseURL without a key still selects the
// OpenAI wire format, which covers keyless local endpoints.
func New(cfg Config) (Provider, error) {
	name := cfg.Provider
	if name == "" {
		switch {
		case os.Getenv("ANTHROPIC_API_KEY") != "":
			name = ProviderAnthropic
		case os.Getenv("OPENAI_API_KEY") != "":
			name = ProviderOpenAI
		case cfg.BaseURL != "":
			name = ProviderOpenAI
		default:
			return nil, errors.New(errors.ErrCodeProviderMissing,
				"no LLM provider configured (set ANTHROPIC_API_KEY or OPENAI_API_KEY, or configure one in the config file)")
		}
	}

	switch name {
	case ProviderAnthropic:
		return newAnthropic(cfg), nil
	case ProviderOpenAI:
		return newOpenAI(cfg), nil
	default:
		return nil, errors.New(errors.ErrCodeProviderMissing,
			"unknown provider: %q (must be anthropic or openai)", name)
	}
}

func (c Config) httpClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	return &http.Client{Timeout: defaultRequestTimeout}
}
