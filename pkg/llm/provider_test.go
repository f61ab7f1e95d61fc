package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

func TestNewDetectsProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		anthropic string
		openai    string
		want      string
		wantErr   bool
	}{
		{name: "explicit anthropic", cfg: Config{Provider: "anthropic"}, want: "anthropic"},
		{name: "explicit openai", cfg: Config{Provider: "openai"}, want: "openai"},
		{name: "anthropic key wins", anthropic: "sk-a", openai: "sk-o", want: "anthropic"},
		{name: "openai key", openai: "sk-o", want: "openai"},
		{name: "base url implies openai wire format", cfg: Config{BaseURL: "http://localhost:1234"}, want: "openai"},
		{name: "nothing configured", wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "cohere"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", tt.anthropic)
			t.Setenv("OPENAI_API_KEY", tt.openai)

			p, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.IsCode(err, errors.ErrCodeProviderMissing) {
					t.Errorf("code = %v, want PROVIDER_MISSING", errors.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.want)
			}
		})
	}
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}

		var body struct {
			Model    string    `json:"model"`
			System   string    `json:"system"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.System != "you are terse" {
			t.Errorf("system = %q", body.System)
		}
		if len(body.Messages) != 1 || body.Messages[0].Role != RoleUser {
			t.Errorf("messages = %+v", body.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "three diagrams"}},
		})
	}))
	defer srv.Close()

	p := newAnthropic(Config{APIKey: "sk-test", BaseURL: srv.URL, client: srv.Client()})
	got, err := p.Complete(context.Background(), "you are terse", []Message{{Role: RoleUser, Content: "suggest"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "three diagrams" {
		t.Errorf("Complete = %q", got)
	}
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}

		var body struct {
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("system prompt should lead the message list, got %+v", body.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	p := newOpenAI(Config{APIKey: "sk-test", BaseURL: srv.URL, client: srv.Client()})
	got, err := p.Complete(context.Background(), "sys", []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" {
		t.Errorf("Complete = %q", got)
	}
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "recovered"}},
		})
	}))
	defer srv.Close()

	p := newAnthropic(Config{APIKey: "sk-test", BaseURL: srv.URL, client: srv.Client()})
	got, err := p.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "recovered" {
		t.Errorf("Complete = %q", got)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newOpenAI(Config{APIKey: "bad", BaseURL: srv.URL, client: srv.Client()})
	_, err := p.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.IsCode(err, errors.ErrCodeProviderRequest) {
		t.Errorf("code = %v, want PROVIDER_REQUEST", errors.CodeOf(err))
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer srv.Close()

	p := newAnthropic(Config{APIKey: "sk-test", BaseURL: srv.URL, client: srv.Client()})
	_, err := p.Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	if !errors.IsCode(err, errors.ErrCodeProviderResponse) {
		t.Errorf("code = %v, want PROVIDER_RESPONSE", errors.CodeOf(err))
	}
}
