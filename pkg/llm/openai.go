package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// OpenAI defaults.
const (
	openaiBaseURL = "https://api.openai.com"
	openaiModel   = "gpt-4o"
)

// openaiProvider talks to any OpenAI-compatible chat completions
// endpoint, including local servers configured through BaseURL.
type openaiProvider struct {
	key       string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func newOpenAI(cfg Config) *openaiProvider {
	p := &openaiProvider{
		key:       cfg.APIKey,
		model:     cfg.Model,
		baseURL:   cfg.BaseURL,
		maxTokens: cfg.MaxTokens,
		client:    cfg.httpClient(),
	}
	if p.key == "" {
		p.key = os.Getenv("OPENAI_API_KEY")
	}
	if p.model == "" {
		p.model = openaiModel
	}
	if p.baseURL == "" {
		p.baseURL = openaiBaseURL
	}
	if p.maxTokens == 0 {
		p.maxTokens = defaultMaxTokens
	}
	p.baseURL = strings.TrimSuffix(p.baseURL, "/")
	return p
}

func (p *openaiProvider) Name() string  { return ProviderOpenAI }
func (p *openaiProvider) Model() string { return p.model }

func (p *openaiProvider) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	wire := make([]Message, 0, len(messages)+1)
	if system != "" {
		wire = append(wire, Message{Role: "system", Content: system})
	}
	wire = append(wire, messages...)

	payload, err := json.Marshal(map[string]any{
		"model":      p.model,
		"max_tokens": p.maxTokens,
		"messages":   wire,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal request")
	}

	var text string
	err = withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(errors.ErrCodeProviderRequest, err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")
		if p.key != "" {
			req.Header.Set("Authorization", "Bearer "+p.key)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return retryable(errors.Wrap(errors.ErrCodeProviderRequest, err, "call openai"))
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			apiErr := errors.New(errors.ErrCodeProviderRequest,
				"openai API error %d: %s", resp.StatusCode, truncateBody(respBody))
			if retryStatus(resp.StatusCode) {
				return retryable(apiErr)
			}
			return apiErr
		}

		var result struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return errors.Wrap(errors.ErrCodeProviderResponse, err, "decode openai response")
		}
		if len(result.Choices) == 0 {
			return errors.New(errors.ErrCodeProviderResponse, "openai returned an empty completion")
		}

		text = result.Choices[0].Message.Content
		return nil
	})
	return text, err
}
