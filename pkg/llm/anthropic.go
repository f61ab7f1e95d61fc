package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// Anthropic defaults.
const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicModel   = "claude-sonnet-4-20250514"
	anthropicVersion = "2023-06-01"

	defaultMaxTokens = 4096
)

// anthropicProvider talks to the Anthropic messages API.
type anthropicProvider struct {
	key       string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func newAnthropic(cfg Config) *anthropicProvider {
	p := &anthropicProvider{
		key:       cfg.APIKey,
		model:     cfg.Model,
		baseURL:   cfg.BaseURL,
		maxTokens: cfg.MaxTokens,
		client:    cfg.httpClient(),
	}
	if p.key == "" {
		p.key = os.Getenv("ANTHROPIC_API_KEY")
	}
	if p.model == "" {
		p.model = anthropicModel
	}
	if p.baseURL == "" {
		p.baseURL = anthropicBaseURL
	}
	if p.maxTokens == 0 {
		p.maxTokens = defaultMaxTokens
	}
	return p
}

func (p *anthropicProvider) Name() string  { return ProviderAnthropic }
func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	body := map[string]any{
		"model":      p.model,
		"max_tokens": p.maxTokens,
		"messages":   messages,
	}
	if system != "" {
		body["system"] = system
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal request")
	}

	var text string
	err = withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(errors.ErrCodeProviderRequest, err, "build request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.key)
		req.Header.Set("anthropic-version", anthropicVersion)

		resp, err := p.client.Do(req)
		if err != nil {
			return retryable(errors.Wrap(errors.ErrCodeProviderRequest, err, "call anthropic"))
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			apiErr := errors.New(errors.ErrCodeProviderRequest,
				"anthropic API error %d: %s", resp.StatusCode, truncateBody(respBody))
			if retryStatus(resp.StatusCode) {
				return retryable(apiErr)
			}
			return apiErr
		}

		var result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := json.Unmarshal(respBody, &result); err != nil {
			return errors.Wrap(errors.ErrCodeProviderResponse, err, "decode anthropic response")
		}
		if len(result.Content) == 0 {
			return errors.New(errors.ErrCodeProviderResponse, "anthropic returned an empty completion")
		}

		text = result.Content[0].Text
		return nil
	})
	return text, err
}

// truncateBody keeps provider error messages readable when backends
// return large HTML or JSON error pages.
func truncateBody(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return fmt.Sprintf("%s... (%d bytes)", body[:limit], len(body))
	}
	return string(body)
}
