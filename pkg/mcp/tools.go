package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HomenShum/paper-diagram-gen/pkg/cache"
	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
	"github.com/HomenShum/paper-diagram-gen/pkg/suggest"
)

// generateResponse is the diagram.generate tool payload.
type generateResponse struct {
	SVG       string `json:"svg"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
	Style     string `json:"style"`
}

// handleGenerate compiles notation into an SVG document.
func (s *Server) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("description is required"), nil
	}
	if vErr := errors.ValidateDescription(description); vErr != nil {
		return mcp.NewToolResultError(vErr.Error()), nil
	}

	style, sErr := diagram.ParseStyle(req.GetString("type", ""))
	if sErr != nil {
		return mcp.NewToolResultError(sErr.Error()), nil
	}
	opts := diagram.Options{Style: style}
	if width := req.GetFloat("width", 0); width > 0 {
		opts.Width = width
	}

	res, err := diagram.Compile(description, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compile failed: %v", err)), nil
	}

	s.logger.Debug("compiled diagram", "nodes", res.NodeCount(), "edges", res.EdgeCount())
	return marshalResult(generateResponse{
		SVG:       res.SVG,
		NodeCount: res.NodeCount(),
		EdgeCount: res.EdgeCount(),
		Style:     string(opts.Style),
	})
}

// handleSuggest asks the configured provider for diagram suggestions.
func (s *Server) handleSuggest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("topic is required"), nil
	}
	if s.provider == nil {
		return mcp.NewToolResultError("no LLM provider configured (set ANTHROPIC_API_KEY or OPENAI_API_KEY)"), nil
	}

	key := cache.SuggestionKey(s.provider.Name(), s.provider.Model(), topic)
	if data, ok, _ := s.cache.Get(ctx, key); ok {
		var cached []suggest.Suggestion
		if json.Unmarshal(data, &cached) == nil {
			s.logger.Debug("suggestion cache hit", "topic", topic)
			return marshalResult(cached)
		}
	}

	completion, err := s.provider.Complete(ctx, suggest.SystemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: suggest.BuildPrompt(topic)},
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suggestion request failed: %v", err)), nil
	}

	suggestions, err := suggest.Parse(completion)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if data, mErr := json.Marshal(suggestions); mErr == nil {
		if cErr := s.cache.Set(ctx, key, data, cache.DefaultTTL); cErr != nil {
			s.logger.Warn("failed to cache suggestions", "err", cErr)
		}
	}
	return marshalResult(suggestions)
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultJSON(json.RawMessage(data))
}
