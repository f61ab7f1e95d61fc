// Package suggest turns raw LLM completions into validated diagram
// suggestions. Models are asked for a JSON array but routinely wrap it
// in markdown fences, prepend commentary, or leave trailing commas, so
// parsing is deliberately forgiving about the envelope while staying
// strict about the entries themselves.
package suggest

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// Suggestion is one diagram proposal extracted from a completion.
type Suggestion struct {
	Type        diagram.Style `json:"type"`
	Description string        `json:"description"`
	Purpose     string        `json:"purpose"`
}

// rawSuggestion holds an entry before validation; Type stays a plain
// string so one bad entry cannot fail the whole unmarshal.
type rawSuggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Purpose     string `json:"purpose"`
}

// trailingCommaRe matches a comma followed only by whitespace and a
// closing bracket or brace.
var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// Parse extracts the first JSON array from raw and returns the entries
// that survive validation. Markdown code fences and trailing commas are
// tolerated. It fails when no array can be recovered or when every
// entry is rejected.
func Parse(raw string) ([]Suggestion, error) {
	text := stripFences(raw)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, errors.New(errors.ErrCodeInvalidSuggestion,
			"no JSON array found in model response: %s", snippet(raw))
	}
	text = trailingCommaRe.ReplaceAllString(text[start:end+1], "$1")

	var entries []rawSuggestion
	if err := json.Unmarshal([]byte(text), &entries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSuggestion, err,
			"model response is not a valid suggestion list")
	}
	if len(entries) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSuggestion, "model returned an empty suggestion list")
	}

	var (
		valid   []Suggestion
		rejects []string
	)
	for i, e := range entries {
		s, err := validate(e)
		if err != nil {
			rejects = append(rejects, fmt.Sprintf("entry %d: %v", i+1, err))
			continue
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSuggestion,
			"all %d suggestions were rejected: %s", len(entries), strings.Join(rejects, "; "))
	}
	return valid, nil
}

// validate maps a raw entry to a Suggestion or a rejection reason.
func validate(e rawSuggestion) (Suggestion, error) {
	style, err := diagram.ParseStyle(e.Type)
	if err != nil {
		return Suggestion{}, err
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		return Suggestion{}, errors.New(errors.ErrCodeInvalidSuggestion, "empty description")
	}
	if err := errors.ValidateDescription(desc); err != nil {
		return Suggestion{}, err
	}
	return Suggestion{
		Type:        style,
		Description: desc,
		Purpose:     strings.TrimSpace(e.Purpose),
	}, nil
}

// stripFences removes markdown code fences, keeping the fenced body.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	if s == "" {
		return "(empty response)"
	}
	return s
}
