package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/internal/config"
	"github.com/HomenShum/paper-diagram-gen/pkg/cache"
	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
	"github.com/HomenShum/paper-diagram-gen/pkg/suggest"
)

// suggestOpts holds the command-line flags for the suggest command.
type suggestOpts struct {
	refresh bool   // bypass the suggestion cache
	outDir  string // compile each suggestion into this directory
}

// newSuggestCmd creates the suggest command, which asks the configured
// LLM provider for diagram notations explaining a topic.
func newSuggestCmd() *cobra.Command {
	var opts suggestOpts

	cmd := &cobra.Command{
		Use:   "suggest <topic>",
		Short: "Generate diagram suggestions for a topic",
		Long: `Suggest asks the configured LLM provider for diagram notations that explain
a paper, method, or system. Responses are cached for a day; use --refresh
to bypass the cache. With --output-dir each suggestion is compiled to SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the suggestion cache")
	cmd.Flags().StringVarP(&opts.outDir, "output-dir", "o", "", "compile each suggestion to SVG in this directory")

	return cmd
}

// newProvider builds the LLM provider from config, with environment
// variables filling the gaps.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	return llm.New(llm.Config{
		Provider:  cfg.Provider.Name,
		Model:     cfg.Provider.Model,
		BaseURL:   cfg.Provider.BaseURL,
		MaxTokens: cfg.Provider.MaxTokens,
	})
}

func runSuggest(ctx context.Context, topic string, opts *suggestOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	logger.Debug("using provider", "name", provider.Name(), "model", provider.Model())

	store := newCache(opts.refresh)
	defer store.Close()

	suggestions, cached, err := fetchSuggestions(ctx, provider, store, topic)
	if err != nil {
		return err
	}

	printInfo("Suggestions for %s", StyleHighlight.Render(topic))
	for i, s := range suggestions {
		fmt.Println()
		printKeyValue(fmt.Sprintf("%d. %s", i+1, s.Type), s.Description)
		if s.Purpose != "" {
			printDetail("%s", s.Purpose)
		}
	}
	fmt.Println()
	printStats(len(suggestions), 0, cached)

	if opts.outDir != "" {
		return compileSuggestions(ctx, suggestions, cfg, opts.outDir)
	}
	printNextStep("Compile one", fmt.Sprintf("%s compile \"<description>\" --style <type>", appName))
	return nil
}

// fetchSuggestions returns cached suggestions when available, otherwise
// asks the provider and caches the parsed result.
func fetchSuggestions(ctx context.Context, provider llm.Provider, store cache.Cache, topic string) ([]suggest.Suggestion, bool, error) {
	logger := loggerFromContext(ctx)
	key := cache.SuggestionKey(provider.Name(), provider.Model(), topic)

	if data, ok, _ := store.Get(ctx, key); ok {
		var cached []suggest.Suggestion
		if err := json.Unmarshal(data, &cached); err == nil {
			logger.Debug("suggestion cache hit")
			return cached, true, nil
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Asking %s for suggestions...", provider.Name()))
	spinner.Start()

	completion, err := provider.Complete(ctx, suggest.SystemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: suggest.BuildPrompt(topic)},
	})
	spinner.Stop()
	if err != nil {
		return nil, false, err
	}

	suggestions, err := suggest.Parse(completion)
	if err != nil {
		return nil, false, err
	}

	if data, mErr := json.Marshal(suggestions); mErr == nil {
		if cErr := store.Set(ctx, key, data, cache.DefaultTTL); cErr != nil {
			logger.Warn("failed to cache suggestions", "err", cErr)
		}
	}
	return suggestions, false, nil
}

// compileSuggestions compiles each suggestion to an SVG file in dir.
func compileSuggestions(ctx context.Context, suggestions []suggest.Suggestion, cfg *config.Config, dir string) error {
	logger := loggerFromContext(ctx)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for i, s := range suggestions {
		opts := cfg.DiagramOptions()
		opts.Style = s.Type

		res, err := diagram.Compile(s.Description, opts)
		if err != nil {
			printWarning("suggestion %d failed to compile: %v", i+1, err)
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("diagram_%d_%s.svg", i+1, s.Type))
		if err := os.WriteFile(path, []byte(res.SVG), 0o644); err != nil {
			return err
		}
		logger.Debug("wrote suggestion", "path", path, "nodes", res.NodeCount())
		printFile(path)
	}
	return nil
}

// slugify is used for demo and agent output file names.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
