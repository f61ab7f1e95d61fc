package cli

import (
	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/internal/config"
	"github.com/HomenShum/paper-diagram-gen/pkg/llm"
	"github.com/HomenShum/paper-diagram-gen/pkg/mcp"
)

// newMCPCmd creates the mcp command, serving the compiler over stdio.
func newMCPCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the diagram compiler over MCP stdio",
		Long: `MCP starts a Model Context Protocol server on stdin/stdout, exposing
diagram.generate and diagram.suggest as tools. The suggest tool needs an
LLM provider; without one it reports that none is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			// The provider is optional for MCP: diagram.generate works
			// without one.
			provider := optionalProvider(cfg)
			if provider == nil {
				logger.Debug("no LLM provider configured; diagram.suggest will be unavailable")
			}

			store := newCache(refresh)
			defer store.Close()

			srv := mcp.NewServer(mcp.ServerDeps{
				Provider: provider,
				Cache:    store,
				Logger:   logger,
			})
			logger.Info("serving MCP on stdio")
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the suggestion cache")
	return cmd
}

// optionalProvider builds a provider or returns nil when none is
// configured.
func optionalProvider(cfg *config.Config) llm.Provider {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil
	}
	return provider
}
