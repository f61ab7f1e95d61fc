package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/internal/config"
	"github.com/HomenShum/paper-diagram-gen/pkg/buildinfo"
)

// Execute runs the diagramgen CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (compile,
// suggest, agent, demo, mcp, cache), loads the configuration file, and
// configures logging based on the --verbose flag.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger and config are attached to the context and accessible to all
// commands via loggerFromContext and configFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "diagramgen compiles compact notation into paper-ready diagrams",
		Long:         `diagramgen is a CLI tool for turning a compact textual notation ("Input -> Encoder[CNN,RNN] -> Output") into SVG diagrams, with LLM-backed suggestion and agent workflows for explaining papers and systems visually.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: user config dir)")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newAgentCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// configKey is the context key for the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context with the config attached.
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the config from ctx, falling back to the
// built-in defaults.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
