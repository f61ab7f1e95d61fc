package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/internal/config"
	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
)

// demoOpts holds the command-line flags for the demo command.
type demoOpts struct {
	name   string // compile a specific demo by name
	list   bool   // list demos without the interactive picker
	output string // output file path
}

// newDemoCmd creates the demo command for browsing the built-in gallery.
func newDemoCmd() *cobra.Command {
	var opts demoOpts

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Browse and compile the demo gallery",
		Long: `Demo shows the built-in diagram gallery. Without flags it opens an
interactive picker; --name compiles one demo directly and --list prints
the gallery.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "compile the named demo")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list demos without the picker")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <name>.svg)")

	return cmd
}

func runDemo(ctx context.Context, opts *demoOpts) error {
	cfg := configFromContext(ctx)
	demos := cfg.Demos

	if opts.list {
		printInfo("Demo gallery")
		for _, d := range demos {
			fmt.Println()
			printKeyValue(d.Name, fmt.Sprintf("(%s) %s", d.Style, d.Description))
			if d.Purpose != "" {
				printDetail("%s", d.Purpose)
			}
		}
		fmt.Println()
		printNextStep("Compile one", fmt.Sprintf("%s demo --name <name>", appName))
		return nil
	}

	var selected *config.Demo
	if opts.name != "" {
		for i := range demos {
			if demos[i].Name == opts.name {
				selected = &demos[i]
				break
			}
		}
		if selected == nil {
			return fmt.Errorf("unknown demo: %q (use --list to see the gallery)", opts.name)
		}
	} else {
		picked, err := pickDemo(demos)
		if err != nil {
			return err
		}
		if picked == nil {
			return nil // user quit the picker
		}
		selected = picked
	}

	return compileDemo(ctx, selected, opts.output)
}

// pickDemo runs the interactive gallery picker.
func pickDemo(demos []config.Demo) (*config.Demo, error) {
	model := NewDemoListModel(demos)
	program := tea.NewProgram(model)

	final, err := program.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(DemoListModel); ok && m.Selected != nil {
		return m.Selected, nil
	}
	return nil, nil
}

func compileDemo(ctx context.Context, demo *config.Demo, output string) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	style, err := diagram.ParseStyle(demo.Style)
	if err != nil {
		return err
	}
	opts := cfg.DiagramOptions()
	opts.Style = style

	res, err := diagram.Compile(demo.Description, opts)
	if err != nil {
		return err
	}
	logger.Debug("compiled demo", "name", demo.Name, "nodes", res.NodeCount())

	if output == "" {
		output = demo.Name + ".svg"
	}
	if err := os.WriteFile(output, []byte(res.SVG), 0o644); err != nil {
		return err
	}

	printSuccess("Compiled %s", demo.Name)
	printFile(output)
	printStats(res.NodeCount(), res.EdgeCount(), false)
	return nil
}
