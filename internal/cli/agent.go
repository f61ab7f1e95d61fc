package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/pkg/agent"
	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// agentOpts holds the command-line flags for the agent command.
type agentOpts struct {
	maxSteps int    // step budget for the run
	outDir   string // directory for diagrams compiled during the run
	showWork bool   // print each thought/action/observation step
}

// newAgentCmd creates the agent command, which runs the multi-step
// reasoning loop with the diagram compiler available as a tool.
func newAgentCmd() *cobra.Command {
	var opts agentOpts

	cmd := &cobra.Command{
		Use:   "agent <task>",
		Short: "Run the multi-step diagram agent on a task",
		Long: `Agent runs a reasoning loop against the configured LLM provider. The model
plans diagrams for the task and compiles them through the generate_diagram
tool; every compiled diagram is written to --output-dir.

The loop stops when the model gives a final answer or the step budget
runs out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "step budget for the run (default: config, then 8)")
	cmd.Flags().StringVarP(&opts.outDir, "output-dir", "o", "diagrams", "directory for compiled diagrams")
	cmd.Flags().BoolVar(&opts.showWork, "show-work", false, "print each thought, action, and observation")

	return cmd
}

func runAgent(ctx context.Context, task string, opts *agentOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}

	maxSteps := opts.maxSteps
	if maxSteps == 0 {
		maxSteps = cfg.Agent.MaxSteps
	}

	var written []string
	sink := func(req agent.DiagramRequest, res diagram.Result) {
		name := slugify(req.Description)
		if len(name) > 48 {
			name = name[:48]
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("%02d_%s.svg", len(written)+1, name))
		if wErr := os.WriteFile(path, []byte(res.SVG), 0o644); wErr != nil {
			logger.Warn("failed to write diagram", "path", path, "err", wErr)
			return
		}
		written = append(written, path)
	}

	a := agent.New(provider,
		agent.WithTool(agent.NewDiagramTool(sink)),
		agent.WithMaxSteps(maxSteps),
		agent.WithLogger(logger),
	)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running agent on %s...", provider.Name()))
	spinner.Start()
	prog := newProgress(logger)

	result, err := a.Run(ctx, task)
	spinner.Stop()

	if err != nil && !errors.IsCode(err, errors.ErrCodeBudgetExhausted) {
		return err
	}
	exhausted := err != nil

	prog.done(fmt.Sprintf("Agent finished in %d steps", result.TotalSteps))
	logger.Debug("run", "id", result.RunID, "state", result.State)

	if opts.showWork {
		printSteps(result.Steps)
	}

	if exhausted {
		printWarning("step budget exhausted before a final answer")
	} else {
		printInfo("Final answer")
		printDetail("%s", result.FinalAnswer)
	}

	if len(written) > 0 {
		fmt.Println()
		printSuccess("Wrote %d diagram(s)", len(written))
		for _, path := range written {
			printFile(path)
		}
	}
	return nil
}

// printSteps renders the run transcript.
func printSteps(steps []agent.Step) {
	for i, step := range steps {
		fmt.Println()
		printInfo("Step %d", i+1)
		if step.Thought != "" {
			printKeyValue("thought", step.Thought)
		}
		if step.Action != "" {
			printKeyValue("action", step.Action)
			printKeyValue("input", step.ActionInput)
			printKeyValue("observed", step.Observation)
		}
	}
	fmt.Println()
}
