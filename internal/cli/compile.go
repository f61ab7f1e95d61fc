package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HomenShum/paper-diagram-gen/pkg/diagram"
	"github.com/HomenShum/paper-diagram-gen/pkg/errors"
)

// Output formats for the compile command.
const (
	formatSVG  = "svg"
	formatDOT  = "dot"
	formatPNG  = "png"
	formatJSON = "json"
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatSVG: true, formatDOT: true, formatPNG: true, formatJSON: true}

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	style  string // diagram style: pipeline, architecture, flowchart
	output string // output file path (default: stdout for text formats)
	format string // output format: svg, dot, png, json
	input  string // read notation from a file instead of the argument
	width  float64
}

// compileResult is the JSON payload for --format json.
type compileResult struct {
	SVG   string         `json:"svg"`
	Nodes []diagram.Node `json:"nodes"`
	Edges []diagram.Edge `json:"edges"`
}

// newCompileCmd creates the compile command, the direct path from
// notation to a rendered diagram.
func newCompileCmd() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile [notation]",
		Short: "Compile diagram notation into a rendered diagram",
		Long: `Compile turns notation like "Input -> Encoder[CNN,RNN] -> Converged? -> Yes: Deploy, No: Tune"
into a standalone SVG document. Use --format to emit Graphviz DOT, a PNG
rendered through Graphviz, or the full JSON result with node geometry.

Notation is read from the argument, from --input, or from stdin ("-").`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'png', or 'json')", opts.format)
			}
			notation, err := readNotation(args, opts.input)
			if err != nil {
				return err
			}
			return runCompile(cmd.Context(), notation, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "diagram style: pipeline (default), architecture, flowchart")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout, or <format> derived for png)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg, dot, png, json")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read notation from file ('-' for stdin)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas target width in pixels")

	return cmd
}

// readNotation resolves the notation source: positional argument, input
// file, or stdin.
func readNotation(args []string, input string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	switch input {
	case "":
		return "", errors.New(errors.ErrCodeInvalidDescription,
			"no notation given (pass it as an argument or use --input)")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	default:
		data, err := os.ReadFile(input)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}
}

// runCompile compiles the notation and writes the requested format.
func runCompile(ctx context.Context, notation string, opts *compileOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	if err := errors.ValidateDescription(notation); err != nil {
		return err
	}

	diagOpts := cfg.DiagramOptions()
	if opts.style != "" {
		style, err := diagram.ParseStyle(opts.style)
		if err != nil {
			return err
		}
		diagOpts.Style = style
	}
	if opts.width > 0 {
		diagOpts.Width = opts.width
	}

	prog := newProgress(logger)
	res, err := diagram.Compile(notation, diagOpts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compiled %d nodes, %d edges", res.NodeCount(), res.EdgeCount()))

	data, err := encodeResult(ctx, res, diagOpts, opts.format)
	if err != nil {
		return err
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Wrote %s", opts.format)
		printFile(opts.output)
		printStats(res.NodeCount(), res.EdgeCount(), false)
	}
	return nil
}

// encodeResult serializes a compiled diagram into the requested format.
func encodeResult(ctx context.Context, res diagram.Result, diagOpts diagram.Options, format string) ([]byte, error) {
	switch format {
	case formatSVG:
		return []byte(res.SVG), nil
	case formatDOT:
		return []byte(diagram.ToDOT(res.Nodes, res.Edges, diagOpts)), nil
	case formatPNG:
		dot := diagram.ToDOT(res.Nodes, res.Edges, diagOpts)
		return diagram.RenderDOTPNG(ctx, dot)
	case formatJSON:
		return json.MarshalIndent(compileResult{SVG: res.SVG, Nodes: res.Nodes, Edges: res.Edges}, "", "  ")
	default:
		return nil, fmt.Errorf("invalid format: %s", format)
	}
}

// openOutput opens the output destination, defaulting to stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
