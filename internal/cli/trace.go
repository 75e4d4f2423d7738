package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazorkit/lazor/pkg/board"
	lazorio "github.com/lazorkit/lazor/pkg/io"
	"github.com/lazorkit/lazor/pkg/render"
	"github.com/lazorkit/lazor/pkg/trace"
)

// traceOpts holds the command-line flags for the trace command.
type traceOpts struct {
	output     string // output file path (empty means stdout for text)
	format     string // output format: "text", "dot", "svg"
	convention string // collision detection rule: "wall" or "center"
	detailed   bool   // label beam points in DOT output
	points     bool   // list every lattice point the beams cross
}

// traceCommand creates the trace command for propagating lasers without solving.
func (c *CLI) traceCommand() *cobra.Command {
	opts := traceOpts{}

	cmd := &cobra.Command{
		Use:   "trace [board.bff|run.json]",
		Short: "Trace the lasers across a board and report target coverage",
		Long: `Trace the lasers across a board and report target coverage.

The trace command propagates every laser across the board and reports which
targets the beams reach. A .bff input traces the bare board with fixed
blocks only; a run .json (produced by 'solve -f json') replays the solved
placement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file for dot/svg (default derived from input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, dot, svg")
	cmd.Flags().StringVar(&opts.convention, "convention", "", "collision rule: wall (default), center")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label beam points in DOT output")
	cmd.Flags().BoolVar(&opts.points, "points", false, "list every lattice point the beams cross")

	return cmd
}

// runTrace loads the board (and placement, for run files), traces the
// lasers, and writes the requested output.
func (c *CLI) runTrace(ctx context.Context, input string, opts *traceOpts) error {
	b, placed, err := loadTraceInput(input)
	if err != nil {
		return err
	}

	tr, err := trace.New(trace.Convention(opts.convention))
	if err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	logger.Debug("tracing", "input", input, "convention", tr.Convention(), "placed", len(placed))

	traj := trace.TraceAll(tr, b, placed)
	hits := trace.CountHits(traj, b)

	switch opts.format {
	case "text":
		return c.printTrace(b, placed, traj, hits, opts)
	case "dot":
		dot := render.ToDOT(b, placed, traj, render.DOTOptions{Detailed: opts.detailed})
		return writeArtifact([]byte(dot), "dot", tracePath(opts.output, input, "dot"), false)
	case "svg":
		dot := render.ToDOT(b, placed, traj, render.DOTOptions{Detailed: opts.detailed})
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
		return writeArtifact(svg, "svg", tracePath(opts.output, input, "svg"), false)
	default:
		return fmt.Errorf("unknown format: %s (must be 'text', 'dot', or 'svg')", opts.format)
	}
}

// loadTraceInput reads the board and any recorded placement from input.
// JSON run files carry the placement; .bff boards trace with fixed blocks only.
func loadTraceInput(input string) (*board.Board, board.Placement, error) {
	if strings.EqualFold(filepath.Ext(input), ".json") {
		rec, err := lazorio.ImportJSON(input)
		if err != nil {
			return nil, nil, err
		}
		b, err := rec.BuildBoard()
		if err != nil {
			return nil, nil, err
		}
		placed, err := rec.BuildPlacement(b)
		if err != nil {
			return nil, nil, err
		}
		return b, placed, nil
	}

	b, err := board.ParseBFFFile(input)
	if err != nil {
		return nil, nil, err
	}
	return b, board.Placement{}, nil
}

// printTrace writes the textual coverage report.
func (c *CLI) printTrace(b *board.Board, placed board.Placement, traj *trace.Trajectory, hits int, opts *traceOpts) error {
	printKeyValue("Board", fmt.Sprintf("%dx%d", b.Width, b.Height))
	printKeyValue("Lasers", fmt.Sprintf("%d", len(b.Lasers)))
	if len(placed) > 0 {
		printKeyValue("Placed", fmt.Sprintf("%d blocks", len(placed)))
	}
	printNewline()

	for _, target := range b.Targets {
		if traj.Contains(target) {
			printSuccess("target (%d,%d) hit", target.X, target.Y)
		} else {
			printError("target (%d,%d) missed", target.X, target.Y)
		}
	}
	printNewline()
	printInfo("%d of %d targets hit", hits, len(b.Targets))

	if opts.points {
		printNewline()
		printDetail("beam points:")
		for _, p := range traj.Points() {
			printDetail("(%d,%d)", p.X, p.Y)
		}
	}
	return nil
}

// tracePath resolves the output path for dot/svg trace output.
func tracePath(output, input, format string) string {
	if output != "" {
		return output
	}
	return basePath("", input) + "_trace." + format
}
