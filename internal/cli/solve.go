package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazorkit/lazor/pkg/pipeline"
)

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	output     string  // output file path (or base path for multiple formats)
	formats    []string // output formats: "text", "json", "dot", "svg"
	convention string  // collision detection rule: "wall" or "center"
	timeLimit  int     // search budget in seconds
	seed       int64   // search seed (single mode)
	parallel   bool    // run the multi-seed explorer
	detailed   bool    // label beam points in DOT output
	noCache    bool    // disable the result cache
	refresh    bool    // bypass cache reads, recompute and store
}

// solveCommand creates the solve command for searching block placements.
func (c *CLI) solveCommand() *cobra.Command {
	var formatsStr string
	opts := solveOpts{}

	cmd := &cobra.Command{
		Use:   "solve [board.bff]",
		Short: "Solve a board by placing blocks from the stock",
		Long: `Solve a board by placing blocks from the stock.

The solve command reads a .bff board file, searches for a placement of the
stocked blocks whose beams cover every target, and writes the result in the
requested formats. Results are cached locally by board content, so
re-solving an unchanged board returns instantly.

When no exact solution exists within the time budget, the best partial
placement found is reported instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runSolve(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): text (default), json, dot, svg (comma-separated)")
	cmd.Flags().StringVar(&opts.convention, "convention", "", "collision rule: wall (default), center")
	cmd.Flags().IntVar(&opts.timeLimit, "time-limit", 0, "search budget in seconds (default from config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "search seed for the single-seed mode")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "explore multiple seeds concurrently")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label beam points in DOT output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

// runSolve executes the full pipeline for a single board file.
func (c *CLI) runSolve(ctx context.Context, input string, opts *solveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := solverOptions(cfg)
	popts.BoardPath = input
	popts.Formats = opts.formats
	popts.DetailedDOT = opts.detailed
	popts.Refresh = opts.refresh
	popts.Logger = c.Logger
	if opts.convention != "" {
		popts.Convention = opts.convention
	}
	if opts.timeLimit > 0 {
		popts.TimeLimit = time.Duration(opts.timeLimit) * time.Second
	}
	if opts.parallel {
		popts.Parallel = true
	}
	if opts.seed != 0 {
		popts.Parallel = false
		popts.Seeds = []int64{opts.seed}
	}

	prog := newSolveProgress(c.Logger)
	popts.Progress = prog.onProgress

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Solve failed")
		return fmt.Errorf("solve: %w", err)
	}
	spinner.Stop()

	sol := result.Solution
	if sol.Solved {
		printSuccess("Solved %s in %s", input, sol.Elapsed.Round(time.Millisecond))
	} else {
		printWarning("No full solution for %s; best placement hits %d of %d targets",
			input, sol.HitCount, len(result.Board.Targets))
	}
	printStats(sol.HitCount, len(result.Board.Targets), sol.Explored, result.CacheInfo.SolutionHit)

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.formats,
		input:     input,
		output:    opts.output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}

	if sol.Solved && !contains(opts.formats, pipeline.FormatSVG) {
		printNextStep("Render the beam diagram", fmt.Sprintf("lazor solve %s -f svg", input))
	}
	return nil
}

// contains reports whether list holds s.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
