package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/config"
	lazorio "github.com/lazorkit/lazor/pkg/io"
	"github.com/lazorkit/lazor/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	pick       bool   // pick a single board interactively
	outputDir  string // directory for per-board run records
	convention string // collision detection rule: "wall" or "center"
	timeLimit  int    // search budget in seconds per board
	parallel   bool   // run the multi-seed explorer
	noCache    bool   // disable the result cache
	refresh    bool   // bypass cache reads
}

// runCommand creates the run command for solving a directory of boards.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{}

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Solve every board in a directory",
		Long: `Solve every board in a directory.

The run command finds all .bff files under the given directory, solves each
one, and prints a summary table. With --pick, an interactive list lets you
choose a single board to solve instead.

Run records (JSON) are written next to the summary when --output-dir is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick one board interactively")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "write run records (JSON) to this directory")
	cmd.Flags().StringVar(&opts.convention, "convention", "", "collision rule: wall (default), center")
	cmd.Flags().IntVar(&opts.timeLimit, "time-limit", 0, "search budget in seconds per board (default from config)")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "explore multiple seeds concurrently")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached results exist")

	return cmd
}

// batchResult is the outcome of one board in a batch run.
type batchResult struct {
	path    string
	solved  bool
	hits    int
	targets int
	elapsed time.Duration
	cached  bool
	err     error
}

// runBatch discovers the boards and either picks one interactively or
// solves them all.
func (c *CLI) runBatch(ctx context.Context, dir string, opts *runOpts) error {
	boards, err := discoverBoards(dir)
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		printWarning("No .bff boards found in %s", dir)
		return nil
	}

	if opts.pick {
		return c.runPick(ctx, boards, opts)
	}
	return c.runAll(ctx, boards, opts)
}

// runPick shows the interactive board list and solves the selection.
func (c *CLI) runPick(ctx context.Context, boards []boardEntry, opts *runOpts) error {
	model := NewBoardListModel(boards)
	prog := tea.NewProgram(model, tea.WithContext(ctx))

	final, err := prog.Run()
	if err != nil {
		return fmt.Errorf("board picker: %w", err)
	}

	m, ok := final.(BoardListModel)
	if !ok || m.Selected == nil {
		printInfo("No board selected")
		return nil
	}

	return c.runSolve(ctx, m.Selected.Entry.Path, &solveOpts{
		formats:    []string{pipeline.FormatText},
		convention: opts.convention,
		timeLimit:  opts.timeLimit,
		parallel:   opts.parallel,
		noCache:    opts.noCache,
		refresh:    opts.refresh,
	})
}

// runAll solves every board sequentially and prints the summary table.
func (c *CLI) runAll(ctx context.Context, boards []boardEntry, opts *runOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	prog := newProgress(c.Logger)
	results := make([]batchResult, 0, len(boards))
	solved := 0

	for _, entry := range boards {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		printInline("solving %s...", filepath.Base(entry.Path))
		res := c.solveOne(ctx, runner, cfg, entry, opts)
		printNewline()
		if res.solved {
			solved++
		}
		results = append(results, res)
	}

	prog.done(fmt.Sprintf("Solved %d of %d boards", solved, len(boards)))
	printNewline()
	fmt.Println(summaryTable(results))

	if solved < len(results) {
		printWarning("%d boards unsolved or failed", len(results)-solved)
	}
	return nil
}

// solveOne runs the pipeline for a single batch entry.
func (c *CLI) solveOne(ctx context.Context, runner *pipeline.Runner, cfg config.Config, entry boardEntry, opts *runOpts) batchResult {
	res := batchResult{path: entry.Path}
	if entry.Err != nil {
		res.err = entry.Err
		return res
	}

	popts := solverOptions(cfg)
	popts.Board = entry.Board
	popts.Refresh = opts.refresh
	popts.Formats = []string{pipeline.FormatJSON}
	popts.Logger = c.Logger
	if opts.convention != "" {
		popts.Convention = opts.convention
	}
	if opts.parallel {
		popts.Parallel = true
	}
	if opts.timeLimit > 0 {
		popts.TimeLimit = time.Duration(opts.timeLimit) * time.Second
	}

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		res.err = err
		return res
	}

	sol := result.Solution
	res.solved = sol.Solved
	res.hits = sol.HitCount
	res.targets = len(result.Board.Targets)
	res.elapsed = sol.Elapsed
	res.cached = result.CacheInfo.SolutionHit

	if opts.outputDir != "" {
		name := strings.TrimSuffix(filepath.Base(entry.Path), filepath.Ext(entry.Path)) + ".json"
		rec := lazorio.NewRecord(result.Board, sol)
		if err := lazorio.ExportJSON(rec, filepath.Join(opts.outputDir, name)); err != nil {
			res.err = err
		}
	}
	return res
}

// summaryTable renders the batch results as a lipgloss table.
func summaryTable(results []batchResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := StyleSuccess.Render(iconSuccess)
		detail := fmt.Sprintf("%d/%d", r.hits, r.targets)
		elapsed := r.elapsed.Round(time.Millisecond).String()

		switch {
		case r.err != nil:
			status = styleIconError.Render(iconError)
			detail = r.err.Error()
			elapsed = "—"
		case !r.solved:
			status = styleIconWarning.Render(iconWarning)
		}

		source := iconFresh
		if r.cached {
			source = iconCached
		}
		rows = append(rows, []string{status, filepath.Base(r.path), detail, elapsed, source})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Board", "Targets", "Time", "Source").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// discoverBoards finds and parses every .bff file under dir, sorted by name.
// Parse failures are kept as entries so the picker and summary can show them.
func discoverBoards(dir string) ([]boardEntry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.bff"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	entries := make([]boardEntry, 0, len(matches))
	for _, path := range matches {
		b, err := board.ParseBFFFile(path)
		entries = append(entries, boardEntry{Path: path, Board: b, Err: err})
	}
	return entries, nil
}
