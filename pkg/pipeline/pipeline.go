// Package pipeline provides the core solve pipeline for lazor.
//
// This package implements the complete parse → solve → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a board definition from a .bff file
//  2. Solve: Search for a block placement that covers every target
//  3. Render: Generate output in various formats (text, JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Solve and render results are cached by board content hash, so re-running
// an unchanged board returns instantly.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    BoardPath: "puzzle.bff",
//	    Formats:   []string{"text", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/errors"
	"github.com/lazorkit/lazor/pkg/solve"
	"github.com/lazorkit/lazor/pkg/trace"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Options configures a pipeline run.
type Options struct {
	// BoardPath is a .bff file to parse. Ignored when Board is set.
	BoardPath string

	// Board is a pre-built board, bypassing the parse stage.
	Board *board.Board

	// Convention selects the collision detection rule ("wall" or "center").
	// Defaults to wall.
	Convention string

	// TimeLimit is the solve budget. Defaults to solve.DefaultTimeLimit.
	TimeLimit time.Duration

	// Parallel enables the multi-seed explorer.
	Parallel bool

	// Seeds overrides the seed list. Single-seed searches use Seeds[0].
	Seeds []int64

	// Formats lists the artifacts to render. Defaults to text.
	Formats []string

	// DetailedDOT labels beam points with lattice coordinates.
	DetailedDOT bool

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool

	// Progress, when set, receives solver status updates.
	Progress solve.ProgressFunc

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Board == nil && o.BoardPath == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no board: set BoardPath or Board")
	}
	if o.Convention == "" {
		o.Convention = string(trace.ConventionWall)
	}
	if _, err := trace.New(trace.Convention(o.Convention)); err != nil {
		return err
	}
	if o.TimeLimit <= 0 {
		o.TimeLimit = solve.DefaultTimeLimit
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
		}
	}
	return nil
}

// tracer constructs the tracer selected by the options.
// Options must have been validated first.
func (o *Options) tracer() trace.Tracer {
	tr, _ := trace.New(trace.Convention(o.Convention))
	return tr
}

// Stats records per-stage timings.
type Stats struct {
	ParseTime  time.Duration `json:"parse_time"`
	SolveTime  time.Duration `json:"solve_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	SolutionHit bool `json:"solution_hit"`
	RenderHit   bool `json:"render_hit"`
}

// Result is the outcome of a full pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	Board     *board.Board
	BoardHash string
	Solution  solve.Solution

	// Artifacts maps format name to rendered output.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}
