package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/cache"
	lazorio "github.com/lazorkit/lazor/pkg/io"
	"github.com/lazorkit/lazor/pkg/observability"
	"github.com/lazorkit/lazor/pkg/render"
	"github.com/lazorkit/lazor/pkg/solve"
	"github.com/lazorkit/lazor/pkg/trace"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	b, err := r.LoadBoard(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Board = b
	result.Stats.ParseTime = time.Since(parseStart)

	boardData, err := lazorio.MarshalBoard(b)
	if err != nil {
		return nil, err
	}
	result.BoardHash = cache.Hash(boardData)

	logger.Info("parsed board",
		"size", boardDims(b),
		"lasers", len(b.Lasers),
		"targets", len(b.Targets),
		"stock", b.Stock.Total(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Solve
	solveStart := time.Now()
	sol, solveHit, err := r.SolveWithCacheInfo(ctx, b, result.BoardHash, opts)
	if err != nil {
		return nil, err
	}
	result.Solution = sol
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolutionHit = solveHit

	logger.Info("solved board",
		"solved", sol.Solved,
		"hits", sol.HitCount,
		"seed", sol.Seed,
		"explored", sol.Explored,
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, b, sol, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadBoard runs just the parse stage.
func (r *Runner) LoadBoard(ctx context.Context, opts Options) (*board.Board, error) {
	if opts.Board != nil {
		return opts.Board, nil
	}

	observability.Pipeline().OnParseStart(ctx, opts.BoardPath)
	b, err := board.ParseBFFFile(opts.BoardPath)
	if err != nil {
		observability.Pipeline().OnParseComplete(ctx, opts.BoardPath, 0, 0, err)
		return nil, err
	}
	observability.Pipeline().OnParseComplete(ctx, opts.BoardPath, b.Width, b.Height, nil)
	return b, nil
}

// SolveWithCacheInfo runs the solve stage with caching and returns cache hit info.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, b *board.Board, boardHash string, opts Options) (solve.Solution, bool, error) {
	cacheKey := r.Keyer.SolutionKey(boardHash, cache.SolutionKeyOpts{
		Convention: opts.Convention,
		TimeLimit:  opts.TimeLimit.Milliseconds(),
		Seeds:      opts.Seeds,
		Parallel:   opts.Parallel,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if sol, err := decodeSolution(data, b); err == nil {
				observability.Cache().OnCacheHit(ctx, "solution")
				return sol, true, nil
			}
			// Undecodable entry: fall through to re-solve
		}
		observability.Cache().OnCacheMiss(ctx, "solution")
	}

	observability.Pipeline().OnSolveStart(ctx, boardHash, opts.Parallel)
	start := time.Now()
	sol := r.runSolver(ctx, b, opts)
	observability.Pipeline().OnSolveComplete(ctx, boardHash, sol.Solved, sol.HitCount, time.Since(start), nil)

	// Cache the result. Budget-limited partial results are cached too: the
	// key includes the time limit, so a larger budget misses and re-solves.
	if data, err := json.Marshal(lazorio.NewRecord(b, sol)); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSolution); err == nil {
			observability.Cache().OnCacheSet(ctx, "solution", len(data))
		}
	}

	return sol, false, nil
}

// Solve is a convenience wrapper that computes the board hash and discards
// the cache hit info.
func (r *Runner) Solve(ctx context.Context, b *board.Board, opts Options) (solve.Solution, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return solve.Solution{}, err
	}
	boardData, err := lazorio.MarshalBoard(b)
	if err != nil {
		return solve.Solution{}, err
	}
	sol, _, err := r.SolveWithCacheInfo(ctx, b, cache.Hash(boardData), opts)
	return sol, err
}

func (r *Runner) runSolver(ctx context.Context, b *board.Board, opts Options) solve.Solution {
	tracer := opts.tracer()
	if opts.Parallel {
		p := &solve.Parallel{
			Tracer:    tracer,
			TimeLimit: opts.TimeLimit,
			Seeds:     opts.Seeds,
			Progress:  opts.Progress,
		}
		return p.Solve(ctx, b)
	}

	var seed int64
	if len(opts.Seeds) > 0 {
		seed = opts.Seeds[0]
	}
	s := &solve.Search{
		Tracer:    tracer,
		TimeLimit: opts.TimeLimit,
		Seed:      seed,
		Progress:  opts.Progress,
	}
	return s.Solve(ctx, b)
}

// RenderWithCacheInfo runs the render stage with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *board.Board, sol solve.Solution, opts Options) (map[string][]byte, bool, error) {
	recData, err := json.Marshal(lazorio.NewRecord(b, sol))
	if err != nil {
		return nil, false, err
	}
	solutionHash := cache.Hash(recData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(solutionHash, cache.ArtifactKeyOpts{Format: format})
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := r.renderAll(b, sol, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(solutionHash, cache.ArtifactKeyOpts{Format: format})
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// renderAll produces every requested artifact. DOT is computed at most once
// since the SVG format is rendered from it.
func (r *Runner) renderAll(b *board.Board, sol solve.Solution, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var traj *trace.Trajectory
	var traced bool
	trajectory := func() *trace.Trajectory {
		if !traced {
			traj = trace.TraceAll(opts.tracer(), b, sol.Placement)
			traced = true
		}
		return traj
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatText:
			artifacts[format] = []byte(render.Report(b, sol))
		case FormatJSON:
			var buf bytes.Buffer
			if err := lazorio.WriteJSON(lazorio.NewRecord(b, sol), &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatDOT:
			dot := render.ToDOT(b, sol.Placement, trajectory(), render.DOTOptions{Detailed: opts.DetailedDOT})
			artifacts[format] = []byte(dot)
		case FormatSVG:
			dot := render.ToDOT(b, sol.Placement, trajectory(), render.DOTOptions{Detailed: opts.DetailedDOT})
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg
		}
	}
	return artifacts, nil
}

// decodeSolution rebuilds a cached solution, validating it against the board.
func decodeSolution(data []byte, b *board.Board) (solve.Solution, error) {
	rec, err := lazorio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return solve.Solution{}, err
	}
	return rec.BuildSolution(b)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func boardDims(b *board.Board) string {
	return fmt.Sprintf("%dx%d", b.Width, b.Height)
}
