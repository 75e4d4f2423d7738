package solve

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

// DefaultSeeds is the diversified seed list used when none is given.
var DefaultSeeds = []int64{0, 1, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29}

// Parallel runs one Search per seed concurrently. Branch ordering is
// sensitive to heuristic tie-breaks, so diversifying seeds reduces the
// chance that a single unproductive subtree consumes the whole budget.
//
// Workers share only the immutable board and a cancellation signal. The
// first worker to find a full solution cancels the rest, which notice at
// their next periodic deadline check and discard in-flight work. With no
// full solution, the best partial result wins by (targets hit descending,
// elapsed ascending).
type Parallel struct {
	// Tracer selects the collision convention. Defaults to wall.
	Tracer trace.Tracer

	// TimeLimit is the per-board wall-clock budget shared by all workers.
	TimeLimit time.Duration

	// Seeds lists one seed per worker. Defaults to DefaultSeeds.
	Seeds []int64

	// Progress, when set, receives combined status from all workers.
	Progress ProgressFunc
}

// Solve runs the explorer and returns the winning Solution.
func (p *Parallel) Solve(ctx context.Context, b *board.Board) Solution {
	seeds := p.Seeds
	if len(seeds) == 0 {
		seeds = DefaultSeeds
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var solvedFirst atomic.Bool
	results := make(chan Solution, len(seeds))

	for _, seed := range seeds {
		go func(seed int64) {
			s := &Search{
				Tracer:    p.Tracer,
				TimeLimit: p.TimeLimit,
				Seed:      seed,
				Progress:  p.Progress,
			}
			sol := s.Solve(ctx, b)
			if sol.Solved && solvedFirst.CompareAndSwap(false, true) {
				cancel()
			}
			results <- sol
		}(seed)
	}

	var best Solution
	for i := range seeds {
		sol := <-results
		if i == 0 || betterSolution(sol, best) {
			best = sol
		}
	}

	best.Mode = ModeParallel
	return best
}
