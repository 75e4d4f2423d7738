package solve

import (
	"context"
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

const (
	// DefaultTimeLimit bounds a search when no limit is configured.
	DefaultTimeLimit = 180 * time.Second

	// deadlineCheckInterval is how many node expansions pass between
	// wall-clock and cancellation checks. Cancellation is cooperative:
	// work between checks always completes.
	deadlineCheckInterval = 64
)

// ProgressFunc receives search status: nodes expanded, branches pruned,
// and the best target-hit count so far.
type ProgressFunc func(explored, pruned, bestHits int)

// Search is a single seeded backtracking placement search.
//
// The search assigns block types to open slots in criticality order,
// re-tracing the configuration at every node and accepting the first
// placement that covers all targets. Subset sizes are iterated downward
// from the full inventory, since a solution may leave stock unused.
// For a fixed seed and board the explored branch sequence, and therefore
// the returned Solution, is exactly reproducible.
type Search struct {
	// Tracer selects the collision convention. Defaults to wall.
	Tracer trace.Tracer

	// TimeLimit is the wall-clock budget. Defaults to DefaultTimeLimit.
	TimeLimit time.Duration

	// Seed controls branch-order tie-breaks.
	Seed int64

	// Progress, when set, is invoked on improvements and at every
	// deadline check.
	Progress ProgressFunc
}

// Solve runs the search. It always returns a Solution: a full one on
// success, otherwise the best partial placement observed before the budget
// or ctx expired. Budget exhaustion is a normal outcome, not an error.
func (s *Search) Solve(ctx context.Context, b *board.Board) Solution {
	tracer := s.Tracer
	if tracer == nil {
		tracer, _ = trace.New(trace.ConventionWall)
	}
	limit := s.TimeLimit
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	start := time.Now()
	st := &searcher{
		ctx:      ctx,
		b:        b,
		tracer:   tracer,
		seed:     s.Seed,
		slots:    orderSlots(b, tracer, s.Seed),
		placed:   make(board.Placement),
		stock:    b.Stock,
		deadline: start.Add(limit),
		progress: s.Progress,
		bestHits: -1,
	}

	// The empty placement is the smallest subset; it also seeds best-partial
	// tracking before any descent.
	st.observe()

	var winner board.Placement
	if st.bestHits == len(b.Targets) {
		winner = board.Placement{}
	} else {
		// Subset-size iteration: full inventory first, then smaller
		// subsets, since a correct solution may leave stock unused.
		for size := b.Stock.Total(); size >= 1 && !st.stopped; size-- {
			st.maxPlace = size
			if st.descend(0) {
				winner = st.placed.Clone()
				break
			}
		}
	}

	sol := Solution{
		Seed:       s.Seed,
		Convention: tracer.Convention(),
		Mode:       ModeSingle,
		Explored:   st.explored,
		Pruned:     st.pruned,
	}
	if winner != nil {
		sol.Solved = true
		sol.Placement = winner
	} else {
		sol.Placement = st.bestPlaced
	}
	sol.Targets, sol.HitCount = evaluate(tracer, b, sol.Placement)
	sol.Elapsed = time.Since(start)
	return sol
}

// searcher is the mutable state of one search run. Placements are assigned
// and unassigned in place during backtracking; only improvements and the
// final winner are cloned.
type searcher struct {
	ctx    context.Context
	b      *board.Board
	tracer trace.Tracer
	seed   int64

	slots    []board.Cell
	placed   board.Placement
	stock    board.Inventory
	maxPlace int

	deadline time.Time
	nodes    int
	stopped  bool

	explored int
	pruned   int

	bestPlaced board.Placement
	bestHits   int

	progress ProgressFunc
}

// descend expands the node for slot idx. Returns true when the current
// placement covers every target; st.placed then holds the winning
// configuration all the way up the unwind.
func (st *searcher) descend(idx int) bool {
	if st.checkStop() {
		return false
	}
	st.explored++

	hits := st.observe()
	if hits == len(st.b.Targets) {
		return true
	}

	if idx >= len(st.slots) {
		return false
	}
	// A branch that cannot change coverage any further, or can no longer
	// reach this pass's subset size, is abandoned.
	if len(st.placed) >= st.maxPlace {
		st.pruned++
		return false
	}
	if len(st.placed)+(len(st.slots)-idx) < st.maxPlace {
		st.pruned++
		return false
	}

	cell := st.slots[idx]
	unhit := len(st.b.Targets) - hits
	for _, t := range blockTypeOrder(st.seed, idx, unhit) {
		if st.stock[t] == 0 {
			continue
		}
		st.stock[t]--
		st.placed[cell] = t

		if st.descend(idx + 1) {
			return true
		}

		delete(st.placed, cell)
		st.stock[t]++
		if st.stopped {
			return false
		}
	}

	// Interchangeable blocks are handled by branching over slots, never
	// over block identities: leaving this slot empty covers every
	// assignment that skips it.
	return st.descend(idx + 1)
}

// observe traces the current placement, updates best-partial tracking and
// returns the hit count. Ties keep the earlier discovery.
func (st *searcher) observe() int {
	traj := trace.TraceAll(st.tracer, st.b, st.placed)
	hits := trace.CountHits(traj, st.b)
	if hits > st.bestHits {
		st.bestHits = hits
		st.bestPlaced = st.placed.Clone()
		st.report()
	}
	return hits
}

// checkStop enforces the wall-clock deadline and cooperative cancellation
// at a fixed cadence of node expansions.
func (st *searcher) checkStop() bool {
	if st.stopped {
		return true
	}
	st.nodes++
	if st.nodes%deadlineCheckInterval == 0 {
		if st.ctx.Err() != nil || time.Now().After(st.deadline) {
			st.stopped = true
		}
		st.report()
	}
	return st.stopped
}

func (st *searcher) report() {
	if st.progress != nil {
		st.progress(st.explored, st.pruned, st.bestHits)
	}
}
