// Package solve finds block placements that route every laser through every
// target. A seeded backtracking search assigns block types to open slots,
// re-tracing the configuration at each node; a multi-seed explorer runs
// several searches concurrently with diversified orderings.
package solve

import (
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

// Mode records which search variant produced a solution.
type Mode string

const (
	// ModeSingle is a single seeded search.
	ModeSingle Mode = "single"
	// ModeParallel is the multi-seed explorer.
	ModeParallel Mode = "parallel"
)

// TargetStatus is the hit/miss outcome for one target point.
type TargetStatus struct {
	Target board.Point `json:"target"`
	Hit    bool        `json:"hit"`
}

// Solution is the outcome of a search: the best placement found, its target
// coverage, and run metadata. When Solved is false the placement is the best
// partial result observed before the budget ran out.
type Solution struct {
	Solved     bool
	Placement  board.Placement
	Targets    []TargetStatus
	HitCount   int
	Elapsed    time.Duration
	Seed       int64
	Convention trace.Convention
	Mode       Mode

	// Explored and Pruned count search-node expansions and abandoned
	// branches, for diagnostics.
	Explored int
	Pruned   int
}

// betterSolution ranks a above b: solved first, then more targets hit,
// then earlier discovery.
func betterSolution(a, b Solution) bool {
	if a.Solved != b.Solved {
		return a.Solved
	}
	if a.HitCount != b.HitCount {
		return a.HitCount > b.HitCount
	}
	return a.Elapsed < b.Elapsed
}

// evaluate re-traces a placement and fills in per-target status.
func evaluate(tr trace.Tracer, b *board.Board, placed board.Placement) ([]TargetStatus, int) {
	traj := trace.TraceAll(tr, b, placed)
	statuses := make([]TargetStatus, len(b.Targets))
	hits := 0
	for i, p := range b.Targets {
		hit := traj.Contains(p)
		statuses[i] = TargetStatus{Target: p, Hit: hit}
		if hit {
			hits++
		}
	}
	return statuses, hits
}
