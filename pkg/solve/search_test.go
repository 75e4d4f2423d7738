package solve

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

// openBoard builds a fully open width×height board.
func openBoard(t *testing.T, width, height int, stock board.Inventory, lasers []board.Laser, targets []board.Point) *board.Board {
	t.Helper()
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = "o"
		}
	}
	b, err := board.New(board.Definition{Grid: grid, Stock: stock, Lasers: lasers, Targets: targets})
	if err != nil {
		t.Fatalf("board.New() error: %v", err)
	}
	return b
}

// oneReflectBoard is solvable with a single reflect block: the blockless
// trace misses (1,4), but a reflect in the beam's path redirects it there.
func oneReflectBoard(t *testing.T, stock board.Inventory) *board.Board {
	t.Helper()
	return openBoard(t, 3, 3, stock,
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 1, Y: 4}})
}

func TestSolve_EmptyPlacementSuffices(t *testing.T) {
	// (2,3) lies on the blockless trace, so the minimal solution uses no
	// blocks even though stock is available.
	b := openBoard(t, 3, 3, board.Inventory{board.Reflect: 1},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 2, Y: 3}})

	s := &Search{Seed: 1}
	sol := s.Solve(context.Background(), b)

	if !sol.Solved {
		t.Fatalf("Solved = false, want true")
	}
	if len(sol.Placement) != 0 {
		t.Errorf("len(Placement) = %d, want 0", len(sol.Placement))
	}
	if sol.HitCount != 1 {
		t.Errorf("HitCount = %d, want 1", sol.HitCount)
	}
	if sol.Mode != ModeSingle {
		t.Errorf("Mode = %q, want %q", sol.Mode, ModeSingle)
	}
}

func TestSolve_SingleReflect(t *testing.T) {
	b := oneReflectBoard(t, board.Inventory{board.Reflect: 1})

	s := &Search{Seed: 0}
	sol := s.Solve(context.Background(), b)

	if !sol.Solved {
		t.Fatalf("Solved = false, want true (explored %d, pruned %d)", sol.Explored, sol.Pruned)
	}
	if sol.HitCount != len(b.Targets) {
		t.Errorf("HitCount = %d, want %d", sol.HitCount, len(b.Targets))
	}

	// The recorded placement must reproduce the hit when re-traced.
	tr, err := trace.New(sol.Convention)
	if err != nil {
		t.Fatalf("trace.New(%s) error: %v", sol.Convention, err)
	}
	traj := trace.TraceAll(tr, b, sol.Placement)
	for _, p := range b.Targets {
		if !traj.Contains(p) {
			t.Errorf("re-trace of returned placement misses target %v", p)
		}
	}
}

func TestSolve_MultiLaserCoverage(t *testing.T) {
	// One target per laser, both on blockless paths; coverage is the union
	// over lasers, not any single beam.
	b := openBoard(t, 3, 3, board.Inventory{board.Reflect: 1},
		[]board.Laser{
			{X: 0, Y: 1, VX: 1, VY: 1},
			{X: 0, Y: 5, VX: 1, VY: -1},
		},
		[]board.Point{{X: 1, Y: 2}, {X: 1, Y: 4}})

	sol := (&Search{Seed: 3}).Solve(context.Background(), b)

	if !sol.Solved {
		t.Fatalf("Solved = false, want true")
	}
	if sol.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2", sol.HitCount)
	}
	for i, st := range sol.Targets {
		if !st.Hit {
			t.Errorf("Targets[%d] (%v) not hit", i, st.Target)
		}
	}
}

func TestSolve_ExcessInventory(t *testing.T) {
	// More stock than the solution needs; the subset-size iteration must
	// still find a placement that leaves blocks unused.
	stock := board.Inventory{board.Reflect: 2, board.Opaque: 1, board.Refract: 1}
	b := oneReflectBoard(t, stock)

	sol := (&Search{Seed: 2}).Solve(context.Background(), b)

	if !sol.Solved {
		t.Fatalf("Solved = false, want true")
	}

	var used board.Inventory
	for _, bt := range sol.Placement {
		used[bt]++
	}
	for bt := board.BlockType(0); bt < board.NumBlockTypes; bt++ {
		if used[bt] > stock[bt] {
			t.Errorf("placement uses %d %s blocks, stock has %d", used[bt], bt, stock[bt])
		}
	}

	tr, _ := trace.New(trace.ConventionWall)
	traj := trace.TraceAll(tr, b, sol.Placement)
	if !traj.Contains(b.Targets[0]) {
		t.Errorf("re-trace of returned placement misses target %v", b.Targets[0])
	}
}

func TestSolve_Determinism(t *testing.T) {
	stock := board.Inventory{board.Reflect: 1, board.Refract: 1}
	b := oneReflectBoard(t, stock)

	first := (&Search{Seed: 7}).Solve(context.Background(), b)
	second := (&Search{Seed: 7}).Solve(context.Background(), b)

	if !reflect.DeepEqual(first.Placement, second.Placement) {
		t.Errorf("placements differ across identical runs:\nfirst:  %v\nsecond: %v",
			first.Placement, second.Placement)
	}
	if first.Explored != second.Explored || first.Pruned != second.Pruned {
		t.Errorf("node counts differ: (%d, %d) vs (%d, %d)",
			first.Explored, first.Pruned, second.Explored, second.Pruned)
	}
	if first.Solved != second.Solved || first.HitCount != second.HitCount {
		t.Errorf("outcomes differ: (%t, %d) vs (%t, %d)",
			first.Solved, first.HitCount, second.Solved, second.HitCount)
	}
}

func TestSolve_UnreachableTargetReturnsBestPartial(t *testing.T) {
	// The laser's track preserves coordinate-sum parity; (2,2) has the
	// wrong parity and no placement can ever hit it.
	b := openBoard(t, 3, 3,
		board.Inventory{board.Reflect: 1, board.Opaque: 1, board.Refract: 1},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 2, Y: 2}})

	sol := (&Search{Seed: 0}).Solve(context.Background(), b)

	if sol.Solved {
		t.Fatalf("Solved = true for parity-unreachable target")
	}
	if sol.HitCount != 0 {
		t.Errorf("HitCount = %d, want 0", sol.HitCount)
	}
	if sol.Placement == nil {
		t.Error("Placement = nil, want best partial (possibly empty)")
	}
	if sol.Explored == 0 {
		t.Error("Explored = 0, want exhaustive search to expand nodes")
	}
}

func TestSolve_TimeLimitBounds(t *testing.T) {
	// A large open board with an unreachable target forces the search to
	// run until the budget expires.
	b := openBoard(t, 4, 4,
		board.Inventory{board.Reflect: 3, board.Opaque: 3, board.Refract: 3},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 2, Y: 2}})

	start := time.Now()
	sol := (&Search{Seed: 0, TimeLimit: 20 * time.Millisecond}).Solve(context.Background(), b)
	elapsed := time.Since(start)

	if sol.Solved {
		t.Fatalf("Solved = true for parity-unreachable target")
	}
	if elapsed > 5*time.Second {
		t.Errorf("search ran %v, want prompt stop after ~20ms budget", elapsed)
	}
}

func TestSolve_ContextCancellation(t *testing.T) {
	b := openBoard(t, 4, 4,
		board.Inventory{board.Reflect: 3, board.Opaque: 3, board.Refract: 3},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 2, Y: 2}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol := (&Search{Seed: 0}).Solve(ctx, b)

	if sol.Solved {
		t.Fatalf("Solved = true after pre-cancelled context")
	}
}

func TestSolve_ProgressReported(t *testing.T) {
	b := oneReflectBoard(t, board.Inventory{board.Reflect: 1})

	calls := 0
	bestSeen := -1
	s := &Search{Seed: 0, Progress: func(explored, pruned, bestHits int) {
		calls++
		if bestHits < bestSeen {
			t.Errorf("bestHits regressed: %d after %d", bestHits, bestSeen)
		}
		bestSeen = bestHits
	}}
	sol := s.Solve(context.Background(), b)

	if !sol.Solved {
		t.Fatalf("Solved = false, want true")
	}
	if calls == 0 {
		t.Error("progress callback never invoked")
	}
}
