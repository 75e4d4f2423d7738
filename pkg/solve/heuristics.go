package solve

import (
	"math/rand"
	"sort"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

// orderSlots ranks open cells by descending criticality so the decisions
// most likely to affect target coverage are made first. Criticality is the
// number of blockless-trace points touching the cell; ties break on the
// combined lattice distance to the nearest laser and nearest target
// (targets weighted heavier), then row-major position. A seeded shuffle
// within small rank windows diversifies exploration without destroying
// the ranking.
func orderSlots(b *board.Board, tr trace.Tracer, seed int64) []board.Cell {
	cells := b.OpenCells()

	crit := criticality(b, tr)
	dist := make(map[board.Cell]float64, len(cells))
	for _, c := range cells {
		dist[c] = proximityScore(b, c)
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if crit[cells[i]] != crit[cells[j]] {
			return crit[cells[i]] > crit[cells[j]]
		}
		return dist[cells[i]] < dist[cells[j]]
	})

	// Perturb within windows of four so different seeds explore different
	// branch orders while high-criticality cells stay near the front.
	rnd := rand.New(rand.NewSource(seed))
	for i := 0; i < len(cells); i += 4 {
		end := i + 4
		if end > len(cells) {
			end = len(cells)
		}
		window := cells[i:end]
		rnd.Shuffle(len(window), func(a, b int) {
			window[a], window[b] = window[b], window[a]
		})
	}

	return cells
}

// criticality counts, per open cell, how many points of the unconstrained
// (blockless) trace touch the cell's lattice footprint.
func criticality(b *board.Board, tr trace.Tracer) map[board.Cell]int {
	counts := make(map[board.Cell]int)
	blockless := trace.TraceAll(tr, b, nil)
	for _, p := range blockless.Points() {
		// A lattice point touches every cell whose closed footprint
		// [2c, 2c+2]×[2r, 2r+2] contains it.
		for _, col := range touchedIndices(p.X, b.Width) {
			for _, row := range touchedIndices(p.Y, b.Height) {
				c := board.Cell{Col: col, Row: row}
				if b.IsOpen(c) {
					counts[c]++
				}
			}
		}
	}
	return counts
}

// touchedIndices returns the cell indices along one axis whose footprint
// contains the doubled coordinate v: one cell for odd v, up to two for even.
func touchedIndices(v, limit int) []int {
	if v%2 == 1 {
		return []int{(v - 1) / 2}
	}
	out := make([]int, 0, 2)
	if lo := v/2 - 1; lo >= 0 {
		out = append(out, lo)
	}
	if hi := v / 2; hi < limit {
		out = append(out, hi)
	}
	return out
}

// proximityScore is the original distance heuristic: nearest laser origin
// plus 1.5× nearest target, measured in lattice manhattan distance from the
// cell center. Lower scores sort first.
func proximityScore(b *board.Board, c board.Cell) float64 {
	center := c.Center()

	laserDist := 0
	for i, l := range b.Lasers {
		d := abs(center.X-l.X) + abs(center.Y-l.Y)
		if i == 0 || d < laserDist {
			laserDist = d
		}
	}

	targetDist := 0
	for i, p := range b.Targets {
		d := abs(center.X-p.X) + abs(center.Y-p.Y)
		if i == 0 || d < targetDist {
			targetDist = d
		}
	}

	return float64(laserDist) + 1.5*float64(targetDist)
}

// blockTypeOrder returns the trial order for a slot. With many targets
// still unhit, refract blocks are tried first since they add beams; with
// few, reflect blocks that steer an existing beam lead. The order is then
// rotated by a deterministic mix of seed, slot index and unhit count so
// different seeds walk the tree differently but reproducibly.
func blockTypeOrder(seed int64, slot, unhit int) [board.NumBlockTypes]board.BlockType {
	order := [board.NumBlockTypes]board.BlockType{board.Reflect, board.Refract, board.Opaque}
	if unhit >= 3 {
		order = [board.NumBlockTypes]board.BlockType{board.Refract, board.Reflect, board.Opaque}
	}

	h := seed*2654435761 + int64(slot)*40503 + int64(unhit)*97
	r := int(((h % board.NumBlockTypes) + board.NumBlockTypes) % board.NumBlockTypes)
	if r > 0 {
		var rotated [board.NumBlockTypes]board.BlockType
		for i := range order {
			rotated[i] = order[(i+r)%board.NumBlockTypes]
		}
		order = rotated
	}
	return order
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
