package trace

import "github.com/lazorkit/lazor/pkg/board"

// centerTracer detects collisions by parity projection onto block centers:
// block centers sit at odd-odd lattice points, so projecting each even ray
// coordinate one half-cell forward yields the center of the cell the step
// enters. Behaviorally equivalent to the wall convention; retained for
// cross-validation.
type centerTracer struct{}

func (centerTracer) Convention() Convention { return ConventionCenter }

func (centerTracer) Trace(b *board.Board, placed board.Placement, l board.Laser) *Trajectory {
	return run(b, placed, l, centerCollide)
}

// centerCollide projects the ray position onto the nearest block-center
// coordinates ahead of it. An odd coordinate is already aligned with a
// center; an even one is advanced by the direction component.
func centerCollide(b *board.Board, ray RayState) (board.Cell, surface, bool) {
	cx, cy := ray.X, ray.Y
	if cx%2 == 0 {
		cx += ray.VX
	}
	if cy%2 == 0 {
		cy += ray.VY
	}

	cell, ok := b.CellForCenter(board.Point{X: cx, Y: cy})
	if !ok {
		return noCell, surfaceCorner, false
	}
	return cell, struckSurface(ray), true
}
