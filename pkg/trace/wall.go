package trace

import "github.com/lazorkit/lazor/pkg/board"

// wallTracer detects collisions from the geometry of the crossed cell edge:
// the cell a step enters is the one whose interior contains the midpoint of
// the step segment.
type wallTracer struct{}

func (wallTracer) Convention() Convention { return ConventionWall }

func (wallTracer) Trace(b *board.Board, placed board.Placement, l board.Laser) *Trajectory {
	return run(b, placed, l, wallCollide)
}

// wallCollide locates the cell entered by the step from ray's position.
// The segment midpoint in doubled coordinates is (x + vx/2, y + vy/2);
// dividing by the cell span of 2 with floor rounding yields the column and
// row of the cell the segment interior passes through.
func wallCollide(b *board.Board, ray RayState) (board.Cell, surface, bool) {
	cell := board.Cell{
		Col: floorDiv(2*ray.X+ray.VX, 4),
		Row: floorDiv(2*ray.Y+ray.VY, 4),
	}
	if !b.InCells(cell) {
		return noCell, surfaceCorner, false
	}
	return cell, struckSurface(ray), true
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
