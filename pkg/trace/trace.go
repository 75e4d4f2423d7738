// Package trace simulates laser propagation across a board configuration.
//
// A ray starts at its laser's origin and advances one lattice unit per step
// along a diagonal direction. Before each step the tracer determines which
// unit cell the move enters; if that cell holds a block, the ray interacts
// at its current point: Reflect flips the direction component orthogonal to
// the struck surface (both components on a corner), Opaque terminates the
// ray, and Refract forks a reflected ray while the original continues
// straight through. The outer board boundary reflects, so rays never leave
// the lattice.
//
// Two collision conventions are provided behind the same contract. The wall
// convention locates the entered cell from the geometry of the crossed cell
// edge; the center convention locates it by projecting the ray position onto
// the nearest block-center parity. They detect the same cells and are kept
// separate for cross-validation.
//
// Tracing is a pure function of the configuration: no shared state, always
// terminates. Cycle safety comes from a per-laser visited set of
// (position, direction) states, not from a step cap.
package trace

import (
	"sort"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/errors"
)

// Convention names a collision detection rule set.
type Convention string

const (
	// ConventionWall detects block hits at cell edges. This is the default.
	ConventionWall Convention = "wall"
	// ConventionCenter detects block hits via block-center parity.
	ConventionCenter Convention = "center"
)

// Tracer computes the trajectory of one laser over a configuration.
type Tracer interface {
	// Trace returns the set of lattice points visited by the laser and all
	// of its forked rays under the given placement.
	Trace(b *board.Board, placed board.Placement, l board.Laser) *Trajectory

	// Convention identifies the collision rule set in use.
	Convention() Convention
}

// New returns the tracer for a convention name.
func New(c Convention) (Tracer, error) {
	switch c {
	case ConventionWall, "":
		return wallTracer{}, nil
	case ConventionCenter:
		return centerTracer{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown collision convention %q", c)
}

// RayState is one ray's position and direction during tracing.
type RayState struct {
	X, Y   int
	VX, VY int
}

// Segment is a single lattice step of a traced ray, kept for rendering.
type Segment struct {
	From board.Point `json:"from"`
	To   board.Point `json:"to"`
}

// Trajectory is the deduplicated set of lattice points visited by one or
// more rays, plus the ordered step segments for visualization.
type Trajectory struct {
	points   map[board.Point]struct{}
	segments []Segment
}

func newTrajectory() *Trajectory {
	return &Trajectory{points: make(map[board.Point]struct{})}
}

// Contains reports whether the exact lattice point was visited.
func (t *Trajectory) Contains(p board.Point) bool {
	_, ok := t.points[p]
	return ok
}

// Len returns the number of distinct visited points.
func (t *Trajectory) Len() int { return len(t.points) }

// Points returns the visited points in deterministic (row-major) order.
func (t *Trajectory) Points() []board.Point {
	out := make([]board.Point, 0, len(t.points))
	for p := range t.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Segments returns the ray steps in traversal order.
func (t *Trajectory) Segments() []Segment { return t.segments }

// Merge adds every point and segment of other into t.
func (t *Trajectory) Merge(other *Trajectory) {
	for p := range other.points {
		t.points[p] = struct{}{}
	}
	t.segments = append(t.segments, other.segments...)
}

func (t *Trajectory) add(p board.Point) {
	t.points[p] = struct{}{}
}

// TraceAll traces every laser on the board and returns the union trajectory.
func TraceAll(tr Tracer, b *board.Board, placed board.Placement) *Trajectory {
	union := newTrajectory()
	for _, l := range b.Lasers {
		union.Merge(tr.Trace(b, placed, l))
	}
	return union
}

// CountHits returns how many of the board's targets the trajectory covers.
// A target counts as hit only on exact coordinate equality.
func CountHits(t *Trajectory, b *board.Board) int {
	n := 0
	for _, p := range b.Targets {
		if t.Contains(p) {
			n++
		}
	}
	return n
}

// surface identifies which face of a cell a ray strikes.
type surface int

const (
	surfaceVertical surface = iota
	surfaceHorizontal
	surfaceCorner
)

// collideFunc resolves the cell the next step enters and the struck surface.
// ok is false when the step does not enter a board cell.
type collideFunc func(b *board.Board, ray RayState) (cell board.Cell, srf surface, ok bool)

// noCell is a sentinel outside any board.
var noCell = board.Cell{Col: -1, Row: -1}

// run is the propagation engine shared by both conventions.
func run(b *board.Board, placed board.Placement, l board.Laser, detect collideFunc) *Trajectory {
	traj := newTrajectory()
	traj.add(board.Point{X: l.X, Y: l.Y})

	type cursor struct {
		ray  RayState
		last board.Cell // cell containing the previous step's segment
	}

	queue := []cursor{{ray: RayState{X: l.X, Y: l.Y, VX: l.VX, VY: l.VY}, last: noCell}}
	visited := make(map[RayState]struct{})

	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		ray, last := cur.ray, cur.last

	propagate:
		for {
			if _, seen := visited[ray]; seen {
				break // this state was already explored; no new points ahead
			}
			visited[ray] = struct{}{}

			// The border acts as an implicit reflect surface.
			bounced := false
			if (ray.X == 0 && ray.VX < 0) || (ray.X == 2*b.Width && ray.VX > 0) {
				ray.VX = -ray.VX
				bounced = true
			}
			if (ray.Y == 0 && ray.VY < 0) || (ray.Y == 2*b.Height && ray.VY > 0) {
				ray.VY = -ray.VY
				bounced = true
			}
			if bounced {
				continue
			}

			if cell, srf, ok := detect(b, ray); ok && cell != last {
				if t, blocked := b.BlockAt(cell, placed); blocked {
					switch t {
					case board.Opaque:
						break propagate
					case board.Reflect:
						ray = reflectOff(ray, srf)
						continue
					case board.Refract:
						queue = append(queue, cursor{ray: reflectOff(ray, srf), last: last})
						// The original ray passes straight through.
					}
				}
				last = cell
			} else if !ok {
				last = noCell
			}

			from := board.Point{X: ray.X, Y: ray.Y}
			ray.X += ray.VX
			ray.Y += ray.VY
			to := board.Point{X: ray.X, Y: ray.Y}
			traj.add(to)
			traj.segments = append(traj.segments, Segment{From: from, To: to})
		}
	}

	return traj
}

// reflectOff flips the direction component orthogonal to the struck surface.
func reflectOff(r RayState, s surface) RayState {
	switch s {
	case surfaceVertical:
		r.VX = -r.VX
	case surfaceHorizontal:
		r.VY = -r.VY
	case surfaceCorner:
		r.VX = -r.VX
		r.VY = -r.VY
	}
	return r
}

// struckSurface classifies the surface from the ray position's parity:
// on a vertical grid line a vertical edge is struck, on a horizontal grid
// line a horizontal edge, and on an intersection the corner (both edges are
// crossed at once, which resolves the tie as a full reflection).
func struckSurface(ray RayState) surface {
	evenX := ray.X%2 == 0
	evenY := ray.Y%2 == 0
	switch {
	case evenX && !evenY:
		return surfaceVertical
	case !evenX && evenY:
		return surfaceHorizontal
	default:
		return surfaceCorner
	}
}
