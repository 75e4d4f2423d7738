package trace

import (
	"reflect"
	"testing"

	"github.com/lazorkit/lazor/pkg/board"
)

// The wall and center conventions use different detection rules but must
// produce identical trajectories. Cross-check them over a grid of board
// configurations and laser starting states.
func TestConventionEquivalence(t *testing.T) {
	placements := []board.Placement{
		nil,
		{{Col: 1, Row: 1}: board.Reflect},
		{{Col: 1, Row: 1}: board.Opaque},
		{{Col: 1, Row: 1}: board.Refract},
		{
			{Col: 0, Row: 2}: board.Reflect,
			{Col: 2, Row: 0}: board.Refract,
			{Col: 3, Row: 3}: board.Opaque,
		},
		{
			{Col: 0, Row: 0}: board.Refract,
			{Col: 1, Row: 2}: board.Refract,
			{Col: 3, Row: 1}: board.Reflect,
		},
	}

	lasers := []board.Laser{
		{X: 0, Y: 3, VX: 1, VY: 1},   // edge-midpoint track
		{X: 2, Y: 7, VX: 1, VY: -1},  // edge-midpoint track, bottom
		{X: 2, Y: 0, VX: 1, VY: 1},   // corner/center track
		{X: 0, Y: 0, VX: -1, VY: -1}, // border corner pointing out
		{X: 7, Y: 2, VX: -1, VY: 1},
	}

	wall := mustTracer(t, ConventionWall)
	center := mustTracer(t, ConventionCenter)

	for pi, placed := range placements {
		b := openBoard(t, 4, 4, lasers, nil)
		for li, l := range b.Lasers {
			wallTraj := wall.Trace(b, placed, l)
			centerTraj := center.Trace(b, placed, l)

			if !reflect.DeepEqual(wallTraj.Points(), centerTraj.Points()) {
				t.Errorf("placement %d laser %d: wall and center trajectories differ\nwall:   %v\ncenter: %v",
					pi, li, wallTraj.Points(), centerTraj.Points())
			}
		}
	}
}

func TestConventionEquivalence_FixedBlocks(t *testing.T) {
	grid := [][]string{
		{"o", "A", "o", "o"},
		{"o", "o", "x", "o"},
		{"C", "o", "o", "o"},
		{"o", "o", "B", "o"},
	}
	b, err := board.New(board.Definition{
		Grid: grid,
		Lasers: []board.Laser{
			{X: 3, Y: 0, VX: -1, VY: 1},
			{X: 8, Y: 5, VX: -1, VY: -1},
		},
	})
	if err != nil {
		t.Fatalf("board.New() error: %v", err)
	}

	wall := mustTracer(t, ConventionWall)
	center := mustTracer(t, ConventionCenter)

	for li, l := range b.Lasers {
		wallTraj := wall.Trace(b, nil, l)
		centerTraj := center.Trace(b, nil, l)
		if !reflect.DeepEqual(wallTraj.Points(), centerTraj.Points()) {
			t.Errorf("laser %d: wall and center trajectories differ", li)
		}
	}
}
