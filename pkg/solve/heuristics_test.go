package solve

import (
	"reflect"
	"testing"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

func TestOrderSlots_PermutationOfOpenCells(t *testing.T) {
	b := openBoard(t, 4, 3, board.Inventory{},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 6, Y: 3}})
	tr, _ := trace.New(trace.ConventionWall)

	ordered := orderSlots(b, tr, 5)

	open := b.OpenCells()
	if len(ordered) != len(open) {
		t.Fatalf("len = %d, want %d", len(ordered), len(open))
	}
	seen := make(map[board.Cell]bool, len(ordered))
	for _, c := range ordered {
		if seen[c] {
			t.Errorf("cell %v appears twice", c)
		}
		seen[c] = true
		if !b.IsOpen(c) {
			t.Errorf("cell %v is not open", c)
		}
	}
}

func TestOrderSlots_DeterministicPerSeed(t *testing.T) {
	b := openBoard(t, 4, 4, board.Inventory{},
		[]board.Laser{{X: 0, Y: 3, VX: 1, VY: 1}},
		[]board.Point{{X: 4, Y: 8}})
	tr, _ := trace.New(trace.ConventionWall)

	first := orderSlots(b, tr, 11)
	second := orderSlots(b, tr, 11)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("same seed produced different orders:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestTouchedIndices(t *testing.T) {
	tests := []struct {
		v, limit int
		want     []int
	}{
		{v: 1, limit: 3, want: []int{0}},
		{v: 5, limit: 3, want: []int{2}},
		{v: 2, limit: 3, want: []int{0, 1}},
		{v: 0, limit: 3, want: []int{0}},
		{v: 6, limit: 3, want: []int{2}},
	}
	for _, tt := range tests {
		if got := touchedIndices(tt.v, tt.limit); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("touchedIndices(%d, %d) = %v, want %v", tt.v, tt.limit, got, tt.want)
		}
	}
}

func TestBlockTypeOrder_Permutation(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		for slot := 0; slot < 4; slot++ {
			for unhit := 0; unhit < 5; unhit++ {
				order := blockTypeOrder(seed, slot, unhit)

				var seen [board.NumBlockTypes]bool
				for _, bt := range order {
					if bt < 0 || bt >= board.NumBlockTypes {
						t.Fatalf("blockTypeOrder(%d, %d, %d) yields invalid type %d", seed, slot, unhit, bt)
					}
					if seen[bt] {
						t.Fatalf("blockTypeOrder(%d, %d, %d) repeats type %s", seed, slot, unhit, bt)
					}
					seen[bt] = true
				}

				if again := blockTypeOrder(seed, slot, unhit); again != order {
					t.Errorf("blockTypeOrder(%d, %d, %d) not deterministic", seed, slot, unhit)
				}
			}
		}
	}
}

func TestProximityScore_TargetsWeighHeavier(t *testing.T) {
	b := openBoard(t, 3, 3, board.Inventory{},
		[]board.Laser{{X: 0, Y: 1, VX: 1, VY: 1}},
		[]board.Point{{X: 6, Y: 5}})

	near := proximityScore(b, board.Cell{Col: 2, Row: 2})
	far := proximityScore(b, board.Cell{Col: 0, Row: 0})

	if near >= far {
		t.Errorf("score near target = %v, far = %v, want near < far", near, far)
	}
}
