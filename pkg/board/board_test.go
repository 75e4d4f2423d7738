package board

import (
	"testing"

	"github.com/lazorkit/lazor/pkg/errors"
)

func testDef() Definition {
	return Definition{
		Grid: [][]string{
			{"o", "o", "o"},
			{"o", "x", "o"},
			{"A", "o", "o"},
		},
		Stock:   Inventory{Reflect: 2, Opaque: 1},
		Lasers:  []Laser{{X: 3, Y: 0, VX: -1, VY: 1}},
		Targets: []Point{{X: 4, Y: 3}},
	}
}

func TestNew(t *testing.T) {
	b, err := New(testDef())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if b.Width != 3 || b.Height != 3 {
		t.Errorf("dimensions = %dx%d, want 3x3", b.Width, b.Height)
	}
	if got := len(b.OpenCells()); got != 7 {
		t.Errorf("len(OpenCells()) = %d, want 7", got)
	}
	if _, ok := b.FixedAt(Cell{Col: 0, Row: 2}); !ok {
		t.Error("FixedAt(0,2) = false, want fixed Reflect block")
	}
	if b.IsOpen(Cell{Col: 1, Row: 1}) {
		t.Error("IsOpen(1,1) = true for forbidden cell, want false")
	}
}

func TestNew_InconsistentRows(t *testing.T) {
	def := testDef()
	def.Grid[1] = []string{"o", "o"}

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidGrid) {
		t.Errorf("New() error = %v, want INVALID_GRID", err)
	}
}

func TestNew_UnknownToken(t *testing.T) {
	def := testDef()
	def.Grid[0][0] = "z"

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("New() error = %v, want INVALID_TOKEN", err)
	}
}

func TestNew_LaserOutsideLattice(t *testing.T) {
	def := testDef()
	def.Lasers[0].X = 7 // lattice spans 0..6 for a 3-wide board

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidLaser) {
		t.Errorf("New() error = %v, want INVALID_LASER", err)
	}
}

func TestNew_NonDiagonalLaser(t *testing.T) {
	def := testDef()
	def.Lasers[0].VX = 0

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidLaser) {
		t.Errorf("New() error = %v, want INVALID_LASER", err)
	}
}

func TestNew_TargetOutsideLattice(t *testing.T) {
	def := testDef()
	def.Targets = append(def.Targets, Point{X: 2, Y: 9})

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidTarget) {
		t.Errorf("New() error = %v, want INVALID_TARGET", err)
	}
}

func TestNew_StockExceedsOpenSlots(t *testing.T) {
	def := testDef()
	def.Stock = Inventory{Reflect: 5, Opaque: 2, Refract: 1} // 8 blocks, 7 slots

	_, err := New(def)
	if !errors.Is(err, errors.ErrCodeInvalidStock) {
		t.Errorf("New() error = %v, want INVALID_STOCK", err)
	}
}

func TestBlockAt(t *testing.T) {
	b, err := New(testDef())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	placed := Placement{{Col: 1, Row: 0}: Opaque}

	if got, ok := b.BlockAt(Cell{Col: 1, Row: 0}, placed); !ok || got != Opaque {
		t.Errorf("BlockAt placed cell = (%v, %v), want (Opaque, true)", got, ok)
	}
	if got, ok := b.BlockAt(Cell{Col: 0, Row: 2}, placed); !ok || got != Reflect {
		t.Errorf("BlockAt fixed cell = (%v, %v), want (Reflect, true)", got, ok)
	}
	if _, ok := b.BlockAt(Cell{Col: 2, Row: 2}, placed); ok {
		t.Error("BlockAt empty cell = true, want false")
	}
}

func TestCellCenter(t *testing.T) {
	c := Cell{Col: 2, Row: 1}
	if got := c.Center(); got != (Point{X: 5, Y: 3}) {
		t.Errorf("Center() = %v, want (5, 3)", got)
	}
}

func TestCellForCenter(t *testing.T) {
	b, err := New(testDef())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if c, ok := b.CellForCenter(Point{X: 3, Y: 5}); !ok || c != (Cell{Col: 1, Row: 2}) {
		t.Errorf("CellForCenter(3,5) = (%v, %v), want cell (1,2)", c, ok)
	}
	if _, ok := b.CellForCenter(Point{X: 2, Y: 4}); ok {
		t.Error("CellForCenter on even-even point = true, want false")
	}
	if _, ok := b.CellForCenter(Point{X: 9, Y: 1}); ok {
		t.Error("CellForCenter outside board = true, want false")
	}
}

func TestParseBlockType(t *testing.T) {
	for _, tc := range []struct {
		sym  string
		want BlockType
	}{
		{"A", Reflect},
		{"B", Opaque},
		{"C", Refract},
	} {
		got, err := ParseBlockType(tc.sym)
		if err != nil {
			t.Errorf("ParseBlockType(%q) error: %v", tc.sym, err)
		}
		if got != tc.want {
			t.Errorf("ParseBlockType(%q) = %v, want %v", tc.sym, got, tc.want)
		}
		if got.String() != tc.sym {
			t.Errorf("String() = %q, want %q", got.String(), tc.sym)
		}
	}

	if _, err := ParseBlockType("D"); !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("ParseBlockType(D) error = %v, want INVALID_TOKEN", err)
	}
}

func TestInventory(t *testing.T) {
	inv := Inventory{Reflect: 2, Opaque: 1, Refract: 3}
	if got := inv.Total(); got != 6 {
		t.Errorf("Total() = %d, want 6", got)
	}
	if got := inv.Count(Refract); got != 3 {
		t.Errorf("Count(Refract) = %d, want 3", got)
	}
}
