// Package board models a Lazor puzzle board on a doubled integer lattice.
//
// A board of W×H unit cells is addressed on a (2W+1)×(2H+1) lattice.
// Even-even lattice points are grid intersections where lasers travel and
// targets are tested; odd-odd points are cell centers where blocks sit.
// The cell at column c, row r has its center at lattice point (2c+1, 2r+1).
//
// Boards are validated at construction and immutable afterwards, so they
// can be shared freely across solver goroutines.
package board

import (
	"fmt"
	"sort"

	"github.com/lazorkit/lazor/pkg/errors"
)

// BlockType enumerates the three block kinds.
type BlockType int

const (
	// Reflect bounces a ray off the struck surface.
	Reflect BlockType = iota
	// Opaque absorbs a ray.
	Opaque
	// Refract passes a ray straight through and forks a reflected copy.
	Refract

	// NumBlockTypes is the number of block kinds.
	NumBlockTypes = 3
)

// blockSymbols maps block types to their board-file symbols.
var blockSymbols = [NumBlockTypes]string{"A", "B", "C"}

// String returns the board-file symbol for the block type ("A", "B" or "C").
func (t BlockType) String() string {
	if t < 0 || t >= NumBlockTypes {
		return fmt.Sprintf("BlockType(%d)", int(t))
	}
	return blockSymbols[t]
}

// ParseBlockType converts a board-file symbol into a BlockType.
func ParseBlockType(s string) (BlockType, error) {
	switch s {
	case "A":
		return Reflect, nil
	case "B":
		return Opaque, nil
	case "C":
		return Refract, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidToken, "unknown block symbol %q", s)
}

// Point is a lattice coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell addresses one unit cell of the W×H grid.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Center returns the lattice point at the middle of the cell.
func (c Cell) Center() Point {
	return Point{X: 2*c.Col + 1, Y: 2*c.Row + 1}
}

// Laser is a beam source: an origin lattice point and a diagonal direction.
// Both direction components are -1 or +1.
type Laser struct {
	X  int `json:"x"`
	Y  int `json:"y"`
	VX int `json:"vx"`
	VY int `json:"vy"`
}

// Inventory counts the movable blocks available per type.
type Inventory [NumBlockTypes]int

// Count returns the stock of the given type.
func (inv Inventory) Count(t BlockType) int { return inv[t] }

// Total returns the combined stock across all types.
func (inv Inventory) Total() int {
	n := 0
	for _, c := range inv {
		n += c
	}
	return n
}

// Placement maps open cells to the block type assigned to them.
// A Placement together with a board's fixed blocks defines a configuration.
type Placement map[Cell]BlockType

// Clone returns an independent copy of the placement.
func (p Placement) Clone() Placement {
	out := make(Placement, len(p))
	for c, t := range p {
		out[c] = t
	}
	return out
}

// Board is an immutable puzzle description.
type Board struct {
	Width  int
	Height int

	fixed map[Cell]BlockType
	open  map[Cell]bool

	Stock   Inventory
	Lasers  []Laser
	Targets []Point
}

// Definition is the raw material for a Board, produced by a parser.
// Grid tokens are "o" (open slot), "x" (forbidden) or a block symbol
// ("A", "B", "C") for a fixed block.
type Definition struct {
	Grid    [][]string
	Stock   Inventory
	Lasers  []Laser
	Targets []Point
}

// New validates a definition and constructs a Board.
// Validation failures are reported with errors package codes; a board that
// passes construction satisfies every invariant the tracer and solver rely on.
func New(def Definition) (*Board, error) {
	if len(def.Grid) == 0 || len(def.Grid[0]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "empty grid")
	}

	height := len(def.Grid)
	width := len(def.Grid[0])

	b := &Board{
		Width:   width,
		Height:  height,
		fixed:   make(map[Cell]BlockType),
		open:    make(map[Cell]bool),
		Stock:   def.Stock,
		Lasers:  append([]Laser(nil), def.Lasers...),
		Targets: append([]Point(nil), def.Targets...),
	}

	for r, row := range def.Grid {
		if len(row) != width {
			return nil, errors.New(errors.ErrCodeInvalidGrid,
				"row %d has %d cells, want %d", r, len(row), width)
		}
		for c, tok := range row {
			cell := Cell{Col: c, Row: r}
			switch tok {
			case "o":
				b.open[cell] = true
			case "x":
				// Forbidden: neither placeable nor fixed.
			case "A", "B", "C":
				t, _ := ParseBlockType(tok)
				b.fixed[cell] = t
			default:
				return nil, errors.New(errors.ErrCodeInvalidToken,
					"unknown token %q at row %d col %d", tok, r, c)
			}
		}
	}

	for i, l := range def.Lasers {
		if !b.InLattice(Point{X: l.X, Y: l.Y}) {
			return nil, errors.New(errors.ErrCodeInvalidLaser,
				"laser %d origin (%d, %d) outside lattice", i, l.X, l.Y)
		}
		if (l.VX != 1 && l.VX != -1) || (l.VY != 1 && l.VY != -1) {
			return nil, errors.New(errors.ErrCodeInvalidLaser,
				"laser %d direction (%d, %d) is not diagonal", i, l.VX, l.VY)
		}
	}

	for i, p := range def.Targets {
		if !b.InLattice(p) {
			return nil, errors.New(errors.ErrCodeInvalidTarget,
				"target %d at (%d, %d) outside lattice", i, p.X, p.Y)
		}
	}

	for t, n := range def.Stock {
		if n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidStock,
				"negative stock %d for block %s", n, BlockType(t))
		}
	}
	if total := def.Stock.Total(); total > len(b.open) {
		return nil, errors.New(errors.ErrCodeInvalidStock,
			"%d movable blocks but only %d open slots", total, len(b.open))
	}

	return b, nil
}

// InLattice reports whether p lies inside the doubled grid, borders included.
func (b *Board) InLattice(p Point) bool {
	return p.X >= 0 && p.X <= 2*b.Width && p.Y >= 0 && p.Y <= 2*b.Height
}

// InCells reports whether the cell address is on the board.
func (b *Board) InCells(c Cell) bool {
	return c.Col >= 0 && c.Col < b.Width && c.Row >= 0 && c.Row < b.Height
}

// FixedAt returns the fixed block occupying the cell, if any.
func (b *Board) FixedAt(c Cell) (BlockType, bool) {
	t, ok := b.fixed[c]
	return t, ok
}

// IsOpen reports whether the cell may receive a movable block.
func (b *Board) IsOpen(c Cell) bool { return b.open[c] }

// BlockAt resolves the block occupying a cell under the given placement.
// Fixed blocks shadow placements; by construction a valid placement never
// targets a fixed or forbidden cell.
func (b *Board) BlockAt(c Cell, placed Placement) (BlockType, bool) {
	if t, ok := b.fixed[c]; ok {
		return t, true
	}
	t, ok := placed[c]
	return t, ok
}

// CellForCenter maps an odd-odd lattice point to its cell.
// Returns false for intersection points or points outside the board.
func (b *Board) CellForCenter(p Point) (Cell, bool) {
	if p.X%2 != 1 || p.Y%2 != 1 {
		return Cell{}, false
	}
	c := Cell{Col: (p.X - 1) / 2, Row: (p.Y - 1) / 2}
	if !b.InCells(c) {
		return Cell{}, false
	}
	return c, true
}

// OpenCells returns the placeable cells in row-major order.
// The slice is freshly allocated; callers may reorder it.
func (b *Board) OpenCells() []Cell {
	cells := make([]Cell, 0, len(b.open))
	for c := range b.open {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// FixedCells returns the fixed block assignment as a fresh map.
func (b *Board) FixedCells() map[Cell]BlockType {
	out := make(map[Cell]BlockType, len(b.fixed))
	for c, t := range b.fixed {
		out[c] = t
	}
	return out
}

// Token returns the grid symbol for a cell: a block symbol for fixed
// blocks, "o" for open slots and "x" for forbidden cells.
func (b *Board) Token(c Cell) string {
	if t, ok := b.fixed[c]; ok {
		return t.String()
	}
	if b.open[c] {
		return "o"
	}
	return "x"
}
