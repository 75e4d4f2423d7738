package io

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/errors"
	"github.com/lazorkit/lazor/pkg/solve"
	"github.com/lazorkit/lazor/pkg/trace"
)

// ReadJSON decodes a record from r. The board is not validated here; call
// [Record.BuildBoard] to construct and validate it.
func ReadJSON(r io.Reader) (Record, error) {
	var rec Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rec); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode run record")
	}
	return rec, nil
}

// ImportJSON reads a record from the given file path.
func ImportJSON(path string) (Record, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Record{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Record{}, err
	}
	defer f.Close()
	return ReadJSON(f)
}

// BuildBoard validates the serialized board and constructs it.
func (rec Record) BuildBoard() (*board.Board, error) {
	var stock board.Inventory
	for sym, n := range rec.Board.Stock {
		t, err := board.ParseBlockType(sym)
		if err != nil {
			return nil, err
		}
		stock[t] = n
	}

	return board.New(board.Definition{
		Grid:    rec.Board.Grid,
		Stock:   stock,
		Lasers:  rec.Board.Lasers,
		Targets: rec.Board.Targets,
	})
}

// BuildSolution reconstructs the solver outcome recorded in rec, validating
// the placement against the board.
func (rec Record) BuildSolution(b *board.Board) (solve.Solution, error) {
	placed, err := rec.BuildPlacement(b)
	if err != nil {
		return solve.Solution{}, err
	}

	return solve.Solution{
		Solved:     rec.Solution.Solved,
		Placement:  placed,
		Targets:    rec.Solution.Targets,
		HitCount:   rec.Solution.HitCount,
		Elapsed:    time.Duration(rec.Solution.ElapsedMS) * time.Millisecond,
		Seed:       rec.Solution.Seed,
		Convention: trace.Convention(rec.Solution.Convention),
		Mode:       solve.Mode(rec.Solution.Mode),
		Explored:   rec.Solution.Explored,
		Pruned:     rec.Solution.Pruned,
	}, nil
}

// BuildPlacement validates the serialized placement against the board and
// converts it back to map form.
func (rec Record) BuildPlacement(b *board.Board) (board.Placement, error) {
	if rec.Solution == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "record has no solution")
	}

	placed := make(board.Placement, len(rec.Solution.Placement))
	for _, p := range rec.Solution.Placement {
		t, err := board.ParseBlockType(p.Type)
		if err != nil {
			return nil, err
		}
		cell := board.Cell{Col: p.Col, Row: p.Row}
		if !b.IsOpen(cell) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"placement targets non-open cell (%d, %d)", p.Col, p.Row)
		}
		if _, dup := placed[cell]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"duplicate placement at cell (%d, %d)", p.Col, p.Row)
		}
		placed[cell] = t
	}
	return placed, nil
}
