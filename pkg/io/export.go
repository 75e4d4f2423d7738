package io

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/solve"
)

// Record is the serialized form of a solve run.
type Record struct {
	Board    BoardJSON     `json:"board"`
	Solution *SolutionJSON `json:"solution,omitempty"`
}

// BoardJSON is the serialized board definition.
type BoardJSON struct {
	Grid    [][]string     `json:"grid"`
	Stock   map[string]int `json:"stock,omitempty"`
	Lasers  []board.Laser  `json:"lasers"`
	Targets []board.Point  `json:"targets"`
}

// PlacedBlockJSON is one placed block in a serialized placement.
type PlacedBlockJSON struct {
	Col  int    `json:"col"`
	Row  int    `json:"row"`
	Type string `json:"type"`
}

// SolutionJSON is the serialized solver outcome.
type SolutionJSON struct {
	Solved     bool                 `json:"solved"`
	Placement  []PlacedBlockJSON    `json:"placement"`
	Targets    []solve.TargetStatus `json:"targets"`
	HitCount   int                  `json:"hit_count"`
	ElapsedMS  int64                `json:"elapsed_ms"`
	Seed       int64                `json:"seed"`
	Convention string               `json:"convention"`
	Mode       string               `json:"mode"`
	Explored   int                  `json:"explored"`
	Pruned     int                  `json:"pruned"`
}

// NewRecord builds a Record from a board and its solution.
func NewRecord(b *board.Board, sol solve.Solution) Record {
	return Record{
		Board:    encodeBoard(b),
		Solution: encodeSolution(sol),
	}
}

// encodeBoard serializes a board back into grid-token form.
func encodeBoard(b *board.Board) BoardJSON {
	grid := make([][]string, b.Height)
	for r := 0; r < b.Height; r++ {
		grid[r] = make([]string, b.Width)
		for c := 0; c < b.Width; c++ {
			grid[r][c] = b.Token(board.Cell{Col: c, Row: r})
		}
	}

	var stock map[string]int
	if b.Stock.Total() > 0 {
		stock = make(map[string]int)
		for t := board.BlockType(0); t < board.NumBlockTypes; t++ {
			if n := b.Stock.Count(t); n > 0 {
				stock[t.String()] = n
			}
		}
	}

	return BoardJSON{
		Grid:    grid,
		Stock:   stock,
		Lasers:  b.Lasers,
		Targets: b.Targets,
	}
}

func encodeSolution(sol solve.Solution) *SolutionJSON {
	placed := make([]PlacedBlockJSON, 0, len(sol.Placement))
	for cell, t := range sol.Placement {
		placed = append(placed, PlacedBlockJSON{Col: cell.Col, Row: cell.Row, Type: t.String()})
	}
	sort.Slice(placed, func(i, j int) bool {
		if placed[i].Row != placed[j].Row {
			return placed[i].Row < placed[j].Row
		}
		return placed[i].Col < placed[j].Col
	})

	return &SolutionJSON{
		Solved:     sol.Solved,
		Placement:  placed,
		Targets:    sol.Targets,
		HitCount:   sol.HitCount,
		ElapsedMS:  sol.Elapsed.Milliseconds(),
		Seed:       sol.Seed,
		Convention: string(sol.Convention),
		Mode:       string(sol.Mode),
		Explored:   sol.Explored,
		Pruned:     sol.Pruned,
	}
}

// MarshalBoard serializes just the board definition in canonical form.
// Used to content-address boards for cache keys.
func MarshalBoard(b *board.Board) ([]byte, error) {
	return json.Marshal(encodeBoard(b))
}

// WriteJSON encodes a record as indented JSON and writes it to w.
func WriteJSON(rec Record, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// ExportJSON writes a record to the given file path.
func ExportJSON(rec Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(rec, f)
}
