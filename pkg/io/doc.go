// Package io provides JSON import and export for solve runs.
//
// A run record pairs a board definition with the solution found for it. The
// format is designed for:
//
//   - Archiving solver results alongside the exact board they solved
//   - Integration with external tools that consume solver output
//   - Round-trip preservation: export a run, re-import it, and re-trace the
//     placement to reproduce the recorded hits
//
// # JSON Format
//
//	{
//	  "board": {
//	    "grid": [["o", "o"], ["o", "x"]],
//	    "stock": {"A": 2, "C": 1},
//	    "lasers": [{"x": 0, "y": 1, "vx": 1, "vy": 1}],
//	    "targets": [{"x": 2, "y": 3}]
//	  },
//	  "solution": {
//	    "solved": true,
//	    "placement": [{"col": 1, "row": 0, "type": "A"}],
//	    "targets": [{"target": {"x": 2, "y": 3}, "hit": true}],
//	    "hit_count": 1,
//	    "elapsed_ms": 42,
//	    "seed": 3,
//	    "convention": "wall",
//	    "mode": "single"
//	  }
//	}
//
// Placements serialize as a sorted list because JSON objects cannot key on
// cell coordinates. Grid tokens and block symbols match the board-file
// format ("o", "x", "A", "B", "C").
//
// Use [ExportJSON] / [WriteJSON] to write and [ImportJSON] / [ReadJSON] to
// read. Import validates the board and placement, so a record that decodes
// successfully is safe to hand to the tracer.
package io
