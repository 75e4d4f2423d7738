// Package render produces human-readable output from solve runs.
//
// Two renderers are provided:
//
//   - Report: a plain-text summary (grid with placed blocks, per-target
//     hit table, search statistics) for terminal output and archive files.
//   - ToDOT / RenderSVG: a Graphviz drawing of the board with every beam
//     segment, pinned to lattice coordinates so the geometry matches the
//     puzzle exactly.
//
// Both renderers are pure functions of the board and solution; the same run
// always renders identically, which makes the outputs safe to cache.
package render
