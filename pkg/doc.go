// Package pkg provides the core libraries for Lazor puzzle solving.
//
// # Overview
//
// Lazor solves grid optical puzzles: lasers travel diagonally across a
// board, blocks reflect, absorb, or split the beams, and a placement is a
// solution when the beams cover every target. The pkg directory is
// organized into four main areas:
//
//  1. [board], [trace], [solve] - Domain logic (board model, beam
//     propagation, placement search)
//  2. [cache], [store], [config] - Infrastructure (result cache, run
//     archive, settings)
//  3. [render], [io] - Output (reports, DOT/SVG diagrams, run records)
//  4. [pipeline] - Orchestration (parse → solve → render)
//
// # Architecture
//
// The typical data flow through Lazor:
//
//	.bff board file
//	        ↓
//	board (parse + validate)
//	        ↓
//	solve (backtracking search, trace as oracle)
//	        ↓
//	render / io (report, DOT, SVG, JSON record)
//
// The pipeline package ties the stages together and caches solve and
// render results by board content hash. The CLI and the HTTP API are thin
// layers over the pipeline.
package pkg
