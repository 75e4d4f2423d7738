package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/trace"
)

// DOTOptions configures diagram rendering.
type DOTOptions struct {
	// Detailed labels beam points with their lattice coordinates.
	// When false, beam points render as bare dots.
	Detailed bool
}

// dotScale converts lattice units to Graphviz inches. A cell spans two
// lattice units, so cells come out one inch wide.
const dotScale = 0.5

// Block fill colors by type.
var blockFill = [board.NumBlockTypes]string{"#7aa6c2", "#3d3d3d", "#8fbf8f"}

// ToDOT converts a board, a placement and the traced beams to Graphviz DOT.
// Every node is pinned to its lattice position, so the neato engine
// reproduces the puzzle geometry exactly. Render the result with [RenderSVG].
func ToDOT(b *board.Board, placed board.Placement, traj *trace.Trajectory, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("graph board {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=10];\n")
	buf.WriteString("\n")

	writeCells(&buf, b, placed)
	writeBeams(&buf, b, traj, opts)
	writeMarkers(&buf, b, traj)

	buf.WriteString("}\n")
	return buf.String()
}

func writeCells(buf *bytes.Buffer, b *board.Board, placed board.Placement) {
	for r := 0; r < b.Height; r++ {
		for c := 0; c < b.Width; c++ {
			cell := board.Cell{Col: c, Row: r}
			attrs := []string{
				"shape=box",
				"width=0.95",
				"height=0.95",
				"fixedsize=true",
				fmt.Sprintf("pos=%q", pinned(cell.Center())),
			}

			if t, blocked := b.BlockAt(cell, placed); blocked {
				attrs = append(attrs,
					fmt.Sprintf("label=%q", t.String()),
					"style=filled",
					fmt.Sprintf("fillcolor=%q", blockFill[t]),
				)
				if t == board.Opaque {
					attrs = append(attrs, "fontcolor=white")
				}
				if _, fixed := b.FixedAt(cell); fixed {
					attrs = append(attrs, "penwidth=2")
				}
			} else if b.IsOpen(cell) {
				attrs = append(attrs, "label=\"\"", "color=lightgrey")
			} else {
				attrs = append(attrs, "label=\"\"", "style=filled", "fillcolor=\"#e8e8e8\"", "color=grey")
			}

			fmt.Fprintf(buf, "  \"cell_%d_%d\" [%s];\n", c, r, strings.Join(attrs, ", "))
		}
	}
	buf.WriteString("\n")
}

func writeBeams(buf *bytes.Buffer, b *board.Board, traj *trace.Trajectory, opts DOTOptions) {
	for _, p := range traj.Points() {
		label := "\"\""
		if opts.Detailed {
			label = fmt.Sprintf("%q", fmt.Sprintf("(%d,%d)", p.X, p.Y))
		}
		fmt.Fprintf(buf, "  %q [shape=point, width=0.06, color=\"#d64545\", xlabel=%s, pos=%q];\n",
			pointID(p), label, pinned(p))
	}
	buf.WriteString("\n")

	// Forked and reflected beams retrace segments; draw each once.
	type segKey struct{ a, b board.Point }
	seen := make(map[segKey]bool)
	var keys []segKey
	for _, s := range traj.Segments() {
		a, bp := s.From, s.To
		if bp.Y < a.Y || (bp.Y == a.Y && bp.X < a.X) {
			a, bp = bp, a
		}
		k := segKey{a, bp}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			if keys[i].a.Y != keys[j].a.Y {
				return keys[i].a.Y < keys[j].a.Y
			}
			return keys[i].a.X < keys[j].a.X
		}
		if keys[i].b.Y != keys[j].b.Y {
			return keys[i].b.Y < keys[j].b.Y
		}
		return keys[i].b.X < keys[j].b.X
	})

	for _, k := range keys {
		fmt.Fprintf(buf, "  %q -- %q [color=\"#d64545\", penwidth=2];\n", pointID(k.a), pointID(k.b))
	}
	buf.WriteString("\n")
}

func writeMarkers(buf *bytes.Buffer, b *board.Board, traj *trace.Trajectory) {
	for i, l := range b.Lasers {
		fmt.Fprintf(buf, "  \"laser_%d\" [shape=triangle, width=0.2, height=0.2, style=filled, fillcolor=\"#d64545\", label=\"\", pos=%q];\n",
			i, pinned(board.Point{X: l.X, Y: l.Y}))
	}
	for i, p := range b.Targets {
		color := "#c23b3b"
		if traj.Contains(p) {
			color = "#2e8b57"
		}
		fmt.Fprintf(buf, "  \"target_%d\" [shape=doublecircle, width=0.1, height=0.1, label=\"\", color=%q, pos=%q];\n",
			i, color, pinned(p))
	}
}

// pinned formats a lattice point as a fixed neato position. The Y axis is
// negated because the lattice grows downward and Graphviz grows upward.
func pinned(p board.Point) string {
	return fmt.Sprintf("%.2f,%.2f!", float64(p.X)*dotScale, -float64(p.Y)*dotScale)
}

func pointID(p board.Point) string {
	return fmt.Sprintf("pt_%d_%d", p.X, p.Y)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
