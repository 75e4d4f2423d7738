package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lazorkit/lazor/pkg/board"
	"github.com/lazorkit/lazor/pkg/solve"
)

// WriteReport writes the plain-text summary of a solve run to w.
func WriteReport(w io.Writer, b *board.Board, sol solve.Solution) error {
	status := "no solution"
	if sol.Solved {
		status = "solved"
	}
	if _, err := fmt.Fprintf(w, "Board %dx%d - %s in %s (seed %d, %s convention, %s mode)\n",
		b.Width, b.Height, status, sol.Elapsed.Round(reportUnit(sol.Elapsed)), sol.Seed, sol.Convention, sol.Mode); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nGrid:")
	for r := 0; r < b.Height; r++ {
		row := make([]string, b.Width)
		for c := 0; c < b.Width; c++ {
			cell := board.Cell{Col: c, Row: r}
			if t, ok := sol.Placement[cell]; ok {
				row[c] = strings.ToLower(t.String())
			} else {
				row[c] = b.Token(cell)
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(row, " "))
	}
	if len(sol.Placement) > 0 {
		fmt.Fprintln(w, "  (lowercase letters mark placed blocks)")
	}

	fmt.Fprintln(w, "\nTargets:")
	for _, st := range sol.Targets {
		mark := "miss"
		if st.Hit {
			mark = "hit"
		}
		fmt.Fprintf(w, "  (%d, %d)  %s\n", st.Target.X, st.Target.Y, mark)
	}
	fmt.Fprintf(w, "  %d of %d hit\n", sol.HitCount, len(sol.Targets))

	var used board.Inventory
	for _, t := range sol.Placement {
		used[t]++
	}
	fmt.Fprintf(w, "\nBlocks used: A=%d B=%d C=%d (stock A=%d B=%d C=%d)\n",
		used[board.Reflect], used[board.Opaque], used[board.Refract],
		b.Stock[board.Reflect], b.Stock[board.Opaque], b.Stock[board.Refract])

	_, err := fmt.Fprintf(w, "Search: %d nodes explored, %d branches pruned\n", sol.Explored, sol.Pruned)
	return err
}

// Report renders the plain-text summary as a string.
func Report(b *board.Board, sol solve.Solution) string {
	var sb strings.Builder
	_ = WriteReport(&sb, b, sol)
	return sb.String()
}

// reportUnit picks a rounding granularity so short runs still show digits.
func reportUnit(d time.Duration) time.Duration {
	switch {
	case d < time.Millisecond:
		return time.Microsecond
	case d < time.Second:
		return time.Millisecond
	default:
		return 10 * time.Millisecond
	}
}
