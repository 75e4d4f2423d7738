package board

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/lazorkit/lazor/pkg/errors"
)

// stockLineRe matches stock declarations in the forms "A 2", "A: 2", "A=2".
var stockLineRe = regexp.MustCompile(`^(?i)([ABC])\s*[:=]?\s*(\d+)$`)

// ParseBFF reads a .bff board description from r and constructs a Board.
//
// The format consists of a GRID START / GRID STOP section of cell tokens
// ("o" open, "x" forbidden, "A"/"B"/"C" fixed blocks), stock lines per
// movable block type, "L x y vx vy" laser lines and "P x y" target lines.
// Blank lines and lines starting with '#' are ignored.
func ParseBFF(r io.Reader) (*Board, error) {
	var def Definition
	inGrid := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "GRID START"):
			inGrid = true
			continue
		case strings.HasPrefix(upper, "GRID STOP"):
			inGrid = false
			continue
		}

		if inGrid {
			row := strings.Fields(line)
			if len(def.Grid) > 0 && len(row) != len(def.Grid[0]) {
				return nil, errors.New(errors.ErrCodeInvalidGrid,
					"grid row %d has %d cells, want %d", len(def.Grid), len(row), len(def.Grid[0]))
			}
			def.Grid = append(def.Grid, row)
			continue
		}

		if m := stockLineRe.FindStringSubmatch(line); m != nil {
			t, _ := ParseBlockType(strings.ToUpper(m[1]))
			n, _ := strconv.Atoi(m[2])
			def.Stock[t] = n
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "L":
			nums, err := parseInts(fields[1:], 4)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidLaser, err, "laser line %q", line)
			}
			def.Lasers = append(def.Lasers, Laser{X: nums[0], Y: nums[1], VX: nums[2], VY: nums[3]})
		case "P":
			nums, err := parseInts(fields[1:], 2)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidTarget, err, "target line %q", line)
			}
			def.Targets = append(def.Targets, Point{X: nums[0], Y: nums[1]})
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unrecognized line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read board")
	}

	if len(def.Grid) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "no GRID section found")
	}

	return New(def)
}

// ParseBFFFile parses a .bff board description from a file on disk.
func ParseBFFFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return ParseBFF(f)
}

// parseInts converts the first n fields to integers, requiring at least n.
func parseInts(fields []string, n int) ([]int, error) {
	if len(fields) < n {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "want %d values, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
