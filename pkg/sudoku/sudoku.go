// Package sudoku encodes Sudoku boards as binary constraint problems.
// It owns everything the solver core does not: parsing a puzzle text
// into a grid, generating the variable/domain/edge triple with the
// row, column, and box all-different cliques, and rendering grids and
// candidate sets back to text.
package sudoku

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gitrdm/goarc/pkg/csp"
)

// Grid is a square Sudoku board. Cells are stored row-major; zero means
// blank. Size must be a perfect square so boxes tile the board.
type Grid struct {
	// Size is the side length (4 or 9)
	Size int

	// Box is the side length of a sub-box (2 or 3)
	Box int

	// Cells holds Size×Size values in row-major order, 0 for blank
	Cells []int
}

// Parse reads a puzzle from text: one row per whitespace-separated
// field, one digit per cell, '0' marking a blank. The row count fixes
// the board size, which must be a supported perfect square.
func Parse(text string) (*Grid, error) {
	rows := strings.Fields(text)
	if len(rows) == 0 {
		return nil, fmt.Errorf("sudoku: empty puzzle text")
	}

	size := len(rows)
	box := int(math.Sqrt(float64(size)))
	if box*box != size || size > 9 {
		return nil, fmt.Errorf("sudoku: unsupported board size %d", size)
	}

	g := &Grid{Size: size, Box: box, Cells: make([]int, 0, size*size)}
	for i, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("sudoku: row %d has %d cells, want %d", i+1, len(row), size)
		}
		for _, r := range row {
			if r < '0' || r > rune('0'+size) {
				return nil, fmt.Errorf("sudoku: row %d contains invalid cell %q", i+1, r)
			}
			g.Cells = append(g.Cells, int(r-'0'))
		}
	}
	return g, nil
}

// CellName returns the variable name for a 1-based row and column.
func CellName(row, col int) string {
	return fmt.Sprintf("X%d%d", row, col)
}

// Cell returns the value at a 1-based row and column, 0 for blank.
func (g *Grid) Cell(row, col int) int {
	return g.Cells[(row-1)*g.Size+(col-1)]
}

// Problem generates the constraint problem for the grid: one variable
// per cell (blank cells range over 1..Size, filled cells are singletons)
// and an all-different clique for every row, column, and box. The
// return values feed csp.NewStore directly.
func (g *Grid) Problem() ([]string, map[string][]int, [][2]string) {
	full := make([]int, g.Size)
	for i := range full {
		full[i] = i + 1
	}

	var variables []string
	domains := make(map[string][]int, g.Size*g.Size)
	for row := 1; row <= g.Size; row++ {
		for col := 1; col <= g.Size; col++ {
			name := CellName(row, col)
			variables = append(variables, name)
			if v := g.Cell(row, col); v != 0 {
				domains[name] = []int{v}
			} else {
				domains[name] = append([]int(nil), full...)
			}
		}
	}

	var edges [][2]string
	for row := 1; row <= g.Size; row++ {
		group := make([]string, 0, g.Size)
		for col := 1; col <= g.Size; col++ {
			group = append(group, CellName(row, col))
		}
		edges = append(edges, csp.AllDifferent(group)...)
	}
	for col := 1; col <= g.Size; col++ {
		group := make([]string, 0, g.Size)
		for row := 1; row <= g.Size; row++ {
			group = append(group, CellName(row, col))
		}
		edges = append(edges, csp.AllDifferent(group)...)
	}
	for boxRow := 0; boxRow < g.Box; boxRow++ {
		for boxCol := 0; boxCol < g.Box; boxCol++ {
			group := make([]string, 0, g.Size)
			for row := boxRow*g.Box + 1; row <= (boxRow+1)*g.Box; row++ {
				for col := boxCol*g.Box + 1; col <= (boxCol+1)*g.Box; col++ {
					group = append(group, CellName(row, col))
				}
			}
			edges = append(edges, csp.AllDifferent(group)...)
		}
	}

	return variables, domains, edges
}

// NewSolver builds the constraint store for the grid and returns a
// solver over it.
func NewSolver(g *Grid) (*csp.Solver[int], error) {
	store, err := csp.NewStore(g.Problem())
	if err != nil {
		return nil, err
	}
	return csp.NewSolver(store), nil
}

// Apply returns a new grid with blanks filled from a complete solver
// assignment. Fails if the assignment misses a cell or holds a value
// outside 1..Size.
func (g *Grid) Apply(assignment csp.Assignment[int]) (*Grid, error) {
	out := &Grid{Size: g.Size, Box: g.Box, Cells: make([]int, len(g.Cells))}
	copy(out.Cells, g.Cells)

	for row := 1; row <= g.Size; row++ {
		for col := 1; col <= g.Size; col++ {
			name := CellName(row, col)
			v, ok := assignment[name]
			if !ok {
				return nil, fmt.Errorf("sudoku: assignment is missing cell %s", name)
			}
			if v < 1 || v > g.Size {
				return nil, fmt.Errorf("sudoku: assignment value %d for %s out of range", v, name)
			}
			out.Cells[(row-1)*g.Size+(col-1)] = v
		}
	}
	return out, nil
}

// Complete returns true if no cell is blank.
func (g *Grid) Complete() bool {
	for _, v := range g.Cells {
		if v == 0 {
			return false
		}
	}
	return true
}

// Valid returns true if no row, column, or box repeats a value.
// Blank cells are ignored.
func (g *Grid) Valid() bool {
	groups := make(map[string][]int)
	for row := 1; row <= g.Size; row++ {
		for col := 1; col <= g.Size; col++ {
			v := g.Cell(row, col)
			if v == 0 {
				continue
			}
			boxID := ((row - 1) / g.Box * g.Box) + (col-1)/g.Box
			for _, key := range []string{
				fmt.Sprintf("r%d", row),
				fmt.Sprintf("c%d", col),
				fmt.Sprintf("b%d", boxID),
			} {
				groups[key] = append(groups[key], v)
			}
		}
	}
	for _, values := range groups {
		seen := make(map[int]bool, len(values))
		for _, v := range values {
			if seen[v] {
				return false
			}
			seen[v] = true
		}
	}
	return true
}

// Key returns the canonical cell string for the grid, used as a cache
// and lookup key: the digits in row-major order.
func (g *Grid) Key() string {
	var b strings.Builder
	b.Grow(len(g.Cells))
	for _, v := range g.Cells {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}

// String renders the board with box separators:
//
//	7 8 4 | 9 3 2 | 1 5 6
//	6 1 9 | 4 8 5 | 3 2 7
//	2 3 5 | 1 7 6 | 4 8 9
//	------+-------+------
//	...
//
// Blanks render as dots.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 1; row <= g.Size; row++ {
		for col := 1; col <= g.Size; col++ {
			if col > 1 {
				b.WriteByte(' ')
			}
			if v := g.Cell(row, col); v == 0 {
				b.WriteByte('.')
			} else {
				fmt.Fprintf(&b, "%d", v)
			}
			if col%g.Box == 0 && col < g.Size {
				b.WriteString(" |")
			}
		}
		b.WriteByte('\n')
		if row%g.Box == 0 && row < g.Size {
			b.WriteString(g.rowSeparator())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// rowSeparator builds the horizontal rule between box rows. Outer
// segments span a box of cells; inner segments pick up the extra
// padding around the '|' column dividers.
func (g *Grid) rowSeparator() string {
	segments := make([]string, g.Box)
	for i := range segments {
		width := g.Box * 2
		if i > 0 && i < g.Box-1 {
			width++
		}
		segments[i] = strings.Repeat("-", width)
	}
	return strings.Join(segments, "+")
}

// RenderDomains renders a per-cell candidate grid from a propagation
// snapshot, one sorted candidate run per cell. Cells the snapshot does
// not cover render as blank.
func (g *Grid) RenderDomains(domains map[string][]int) string {
	var b strings.Builder
	for row := 1; row <= g.Size; row++ {
		for col := 1; col <= g.Size; col++ {
			values := append([]int(nil), domains[CellName(row, col)]...)
			sort.Ints(values)

			var cell strings.Builder
			for _, v := range values {
				fmt.Fprintf(&cell, "%d", v)
			}
			fmt.Fprintf(&b, "%-*s ", g.Size, cell.String())
			if col%g.Box == 0 && col < g.Size {
				b.WriteString("| ")
			}
		}
		b.WriteByte('\n')
		if row%g.Box == 0 && row < g.Size {
			b.WriteString(strings.Repeat("-", g.Size*(g.Size+1)+2*(g.Box-1)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
