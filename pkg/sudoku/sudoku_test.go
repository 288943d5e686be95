package sudoku

import (
	"strings"
	"testing"
)

// solved9 is a known-valid completed 9×9 board.
var solved9 = []string{
	"784932156",
	"619485327",
	"235176489",
	"578261934",
	"341897562",
	"926543871",
	"453729618",
	"862314795",
	"197658243",
}

// puzzle9 blanks a deterministic scattering of cells from solved9, so
// the result is guaranteed solvable.
func puzzle9() string {
	rows := make([]string, len(solved9))
	for r, row := range solved9 {
		cells := []byte(row)
		for c := range cells {
			if (r+c)%3 == 0 {
				cells[c] = '0'
			}
		}
		rows[r] = string(cells)
	}
	return strings.Join(rows, "\n")
}

const puzzle4 = `
1030
0402
2103
0321
`

func TestParse(t *testing.T) {
	g, err := Parse(puzzle9())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.Size != 9 || g.Box != 3 {
		t.Errorf("Parse() size = %d, box = %d, want 9, 3", g.Size, g.Box)
	}
	if len(g.Cells) != 81 {
		t.Errorf("len(Cells) = %d, want 81", len(g.Cells))
	}
	if g.Cell(1, 1) != 0 {
		t.Errorf("Cell(1,1) = %d, want 0 (blanked)", g.Cell(1, 1))
	}
	if g.Cell(1, 2) != 8 {
		t.Errorf("Cell(1,2) = %d, want 8", g.Cell(1, 2))
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"empty", "   \n "},
		{"ragged row", "1234\n123\n3412\n4321"},
		{"bad cell", "12x4\n3412\n2143\n4321"},
		{"unsupported size", "123\n231\n312"},
		{"out of range digit", "1239\n3412\n2143\n4321"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(tc.text); err == nil {
				t.Error("Parse() error = nil, want error")
			}
		})
	}
}

func TestGrid_Problem(t *testing.T) {
	g, err := Parse(puzzle4)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	variables, domains, edges := g.Problem()

	if len(variables) != 16 {
		t.Errorf("len(variables) = %d, want 16", len(variables))
	}
	// 12 all-different groups of 4 cells, 6 pairs each.
	if len(edges) != 72 {
		t.Errorf("len(edges) = %d, want 72", len(edges))
	}
	if got := domains["X11"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("domain of pre-filled X11 = %v, want [1]", got)
	}
	if got := domains["X12"]; len(got) != 4 {
		t.Errorf("domain of blank X12 = %v, want 4 candidates", got)
	}
}

func TestSolve4x4(t *testing.T) {
	g, err := Parse(puzzle4)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	solver, err := NewSolver(g)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}

	if !solver.Propagate() {
		t.Fatal("Propagate() = false, want true")
	}
	assignment, ok := solver.Search()
	if !ok {
		t.Fatal("Search() found no solution, want one")
	}

	solved, err := g.Apply(assignment)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !solved.Complete() {
		t.Error("solved grid is not complete")
	}
	if !solved.Valid() {
		t.Errorf("solved grid is not valid:\n%s", solved)
	}
	if solved.Cell(1, 1) != 1 {
		t.Errorf("pre-filled cell changed: Cell(1,1) = %d, want 1", solved.Cell(1, 1))
	}
}

func TestSolve9x9(t *testing.T) {
	g, err := Parse(puzzle9())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	solver, err := NewSolver(g)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}

	if !solver.Propagate() {
		t.Fatal("Propagate() = false, want true")
	}
	assignment, ok := solver.Search()
	if !ok {
		t.Fatal("Search() found no solution, want one")
	}

	solved, err := g.Apply(assignment)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !solved.Complete() || !solved.Valid() {
		t.Errorf("solved grid invalid:\n%s", solved)
	}
	// Givens survive solving.
	for row := 1; row <= 9; row++ {
		for col := 1; col <= 9; col++ {
			if v := g.Cell(row, col); v != 0 && solved.Cell(row, col) != v {
				t.Errorf("given at (%d,%d) changed from %d to %d",
					row, col, v, solved.Cell(row, col))
			}
		}
	}

	stats := solver.Monitor().Stats()
	if stats.SearchCalls < 1 {
		t.Errorf("SearchCalls = %d, want >= 1", stats.SearchCalls)
	}
}

func TestGrid_String(t *testing.T) {
	full := `1234
3412
2143
4321`
	g, err := Parse(full)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := "1 2 | 3 4\n" +
		"3 4 | 1 2\n" +
		"----+----\n" +
		"2 1 | 4 3\n" +
		"4 3 | 2 1\n"
	if got := g.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestGrid_StringBlanks(t *testing.T) {
	g, err := Parse(puzzle4)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := g.String(); !strings.Contains(got, ".") {
		t.Errorf("String() of a puzzle with blanks has no dots:\n%s", got)
	}
}

func TestGrid_Key(t *testing.T) {
	g, err := Parse(puzzle4)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := g.Key(); got != "1030040221030321" {
		t.Errorf("Key() = %q, want %q", got, "1030040221030321")
	}
}

func TestGrid_Valid(t *testing.T) {
	g, err := Parse("1134\n3412\n2143\n4321")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if g.Valid() {
		t.Error("Valid() = true for a board with a row repeat, want false")
	}
}

func TestGrid_RenderDomains(t *testing.T) {
	g, err := Parse(puzzle4)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	solver, err := NewSolver(g)
	if err != nil {
		t.Fatalf("NewSolver() error = %v", err)
	}
	if !solver.Propagate() {
		t.Fatal("Propagate() = false, want true")
	}

	out := g.RenderDomains(solver.Monitor().Stats().DomainsAfterPropagation)
	if !strings.Contains(out, "|") {
		t.Errorf("RenderDomains() missing box separators:\n%s", out)
	}
	if len(strings.Split(strings.TrimRight(out, "\n"), "\n")) != 5 {
		t.Errorf("RenderDomains() should have 4 cell rows + 1 separator:\n%s", out)
	}
}
