// Package storage persists puzzles and recorded solve results.
package storage

import "time"

// Puzzle is a stored puzzle definition.
type Puzzle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Size      int       `json:"size"`
	Cells     string    `json:"cells"` // row-major digit string, 0 = blank
	CreatedAt time.Time `json:"created_at"`
}

// Result is one recorded solve of a stored puzzle, including the solver
// diagnostics captured at the time.
type Result struct {
	ID          int64         `json:"id"`
	PuzzleID    string        `json:"puzzle_id"`
	Cells       string        `json:"cells"` // solved board, row-major digits
	SearchCalls int           `json:"search_calls"`
	DeadEnds    int           `json:"dead_ends"`
	Propagation time.Duration `json:"propagation"`
	Search      time.Duration `json:"search"`
	CreatedAt   time.Time     `json:"created_at"`
}
