package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a puzzle or result does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS puzzles (
		puzzle_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		size INTEGER NOT NULL,
		cells TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS results (
		result_id INTEGER PRIMARY KEY AUTOINCREMENT,
		puzzle_id TEXT NOT NULL REFERENCES puzzles(puzzle_id),
		cells TEXT NOT NULL,
		search_calls INTEGER NOT NULL,
		dead_ends INTEGER NOT NULL,
		propagation_us INTEGER NOT NULL,
		search_us INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	-- Lookup of a puzzle's solve history, newest first
	CREATE INDEX IF NOT EXISTS idx_results_puzzle ON results(puzzle_id, created_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// SavePuzzle stores a puzzle definition and returns it with its
// generated ID and creation time filled in.
func (s *Store) SavePuzzle(name string, size int, cells string) (Puzzle, error) {
	p := Puzzle{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      size,
		Cells:     cells,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO puzzles (puzzle_id, name, size, cells, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Size, p.Cells, p.CreatedAt,
	)
	if err != nil {
		return Puzzle{}, fmt.Errorf("failed to insert puzzle: %w", err)
	}
	return p, nil
}

// GetPuzzle fetches a puzzle by ID.
func (s *Store) GetPuzzle(id string) (Puzzle, error) {
	var p Puzzle
	err := s.db.QueryRow(
		`SELECT puzzle_id, name, size, cells, created_at FROM puzzles WHERE puzzle_id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Size, &p.Cells, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Puzzle{}, ErrNotFound
	}
	if err != nil {
		return Puzzle{}, fmt.Errorf("failed to query puzzle: %w", err)
	}
	return p, nil
}

// ListPuzzles returns all stored puzzles, newest first.
func (s *Store) ListPuzzles() ([]Puzzle, error) {
	rows, err := s.db.Query(
		`SELECT puzzle_id, name, size, cells, created_at FROM puzzles ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query puzzles: %w", err)
	}
	defer rows.Close()

	var puzzles []Puzzle
	for rows.Next() {
		var p Puzzle
		if err := rows.Scan(&p.ID, &p.Name, &p.Size, &p.Cells, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan puzzle: %w", err)
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, rows.Err()
}

// SaveResult records a solve of a stored puzzle.
func (s *Store) SaveResult(r Result) (Result, error) {
	r.CreatedAt = time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO results (puzzle_id, cells, search_calls, dead_ends, propagation_us, search_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.PuzzleID, r.Cells, r.SearchCalls, r.DeadEnds,
		r.Propagation.Microseconds(), r.Search.Microseconds(), r.CreatedAt,
	)
	if err != nil {
		return Result{}, fmt.Errorf("failed to insert result: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read result id: %w", err)
	}
	return r, nil
}

// LatestResult returns the most recent recorded solve for a puzzle.
func (s *Store) LatestResult(puzzleID string) (Result, error) {
	var r Result
	var propagationUS, searchUS int64
	err := s.db.QueryRow(
		`SELECT result_id, puzzle_id, cells, search_calls, dead_ends, propagation_us, search_us, created_at
		 FROM results WHERE puzzle_id = ? ORDER BY created_at DESC, result_id DESC LIMIT 1`,
		puzzleID,
	).Scan(&r.ID, &r.PuzzleID, &r.Cells, &r.SearchCalls, &r.DeadEnds, &propagationUS, &searchUS, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrNotFound
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to query result: %w", err)
	}
	r.Propagation = time.Duration(propagationUS) * time.Microsecond
	r.Search = time.Duration(searchUS) * time.Microsecond
	return r, nil
}
