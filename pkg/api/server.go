// Package api exposes the solver as an HTTP service. A solve request
// carries a puzzle text; the response carries the solved board plus the
// search diagnostics. Solutions are cached by board key when a cache is
// configured, and recorded to the store when one is configured.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gitrdm/goarc/pkg/csp"
	"github.com/gitrdm/goarc/pkg/storage"
	redisstore "github.com/gitrdm/goarc/pkg/storage/redis"
	"github.com/gitrdm/goarc/pkg/sudoku"
)

// Server encapsulates the HTTP API server.
type Server struct {
	store  *storage.Store
	cache  *redisstore.SolutionCache
	server *http.Server
}

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	// Puzzle is the board text, one row per line, 0 for blank
	Puzzle string `json:"puzzle"`

	// Name is an optional label for the recorded puzzle
	Name string `json:"name,omitempty"`

	// Plain disables constraint propagation during search
	Plain bool `json:"plain,omitempty"`
}

// SolveResponse is the body of a successful solve.
type SolveResponse struct {
	Cells         string `json:"cells"`
	Board         string `json:"board"`
	SearchCalls   int    `json:"search_calls"`
	DeadEnds      int    `json:"dead_ends"`
	PropagationUS int64  `json:"propagation_us"`
	SearchUS      int64  `json:"search_us"`
	Cached        bool   `json:"cached"`
}

// NewServer creates a new API server instance. The store and cache are
// both optional; a nil store skips solve recording and puzzle listing,
// a nil cache skips solution caching.
func NewServer(addr string, st *storage.Store, cache *redisstore.SolutionCache) *Server {
	s := &Server{store: st, cache: cache}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/solve", s.handleSolve)
	mux.HandleFunc("/v1/puzzles", s.handlePuzzles)

	handler := withLogging(withRecovery(mux))

	if addr == "" {
		addr = ":8090"
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start runs the HTTP server (blocking).
func (s *Server) Start() error {
	slog.Info("server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("server stopping")
	return s.server.Shutdown(ctx)
}

// handleSolve parses the puzzle, runs propagation and search, and
// returns the solved board with diagnostics.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json_body")
		return
	}

	grid, err := sudoku.Parse(req.Puzzle)
	if err != nil {
		GoarcSolveTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, "invalid_puzzle")
		return
	}

	if s.cache != nil && !req.Plain {
		if sol, ok := s.cache.Get(r.Context(), grid.Key()); ok {
			GoarcSolveTotal.WithLabelValues("cached").Inc()
			s.writeSolution(w, grid, SolveResponse{
				Cells:         sol.Cells,
				SearchCalls:   sol.SearchCalls,
				DeadEnds:      sol.DeadEnds,
				PropagationUS: sol.Propagation.Microseconds(),
				SearchUS:      sol.Search.Microseconds(),
				Cached:        true,
			})
			return
		}
	}

	solver, err := sudoku.NewSolver(grid)
	if err != nil {
		if errors.Is(err, csp.ErrInvalidConstraint) {
			GoarcSolveTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, "invalid_puzzle")
			return
		}
		slog.Error("failed to build solver", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	start := time.Now()
	var (
		assignment csp.Assignment[int]
		ok         bool
	)
	if req.Plain {
		assignment, ok = solver.SearchWithoutInference()
	} else {
		if !solver.Propagate() {
			GoarcSolveTotal.WithLabelValues("unsolvable").Inc()
			writeError(w, http.StatusUnprocessableEntity, "unsolvable_puzzle")
			return
		}
		assignment, ok = solver.Search()
	}
	GoarcSolveDuration.Observe(time.Since(start).Seconds())

	stats := solver.Monitor().Stats()
	GoarcSearchCalls.Add(float64(stats.SearchCalls))
	GoarcDeadEnds.Add(float64(stats.DeadEnds))

	if !ok {
		GoarcSolveTotal.WithLabelValues("unsolvable").Inc()
		writeError(w, http.StatusUnprocessableEntity, "unsolvable_puzzle")
		return
	}

	solved, err := grid.Apply(assignment)
	if err != nil {
		slog.Error("failed to apply solution", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	GoarcSolveTotal.WithLabelValues("solved").Inc()
	resp := SolveResponse{
		Cells:         solved.Key(),
		SearchCalls:   stats.SearchCalls,
		DeadEnds:      stats.DeadEnds,
		PropagationUS: stats.LastPropagation.Microseconds(),
		SearchUS:      stats.LastSearch.Microseconds(),
	}

	if s.cache != nil && !req.Plain {
		s.cache.Set(r.Context(), grid.Key(), redisstore.Solution{
			Cells:       resp.Cells,
			SearchCalls: resp.SearchCalls,
			DeadEnds:    resp.DeadEnds,
			Propagation: stats.LastPropagation,
			Search:      stats.LastSearch,
		})
	}
	s.record(r.Context(), req.Name, grid, resp, stats)

	s.writeSolution(w, grid, resp)
}

// record persists the puzzle and its solve result, best effort.
func (s *Server) record(ctx context.Context, name string, grid *sudoku.Grid, resp SolveResponse, stats csp.Stats[int]) {
	if s.store == nil {
		return
	}
	if name == "" {
		name = "adhoc"
	}
	p, err := s.store.SavePuzzle(name, grid.Size, grid.Key())
	if err != nil {
		slog.Warn("failed to record puzzle", "error", err)
		return
	}
	_, err = s.store.SaveResult(storage.Result{
		PuzzleID:    p.ID,
		Cells:       resp.Cells,
		SearchCalls: stats.SearchCalls,
		DeadEnds:    stats.DeadEnds,
		Propagation: stats.LastPropagation,
		Search:      stats.LastSearch,
	})
	if err != nil {
		slog.Warn("failed to record result", "error", err)
	}
}

func (s *Server) writeSolution(w http.ResponseWriter, grid *sudoku.Grid, resp SolveResponse) {
	if solved, err := sudoku.Parse(boardText(grid.Size, resp.Cells)); err == nil {
		resp.Board = solved.String()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// boardText reshapes a row-major cell string into row-per-line text.
// Returns "" when the cell count does not match the board size, so a
// truncated cached payload degrades to a response without a board.
func boardText(size int, cells string) string {
	if len(cells) != size*size {
		return ""
	}
	out := make([]byte, 0, len(cells)+size)
	for row := 0; row < size; row++ {
		out = append(out, cells[row*size:(row+1)*size]...)
		out = append(out, '\n')
	}
	return string(out)
}

// handlePuzzles lists recorded puzzles.
func (s *Server) handlePuzzles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_not_configured")
		return
	}

	puzzles, err := s.store.ListPuzzles()
	if err != nil {
		slog.Error("failed to list puzzles", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}
	if puzzles == nil {
		puzzles = []storage.Puzzle{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(puzzles); err != nil {
		slog.Error("failed to encode puzzles", "error", err)
	}
}

// handleHealth returns simple status.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// statusWriter captures the HTTP status code for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware: Request Logging
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Middleware: Panic Recovery
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "internal_server_error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
