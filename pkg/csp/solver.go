// Package csp provides a binary constraint satisfaction solver.
// This file implements the solving engine: AC-3 arc-consistency
// propagation and backtracking search, in a plain variant and a
// propagation-interleaved variant (maintaining arc consistency, MAC).
//
// # How the engine fits together
//
// The Store owns the problem structure and the mutable domains; the
// Solver drives them through two cooperating algorithms:
//
//	Propagate (AC-3):
//	  worklist of directed arcs (Xi, Xj); revising Xi against Xj
//	  removes every value of Xi with no support in Xj; an effective
//	  revision re-enqueues the arcs pointing into Xi
//
//	Search (MAC):
//	  depth-first assignment construction; each tentative assignment
//	  collapses the variable's domain to a singleton and re-runs full
//	  propagation; failed branches restore a deep domain snapshot
//
// Snapshot-and-restore acts as a per-branch transaction over the domain
// map: the undo is exact because snapshots share no storage with the
// live domains. There is a single logical thread of control, so no
// locking is involved anywhere on the solving path.
package csp

import (
	"time"
)

// Assignment maps variables to their chosen values. An assignment is
// complete when it covers every variable in the store.
type Assignment[V comparable] map[string]V

// arc is a directed pair (Xi, Xj): "prune Xi's domain using Xj's".
// Direction matters for the worklist — revising Xi requires re-checking
// the arcs pointing into Xi, not those into Xj.
type arc struct {
	xi, xj string
}

// Solver runs propagation and search over a Store. It owns the domain
// mutation/restoration protocol and records diagnostics in its Monitor.
//
// A Solver is single-threaded and runs each call to completion: there is
// no suspension, cancellation, or partial result. Callers needing a
// deadline can impose one between top-level calls. Statistics accumulate
// for the lifetime of the Solver and reset only by constructing a new one.
type Solver[V comparable] struct {
	store   *Store[V]
	monitor *Monitor[V]
}

// NewSolver creates a solver for the given store.
func NewSolver[V comparable](store *Store[V]) *Solver[V] {
	return &Solver[V]{
		store:   store,
		monitor: NewMonitor[V](),
	}
}

// Store returns the store this solver operates on.
func (s *Solver[V]) Store() *Store[V] {
	return s.store
}

// Monitor returns the solver's statistics monitor.
func (s *Solver[V]) Monitor() *Monitor[V] {
	return s.monitor
}

// Propagate enforces arc consistency over the whole store using AC-3.
//
// The worklist is seeded with both orientations of every constrained
// pair. Each popped arc (Xi, Xj) is revised: values of Xi that have no
// supporting value in Xj under the original relation are removed from
// Xi's domain in place. When a revision removes at least one value:
//
//   - an emptied domain is a hard stop: the current domain state is
//     provably unsatisfiable and Propagate returns false immediately;
//   - otherwise every arc (Xk, Xi) for neighbors Xk ≠ Xj is re-enqueued.
//     Xj is excluded because the direction just verified need not be
//     re-checked; re-adding it would be redundant work, not a bug.
//
// Returns true when the worklist drains with no domain collapsing. A
// true result means no more pruning is possible — it does not by itself
// mean the problem is satisfiable. On success the monitor records the
// elapsed time and a read-only snapshot of the pruned domains.
//
// Worst case O(e·d³): each of the e arcs can be re-enqueued O(d) times
// and each revision scans O(d²) value pairs. The worklist is re-seeded
// in full on every call; seeding only the arcs incident to a newly fixed
// variable would be a legitimate optimization for the MAC path, at the
// cost of diverging from the reference behavior.
func (s *Solver[V]) Propagate() bool {
	start := time.Now()

	queue := make([]arc, 0, 2*len(s.store.edges))
	for _, e := range s.store.edges {
		queue = append(queue, arc{e.a, e.b}, arc{e.b, e.a})
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		if !s.revise(a.xi, a.xj) {
			continue
		}
		if s.store.domains[a.xi].Count() == 0 {
			return false
		}
		for _, xk := range s.store.Neighbors(a.xi) {
			if xk == a.xj {
				continue
			}
			queue = append(queue, arc{xk, a.xi})
		}
	}

	s.monitor.recordPropagation(time.Since(start), s.pruneSnapshot())
	return true
}

// revise prunes Xi's domain against Xj, returning whether any value was
// removed. A value x survives only if some y currently in Xj's domain
// makes (x, y) an allowed pair. The relation is consulted in its stored
// orientation — it reflects the original domains, not the pruned ones.
func (s *Solver[V]) revise(xi, xj string) bool {
	allowed, constrained := s.store.allowedPairs(xi, xj)
	if !constrained {
		return false // unconstrained pair, nothing to prune
	}

	di := s.store.domains[xi]
	djValues := s.store.domains[xj].Values()

	revised := false
	for _, x := range di.Values() {
		supported := false
		for _, y := range djValues {
			if _, ok := allowed[valuePair[V]{x, y}]; ok {
				supported = true
				break
			}
		}
		if !supported {
			di.Remove(x)
			revised = true
		}
	}
	return revised
}

// Search performs backtracking search with interleaved propagation (MAC)
// and returns a complete, constraint-satisfying assignment, or ok=false
// if the search space is exhausted without finding one.
//
// After each tentative assignment the variable's domain is collapsed to
// the chosen value and full propagation re-runs, cascading the pruning
// to all variables rather than just the immediate neighbors. Failed
// branches restore the exact pre-assignment domains from a deep
// snapshot. This is the primary search path.
func (s *Solver[V]) Search() (Assignment[V], bool) {
	start := time.Now()
	assignment := make(Assignment[V], len(s.store.variables))
	found := s.searchWithInference(assignment)
	s.monitor.recordSearch(time.Since(start))
	if !found {
		return nil, false
	}
	return assignment, true
}

// SearchWithoutInference performs plain backtracking search, relying on
// incremental consistency checks against the partial assignment instead
// of propagation. Domains are read for variable and value ordering but
// never mutated, so no snapshots are needed.
//
// Interchangeable with Search; prunes strictly less per node.
func (s *Solver[V]) SearchWithoutInference() (Assignment[V], bool) {
	start := time.Now()
	assignment := make(Assignment[V], len(s.store.variables))
	found := s.searchPlain(assignment)
	s.monitor.recordSearch(time.Since(start))
	if !found {
		return nil, false
	}
	return assignment, true
}

// searchWithInference is the recursive MAC step. Each call is one search
// node; a call that exhausts every candidate value records a dead end.
func (s *Solver[V]) searchWithInference(assignment Assignment[V]) bool {
	s.monitor.recordCall()

	if len(assignment) == len(s.store.variables) {
		return true
	}

	variable := s.selectUnassigned(assignment)
	for _, value := range s.orderValues(variable) {
		if !s.isConsistent(variable, value, assignment) {
			continue
		}
		assignment[variable] = value

		saved := s.store.snapshotDomains()
		s.store.domains[variable].Fix(value)

		if s.Propagate() {
			if s.searchWithInference(assignment) {
				// Success: leave the propagated domains in place
				// and unwind without restoring.
				return true
			}
		}

		s.store.setDomains(saved)
		delete(assignment, variable)
	}

	s.monitor.recordDeadEnd()
	return false
}

// searchPlain is the recursive non-propagating step.
func (s *Solver[V]) searchPlain(assignment Assignment[V]) bool {
	s.monitor.recordCall()

	if len(assignment) == len(s.store.variables) {
		return true
	}

	variable := s.selectUnassigned(assignment)
	for _, value := range s.orderValues(variable) {
		if !s.isConsistent(variable, value, assignment) {
			continue
		}
		assignment[variable] = value
		if s.searchPlain(assignment) {
			return true
		}
		delete(assignment, variable)
	}

	s.monitor.recordDeadEnd()
	return false
}

// selectUnassigned chooses the unassigned variable with the smallest
// current domain ("fail first"). Ties go to the earliest variable in
// construction order, keeping the choice deterministic.
func (s *Solver[V]) selectUnassigned(assignment Assignment[V]) string {
	best := ""
	bestSize := -1
	for _, name := range s.store.variables {
		if _, assigned := assignment[name]; assigned {
			continue
		}
		size := s.store.domains[name].Count()
		if bestSize == -1 || size < bestSize {
			best = name
			bestSize = size
		}
	}
	return best
}

// orderValues enumerates a variable's current domain. No value-ordering
// heuristic is applied; the domain's own deterministic order is enough
// for reproducible runs. The returned slice is a copy, safe to iterate
// while the live domain is pruned and restored underneath it.
func (s *Solver[V]) orderValues(variable string) []V {
	return s.store.domains[variable].Values()
}

// isConsistent reports whether assigning value to variable violates any
// constraint against the already-assigned variables. Unconstrained pairs
// never conflict.
func (s *Solver[V]) isConsistent(variable string, value V, assignment Assignment[V]) bool {
	for other, otherValue := range assignment {
		if !s.store.Compatible(variable, value, other, otherValue) {
			return false
		}
	}
	return true
}

// pruneSnapshot captures each variable's post-propagation domain values
// for external inspection. The snapshot is independent of the live
// domains and plays no part in the algorithm's own state.
func (s *Solver[V]) pruneSnapshot() map[string][]V {
	snap := make(map[string][]V, len(s.store.domains))
	for name, d := range s.store.domains {
		snap[name] = d.Values()
	}
	return snap
}
