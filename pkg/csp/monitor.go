package csp

// monitor.go: diagnostics for the solving process

import (
	"fmt"
	"sync"
	"time"
)

// Stats holds diagnostics about a solver's activity. Counters accumulate
// across calls for the lifetime of the solver; durations and the domain
// snapshot reflect the most recent propagation pass and search run.
// None of this feeds back into solving — it is observation only.
type Stats[V comparable] struct {
	// SearchCalls counts entries into the search routine, including
	// the calls on the eventually successful path.
	SearchCalls int

	// DeadEnds counts search nodes that exhausted every candidate
	// value without finding a completion.
	DeadEnds int

	// LastPropagation is the elapsed time of the most recent
	// successful propagation pass.
	LastPropagation time.Duration

	// LastSearch is the elapsed time of the most recent search run.
	LastSearch time.Duration

	// DomainsAfterPropagation is a read-only copy of each variable's
	// domain taken at the end of the most recent successful
	// propagation pass. Nil until propagation has succeeded once.
	DomainsAfterPropagation map[string][]V
}

// Monitor collects solver statistics. Every Solver owns one; it resets
// only when a new Solver is constructed.
type Monitor[V comparable] struct {
	mu    sync.Mutex
	stats Stats[V]
}

// NewMonitor creates an empty monitor.
func NewMonitor[V comparable]() *Monitor[V] {
	return &Monitor[V]{}
}

// Stats returns a copy of the current statistics. The domain snapshot in
// the copy is deep: mutating it does not affect the monitor.
func (m *Monitor[V]) Stats() Stats[V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.stats
	if m.stats.DomainsAfterPropagation != nil {
		out.DomainsAfterPropagation = make(map[string][]V, len(m.stats.DomainsAfterPropagation))
		for name, values := range m.stats.DomainsAfterPropagation {
			copied := make([]V, len(values))
			copy(copied, values)
			out.DomainsAfterPropagation[name] = copied
		}
	}
	return out
}

// recordCall records one entry into the search routine.
func (m *Monitor[V]) recordCall() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.SearchCalls++
}

// recordDeadEnd records a search node that failed on every value.
func (m *Monitor[V]) recordDeadEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.DeadEnds++
}

// recordPropagation records a successful propagation pass.
func (m *Monitor[V]) recordPropagation(elapsed time.Duration, domains map[string][]V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.LastPropagation = elapsed
	m.stats.DomainsAfterPropagation = domains
}

// recordSearch records a completed search run.
func (m *Monitor[V]) recordSearch(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.LastSearch = elapsed
}

// String returns a one-line summary of the statistics.
func (s Stats[V]) String() string {
	return fmt.Sprintf("Stats{calls: %d, dead ends: %d, propagation: %v, search: %v}",
		s.SearchCalls, s.DeadEnds, s.LastPropagation, s.LastSearch)
}
