// Package csp provides a binary constraint satisfaction solver.
// This file defines the Store: the variable list, per-variable domains,
// and the binary constraint relation between variable pairs.
package csp

// pairKey is an ordered pair of variable names used to key the relation.
// The relation is stored under the orientation given in the edge list but
// is logically symmetric: lookups try both orientations.
type pairKey struct {
	a, b string
}

// valuePair is an ordered pair of values. The relation stores the
// symmetric closure of every allowed pair, so a membership test never
// needs to swap the value tuple, only the key orientation.
type valuePair[V comparable] struct {
	a, b V
}

// Store holds a constraint satisfaction problem:
//   - Variables: opaque names, fixed at construction
//   - Domains: one mutable candidate set per variable
//   - Relation: for each constrained pair, the set of jointly allowed
//     value pairs
//
// The variable set, edge set, and relation are immutable after
// construction. Domains remain mutable: the Solver prunes them during
// propagation and restores them across search branches. The relation is
// derived once from the initial domains and is never updated by
// propagation — revision must consult the original superset of values,
// not the currently pruned domains.
//
// Thread safety: a Store is safe for concurrent reads of its immutable
// structure, but domains are owned by a single solver at a time.
type Store[V comparable] struct {
	// variables holds all variable names in construction order.
	// This order is the deterministic tie-break for search heuristics.
	variables []string

	// domains maps each variable to its current candidate set
	domains map[string]*Domain[V]

	// relation maps an ordered variable pair, as given in the edge
	// list, to the symmetric closure of its allowed value pairs
	relation map[pairKey]map[valuePair[V]]struct{}

	// edges holds the constrained pairs in first-appearance order,
	// used to seed the propagation worklist deterministically
	edges []pairKey
}

// NewStore constructs a Store from variable names, initial domains, and
// a list of unordered variable pairs that must take different values.
// For each edge (A, B) the relation entry is built as
// {(a, b), (b, a) : a ∈ domain(A), b ∈ domain(B), a ≠ b}.
//
// Construction fails with an error wrapping ErrInvalidConstraint when a
// variable name is duplicated, a variable has no domain or an empty
// domain, an edge references an unknown variable, or an edge constrains
// a variable against itself. Duplicate edges are ignored in either
// orientation.
func NewStore[V comparable](variables []string, domains map[string][]V, edges [][2]string) (*Store[V], error) {
	s := &Store[V]{
		variables: make([]string, 0, len(variables)),
		domains:   make(map[string]*Domain[V], len(variables)),
		relation:  make(map[pairKey]map[valuePair[V]]struct{}, len(edges)),
		edges:     make([]pairKey, 0, len(edges)),
	}

	for _, name := range variables {
		if _, ok := s.domains[name]; ok {
			return nil, invalidConstraint("duplicate variable %q", name)
		}
		values, ok := domains[name]
		if !ok {
			return nil, invalidConstraint("variable %q has no domain", name)
		}
		d := NewDomain(values...)
		if d.Count() == 0 {
			return nil, invalidConstraint("variable %q has an empty domain", name)
		}
		s.variables = append(s.variables, name)
		s.domains[name] = d
	}

	for _, edge := range edges {
		key := pairKey{edge[0], edge[1]}
		da, ok := s.domains[key.a]
		if !ok {
			return nil, invalidConstraint("edge (%s, %s) references unknown variable %q", key.a, key.b, key.a)
		}
		db, ok := s.domains[key.b]
		if !ok {
			return nil, invalidConstraint("edge (%s, %s) references unknown variable %q", key.a, key.b, key.b)
		}
		if key.a == key.b {
			return nil, invalidConstraint("edge (%s, %s) constrains a variable against itself", key.a, key.b)
		}
		if _, ok := s.relation[key]; ok {
			continue // duplicate edge, relation entry already built
		}
		if _, ok := s.relation[pairKey{key.b, key.a}]; ok {
			continue // same pair in reversed orientation
		}

		allowed := make(map[valuePair[V]]struct{}, da.Count()*db.Count())
		for _, va := range da.Values() {
			for _, vb := range db.Values() {
				if va != vb {
					allowed[valuePair[V]{va, vb}] = struct{}{}
					allowed[valuePair[V]{vb, va}] = struct{}{}
				}
			}
		}
		s.relation[key] = allowed
		s.edges = append(s.edges, key)
	}

	return s, nil
}

// Variables returns the variable names in construction order.
// The returned slice is a copy.
func (s *Store[V]) Variables() []string {
	out := make([]string, len(s.variables))
	copy(out, s.variables)
	return out
}

// VariableCount returns the number of variables in the store.
func (s *Store[V]) VariableCount() int {
	return len(s.variables)
}

// Domain returns the current domain of the named variable, or nil if the
// variable is unknown. The returned domain is live: the solver mutates
// it during propagation.
func (s *Store[V]) Domain(name string) *Domain[V] {
	return s.domains[name]
}

// EdgeCount returns the number of distinct constrained pairs.
func (s *Store[V]) EdgeCount() int {
	return len(s.edges)
}

// Neighbors returns every variable that shares a constraint with x, in
// deterministic edge-list order. O(|edges|) per call; this is only used
// when re-enqueueing arcs after a revision, never on a per-value path.
func (s *Store[V]) Neighbors(x string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, e := range s.edges {
		var other string
		switch x {
		case e.a:
			other = e.b
		case e.b:
			other = e.a
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}

// Compatible reports whether value av for variable a and value bv for
// variable b may hold simultaneously. The relation is looked up under
// (a, b) first and (b, a) second; if neither orientation is constrained
// the pair is compatible by definition.
func (s *Store[V]) Compatible(a string, av V, b string, bv V) bool {
	allowed, constrained := s.allowedPairs(a, b)
	if !constrained {
		return true
	}
	_, ok := allowed[valuePair[V]{av, bv}]
	return ok
}

// allowedPairs returns the relation entry between a and b, trying both
// key orientations. The symmetric closure makes the value tuples valid
// under either orientation, so no swap of the tuple is needed.
func (s *Store[V]) allowedPairs(a, b string) (map[valuePair[V]]struct{}, bool) {
	if allowed, ok := s.relation[pairKey{a, b}]; ok {
		return allowed, true
	}
	if allowed, ok := s.relation[pairKey{b, a}]; ok {
		return allowed, true
	}
	return nil, false
}

// snapshotDomains returns a deep copy of every variable's domain.
// The copy shares no storage with the live domains, so a later restore
// is exact regardless of what propagation did in between.
func (s *Store[V]) snapshotDomains() map[string]*Domain[V] {
	snap := make(map[string]*Domain[V], len(s.domains))
	for name, d := range s.domains {
		snap[name] = d.Clone()
	}
	return snap
}

// setDomains replaces the store's domains wholesale with a snapshot.
// The snapshot is adopted as-is; callers hand over ownership.
func (s *Store[V]) setDomains(snap map[string]*Domain[V]) {
	s.domains = snap
}

// AllDifferent returns the edge list that pairwise constrains all of the
// given variables to take distinct values: one edge per unordered pair.
func AllDifferent(variables []string) [][2]string {
	var edges [][2]string
	for i := 0; i < len(variables)-1; i++ {
		for j := i + 1; j < len(variables); j++ {
			edges = append(edges, [2]string{variables[i], variables[j]})
		}
	}
	return edges
}
