// Package csp provides a binary constraint satisfaction solver built on
// arc-consistency propagation and backtracking search.
// This file defines the Domain type: the mutable candidate-value set
// attached to each variable.
package csp

// Domain is a finite set of candidate values for a single variable.
// Values keep their insertion order, so enumeration is deterministic:
// two solver runs over the same problem visit values in the same order,
// which keeps search results and tests reproducible. Go map iteration
// alone would not give that guarantee.
//
// Domains are mutated in place by propagation (values are pruned, never
// added) and restored wholesale from snapshots when a search branch is
// abandoned. A Domain is not safe for concurrent use; the solver that
// owns it is single-threaded by design.
type Domain[V comparable] struct {
	// values holds the members in insertion order
	values []V

	// index maps each member to its position in values
	index map[V]int
}

// NewDomain creates a domain from the given values.
// Duplicates are ignored; the first occurrence fixes the position.
func NewDomain[V comparable](values ...V) *Domain[V] {
	d := &Domain[V]{
		values: make([]V, 0, len(values)),
		index:  make(map[V]int, len(values)),
	}
	for _, v := range values {
		if _, ok := d.index[v]; ok {
			continue
		}
		d.index[v] = len(d.values)
		d.values = append(d.values, v)
	}
	return d
}

// Count returns the number of values in the domain.
// A count of zero signals an inconsistent state and is only ever
// observed on the propagation failure path.
func (d *Domain[V]) Count() int {
	return len(d.values)
}

// Has returns true if the domain contains the given value.
func (d *Domain[V]) Has(v V) bool {
	_, ok := d.index[v]
	return ok
}

// Remove deletes a value from the domain in place, preserving the order
// of the remaining values. Returns true if the value was present.
func (d *Domain[V]) Remove(v V) bool {
	at, ok := d.index[v]
	if !ok {
		return false
	}
	copy(d.values[at:], d.values[at+1:])
	d.values = d.values[:len(d.values)-1]
	delete(d.index, v)
	for i := at; i < len(d.values); i++ {
		d.index[d.values[i]] = i
	}
	return true
}

// Fix collapses the domain to the single given value.
// Used by the propagating search to pin a tentative assignment before
// re-running propagation.
func (d *Domain[V]) Fix(v V) {
	d.values = d.values[:0]
	d.values = append(d.values, v)
	d.index = map[V]int{v: 0}
}

// Values returns a copy of the domain's values in enumeration order.
// The copy is safe to hold across mutations of the domain, which is how
// search iterates candidate values while pruning is underway.
func (d *Domain[V]) Values() []V {
	out := make([]V, len(d.values))
	copy(out, d.values)
	return out
}

// Clone returns a deep, independent copy of the domain.
// Snapshots taken for backtracking must not share storage with the live
// domain, so both the slice and the index are rebuilt.
func (d *Domain[V]) Clone() *Domain[V] {
	c := &Domain[V]{
		values: make([]V, len(d.values)),
		index:  make(map[V]int, len(d.index)),
	}
	copy(c.values, d.values)
	for v, i := range d.index {
		c.index[v] = i
	}
	return c
}

// Equal returns true if both domains contain exactly the same values,
// regardless of order.
func (d *Domain[V]) Equal(other *Domain[V]) bool {
	if other == nil || len(d.values) != len(other.values) {
		return false
	}
	for _, v := range d.values {
		if _, ok := other.index[v]; !ok {
			return false
		}
	}
	return true
}

// IsSingleton returns true if the domain contains exactly one value.
func (d *Domain[V]) IsSingleton() bool {
	return len(d.values) == 1
}

// SingletonValue returns the single value of a singleton domain.
// Behavior is undefined if the domain is not a singleton.
func (d *Domain[V]) SingletonValue() V {
	return d.values[0]
}
