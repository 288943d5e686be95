package csp

import (
	"reflect"
	"testing"
)

func TestNewDomain(t *testing.T) {
	d := NewDomain(3, 1, 2)

	if d.Count() != 3 {
		t.Errorf("Count() = %d, want 3", d.Count())
	}
	if got := d.Values(); !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("Values() = %v, want [3 1 2] (insertion order)", got)
	}
	for _, v := range []int{1, 2, 3} {
		if !d.Has(v) {
			t.Errorf("Has(%d) = false, want true", v)
		}
	}
	if d.Has(4) {
		t.Error("Has(4) = true, want false")
	}
}

func TestNewDomain_Duplicates(t *testing.T) {
	d := NewDomain(1, 2, 1, 3, 2)

	if d.Count() != 3 {
		t.Errorf("Count() = %d, want 3", d.Count())
	}
	if got := d.Values(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Values() = %v, want [1 2 3]", got)
	}
}

func TestDomain_Remove(t *testing.T) {
	d := NewDomain(1, 2, 3, 4)

	if !d.Remove(2) {
		t.Error("Remove(2) = false, want true")
	}
	if d.Remove(2) {
		t.Error("second Remove(2) = true, want false")
	}
	if got := d.Values(); !reflect.DeepEqual(got, []int{1, 3, 4}) {
		t.Errorf("Values() after remove = %v, want [1 3 4]", got)
	}

	// Remaining values must stay findable after the reindex.
	if !d.Has(3) || !d.Has(4) {
		t.Error("values after Remove are no longer found by Has")
	}
	if !d.Remove(4) || !d.Remove(1) || !d.Remove(3) {
		t.Error("draining the domain failed")
	}
	if d.Count() != 0 {
		t.Errorf("Count() after draining = %d, want 0", d.Count())
	}
}

func TestDomain_Fix(t *testing.T) {
	d := NewDomain(1, 2, 3)
	d.Fix(2)

	if !d.IsSingleton() {
		t.Fatal("IsSingleton() = false after Fix")
	}
	if d.SingletonValue() != 2 {
		t.Errorf("SingletonValue() = %d, want 2", d.SingletonValue())
	}
	if d.Has(1) || d.Has(3) {
		t.Error("Fix left other values in the domain")
	}
}

func TestDomain_CloneIsIndependent(t *testing.T) {
	d := NewDomain(1, 2, 3)
	c := d.Clone()

	d.Remove(2)
	if !c.Has(2) {
		t.Error("mutating the original changed the clone")
	}
	c.Remove(1)
	if !d.Has(1) {
		t.Error("mutating the clone changed the original")
	}
}

func TestDomain_Equal(t *testing.T) {
	a := NewDomain(1, 2, 3)
	b := NewDomain(3, 2, 1)
	c := NewDomain(1, 2)

	if !a.Equal(b) {
		t.Error("Equal() = false for same values in different order, want true")
	}
	if a.Equal(c) {
		t.Error("Equal() = true for different value sets, want false")
	}
	if a.Equal(nil) {
		t.Error("Equal(nil) = true, want false")
	}
}
