// Package reconcile compares the resources declared in a manifest with the
// resources found on disk.
package reconcile

import (
	"cmp"
	"fmt"
	"slices"
)

// Entry is the canonical comparison key for a resource. Two entries denote
// the same resource iff all three fields match.
type Entry struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	Type   string `json:"type" yaml:"type" toml:"type"`
	Tenant string `json:"tenant" yaml:"tenant" toml:"tenant"`
}

func (e Entry) String() string {
	return fmt.Sprintf("Entry(name=%s, type=%s, tenant=%s)", e.Name, e.Type, e.Tenant)
}

// Compare orders entries by Name, then Type, then Tenant.
func Compare(a, b Entry) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Tenant, b.Tenant)
}

// Set is an unordered collection of distinct entries.
type Set map[Entry]struct{}

// NewSet builds a set from entries; duplicates collapse.
func NewSet(entries ...Entry) Set {
	s := make(Set, len(entries))
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

// Add inserts e.
func (s Set) Add(e Entry) {
	s[e] = struct{}{}
}

// Contains reports whether e is in the set.
func (s Set) Contains(e Entry) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s)
}

// Difference returns the entries of s that are not in other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for e := range s {
		if !other.Contains(e) {
			out.Add(e)
		}
	}
	return out
}

// Sorted returns the entries ordered by Compare.
func (s Set) Sorted() []Entry {
	out := make([]Entry, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.SortFunc(out, Compare)
	return out
}
