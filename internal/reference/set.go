// Package reference builds lookup structures from reference sheets.
package reference

import "sort"

// Set is a set of normalized values
type Set map[string]struct{}

// NewSet creates a set holding the given values
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts a value
func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Has reports membership
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of values
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the values in ascending order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Lookup holds the valid top-level values and the valid children of each.
// Every Children entry is non-empty. TopLevel and the Children keys may
// differ: a parent can have children without being declared top-level.
type Lookup struct {
	TopLevel Set
	Children map[string]Set
}

// NewLookup creates an empty lookup
func NewLookup() *Lookup {
	return &Lookup{
		TopLevel: make(Set),
		Children: make(map[string]Set),
	}
}

// AddChild associates child with parent, creating the entry if absent
func (l *Lookup) AddChild(parent, child string) {
	set, ok := l.Children[parent]
	if !ok {
		set = make(Set)
		l.Children[parent] = set
	}
	set.Add(child)
}

// ChildrenOf returns the child set of a parent
func (l *Lookup) ChildrenOf(parent string) (Set, bool) {
	set, ok := l.Children[parent]
	return set, ok
}

// Keys returns the child-map parents in ascending order
func (l *Lookup) Keys() []string {
	keys := make([]string, 0, len(l.Children))
	for k := range l.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
