package types

// Set is a mutable collection of unique comparable values. Elements that
// are not comparable (slices, maps, functions) must not be added; they make
// the underlying map operations panic.
type Set struct {
	items map[any]struct{}
}

// NewSet creates a new Set populated with the given items.
func NewSet(items ...any) *Set {
	s := &Set{
		items: make(map[any]struct{}, len(items)),
	}
	for _, item := range items {
		s.items[item] = struct{}{}
	}

	return s
}

// Add inserts an item into the set.
func (s *Set) Add(item any) {
	s.items[item] = struct{}{}
}

// Remove deletes an item from the set, if present.
func (s *Set) Remove(item any) {
	delete(s.items, item)
}

// Contains reports whether the item is a member of the set.
func (s *Set) Contains(item any) bool {
	_, ok := s.items[item]

	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns the members of the set in unspecified order.
func (s *Set) Items() []any {
	out := make([]any, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}

	return out
}

// Equal reports whether both sets contain exactly the same members.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}

	for item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}

	return true
}

// Frozen returns an immutable copy of the set.
func (s *Set) Frozen() FrozenSet {
	return NewFrozenSet(s.Items()...)
}

// FrozenSet is an immutable collection of unique comparable values. It is
// constructed with its full membership and never changes afterwards.
type FrozenSet struct {
	items map[any]struct{}
}

// NewFrozenSet creates a new FrozenSet holding the given items.
func NewFrozenSet(items ...any) FrozenSet {
	fs := FrozenSet{
		items: make(map[any]struct{}, len(items)),
	}
	for _, item := range items {
		fs.items[item] = struct{}{}
	}

	return fs
}

// Contains reports whether the item is a member of the set.
func (fs FrozenSet) Contains(item any) bool {
	_, ok := fs.items[item]

	return ok
}

// Len returns the number of members.
func (fs FrozenSet) Len() int {
	return len(fs.items)
}

// Items returns the members of the set in unspecified order.
func (fs FrozenSet) Items() []any {
	out := make([]any, 0, len(fs.items))
	for item := range fs.items {
		out = append(out, item)
	}

	return out
}

// Equal reports whether both frozen sets contain exactly the same members.
func (fs FrozenSet) Equal(other FrozenSet) bool {
	if fs.Len() != other.Len() {
		return false
	}

	for item := range fs.items {
		if !other.Contains(item) {
			return false
		}
	}

	return true
}
