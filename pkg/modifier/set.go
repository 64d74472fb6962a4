package modifier

// Set collects unique modifiers in first-seen order.
//
// Uniqueness is tested by pointer identity first (the common case when many
// geometry objects share one modifier instance) and only then by a content
// hash of the defining fields, so equal-but-distinct instances still collapse
// to one entry.
type Set struct {
	byHash map[uint64]*Modifier
	order  []*Modifier
	last   *Modifier
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byHash: make(map[uint64]*Modifier)}
}

// Add inserts m unless an identical or equal modifier is already present.
// It reports whether the set grew.
func (s *Set) Add(m *Modifier) bool {
	if m == nil {
		return false
	}
	// fast path: repeated references to the instance just inserted
	if s.last == m {
		return false
	}
	for _, seen := range s.order {
		if seen == m {
			s.last = m
			return false
		}
	}
	h := m.hash()
	if seen, ok := s.byHash[h]; ok && seen.Equal(m) {
		s.last = m
		return false
	}
	s.byHash[h] = m
	s.order = append(s.order, m)
	s.last = m
	return true
}

// Contains reports whether an identical or equal modifier is present.
func (s *Set) Contains(m *Modifier) bool {
	if m == nil {
		return false
	}
	for _, seen := range s.order {
		if seen == m {
			return true
		}
	}
	seen, ok := s.byHash[m.hash()]
	return ok && seen.Equal(m)
}

// Len returns the number of unique modifiers.
func (s *Set) Len() int {
	return len(s.order)
}

// Modifiers returns the unique modifiers in first-seen order. The returned
// slice is owned by the caller.
func (s *Set) Modifiers() []*Modifier {
	out := make([]*Modifier, len(s.order))
	copy(out, s.order)
	return out
}
