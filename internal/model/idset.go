package model

import "slices"

// IDSet is a relationship list with set semantics. Order is kept for stable
// output but carries no meaning; a nil set is an empty set.
type IDSet []int64

func (s IDSet) Contains(id int64) bool {
	return slices.Contains(s, id)
}

// Add appends id when missing and reports whether the set changed.
func (s *IDSet) Add(id int64) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove deletes every occurrence of id and reports whether the set changed.
func (s *IDSet) Remove(id int64) bool {
	if !s.Contains(id) {
		return false
	}
	*s = slices.DeleteFunc(*s, func(v int64) bool { return v == id })
	return true
}

// Slice returns a non-nil copy without duplicates, suitable for persisting.
func (s IDSet) Slice() []int64 {
	out := make([]int64, 0, len(s))
	for _, id := range s {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
