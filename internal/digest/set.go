package digest

import "slices"

// Set is a read-only collection of digests. Build it once with NewSet and
// share it freely between goroutines.
type Set struct {
	members map[Digest]struct{}
}

// NewSet collapses duplicates in digests into a set.
func NewSet(digests ...Digest) Set {
	members := make(map[Digest]struct{}, len(digests))
	for _, d := range digests {
		members[d] = struct{}{}
	}
	return Set{members: members}
}

// Contains reports whether d is a member.
func (s Set) Contains(d Digest) bool {
	_, ok := s.members[d]
	return ok
}

// Len returns the number of distinct digests.
func (s Set) Len() int {
	return len(s.members)
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []Digest {
	out := make([]Digest, 0, len(s.members))
	for d := range s.members {
		out = append(out, d)
	}
	slices.SortFunc(out, Digest.Compare)
	return out
}
