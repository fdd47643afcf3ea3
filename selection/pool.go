package selection

import (
	"slices"

	"github.com/gekko3d/mapedit/geom"
)

type Entry[T comparable] struct {
	Intersection geom.Intersection
	Value        T
}

// Pool ranks candidates by intersection, best first. A candidate appears at
// most once, with the best intersection it was ever added with. Equal
// intersections keep insertion order.
type Pool[T comparable] struct {
	entries []Entry[T]
	known   map[T]geom.Intersection
}

func NewPool[T comparable]() *Pool[T] {
	return &Pool[T]{known: make(map[T]geom.Intersection)}
}

// Add inserts v. Invalid intersections are dropped.
func (p *Pool[T]) Add(i geom.Intersection, v T) {
	if !i.Valid() {
		return
	}
	if p.known == nil {
		p.known = make(map[T]geom.Intersection)
	}
	if prev, ok := p.known[v]; ok {
		if !i.Less(prev) {
			return
		}
		p.entries = slices.DeleteFunc(p.entries, func(e Entry[T]) bool { return e.Value == v })
	}
	p.known[v] = i

	// Insert after every entry that is not worse.
	idx, _ := slices.BinarySearchFunc(p.entries, i, func(e Entry[T], target geom.Intersection) int {
		if target.Less(e.Intersection) {
			return 1
		}
		return -1
	})
	p.entries = slices.Insert(p.entries, idx, Entry[T]{Intersection: i, Value: v})
}

func (p *Pool[T]) Empty() bool {
	return len(p.entries) == 0
}

func (p *Pool[T]) Len() int {
	return len(p.entries)
}

// Best returns the top ranked candidate.
func (p *Pool[T]) Best() (Entry[T], bool) {
	if len(p.entries) == 0 {
		return Entry[T]{}, false
	}
	return p.entries[0], true
}

// Entries returns the ranking, best first. The slice must not be modified.
func (p *Pool[T]) Entries() []Entry[T] {
	return p.entries
}

func (p *Pool[T]) Values() []T {
	out := make([]T, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Value
	}
	return out
}

// Merge adds every candidate of other with its depth moved towards the viewer
// by bias, so a positive bias ranks other's candidates ahead of equally deep
// ones already here.
func (p *Pool[T]) Merge(other *Pool[T], bias float64) {
	for _, e := range other.entries {
		p.Add(e.Intersection.Biased(bias), e.Value)
	}
}
