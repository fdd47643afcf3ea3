package geom

import "math"

// Intersection ranks a selection hit. Depth is the device-space depth of the
// hit sample, Distance the squared device-space distance from the test point.
// Lower depth wins, distance breaks ties.
//
// The zero value is the invalid intersection.
type Intersection struct {
	Depth    float64
	Distance float64
	valid    bool
}

// NewIntersection builds a valid intersection, or the invalid one if either
// value is not finite.
func NewIntersection(depth, distance float64) Intersection {
	if !finite(depth) || !finite(distance) {
		return Intersection{}
	}
	return Intersection{Depth: depth, Distance: distance, valid: true}
}

func (i Intersection) Valid() bool {
	return i.valid
}

// Less reports whether i is a better hit than o. An invalid intersection is
// never better than anything.
func (i Intersection) Less(o Intersection) bool {
	if !i.valid {
		return false
	}
	if !o.valid {
		return true
	}
	if i.Depth != o.Depth {
		return i.Depth < o.Depth
	}
	return i.Distance < o.Distance
}

// Compare orders intersections best first, for use with slices.SortStableFunc.
func (i Intersection) Compare(o Intersection) int {
	switch {
	case i.Less(o):
		return -1
	case o.Less(i):
		return 1
	}
	return 0
}

// Biased returns a copy moved towards the viewer by w in depth.
func (i Intersection) Biased(w float64) Intersection {
	if !i.valid {
		return i
	}
	return NewIntersection(i.Depth-w, i.Distance)
}

// Best returns the better of a and b, preferring a on ties.
func Best(a, b Intersection) Intersection {
	if b.Less(a) {
		return b
	}
	return a
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
