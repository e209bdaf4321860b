// Package octree implements a bounded-region point index used to
// deduplicate coordinates generated during mesh refinement. Points are
// stored with an integer payload identifier and looked up by proximity
// within a fixed tolerance.
package octree

import (
	"fmt"
	"math"
)

const (
	// Dimension is fixed at 3; the index partitions a rectangular box in
	// half along every axis when a leaf fills up.
	Dimension  = 3
	childCount = 1 << Dimension

	// Capacity is the number of points a leaf holds before subdividing.
	Capacity = 20

	// MaxDepth bounds recursive subdivision. A leaf at MaxDepth grows
	// beyond Capacity rather than bisecting boxes down to floating point
	// underflow when points cluster tighter than the tolerance.
	MaxDepth = 16
)

type storedPoint struct {
	x  [Dimension]float64
	id int
}

// Index is one node of the octree. A node is either a leaf holding up to
// Capacity stored points, or an interior node with exactly 8 children
// partitioning its box in half along every axis, never both. The root
// exclusively owns its subtree; children hold no parent references.
type Index struct {
	minimums  [Dimension]float64
	maximums  [Dimension]float64
	tolerance float64
	depth     int
	points    []storedPoint // leaf storage, nil once subdivided
	children  []*Index      // nil while leaf
}

// NewIndex creates an empty index covering the box [minimums, maximums].
// Callers must pre-expand the bounds by whatever edge allowance they need;
// no automatic expansion happens at the root. A tolerance <= 0 derives the
// default 1.0e-6 times the box diagonal; for a degenerate zero-size box the
// caller must supply a positive tolerance itself.
func NewIndex(minimums, maximums []float64, tolerance float64) *Index {
	if len(minimums) != Dimension || len(maximums) != Dimension {
		panic(fmt.Errorf("octree: bounds must have %d components, got %d and %d",
			Dimension, len(minimums), len(maximums)))
	}
	oc := &Index{}
	copy(oc.minimums[:], minimums)
	copy(oc.maximums[:], maximums)
	if tolerance > 0 {
		oc.tolerance = tolerance
	} else {
		var diag2 float64
		for c := 0; c < Dimension; c++ {
			d := maximums[c] - minimums[c]
			diag2 += d * d
		}
		oc.tolerance = 1.0e-6 * math.Sqrt(diag2)
	}
	return oc
}

// Tolerance returns the distance at which two coordinates are considered
// the same point.
func (oc *Index) Tolerance() float64 {
	return oc.tolerance
}

// Count returns the number of points stored in the subtree.
func (oc *Index) Count() (count int) {
	if oc.children == nil {
		return len(oc.points)
	}
	for _, child := range oc.children {
		count += child.Count()
	}
	return
}

// FindNearest returns the payload identifier of the closest stored point
// within tolerance of x, or found == false if there is none or x lies
// outside the tolerance-inflated bounds. Exact distance ties resolve to the
// earliest inserted point.
func (oc *Index) FindNearest(x []float64) (id int, found bool) {
	_, id, found = oc.findNearest(x)
	return
}

// FindOrInsert returns the payload of a stored point within tolerance of x
// if one exists. Otherwise it calls create for a new payload identifier,
// stores (x, id) and returns it with added == true. This is the only way
// points enter the index, so a lookup can never be skipped before an
// insertion.
func (oc *Index) FindOrInsert(x []float64, create func() int) (id int, added bool) {
	if id, found := oc.FindNearest(x); found {
		return id, false
	}
	id = create()
	oc.insert(x, id)
	return id, true
}

func (oc *Index) findNearest(x []float64) (nearestDistance float64, nearestID int, found bool) {
	for c := 0; c < Dimension; c++ {
		if (x[c] < oc.minimums[c]-oc.tolerance) || (x[c] > oc.maximums[c]+oc.tolerance) {
			return 0, 0, false
		}
	}
	if oc.children == nil {
		for _, p := range oc.points {
			// cheap reject: outside the 2*tolerance box around the point
			outside := false
			for c := 0; c < Dimension; c++ {
				if math.Abs(x[c]-p.x[c]) > oc.tolerance {
					outside = true
					break
				}
			}
			if outside {
				continue
			}
			var distance2 float64
			for c := 0; c < Dimension; c++ {
				d := x[c] - p.x[c]
				distance2 += d * d
			}
			distance := math.Sqrt(distance2)
			if (distance < oc.tolerance) && (!found || distance < nearestDistance) {
				nearestDistance = distance
				nearestID = p.id
				found = true
			}
		}
		return
	}
	// forward to every child whose inflated bounds contain x; a point on a
	// child boundary may be queried in more than one child
	for _, child := range oc.children {
		distance, id, ok := child.findNearest(x)
		if ok && (!found || distance < nearestDistance) {
			nearestDistance = distance
			nearestID = id
			found = true
		}
	}
	return
}

func (oc *Index) insert(x []float64, id int) {
	if oc.children == nil {
		if len(oc.points) < Capacity || oc.depth >= MaxDepth {
			var p storedPoint
			copy(p.x[:], x)
			p.id = id
			oc.points = append(oc.points, p)
			return
		}
		oc.subdivide()
	}
	oc.childContaining(x).insert(x, id)
}

// subdivide converts a full leaf into an interior node, redistributing its
// stored points to whichever single child's bounds contain each of them.
// This transition happens exactly once per node.
func (oc *Index) subdivide() {
	oc.children = make([]*Index, childCount)
	for i := 0; i < childCount; i++ {
		child := &Index{
			minimums:  oc.minimums,
			maximums:  oc.maximums,
			tolerance: oc.tolerance,
			depth:     oc.depth + 1,
		}
		for c := 0; c < Dimension; c++ {
			mid := 0.5 * (oc.minimums[c] + oc.maximums[c])
			if i&(1<<c) != 0 {
				child.minimums[c] = mid
			} else {
				child.maximums[c] = mid
			}
		}
		oc.children[i] = child
	}
	points := oc.points
	oc.points = nil
	for _, p := range points {
		oc.childContaining(p.x[:]).insert(p.x[:], p.id)
	}
}

func (oc *Index) childContaining(x []float64) *Index {
	// child 0 holds the low corner; bit c selects the upper half on axis c
	i := 0
	for c := 0; c < Dimension; c++ {
		if x[c] > 0.5*(oc.minimums[c]+oc.maximums[c]) {
			i |= 1 << c
		}
	}
	return oc.children[i]
}
