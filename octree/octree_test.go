package octree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindOrInsert(t *testing.T) {
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0)
	next := 1
	create := func() int {
		id := next
		next++
		return id
	}
	// first point is new
	id, added := oc.FindOrInsert([]float64{0.5, 0.5, 0.5}, create)
	assert.Equal(t, 1, id)
	assert.True(t, added)
	// same coordinates resolve to the existing payload, create not called
	id, added = oc.FindOrInsert([]float64{0.5, 0.5, 0.5}, create)
	assert.Equal(t, 1, id)
	assert.False(t, added)
	assert.Equal(t, 2, next)
	// nearby within tolerance also resolves
	tol := oc.Tolerance()
	id, added = oc.FindOrInsert([]float64{0.5 + 0.5*tol, 0.5, 0.5}, create)
	assert.Equal(t, 1, id)
	assert.False(t, added)
	// well separated point is new
	id, added = oc.FindOrInsert([]float64{0.25, 0.5, 0.5}, create)
	assert.Equal(t, 2, id)
	assert.True(t, added)
	assert.Equal(t, 2, oc.Count())
}

func TestFindNearestOutsideBounds(t *testing.T) {
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0)
	oc.insert([]float64{0.5, 0.5, 0.5}, 1)
	_, found := oc.FindNearest([]float64{2, 0.5, 0.5})
	assert.False(t, found)
	_, found = oc.FindNearest([]float64{0.5, -1, 0.5})
	assert.False(t, found)
}

func TestToleranceDerivation(t *testing.T) {
	// unit cube: diagonal D = sqrt(3), default tolerance 1e-6*D
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0)
	D := math.Sqrt(3)
	assert.InDelta(t, 1.0e-6*D, oc.Tolerance(), 1.0e-18)

	oc.insert([]float64{0.5, 0.5, 0.5}, 1)
	eps := 1.0e-9 * D
	// separation just under tolerance matches
	_, found := oc.FindNearest([]float64{0.5 + 1.0e-6*D - eps, 0.5, 0.5})
	assert.True(t, found)
	// separation just over tolerance does not
	_, found = oc.FindNearest([]float64{0.5 + 1.0e-6*D + eps, 0.5, 0.5})
	assert.False(t, found)
}

func TestExplicitTolerance(t *testing.T) {
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0.25)
	assert.Equal(t, 0.25, oc.Tolerance())
	oc.insert([]float64{0.5, 0.5, 0.5}, 7)
	id, found := oc.FindNearest([]float64{0.6, 0.5, 0.5})
	assert.True(t, found)
	assert.Equal(t, 7, id)
	_, found = oc.FindNearest([]float64{0.8, 0.5, 0.5})
	assert.False(t, found)
}

// wellSeparated returns n points inside the unit cube with pairwise
// separations far exceeding the default tolerance.
func wellSeparated(n int) (points [][]float64) {
	points = make([][]float64, n)
	for i := 0; i < n; i++ {
		f := (float64(i) + 0.5) / float64(n)
		points[i] = []float64{f, math.Mod(0.37+0.61*f, 1.0), math.Mod(0.81+0.29*f, 1.0)}
	}
	return
}

func TestSubdivision(t *testing.T) {
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0)
	points := wellSeparated(Capacity + 1)
	for i, x := range points {
		id, added := oc.FindOrInsert(x, func() int { return i + 1 })
		assert.True(t, added)
		assert.Equal(t, i+1, id)
	}
	// exactly one subdivision: root is interior, all children are leaves
	assert.NotNil(t, oc.children)
	assert.Nil(t, oc.points)
	for _, child := range oc.children {
		assert.Nil(t, child.children)
	}
	// no point duplicated or dropped
	assert.Equal(t, Capacity+1, oc.Count())
	for i, x := range points {
		id, found := oc.FindNearest(x)
		assert.True(t, found)
		assert.Equal(t, i+1, id)
		// stored in exactly one child
		holders := 0
		for _, child := range oc.children {
			for _, p := range child.points {
				if p.id == i+1 {
					holders++
				}
			}
		}
		assert.Equal(t, 1, holders)
	}
}

func TestMaxDepthOverflow(t *testing.T) {
	// points clustered tighter than any box bisection can separate, but
	// still outside each other's tolerance: subdivision stops at MaxDepth
	// and the deepest leaf exceeds Capacity instead of recursing forever
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 1.0e-15)
	n := Capacity + 1
	for i := 0; i < n; i++ {
		x := []float64{1.0e-13 * float64(i), 0, 0}
		id, added := oc.FindOrInsert(x, func() int { return i + 1 })
		assert.True(t, added)
		assert.Equal(t, i+1, id)
	}
	assert.Equal(t, n, oc.Count())
	// walk to the deepest node holding points
	node := oc
	for node.children != nil {
		for _, child := range node.children {
			if child.Count() > 0 {
				node = child
				break
			}
		}
	}
	assert.Equal(t, MaxDepth, node.depth)
	assert.True(t, len(node.points) > Capacity)
}

func TestClosestMatchAcrossChildren(t *testing.T) {
	// a query near the centre may be forwarded to several children; the
	// closest stored point must win
	oc := NewIndex([]float64{0, 0, 0}, []float64{1, 1, 1}, 0.2)
	for i, x := range wellSeparated(Capacity) {
		oc.insert(x, i+1)
	}
	oc.insert([]float64{0.45, 0.5, 0.5}, 100)
	oc.insert([]float64{0.55, 0.5, 0.5}, 101)
	id, found := oc.FindNearest([]float64{0.53, 0.5, 0.5})
	assert.True(t, found)
	assert.Equal(t, 101, id)
}

func TestBadBoundsPanic(t *testing.T) {
	assert.Panics(t, func() {
		NewIndex([]float64{0, 0}, []float64{1, 1, 1}, 0)
	})
	assert.Panics(t, func() {
		NewIndex([]float64{0, 0, 0}, []float64{1, 1}, 0)
	})
}
