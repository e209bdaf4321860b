// Package refine subdivides coarse hexahedral meshes into conforming fine
// meshes. Boundary nodes generated on shared faces resolve to the same
// target node identifiers across neighbouring elements, using an octree
// point index so callers never compute shared-node identity by hand.
package refine

import (
	"fmt"
	"math"

	"github.com/anatomesh/goscaffold/mesh"
	"github.com/anatomesh/goscaffold/octree"
)

// Source is the read-only coarse mesh accessor the engine consumes.
// Elements are addressed by ordinal 1..ElementCount() in the source's
// native iteration order. Evaluate maps local coordinates xi in [0,1]^3
// bijectively to a world-space point.
type Source interface {
	ElementCount() int
	Evaluate(elem int, xi []float64) []float64
	ElementGroups(elem int) []string
	ElementMarkers(elem int) []mesh.Marker
	CoordinateRange() (minimums, maximums []float64)
}

// ShareTable is an explicit secondary lookup of previously created nodes,
// consulted before the global index when refining an element. It forces
// deliberate sharing between two specific elements processed in sequence,
// such as adjacent faces of a collapsed wedge element, independent of what
// the index would find.
type ShareTable struct {
	ids         []int
	coordinates [][]float64
}

// Add records a known node identifier at coordinates x.
func (s *ShareTable) Add(id int, x []float64) {
	s.ids = append(s.ids, id)
	s.coordinates = append(s.coordinates, append([]float64(nil), x...))
}

// FindNearest returns the identifier of the closest recorded node within
// tolerance of x, or found == false.
func (s *ShareTable) FindNearest(x []float64, tolerance float64) (id int, found bool) {
	nearestDistance := 0.0
	for i, sx := range s.coordinates {
		var distance2 float64
		for c := 0; c < 3; c++ {
			d := x[c] - sx[c]
			distance2 += d * d
		}
		distance := math.Sqrt(distance2)
		if (distance < tolerance) && (!found || distance < nearestDistance) {
			nearestDistance = distance
			id = s.ids[i]
			found = true
		}
	}
	return
}

// ElementOptions control node sharing for a single RefineElement call.
// Share, if set, is consulted before the engine's point index and may
// override it. AddToIndex false keeps newly created boundary nodes out of
// the index, for surfaces known to touch, but not merge with, previously
// indexed geometry such as two distinct anatomical leaflets.
type ElementOptions struct {
	Share      *ShareTable
	AddToIndex bool
}

// Refinement refines every element of a source mesh into a target mesh
// under construction. It owns the octree point index for the run; the
// index lives and dies with the Refinement and is mutated only by it.
type Refinement struct {
	source    Source
	target    *mesh.Mesh
	index     *octree.Index
	tolerance float64
}

// New prepares a refinement of source into target, which is assumed empty.
// The index bounds are the source coordinate range expanded by half the
// largest axis range, or 1.0 when the source is degenerate (zero-sized).
func New(source Source, target *mesh.Mesh) *Refinement {
	minimums, maximums := source.CoordinateRange()
	margin := 0.0
	for c := 0; c < 3; c++ {
		if r := maximums[c] - minimums[c]; 0.5*r > margin {
			margin = 0.5 * r
		}
	}
	if margin == 0.0 {
		margin = 1.0
	}
	expandedMin := make([]float64, 3)
	expandedMax := make([]float64, 3)
	for c := 0; c < 3; c++ {
		expandedMin[c] = minimums[c] - margin
		expandedMax[c] = maximums[c] + margin
	}
	index := octree.NewIndex(expandedMin, expandedMax, 0)
	return &Refinement{
		source:    source,
		target:    target,
		index:     index,
		tolerance: index.Tolerance(),
	}
}

// Target returns the mesh under construction.
func (r *Refinement) Target() *mesh.Mesh {
	return r.target
}

// Tolerance returns the node sharing tolerance for this run.
func (r *Refinement) Tolerance() float64 {
	return r.tolerance
}

// RefineElement refines source element elem into n1*n2*n3 hexahedral
// sub-elements, evenly spaced in xi. Boundary grid points resolve in
// priority order: share table, point index, newly created node. Interior
// points are always new and never touch the index. Sub-elements join every
// target group the source element belongs to, and markers embedded in the
// element are relocated into the sub-element containing them.
//
// A nil opts refines with AddToIndex true and no share table. Returns the
// grid's node identifiers and coordinates in k,j,i order (i fastest), from
// which callers can assemble share tables for subsequent calls.
func (r *Refinement) RefineElement(elem, n1, n2, n3 int, opts *ElementOptions) (nodeIDs []int, coordinates [][]float64) {
	if n1 < 1 || n2 < 1 || n3 < 1 {
		panic(fmt.Errorf("refine: subdivision factors must be >= 1, got (%d,%d,%d)", n1, n2, n3))
	}
	if opts == nil {
		opts = &ElementOptions{AddToIndex: true}
	}
	groups := r.source.ElementGroups(elem)

	// build the point grid, deduplicating boundary points
	xi := make([]float64, 3)
	for k := 0; k <= n3; k++ {
		xi[2] = float64(k) / float64(n3)
		for j := 0; j <= n2; j++ {
			xi[1] = float64(j) / float64(n2)
			for i := 0; i <= n1; i++ {
				xi[0] = float64(i) / float64(n1)
				x := r.source.Evaluate(elem, xi)
				boundary := i == 0 || i == n1 || j == 0 || j == n2 || k == 0 || k == n3
				nodeID := 0
				resolved := false
				if boundary {
					if opts.Share != nil {
						nodeID, resolved = opts.Share.FindNearest(x, r.tolerance)
					}
					if !resolved {
						if opts.AddToIndex {
							nodeID, _ = r.index.FindOrInsert(x, func() int {
								return r.target.CreateNode(x)
							})
						} else if nodeID, resolved = r.index.FindNearest(x); !resolved {
							nodeID = r.target.CreateNode(x)
						}
					}
				} else {
					nodeID = r.target.CreateNode(x)
				}
				nodeIDs = append(nodeIDs, nodeID)
				coordinates = append(coordinates, x)
			}
		}
	}

	// assemble sub-elements from the grid
	startElement := 0
	oj := n1 + 1
	ok := (n2 + 1) * (n1 + 1)
	for k := 0; k < n3; k++ {
		for j := 0; j < n2; j++ {
			for i := 0; i < n1; i++ {
				bni := k*ok + j*oj + i
				elementID := r.target.CreateElement([8]int{
					nodeIDs[bni], nodeIDs[bni+1],
					nodeIDs[bni+oj], nodeIDs[bni+oj+1],
					nodeIDs[bni+ok], nodeIDs[bni+ok+1],
					nodeIDs[bni+ok+oj], nodeIDs[bni+ok+oj+1],
				})
				if startElement == 0 {
					startElement = elementID
				}
				for _, name := range groups {
					r.target.Group(name).Elements[elementID] = true
				}
			}
		}
	}

	// relocate markers embedded in the source element
	markers := r.source.ElementMarkers(elem)
	if len(markers) > 0 {
		numberInXi := [3]int{n1, n2, n3}
		elementOffset := [3]int{1, n1, n1 * n2}
		for _, marker := range markers {
			targetElement := startElement
			targetXi := make([]float64, 3)
			for c := 0; c < 3; c++ {
				targetXi[c] = marker.Xi[c] * float64(numberInXi[c])
				el := int(math.Floor(targetXi[c]))
				if el < numberInXi[c] {
					targetXi[c] -= float64(el)
				} else {
					el = numberInXi[c] - 1
					targetXi[c] = 1.0
				}
				targetElement += el * elementOffset[c]
			}
			r.target.AddMarker(marker.Name, targetElement, targetXi, marker.Groups)
		}
	}
	return
}

// RefineAll refines every source element in native order with uniform
// subdivision factors, indexing all boundary nodes and no share table.
func (r *Refinement) RefineAll(n1, n2, n3 int) {
	for elem := 1; elem <= r.source.ElementCount(); elem++ {
		r.RefineElement(elem, n1, n2, n3, nil)
	}
}
