// Package mesh holds the in-memory node/element/group model that scaffold
// generation and refinement write into. Elements are hexahedral only.
package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/anatomesh/goscaffold/octree"
)

// Marker is a named point of interest embedded at a local coordinate
// within an element, carried through refinement so it still locates the
// same physical point afterward. Node is the identifier allocated for the
// marker point; Groups are the point group names the marker belongs to.
type Marker struct {
	Name    string
	Element int
	Xi      []float64
	Node    int
	Groups  []string
}

// Group is a named set of element and node identifiers.
type Group struct {
	Name     string
	Elements map[int]bool
	Nodes    map[int]bool
}

// ElementIDs returns the group's element identifiers in ascending order.
func (g *Group) ElementIDs() (ids []int) {
	for id := range g.Elements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// NodeIDs returns the group's node identifiers in ascending order.
func (g *Group) NodeIDs() (ids []int) {
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// Mesh is a growing collection of nodes, hexahedral elements, named groups
// and marker points. Node and element identifiers are assigned in strictly
// increasing order of creation, starting at 1. Marker points consume node
// identifiers but carry no coordinates, so Coordinates holds only the
// geometric nodes.
type Mesh struct {
	Coordinates map[int][]float64 // node identifier -> world coordinates
	Elements    map[int][8]int    // element identifier -> corner node ids
	Groups      map[string]*Group
	Markers     []Marker

	nextNode    int
	nextElement int
}

// New returns an empty mesh with identifier counters starting at 1.
func New() *Mesh {
	return &Mesh{
		Coordinates: make(map[int][]float64),
		Elements:    make(map[int][8]int),
		Groups:      make(map[string]*Group),
		nextNode:    1,
		nextElement: 1,
	}
}

// CreateNode stores a copy of x under the next node identifier.
func (m *Mesh) CreateNode(x []float64) int {
	if len(x) != 3 {
		panic(fmt.Errorf("mesh: node coordinates must have 3 components, got %d", len(x)))
	}
	id := m.nextNode
	m.nextNode++
	m.Coordinates[id] = append([]float64(nil), x...)
	return id
}

// CreateElement stores a hexahedral element with the standard corner
// ordering: xi1, xi2, xi3 each 0 or 1, xi1 fastest-varying.
func (m *Mesh) CreateElement(nodeIDs [8]int) int {
	for _, nid := range nodeIDs {
		if _, ok := m.Coordinates[nid]; !ok {
			panic(fmt.Errorf("mesh: element references unknown node %d", nid))
		}
	}
	id := m.nextElement
	m.nextElement++
	m.Elements[id] = nodeIDs
	return id
}

// Group finds or creates the named group.
func (m *Mesh) Group(name string) *Group {
	g := m.Groups[name]
	if g == nil {
		g = &Group{
			Name:     name,
			Elements: make(map[int]bool),
			Nodes:    make(map[int]bool),
		}
		m.Groups[name] = g
	}
	return g
}

// AddMarker records a marker point in the given element, allocating a node
// identifier for it and adding that identifier to the named point groups.
// Returns the marker's node identifier.
func (m *Mesh) AddMarker(name string, element int, xi []float64, groups []string) int {
	nodeID := m.nextNode
	m.nextNode++
	m.Markers = append(m.Markers, Marker{
		Name:    name,
		Element: element,
		Xi:      append([]float64(nil), xi...),
		Node:    nodeID,
		Groups:  append([]string(nil), groups...),
	})
	for _, groupName := range groups {
		m.Group(groupName).Nodes[nodeID] = true
	}
	return nodeID
}

// NodeCount returns the number of geometric nodes (markers excluded).
func (m *Mesh) NodeCount() int {
	return len(m.Coordinates)
}

// ElementCount returns the number of elements.
func (m *Mesh) ElementCount() int {
	return len(m.Elements)
}

// NodeIDs returns geometric node identifiers in ascending order.
func (m *Mesh) NodeIDs() (ids []int) {
	for id := range m.Coordinates {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// ElementIDs returns element identifiers in ascending order.
func (m *Mesh) ElementIDs() (ids []int) {
	for id := range m.Elements {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

// CoordinateRange returns the minimum and maximum coordinates over all
// geometric nodes. Panics on an empty mesh.
func (m *Mesh) CoordinateRange() (minimums, maximums []float64) {
	if len(m.Coordinates) == 0 {
		panic(fmt.Errorf("mesh: coordinate range of empty mesh"))
	}
	minimums = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	maximums = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, x := range m.Coordinates {
		for c := 0; c < 3; c++ {
			if x[c] < minimums[c] {
				minimums[c] = x[c]
			}
			if x[c] > maximums[c] {
				maximums[c] = x[c]
			}
		}
	}
	return
}

// hexEdges lists the 12 edges of a hexahedron as corner index pairs in the
// standard ordering.
var hexEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // xi1 edges
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // xi2 edges
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // xi3 edges
}

// NodeAdjacency builds the symmetric node-to-node adjacency matrix from
// element edges. Row/column i corresponds to node identifier i+1.
func (m *Mesh) NodeAdjacency() *sparse.DOK {
	n := m.nextNode - 1
	adj := sparse.NewDOK(n, n)
	for _, corners := range m.Elements {
		for _, e := range hexEdges {
			a, b := corners[e[0]]-1, corners[e[1]]-1
			adj.Set(a, b, 1)
			adj.Set(b, a, 1)
		}
	}
	return adj
}

// CheckConforming verifies that no two distinct geometric nodes lie within
// tol of each other, which would indicate duplicated nodes on what should
// be a shared boundary. A coincident pair joined by an element edge is
// reported as a collapsed edge instead. A tol <= 0 derives the default
// from the mesh bounds; zero-sized bounds would derive a zero tolerance,
// so a small positive one is substituted there. Iterates nodes in
// identifier order so any error is deterministic.
func (m *Mesh) CheckConforming(tol float64) error {
	if len(m.Coordinates) < 2 {
		return nil
	}
	minimums, maximums := m.CoordinateRange()
	if tol <= 0 {
		degenerate := true
		for c := 0; c < 3; c++ {
			if maximums[c] > minimums[c] {
				degenerate = false
			}
		}
		if degenerate {
			tol = 1.0e-6
		}
	}
	oc := octree.NewIndex(minimums, maximums, tol)
	for _, id := range m.NodeIDs() {
		nodeID := id
		existing, added := oc.FindOrInsert(m.Coordinates[id], func() int { return nodeID })
		if !added {
			if m.NodeAdjacency().At(existing-1, id-1) != 0 {
				return fmt.Errorf("mesh: element edge between nodes %d and %d is collapsed within tolerance %g",
					existing, id, oc.Tolerance())
			}
			return fmt.Errorf("mesh: nodes %d and %d are coincident within tolerance %g",
				existing, id, oc.Tolerance())
		}
	}
	return nil
}
