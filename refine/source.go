package refine

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/anatomesh/goscaffold/mesh"
)

// LinearSource adapts a coarse hexahedral mesh into a Source by trilinear
// interpolation of each element's corner coordinates. Element ordinals
// follow ascending element identifier order.
type LinearSource struct {
	m          *mesh.Mesh
	elementIDs []int
}

// NewLinearSource wraps m, which must contain at least one element.
func NewLinearSource(m *mesh.Mesh) *LinearSource {
	ids := m.ElementIDs()
	if len(ids) == 0 {
		panic(fmt.Errorf("refine: source mesh has no elements"))
	}
	return &LinearSource{m: m, elementIDs: ids}
}

func (s *LinearSource) ElementCount() int {
	return len(s.elementIDs)
}

func (s *LinearSource) elementID(elem int) int {
	if elem < 1 || elem > len(s.elementIDs) {
		panic(fmt.Errorf("refine: element ordinal %d out of range 1..%d", elem, len(s.elementIDs)))
	}
	return s.elementIDs[elem-1]
}

// Evaluate maps local xi to world coordinates by trilinear interpolation
// over the element's 8 corners in standard ordering (xi1 fastest).
func (s *LinearSource) Evaluate(elem int, xi []float64) []float64 {
	corners := s.m.Elements[s.elementID(elem)]
	x := make([]float64, 3)
	for c := 0; c < 8; c++ {
		weight := 1.0
		for d := 0; d < 3; d++ {
			if c&(1<<d) != 0 {
				weight *= xi[d]
			} else {
				weight *= 1.0 - xi[d]
			}
		}
		floats.AddScaled(x, weight, s.m.Coordinates[corners[c]])
	}
	return x
}

func (s *LinearSource) ElementGroups(elem int) (names []string) {
	id := s.elementID(elem)
	for name, group := range s.m.Groups {
		if group.Elements[id] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return
}

func (s *LinearSource) ElementMarkers(elem int) (markers []mesh.Marker) {
	id := s.elementID(elem)
	for _, marker := range s.m.Markers {
		if marker.Element == id {
			markers = append(markers, marker)
		}
	}
	return
}

func (s *LinearSource) CoordinateRange() (minimums, maximums []float64) {
	return s.m.CoordinateRange()
}
