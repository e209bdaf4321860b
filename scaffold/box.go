// Package scaffold builds parameterised coarse hexahedral meshes for
// anatomical geometry, suitable as sources for refinement.
package scaffold

import (
	"github.com/anatomesh/goscaffold/mesh"
)

// BoxOptions parameterise a rectangular box scaffold.
type BoxOptions struct {
	Length         float64 `yaml:"Length"`
	Width          float64 `yaml:"Width"`
	Height         float64 `yaml:"Height"`
	ElementsCount1 int     `yaml:"ElementsCount1"`
	ElementsCount2 int     `yaml:"ElementsCount2"`
	ElementsCount3 int     `yaml:"ElementsCount3"`
}

// DefaultBoxOptions returns a unit cube of one element.
func DefaultBoxOptions() BoxOptions {
	return BoxOptions{
		Length:         1.0,
		Width:          1.0,
		Height:         1.0,
		ElementsCount1: 1,
		ElementsCount2: 1,
		ElementsCount3: 1,
	}
}

// Validate clamps out-of-range options to usable values.
func (o *BoxOptions) Validate() {
	if o.Length <= 0 {
		o.Length = 1.0
	}
	if o.Width <= 0 {
		o.Width = 1.0
	}
	if o.Height <= 0 {
		o.Height = 1.0
	}
	if o.ElementsCount1 < 1 {
		o.ElementsCount1 = 1
	}
	if o.ElementsCount2 < 1 {
		o.ElementsCount2 = 1
	}
	if o.ElementsCount3 < 1 {
		o.ElementsCount3 = 1
	}
}

// Box generates a box of ElementsCount1 x ElementsCount2 x ElementsCount3
// hexahedra with all elements in group "box".
func Box(opts BoxOptions) *mesh.Mesh {
	opts.Validate()
	n1, n2, n3 := opts.ElementsCount1, opts.ElementsCount2, opts.ElementsCount3
	m := mesh.New()
	nid := func(i, j, k int) int {
		return (k*(n2+1)+j)*(n1+1) + i + 1
	}
	for k := 0; k <= n3; k++ {
		for j := 0; j <= n2; j++ {
			for i := 0; i <= n1; i++ {
				m.CreateNode([]float64{
					opts.Length * float64(i) / float64(n1),
					opts.Width * float64(j) / float64(n2),
					opts.Height * float64(k) / float64(n3),
				})
			}
		}
	}
	box := m.Group("box")
	for k := 0; k < n3; k++ {
		for j := 0; j < n2; j++ {
			for i := 0; i < n1; i++ {
				elementID := m.CreateElement([8]int{
					nid(i, j, k), nid(i+1, j, k), nid(i, j+1, k), nid(i+1, j+1, k),
					nid(i, j, k+1), nid(i+1, j, k+1), nid(i, j+1, k+1), nid(i+1, j+1, k+1),
				})
				box.Elements[elementID] = true
			}
		}
	}
	return m
}
