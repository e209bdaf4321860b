package scaffold

import (
	"math"

	"github.com/anatomesh/goscaffold/geom"
	"github.com/anatomesh/goscaffold/mesh"
)

// SphereShellOptions parameterise an ellipsoid shell scaffold. The shell
// covers polar angles [PolarAngleStart, PolarAngleEnd], excluding caps
// around the poles where hexahedra would collapse, and wraps fully around
// the azimuth.
type SphereShellOptions struct {
	AxisLength1         float64 `yaml:"AxisLength1"`
	AxisLength2         float64 `yaml:"AxisLength2"`
	AxisLength3         float64 `yaml:"AxisLength3"`
	WallProportion      float64 `yaml:"WallProportion"`
	PolarAngleStart     float64 `yaml:"PolarAngleStart"`
	PolarAngleEnd       float64 `yaml:"PolarAngleEnd"`
	ElementsCountAround int     `yaml:"ElementsCountAround"`
	ElementsCountUp     int     `yaml:"ElementsCountUp"`
	ElementsCountRadial int     `yaml:"ElementsCountRadial"`
}

// DefaultSphereShellOptions returns a unit sphere shell band of wall
// proportion 0.25.
func DefaultSphereShellOptions() SphereShellOptions {
	return SphereShellOptions{
		AxisLength1:         1.0,
		AxisLength2:         1.0,
		AxisLength3:         1.0,
		WallProportion:      0.25,
		PolarAngleStart:     0.25 * math.Pi,
		PolarAngleEnd:       0.75 * math.Pi,
		ElementsCountAround: 8,
		ElementsCountUp:     2,
		ElementsCountRadial: 1,
	}
}

// Validate clamps out-of-range options to usable values.
func (o *SphereShellOptions) Validate() {
	if o.AxisLength1 <= 0 {
		o.AxisLength1 = 1.0
	}
	if o.AxisLength2 <= 0 {
		o.AxisLength2 = 1.0
	}
	if o.AxisLength3 <= 0 {
		o.AxisLength3 = 1.0
	}
	if o.WallProportion <= 0 || o.WallProportion >= 1.0 {
		o.WallProportion = 0.25
	}
	if o.PolarAngleStart <= 0 || o.PolarAngleStart >= math.Pi {
		o.PolarAngleStart = 0.25 * math.Pi
	}
	if o.PolarAngleEnd <= o.PolarAngleStart || o.PolarAngleEnd >= math.Pi {
		o.PolarAngleEnd = 0.75 * math.Pi
	}
	if o.ElementsCountAround < 4 {
		o.ElementsCountAround = 4
	}
	if o.ElementsCountUp < 2 {
		o.ElementsCountUp = 2
	}
	if o.ElementsCountRadial < 1 {
		o.ElementsCountRadial = 1
	}
}

// SphereShell generates an ellipsoid shell band. Elements join group
// "shell", with the innermost radial layer also in "inner layer" and the
// outermost in "outer layer". A marker "apex" sits on the outer surface at
// zero azimuth and the starting polar angle.
func SphereShell(opts SphereShellOptions) *mesh.Mesh {
	opts.Validate()
	na, nu, nr := opts.ElementsCountAround, opts.ElementsCountUp, opts.ElementsCountRadial
	m := mesh.New()
	centre := []float64{0, 0, 0}

	// nodes: radial layers inner to outer, polar rows, wrapped azimuth
	nid := func(r, u, j int) int {
		return (r*(nu+1)+u)*na + (j % na) + 1
	}
	for r := 0; r <= nr; r++ {
		scale := (1.0 - opts.WallProportion) + opts.WallProportion*float64(r)/float64(nr)
		for u := 0; u <= nu; u++ {
			phi := opts.PolarAngleStart +
				(opts.PolarAngleEnd-opts.PolarAngleStart)*float64(u)/float64(nu)
			for j := 0; j < na; j++ {
				theta := 2.0 * math.Pi * float64(j) / float64(na)
				m.CreateNode(geom.EllipsoidPoint(centre,
					scale*opts.AxisLength1, scale*opts.AxisLength2, scale*opts.AxisLength3,
					theta, phi))
			}
		}
	}

	shell := m.Group("shell")
	inner := m.Group("inner layer")
	outer := m.Group("outer layer")
	for r := 0; r < nr; r++ {
		for u := 0; u < nu; u++ {
			for j := 0; j < na; j++ {
				elementID := m.CreateElement([8]int{
					nid(r, u, j), nid(r, u, j+1), nid(r, u+1, j), nid(r, u+1, j+1),
					nid(r+1, u, j), nid(r+1, u, j+1), nid(r+1, u+1, j), nid(r+1, u+1, j+1),
				})
				shell.Elements[elementID] = true
				if r == 0 {
					inner.Elements[elementID] = true
				}
				if r == nr-1 {
					outer.Elements[elementID] = true
				}
			}
		}
	}

	// marker on the outer surface corner of the first element of the
	// outermost layer
	apexElement := (nr-1)*nu*na + 1
	m.AddMarker("apex", apexElement, []float64{0.0, 0.0, 1.0}, []string{"apex"})
	return m
}
