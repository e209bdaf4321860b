package scaffold

import (
	"math"

	"github.com/anatomesh/goscaffold/geom"
	"github.com/anatomesh/goscaffold/mesh"
)

// TubeOptions parameterise a tube wall swept along a central path. An
// empty PathPoints gives a straight tube of the given Length along z;
// otherwise the path is the cubic Hermite curve through the points, with
// rings spaced evenly by arc length.
type TubeOptions struct {
	Length                   float64     `yaml:"Length"`
	InnerRadius              float64     `yaml:"InnerRadius"`
	WallThickness            float64     `yaml:"WallThickness"`
	ElementsCountAround      int         `yaml:"ElementsCountAround"`
	ElementsCountAlong       int         `yaml:"ElementsCountAlong"`
	ElementsCountThroughWall int         `yaml:"ElementsCountThroughWall"`
	PathPoints               [][]float64 `yaml:"PathPoints"`
}

// DefaultTubeOptions returns a straight unit-length tube.
func DefaultTubeOptions() TubeOptions {
	return TubeOptions{
		Length:                   1.0,
		InnerRadius:              0.25,
		WallThickness:            0.1,
		ElementsCountAround:      8,
		ElementsCountAlong:       2,
		ElementsCountThroughWall: 1,
	}
}

// Validate clamps out-of-range options to usable values.
func (o *TubeOptions) Validate() {
	if o.Length <= 0 {
		o.Length = 1.0
	}
	if o.InnerRadius <= 0 {
		o.InnerRadius = 0.25
	}
	if o.WallThickness <= 0 {
		o.WallThickness = 0.1
	}
	if o.ElementsCountAround < 4 {
		o.ElementsCountAround = 4
	}
	if o.ElementsCountAlong < 1 {
		o.ElementsCountAlong = 1
	}
	if o.ElementsCountThroughWall < 1 {
		o.ElementsCountThroughWall = 1
	}
}

// pathNodes returns the central path coordinates and derivatives. Path
// point derivatives are estimated by central differences, one-sided at the
// ends.
func (o *TubeOptions) pathNodes() (nx, nd [][]float64) {
	if len(o.PathPoints) < 2 {
		nx = [][]float64{{0, 0, 0}, {0, 0, o.Length}}
		nd = [][]float64{{0, 0, o.Length}, {0, 0, o.Length}}
		return
	}
	nx = o.PathPoints
	count := len(nx)
	nd = make([][]float64, count)
	for n := 0; n < count; n++ {
		switch n {
		case 0:
			nd[n] = geom.AddScaled(nx[1], nx[0], 1.0, -1.0)
		case count - 1:
			nd[n] = geom.AddScaled(nx[count-1], nx[count-2], 1.0, -1.0)
		default:
			nd[n] = geom.AddScaled(nx[n+1], nx[n-1], 0.5, -0.5)
		}
	}
	return
}

// tubeFrame returns two unit vectors orthogonal to the path tangent d.
func tubeFrame(d []float64) (side1, side2 []float64) {
	up := []float64{0, 0, 1}
	if math.Abs(geom.Dot(geom.Normalise(d), up)) > 0.9 {
		up = []float64{1, 0, 0}
	}
	side1 = geom.Normalise(geom.Cross(d, up))
	side2 = geom.Normalise(geom.Cross(side1, d))
	return
}

// Tube generates a tube wall with elements in group "wall", the innermost
// layer also in "inner wall" and the outermost in "outer wall". A marker
// "tube midpoint" sits on the inner surface halfway along the tube.
func Tube(opts TubeOptions) *mesh.Mesh {
	opts.Validate()
	na := opts.ElementsCountAround
	nl := opts.ElementsCountAlong
	nw := opts.ElementsCountThroughWall
	nx, nd := opts.pathNodes()
	totalLength := geom.CurvesLength(nx, nd)

	m := mesh.New()
	nid := func(a, w, j int) int {
		return (a*(nw+1)+w)*na + (j % na) + 1
	}
	for a := 0; a <= nl; a++ {
		arcDistance := totalLength * float64(a) / float64(nl)
		centre, tangent := geom.CurvePointAtArcDistance(nx, nd, arcDistance)
		side1, side2 := tubeFrame(tangent)
		for w := 0; w <= nw; w++ {
			radius := opts.InnerRadius + opts.WallThickness*float64(w)/float64(nw)
			px, _ := geom.EllipsePoints(centre,
				geom.SetMagnitude(side1, radius), geom.SetMagnitude(side2, radius),
				na, 0.0)
			for j := 0; j < na; j++ {
				m.CreateNode(px[j])
			}
		}
	}

	wall := m.Group("wall")
	inner := m.Group("inner wall")
	outer := m.Group("outer wall")
	for a := 0; a < nl; a++ {
		for w := 0; w < nw; w++ {
			for j := 0; j < na; j++ {
				elementID := m.CreateElement([8]int{
					nid(a, w, j), nid(a, w, j+1), nid(a+1, w, j), nid(a+1, w, j+1),
					nid(a, w+1, j), nid(a, w+1, j+1), nid(a+1, w+1, j), nid(a+1, w+1, j+1),
				})
				wall.Elements[elementID] = true
				if w == 0 {
					inner.Elements[elementID] = true
				}
				if w == nw-1 {
					outer.Elements[elementID] = true
				}
			}
		}
	}

	// marker halfway along the first around position on the inner surface
	midAlong := nl / 2
	xi2 := 0.0
	if nl%2 != 0 {
		xi2 = 0.5
	}
	markerElement := (midAlong*nw)*na + 1
	m.AddMarker("tube midpoint", markerElement, []float64{0.0, xi2, 0.0}, []string{"tube midpoint"})
	return m
}
