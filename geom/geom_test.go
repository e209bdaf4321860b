package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorOps(t *testing.T) {
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	assert.Equal(t, []float64{0, 0, 1}, Cross(a, b))
	assert.Equal(t, 0.0, Dot(a, b))
	assert.Equal(t, 5.0, Magnitude([]float64{3, 4, 0}))
	assert.InDelta(t, 1.0, Magnitude(Normalise([]float64{2, 3, 6})), 1.0e-12)
	v := SetMagnitude([]float64{3, 4, 0}, 10)
	assert.InDelta(t, 6.0, v[0], 1.0e-12)
	assert.InDelta(t, 8.0, v[1], 1.0e-12)
	assert.Equal(t, []float64{2, 7, 0}, AddScaled(a, b, 2, 7))
}

func TestCubicHermiteBasisPartitionOfUnity(t *testing.T) {
	for _, xi := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		f1, _, f3, _ := CubicHermiteBasis(xi)
		// value basis functions sum to 1
		assert.InDelta(t, 1.0, f1+f3, 1.0e-12)
		df1, _, df3, _ := CubicHermiteBasisDerivatives(xi)
		assert.InDelta(t, 0.0, df1+df3, 1.0e-12)
	}
	f1, f2, f3, f4 := CubicHermiteBasis(0.0)
	assert.Equal(t, []float64{1, 0, 0, 0}, []float64{f1, f2, f3, f4})
	f1, f2, f3, f4 = CubicHermiteBasis(1.0)
	assert.Equal(t, []float64{0, 0, 1, 0}, []float64{f1, f2, f3, f4})
}

func TestInterpolateStraightSegment(t *testing.T) {
	v1 := []float64{0, 0, 0}
	v2 := []float64{1, 0, 0}
	d := []float64{1, 0, 0}
	mid := InterpolateCubicHermite(v1, d, v2, d, 0.5)
	assert.InDelta(t, 0.5, mid[0], 1.0e-12)
	assert.InDelta(t, 0.0, mid[1], 1.0e-12)
	// arc length of a straight segment equals its chord
	assert.InDelta(t, 1.0, CubicHermiteArcLength(v1, d, v2, d), 1.0e-12)
	assert.InDelta(t, 0.25, CubicHermiteArcLengthToXi(v1, d, v2, d, 0.25), 1.0e-9)
	assert.InDelta(t, 1.0, ComputeCubicHermiteArcLength(v1, d, v2, d, true), 1.0e-6)
}

func TestCurvePointAtArcDistance(t *testing.T) {
	// straight polyline 0..2 in x over two segments
	nx := [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}
	nd := [][]float64{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}}
	assert.InDelta(t, 2.0, CurvesLength(nx, nd), 1.0e-12)
	x, d := CurvePointAtArcDistance(nx, nd, 1.5)
	assert.InDelta(t, 1.5, x[0], 1.0e-6)
	assert.InDelta(t, 1.0, d[0], 1.0e-6)
	// clamped beyond the ends
	x, _ = CurvePointAtArcDistance(nx, nd, -1.0)
	assert.Equal(t, 0.0, x[0])
	x, _ = CurvePointAtArcDistance(nx, nd, 5.0)
	assert.Equal(t, 2.0, x[0])
}

func TestEllipsePerimeterCircle(t *testing.T) {
	// Ramanujan II is exact for a circle
	assert.InDelta(t, 2.0*math.Pi*3.0, ApproximateEllipsePerimeter(3.0, 3.0), 1.0e-12)
	// quarter turn of a unit circle
	arc := EllipseArcLength(1.0, 1.0, 0.0, 0.5*math.Pi)
	assert.InDelta(t, 0.5*math.Pi, arc, 1.0e-3)
	// clockwise is negative
	assert.InDelta(t, -arc, EllipseArcLength(1.0, 1.0, 0.5*math.Pi, 0.0), 1.0e-12)
}

func TestUpdateEllipseAngleByArcLength(t *testing.T) {
	// on a circle of radius 2, arc length s subtends angle s/2
	angle := UpdateEllipseAngleByArcLength(2.0, 2.0, 0.0, 1.0)
	assert.InDelta(t, 0.5, angle, 1.0e-3)
	angle = UpdateEllipseAngleByArcLength(2.0, 2.0, 0.25, -1.0)
	assert.InDelta(t, -0.25, angle, 1.0e-3)
}

func TestEllipsePoints(t *testing.T) {
	centre := []float64{1, 2, 3}
	px, pd := EllipsePoints(centre, []float64{2, 0, 0}, []float64{0, 1, 0}, 4, 0.0)
	assert.Equal(t, 4, len(px))
	assert.Equal(t, 4, len(pd))
	assert.InDelta(t, 3.0, px[0][0], 1.0e-12)
	assert.InDelta(t, 2.0, px[0][1], 1.0e-12)
	// quarter turn lands on the minor axis
	assert.InDelta(t, 1.0, px[1][0], 1.0e-12)
	assert.InDelta(t, 3.0, px[1][1], 1.0e-12)
	// derivatives point anticlockwise
	assert.True(t, pd[0][1] > 0)
}

func TestEllipsoidPoint(t *testing.T) {
	centre := []float64{0, 0, 0}
	top := EllipsoidPoint(centre, 1, 2, 3, 0.0, 0.0)
	assert.InDelta(t, 3.0, top[2], 1.0e-12)
	side := EllipsoidPoint(centre, 1, 2, 3, 0.5*math.Pi, 0.5*math.Pi)
	assert.InDelta(t, 2.0, side[1], 1.0e-12)
	assert.InDelta(t, 0.0, side[2], 1.0e-12)
}
