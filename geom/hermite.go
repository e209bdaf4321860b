package geom

import (
	"fmt"
	"math"
)

// 4-point Gauss-Legendre quadrature on [0,1]
var (
	gaussXi4 = [4]float64{
		(-math.Sqrt((3.0+2.0*math.Sqrt(6.0/5.0))/7.0) + 1.0) / 2.0,
		(-math.Sqrt((3.0-2.0*math.Sqrt(6.0/5.0))/7.0) + 1.0) / 2.0,
		(+math.Sqrt((3.0-2.0*math.Sqrt(6.0/5.0))/7.0) + 1.0) / 2.0,
		(+math.Sqrt((3.0+2.0*math.Sqrt(6.0/5.0))/7.0) + 1.0) / 2.0,
	}
	gaussWt4 = [4]float64{
		(18.0 - math.Sqrt(30.0)) / 72.0,
		(18.0 + math.Sqrt(30.0)) / 72.0,
		(18.0 + math.Sqrt(30.0)) / 72.0,
		(18.0 - math.Sqrt(30.0)) / 72.0,
	}
)

// CubicHermiteBasis returns the 4 cubic Hermite basis function values for
// v1, d1, v2, d2 at xi.
func CubicHermiteBasis(xi float64) (f1, f2, f3, f4 float64) {
	xi2 := xi * xi
	xi3 := xi2 * xi
	f1 = 1.0 - 3.0*xi2 + 2.0*xi3
	f2 = xi - 2.0*xi2 + xi3
	f3 = 3.0*xi2 - 2.0*xi3
	f4 = -xi2 + xi3
	return
}

// CubicHermiteBasisDerivatives returns the first derivatives of the 4
// cubic Hermite basis functions at xi.
func CubicHermiteBasisDerivatives(xi float64) (df1, df2, df3, df4 float64) {
	xi2 := xi * xi
	df1 = -6.0*xi + 6.0*xi2
	df2 = 1.0 - 4.0*xi + 3.0*xi2
	df3 = 6.0*xi - 6.0*xi2
	df4 = -2.0*xi + 3.0*xi2
	return
}

// InterpolateCubicHermite returns values interpolated from v1, d1 at
// xi = 0 to v2, d2 at xi = 1.
func InterpolateCubicHermite(v1, d1, v2, d2 []float64, xi float64) []float64 {
	f1, f2, f3, f4 := CubicHermiteBasis(xi)
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = f1*v1[i] + f2*d1[i] + f3*v2[i] + f4*d2[i]
	}
	return out
}

// InterpolateCubicHermiteDerivative returns the derivative w.r.t. xi of
// the cubic Hermite interpolation from v1, d1 to v2, d2.
func InterpolateCubicHermiteDerivative(v1, d1, v2, d2 []float64, xi float64) []float64 {
	df1, df2, df3, df4 := CubicHermiteBasisDerivatives(xi)
	out := make([]float64, len(v1))
	for i := range out {
		out[i] = df1*v1[i] + df2*d1[i] + df3*v2[i] + df4*d2[i]
	}
	return out
}

// CubicHermiteArcLength returns the approximate arc length of the cubic
// curve from v1, d1 to v2, d2 using 4-point Gaussian quadrature.
func CubicHermiteArcLength(v1, d1, v2, d2 []float64) (arcLength float64) {
	for i := 0; i < 4; i++ {
		dm := InterpolateCubicHermiteDerivative(v1, d1, v2, d2, gaussXi4[i])
		arcLength += gaussWt4[i] * Magnitude(dm)
	}
	return
}

// CubicHermiteArcLengthToXi returns the approximate arc length of the
// cubic curve up to the given xi, by re-parameterising the sub-curve.
func CubicHermiteArcLengthToXi(v1, d1, v2, d2 []float64, xi float64) float64 {
	d1m := make([]float64, len(d1))
	for i := range d1m {
		d1m[i] = d1[i] * xi
	}
	v2m := InterpolateCubicHermite(v1, d1, v2, d2, xi)
	d2m := InterpolateCubicHermiteDerivative(v1, d1, v2, d2, xi)
	for i := range d2m {
		d2m[i] *= xi
	}
	return CubicHermiteArcLength(v1, d1m, v2m, d2m)
}

// ComputeCubicHermiteArcLength computes the arc length between v1 and v2
// while iteratively rescaling the derivative magnitudes to that length.
// If rescaleDerivatives is false the initial estimate uses the supplied
// derivative magnitudes, otherwise the straight-line distance.
func ComputeCubicHermiteArcLength(v1, d1, v2, d2 []float64, rescaleDerivatives bool) float64 {
	var lastArcLength float64
	if rescaleDerivatives {
		diff := AddScaled(v2, v1, 1.0, -1.0)
		lastArcLength = Magnitude(diff)
	} else {
		lastArcLength = CubicHermiteArcLength(v1, d1, v2, d2)
	}
	u1 := Normalise(d1)
	u2 := Normalise(d2)
	const tol = 1.0e-6
	arcLength := lastArcLength
	for iters := 0; iters < 100; iters++ {
		d1s := SetMagnitude(u1, lastArcLength)
		d2s := SetMagnitude(u2, lastArcLength)
		arcLength = CubicHermiteArcLength(v1, d1s, v2, d2s)
		if iters > 9 {
			arcLength = 0.8*arcLength + 0.2*lastArcLength
		}
		if math.Abs(arcLength-lastArcLength) < tol*arcLength {
			return arcLength
		}
		lastArcLength = arcLength
	}
	return arcLength
}

// CurvesLength returns the total arc length of the cubic Hermite curves
// through points nx with derivatives nd.
func CurvesLength(nx, nd [][]float64) (length float64) {
	for e := 0; e+1 < len(nx); e++ {
		length += CubicHermiteArcLength(nx[e], nd[e], nx[e+1], nd[e+1])
	}
	return
}

// CurvePointAtArcDistance returns coordinates and derivative at the given
// distance along the cubic Hermite curves through nx, nd, iterating xi
// within the containing segment. Clamped to the curve ends when the
// distance lies beyond them. Supplied derivatives are used as-is.
func CurvePointAtArcDistance(nx, nd [][]float64, arcDistance float64) (x, d []float64) {
	elementsCount := len(nx) - 1
	if elementsCount < 1 {
		panic(fmt.Errorf("geom: curve needs at least 2 points, got %d", len(nx)))
	}
	if arcDistance < 0.0 {
		return nx[0], nd[0]
	}
	const (
		xiDelta = 1.0e-6
		xiTol   = 1.0e-6
	)
	length := 0.0
	for e := 0; e < elementsCount; e++ {
		partDistance := arcDistance - length
		v1, d1, v2, d2 := nx[e], nd[e], nx[e+1], nd[e+1]
		arcLength := CubicHermiteArcLength(v1, d1, v2, d2)
		if partDistance <= arcLength {
			xi := partDistance / arcLength
			dxiLimit := 0.1
			for iter := 0; iter < 100; iter++ {
				xiLast := xi
				dist := CubicHermiteArcLengthToXi(v1, d1, v2, d2, xi)
				distp := CubicHermiteArcLengthToXi(v1, d1, v2, d2, xi+xiDelta)
				distm := CubicHermiteArcLengthToXi(v1, d1, v2, d2, xi-xiDelta)
				if xi-xiDelta < 0.0 {
					distm = -distm
				}
				dxi := 2.0 * xiDelta / (distp - distm) * (partDistance - dist)
				if dxi > dxiLimit {
					dxi = dxiLimit
				} else if dxi < -dxiLimit {
					dxi = -dxiLimit
				}
				xi += dxi
				if math.Abs(xi-xiLast) <= xiTol {
					return InterpolateCubicHermite(v1, d1, v2, d2, xi),
						InterpolateCubicHermiteDerivative(v1, d1, v2, d2, xi)
				}
				switch iter {
				case 4, 10, 25, 62:
					dxiLimit *= 0.5
				}
			}
			return v2, d2
		}
		length += arcLength
	}
	return nx[elementsCount], nd[elementsCount]
}
