// Package geom provides the vector, cubic Hermite and ellipse geometry
// utilities used by the scaffold generators.
package geom

import (
	"gonum.org/v1/gonum/floats"
)

// Cross returns the 3-D cross product of a and b.
func Cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Magnitude returns the Euclidean length of v.
func Magnitude(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Normalise returns v scaled to unit length.
func Normalise(v []float64) []float64 {
	return SetMagnitude(v, 1.0)
}

// SetMagnitude returns v scaled to have length mag.
func SetMagnitude(v []float64, mag float64) []float64 {
	scale := mag / floats.Norm(v, 2)
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = c * scale
	}
	return out
}

// AddScaled returns s1*a + s2*b.
func AddScaled(a, b []float64, s1, s2 float64) []float64 {
	out := make([]float64, len(a))
	floats.AddScaledTo(out, out, s1, a)
	floats.AddScaled(out, s2, b)
	return out
}
