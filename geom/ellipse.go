package geom

import (
	"math"
)

// ApproximateEllipsePerimeter returns the perimeter of an ellipse with
// major and minor axis lengths a and b, using the Ramanujan II
// approximation.
func ApproximateEllipsePerimeter(a, b float64) float64 {
	h := (a - b) / (a + b)
	h *= h
	return math.Pi * (a + b) * (1.0 + 3.0*h/(10.0+math.Sqrt(4.0-3.0*h)))
}

// EllipseArcLength returns the perimeter distance between two angles
// measured anticlockwise from the major axis, by summing line segments at
// regular angles (at most 100 segments around the full ellipse). Positive
// if angle2Radians > angle1Radians, otherwise negative.
func EllipseArcLength(a, b, angle1Radians, angle2Radians float64) float64 {
	angle1 := math.Min(angle1Radians, angle2Radians)
	angle2 := math.Max(angle1Radians, angle2Radians)
	segmentCount := int(math.Ceil(50.0 * (angle2 - angle1) / math.Pi))
	if segmentCount < 1 {
		segmentCount = 1
	}
	length := 0.0
	var lastX, lastY float64
	for i := 0; i <= segmentCount; i++ {
		r := float64(i) / float64(segmentCount)
		angle := r*angle1 + (1.0-r)*angle2
		x := a * math.Cos(angle)
		y := b * math.Sin(angle)
		if i > 0 {
			length += math.Hypot(x-lastX, y-lastY)
		}
		lastX, lastY = x, y
	}
	if angle1Radians < angle2Radians {
		return length
	}
	return -length
}

// UpdateEllipseAngleByArcLength updates an angle around the ellipse to
// subtend arcLength around the perimeter, iterating with the local
// perimeter derivative. Positive arcLength moves anticlockwise.
func UpdateEllipseAngleByArcLength(a, b, inAngleRadians, arcLength float64) float64 {
	angle := inAngleRadians
	lengthMoved := 0.0
	// broad tolerance due to reliance on the inexact EllipseArcLength
	lengthTol := (a + b) * 1.0e-4
	counter := 0
	for math.Abs(arcLength-lengthMoved) > lengthTol {
		angleOld := angle
		tx := -a * math.Sin(angle)
		ty := b * math.Cos(angle)
		dlengthDangle := math.Hypot(tx, ty)
		angle += (arcLength - lengthMoved) / dlengthDangle
		if counter >= 100 {
			angle = 0.5 * (angle + angleOld)
		}
		lengthMoved = EllipseArcLength(a, b, inAngleRadians, angle)
		counter++
	}
	return angle
}

// EllipsePoints returns count evenly angled points around the full ellipse
// centred at cx with given axis vectors, and their derivatives scaled for
// count elements around the loop. Points start at startRadians from axis1.
func EllipsePoints(cx, axis1, axis2 []float64, count int, startRadians float64) (px, pd [][]float64) {
	radiansPerElement := 2.0 * math.Pi / float64(count)
	for n := 0; n < count; n++ {
		radians := startRadians + float64(n)*radiansPerElement
		cosR := math.Cos(radians)
		sinR := math.Sin(radians)
		x := make([]float64, 3)
		d := make([]float64, 3)
		for c := 0; c < 3; c++ {
			x[c] = cx[c] + cosR*axis1[c] + sinR*axis2[c]
			d[c] = radiansPerElement * (-sinR*axis1[c] + cosR*axis2[c])
		}
		px = append(px, x)
		pd = append(pd, d)
	}
	return
}

// EllipsoidPoint returns the surface point of the axis-aligned ellipsoid
// with semi-axes a, b, c at azimuthal angle theta and polar angle phi
// (phi = 0 at the +z pole).
func EllipsoidPoint(centre []float64, a, b, c, theta, phi float64) []float64 {
	sinPhi := math.Sin(phi)
	return []float64{
		centre[0] + a*sinPhi*math.Cos(theta),
		centre[1] + b*sinPhi*math.Sin(theta),
		centre[2] + c*math.Cos(phi),
	}
}
