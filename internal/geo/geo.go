// Package geo holds the planar geometry the board rules are built on.
// Points are simplefeatures XY values, so the same coordinates can be handed
// straight to the WKT export helpers in polyline.go.
package geo

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Point is an immutable 2D coordinate on the board plane.
type Point = geom.XY

// Pt is shorthand for building a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return b.Sub(a).Length()
}

// Orientation returns the cross product of (c-a) and (b-a).
// The sign tells which side of the line a->b the point c lies on; zero means collinear.
func Orientation(a, b, c Point) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (b.X-a.X)*(c.Y-a.Y)
}

// DistancePointToSegment returns the distance from p to the closest point of the
// closed segment a-b. A degenerate segment (a == b) is treated as the single point a.
func DistancePointToSegment(p, a, b Point) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return Distance(p, a)
	}

	t := p.Sub(a).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := a.Add(d.Scale(t))
	return Distance(p, closest)
}

// SegmentsProperlyIntersect reports whether segment p1-p2 and segment p3-p4 cross
// with every endpoint strictly on the opposite side of the other segment's line.
// Touching, collinear overlap and shared endpoints are not intersections here.
func SegmentsProperlyIntersect(p1, p2, p3, p4 Point) bool {
	d1 := Orientation(p3, p4, p1)
	d2 := Orientation(p3, p4, p2)
	d3 := Orientation(p1, p2, p3)
	d4 := Orientation(p1, p2, p4)

	return oppositeSigns(d1, d2) && oppositeSigns(d3, d4)
}

func oppositeSigns(a, b float64) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}
