package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Segment is a straight line between two board points.
type Segment struct {
	From Point
	To   Point
}

// Tri is three board points forming a filled triangle.
type Tri [3]Point

// SegmentToLineString converts a segment into a two-vertex geom.LineString.
// A zero-length segment fails validation.
func SegmentToLineString(s Segment) (geom.LineString, error) {
	seq := geom.NewSequence([]float64{s.From.X, s.From.Y, s.To.X, s.To.Y}, geom.DimXY)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("segment %v-%v: %w", s.From, s.To, err)
	}
	return ls, nil
}

// EdgesToMultiLineString builds one MULTILINESTRING out of the drawn edges.
func EdgesToMultiLineString(segments []Segment) (geom.MultiLineString, error) {
	lss := make([]geom.LineString, 0, len(segments))
	for i, s := range segments {
		ls, err := SegmentToLineString(s)
		if err != nil {
			return geom.MultiLineString{}, fmt.Errorf("edge %d: %w", i, err)
		}
		lss = append(lss, ls)
	}
	return geom.NewMultiLineString(lss), nil
}

// TriangleToPolygon converts a triangle into a closed single-ring polygon.
// Collinear corners fail validation.
func TriangleToPolygon(t Tri) (geom.Polygon, error) {
	flat := make([]float64, 0, 8)
	for _, p := range t {
		flat = append(flat, p.X, p.Y)
	}
	// close the ring
	flat = append(flat, t[0].X, t[0].Y)

	ring, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("triangle ring: %w", err)
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("triangle %v: %w", t, err)
	}
	return poly, nil
}

// TrianglesToCollection builds one GEOMETRYCOLLECTION of triangle polygons.
// Claimed triangles share edges and may nest, which a MULTIPOLYGON forbids.
func TrianglesToCollection(tris []Tri) (geom.GeometryCollection, error) {
	geoms := make([]geom.Geometry, 0, len(tris))
	for i, t := range tris {
		p, err := TriangleToPolygon(t)
		if err != nil {
			return geom.GeometryCollection{}, fmt.Errorf("triangle %d: %w", i, err)
		}
		geoms = append(geoms, p.AsGeometry())
	}
	return geom.NewGeometryCollection(geoms), nil
}

// BoardWKT renders the edges and triangles as two WKT lines, edges first.
func BoardWKT(segments []Segment, tris []Tri) (string, error) {
	mls, err := EdgesToMultiLineString(segments)
	if err != nil {
		return "", err
	}
	gc, err := TrianglesToCollection(tris)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n%s", mls.AsText(), gc.AsText()), nil
}
