// Package board holds the point set, drawn edges and claimed triangles of one
// game, and decides which new edges are legal. It knows nothing about players
// or scores.
package board

import (
	"errors"
	"fmt"

	"github.com/tesselate/tesselate/internal/geo"
)

// Rejection reasons returned by CanPlaceEdge.
var (
	ErrDuplicateEdge    = errors.New("edge already drawn")
	ErrTooLong          = errors.New("edge too long")
	ErrIntersects       = errors.New("edge intersects an existing edge")
	ErrPassesThroughDot = errors.New("edge passes through another dot")
)

// Reason returns the stable name of a rejection error, or "" if err is not one.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateEdge):
		return "duplicate_edge"
	case errors.Is(err, ErrTooLong):
		return "too_long"
	case errors.Is(err, ErrIntersects):
		return "intersects"
	case errors.Is(err, ErrPassesThroughDot):
		return "passes_through_dot"
	default:
		return ""
	}
}

// Rules are the legality thresholds, in plane units.
type Rules struct {
	// DotRadius is the drawn radius of a point; an edge closer than this to an
	// uninvolved point is rejected.
	DotRadius float64 `json:"dotRadius"`
	// MaxEdgeLength caps the Euclidean length of an edge.
	MaxEdgeLength float64 `json:"maxEdgeLength"`
}

// DefaultRules are the thresholds for layouts generated at scale 1.
func DefaultRules() Rules {
	return Rules{DotRadius: 6, MaxEdgeLength: 250}
}

// Scaled multiplies both thresholds by s, matching layout.Generate at the same scale.
func (r Rules) Scaled(s float64) Rules {
	if s <= 0 {
		return r
	}
	return Rules{DotRadius: r.DotRadius * s, MaxEdgeLength: r.MaxEdgeLength * s}
}

// Board is the graph state of a single game.
type Board struct {
	points []geo.Point
	rules  Rules

	edges     map[Edge]struct{}
	edgeOrder []Edge

	claimed    map[Triangle]struct{}
	claimOrder []Triangle

	// legal holds every pair that CanPlaceEdge currently accepts. A pair only
	// ever leaves the set, when it is drawn or crossed by a drawn edge.
	legal map[Edge]struct{}
}

// New builds an empty board over points. The slice is copied.
func New(points []geo.Point, rules Rules) *Board {
	pts := make([]geo.Point, len(points))
	copy(pts, points)
	b := &Board{
		points:  pts,
		rules:   rules,
		edges:   make(map[Edge]struct{}),
		claimed: make(map[Triangle]struct{}),
		legal:   make(map[Edge]struct{}),
	}
	for u := 0; u < len(pts); u++ {
		for v := u + 1; v < len(pts); v++ {
			if b.CanPlaceEdge(u, v) == nil {
				b.legal[Edge{U: u, V: v}] = struct{}{}
			}
		}
	}
	return b
}

// Len returns the number of points.
func (b *Board) Len() int {
	return len(b.points)
}

// Rules returns the thresholds the board validates against.
func (b *Board) Rules() Rules {
	return b.rules
}

// Point returns the coordinate of point i.
func (b *Board) Point(i int) geo.Point {
	b.mustIndex(i)
	return b.points[i]
}

// Points returns a copy of the point sequence.
func (b *Board) Points() []geo.Point {
	out := make([]geo.Point, len(b.points))
	copy(out, b.points)
	return out
}

// Edges returns the drawn edges in the order they were placed.
func (b *Board) Edges() []Edge {
	out := make([]Edge, len(b.edgeOrder))
	copy(out, b.edgeOrder)
	return out
}

// Claimed returns the claimed triangles in claim order.
func (b *Board) Claimed() []Triangle {
	out := make([]Triangle, len(b.claimOrder))
	copy(out, b.claimOrder)
	return out
}

// Segment returns the geometry of e.
func (b *Board) Segment(e Edge) geo.Segment {
	return geo.Segment{From: b.Point(e.U), To: b.Point(e.V)}
}

// Tri returns the geometry of t.
func (b *Board) Tri(t Triangle) geo.Tri {
	return geo.Tri{b.Point(t.A), b.Point(t.B), b.Point(t.C)}
}

// EdgeExists reports whether the edge u-v has been drawn, in either order.
func (b *Board) EdgeExists(u, v int) bool {
	if u == v {
		return false
	}
	_, ok := b.edges[NewEdge(u, v)]
	return ok
}

// CanPlaceEdge checks whether u-v may be drawn and returns the first rejection
// reason, or nil. Checks run in order: duplicate, length, crossing, dot overlap.
// Out-of-range indices and u == v panic.
func (b *Board) CanPlaceEdge(u, v int) error {
	b.mustIndex(u)
	b.mustIndex(v)
	e := NewEdge(u, v)

	if _, ok := b.edges[e]; ok {
		return ErrDuplicateEdge
	}

	p1, p2 := b.points[e.U], b.points[e.V]
	if geo.Distance(p1, p2) > b.rules.MaxEdgeLength {
		return ErrTooLong
	}

	for _, other := range b.edgeOrder {
		// edges meeting at a vertex are allowed to touch there
		if e.SharesVertex(other) {
			continue
		}
		if geo.SegmentsProperlyIntersect(p1, p2, b.points[other.U], b.points[other.V]) {
			return ErrIntersects
		}
	}

	for i, p := range b.points {
		if e.Has(i) {
			continue
		}
		if geo.DistancePointToSegment(p, p1, p2) <= b.rules.DotRadius {
			return ErrPassesThroughDot
		}
	}

	return nil
}

// PlaceEdge records u-v. The edge must be legal; placing an illegal edge panics.
func (b *Board) PlaceEdge(u, v int) Edge {
	if err := b.CanPlaceEdge(u, v); err != nil {
		panic(fmt.Sprintf("board: placing illegal edge %d-%d: %v", u, v, err))
	}
	e := NewEdge(u, v)
	b.edges[e] = struct{}{}
	b.edgeOrder = append(b.edgeOrder, e)

	delete(b.legal, e)
	p1, p2 := b.points[e.U], b.points[e.V]
	for c := range b.legal {
		if !c.SharesVertex(e) && geo.SegmentsProperlyIntersect(p1, p2, b.points[c.U], b.points[c.V]) {
			delete(b.legal, c)
		}
	}
	return e
}

// FindNewTriangles returns every unclaimed triangle that has u-v as a side and
// whose other two sides are drawn, ordered by the third vertex.
func (b *Board) FindNewTriangles(u, v int) []Triangle {
	b.mustIndex(u)
	b.mustIndex(v)

	var found []Triangle
	for k := range b.points {
		if k == u || k == v {
			continue
		}
		if !b.EdgeExists(u, k) || !b.EdgeExists(v, k) {
			continue
		}
		t := NewTriangle(u, v, k)
		if !b.IsClaimed(t) {
			found = append(found, t)
		}
	}
	return found
}

// IsClaimed reports whether t has already been scored.
func (b *Board) IsClaimed(t Triangle) bool {
	_, ok := b.claimed[t]
	return ok
}

// Claim marks t as scored. It returns false if t was already claimed.
// Claiming a triangle whose sides are not all drawn panics.
func (b *Board) Claim(t Triangle) bool {
	for _, e := range t.Edges() {
		if _, ok := b.edges[e]; !ok {
			panic(fmt.Sprintf("board: claiming incomplete triangle %s, missing %s", t, e))
		}
	}
	if b.IsClaimed(t) {
		return false
	}
	b.claimed[t] = struct{}{}
	b.claimOrder = append(b.claimOrder, t)
	return true
}

// HasLegalMove reports whether any edge can still be drawn.
func (b *Board) HasLegalMove() bool {
	return len(b.legal) > 0
}

// LegalMoves returns the number of edges that can still be drawn.
func (b *Board) LegalMoves() int {
	return len(b.legal)
}

func (b *Board) mustIndex(i int) {
	if i < 0 || i >= len(b.points) {
		panic(fmt.Sprintf("board: point index %d out of range [0,%d)", i, len(b.points)))
	}
}
