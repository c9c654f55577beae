package board

import (
	"fmt"
	"sort"
)

// Edge is an undirected connection between two distinct point indices.
// U < V always holds, so two Edges for the same pair compare equal.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// NewEdge returns the normalized edge between a and b. It panics on a self-edge.
func NewEdge(a, b int) Edge {
	if a == b {
		panic(fmt.Sprintf("board: self-edge on point %d", a))
	}
	if a > b {
		a, b = b, a
	}
	return Edge{U: a, V: b}
}

// Has reports whether i is one of the endpoints.
func (e Edge) Has(i int) bool {
	return e.U == i || e.V == i
}

// SharesVertex reports whether e and o have an endpoint in common.
func (e Edge) SharesVertex(o Edge) bool {
	return e.Has(o.U) || e.Has(o.V)
}

func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e.U, e.V)
}

// Triangle is an unordered triple of distinct point indices, stored sorted.
type Triangle struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// NewTriangle returns the normalized triangle over x, y and z.
// It panics if any two indices are equal.
func NewTriangle(x, y, z int) Triangle {
	if x == y || y == z || x == z {
		panic(fmt.Sprintf("board: degenerate triangle %d,%d,%d", x, y, z))
	}
	v := []int{x, y, z}
	sort.Ints(v)
	return Triangle{A: v[0], B: v[1], C: v[2]}
}

// Edges returns the three sides of the triangle.
func (t Triangle) Edges() [3]Edge {
	return [3]Edge{NewEdge(t.A, t.B), NewEdge(t.B, t.C), NewEdge(t.A, t.C)}
}

// Vertices returns the point indices in ascending order.
func (t Triangle) Vertices() [3]int {
	return [3]int{t.A, t.B, t.C}
}

func (t Triangle) String() string {
	return fmt.Sprintf("%d-%d-%d", t.A, t.B, t.C)
}
