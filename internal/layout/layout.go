// Package layout produces the point sets a game is played on.
//
// Every pattern is a closed-form arrangement around the plane's center; the
// only randomness is which pattern gets picked, and that comes from the
// caller's source.
package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/tesselate/tesselate/internal/geo"
)

const (
	// DefaultWidth and DefaultHeight are used when the plane size is unknown (zero).
	DefaultWidth  = 900
	DefaultHeight = 520

	// MinWidth and MinHeight clamp tiny planes so every pattern still fits.
	MinWidth  = 300
	MinHeight = 200
)

// ErrUnknownPattern is returned by ParsePattern for names it does not recognise.
var ErrUnknownPattern = errors.New("unknown layout pattern")

// Pattern selects one of the fixed arrangements.
type Pattern int

const (
	HexagonalGrid Pattern = iota
	ConcentricRings
	TriangularGrid
	SquareGrid
	Star
	Diamond
	Spiral
	Flower
	DoubleHexagon
	Octagon

	patternCount int = iota
)

var patternNames = [...]string{
	HexagonalGrid:   "hexagonal-grid",
	ConcentricRings: "concentric-rings",
	TriangularGrid:  "triangular-grid",
	SquareGrid:      "square-grid",
	Star:            "star",
	Diamond:         "diamond",
	Spiral:          "spiral",
	Flower:          "flower",
	DoubleHexagon:   "double-hexagon",
	Octagon:         "octagon",
}

// Rand is the subset of *math/rand.Rand the generator needs.
type Rand interface {
	Intn(n int) int
}

// All returns every pattern in selection order.
func All() []Pattern {
	out := make([]Pattern, patternCount)
	for i := range out {
		out[i] = Pattern(i)
	}
	return out
}

// Random picks a pattern uniformly.
func Random(rng Rand) Pattern {
	return Pattern(rng.Intn(patternCount))
}

func (p Pattern) String() string {
	if p < 0 || int(p) >= patternCount {
		return fmt.Sprintf("pattern(%d)", int(p))
	}
	return patternNames[p]
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool {
	return p >= 0 && int(p) < patternCount
}

// ParsePattern maps a pattern name (as returned by String) back to the Pattern.
func ParsePattern(name string) (Pattern, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// PlaneSize applies the default and minimum plane dimensions.
func PlaneSize(width, height float64) (w, h float64) {
	w, h = width, height
	if w == 0 {
		w = DefaultWidth
	}
	if h == 0 {
		h = DefaultHeight
	}
	return math.Max(MinWidth, w), math.Max(MinHeight, h)
}

// Generate lays out pattern p on a width x height plane.
// All offsets are multiplied by scale; a scale of zero or less means 1.
// The returned order is the stable point index used by the rest of the game.
func Generate(p Pattern, width, height, scale float64) []geo.Point {
	if scale <= 0 {
		scale = 1
	}
	w, h := PlaneSize(width, height)
	b := &builder{center: geo.Pt(w/2, h/2), scale: scale}

	switch p {
	case HexagonalGrid:
		b.hexagonalGrid()
	case ConcentricRings:
		b.concentricRings()
	case TriangularGrid:
		b.triangularGrid()
	case SquareGrid:
		b.squareGrid()
	case Star:
		b.star()
	case Diamond:
		b.diamond()
	case Spiral:
		b.spiral()
	case Flower:
		b.flower()
	case DoubleHexagon:
		b.doubleHexagon()
	case Octagon:
		b.octagon()
	default:
		panic(fmt.Sprintf("layout: invalid pattern %d", int(p)))
	}

	return b.points
}
