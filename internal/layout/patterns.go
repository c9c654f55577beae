package layout

import (
	"math"

	"github.com/tesselate/tesselate/internal/geo"
)

// sin60 is the row pitch factor of the hex and triangular grids.
const sin60 = 0.866

type builder struct {
	center geo.Point
	scale  float64
	points []geo.Point
}

// add appends a point at offset (dx, dy) from the center, in unscaled units.
func (b *builder) add(dx, dy float64) {
	b.points = append(b.points, geo.Pt(b.center.X+dx*b.scale, b.center.Y+dy*b.scale))
}

// polar appends a point at radius r and angle theta (radians) from the center.
func (b *builder) polar(r, theta float64) {
	b.add(r*math.Cos(theta), r*math.Sin(theta))
}

func (b *builder) ring(n int, r, phase float64) {
	for i := 0; i < n; i++ {
		b.polar(r, phase+2*math.Pi*float64(i)/float64(n))
	}
}

func (b *builder) hexagonalGrid() {
	const spacing = 60
	for row := -2; row <= 2; row++ {
		cols := 4 - abs(row)
		for col := -cols; col <= cols; col++ {
			// row%2 keeps its sign, so odd rows above the center shift left
			x := float64(col)*spacing + float64(row%2)*spacing/2
			y := float64(row) * spacing * sin60
			b.add(x, y)
		}
	}
}

func (b *builder) concentricRings() {
	b.add(0, 0)
	dots := [...]int{6, 8, 10}
	radii := [...]float64{60, 110, 160}
	for i := range dots {
		b.ring(dots[i], radii[i], 0)
	}
}

func (b *builder) triangularGrid() {
	const spacing = 65
	for row := 0; row < 5; row++ {
		inRow := 5 - row
		for col := 0; col < inRow; col++ {
			x := (float64(col)-float64(inRow)/2)*spacing + float64(row)*spacing/2
			y := -100 + float64(row)*spacing*sin60
			b.add(x, y)
		}
	}
}

func (b *builder) squareGrid() {
	const spacing = 70
	for row := -2; row <= 2; row++ {
		for col := -2; col <= 2; col++ {
			b.add(float64(col)*spacing, float64(row)*spacing)
		}
	}
}

func (b *builder) star() {
	b.add(0, 0)
	up := -math.Pi / 2
	b.ring(5, 60, up)
	b.ring(5, 120, up+math.Pi/5)
	b.ring(5, 170, up)
}

func (b *builder) diamond() {
	b.add(0, 0)
	offsets := [...][2]float64{
		{0, -60}, {60, 0}, {0, 60}, {-60, 0},
		{0, -120}, {80, -60}, {120, 0}, {80, 60}, {0, 120}, {-80, 60}, {-120, 0}, {-80, -60},
	}
	for _, o := range offsets {
		b.add(o[0], o[1])
	}
}

func (b *builder) spiral() {
	b.add(0, 0)
	var theta, r float64
	for i := 0; i < 20; i++ {
		theta += 0.8
		r += 8
		b.polar(r, theta)
	}
}

func (b *builder) flower() {
	b.add(0, 0)
	for petal := 0; petal < 6; petal++ {
		theta := math.Pi * float64(petal) / 3
		for i := 1; i <= 3; i++ {
			b.polar(float64(i)*50, theta)
		}
	}
}

func (b *builder) doubleHexagon() {
	b.ring(6, 60, 0)
	b.ring(6, 140, 0)
	b.ring(6, 100, math.Pi/6)
}

func (b *builder) octagon() {
	b.add(0, 0)
	b.ring(8, 70, 0)
	b.ring(8, 140, 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
