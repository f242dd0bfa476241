package arrangement

import (
	"fmt"
	"math/big"
)

// Point is an exact coordinate in 2D space. Its rationals must not be modified after construction,
// points share them freely.
type Point struct {
	X, Y *big.Rat
}

// Pt returns the point (x,y) for integer coordinates.
func Pt(x, y int64) Point {
	return Point{big.NewRat(x, 1), big.NewRat(y, 1)}
}

// PtRat returns the point (x,y), copying the rationals.
func PtRat(x, y *big.Rat) Point {
	return Point{new(big.Rat).Set(x), new(big.Rat).Set(y)}
}

// PtFloat returns the point (x,y) for floating-point coordinates, which are converted exactly. It returns false for NaN or infinite coordinates.
func PtFloat(x, y float64) (Point, bool) {
	rx, ry := new(big.Rat), new(big.Rat)
	if rx.SetFloat64(x) == nil || ry.SetFloat64(y) == nil {
		return Point{}, false
	}
	return Point{rx, ry}, true
}

// Compare returns -1, 0, or +1 when p is before, equal to, or after q in sweep order, that is by X and then by Y.
func (p Point) Compare(q Point) int {
	if cmp := p.X.Cmp(q.X); cmp != 0 {
		return cmp
	}
	return p.Y.Cmp(q.Y)
}

// Equals returns true if p and q are the same point.
func (p Point) Equals(q Point) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Less returns true if p comes before q in sweep order.
func (p Point) Less(q Point) bool {
	return p.Compare(q) < 0
}

// Float returns the nearest floating-point coordinates.
func (p Point) Float() (float64, float64) {
	x, _ := p.X.Float64()
	y, _ := p.Y.Float64()
	return x, y
}

func (p Point) String() string {
	return fmt.Sprintf("(%v,%v)", ratString(p.X), ratString(p.Y))
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}

func minPoint(p, q Point) Point {
	if q.Less(p) {
		return q
	}
	return p
}

func maxPoint(p, q Point) Point {
	if p.Less(q) {
		return q
	}
	return p
}

////////////////////////////////////////////////////////////////

// Segment is a straight line segment between two distinct points.
type Segment struct {
	Start, End Point
}

// Seg returns the segment (x0,y0)−(x1,y1) for integer coordinates.
func Seg(x0, y0, x1, y1 int64) Segment {
	return Segment{Pt(x0, y0), Pt(x1, y1)}
}

// Sorted returns the segment with its lesser endpoint first.
func (s Segment) Sorted() Segment {
	if s.End.Less(s.Start) {
		return Segment{s.End, s.Start}
	}
	return s
}

// Degenerate returns true if the segment has zero length.
func (s Segment) Degenerate() bool {
	return s.Start.Equals(s.End)
}

// Equals returns true if both segments have the same endpoints, regardless of direction.
func (s Segment) Equals(t Segment) bool {
	return s.Start.Equals(t.Start) && s.End.Equals(t.End) || s.Start.Equals(t.End) && s.End.Equals(t.Start)
}

// Contains returns true if p lies on the segment, including its endpoints.
func (s Segment) Contains(p Point) bool {
	if Orient(s.Start, s.End, p) != Collinear {
		return false
	}
	s = s.Sorted()
	return !p.Less(s.Start) && !s.End.Less(p)
}

func (s Segment) String() string {
	return fmt.Sprintf("%v−%v", s.Start, s.End)
}

////////////////////////////////////////////////////////////////

// Orientation is the turn direction of three points.
type Orientation int

const (
	Clockwise        Orientation = -1
	Collinear        Orientation = 0
	Counterclockwise Orientation = 1
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "Clockwise"
	case Collinear:
		return "Collinear"
	case Counterclockwise:
		return "Counterclockwise"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// Orient returns the orientation of c relative to the directed line through a and b. It is Counterclockwise when c lies to the left of a→b.
func Orient(a, b, c Point) Orientation {
	return Orientation(cross(a, b, a, c).Sign())
}

// cross returns (b-a)×(d-c).
func cross(a, b, c, d Point) *big.Rat {
	var dx0, dy0, dx1, dy1 big.Rat
	dx0.Sub(b.X, a.X)
	dy0.Sub(b.Y, a.Y)
	dx1.Sub(d.X, c.X)
	dy1.Sub(d.Y, c.Y)
	dx0.Mul(&dx0, &dy1)
	dy0.Mul(&dy0, &dx1)
	return dx0.Sub(&dx0, &dy0)
}

// intersectionPoint returns the crossing point of segments a0−a1 and b0−b1, which must cross properly so that the denominator is non-zero.
func intersectionPoint(a0, a1, b0, b1 Point) Point {
	denom := cross(a0, a1, b0, b1)
	t := cross(a0, b0, b0, b1)
	t.Quo(t, denom)

	var x, y big.Rat
	x.Sub(a1.X, a0.X)
	x.Mul(&x, t)
	x.Add(&x, a0.X)
	y.Sub(a1.Y, a0.Y)
	y.Mul(&y, t)
	y.Add(&y, a0.Y)
	return Point{&x, &y}
}
