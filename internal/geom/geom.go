// Package geom provides the 2D geometry kernel used by the projection figures:
// - Point arithmetic and vector operations
// - 2D affine transformations (translation, rotation, scaling)
// - Circles, viewing cones and the camera exclusion disk
// - Arc sampling into renderable polylines
package geom

import (
	"fmt"
	"log"
	"math"
)

// Point represents a 2D point or vector in Cartesian coordinates. Scene
// coordinates grow rightwards in X and downwards in Y.
type Point struct {
	X float64
	Y float64
}

// Box represents an axis-aligned rectangle.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Affine represents a 2D affine transform in row-major form:
// [ a b c ]
// [ d e f ]
// where (x', y') = (a*x + b*y + c, d*x + e*y + f)
type Affine struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

func MakePoint(x, y float64) Point               { return Point{X: x, Y: y} }
func MakeBox(x, y, w, h float64) Box             { return Box{X: x, Y: y, W: w, H: h} }
func MakeAffine(a, b, c, d, e, f float64) Affine { return Affine{A: a, B: b, C: c, D: d, E: e, F: f} }

// Identity is the identity transform.
var Identity = MakeAffine(1, 0, 0, 0, 1, 0)

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }

// Polar returns the point at distance r from the origin in direction theta.
func Polar(theta, r float64) Point {
	return Point{r * math.Cos(theta), r * math.Sin(theta)}
}

func Dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

func Dist(p, q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp interpolates between a and b; t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp bounds x to [lo, hi]. Infinities clamp to the nearest bound.
func Clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// Contains reports whether p lies within the box (edges inclusive).
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Diagonal returns the length of the box's diagonal.
func (b Box) Diagonal() float64 {
	return math.Hypot(b.W, b.H)
}

// Rotation returns the transform rotating by theta about the origin. With Y
// pointing down a positive theta turns clockwise on screen.
func Rotation(theta float64) Affine {
	s, c := math.Sincos(theta)
	return MakeAffine(c, -s, 0, s, c, 0)
}

// Translation returns the transform translating by p.
func Translation(p Point) Affine {
	return MakeAffine(1, 0, p.X, 0, 1, p.Y)
}

// MulPoint applies the affine transform to a point.
func (t Affine) MulPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.C,
		Y: t.D*p.X + t.E*p.Y + t.F,
	}
}

// MulVec applies the linear part of the transform to a vector (ignoring
// translation).
func (t Affine) MulVec(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y,
		Y: t.D*p.X + t.E*p.Y,
	}
}

// Mul composes two affine transforms (applies u then t).
func (t Affine) Mul(u Affine) Affine {
	return MakeAffine(
		t.A*u.A+t.B*u.D,
		t.A*u.B+t.B*u.E,
		t.A*u.C+t.B*u.F+t.C,
		t.D*u.A+t.E*u.D,
		t.D*u.B+t.E*u.E,
		t.D*u.C+t.E*u.F+t.F,
	)
}

// Inv returns the inverse of the affine transform.
// Returns an error if the transform is not invertible (determinant is zero).
func (t Affine) Inv() (Affine, error) {
	det := t.A*t.E - t.B*t.D
	if math.Abs(det) < 1e-10 {
		return Affine{}, fmt.Errorf("affine transform is not invertible (determinant ≈ 0)")
	}
	return MakeAffine(
		t.E/det, -t.B/det, (t.B*t.F-t.C*t.E)/det,
		-t.D/det, t.A/det, (t.C*t.D-t.A*t.F)/det,
	), nil
}

// FillBox returns a transform that maps box b1 into b2, preserving aspect
// ratio and centering the result.
func FillBox(b1, b2 Box) Affine {
	if b1.W <= 0 || b1.H <= 0 {
		log.Fatalf("source box must have positive width and height, got W=%v H=%v", b1.W, b1.H)
	}
	if b2.W <= 0 || b2.H <= 0 {
		log.Fatalf("destination box must have positive width and height, got W=%v H=%v", b2.W, b2.H)
	}

	sc := math.Min(b2.W/b1.W, b2.H/b1.H)
	centerDst := MakeAffine(1, 0, b2.X+0.5*b2.W, 0, 1, b2.Y+0.5*b2.H)
	centerSrc := MakeAffine(1, 0, -(b1.X + 0.5*b1.W), 0, 1, -(b1.Y + 0.5*b1.H))
	return centerDst.Mul(MakeAffine(sc, 0, 0, 0, sc, 0)).Mul(centerSrc)
}
