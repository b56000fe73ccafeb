package geom

import "math"

// maxArcStep is the largest angle a single chord of a sampled arc may span.
const maxArcStep = math.Pi / 90

// Polyline is an open sequence of connected points. A closed shape repeats its
// first point at the end.
type Polyline []Point

// Path is a list of disjoint polylines ("subpaths"). A nil Path is the empty
// image: nothing is drawn.
type Path []Polyline

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	for _, pl := range p {
		if len(pl) > 1 {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all points in the path and whether the
// path had any points.
func (p Path) Bounds() (Box, bool) {
	xmin, xmax := math.MaxFloat64, -math.MaxFloat64
	ymin, ymax := math.MaxFloat64, -math.MaxFloat64
	n := 0
	for _, pl := range p {
		for _, pt := range pl {
			xmin, xmax = math.Min(xmin, pt.X), math.Max(xmax, pt.X)
			ymin, ymax = math.Min(ymin, pt.Y), math.Max(ymax, pt.Y)
			n++
		}
	}
	if n == 0 {
		return Box{}, false
	}
	return MakeBox(xmin, ymin, xmax-xmin, ymax-ymin), true
}

// Segment returns the two-point polyline from p to q.
func Segment(p, q Point) Polyline { return Polyline{p, q} }

// Arc samples the arc of the circle (center, r) from angle a0 to a1, moving in
// the direction of increasing angle if a1 > a0. The exact endpoints are always
// included.
func Arc(center Point, r, a0, a1 float64) Polyline {
	n := int(math.Ceil(math.Abs(a1-a0) / maxArcStep))
	if n < 1 {
		n = 1
	}
	pl := make(Polyline, n+1)
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		if i == n {
			a = a1
		}
		pl[i] = center.Add(Polar(a, r))
	}
	return pl
}

// RegularPolygon returns the closed polygon with n vertices on the circle
// (center, r), the first at angle a0.
func RegularPolygon(center Point, r float64, n int, a0 float64) Polyline {
	dt := 2 * math.Pi / float64(n)
	pl := make(Polyline, n+1)
	for i := 0; i < n; i++ {
		pl[i] = center.Add(Polar(a0+dt*float64(i), r))
	}
	pl[n] = pl[0]
	return pl
}

// WrapAngle maps a into [0, 2π).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
