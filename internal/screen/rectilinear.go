package screen

import (
	"math"

	"github.com/irfansharif/lenses/internal/geom"
)

// Rectilinear is a straight screen of the given width centered at Center,
// lying along the line y = Center.Y.
type Rectilinear struct {
	Center geom.Point
	Width  float64
}

var _ Screen = (*Rectilinear)(nil)

func NewRectilinear(center geom.Point, width float64) *Rectilinear {
	return &Rectilinear{Center: center, Width: width}
}

func (r *Rectilinear) Left() float64  { return r.Center.X - r.Width/2 }
func (r *Rectilinear) Right() float64 { return r.Center.X + r.Width/2 }

// Intercept returns the x coordinate where the ray from apex through p meets
// the screen line, by similar triangles. If p is on the camera side of the
// screen (p.Y >= apex.Y) the ray never reaches it, and the edge maps to screen
// infinity on p's side.
func (r *Rectilinear) Intercept(apex, p geom.Point) float64 {
	if p.Y >= apex.Y {
		return math.Copysign(math.Inf(1), p.X-apex.X)
	}
	return (p.X-apex.X)/(p.Y-apex.Y)*(r.Center.Y-apex.Y) + apex.X
}

// ProjectRays images the pair of rays from apex through p1 and p2. It returns
// false if both rays are on the camera side of the screen, or if the image
// falls entirely beyond one end of the screen.
func (r *Rectilinear) ProjectRays(apex, p1, p2 geom.Point) (geom.Polyline, bool) {
	if p1.Y >= apex.Y && p2.Y >= apex.Y {
		return nil, false
	}

	ix1 := geom.Clamp(r.Intercept(apex, p1), r.Left(), r.Right())
	ix2 := geom.Clamp(r.Intercept(apex, p2), r.Left(), r.Right())
	if ix1 == ix2 {
		return nil, false
	}
	return geom.Segment(
		geom.MakePoint(ix1, r.Center.Y),
		geom.MakePoint(ix2, r.Center.Y),
	), true
}

func (r *Rectilinear) Project(c geom.Cone) geom.Path {
	seg, ok := r.ProjectRays(c.Apex, c.T1, c.T2)
	if !ok {
		return nil
	}
	return geom.Path{seg}
}

func (r *Rectilinear) Shape() geom.Path {
	return geom.Path{geom.Segment(
		geom.MakePoint(r.Left(), r.Center.Y),
		geom.MakePoint(r.Right(), r.Center.Y),
	)}
}

func (r *Rectilinear) ConeShape(c geom.Cone) geom.Path {
	return geom.Path{c.Wedge()}
}

func (r *Rectilinear) Transition(Boundary) {}
