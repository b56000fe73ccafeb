package screen

import (
	"math"

	"github.com/irfansharif/lenses/internal/geom"
)

// Camera indices for Stereo.
const (
	NearCamera = 0
	FarCamera  = 1
)

// Stereo images objects twice. The primary camera sees them on Near, a
// circular screen around it. A second camera, placed at the bottom of Near,
// then re-images Near onto Far, a flat screen. The image of an object is
// always both its near arc and its far segment; the gesture state only picks
// which camera's cone is visualised.
type Stereo struct {
	Near    geom.Circle // centered on the primary camera
	Camera2 geom.Point
	Far     *Rectilinear

	active int
}

var (
	_ Screen   = (*Stereo)(nil)
	_ Switcher = (*Stereo)(nil)
)

// NewStereo returns a stereo screen around the primary camera at cam1. The
// second camera sits nearRadius below cam1.
func NewStereo(cam1 geom.Point, nearRadius float64, far *Rectilinear) *Stereo {
	return &Stereo{
		Near:    geom.Circle{Center: cam1, R: nearRadius},
		Camera2: cam1.Add(geom.MakePoint(0, nearRadius)),
		Far:     far,
	}
}

func (s *Stereo) ActiveCamera() int { return s.active }

func (s *Stereo) Cameras() []geom.Point {
	return []geom.Point{s.Near.Center, s.Camera2}
}

// Transition makes the primary camera and near screen active during a drag,
// and the second camera and far screen active otherwise.
func (s *Stereo) Transition(b Boundary) {
	if b == DragStart {
		s.active = NearCamera
	} else {
		s.active = FarCamera
	}
}

// nearPoints returns where the cone's tangent rays cross the near screen.
func (s *Stereo) nearPoints(c geom.Cone) (geom.Point, geom.Point) {
	return s.Near.Center.Add(geom.Polar(c.MinAngle(), s.Near.R)),
		s.Near.Center.Add(geom.Polar(c.MaxAngle(), s.Near.R))
}

// Reproject images two points of the near screen through cam2 onto the far
// screen, using the rectilinear method on the rays cam2->p1 and cam2->p2.
func Reproject(p1, p2, cam2 geom.Point, far *Rectilinear) (geom.Polyline, bool) {
	return far.ProjectRays(cam2, p1, p2)
}

func (s *Stereo) Project(c geom.Cone) geom.Path {
	path := geom.Path{geom.Arc(s.Near.Center, s.Near.R, c.MinAngle(), c.MaxAngle())}
	p1, p2 := s.nearPoints(c)
	if seg, ok := Reproject(p1, p2, s.Camera2, s.Far); ok {
		path = append(path, seg)
	}
	return path
}

func (s *Stereo) Shape() geom.Path {
	return append(geom.Path{geom.RegularPolygon(s.Near.Center, s.Near.R, 90, 0)}, s.Far.Shape()...)
}

// ConeShape returns the primary camera's cone while the near screen is
// active. Otherwise it returns the second camera's cone through the near
// image, cut at the far screen's line (unclamped by the screen's width).
func (s *Stereo) ConeShape(c geom.Cone) geom.Path {
	if s.active == NearCamera {
		return geom.Path{c.Wedge()}
	}

	ext := geom.Dist(c.Apex, c.T1)
	p1, p2 := s.nearPoints(c)
	return geom.Path{{s.Camera2, s.farPoint(p1, ext), s.farPoint(p2, ext), s.Camera2}}
}

// farPoint is where the ray from the second camera through p meets the far
// screen's line, or the ray's end at length ext if it never does.
func (s *Stereo) farPoint(p geom.Point, ext float64) geom.Point {
	if ix := s.Far.Intercept(s.Camera2, p); !math.IsInf(ix, 0) {
		return geom.MakePoint(ix, s.Far.Center.Y)
	}
	d := p.Sub(s.Camera2)
	if l := d.Len(); l > 0 {
		d = d.Scale(ext / l)
	}
	return s.Camera2.Add(d)
}
