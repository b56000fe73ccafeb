package geom

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// PushMargin is how far outside the camera's exclusion disk a pushed-out
// object comes to rest.
const PushMargin = 0.1

// ErrTooClose is returned when a circle overlaps the camera's exclusion disk,
// i.e. distance <= radius + camera radius.
var ErrTooClose = errors.New("object overlaps camera exclusion disk")

// Circle is a disc with a center and radius. Cameras and draggable objects
// are both circles.
type Circle struct {
	Center Point
	R      float64
}

func MakeCircle(x, y, r float64) Circle { return Circle{Center: Point{x, y}, R: r} }

// Cone is the viewing cone of a circle as seen from a camera: the two tangent
// rays from the camera's center to the circle.
type Cone struct {
	Apex      Point   // camera center
	Angle     float64 // direction to the circle's center, atan2(dy, dx)
	HalfAngle float64 // asin(r / distance)
	Distance  float64 // camera center to circle center
	T1        Point   // far end of the ray at Angle - HalfAngle
	T2        Point   // far end of the ray at Angle + HalfAngle
}

// MinAngle and MaxAngle return the angular bounds of the cone.
func (c Cone) MinAngle() float64 { return c.Angle - c.HalfAngle }
func (c Cone) MaxAngle() float64 { return c.Angle + c.HalfAngle }

// Wedge returns the closed triangle (apex, T1, T2) outlining the cone.
func (c Cone) Wedge() Polyline {
	return Polyline{c.Apex, c.T1, c.T2, c.Apex}
}

// ComputeCone computes obj's viewing cone from cam, extending the tangent rays
// to length t. It fails with ErrTooClose if obj intersects the camera's
// exclusion disk; callers must push the object out (see PushOut) and retry.
func ComputeCone(obj, cam Circle, t float64) (Cone, error) {
	d := obj.Center.Sub(cam.Center)
	dist := d.Len()
	if dist <= obj.R+cam.R {
		return Cone{}, fmt.Errorf("distance %.3f <= %.3f: %w", dist, obj.R+cam.R, ErrTooClose)
	}

	angle := math.Atan2(d.Y, d.X)
	half := math.Asin(obj.R / dist)
	return Cone{
		Apex:      cam.Center,
		Angle:     angle,
		HalfAngle: half,
		Distance:  dist,
		T1:        cam.Center.Add(Polar(angle-half, t)),
		T2:        cam.Center.Add(Polar(angle+half, t)),
	}, nil
}

// ClampToBox clamps p into the box b.
func ClampToBox(p Point, b Box) Point {
	return Point{
		X: Clamp(p.X, b.X, b.X+b.W),
		Y: Clamp(p.Y, b.Y, b.Y+b.H),
	}
}

// PushOut moves obj radially outward from cam's center so that it rests at
// distance obj.R + cam.R + PushMargin. When obj sits exactly on the camera
// center there is no outward direction; prev (the object's last valid
// position) supplies it instead.
func PushOut(obj, cam Circle, prev Point) Point {
	rest := obj.R + cam.R + PushMargin

	d := obj.Center.Sub(cam.Center)
	dist := d.Len()
	if dist == 0 {
		d = prev.Sub(cam.Center)
		dist = d.Len()
	}
	if dist == 0 {
		invariant(false, "object and its previous position both sit on camera center %v", cam.Center)
		d, dist = Point{0, -1}, 1 // straight up, in front of the camera
	}
	return cam.Center.Add(d.Scale(rest / dist))
}

// RayExtent is the length tangent rays are extended to for a w×h scene. It
// must comfortably exceed the scene diagonal so a ray crosses any screen in
// the scene before clipping.
//
// w*h is not derived from the diagonal and under-extends for degenerate
// aspect ratios (e.g. 1000×1); those only warn.
func RayExtent(w, h float64) float64 {
	t := w * h
	if diag := math.Hypot(w, h); t < 2*diag {
		log.Printf("WARNING: ray extent %.1f is shorter than twice the scene diagonal %.1f", t, diag)
	}
	return t
}
