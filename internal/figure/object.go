package figure

import (
	"errors"
	"image/color"
	"log"

	"github.com/irfansharif/lenses/internal/geom"
)

// Object is a draggable ball. Its position only changes through drag
// gestures, and is always kept within the scene bounds and outside the
// camera's exclusion disk.
type Object struct {
	ID     int
	Circle geom.Circle
	Color  color.RGBA

	cone geom.Cone

	// Drag state: Idle -> Dragging -> Idle.
	dragging bool
	origin   geom.Point

	ball, image, coneH Handle
}

func (o *Object) Position() geom.Point { return o.Circle.Center }

// Cone is the object's viewing cone as of its last placement.
func (o *Object) Cone() geom.Cone { return o.cone }

func (o *Object) Dragging() bool { return o.dragging }

// Contains reports whether p lies on the object's disc.
func (o *Object) Contains(p geom.Point) bool {
	return geom.Dist(p, o.Circle.Center) <= o.Circle.R
}

// place moves the object to p, clamped to bounds, and recomputes its cone
// from cam. Positions overlapping the camera's exclusion disk are pushed out
// radially (along the direction the object was last seen in, if p is the
// camera center itself). It reports whether a push was needed.
func (o *Object) place(p geom.Point, bounds geom.Box, cam geom.Circle, t float64) (pushed bool) {
	prev := o.Circle.Center
	o.Circle.Center = geom.ClampToBox(p, bounds)

	cone, err := geom.ComputeCone(o.Circle, cam, t)
	if errors.Is(err, geom.ErrTooClose) {
		figureLogger.Printf("object %d: %v, pushing out", o.ID, err)
		o.Circle.Center = geom.PushOut(o.Circle, cam, prev)
		cone, err = geom.ComputeCone(o.Circle, cam, t)
		pushed = true
	}
	if err != nil {
		log.Fatalf("object %d: %v after push-out", o.ID, err) // PushOut lands outside the disk
	}
	o.cone = cone
	return pushed
}

func (o *Object) startDrag() {
	o.dragging = true
	o.origin = o.Circle.Center
}

func (o *Object) endDrag() { o.dragging = false }
