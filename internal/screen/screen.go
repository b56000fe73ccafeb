// Package screen implements the imaging screens a camera projects onto. Each
// screen maps an object's viewing cone (see geom.Cone) to the image drawn on
// the screen, and describes its own shape for rendering.
//
// Three variants exist:
// - Rectilinear: a flat line in front of the camera.
// - Panoramic: a strip of rigid facets that folds from a flat line into a
//   closed polygon around the camera.
// - Stereo: a circular near screen around the primary camera, re-imaged by a
//   second camera onto a flat far screen.
package screen

import "github.com/irfansharif/lenses/internal/geom"

// Boundary identifies the start or end of a drag gesture.
type Boundary int

const (
	DragStart Boundary = iota
	DragEnd
)

func (b Boundary) String() string {
	switch b {
	case DragStart:
		return "drag-start"
	case DragEnd:
		return "drag-end"
	default:
		return "unknown"
	}
}

// Screen is the capability set shared by all screen variants.
type Screen interface {
	// Project maps a viewing cone to its image on the screen. A nil path
	// means the object has no image (it is behind or beside the screen).
	// Project never mutates the screen.
	Project(c geom.Cone) geom.Path

	// Shape describes the screen itself in its current state.
	Shape() geom.Path

	// ConeShape returns the outline of the cone to visualise for c in the
	// screen's current state, or nil if cones are not shown.
	ConeShape(c geom.Cone) geom.Path

	// Transition records a drag gesture boundary. Screens with global state
	// (fold targets, active camera) update it here; the caller reprojects
	// every object afterwards.
	Transition(b Boundary)
}

// Folder is implemented by screens with a continuous fold parameter that is
// animated between gesture boundaries.
type Folder interface {
	FoldAngle() float64
	SetFoldAngle(a float64)
	// FoldTarget is the fold angle the screen should settle at given the
	// last recorded gesture boundary.
	FoldTarget() float64
}

// Switcher is implemented by screens imaged through more than one camera.
type Switcher interface {
	// ActiveCamera returns the index of the camera currently imaging.
	ActiveCamera() int
	// Cameras returns the camera centers, primary first.
	Cameras() []geom.Point
}
