package figure

import (
	"image/color"

	"github.com/irfansharif/lenses/internal/geom"
)

// Handle identifies an element drawn on a Surface.
type Handle int

// Style describes how an element is drawn. A zero Stroke or Width draws no
// outline; a zero Fill draws no interior.
type Style struct {
	Stroke  color.RGBA
	Fill    color.RGBA
	Width   float64 // stroke width, in scene units
	Opacity float64 // applied on top of the colours' own alpha
}

// Surface is the vector drawing surface a Figure renders onto. Elements are
// stacked in creation order, later ones on top, until moved with
// BringToFront or InsertBefore.
type Surface interface {
	// NewPath creates an (initially empty) path element.
	NewPath(s Style) Handle
	// NewCircle creates a circle element.
	NewCircle(c geom.Circle, s Style) Handle

	// SetPath replaces a path element's geometry. A nil path clears it.
	SetPath(h Handle, p geom.Path)
	SetCirclePosition(h Handle, p geom.Point)
	SetOpacity(h Handle, opacity float64)

	BringToFront(h Handle)
	// InsertBefore moves h directly beneath marker.
	InsertBefore(h, marker Handle)
}
