// Package figure composes a camera, a screen and a set of draggable objects
// into an interactive projection figure.
//
// A Figure owns its object graph exclusively and is driven from a single
// goroutine: pointer events (OnDragStart, OnDragMove, OnDragEnd) and frame
// ticks (Tick) each recompute geometry synchronously and push the results to
// a Surface.
package figure

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/palette"
	"github.com/irfansharif/lenses/internal/screen"
)

var figureLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("LENSES_DEBUG_FIGURE") == "1" {
		figureLogger = log.New(os.Stdout, "[figure] ", log.Ltime|log.Lmsgprefix)
	}
}

// Drawing constants.
const (
	furnitureWidth        = 10
	furnitureOpacity      = 0.1
	imageWidth            = 5
	coneOpacity           = 0.1
	cameraOpacity         = 0.8
	inactiveCameraOpacity = 0.1
)

// Figure is the composition root of a projection figure.
type Figure struct {
	Config  Config
	Camera  geom.Circle // the primary camera; cones are always taken from it
	Screen  screen.Screen
	Objects []*Object // in creation order; Object.ID indexes this

	surface   Surface
	bounds    geom.Box
	rayExtent float64
	animator  *FoldAnimator

	aboveScreen Handle // marker objects are kept directly beneath
	furniture   Handle
	cameras     []Handle
	zorder      []*Object // back to front
}

// New builds the figure described by cfg on s, populating it with objects
// laid out using rng.
func New(cfg Config, s Surface, rng *rand.Rand) (*Figure, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("figure %q: %w", cfg.Name, err)
	}

	f := &Figure{
		Config:    cfg,
		Camera:    cfg.Camera(),
		surface:   s,
		bounds:    cfg.Bounds(),
		rayExtent: geom.RayExtent(cfg.Width, cfg.Height),
		animator:  NewFoldAnimator(cfg.FoldDuration),
	}
	f.Screen = newScreen(cfg, f.Camera)
	f.drawFurniture()
	for _, p := range Layout(cfg, rng) {
		f.addObject(p)
	}
	figureLogger.Printf("%s: %d objects, %s screen", cfg.Name, len(f.Objects), cfg.Kind)
	return f, nil
}

func newScreen(cfg Config, cam geom.Circle) screen.Screen {
	flat := screen.NewRectilinear(geom.MakePoint(cfg.Width/2, cfg.Height/2-20), cfg.Width*0.8)
	switch cfg.Kind {
	case KindPanoramic:
		return screen.NewPanoramic(cam.Center, cfg.ScreenRadius, cfg.Segments, cfg.RestState)
	case KindStereo:
		return screen.NewStereo(cam.Center, cfg.ScreenRadius, flat)
	default:
		return flat
	}
}

// cameraIcon outlines a camera body with a viewfinder on top, centered at c.
func cameraIcon(c geom.Point) geom.Path {
	rect := func(x, y, w, h float64) geom.Polyline {
		return geom.Polyline{
			geom.MakePoint(x, y),
			geom.MakePoint(x+w, y),
			geom.MakePoint(x+w, y+h),
			geom.MakePoint(x, y+h),
			geom.MakePoint(x, y),
		}
	}
	return geom.Path{
		rect(c.X-11, c.Y-7, 22, 14),
		rect(c.X-5, c.Y-10, 10, 3),
	}
}

func (f *Figure) drawFurniture() {
	centers := []geom.Point{f.Camera.Center}
	if sw, ok := f.Screen.(screen.Switcher); ok {
		centers = sw.Cameras()
	}
	for _, c := range centers {
		h := f.surface.NewPath(Style{Fill: palette.Ink, Opacity: cameraOpacity})
		f.surface.SetPath(h, cameraIcon(c))
		f.cameras = append(f.cameras, h)
	}

	f.aboveScreen = f.surface.NewPath(Style{})
	f.furniture = f.surface.NewPath(Style{Stroke: palette.Ink, Width: furnitureWidth, Opacity: furnitureOpacity})
	f.surface.InsertBefore(f.furniture, f.aboveScreen)
	f.surface.SetPath(f.furniture, f.Screen.Shape())
	f.emphasizeActiveCamera()
}

// emphasizeActiveCamera dims every camera but the one currently imaging.
func (f *Figure) emphasizeActiveCamera() {
	sw, ok := f.Screen.(screen.Switcher)
	if !ok {
		return
	}
	for i, h := range f.cameras {
		opacity := inactiveCameraOpacity
		if i == sw.ActiveCamera() {
			opacity = cameraOpacity
		}
		f.surface.SetOpacity(h, opacity)
	}
}

func (f *Figure) addObject(p Placement) *Object {
	o := &Object{
		ID:     len(f.Objects),
		Circle: geom.Circle{Center: p.Center, R: f.Config.Radius},
		Color:  palette.Hue(p.Hue),
	}
	o.place(p.Center, f.bounds, f.Camera, f.rayExtent)

	o.ball = f.surface.NewCircle(o.Circle, Style{Fill: o.Color, Opacity: 1})
	o.image = f.surface.NewPath(Style{Stroke: o.Color, Width: imageWidth, Opacity: 1})
	o.coneH = f.surface.NewPath(Style{Fill: o.Color, Opacity: coneOpacity})
	f.Objects = append(f.Objects, o)
	f.zorder = append(f.zorder, o)

	f.bringAboveScreen(o)
	f.ObjectMoved(o)
	return o
}

// bringAboveScreen stacks o's elements above every other object's, beneath
// the marker.
func (f *Figure) bringAboveScreen(o *Object) {
	f.surface.InsertBefore(o.ball, f.aboveScreen)
	f.surface.InsertBefore(o.image, f.aboveScreen)
	f.surface.InsertBefore(o.coneH, f.aboveScreen)

	for i, other := range f.zorder {
		if other == o {
			f.zorder = append(f.zorder[:i], f.zorder[i+1:]...)
			break
		}
	}
	f.zorder = append(f.zorder, o)
}

// Object returns the object with the given ID.
func (f *Figure) Object(id int) (*Object, error) {
	if id < 0 || id >= len(f.Objects) {
		return nil, fmt.Errorf("figure %q has no object %d", f.Config.Name, id)
	}
	return f.Objects[id], nil
}

// ObjectAt returns the topmost object whose disc contains p, or nil.
func (f *Figure) ObjectAt(p geom.Point) *Object {
	for i := len(f.zorder) - 1; i >= 0; i-- {
		if o := f.zorder[i]; o.Contains(p) {
			return o
		}
	}
	return nil
}

// ObjectMoved recomputes o's image and cone against the screen's current
// state, and moves its ball.
func (f *Figure) ObjectMoved(o *Object) {
	f.surface.SetCirclePosition(o.ball, o.Circle.Center)
	f.surface.SetPath(o.image, f.Screen.Project(o.cone))
	f.surface.SetPath(o.coneH, f.Screen.ConeShape(o.cone))
}

func (f *Figure) reprojectAll() {
	f.surface.SetPath(f.furniture, f.Screen.Shape())
	for _, o := range f.Objects {
		f.ObjectMoved(o)
	}
}

// DragBoundary applies a gesture boundary to the screen: folding screens
// start animating towards their new target, multi-camera screens switch
// cameras. Every object is reprojected since the screen changed globally.
func (f *Figure) DragBoundary(b screen.Boundary) {
	f.Screen.Transition(b)
	if fold, ok := f.Screen.(screen.Folder); ok {
		figureLogger.Printf("%s: %s, folding %.3f -> %.3f over %s",
			f.Config.Name, b, fold.FoldAngle(), fold.FoldTarget(), f.animator.Duration)
		f.animator.Start(fold.FoldAngle(), fold.FoldTarget())
		f.Tick(0) // settles immediately when the duration is zero
	}
	if sw, ok := f.Screen.(screen.Switcher); ok {
		figureLogger.Printf("%s: %s, camera %d active", f.Config.Name, b, sw.ActiveCamera())
		f.emphasizeActiveCamera()
	}
	f.reprojectAll()
}

// Tick advances the fold animation by dt, reprojecting every object as the
// screen folds. It reports whether the animation is still in flight.
func (f *Figure) Tick(dt time.Duration) bool {
	fold, ok := f.Screen.(screen.Folder)
	if !ok || !f.animator.Active() {
		return false
	}
	angle, done := f.animator.Advance(dt)
	fold.SetFoldAngle(angle)
	f.reprojectAll()
	if done {
		figureLogger.Printf("%s: fold settled at %.3f", f.Config.Name, angle)
	}
	return !done
}

// Animating reports whether a fold animation is in flight.
func (f *Figure) Animating() bool { return f.animator.Active() }

// OnDragStart begins a drag gesture on an object: it is raised above the
// others and the screen transitions into its dragging state.
func (f *Figure) OnDragStart(id int) error {
	o, err := f.Object(id)
	if err != nil {
		return err
	}
	if o.dragging {
		return nil
	}
	o.startDrag()
	f.bringAboveScreen(o)
	f.DragBoundary(screen.DragStart)
	return nil
}

// OnDragMove moves a dragged object to its gesture origin plus (dx, dy).
// Moves outside a gesture are ignored.
func (f *Figure) OnDragMove(id int, dx, dy float64) error {
	o, err := f.Object(id)
	if err != nil {
		return err
	}
	if !o.dragging {
		return nil
	}
	o.place(o.origin.Add(geom.MakePoint(dx, dy)), f.bounds, f.Camera, f.rayExtent)
	f.ObjectMoved(o)
	return nil
}

// OnDragEnd ends a drag gesture. The object stays where it is; the screen
// transitions back into its idle state.
func (f *Figure) OnDragEnd(id int) error {
	o, err := f.Object(id)
	if err != nil {
		return err
	}
	if !o.dragging {
		return nil
	}
	o.endDrag()
	f.DragBoundary(screen.DragEnd)
	return nil
}
