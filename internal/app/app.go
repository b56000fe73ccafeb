// Package app holds the viewer's state independent of any window system: the
// figures and their canvases, which one is shown, how it maps into the
// framebuffer, and the pointer gesture in progress.
package app

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/irfansharif/lenses/internal/figure"
	"github.com/irfansharif/lenses/internal/geom"
)

// App encapsulates the main application state and logic.
type App struct {
	Figures *FigureManager
	View    *View

	drag *gesture // nil unless an object is being dragged
}

// gesture is a drag in progress, captured on pointer press.
type gesture struct {
	entry  *Entry
	object int
	start  geom.Point // pointer position at press, in scene coordinates
}

// NewApp builds the figures described by configs and shows the first in a
// width x height framebuffer.
func NewApp(configs []figure.Config, seed int64, width, height int) (*App, error) {
	fm, err := NewFigureManager(configs, seed)
	if err != nil {
		return nil, err
	}
	return &App{
		Figures: fm,
		View:    NewView(width, height, fm.Current().Config.Bounds()),
	}, nil
}

// Current returns the entry being shown.
func (app *App) Current() *Entry { return app.Figures.Current() }

// Show switches to the figure with the given ID, ending any drag first.
func (app *App) Show(id int) error {
	app.PointerUp()
	if err := app.Figures.SetCurrent(id); err != nil {
		return err
	}
	app.View.SetScene(app.Current().Config.Bounds())
	return nil
}

// Iter switches to the next or previous figure.
func (app *App) Iter(next bool) {
	app.PointerUp()
	app.Figures.Iter(next)
	app.View.SetScene(app.Current().Config.Bounds())
}

// Regenerate repopulates the shown figure with the next (or previous) seed.
func (app *App) Regenerate(increment bool) error {
	app.PointerUp()
	e := app.Current()
	seed := e.Seed - 1
	if increment {
		seed = e.Seed + 1
	}
	if err := app.Figures.Reseed(e, seed); err != nil {
		return fmt.Errorf("regenerating %q with seed %d: %w", e.Config.Name, seed, err)
	}
	return nil
}

// PointerDown starts dragging the topmost object under the framebuffer
// position p, if any, and reports whether one was grabbed.
func (app *App) PointerDown(p geom.Point) bool {
	if app.drag != nil {
		return true
	}
	e := app.Current()
	scenePos := app.View.ToScene(p)
	o := e.Figure.ObjectAt(scenePos)
	if o == nil {
		return false
	}
	if err := e.Figure.OnDragStart(o.ID); err != nil {
		log.Fatalf("starting drag: %v", err)
	}
	app.drag = &gesture{entry: e, object: o.ID, start: scenePos}
	return true
}

// PointerMove moves the dragged object, if any, with the pointer at
// framebuffer position p.
func (app *App) PointerMove(p geom.Point) {
	if app.drag == nil {
		return
	}
	d := app.View.ToScene(p).Sub(app.drag.start)
	if err := app.drag.entry.Figure.OnDragMove(app.drag.object, d.X, d.Y); err != nil {
		log.Fatalf("dragging: %v", err)
	}
}

// PointerUp ends the drag in progress, if any.
func (app *App) PointerUp() {
	if app.drag == nil {
		return
	}
	if err := app.drag.entry.Figure.OnDragEnd(app.drag.object); err != nil {
		log.Fatalf("ending drag: %v", err)
	}
	app.drag = nil
}

// Dragging reports whether an object is being dragged.
func (app *App) Dragging() bool { return app.drag != nil }

// Tick advances every figure's animations by dt, and reports whether any is
// still animating.
func (app *App) Tick(dt time.Duration) bool {
	animating := false
	for _, e := range app.Figures.Entries() {
		if e.Figure.Tick(dt) {
			animating = true
		}
	}
	return animating
}

// WriteSVG writes the shown figure as an SVG document.
func (app *App) WriteSVG(w io.Writer) error {
	e := app.Current()
	return e.Canvas.WriteSVG(w, e.Config.Name)
}
