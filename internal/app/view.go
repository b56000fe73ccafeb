package app

import (
	"log"

	"github.com/irfansharif/lenses/internal/geom"
)

// viewportScaleFactor is the share of the framebuffer the scene is fitted
// into, leaving a margin around it.
const viewportScaleFactor = 0.95

// View maps the active figure's scene into the framebuffer: the scene is
// scaled uniformly to fit and centered.
type View struct {
	Width, Height int      // framebuffer size
	Scene         geom.Box // scene being shown

	sceneToView geom.Affine
	viewToScene geom.Affine
}

// NewView creates a view fitting scene into a width x height framebuffer.
func NewView(width, height int, scene geom.Box) *View {
	v := &View{
		Width:       width,
		Height:      height,
		Scene:       scene,
		sceneToView: geom.Identity,
		viewToScene: geom.Identity,
	}
	v.update()
	return v
}

// SetViewport updates the framebuffer dimensions.
func (v *View) SetViewport(width, height int) {
	v.Width, v.Height = width, height
	v.update()
}

// SetScene changes the scene being shown.
func (v *View) SetScene(scene geom.Box) {
	v.Scene = scene
	v.update()
}

// update recomputes the scene <-> framebuffer transforms. A zero-sized
// framebuffer (a minimized window) keeps the previous ones.
func (v *View) update() {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	w, h := float64(v.Width)*viewportScaleFactor, float64(v.Height)*viewportScaleFactor
	dst := geom.MakeBox((float64(v.Width)-w)/2, (float64(v.Height)-h)/2, w, h)

	v.sceneToView = geom.FillBox(v.Scene, dst)
	inv, err := v.sceneToView.Inv()
	if err != nil {
		log.Fatalf("scene %v cannot be fitted into %dx%d: %v", v.Scene, v.Width, v.Height, err)
	}
	v.viewToScene = inv
}

// SceneToView returns the transform from scene coordinates to framebuffer
// pixels.
func (v *View) SceneToView() geom.Affine { return v.sceneToView }

// ToScene maps a framebuffer position into scene coordinates.
func (v *View) ToScene(p geom.Point) geom.Point { return v.viewToScene.MulPoint(p) }
