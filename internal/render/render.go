// Package render draws figure canvases with OpenGL.
//
// Each canvas is tessellated into scene-space triangles and streamed into its
// own slot of the memory controller's vertex buffer. Only canvases that
// changed since their last upload are re-tessellated. At draw time a single
// uniform maps scene coordinates to NDC, so resizing the window never
// touches the geometry.
package render

import (
	"log"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/irfansharif/lenses/internal/canvas"
	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/memory"
	"github.com/irfansharif/lenses/internal/palette"
)

type Renderer struct {
	w, h        int         // framebuffer size
	sceneToView geom.Affine // scene -> framebuffer pixels

	memController *memory.Controller
	shaderManager *ShaderManager
	uploaded      map[memory.SlotID]uint64 // canvas version last uploaded
	stats         Stats
}

// Stats tracks rendering performance metrics.
type Stats struct {
	LastPrepareTimeMs float64 // time spent in last Prepare() call in milliseconds
	LastDrawTimeUs    float64 // time spent in last Draw() call in microseconds
	Tessellations     int     // canvases re-tessellated in the last Prepare()
}

// NewRenderer sets up blending and the figure shaders. It requires a current
// GL context.
func NewRenderer(memController *memory.Controller) (*Renderer, error) {
	shaderManager, err := NewShaderManager()
	if err != nil {
		return nil, err
	}

	// Cones, furniture and dimmed cameras are translucent.
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return &Renderer{
		sceneToView:   geom.Identity,
		shaderManager: shaderManager,
		memController: memController,
		uploaded:      make(map[memory.SlotID]uint64),
	}, nil
}

// Cleanup releases the renderer's GL resources.
func (r *Renderer) Cleanup() {
	r.shaderManager.Cleanup()
}

// SetView sets the framebuffer size and the transform from scene
// coordinates to framebuffer pixels.
func (r *Renderer) SetView(w, h int, sceneToView geom.Affine) {
	r.w, r.h = w, h
	r.sceneToView = sceneToView
}

// Prepare uploads every canvas whose contents changed since it was last
// uploaded, and any canvas the memory controller relocated. Canvases are
// keyed by their index.
func (r *Renderer) Prepare(canvases []*canvas.Canvas) {
	startTime := time.Now()
	tessellations := 0

	upload := func(id memory.SlotID) {
		c := canvases[id]
		if err := r.memController.EnsureSlot(id, c.Tessellate()); err != nil {
			log.Fatalf("uploading canvas %d: %v", id, err)
		}
		r.uploaded[id] = c.Version()
		tessellations++
	}

	for i, c := range canvases {
		id := memory.SlotID(i)
		if v, ok := r.uploaded[id]; ok && v == c.Version() {
			continue // clean
		}
		upload(id)
	}

	// Slots moved by growth or compaction hold stale data; their canvases
	// may well be clean, so re-upload them regardless.
	for {
		ids := r.memController.GetAndClearSlotsNeedingReupload()
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			if int(id) < len(canvases) {
				upload(id)
			}
		}
	}

	r.stats.Tessellations = tessellations
	r.stats.LastPrepareTimeMs = float64(time.Since(startTime).Microseconds()) / 1000.0
}

// Draw clears the framebuffer to the canvas background and draws the canvas
// uploaded into the given slot.
func (r *Renderer) Draw(id memory.SlotID, c *canvas.Canvas) {
	startTime := time.Now()

	bg := palette.Float(c.Background, 1)
	gl.Viewport(0, 0, int32(r.w), int32(r.h))
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)

	r.shaderManager.SetTransform(r.computeTransformMatrix())
	if err := r.memController.Draw(id); err != nil {
		log.Fatalf("memory controller draw failed: %v", err)
	}

	r.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
}

// Stats returns the current performance statistics
func (r *Renderer) Stats() Stats {
	return r.stats
}

// computeTransformMatrix computes the complete transformation matrix from
// scene coordinates to OpenGL NDC.
func (r *Renderer) computeTransformMatrix() [16]float32 {
	return affineToMatrix4(screenToNDC(r.w, r.h).Mul(r.sceneToView))
}

// screenToNDC converts framebuffer pixels (Y down) to OpenGL NDC (Y up).
func screenToNDC(w, h int) geom.Affine {
	return geom.MakeAffine(
		2.0/float64(w), 0, -1,
		0, -2.0/float64(h), 1,
	)
}

// affineToMatrix4 converts an affine transform to OpenGL 4x4 matrix format.
func affineToMatrix4(transform geom.Affine) [16]float32 {
	return [16]float32{
		float32(transform.A), float32(transform.D), 0, 0,
		float32(transform.B), float32(transform.E), 0, 0,
		0, 0, 1, 0,
		float32(transform.C), float32(transform.F), 0, 1,
	}
}
