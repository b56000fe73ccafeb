// Package canvas is a retained display list a Figure draws onto. The list can
// be tessellated into coloured triangles for the GL renderer, or written out
// as an SVG document.
package canvas

import (
	"fmt"
	"image/color"
	"log"

	"github.com/irfansharif/lenses/internal/figure"
	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/palette"
)

// element is a single drawable on the canvas.
type element struct {
	circle bool
	disc   geom.Circle
	path   geom.Path
	style  figure.Style
}

// visible reports whether drawing e would put any ink on the canvas.
func (e *element) visible() bool {
	if e.style.Opacity <= 0 {
		return false
	}
	return e.fills() || e.strokes()
}

func (e *element) fills() bool   { return e.style.Fill.A > 0 }
func (e *element) strokes() bool { return e.style.Stroke.A > 0 && e.style.Width > 0 }

// Canvas is a display list of circles and paths in scene coordinates.
type Canvas struct {
	Width, Height float64
	Background    color.RGBA

	elems   []*element      // indexed by figure.Handle
	order   []figure.Handle // back to front
	version uint64
}

var _ figure.Surface = (*Canvas)(nil)

// New returns an empty canvas covering the scene [0,w]x[0,h].
func New(w, h float64) *Canvas {
	return &Canvas{Width: w, Height: h, Background: palette.Paper}
}

// Version changes every time the canvas is mutated. Renderers compare it
// against the version they last uploaded to decide whether to re-tessellate.
func (c *Canvas) Version() uint64 { return c.version }

// Reset removes every element. Handles handed out before are invalidated.
func (c *Canvas) Reset() {
	c.elems, c.order = nil, nil
	c.version++
}

// Len returns the number of elements on the canvas.
func (c *Canvas) Len() int { return len(c.elems) }

// Bounds returns the scene box the canvas covers.
func (c *Canvas) Bounds() geom.Box { return geom.MakeBox(0, 0, c.Width, c.Height) }

func (c *Canvas) add(e *element) figure.Handle {
	h := figure.Handle(len(c.elems))
	c.elems = append(c.elems, e)
	c.order = append(c.order, h)
	c.version++
	return h
}

func (c *Canvas) get(h figure.Handle) *element {
	if h < 0 || int(h) >= len(c.elems) {
		log.Fatalf("canvas has no element %d (%d elements)", h, len(c.elems))
	}
	return c.elems[h]
}

func (c *Canvas) NewPath(s figure.Style) figure.Handle {
	return c.add(&element{style: s})
}

func (c *Canvas) NewCircle(disc geom.Circle, s figure.Style) figure.Handle {
	return c.add(&element{circle: true, disc: disc, style: s})
}

func (c *Canvas) SetPath(h figure.Handle, p geom.Path) {
	c.get(h).path = p
	c.version++
}

func (c *Canvas) SetCirclePosition(h figure.Handle, p geom.Point) {
	e := c.get(h)
	if !e.circle {
		log.Fatalf("element %d is a path, not a circle", h)
	}
	e.disc.Center = p
	c.version++
}

func (c *Canvas) SetOpacity(h figure.Handle, opacity float64) {
	c.get(h).style.Opacity = opacity
	c.version++
}

func (c *Canvas) BringToFront(h figure.Handle) {
	c.unlink(h)
	c.order = append(c.order, h)
	c.version++
}

func (c *Canvas) InsertBefore(h, marker figure.Handle) {
	if h == marker {
		return
	}
	c.unlink(h)
	i := c.position(marker)
	c.order = append(c.order, 0)
	copy(c.order[i+1:], c.order[i:])
	c.order[i] = h
	c.version++
}

func (c *Canvas) unlink(h figure.Handle) {
	i := c.position(h)
	c.order = append(c.order[:i], c.order[i+1:]...)
}

func (c *Canvas) position(h figure.Handle) int {
	for i, o := range c.order {
		if o == h {
			return i
		}
	}
	log.Fatalf("canvas has no element %d", h)
	return -1
}

// Order returns element handles back to front.
func (c *Canvas) Order() []figure.Handle {
	return append([]figure.Handle(nil), c.order...)
}

func (c *Canvas) String() string {
	return fmt.Sprintf("canvas(%gx%g, %d elements, v%d)", c.Width, c.Height, len(c.elems), c.version)
}
