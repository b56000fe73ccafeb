package canvas

import (
	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/palette"
)

const (
	// FloatsPerVertex is the layout of tessellated vertices: x, y, r, g, b, a.
	FloatsPerVertex = 6

	circleSegments = 48
	miterLimit     = 4.0 // longest miter, in half stroke widths
)

// Tessellate flattens the canvas, back to front, into interleaved triangle
// vertices in scene coordinates. Colours carry each element's opacity in
// their alpha. The background is not included.
func (c *Canvas) Tessellate() []float32 {
	var out []float32
	for _, h := range c.order {
		e := c.elems[h]
		if !e.visible() {
			continue
		}

		outlines := e.outlines()
		if e.fills() {
			rgba := palette.Float(e.style.Fill, e.style.Opacity)
			for _, pl := range outlines {
				out = appendTriangles(out, earClip(pl), rgba)
			}
		}
		if e.strokes() {
			rgba := palette.Float(e.style.Stroke, e.style.Opacity)
			for _, pl := range outlines {
				out = appendTriangles(out, strokeTriangles(pl, e.style.Width), rgba)
			}
		}
	}
	return out
}

// outlines returns the polylines making up e.
func (e *element) outlines() geom.Path {
	if e.circle {
		return geom.Path{geom.RegularPolygon(e.disc.Center, e.disc.R, circleSegments, 0)}
	}
	return e.path
}

func appendTriangles(out []float32, tris [][3]geom.Point, rgba [4]float32) []float32 {
	for _, tri := range tris {
		for _, p := range tri {
			out = append(out, float32(p.X), float32(p.Y), rgba[0], rgba[1], rgba[2], rgba[3])
		}
	}
	return out
}

// strokeTriangles covers a polyline stroked with the given width, using
// mitered joins and butt caps. A polyline ending where it starts is stroked
// as a closed loop.
func strokeTriangles(pl geom.Polyline, width float64) [][3]geom.Point {
	pts := dedupe(pl)
	closed := len(pts) > 3 && pts[0] == pts[len(pts)-1]
	if closed {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)
	if n < 2 {
		return nil
	}

	hw := width / 2
	offsets := make([]geom.Point, n)
	for i := range pts {
		hasIn, hasOut := i > 0 || closed, i < n-1 || closed
		var in, out geom.Point
		if hasIn {
			in = unit(pts[i].Sub(pts[(i-1+n)%n]))
		}
		if hasOut {
			out = unit(pts[(i+1)%n].Sub(pts[i]))
		}
		switch {
		case !hasIn:
			offsets[i] = normal(out).Scale(hw)
		case !hasOut:
			offsets[i] = normal(in).Scale(hw)
		default:
			offsets[i] = miter(in, out, hw)
		}
	}

	segments := n - 1
	if closed {
		segments = n
	}
	tris := make([][3]geom.Point, 0, 2*segments)
	for i := 0; i < segments; i++ {
		j := (i + 1) % n
		a0, a1 := pts[i].Add(offsets[i]), pts[i].Sub(offsets[i])
		b0, b1 := pts[j].Add(offsets[j]), pts[j].Sub(offsets[j])
		tris = append(tris, [3]geom.Point{a0, b0, b1}, [3]geom.Point{a0, b1, a1})
	}
	return tris
}

// miter returns the offset from a joint to the outer corner of the stroke,
// given unit directions of the incoming and outgoing segments. Joints sharper
// than the miter limit fall back to the outgoing segment's normal.
func miter(in, out geom.Point, hw float64) geom.Point {
	n1 := normal(out)
	m := normal(in).Add(n1)
	l := m.Len()
	if l < 1e-9 {
		return n1.Scale(hw)
	}
	m = m.Scale(1 / l)
	scale := hw / geom.Dot(m, n1)
	if scale > miterLimit*hw {
		return n1.Scale(hw)
	}
	return m.Scale(scale)
}

func normal(d geom.Point) geom.Point { return geom.MakePoint(-d.Y, d.X) }

func unit(d geom.Point) geom.Point {
	l := d.Len()
	if l == 0 {
		return d
	}
	return d.Scale(1 / l)
}

// dedupe drops consecutive repeated points.
func dedupe(pl geom.Polyline) geom.Polyline {
	out := make(geom.Polyline, 0, len(pl))
	for i, p := range pl {
		if i > 0 && p == pl[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
