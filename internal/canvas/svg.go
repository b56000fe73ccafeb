package canvas

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/irfansharif/lenses/internal/figure"
	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/palette"
)

// errWriter remembers the first error from the underlying writer and drops
// everything written after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(b)
	ew.err = err
	return n, err
}

// WriteSVG writes the canvas, back to front, as an SVG document.
func (c *Canvas) WriteSVG(w io.Writer, title string) error {
	ew := &errWriter{w: w}
	doc := svg.New(ew)
	width, height := int(math.Ceil(c.Width)), int(math.Ceil(c.Height))
	doc.Start(width, height)
	if title != "" {
		doc.Title(title)
	}
	doc.Rect(0, 0, width, height, "fill:"+palette.Hex(c.Background))

	for _, h := range c.order {
		e := c.elems[h]
		if !e.visible() {
			continue
		}
		if e.circle {
			doc.Circle(round(e.disc.Center.X), round(e.disc.Center.Y), round(e.disc.R), svgStyle(e.style))
			continue
		}
		if d := pathData(e.path); d != "" {
			doc.Path(d, svgStyle(e.style))
		}
	}

	doc.End()
	if ew.err != nil {
		return fmt.Errorf("writing svg: %w", ew.err)
	}
	return nil
}

// svgStyle renders s as an inline style.
func svgStyle(s figure.Style) string {
	var b strings.Builder
	if s.Fill.A > 0 {
		fmt.Fprintf(&b, "fill:%s;fill-opacity:%.3g", palette.Hex(s.Fill), float64(s.Fill.A)/255*s.Opacity)
	} else {
		b.WriteString("fill:none")
	}
	if s.Stroke.A > 0 && s.Width > 0 {
		fmt.Fprintf(&b, ";stroke:%s;stroke-opacity:%.3g;stroke-width:%.3g;stroke-linejoin:miter",
			palette.Hex(s.Stroke), float64(s.Stroke.A)/255*s.Opacity, s.Width)
	}
	return b.String()
}

// pathData renders p as SVG path data. Closed polylines end in Z.
func pathData(p geom.Path) string {
	var b strings.Builder
	for _, pl := range p {
		if len(pl) < 2 {
			continue
		}
		closed := len(pl) > 2 && pl[0] == pl[len(pl)-1]
		if closed {
			pl = pl[:len(pl)-1]
		}
		for i, pt := range pl {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s%s %s", cmd, num(pt.X), num(pt.Y))
		}
		if closed {
			b.WriteString(" Z")
		}
	}
	return b.String()
}

// num formats a coordinate with two decimals, trimming trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func round(v float64) int { return int(math.Round(v)) }
