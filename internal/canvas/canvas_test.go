package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/irfansharif/lenses/internal/figure"
	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/palette"
)

var red = color.RGBA{R: 255, A: 255}

func square(x, y, side float64) geom.Polyline {
	return geom.Polyline{
		geom.MakePoint(x, y),
		geom.MakePoint(x+side, y),
		geom.MakePoint(x+side, y+side),
		geom.MakePoint(x, y+side),
		geom.MakePoint(x, y),
	}
}

func area(tris [][3]geom.Point) float64 {
	sum := 0.0
	for _, t := range tris {
		ab, ac := t[1].Sub(t[0]), t[2].Sub(t[0])
		sum += math.Abs(ab.X*ac.Y-ab.Y*ac.X) / 2
	}
	return sum
}

func TestZOrder(t *testing.T) {
	c := New(100, 100)
	a := c.NewPath(figure.Style{})
	b := c.NewPath(figure.Style{})
	m := c.NewPath(figure.Style{})
	d := c.NewCircle(geom.MakeCircle(1, 1, 1), figure.Style{})

	v := c.Version()
	c.InsertBefore(d, m)
	if got, want := c.Order(), []figure.Handle{a, b, d, m}; !reflect.DeepEqual(got, want) {
		t.Errorf("after InsertBefore: %v, expected %v", got, want)
	}
	c.BringToFront(a)
	if got, want := c.Order(), []figure.Handle{b, d, m, a}; !reflect.DeepEqual(got, want) {
		t.Errorf("after BringToFront: %v, expected %v", got, want)
	}
	c.InsertBefore(a, b)
	if got, want := c.Order(), []figure.Handle{a, b, d, m}; !reflect.DeepEqual(got, want) {
		t.Errorf("after InsertBefore at the bottom: %v, expected %v", got, want)
	}
	if c.Version() <= v {
		t.Errorf("reordering should bump the version")
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d", c.Len())
	}
}

func TestEarClip(t *testing.T) {
	tests := []struct {
		name     string
		polygon  geom.Polyline
		count    int
		wantArea float64
	}{
		{"closed square", square(0, 0, 10), 2, 100},
		{"open square", square(0, 0, 10)[:4], 2, 100},
		{"segment", geom.Segment(geom.MakePoint(0, 0), geom.MakePoint(1, 1)), 0, 0},
		{"empty", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := earClip(tt.polygon)
			if len(tris) != tt.count {
				t.Fatalf("got %d triangles, expected %d", len(tris), tt.count)
			}
			if got := area(tris); math.Abs(got-tt.wantArea) > 1e-9 {
				t.Errorf("area = %v, expected %v", got, tt.wantArea)
			}
		})
	}
}

func TestStrokeTriangles(t *testing.T) {
	tests := []struct {
		name     string
		pl       geom.Polyline
		width    float64
		count    int
		wantArea float64
	}{
		{"segment", geom.Segment(geom.MakePoint(0, 0), geom.MakePoint(10, 0)), 2, 2, 20},
		{"repeated points", geom.Polyline{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 5}, {X: 0, Y: 5}}, 4, 2, 20},
		{"closed square", square(0, 0, 10), 2, 8, 80},
		{"open corner", geom.Polyline{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, 2, 4, 40},
		{"point", geom.Polyline{{X: 3, Y: 3}, {X: 3, Y: 3}}, 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := strokeTriangles(tt.pl, tt.width)
			if len(tris) != tt.count {
				t.Fatalf("got %d triangles, expected %d", len(tris), tt.count)
			}
			if got := area(tris); math.Abs(got-tt.wantArea) > 1e-9 {
				t.Errorf("area = %v, expected %v", got, tt.wantArea)
			}
		})
	}
}

func TestMiterLimit(t *testing.T) {
	// A near reversal would miter far past the joint; it falls back to the
	// outgoing normal instead.
	in := geom.MakePoint(1, 0)
	out := unit(geom.MakePoint(-1, 0.01))
	if got := miter(in, out, 1).Len(); math.Abs(got-1) > 1e-9 {
		t.Errorf("miter length = %v, expected 1", got)
	}
}

func TestTessellate(t *testing.T) {
	c := New(100, 100)
	c.NewPath(figure.Style{}) // marker, draws nothing
	disc := c.NewCircle(geom.MakeCircle(50, 50, 10), figure.Style{Fill: red, Opacity: 0.5})
	line := c.NewPath(figure.Style{Stroke: palette.Ink, Width: 2, Opacity: 1})
	c.SetPath(line, geom.Path{geom.Segment(geom.MakePoint(0, 0), geom.MakePoint(10, 0))})

	vs := c.Tessellate()
	if len(vs)%(3*FloatsPerVertex) != 0 {
		t.Fatalf("%d floats is not a whole number of triangles", len(vs))
	}
	discVertices := (circleSegments - 2) * 3
	if got, want := len(vs)/FloatsPerVertex, discVertices+6; got != want {
		t.Fatalf("got %d vertices, expected %d", got, want)
	}
	if got := vs[FloatsPerVertex-1]; got != 0.5 {
		t.Errorf("disc alpha = %v, expected 0.5", got)
	}
	last := vs[len(vs)-FloatsPerVertex:]
	if last[2] != 0 || last[5] != 1 {
		t.Errorf("line should be drawn last, in opaque ink: %v", last)
	}

	c.SetOpacity(disc, 0)
	if got := len(c.Tessellate()) / FloatsPerVertex; got != 6 {
		t.Errorf("transparent disc still drawn: %d vertices", got)
	}
	c.SetPath(line, nil)
	if got := c.Tessellate(); len(got) != 0 {
		t.Errorf("cleared canvas still drew %d floats", len(got))
	}
}

func TestWriteSVG(t *testing.T) {
	c := New(200, 100)
	c.NewPath(figure.Style{})
	c.NewCircle(geom.MakeCircle(40.4, 60.6, 20), figure.Style{Fill: red, Opacity: 1})
	p := c.NewPath(figure.Style{Stroke: palette.Ink, Width: 5, Opacity: 0.1})
	c.SetPath(p, geom.Path{
		geom.Segment(geom.MakePoint(10, 20), geom.MakePoint(30.126, 20)),
		square(0, 0, 1),
	})

	var buf bytes.Buffer
	if err := c.WriteSVG(&buf, "lenses"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`<svg width="200" height="100"`,
		"<title>lenses</title>",
		`cx="40" cy="61" r="20"`,
		"fill:#ff0000",
		`d="M10 20 L30.13 20 M0 0 L1 0 L1 1 L0 1 Z"`,
		"fill:none;stroke:#000000;stroke-opacity:0.1;stroke-width:5",
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "<path"); n != 1 {
		t.Errorf("got %d paths, expected 1 (invisible elements are skipped)", n)
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestWriteSVGError(t *testing.T) {
	boom := errors.New("disk full")
	err := New(10, 10).WriteSVG(failingWriter{boom}, "")
	if !errors.Is(err, boom) {
		t.Errorf("WriteSVG() = %v, expected wrapped %v", err, boom)
	}
}

func TestFigureOnCanvas(t *testing.T) {
	for _, kind := range []figure.Kind{figure.KindRectilinear, figure.KindPanoramic, figure.KindStereo} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := figure.DefaultConfig(kind, 650, 300)
			cfg.ObjectCount = 3
			c := New(cfg.Width, cfg.Height)
			f, err := figure.New(cfg, c, rand.New(rand.NewSource(7)))
			if err != nil {
				t.Fatal(err)
			}

			before := c.Version()
			if len(c.Tessellate()) == 0 {
				t.Fatalf("figure drew nothing")
			}
			if err := f.OnDragStart(0); err != nil {
				t.Fatal(err)
			}
			if err := f.OnDragMove(0, 15, -10); err != nil {
				t.Fatal(err)
			}
			if c.Version() == before {
				t.Errorf("dragging should mutate the canvas")
			}

			var buf bytes.Buffer
			if err := c.WriteSVG(&buf, cfg.Name); err != nil {
				t.Fatal(err)
			}
			if n := strings.Count(buf.String(), "<circle"); n != cfg.ObjectCount {
				t.Errorf("got %d circles, expected %d balls", n, cfg.ObjectCount)
			}
		})
	}
}
