package geom

import (
	"math"
	"testing"
)

func TestAffineInverse(t *testing.T) {
	tr := Translation(MakePoint(3, -2)).Mul(Rotation(0.7)).Mul(MakeAffine(2, 0, 0, 0, 2, 0))
	inv, err := tr.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	p := MakePoint(5, 7)
	if q := inv.MulPoint(tr.MulPoint(p)); Dist(p, q) > 1e-9 {
		t.Errorf("round trip %v -> %v", p, q)
	}

	if _, err := MakeAffine(1, 2, 0, 2, 4, 0).Inv(); err == nil {
		t.Errorf("expected singular transform to fail")
	}
}

func TestRotationTurnsClockwiseOnScreen(t *testing.T) {
	// +x rotated by π/2 points down (+y) in screen coordinates.
	got := Rotation(math.Pi / 2).MulVec(MakePoint(1, 0))
	if Dist(got, MakePoint(0, 1)) > 1e-12 {
		t.Errorf("rotated = %v, expected (0,1)", got)
	}
}

func TestFillBox(t *testing.T) {
	tr := FillBox(MakeBox(0, 0, 650, 300), MakeBox(0, 0, 1300, 1200))
	// Width-limited: scale 2, centered vertically.
	if p := tr.MulPoint(MakePoint(0, 0)); Dist(p, MakePoint(0, 300)) > 1e-9 {
		t.Errorf("origin -> %v, expected (0,300)", p)
	}
	if p := tr.MulPoint(MakePoint(650, 300)); Dist(p, MakePoint(1300, 900)) > 1e-9 {
		t.Errorf("corner -> %v, expected (1300,900)", p)
	}
}

func TestArcIncludesEndpoints(t *testing.T) {
	c := MakePoint(10, 10)
	tests := []struct {
		name   string
		a0, a1 float64
	}{
		{"short", 0, 0.01},
		{"quarter", 0, math.Pi / 2},
		{"reverse", math.Pi, 0},
		{"full", 0, 2 * math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := Arc(c, 5, tt.a0, tt.a1)
			if len(pl) < 2 {
				t.Fatalf("arc has %d points", len(pl))
			}
			if Dist(pl[0], c.Add(Polar(tt.a0, 5))) > 1e-12 {
				t.Errorf("first point %v", pl[0])
			}
			if Dist(pl[len(pl)-1], c.Add(Polar(tt.a1, 5))) > 1e-12 {
				t.Errorf("last point %v", pl[len(pl)-1])
			}
			for _, p := range pl {
				if math.Abs(Dist(p, c)-5) > 1e-9 {
					t.Errorf("point %v off the circle", p)
				}
			}
		})
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := WrapAngle(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestPathEmpty(t *testing.T) {
	var p Path
	if !p.Empty() {
		t.Errorf("nil path should be empty")
	}
	p = Path{Segment(MakePoint(0, 0), MakePoint(1, 0))}
	if p.Empty() {
		t.Errorf("segment path should not be empty")
	}
	b, ok := p.Bounds()
	if !ok || b != MakeBox(0, 0, 1, 0) {
		t.Errorf("Bounds = %v, %v", b, ok)
	}
}
