package screen

import (
	"fmt"
	"math"

	"github.com/irfansharif/lenses/internal/geom"
)

// Within these tolerances of a rest state, that state's exact geometry is
// emitted instead of the general arc. closedTolerance bounds the fold angle,
// openTolerance bounds the great arc's angle (its sagitta is then under
// 2π·Radius·openTolerance/8).
const (
	closedTolerance = 1e-6
	openTolerance   = 1e-4
)

// OpenAngle is the fold angle of the fully flattened strip.
const OpenAngle = math.Pi

// RestState is the state a panoramic screen settles into when no drag gesture
// is in progress.
type RestState int

const (
	Closed RestState = iota // folded into a polygon around the camera
	Open                    // flattened into a horizontal strip
)

func (s RestState) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// UnmarshalText parses "open" or "closed".
func (s *RestState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "open":
		*s = Open
	case "closed":
		*s = Closed
	default:
		return fmt.Errorf("unknown rest state %q", b)
	}
	return nil
}

// Panoramic is a circular strip of rigid facets around the camera. The strip
// is hinged at its top point (Center.Y - Radius) and folds between a regular
// polygon enclosing the camera and a flat horizontal strip of length
// 2π·Radius. An object's image is the arc of the strip spanned by its cone,
// measured from the bottom of the strip (directly behind the camera).
type Panoramic struct {
	Center    geom.Point // camera center
	Radius    float64
	Segments  int     // number of facets
	SegLength float64 // facet chord length
	RestAngle float64 // interior angle between facets when fully closed
	Idle      RestState

	fold     float64
	dragging bool

	// Derived from fold; see SetFoldAngle.
	arcRadius float64
	arcAngle  float64
	arcCenter geom.Point
}

var (
	_ Screen = (*Panoramic)(nil)
	_ Folder = (*Panoramic)(nil)
)

// NewPanoramic returns a panoramic screen of n facets around center, settled
// in its idle state.
func NewPanoramic(center geom.Point, radius float64, n int, idle RestState) *Panoramic {
	dt := 2 * math.Pi / float64(n)
	p := &Panoramic{
		Center:    center,
		Radius:    radius,
		Segments:  n,
		SegLength: math.Sqrt(2 * radius * radius * (1 - math.Cos(dt))),
		RestAngle: math.Pi - dt,
		Idle:      idle,
	}
	p.SetFoldAngle(p.angleFor(idle))
	return p
}

func (p *Panoramic) angleFor(s RestState) float64 {
	if s == Open {
		return OpenAngle
	}
	return p.RestAngle
}

func (p *Panoramic) FoldAngle() float64 { return p.fold }

// SetFoldAngle sets the fold angle, clamped to [RestAngle, OpenAngle], and
// re-derives the great arc the folded strip approximates. The arc preserves
// the strip's length 2π·Radius and stays hinged at the top point.
func (p *Panoramic) SetFoldAngle(a float64) {
	p.fold = geom.Clamp(a, p.RestAngle, OpenAngle)

	dx := p.SegLength * math.Sin(p.fold/2)
	dy := p.SegLength * math.Cos(p.fold/2)
	if dy > 0 {
		p.arcRadius = (dx*dx + dy*dy) / (2 * dy)
		p.arcAngle = 2 * math.Pi * p.Radius / p.arcRadius
	}
	if dy <= 0 || p.arcAngle < openTolerance {
		p.arcRadius, p.arcAngle = math.Inf(1), 0
		p.arcCenter = geom.MakePoint(p.Center.X, math.Inf(1))
		return
	}
	p.arcCenter = geom.MakePoint(p.Center.X, p.Center.Y-p.Radius+p.arcRadius)
}

// FoldTarget returns the idle state's angle outside a gesture and the other
// state's angle during one.
func (p *Panoramic) FoldTarget() float64 {
	if !p.dragging {
		return p.angleFor(p.Idle)
	}
	if p.Idle == Open {
		return p.angleFor(Closed)
	}
	return p.angleFor(Open)
}

func (p *Panoramic) Transition(b Boundary) {
	p.dragging = b == DragStart
}

// ArcRadius and ArcAngle describe the great arc for the current fold.
// ArcRadius is +Inf once the strip is flat.
func (p *Panoramic) ArcRadius() float64 { return p.arcRadius }
func (p *Panoramic) ArcAngle() float64  { return p.arcAngle }

func (p *Panoramic) closed() bool { return math.Abs(p.fold-p.RestAngle) < closedTolerance }
func (p *Panoramic) flat() bool   { return math.IsInf(p.arcRadius, 1) }

// arcStart is the arc angle of the strip's first end; the strip runs in the
// direction of increasing angle through the top point at arcStart+arcAngle/2.
func (p *Panoramic) arcStart() float64 {
	return (2*math.Pi-p.arcAngle)/2 + math.Pi/2
}

// top is the hinge point, fixed for every fold.
func (p *Panoramic) top() geom.Point {
	return geom.MakePoint(p.Center.X, p.Center.Y-p.Radius)
}

// Shape returns the strip's facets. Near the closed state the regular polygon
// is emitted directly, avoiding rounding accumulated across facets; near the
// open state a straight strip of length 2π·Radius is emitted.
func (p *Panoramic) Shape() geom.Path {
	if p.closed() {
		return geom.Path{geom.RegularPolygon(p.Center, p.Radius, p.Segments, math.Pi/2)}
	}
	if p.flat() {
		top := p.top()
		return geom.Path{geom.Segment(
			geom.MakePoint(top.X-math.Pi*p.Radius, top.Y),
			geom.MakePoint(top.X+math.Pi*p.Radius, top.Y),
		)}
	}

	// Walk the facets: each vertex lies on the great arc, and the facet
	// direction turns by the arc's per-facet angle at every hinge.
	n := p.Segments
	step := p.arcAngle / float64(n)
	start := p.arcStart()
	chord := 2 * p.arcRadius * math.Sin(step/2)
	turn := geom.Rotation(step)

	pl := make(geom.Polyline, n+1)
	pl[0] = p.arcCenter.Add(geom.Polar(start, p.arcRadius))
	dir := geom.Polar(start+step/2+math.Pi/2, chord)
	for i := 1; i <= n; i++ {
		pl[i] = pl[i-1].Add(dir)
		dir = turn.MulVec(dir)
	}
	return geom.Path{pl}
}

// stripPoint maps u ∈ [0, 2π], the angle around the camera measured from
// behind it, to the matching point on the strip in its current fold.
func (p *Panoramic) stripPoint(u float64) geom.Point {
	if p.flat() {
		top := p.top()
		return geom.MakePoint(top.X-math.Pi*p.Radius+u*p.Radius, top.Y)
	}
	return p.arcCenter.Add(geom.Polar(p.arcStart()+u/(2*math.Pi)*p.arcAngle, p.arcRadius))
}

// stripSpan images the strip interval [u0, u1].
func (p *Panoramic) stripSpan(u0, u1 float64) geom.Polyline {
	if p.flat() {
		return geom.Segment(p.stripPoint(u0), p.stripPoint(u1))
	}
	s := p.arcStart()
	return geom.Arc(p.arcCenter, p.arcRadius,
		s+u0/(2*math.Pi)*p.arcAngle,
		s+u1/(2*math.Pi)*p.arcAngle)
}

// Intervals rebases the cone's angular interval to the bottom of the strip,
// wraps it into [0, 2π), and splits it where it crosses the wrap point. Each
// returned interval is increasing.
func Intervals(c geom.Cone) [][2]float64 {
	u0 := geom.WrapAngle(c.MinAngle() - math.Pi/2)
	u1 := u0 + 2*c.HalfAngle
	if u1 <= 2*math.Pi {
		return [][2]float64{{u0, u1}}
	}
	return [][2]float64{{0, u1 - 2*math.Pi}, {u0, 2 * math.Pi}}
}

func (p *Panoramic) Project(c geom.Cone) geom.Path {
	ivs := Intervals(c)
	path := make(geom.Path, len(ivs))
	for i, iv := range ivs {
		path[i] = p.stripSpan(iv[0], iv[1])
	}
	return path
}

// ConeShape shows cones while the strip is closed or closing around the
// camera; against the flat strip they would not meet their images.
func (p *Panoramic) ConeShape(c geom.Cone) geom.Path {
	if p.FoldTarget() != p.RestAngle {
		return nil
	}
	return geom.Path{c.Wedge()}
}
