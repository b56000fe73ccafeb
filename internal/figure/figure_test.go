package figure

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/screen"
)

func newTestFigure(t *testing.T, cfg Config) (*Figure, *recordingSurface) {
	t.Helper()
	s := &recordingSurface{}
	f, err := New(cfg, s, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	return f, s
}

// moveTo drags object id from wherever it is to p in one gesture.
func moveTo(t *testing.T, f *Figure, id int, p geom.Point) {
	t.Helper()
	o := f.Objects[id]
	d := p.Sub(o.Position())
	if err := f.OnDragStart(id); err != nil {
		t.Fatal(err)
	}
	if err := f.OnDragMove(id, d.X, d.Y); err != nil {
		t.Fatal(err)
	}
	if err := f.OnDragEnd(id); err != nil {
		t.Fatal(err)
	}
}

func TestNewPopulates(t *testing.T) {
	for _, kind := range []Kind{KindRectilinear, KindPanoramic, KindStereo} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := DefaultConfig(kind, 650, 300)
			cfg.ObjectCount = 3
			f, s := newTestFigure(t, cfg)
			if len(f.Objects) != 3 {
				t.Fatalf("got %d objects", len(f.Objects))
			}
			for _, o := range f.Objects {
				if d := geom.Dist(o.Position(), f.Camera.Center); d <= o.Circle.R+f.Camera.R {
					t.Errorf("object %d overlaps the camera (distance %v)", o.ID, d)
				}
				if !f.bounds.Contains(o.Position()) {
					t.Errorf("object %d outside the scene at %v", o.ID, o.Position())
				}
				if s.elems[o.ball].center != o.Position() {
					t.Errorf("ball %d drawn at %v, object at %v", o.ID, s.elems[o.ball].center, o.Position())
				}
				if s.elems[o.image].setPaths == 0 {
					t.Errorf("object %d never projected", o.ID)
				}
			}
			if s.order[len(s.order)-1] != f.aboveScreen {
				t.Errorf("marker should stay on top of the stack")
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig(KindRectilinear, 650, 300)
	cfg.Radius = 0
	if _, err := New(cfg, &recordingSurface{}, rand.New(rand.NewSource(1))); err == nil {
		t.Errorf("expected an error")
	}
}

func TestDragOntoCamera(t *testing.T) {
	f, _ := newTestFigure(t, DefaultConfig(KindRectilinear, 650, 300))
	o := f.Objects[0]
	o.Circle.Center = geom.MakePoint(400, 100)
	rest := o.Circle.R + f.Camera.R + geom.PushMargin

	t.Run("onto the center", func(t *testing.T) {
		moveTo(t, f, 0, f.Camera.Center)

		got := o.Position().Sub(f.Camera.Center)
		if math.Abs(got.Len()-rest) > 1e-9 {
			t.Errorf("resting distance = %v, expected %v", got.Len(), rest)
		}
		// Along the approach direction, from (400, 100).
		approach := geom.MakePoint(75, -90)
		if want := approach.Scale(rest / approach.Len()); geom.Dist(got, want) > 1e-9 {
			t.Errorf("rested at offset %v, expected %v", got, want)
		}
	})

	t.Run("into the disk", func(t *testing.T) {
		moveTo(t, f, 0, f.Camera.Center.Add(geom.MakePoint(5, 0)))
		want := f.Camera.Center.Add(geom.MakePoint(rest, 0))
		if geom.Dist(o.Position(), want) > 1e-9 {
			t.Errorf("rested at %v, expected %v", o.Position(), want)
		}
	})
}

func TestDragClampsToScene(t *testing.T) {
	f, s := newTestFigure(t, DefaultConfig(KindRectilinear, 650, 300))
	moveTo(t, f, 0, geom.MakePoint(-1000, 5000))
	o := f.Objects[0]
	if want := geom.MakePoint(0, 300); o.Position() != want {
		t.Errorf("position = %v, expected %v", o.Position(), want)
	}
	if s.elems[o.ball].center != o.Position() {
		t.Errorf("ball not moved with the object")
	}
}

func TestDragMovesRelativeToOrigin(t *testing.T) {
	f, _ := newTestFigure(t, DefaultConfig(KindRectilinear, 650, 300))
	o := f.Objects[0]
	o.Circle.Center = geom.MakePoint(100, 50)

	if err := f.OnDragMove(0, 10, 10); err != nil {
		t.Fatal(err)
	}
	if o.Position() != geom.MakePoint(100, 50) {
		t.Errorf("move outside a gesture should be ignored")
	}

	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	for _, d := range []geom.Point{{X: 10, Y: 0}, {X: 20, Y: 5}, {X: 30, Y: 10}} {
		if err := f.OnDragMove(0, d.X, d.Y); err != nil {
			t.Fatal(err)
		}
	}
	if want := geom.MakePoint(130, 60); o.Position() != want {
		t.Errorf("position = %v, expected %v (deltas are from the gesture origin)", o.Position(), want)
	}
	if !o.Dragging() {
		t.Errorf("object should be dragging")
	}
	if err := f.OnDragEnd(0); err != nil {
		t.Fatal(err)
	}
	if o.Dragging() {
		t.Errorf("object should be idle")
	}
}

func TestUnknownObject(t *testing.T) {
	f, _ := newTestFigure(t, DefaultConfig(KindRectilinear, 650, 300))
	if err := f.OnDragStart(7); err == nil {
		t.Errorf("expected an error for an unknown object")
	}
	if err := f.OnDragMove(-1, 0, 0); err == nil {
		t.Errorf("expected an error for an unknown object")
	}
}

func TestHiddenImage(t *testing.T) {
	f, s := newTestFigure(t, DefaultConfig(KindRectilinear, 650, 300))
	o := f.Objects[0]
	if s.elems[o.image].path.Empty() {
		t.Fatalf("object in front of the camera should have an image")
	}
	moveTo(t, f, 0, geom.MakePoint(f.Camera.Center.X, 280))
	if p := s.elems[o.image].path; p != nil {
		t.Errorf("object behind the camera should have no image, got %v", p)
	}
	if p := s.elems[o.coneH].path; p.Empty() {
		t.Errorf("rectilinear cones are always shown")
	}
}

func TestDragRaisesObject(t *testing.T) {
	cfg := DefaultConfig(KindRectilinear, 650, 300)
	cfg.ObjectCount = 3
	f, s := newTestFigure(t, cfg)

	p := geom.MakePoint(100, 60)
	f.Objects[0].Circle.Center = p
	f.Objects[1].Circle.Center = p
	if got := f.ObjectAt(p); got != f.Objects[1] {
		t.Errorf("ObjectAt = %v, expected the later object", got)
	}

	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	if got := f.ObjectAt(p); got != f.Objects[0] {
		t.Errorf("ObjectAt = %v, expected the dragged object", got)
	}

	o := f.Objects[0]
	n := len(s.order)
	want := []Handle{o.ball, o.image, o.coneH, f.aboveScreen}
	if got := s.order[n-4:]; !reflect.DeepEqual(got, want) {
		t.Errorf("top of stack = %v, expected %v", got, want)
	}
	if s.index(f.furniture) > s.index(f.Objects[1].ball) {
		t.Errorf("objects should stack above the screen")
	}
	if f.ObjectAt(geom.MakePoint(600, 290)) != nil {
		t.Errorf("expected no object at an empty spot")
	}
}

func TestFoldAnimation(t *testing.T) {
	f, _ := newTestFigure(t, DefaultConfig(KindPanoramic, 650, 300))
	p := f.Screen.(*screen.Panoramic)
	rest := p.RestAngle
	if p.FoldAngle() != rest || f.Animating() {
		t.Fatalf("closed idle screen should start settled at rest")
	}

	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	if !f.Animating() {
		t.Fatalf("drag start should start folding")
	}
	if !f.Tick(100 * time.Millisecond) {
		t.Errorf("animation should still be in flight halfway")
	}
	if want := (rest + math.Pi) / 2; math.Abs(p.FoldAngle()-want) > 1e-12 {
		t.Errorf("fold = %v halfway, expected %v", p.FoldAngle(), want)
	}
	if f.Tick(100 * time.Millisecond) {
		t.Errorf("animation should have completed")
	}
	if p.FoldAngle() != math.Pi {
		t.Errorf("fold = %v, expected open", p.FoldAngle())
	}
	if f.Tick(time.Second) || p.FoldAngle() != math.Pi {
		t.Errorf("ticks after completion should not change the fold")
	}

	if err := f.OnDragEnd(0); err != nil {
		t.Fatal(err)
	}
	f.Tick(time.Second)
	if p.FoldAngle() != rest {
		t.Errorf("drag end should fold back to rest, got %v", p.FoldAngle())
	}
}

func TestFoldAnimationSuperseded(t *testing.T) {
	f, _ := newTestFigure(t, DefaultConfig(KindPanoramic, 650, 300))
	p := f.Screen.(*screen.Panoramic)
	rest := p.RestAngle

	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	f.Tick(150 * time.Millisecond)
	mid := p.FoldAngle()
	if want := rest + 0.75*(math.Pi-rest); math.Abs(mid-want) > 1e-12 {
		t.Fatalf("fold = %v, expected %v", mid, want)
	}

	// Ending the gesture mid-flight restarts the clock from where the fold
	// is, towards the new target.
	if err := f.OnDragEnd(0); err != nil {
		t.Fatal(err)
	}
	f.Tick(100 * time.Millisecond)
	if want := mid + 0.5*(rest-mid); math.Abs(p.FoldAngle()-want) > 1e-12 {
		t.Errorf("fold = %v, expected %v", p.FoldAngle(), want)
	}
	f.Tick(100 * time.Millisecond)
	if p.FoldAngle() != rest || f.Animating() {
		t.Errorf("fold = %v, expected settled at rest", p.FoldAngle())
	}
}

func TestBoundaryReprojectsAll(t *testing.T) {
	cfg := DefaultConfig(KindPanoramic, 650, 300)
	cfg.ObjectCount = 3
	cfg.FoldDuration = 0
	f, s := newTestFigure(t, cfg)

	before := make([]geom.Path, len(f.Objects))
	for i, o := range f.Objects {
		before[i] = s.elems[o.image].path
		if s.elems[o.coneH].path == nil {
			t.Errorf("cones should be shown around the closed screen")
		}
	}
	shape := s.elems[f.furniture].path

	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	if f.Animating() {
		t.Errorf("a zero duration fold should settle immediately")
	}
	for i, o := range f.Objects {
		if reflect.DeepEqual(before[i], s.elems[o.image].path) {
			t.Errorf("object %d not reprojected after the screen unfolded", i)
		}
		if s.elems[o.coneH].path != nil {
			t.Errorf("cones should be hidden against the open screen")
		}
	}
	if reflect.DeepEqual(shape, s.elems[f.furniture].path) {
		t.Errorf("screen shape not redrawn")
	}
}

func TestStereoSwitchesCameras(t *testing.T) {
	f, s := newTestFigure(t, DefaultConfig(KindStereo, 650, 300))
	if len(f.cameras) != 2 {
		t.Fatalf("expected two cameras, got %d", len(f.cameras))
	}
	opacities := func() [2]float64 {
		return [2]float64{s.elems[f.cameras[0]].style.Opacity, s.elems[f.cameras[1]].style.Opacity}
	}
	if got := opacities(); got != [2]float64{cameraOpacity, inactiveCameraOpacity} {
		t.Errorf("initial camera opacities = %v", got)
	}

	o := f.Objects[0]
	if err := f.OnDragStart(0); err != nil {
		t.Fatal(err)
	}
	near := s.elems[o.coneH].path
	if err := f.OnDragEnd(0); err != nil {
		t.Fatal(err)
	}
	if got := opacities(); got != [2]float64{inactiveCameraOpacity, cameraOpacity} {
		t.Errorf("camera opacities after drag = %v", got)
	}
	far := s.elems[o.coneH].path
	sw := f.Screen.(screen.Switcher)
	if near[0][0] != sw.Cameras()[0] || far[0][0] != sw.Cameras()[1] {
		t.Errorf("cones should follow the active camera: %v / %v", near[0][0], far[0][0])
	}
	if img := s.elems[o.image].path; len(img) != 2 {
		t.Errorf("stereo image should have near and far parts, got %d", len(img))
	}
}
