package figure

import (
	"fmt"

	"github.com/irfansharif/lenses/internal/geom"
)

// recordingSurface is an in-memory Surface that records the latest state of
// every element and their stacking order.
type recordingSurface struct {
	elems []*recordedElement // indexed by Handle
	order []Handle           // back to front
}

type recordedElement struct {
	circle   bool
	center   geom.Point
	path     geom.Path
	style    Style
	setPaths int
}

var _ Surface = (*recordingSurface)(nil)

func (s *recordingSurface) add(e *recordedElement) Handle {
	h := Handle(len(s.elems))
	s.elems = append(s.elems, e)
	s.order = append(s.order, h)
	return h
}

func (s *recordingSurface) NewPath(st Style) Handle {
	return s.add(&recordedElement{style: st})
}

func (s *recordingSurface) NewCircle(c geom.Circle, st Style) Handle {
	return s.add(&recordedElement{circle: true, center: c.Center, style: st})
}

func (s *recordingSurface) SetPath(h Handle, p geom.Path) {
	s.elems[h].path = p
	s.elems[h].setPaths++
}

func (s *recordingSurface) SetCirclePosition(h Handle, p geom.Point) { s.elems[h].center = p }
func (s *recordingSurface) SetOpacity(h Handle, o float64)           { s.elems[h].style.Opacity = o }

func (s *recordingSurface) remove(h Handle) {
	i := s.index(h)
	s.order = append(s.order[:i], s.order[i+1:]...)
}

func (s *recordingSurface) BringToFront(h Handle) {
	s.remove(h)
	s.order = append(s.order, h)
}

func (s *recordingSurface) InsertBefore(h, marker Handle) {
	s.remove(h)
	i := s.index(marker)
	s.order = append(s.order[:i], append([]Handle{h}, s.order[i:]...)...)
}

func (s *recordingSurface) index(h Handle) int {
	for i, o := range s.order {
		if o == h {
			return i
		}
	}
	panic(fmt.Sprintf("unknown handle %d", h))
}
