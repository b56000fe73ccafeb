package app

import (
	"fmt"
	"math/rand"

	"github.com/irfansharif/lenses/internal/canvas"
	"github.com/irfansharif/lenses/internal/figure"
)

// Entry is a single figure in the viewer, with the canvas it draws on.
type Entry struct {
	ID     int           // index into the manager; also the figure's GPU slot
	Config figure.Config // configuration the figure was built from
	Seed   int64         // seed used for population (for reproducibility)
	Figure *figure.Figure
	Canvas *canvas.Canvas
}

// populate (re)builds the entry's figure from its config and seed, on a
// cleared canvas.
func (e *Entry) populate() error {
	if e.Canvas == nil {
		e.Canvas = canvas.New(e.Config.Width, e.Config.Height)
	} else {
		e.Canvas.Reset()
	}
	f, err := figure.New(e.Config, e.Canvas, rand.New(rand.NewSource(e.Seed)))
	if err != nil {
		return err
	}
	e.Figure = f
	return nil
}

// FigureManager manages the figures shown by the viewer, one at a time.
type FigureManager struct {
	entries []*Entry
	current int
}

// NewFigureManager builds one figure per config. Figure i is populated with
// seed+i.
func NewFigureManager(configs []figure.Config, seed int64) (*FigureManager, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no figures to show")
	}
	fm := &FigureManager{}
	for i, cfg := range configs {
		e := &Entry{ID: i, Config: cfg, Seed: seed + int64(i)}
		if err := e.populate(); err != nil {
			return nil, err
		}
		fm.entries = append(fm.entries, e)
	}
	return fm, nil
}

// Entries returns every entry in ID order.
func (fm *FigureManager) Entries() []*Entry { return fm.entries }

// Canvases returns every entry's canvas, indexed by entry ID.
func (fm *FigureManager) Canvases() []*canvas.Canvas {
	cs := make([]*canvas.Canvas, len(fm.entries))
	for i, e := range fm.entries {
		cs[i] = e.Canvas
	}
	return cs
}

// Current returns the entry being shown.
func (fm *FigureManager) Current() *Entry { return fm.entries[fm.current] }

// SetCurrent shows the entry with the given ID.
func (fm *FigureManager) SetCurrent(id int) error {
	if id < 0 || id >= len(fm.entries) {
		return fmt.Errorf("no figure %d (have %d)", id, len(fm.entries))
	}
	fm.current = id
	return nil
}

// Find returns the ID of the entry with the given name.
func (fm *FigureManager) Find(name string) (int, error) {
	for _, e := range fm.entries {
		if e.Config.Name == name {
			return e.ID, nil
		}
	}
	return -1, fmt.Errorf("no figure named %q", name)
}

// Iter moves to the next or previous entry, wrapping around, and returns it.
func (fm *FigureManager) Iter(next bool) *Entry {
	direction := 1
	if !next {
		direction = -1
	}
	fm.current = (fm.current + direction + len(fm.entries)) % len(fm.entries)
	return fm.Current()
}

// Reseed repopulates the entry with a new seed.
func (fm *FigureManager) Reseed(e *Entry, seed int64) error {
	e.Seed = seed
	return e.populate()
}
