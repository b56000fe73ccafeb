package memory

import (
	"fmt"
	"sort"
)

// SlotID identifies a client's region of the vertex buffer. The renderer
// uses one slot per figure.
type SlotID int

// Region is a contiguous run of vertices within the buffer.
type Region struct {
	Offset   int // first vertex
	Capacity int // vertices reserved
	Count    int // vertices in use
}

func (r Region) end() int { return r.Offset + r.Capacity }

// Layout tracks where each slot's vertices live in a single buffer of
// Capacity vertices. Regions are handed out from the end of the buffer;
// a region that outgrows its capacity moves to the end, leaving a hole
// behind that compaction later reclaims.
type Layout struct {
	Capacity int

	regions map[SlotID]*Region
	end     int // first vertex past the last region

	growths, compactions, relocations int
}

// NewLayout returns an empty layout over a buffer of capacity vertices.
func NewLayout(capacity int) *Layout {
	if capacity <= 0 {
		capacity = minSlotVertices
	}
	return &Layout{Capacity: capacity, regions: make(map[SlotID]*Region)}
}

// slotCapacity rounds n up to a power of two, with room for at least
// minSlotVertices. The headroom lets a slot grow in place as figures change
// shape (cones appearing, screens folding).
func slotCapacity(n int) int {
	c := minSlotVertices
	for c < n {
		c *= 2
	}
	return c
}

// Reserve makes room for n vertices in id's region and returns it. moved
// lists the other slots whose regions were relocated to make room; their
// vertices must be uploaded again. grown reports whether the buffer's
// capacity changed, in which case every slot was moved.
func (l *Layout) Reserve(id SlotID, n int) (r Region, moved []SlotID, grown bool, err error) {
	if n <= 0 {
		return Region{}, nil, false, fmt.Errorf("slot %d: cannot reserve %d vertices", id, n)
	}
	if existing, ok := l.regions[id]; ok {
		if n <= existing.Capacity {
			existing.Count = n
			return *existing, nil, false, nil
		}
		l.release(id)
	}

	want := slotCapacity(n)
	if l.end+want > l.Capacity {
		moved = l.compact()
	}
	if l.end+want > l.Capacity {
		capacity := l.Capacity
		for l.end+want > capacity {
			capacity *= 2
		}
		if capacity*bytesPerVertex > MaxBufferBytes {
			return Region{}, nil, false, fmt.Errorf("slot %d: %d vertices would grow the buffer past %s",
				id, n, formatNumber(MaxBufferBytes))
		}
		l.Capacity = capacity
		l.growths++
		grown = true
		moved = l.Slots()
	}

	region := &Region{Offset: l.end, Capacity: want, Count: n}
	l.regions[id] = region
	l.end = region.end()
	return *region, moved, grown, nil
}

// Release frees id's region. Releasing an unknown slot is a no-op.
func (l *Layout) Release(id SlotID) {
	l.release(id)
}

func (l *Layout) release(id SlotID) {
	if _, ok := l.regions[id]; !ok {
		return
	}
	delete(l.regions, id)
	l.end = 0
	for _, r := range l.regions {
		if r.end() > l.end {
			l.end = r.end()
		}
	}
}

// Region returns id's region, if it has one.
func (l *Layout) Region(id SlotID) (Region, bool) {
	r, ok := l.regions[id]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// Slots returns every slot with a region, in buffer order.
func (l *Layout) Slots() []SlotID {
	ids := make([]SlotID, 0, len(l.regions))
	for id := range l.regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return l.regions[ids[i]].Offset < l.regions[ids[j]].Offset
	})
	return ids
}

// Usage returns the vertices in use, the vertices reserved by regions, and
// the extent of the buffer the regions span (reserved plus holes).
func (l *Layout) Usage() (used, reserved, spanned int) {
	for _, r := range l.regions {
		used += r.Count
		reserved += r.Capacity
	}
	return used, reserved, l.end
}
