package memory

// Fragmentation returns the share of the spanned buffer lost to holes left
// behind by relocated or released regions.
func (l *Layout) Fragmentation() float64 {
	_, reserved, spanned := l.Usage()
	if spanned == 0 {
		return 0
	}
	return float64(spanned-reserved) / float64(spanned)
}

// ShouldCompact reports whether holes take up enough of the buffer to be
// worth reclaiming.
func (l *Layout) ShouldCompact() bool {
	return DefragEnableCompaction && l.Fragmentation() >= DefragThreshold
}

// compact slides every region towards the start of the buffer, closing the
// holes between them while keeping their relative order. It returns the
// slots whose regions moved.
func (l *Layout) compact() []SlotID {
	var moved []SlotID
	offset := 0
	for _, id := range l.Slots() {
		r := l.regions[id]
		if r.Offset != offset {
			memoryLogger.Printf("compaction: slot %d %d -> %d (%s vertices)",
				id, r.Offset, offset, formatNumber(int64(r.Count)))
			r.Offset = offset
			moved = append(moved, id)
		}
		offset = r.end()
	}
	l.end = offset
	if len(moved) > 0 {
		l.compactions++
		l.relocations += len(moved)
	}
	return moved
}
