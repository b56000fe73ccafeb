// Package memory provides GPU memory management for streaming figure geometry.
//
// Every figure is tessellated into its own slot of a single shared VBO. Slots
// are rewritten in place with BufferSubData as figures change; a slot that
// outgrows its region moves, and the buffer grows by doubling when it runs
// out of room.
package memory

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var memoryLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("LENSES_DEBUG_MEMORY") == "1" {
		memoryLogger = log.New(os.Stdout, "[memory] ", log.Ltime|log.Lmsgprefix)
	}
}

// Configuration constants for memory management.
const (
	// Compaction configuration. Once holes make up at least DefragThreshold
	// of the spanned buffer, regions are slid together and re-uploaded.
	DefragEnableCompaction = true
	DefragThreshold        = 0.5

	// Growth configuration. The buffer starts with room for
	// initialVertexCapacity vertices and doubles as needed, up to
	// MaxBufferBytes.
	initialVertexCapacity = 16384
	MaxBufferBytes        = 64 * 1024 * 1024 // 64 MiB

	minSlotVertices = 1024

	floatsPerVertex = 6 // x, y, r, g, b, a
	bytesPerVertex  = floatsPerVertex * 4
)

// Controller manages the GPU vertex buffer shared by all figures.
type Controller struct {
	vao, vbo uint32
	layout   *Layout
	stats    Stats

	slotsNeedingReupload map[SlotID]bool
}

// Stats tracks performance metrics for the memory controller.
type Stats struct {
	TotalSlots        int
	TotalVertices     int64 // in use
	ReservedVertices  int64
	TotalGPUBytes     int64
	Fragmentation     float64
	DrawCallsPerFrame int
	Uploads           int
	GrowthEvents      int
	LastGrowthTimeUs  float64
	CompactionEvents  int
	SlotsRelocated    int
}

// NewController creates a memory controller and its initial buffer. It
// requires a current GL context.
func NewController() *Controller {
	mc := &Controller{
		layout:               NewLayout(initialVertexCapacity),
		slotsNeedingReupload: make(map[SlotID]bool),
	}
	gl.GenVertexArrays(1, &mc.vao)
	mc.allocate(mc.layout.Capacity)
	return mc
}

// allocate (re)creates the VBO with room for capacity vertices and points the
// VAO's attributes at it. Previous contents are discarded.
func (mc *Controller) allocate(capacity int) {
	var savedVAO, savedVBO int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &savedVAO)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &savedVBO)

	oldVBO := mc.vbo
	gl.GenBuffers(1, &mc.vbo)
	gl.BindVertexArray(mc.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, mc.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*bytesPerVertex, nil, gl.DYNAMIC_DRAW)

	// Configure vertex attributes
	// - Attribute 0: position (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(0))
	// - Attribute 1: color (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, bytesPerVertex, gl.PtrOffset(8))

	gl.BindVertexArray(uint32(savedVAO))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(savedVBO))

	if oldVBO != 0 {
		gl.Finish()
		gl.DeleteBuffers(1, &oldVBO)
	}
}

// EnsureSlot writes vertices into the slot's region, reserving or moving it
// as needed. Slots displaced along the way are marked for re-upload.
func (mc *Controller) EnsureSlot(id SlotID, vertices []float32) error {
	if len(vertices)%floatsPerVertex != 0 {
		return fmt.Errorf("vertex data must be multiple of %d floats (x,y,r,g,b,a), got %d",
			floatsPerVertex, len(vertices))
	}
	vertexCount := len(vertices) / floatsPerVertex
	if vertexCount == 0 {
		// Nothing to draw; keep the region for when the figure reappears.
		if r, ok := mc.layout.regions[id]; ok {
			r.Count = 0
		}
		delete(mc.slotsNeedingReupload, id)
		return nil
	}

	startTime := time.Now()
	region, moved, grown, err := mc.layout.Reserve(id, vertexCount)
	if err != nil {
		return err
	}
	if grown {
		mc.allocate(mc.layout.Capacity)
		mc.stats.GrowthEvents++
		mc.stats.LastGrowthTimeUs = float64(time.Since(startTime).Microseconds())
		memoryLogger.Printf("grew buffer to %s vertices (%s GPU)",
			formatNumber(int64(mc.layout.Capacity)), formatNumber(int64(mc.layout.Capacity*bytesPerVertex)))
	}
	mc.markSlotsForReupload(moved)
	delete(mc.slotsNeedingReupload, id)

	mc.upload(region, vertices)
	return nil
}

// upload writes vertices at the region's offset.
func (mc *Controller) upload(r Region, vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, mc.vbo)
	byteOffset := r.Offset * bytesPerVertex
	byteSize := len(vertices) * 4 // floats × 4 bytes
	gl.BufferSubData(gl.ARRAY_BUFFER, byteOffset, byteSize, gl.Ptr(vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	mc.stats.Uploads++
}

// RemoveSlot releases a slot's region.
func (mc *Controller) RemoveSlot(id SlotID) {
	mc.layout.Release(id)
	delete(mc.slotsNeedingReupload, id)
}

func (mc *Controller) markSlotsForReupload(ids []SlotID) {
	for _, id := range ids {
		mc.slotsNeedingReupload[id] = true
	}
}

// GetAndClearSlotsNeedingReupload returns the slots whose regions moved since
// they were last written. Their contents on the GPU are stale.
func (mc *Controller) GetAndClearSlotsNeedingReupload() []SlotID {
	if len(mc.slotsNeedingReupload) == 0 {
		return nil
	}
	ids := make([]SlotID, 0, len(mc.slotsNeedingReupload))
	for id := range mc.slotsNeedingReupload {
		ids = append(ids, id)
	}
	mc.slotsNeedingReupload = make(map[SlotID]bool)
	return ids
}

// TryCompaction closes the holes in the buffer if they have grown large
// enough. Compacted slots are marked for re-upload.
func (mc *Controller) TryCompaction() {
	if !mc.layout.ShouldCompact() {
		return
	}
	moved := mc.layout.compact()
	mc.markSlotsForReupload(moved)
}

// Draw draws the given slot's triangles. A slot nothing was uploaded to
// draws nothing.
func (mc *Controller) Draw(id SlotID) error {
	mc.stats.DrawCallsPerFrame = 0
	if mc.slotsNeedingReupload[id] {
		return fmt.Errorf("slot %d was relocated and not re-uploaded", id)
	}
	r, ok := mc.layout.Region(id)
	if !ok || r.Count == 0 {
		return nil // nothing uploaded
	}

	gl.BindVertexArray(mc.vao)
	gl.DrawArrays(gl.TRIANGLES, int32(r.Offset), int32(r.Count))
	gl.BindVertexArray(0)
	mc.stats.DrawCallsPerFrame = 1
	return nil
}

// Cleanup releases all OpenGL resources.
func (mc *Controller) Cleanup() {
	if mc.vao != 0 {
		gl.DeleteVertexArrays(1, &mc.vao)
		mc.vao = 0
	}
	if mc.vbo != 0 {
		gl.DeleteBuffers(1, &mc.vbo)
		mc.vbo = 0
	}
}

// Stats returns current memory statistics.
func (mc *Controller) Stats() Stats {
	used, reserved, _ := mc.layout.Usage()
	mc.stats.TotalSlots = len(mc.layout.regions)
	mc.stats.TotalVertices = int64(used)
	mc.stats.ReservedVertices = int64(reserved)
	mc.stats.TotalGPUBytes = int64(mc.layout.Capacity * bytesPerVertex)
	mc.stats.Fragmentation = mc.layout.Fragmentation()
	mc.stats.CompactionEvents = mc.layout.compactions
	mc.stats.SlotsRelocated = mc.layout.relocations
	return mc.stats
}

// PrintStats outputs memory statistics with visual bars.
func (mc *Controller) PrintStats() {
	stats := mc.Stats()

	capacity := mc.layout.Capacity
	reservedUtil := float64(stats.ReservedVertices) / float64(capacity)

	memoryLogger.Println("===== Memory Controller Stats =====")
	memoryLogger.Printf("%d uploads, %d compactions (%d slots relocated), %d growth events (%.2fμs last)",
		stats.Uploads, stats.CompactionEvents, stats.SlotsRelocated, stats.GrowthEvents, stats.LastGrowthTimeUs)
	memoryLogger.Printf("%s %.1f%% reserved (%s/%s vertices), %.1f%% fragmented, %s GPU, %d slots (%s triangles)",
		makeUtilizationBar(reservedUtil, 12),
		reservedUtil*100,
		formatNumber(stats.ReservedVertices),
		formatNumber(int64(capacity)),
		stats.Fragmentation*100,
		formatNumber(stats.TotalGPUBytes),
		stats.TotalSlots,
		formatNumber(stats.TotalVertices/3),
	)
	for _, id := range mc.layout.Slots() {
		r, _ := mc.layout.Region(id)
		util := float64(r.Count) / float64(r.Capacity)
		memoryLogger.Printf("      slot#%02d  %s %.0f%% used (%s/%s vertices at %s)",
			id,
			makeUtilizationBar(util, 8),
			util*100,
			formatNumber(int64(r.Count)),
			formatNumber(int64(r.Capacity)),
			formatNumber(int64(r.Offset)),
		)
	}
	memoryLogger.Println("===================================")
}

// makeUtilizationBar creates a visual bar for utilization percentage.
func makeUtilizationBar(utilization float64, width int) string {
	if utilization < 0 {
		utilization = 0
	}
	if utilization > 1 {
		utilization = 1
	}

	filled := int(utilization * float64(width))
	empty := width - filled
	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// formatNumber formats large numbers with K/M suffixes for readability.
func formatNumber(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000.0)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000.0)
}
