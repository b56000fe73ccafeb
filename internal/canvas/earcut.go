package canvas

import (
	"log"

	"github.com/rclancey/earcut"

	"github.com/irfansharif/lenses/internal/geom"
)

// earClip triangulates a simple polygon using the earcut algorithm. A closing
// vertex repeating the first is ignored. Polygons with fewer than three
// vertices have no interior and yield no triangles.
func earClip(polygon geom.Polyline) [][3]geom.Point {
	if n := len(polygon); n > 1 && polygon[0] == polygon[n-1] {
		polygon = polygon[:n-1]
	}
	if len(polygon) < 3 {
		return nil
	}

	// Flat coordinate array: [x0, y0, x1, y1, ..., xn, yn].
	coords := make([]float64, len(polygon)*2)
	for i, p := range polygon {
		coords[i*2] = p.X
		coords[i*2+1] = p.Y
	}

	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		log.Fatalf("triangulation failed for %d-vertex polygon: %v", len(polygon), err)
	}
	if len(indices)%3 != 0 {
		log.Fatalf("invalid triangle count (indices: %d, not divisible by 3)", len(indices))
	}

	triangles := make([][3]geom.Point, len(indices)/3)
	for i := range triangles {
		for v := 0; v < 3; v++ {
			idx := indices[i*3+v]
			triangles[i][v] = geom.MakePoint(coords[idx*2], coords[idx*2+1])
		}
	}
	return triangles
}
