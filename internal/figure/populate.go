package figure

import (
	"math"
	"math/rand"

	"github.com/irfansharif/lenses/internal/geom"
)

// Placement is where, and in which hue, population puts an object.
type Placement struct {
	Center geom.Point
	Hue    float64 // degrees, [0, 360)
}

func uniform(rng *rand.Rand, r Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Layout lays out cfg.ObjectCount objects around the camera. A base hue and
// angle are drawn first; each following object advances the hue (wrapping at
// 360°) and the angle by a random step, and draws its own distance.
func Layout(cfg Config, rng *rand.Rand) []Placement {
	cam := cfg.Camera().Center
	hue := math.Mod(uniform(rng, cfg.HueRange), 360)
	angle := uniform(rng, cfg.AngleRange)

	out := make([]Placement, 0, cfg.ObjectCount)
	for i := 0; i < cfg.ObjectCount; i++ {
		dist := uniform(rng, cfg.DistanceRange)
		a := angle * math.Pi / 180
		out = append(out, Placement{
			// Angles grow counterclockwise on screen, against Y.
			Center: geom.MakePoint(cam.X+math.Cos(a)*dist, cam.Y-math.Sin(a)*dist),
			Hue:    hue,
		})
		hue = math.Mod(hue+uniform(rng, cfg.HueStep), 360)
		angle += uniform(rng, cfg.AngleStep)
	}
	return out
}
