// Package palette provides the colours figures are drawn with: HSL hues for
// objects, and the ink and paper colours for furniture and background.
package palette

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Saturation and lightness shared by every object hue.
const (
	saturation = 0.6
	lightness  = 0.5
)

var (
	Ink   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Paper = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Hue returns the object colour for hue h, in degrees. Hues wrap around 360.
func Hue(h float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, saturation, lightness).Clamped()
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// HueOf recovers the hue, in degrees, of an RGBA colour.
func HueOf(c color.RGBA) float64 {
	h, _, _ := toColorful(c).Hsl()
	return h
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.RGBA) string {
	return toColorful(c).Hex()
}

// Float returns c's channels in [0, 1], with alpha scaled by opacity.
func Float(c color.RGBA, opacity float64) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(float64(c.A) / 255 * opacity),
	}
}

func toColorful(c color.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
