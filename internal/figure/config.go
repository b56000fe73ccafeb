package figure

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/irfansharif/lenses/internal/geom"
	"github.com/irfansharif/lenses/internal/screen"
)

// Kind selects the screen a figure images onto.
type Kind string

const (
	KindRectilinear Kind = "rectilinear"
	KindPanoramic   Kind = "panoramic"
	KindStereo      Kind = "stereo"
)

// Range is a closed interval [Min, Max] that values are drawn uniformly from.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) empty() bool { return r.Min > r.Max }

// Config describes a figure. Angles are in degrees, measured counterclockwise
// from the camera's right; distances are in scene units.
type Config struct {
	Name   string  `yaml:"name"`
	Kind   Kind    `yaml:"kind"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	ObjectCount  int     `yaml:"object_count"`
	Radius       float64 `yaml:"radius"`
	CameraRadius float64 `yaml:"camera_radius"`

	// Population: the first object draws its hue and angle from these
	// ranges, each following object advances both by a random step.
	HueRange      Range `yaml:"initial_hue_range"`
	AngleRange    Range `yaml:"initial_angle_range"`
	DistanceRange Range `yaml:"initial_distance_range"`
	HueStep       Range `yaml:"hue_step"`
	AngleStep     Range `yaml:"angle_step"`

	// Panoramic and stereo screens.
	ScreenRadius float64          `yaml:"screen_radius"`
	Segments     int              `yaml:"segments"`
	RestState    screen.RestState `yaml:"rest_state"`
	FoldDuration time.Duration    `yaml:"fold_duration"`
}

// DefaultConfig returns the configuration of the stock w×h figure of the
// given kind.
func DefaultConfig(kind Kind, w, h float64) Config {
	return Config{
		Name:          string(kind),
		Kind:          kind,
		Width:         w,
		Height:        h,
		ObjectCount:   1,
		Radius:        20,
		CameraRadius:  5,
		HueRange:      Range{0, 360},
		AngleRange:    Range{30, 30 + 22.5},
		DistanceRange: Range{h / 3, h/3 + h/8},
		HueStep:       Range{60, 100},
		AngleStep:     Range{22.5, 67.5},
		ScreenRadius:  50,
		Segments:      40,
		RestState:     screen.Closed,
		FoldDuration:  200 * time.Millisecond,
	}
}

// Bounds is the scene box objects are kept within.
func (c Config) Bounds() geom.Box { return geom.MakeBox(0, 0, c.Width, c.Height) }

// Camera returns the (primary) camera, just below the scene's center.
func (c Config) Camera() geom.Circle {
	return geom.MakeCircle(c.Width/2, c.Height/2+40, c.CameraRadius)
}

// Validate reports the first problem with c, if any.
func (c Config) Validate() error {
	switch c.Kind {
	case KindRectilinear, KindPanoramic, KindStereo:
	default:
		return fmt.Errorf("unknown figure kind %q", c.Kind)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("non-positive size %vx%v", c.Width, c.Height)
	}
	if c.Radius <= 0 || c.CameraRadius <= 0 {
		return fmt.Errorf("non-positive radius (object %v, camera %v)", c.Radius, c.CameraRadius)
	}
	if c.ObjectCount < 0 {
		return fmt.Errorf("negative object count %d", c.ObjectCount)
	}
	if cam := c.Camera(); cam.Center.Y+cam.R > c.Height {
		return fmt.Errorf("height %v too small to fit the camera at y=%v", c.Height, cam.Center.Y)
	}

	for _, r := range []struct {
		name string
		Range
	}{
		{"initial hue", c.HueRange},
		{"initial angle", c.AngleRange},
		{"initial distance", c.DistanceRange},
		{"hue step", c.HueStep},
		{"angle step", c.AngleStep},
	} {
		if r.empty() {
			return fmt.Errorf("empty %s range [%v, %v]", r.name, r.Min, r.Max)
		}
	}
	if closest := c.Radius + c.CameraRadius; c.DistanceRange.Min <= closest {
		return fmt.Errorf("initial distance %v would overlap the camera (need > %v)", c.DistanceRange.Min, closest)
	}

	if c.Kind == KindRectilinear {
		return nil
	}
	if c.ScreenRadius <= 0 {
		return fmt.Errorf("non-positive screen radius %v", c.ScreenRadius)
	}
	if c.Kind == KindPanoramic && c.Segments < 3 {
		return fmt.Errorf("panoramic screen needs at least 3 segments, got %d", c.Segments)
	}
	if c.FoldDuration < 0 {
		return fmt.Errorf("negative fold duration %v", c.FoldDuration)
	}
	return nil
}

// configFile is the on-disk layout of a figures file.
type configFile struct {
	Figures []yaml.Node `yaml:"figures"`
}

// configHeader holds the fields every figure entry's defaults derive from.
type configHeader struct {
	Kind   Kind    `yaml:"kind"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// LoadConfigs reads a YAML figures file. Each entry starts from the
// DefaultConfig for its kind and size; fields present in the file override
// the defaults.
func LoadConfigs(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading figures: %w", err)
	}
	return ParseConfigs(data)
}

// ParseConfigs is LoadConfigs on an in-memory document.
func ParseConfigs(data []byte) ([]Config, error) {
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing figures: %w", err)
	}
	if len(file.Figures) == 0 {
		return nil, errors.New("no figures defined")
	}

	configs := make([]Config, 0, len(file.Figures))
	for i := range file.Figures {
		node := &file.Figures[i]

		var hdr configHeader
		if err := node.Decode(&hdr); err != nil {
			return nil, fmt.Errorf("figure %d (line %d): %w", i, node.Line, err)
		}
		cfg := DefaultConfig(hdr.Kind, hdr.Width, hdr.Height)
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("figure %d (line %d): %w", i, node.Line, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("figure %d (%s): %w", i, cfg.Name, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
