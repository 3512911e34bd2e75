package textfx

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientMode selects how a Gradient interpolates between keys.
type GradientMode uint8

const (
	GradientBlend GradientMode = iota // linear RGB blend between neighbouring keys
	GradientFixed                     // step to the next key, no blending
)

// ColorKey places an RGB color at a position in [0, 1].
type ColorKey struct {
	Color Color   `yaml:"color"`
	Time  float64 `yaml:"time"`
}

// AlphaKey places an alpha value at a position in [0, 1].
type AlphaKey struct {
	Alpha float64 `yaml:"alpha"`
	Time  float64 `yaml:"time"`
}

// Gradient maps t in [0, 1] to a color. Color and alpha are keyed separately.
// An empty gradient evaluates to opaque white.
type Gradient struct {
	Mode      GradientMode `yaml:"mode,omitempty"`
	ColorKeys []ColorKey   `yaml:"colorKeys"`
	AlphaKeys []AlphaKey   `yaml:"alphaKeys,omitempty"`
}

// NewGradient returns a blended gradient over the given colors, spaced evenly.
func NewGradient(colors ...Color) *Gradient {
	g := &Gradient{}
	for i, c := range colors {
		t := 0.0
		if len(colors) > 1 {
			t = float64(i) / float64(len(colors)-1)
		}
		g.ColorKeys = append(g.ColorKeys, ColorKey{Color: c, Time: t})
		g.AlphaKeys = append(g.AlphaKeys, AlphaKey{Alpha: c.A, Time: t})
	}
	return g
}

// Clone returns a deep copy. A nil gradient clones to nil.
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	return &Gradient{
		Mode:      g.Mode,
		ColorKeys: append([]ColorKey(nil), g.ColorKeys...),
		AlphaKeys: append([]AlphaKey(nil), g.AlphaKeys...),
	}
}

// Evaluate samples the gradient at t (clamped to [0, 1]).
func (g *Gradient) Evaluate(t float64) Color {
	if g == nil || len(g.ColorKeys) == 0 {
		return ColorWhite
	}
	t = clamp01(t)
	rgb := g.evalColor(t)
	a := g.evalAlpha(t)
	return Color{R: rgb.R, G: rgb.G, B: rgb.B, A: a}
}

func (g *Gradient) evalColor(t float64) colorful.Color {
	keys := g.ColorKeys
	if !sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time }) {
		keys = append([]ColorKey(nil), keys...)
		sort.SliceStable(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	}
	toColorful := func(c Color) colorful.Color { return colorful.Color{R: c.R, G: c.G, B: c.B} }
	if t <= keys[0].Time {
		return toColorful(keys[0].Color)
	}
	for i := 1; i < len(keys); i++ {
		if t > keys[i].Time {
			continue
		}
		if g.Mode == GradientFixed {
			return toColorful(keys[i].Color)
		}
		span := keys[i].Time - keys[i-1].Time
		if span <= 0 {
			return toColorful(keys[i].Color)
		}
		f := (t - keys[i-1].Time) / span
		return toColorful(keys[i-1].Color).BlendRgb(toColorful(keys[i].Color), f).Clamped()
	}
	return toColorful(keys[len(keys)-1].Color)
}

func (g *Gradient) evalAlpha(t float64) float64 {
	keys := g.AlphaKeys
	if len(keys) == 0 {
		return 1
	}
	if t <= keys[0].Time {
		return keys[0].Alpha
	}
	for i := 1; i < len(keys); i++ {
		if t > keys[i].Time {
			continue
		}
		if g.Mode == GradientFixed {
			return keys[i].Alpha
		}
		span := keys[i].Time - keys[i-1].Time
		if span <= 0 {
			return keys[i].Alpha
		}
		f := (t - keys[i-1].Time) / span
		return keys[i-1].Alpha + (keys[i].Alpha-keys[i-1].Alpha)*f
	}
	return keys[len(keys)-1].Alpha
}

// HSV converts hue, saturation and value (all in [0, 1]) to an opaque Color.
func HSV(h, s, v float64) Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	c := colorful.Hsv(h*360, clamp01(s), clamp01(v)).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// wrapHue maps x to abs(x) mod 1, the hue wrap used by the color cycling modules.
func wrapHue(x float64) float64 {
	return math.Mod(math.Abs(x), 1)
}
