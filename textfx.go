package textfx

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are submitted to Ebitengine.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default glyph tint.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent is fully transparent white, the default start color of the
// typewriter color module.
var ColorTransparent = Color{1, 1, 1, 0}

// RGBA8 builds a Color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// Lerp blends c towards to by t. t is clamped to [0, 1] so channels stay in range.
func (c Color) Lerp(to Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A)*255 + 0.5),
		G: uint8(clamp01(c.G*c.A)*255 + 0.5),
		B: uint8(clamp01(c.B*c.A)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// Vec2 is a 2D vector used for offsets, displacements and scale ranges.
type Vec2 struct {
	X, Y float64
}

// Lerp interpolates between v and to by t (unclamped).
func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{v.X + (to.X-v.X)*t, v.Y + (to.Y-v.Y)*t}
}

// Normalized returns v scaled to unit length, or the zero vector.
func (v Vec2) Normalized() Vec2 {
	l := math.Hypot(v.X, v.Y)
	if l < 1e-5 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Vec3 is a 3D vector. Glyph quads are planar, but Z is carried so that
// rotations around arbitrary axes (e.g. a flip around Y) stay well defined.
type Vec3 struct {
	X, Y, Z float64
}

// Vec3One is the identity scale.
var Vec3One = Vec3{1, 1, 1}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Lerp interpolates between v and to by t (unclamped).
func (v Vec3) Lerp(to Vec3, t float64) Vec3 {
	return Vec3{v.X + (to.X-v.X)*t, v.Y + (to.Y-v.Y)*t, v.Z + (to.Z-v.Z)*t}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// TextAlign controls horizontal text alignment within a TextBlock.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

// BlendMode selects the compositing operation used when drawing glyph quads.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over
	BlendAdd                     // additive, good for glowing text
	BlendErase                   // destination-out, punches text-shaped holes
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	default:
		return ebiten.BlendSourceOver
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// approx reports whether a and b are equal within a small tolerance.
func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
