package textfx

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Corner indexes the four vertices of a glyph quad.
type Corner uint8

const (
	BottomLeft Corner = iota
	TopLeft
	TopRight
	BottomRight
)

// Corners holds one weight per quad corner. A weight of 0 leaves the corner
// untouched, 1 applies the full effect, values outside [0, 1] overshoot.
type Corners struct {
	BottomLeft  float64 `yaml:"bottomLeft"`
	TopLeft     float64 `yaml:"topLeft"`
	TopRight    float64 `yaml:"topRight"`
	BottomRight float64 `yaml:"bottomRight"`
}

// AllCorners applies an effect fully to every corner.
var AllCorners = Corners{1, 1, 1, 1}

// Mul composes two weight sets corner by corner.
func (c Corners) Mul(o Corners) Corners {
	return Corners{
		BottomLeft:  c.BottomLeft * o.BottomLeft,
		TopLeft:     c.TopLeft * o.TopLeft,
		TopRight:    c.TopRight * o.TopRight,
		BottomRight: c.BottomRight * o.BottomRight,
	}
}

// At returns the weight of corner i.
func (c Corners) At(i Corner) float64 {
	switch i {
	case BottomLeft:
		return c.BottomLeft
	case TopLeft:
		return c.TopLeft
	case TopRight:
		return c.TopRight
	default:
		return c.BottomRight
	}
}

// Quad is the vertex data of one rendered glyph: four corner positions and
// four corner colors, indexed by Corner. Quads handed to modules are scratch
// values owned by the caller for the duration of one update.
type Quad struct {
	Positions [4]Vec3
	Colors    [4]Color
}

// SetAlpha overwrites the alpha of all four corners.
func (q *Quad) SetAlpha(a float64) {
	for i := range q.Colors {
		q.Colors[i].A = a
	}
}

// SetColor overwrites all four corner colors.
func (q *Quad) SetColor(c Color) {
	for i := range q.Colors {
		q.Colors[i] = c
	}
}

// Bounds returns the axis-aligned bounding box of the quad positions.
func (q *Quad) Bounds() Rect {
	minX, minY := q.Positions[0].X, q.Positions[0].Y
	maxX, maxY := minX, minY
	for _, p := range q.Positions[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// QuadCenter returns the midpoint between the bottom-left and top-right corners.
func QuadCenter(q *Quad) Vec3 {
	return q.Positions[BottomLeft].Add(q.Positions[TopRight]).Scale(0.5)
}

// QuadRelativeCenter returns a point relative to the quad. (0,0,0) is the
// center, (1,1) the bottom-right corner and (-1,-1) the top-left corner in the
// Y-down screen space glyphs are laid out in.
func QuadRelativeCenter(q *Quad, rel Vec3) Vec3 {
	center := q.Positions[BottomRight].Add(q.Positions[TopLeft]).Scale(0.5)
	half := q.Positions[BottomRight].Sub(center)
	return center.Add(half.Mul(rel))
}

// Translate adds delta scaled by each corner's weight to the corner positions.
func Translate(q *Quad, delta Vec3, corners Corners) {
	for i := range q.Positions {
		q.Positions[i] = q.Positions[i].Add(delta.Scale(corners.At(Corner(i))))
	}
}

// ScaleAround scales each corner around center. The per-corner factor is
// interpolated between 1 and factors by the corner's weight.
func ScaleAround(q *Quad, center, factors Vec3, corners Corners) {
	for i := range q.Positions {
		f := Vec3One.Lerp(factors, corners.At(Corner(i)))
		q.Positions[i] = center.Add(q.Positions[i].Sub(center).Mul(f))
	}
}

// RotateAround rotates each corner around center by euler angles in degrees.
// The per-corner rotation is the spherical interpolation between the identity
// and the full rotation by the corner's weight.
func RotateAround(q *Quad, center, euler Vec3, corners Corners) {
	if euler == (Vec3{}) {
		return
	}
	target := eulerToQuat(euler)
	ident := mgl64.QuatIdent()
	for i := range q.Positions {
		w := corners.At(Corner(i))
		if w == 0 {
			continue
		}
		rot := target
		if w != 1 {
			rot = mgl64.QuatSlerp(ident, target, w)
		}
		d := q.Positions[i].Sub(center)
		r := rot.Rotate(mgl64.Vec3{d.X, d.Y, d.Z})
		q.Positions[i] = center.Add(Vec3{r[0], r[1], r[2]})
	}
}

// eulerToQuat builds a rotation that applies Z, then X, then Y.
func eulerToQuat(euler Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(
		mgl64.DegToRad(euler.Y),
		mgl64.DegToRad(euler.X),
		mgl64.DegToRad(euler.Z),
		mgl64.YXZ,
	)
}

// LerpColor blends original towards target by lerp*weight.
//
// With setAlpha the blended alpha is multiplied onto the original alpha;
// without it the original alpha is kept. With alphaOnly the RGB channels of
// original pass through unchanged and only the alpha rule above applies.
func LerpColor(original, target Color, weight float64, setAlpha, alphaOnly bool, lerp float64) Color {
	blended := original.Lerp(target, lerp*weight)
	if setAlpha {
		blended.A = original.A * blended.A
	} else {
		blended.A = original.A
	}
	if alphaOnly {
		return original.WithAlpha(blended.A)
	}
	return blended
}

// QuadPool recycles scratch quads. Not safe for concurrent use; textfx is
// driven from the single game update goroutine.
type QuadPool struct {
	free []*Quad
}

// Acquire returns a zeroed quad.
func (p *QuadPool) Acquire() *Quad {
	if n := len(p.free); n > 0 {
		q := p.free[n-1]
		p.free = p.free[:n-1]
		return q
	}
	return &Quad{}
}

// Release zeroes q and returns it to the pool. q must not be used afterwards.
func (p *QuadPool) Release(q *Quad) {
	if q == nil {
		return
	}
	*q = Quad{}
	p.free = append(p.free, q)
}

// Len returns the number of pooled quads.
func (p *QuadPool) Len() int { return len(p.free) }
