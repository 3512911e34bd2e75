package textfx

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// maxBatchQuads keeps a batch within the uint16 index range of DrawTriangles.
const maxBatchQuads = 65535 / 4

// DrawOptions controls how Animator.Draw submits glyph quads.
type DrawOptions struct {
	// GeoM positions the text block on dst.
	GeoM      ebiten.GeoM
	BlendMode BlendMode
	Filter    ebiten.Filter
}

// geoMToAffine extracts the affine matrix of g in [a, b, c, d, tx, ty] order.
func geoMToAffine(g ebiten.GeoM) [6]float64 {
	return [6]float64{
		g.Element(0, 0), g.Element(1, 0),
		g.Element(0, 1), g.Element(1, 1),
		g.Element(0, 2), g.Element(1, 2),
	}
}

// AppendQuadVertices appends the four vertices and six indices of q to verts
// and indices. src is the atlas rectangle {x, y, w, h}. Positions go through
// the affine transform [a, b, c, d, tx, ty]; colors are multiplied by tint
// and premultiplied.
func AppendQuadVertices(verts []ebiten.Vertex, indices []uint16, q *Quad, src [4]float32, transform [6]float64, tint Color) ([]ebiten.Vertex, []uint16) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	sx, sy, sw, sh := src[0], src[1], src[2], src[3]
	uv := [4][2]float32{
		BottomLeft:  {sx, sy + sh},
		TopLeft:     {sx, sy},
		TopRight:    {sx + sw, sy},
		BottomRight: {sx + sw, sy + sh},
	}

	base := uint16(len(verts))
	for i := range q.Positions {
		p := q.Positions[i]
		col := q.Colors[i]
		alpha := float32(clamp01(col.A * tint.A))
		verts = append(verts, ebiten.Vertex{
			DstX:   float32(a*p.X + c*p.Y + tx),
			DstY:   float32(b*p.X + d*p.Y + ty),
			SrcX:   uv[i][0],
			SrcY:   uv[i][1],
			ColorR: float32(clamp01(col.R*tint.R)) * alpha,
			ColorG: float32(clamp01(col.G*tint.G)) * alpha,
			ColorB: float32(clamp01(col.B*tint.B)) * alpha,
			ColorA: alpha,
		})
	}
	indices = append(indices,
		base+uint16(BottomLeft), base+uint16(TopLeft), base+uint16(TopRight),
		base+uint16(BottomLeft), base+uint16(TopRight), base+uint16(BottomRight),
	)
	return verts, indices
}

// AppendVertices appends the animated quads of the last Update as triangles.
func (a *Animator) AppendVertices(verts []ebiten.Vertex, indices []uint16, transform [6]float64) ([]ebiten.Vertex, []uint16) {
	for i := range a.quads {
		if i >= len(a.quadSrc) {
			break
		}
		verts, indices = AppendQuadVertices(verts, indices, &a.quads[i], a.quadSrc[i], transform, a.Tint)
	}
	return verts, indices
}

// Draw renders the animated glyphs onto dst using the font atlas. It draws
// nothing while the animator is hidden or before the first Update.
func (a *Animator) Draw(dst *ebiten.Image, opts *DrawOptions) {
	if !a.visible || a.disposed || a.Text.Font == nil {
		return
	}
	atlas := a.Text.Font.Atlas()
	if atlas == nil || len(a.quads) == 0 {
		return
	}
	var o DrawOptions
	if opts != nil {
		o = *opts
	}
	transform := geoMToAffine(o.GeoM)
	tri := &ebiten.DrawTrianglesOptions{
		Blend:  o.BlendMode.EbitenBlend(),
		Filter: o.Filter,
	}

	for start := 0; start < len(a.quads); start += maxBatchQuads {
		end := min(start+maxBatchQuads, len(a.quads), len(a.quadSrc))
		a.verts, a.indices = a.verts[:0], a.indices[:0]
		for i := start; i < end; i++ {
			a.verts, a.indices = AppendQuadVertices(a.verts, a.indices, &a.quads[i], a.quadSrc[i], transform, a.Tint)
		}
		if len(a.indices) > 0 {
			dst.DrawTriangles(a.verts, a.indices, atlas, tri)
		}
	}
}

// QuadBounds returns the axis-aligned bounds of the animated quads in block
// space.
func (a *Animator) QuadBounds() Rect {
	if len(a.quads) == 0 {
		return Rect{}
	}
	r := a.quads[0].Bounds()
	minX, minY, maxX, maxY := r.X, r.Y, r.X+r.Width, r.Y+r.Height
	for i := 1; i < len(a.quads); i++ {
		b := a.quads[i].Bounds()
		minX = min(minX, b.X)
		minY = min(minY, b.Y)
		maxX = max(maxX, b.X+b.Width)
		maxY = max(maxY, b.Y+b.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
