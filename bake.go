package textfx

import (
	"fmt"
	"image"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultBakeRunes is the printable ASCII range.
const DefaultBakeRunes = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

const bakePadding = 1

// BakeBitmapFont rasterizes runes from face into a white atlas and returns a
// BitmapFont whose glyph rectangles point into it. Glyphs are packed in rows
// no wider than atlasWidth (256 when <= 0). Attach the atlas with
//
//	font.SetAtlas(ebiten.NewImageFromImage(atlas))
//
// Runes the face lacks are skipped.
func BakeBitmapFont(face font.Face, runes string, atlasWidth int) (*BitmapFont, *image.RGBA, error) {
	if face == nil {
		return nil, nil, fmt.Errorf("textfx: bake font: nil face")
	}
	if runes == "" {
		runes = DefaultBakeRunes
	}
	if atlasWidth <= 0 {
		atlasWidth = 256
	}

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	f := &BitmapFont{
		lineHeight: float64(m.Height.Ceil()),
		base:       float64(ascent),
	}

	type placed struct {
		r      rune
		g      glyphMetrics
		minX   int
		minY   int
		hasInk bool
	}
	var glyphs []placed
	seen := make(map[rune]bool)
	x, y, rowH := bakePadding, bakePadding, 0
	for _, r := range runes {
		if seen[r] {
			continue
		}
		seen[r] = true
		bounds, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
		w, h := bounds.Max.X.Ceil()-minX, bounds.Max.Y.Ceil()-minY
		p := placed{r: r, minX: minX, minY: minY, hasInk: w > 0 && h > 0 && !unicode.IsSpace(r)}
		p.g = glyphMetrics{xOffset: minX, yOffset: ascent + minY, xAdvance: adv.Round()}
		if p.hasInk {
			if w+2*bakePadding > atlasWidth {
				return nil, nil, fmt.Errorf("textfx: bake font: glyph %q is wider than the %dpx atlas", r, atlasWidth)
			}
			if x+w+bakePadding > atlasWidth {
				x, y = bakePadding, y+rowH+bakePadding
				rowH = 0
			}
			p.g.x, p.g.y, p.g.width, p.g.height = x, y, w, h
			x += w + bakePadding
			rowH = max(rowH, h)
		}
		glyphs = append(glyphs, p)
	}
	if len(glyphs) == 0 {
		return nil, nil, fmt.Errorf("textfx: bake font: face has none of the requested runes")
	}

	atlas := image.NewRGBA(image.Rect(0, 0, atlasWidth, y+rowH+bakePadding))
	d := font.Drawer{Dst: atlas, Src: image.White, Face: face}
	for _, p := range glyphs {
		f.setGlyph(p.r, p.g)
		if !p.hasInk {
			continue
		}
		d.Dot = fixed.P(p.g.x-p.minX, p.g.y-p.minY)
		d.DrawString(string(p.r))
	}

	for _, a := range glyphs {
		for _, b := range glyphs {
			if k := face.Kern(a.r, b.r).Round(); k != 0 {
				if f.kernings == nil {
					f.kernings = make(map[[2]rune]int)
				}
				f.kernings[[2]rune{a.r, b.r}] = k
			}
		}
	}
	return f, atlas, nil
}
