package textfx

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- BitmapFont ---

// glyphMetrics is one char entry of a BMFont file.
type glyphMetrics struct {
	x, y          int
	width, height int
	xOffset       int
	yOffset       int
	xAdvance      int
}

const asciiGlyphCount = 128

// BitmapFont lays out text from a pre-rasterized BMFont atlas.
type BitmapFont struct {
	lineHeight float64
	base       float64
	atlas      *ebiten.Image

	ascii    [asciiGlyphCount]glyphMetrics
	asciiSet [asciiGlyphCount]bool
	ext      map[rune]*glyphMetrics

	kernings map[[2]rune]int
}

// LoadBitmapFont parses BMFont .fnt text-format data. Attach the atlas image
// with SetAtlas before drawing.
func LoadBitmapFont(fntData []byte) (*BitmapFont, error) {
	f := &BitmapFont{}
	chars := 0

	sc := bufio.NewScanner(bytes.NewReader(fntData))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			f.lineHeight = fieldFloat(fields, "lineHeight")
			f.base = fieldFloat(fields, "base")
		case "char":
			chars++
			id := rune(fieldInt(fields, "id"))
			g := glyphMetrics{
				x:        fieldInt(fields, "x"),
				y:        fieldInt(fields, "y"),
				width:    fieldInt(fields, "width"),
				height:   fieldInt(fields, "height"),
				xOffset:  fieldInt(fields, "xoffset"),
				yOffset:  fieldInt(fields, "yoffset"),
				xAdvance: fieldInt(fields, "xadvance"),
			}
			f.setGlyph(id, g)
		case "kerning":
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]int)
			}
			pair := [2]rune{rune(fieldInt(fields, "first")), rune(fieldInt(fields, "second"))}
			f.kernings[pair] = fieldInt(fields, "amount")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("textfx: read .fnt data: %w", err)
	}
	if f.lineHeight == 0 {
		return nil, fmt.Errorf("textfx: .fnt data missing common lineHeight")
	}
	if chars == 0 {
		return nil, fmt.Errorf("textfx: .fnt data has no char definitions")
	}
	return f, nil
}

func (f *BitmapFont) setGlyph(r rune, g glyphMetrics) {
	if r >= 0 && r < asciiGlyphCount {
		f.ascii[r] = g
		f.asciiSet[r] = true
		return
	}
	if f.ext == nil {
		f.ext = make(map[rune]*glyphMetrics)
	}
	f.ext[r] = &g
}

// glyph returns the metrics of r, or nil when the font lacks it.
func (f *BitmapFont) glyph(r rune) *glyphMetrics {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.ascii[r]
		}
		return nil
	}
	return f.ext[r]
}

func (f *BitmapFont) kern(first, second rune) int {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

// SetAtlas attaches the atlas page the glyph rectangles refer to.
func (f *BitmapFont) SetAtlas(img *ebiten.Image) { f.atlas = img }

// Atlas returns the attached atlas page, or nil.
func (f *BitmapFont) Atlas() *ebiten.Image { return f.atlas }

// LineHeight returns the vertical distance between baselines.
func (f *BitmapFont) LineHeight() float64 { return f.lineHeight }

// Base returns the distance from the top of a line to the baseline.
func (f *BitmapFont) Base() float64 { return f.base }

// MeasureString returns the size of s laid out without wrapping.
func (f *BitmapFont) MeasureString(s string) (width, height float64) {
	lines := 1
	var cursor, widest float64
	var prev rune
	hasPrev := false
	for _, r := range s {
		if r == '\n' {
			widest = max(widest, cursor)
			cursor = 0
			lines++
			hasPrev = false
			continue
		}
		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			cursor += float64(f.kern(prev, r))
		}
		cursor += float64(g.xAdvance)
		prev, hasPrev = r, true
	}
	return max(widest, cursor), float64(lines) * f.lineHeight
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	tag, rest, _ := strings.Cut(line, " ")
	return tag, rest
}

// parseFields parses "key=value key=value ..." into a map. Quoted values are
// unquoted.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func fieldInt(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

func fieldFloat(fields map[string]string, key string) float64 {
	v, _ := strconv.ParseFloat(fields[key], 64)
	return v
}

// --- TextBlock ---

// Glyph is the layout of one rune of a TextBlock. Invisible glyphs (spaces,
// line breaks, runes missing from the font) have QuadIndex -1; visible ones
// are numbered in reading order and carry their quad in block space.
type Glyph struct {
	Rune      rune
	CharIndex int
	QuadIndex int
	Line      int
	Visible   bool
	Quad      Quad
	// Src is the glyph rectangle in the font atlas.
	SrcX, SrcY, SrcW, SrcH float32
}

// TextBlock holds text content, formatting and the cached glyph layout. The
// layout origin is the top-left corner of the first line; Y grows downward.
type TextBlock struct {
	Content    string
	Font       *BitmapFont
	Align      TextAlign
	WrapWidth  float64
	Color      Color
	LineHeight float64 // override; 0 = use Font.LineHeight()

	layoutKey  textLayoutKey
	glyphs     []Glyph
	quadCount  int
	lineWidths []float64
	measuredW  float64
	measuredH  float64
}

// textLayoutKey captures every input of the layout; a change invalidates it.
type textLayoutKey struct {
	content    string
	font       *BitmapFont
	align      TextAlign
	wrap       float64
	color      Color
	lineHeight float64
	valid      bool
}

// NewTextBlock returns a white, left aligned block.
func NewTextBlock(content string, font *BitmapFont) *TextBlock {
	return &TextBlock{Content: content, Font: font, Color: ColorWhite}
}

func (tb *TextBlock) lineHeight() float64 {
	if tb.LineHeight > 0 {
		return tb.LineHeight
	}
	if tb.Font != nil {
		return tb.Font.LineHeight()
	}
	return 0
}

// Glyphs returns the layout of every rune of Content, recomputing it when
// any input changed. The slice is owned by the block.
func (tb *TextBlock) Glyphs() []Glyph {
	key := textLayoutKey{
		content:    tb.Content,
		font:       tb.Font,
		align:      tb.Align,
		wrap:       tb.WrapWidth,
		color:      tb.Color,
		lineHeight: tb.LineHeight,
		valid:      true,
	}
	if key != tb.layoutKey {
		tb.layoutKey = key
		tb.layout()
	}
	return tb.glyphs
}

// QuadCount returns the number of visible glyphs.
func (tb *TextBlock) QuadCount() int {
	tb.Glyphs()
	return tb.quadCount
}

// Measure returns the laid out width and height.
func (tb *TextBlock) Measure() (width, height float64) {
	tb.Glyphs()
	return tb.measuredW, tb.measuredH
}

// Quads appends the quads of all visible glyphs to dst in quad index order.
func (tb *TextBlock) Quads(dst []Quad) []Quad {
	for _, g := range tb.Glyphs() {
		if g.Visible {
			dst = append(dst, g.Quad)
		}
	}
	return dst
}

// Invalidate forces the next Glyphs call to lay out again.
func (tb *TextBlock) Invalidate() { tb.layoutKey = textLayoutKey{} }

// layout places every rune with greedy word wrapping: a word that would
// cross WrapWidth moves to the next line unless it starts the line.
func (tb *TextBlock) layout() {
	tb.glyphs = tb.glyphs[:0]
	tb.lineWidths = tb.lineWidths[:0]
	tb.quadCount = 0
	tb.measuredW, tb.measuredH = 0, 0

	f := tb.Font
	if f == nil {
		return
	}
	lh := tb.lineHeight()

	var cursor, ink float64 // pen position and right edge of the last visible glyph
	line := 0
	wordFirst, wordX, wordInk := 0, 0.0, 0.0
	var prev rune
	hasPrev := false

	endLine := func() {
		tb.lineWidths = append(tb.lineWidths, ink)
		line++
		cursor, ink = 0, 0
		hasPrev = false
	}

	charIndex := 0
	for _, r := range tb.Content {
		ci := charIndex
		charIndex++

		if r == '\n' {
			tb.glyphs = append(tb.glyphs, Glyph{Rune: r, CharIndex: ci, QuadIndex: -1, Line: line})
			endLine()
			wordFirst, wordX, wordInk = len(tb.glyphs), 0, 0
			continue
		}

		g := f.glyph(r)
		if g == nil {
			tb.glyphs = append(tb.glyphs, Glyph{Rune: r, CharIndex: ci, QuadIndex: -1, Line: line})
			hasPrev = false
			continue
		}

		kern := 0.0
		if hasPrev {
			kern = float64(f.kern(prev, r))
		}
		advance := float64(g.xAdvance) + kern

		if unicode.IsSpace(r) {
			tb.glyphs = append(tb.glyphs, Glyph{Rune: r, CharIndex: ci, QuadIndex: -1, Line: line})
			cursor += advance
			wordFirst, wordX, wordInk = len(tb.glyphs), cursor, ink
			prev, hasPrev = r, true
			continue
		}

		if tb.WrapWidth > 0 && cursor+advance > tb.WrapWidth && wordX > 0 {
			// Move the current word to a new line.
			tb.lineWidths = append(tb.lineWidths, wordInk)
			line++
			for i := wordFirst; i < len(tb.glyphs); i++ {
				gl := &tb.glyphs[i]
				gl.Line = line
				for c := range gl.Quad.Positions {
					gl.Quad.Positions[c].X -= wordX
					gl.Quad.Positions[c].Y += lh
				}
			}
			cursor -= wordX
			ink = max(0, ink-wordX)
			wordX, wordInk = 0, 0
		}

		x := cursor + kern + float64(g.xOffset)
		y := float64(line)*lh + float64(g.yOffset)
		w, h := float64(g.width), float64(g.height)

		gl := Glyph{Rune: r, CharIndex: ci, QuadIndex: -1, Line: line}
		if w > 0 && h > 0 {
			gl.Visible = true
			gl.Quad = Quad{
				Positions: [4]Vec3{
					BottomLeft:  {x, y + h, 0},
					TopLeft:     {x, y, 0},
					TopRight:    {x + w, y, 0},
					BottomRight: {x + w, y + h, 0},
				},
				Colors: [4]Color{tb.Color, tb.Color, tb.Color, tb.Color},
			}
			gl.SrcX, gl.SrcY = float32(g.x), float32(g.y)
			gl.SrcW, gl.SrcH = float32(g.width), float32(g.height)
			ink = max(ink, x+w)
		}
		tb.glyphs = append(tb.glyphs, gl)
		cursor += advance
		ink = max(ink, cursor)
		prev, hasPrev = r, true
	}
	tb.lineWidths = append(tb.lineWidths, ink)

	for _, w := range tb.lineWidths {
		tb.measuredW = max(tb.measuredW, w)
	}
	tb.measuredH = float64(len(tb.lineWidths)) * lh

	alignW := tb.measuredW
	if tb.WrapWidth > 0 {
		alignW = tb.WrapWidth
	}
	for i := range tb.glyphs {
		gl := &tb.glyphs[i]
		if gl.Visible {
			gl.QuadIndex = tb.quadCount
			tb.quadCount++
		}
		var dx float64
		switch tb.Align {
		case TextAlignCenter:
			dx = (alignW - tb.lineWidths[gl.Line]) / 2
		case TextAlignRight:
			dx = alignW - tb.lineWidths[gl.Line]
		}
		if dx != 0 {
			for c := range gl.Quad.Positions {
				gl.Quad.Positions[c].X += dx
			}
		}
	}
}

// runeCount is the number of runes of s, the length of the rendered char
// index space.
func runeCount(s string) int { return utf8.RuneCountInString(s) }
