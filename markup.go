package textfx

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TagInfo describes one <link> tag of the markup. IDs lists the animation
// ids of its anim attribute; a link without anim has no ids but still takes
// a slot so that tag positions stay stable. FirstChar and Length are rune
// offsets into the rendered text. Quads holds the quad indices of the
// visible glyphs inside the tag once resolved against a layout.
type TagInfo struct {
	IDs       []string
	FirstChar int
	Length    int
	Quads     []int
}

// DelayTag is an author-inserted pause: glyphs at or after QuadIndex start
// Delay seconds later in a typewriter reveal.
type DelayTag struct {
	CharIndex int
	QuadIndex int
	Delay     float64
}

// Markup is the result of parsing annotated text.
type Markup struct {
	Source string
	// Text is the rendered text with animation and delay tags removed.
	Text   string
	Tags   []TagInfo
	Delays []DelayTag
}

var (
	// Matches <link anim="a,b">, <link anim='a'> and plain <link ...>.
	linkOpenPattern = regexp.MustCompile(`<link( .*?anim=['"]([^"']*)['"][^>]*|[^>]*)>`)
	// Matches </noparse delay="0.5"> and </noparse delay='0.5'>.
	delayPattern = regexp.MustCompile(`</noparse( .*?delay=['"]([^"']*)['"][^>]*|[^>]*)>`)
	// Every tag the parser strips from the rendered text.
	strippedTagPattern = regexp.MustCompile(`</?link\b[^>]*>|</?noparse\b[^>]*>`)
)

// ParseMarkup strips link and delay tags from src and records which
// rendered characters each tag covers.
//
//	<link anim="wave,rainbow">Hello</link> world</noparse delay="0.5">!
//
// Malformed markup degrades instead of failing: a link that is opened again
// before it closes, or a close without an open, is dropped and a warning is
// logged.
func ParseMarkup(src string) Markup {
	m := Markup{Source: src}

	var sb strings.Builder
	sb.Grow(len(src))

	rendered := 0 // runes written to sb
	last := 0
	open := -1 // index into m.Tags of the unclosed link
	opens, closes, dropped := 0, 0, 0

	for _, loc := range strippedTagPattern.FindAllStringIndex(src, -1) {
		chunk := src[last:loc[0]]
		sb.WriteString(chunk)
		rendered += utf8.RuneCountInString(chunk)
		last = loc[1]

		tag := src[loc[0]:loc[1]]
		switch {
		case strings.HasPrefix(tag, "</link"):
			closes++
			if open < 0 {
				dropped++
				continue
			}
			m.Tags[open].Length = rendered - m.Tags[open].FirstChar
			open = -1

		case strings.HasPrefix(tag, "<link"):
			opens++
			if open >= 0 {
				// The previous link never closed.
				m.Tags = append(m.Tags[:open], m.Tags[open+1:]...)
				dropped++
			}
			m.Tags = append(m.Tags, TagInfo{IDs: linkIDs(tag), FirstChar: rendered})
			open = len(m.Tags) - 1

		case strings.HasPrefix(tag, "</noparse"):
			sub := delayPattern.FindStringSubmatch(tag)
			if len(sub) < 3 || sub[2] == "" {
				continue
			}
			d, err := strconv.ParseFloat(strings.TrimSpace(sub[2]), 64)
			if err != nil {
				log.Printf("textfx: invalid delay %q in markup", sub[2])
				continue
			}
			m.Delays = append(m.Delays, DelayTag{CharIndex: rendered, QuadIndex: -1, Delay: d})
		}
	}
	sb.WriteString(src[last:])
	m.Text = sb.String()

	if open >= 0 {
		m.Tags = append(m.Tags[:open], m.Tags[open+1:]...)
		dropped++
	}
	if dropped > 0 || opens != closes {
		log.Printf("textfx: link tag mismatch (%d open, %d close), animating %d", opens, closes, len(m.Tags))
	}
	return m
}

// linkIDs extracts the comma separated ids of a link tag's anim attribute.
func linkIDs(tag string) []string {
	sub := linkOpenPattern.FindStringSubmatch(tag)
	if len(sub) < 3 || sub[2] == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(sub[2], ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Resolve maps the character ranges of tags and delays to quad indices of
// the given layout.
func (m *Markup) Resolve(glyphs []Glyph) {
	for i := range m.Tags {
		tag := &m.Tags[i]
		tag.Quads = tag.Quads[:0]
		end := tag.FirstChar + tag.Length
		for _, g := range glyphs {
			if g.CharIndex >= tag.FirstChar && g.CharIndex < end && g.Visible {
				tag.Quads = append(tag.Quads, g.QuadIndex)
			}
		}
	}
	for i := range m.Delays {
		m.Delays[i].QuadIndex = quadIndexAt(glyphs, m.Delays[i].CharIndex)
	}
}

// quadIndexAt returns the quad index of the first visible glyph at or after
// char, or the quad count when there is none.
func quadIndexAt(glyphs []Glyph, char int) int {
	count := 0
	for _, g := range glyphs {
		if !g.Visible {
			continue
		}
		if g.CharIndex >= char {
			return g.QuadIndex
		}
		count++
	}
	return count
}

// TagIDs returns the ids of all tags in order, flattened.
func (m *Markup) TagIDs() []string {
	var ids []string
	for _, t := range m.Tags {
		ids = append(ids, t.IDs...)
	}
	return ids
}
