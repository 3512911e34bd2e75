package textfx

import (
	"slices"
	"testing"
)

func TestParseMarkup_Links(t *testing.T) {
	m := ParseMarkup(`<link anim="wave, rainbow">Hello</link> <link anim='tint'>world</link><link>!</link>`)
	if m.Text != "Hello world!" {
		t.Fatalf("Text = %q", m.Text)
	}
	want := []TagInfo{
		{IDs: []string{"wave", "rainbow"}, FirstChar: 0, Length: 5},
		{IDs: []string{"tint"}, FirstChar: 6, Length: 5},
		{IDs: nil, FirstChar: 11, Length: 1},
	}
	if len(m.Tags) != len(want) {
		t.Fatalf("Tags = %+v", m.Tags)
	}
	for i, w := range want {
		got := m.Tags[i]
		if !slices.Equal(got.IDs, w.IDs) || got.FirstChar != w.FirstChar || got.Length != w.Length {
			t.Errorf("tag %d = %+v, want %+v", i, got, w)
		}
	}
	if ids := m.TagIDs(); !slices.Equal(ids, []string{"wave", "rainbow", "tint"}) {
		t.Errorf("TagIDs = %v", ids)
	}
}

func TestParseMarkup_Delays(t *testing.T) {
	m := ParseMarkup(`ab</noparse delay="0.5">c</noparse delay='x'>d</noparse>e`)
	if m.Text != "abcde" {
		t.Fatalf("Text = %q", m.Text)
	}
	if len(m.Delays) != 1 {
		t.Fatalf("Delays = %+v, want one valid delay", m.Delays)
	}
	if d := m.Delays[0]; d.CharIndex != 2 || d.Delay != 0.5 || d.QuadIndex != -1 {
		t.Errorf("delay = %+v", d)
	}
}

func TestParseMarkup_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		text  string
		tags  int
		first int
	}{
		{"reopened link", `<link anim="a">x<link anim="b">y</link>`, "xy", 1, 1},
		{"unclosed link", `<link anim="a">xy`, "xy", 0, 0},
		{"close without open", `x</link>y`, "xy", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ParseMarkup(tt.src)
			if m.Text != tt.text || len(m.Tags) != tt.tags {
				t.Fatalf("Text %q tags %d, want %q and %d", m.Text, len(m.Tags), tt.text, tt.tags)
			}
			if tt.tags > 0 && m.Tags[0].FirstChar != tt.first {
				t.Errorf("FirstChar = %d, want %d", m.Tags[0].FirstChar, tt.first)
			}
		})
	}
}

func TestParseMarkup_RuneOffsets(t *testing.T) {
	m := ParseMarkup(`é<link anim="a">üß</link>`)
	if m.Tags[0].FirstChar != 1 || m.Tags[0].Length != 2 {
		t.Errorf("tag = %+v, want rune offsets 1 and 2", m.Tags[0])
	}
}

func TestParseMarkup_PlainText(t *testing.T) {
	m := ParseMarkup("a < b > c")
	if m.Text != "a < b > c" || len(m.Tags) != 0 {
		t.Errorf("Text %q tags %d", m.Text, len(m.Tags))
	}
}

func TestMarkup_Resolve(t *testing.T) {
	// "A B!" where the space and '!' render no quad.
	glyphs := []Glyph{
		{CharIndex: 0, QuadIndex: 0, Visible: true},
		{CharIndex: 1, QuadIndex: -1},
		{CharIndex: 2, QuadIndex: 1, Visible: true},
		{CharIndex: 3, QuadIndex: -1},
	}
	m := Markup{
		Tags:   []TagInfo{{IDs: []string{"a"}, FirstChar: 1, Length: 3}},
		Delays: []DelayTag{{CharIndex: 1}, {CharIndex: 3}},
	}
	m.Resolve(glyphs)

	if !slices.Equal(m.Tags[0].Quads, []int{1}) {
		t.Errorf("tag quads = %v, want [1]", m.Tags[0].Quads)
	}
	if m.Delays[0].QuadIndex != 1 {
		t.Errorf("delay before B maps to quad %d, want 1", m.Delays[0].QuadIndex)
	}
	if m.Delays[1].QuadIndex != 2 {
		t.Errorf("trailing delay maps to quad %d, want the quad count 2", m.Delays[1].QuadIndex)
	}
}

func TestMarkup_ResolveWithLayout(t *testing.T) {
	font := loadTestFont(t)
	m := ParseMarkup(`A <link anim="x">B C</link>`)
	tb := NewTextBlock(m.Text, font)
	m.Resolve(tb.Glyphs())
	if !slices.Equal(m.Tags[0].Quads, []int{1, 2}) {
		t.Errorf("tag quads = %v, want [1 2]", m.Tags[0].Quads)
	}
}
