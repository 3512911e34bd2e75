package textfx

import (
	"math"
	"testing"
)

// flatCurve returns a curve that evaluates to v everywhere in [0, 1].
func flatCurve(v float64) *Curve {
	return NewCurve(Keyframe{Time: 0, Value: v}, Keyframe{Time: 1, Value: v})
}

func TestCharacterColor_PerCorner(t *testing.T) {
	red := Color{1, 0, 0, 1}
	m := NewCharacterColor()
	m.TopLeft = red

	q := unitQuad(0, 0)
	if !m.UpdateCharacter(&CharacterFrame{}, &q) {
		t.Error("color module should keep playing")
	}
	if !colorNear(q.Colors[TopLeft], red) {
		t.Errorf("TL = %+v, want red", q.Colors[TopLeft])
	}
	for _, c := range []Corner{BottomLeft, TopRight, BottomRight} {
		if !colorNear(q.Colors[c], ColorWhite) {
			t.Errorf("corner %d = %+v, want white", c, q.Colors[c])
		}
	}
}

func TestCharacterColor_CornerWeight(t *testing.T) {
	m := NewCharacterColor()
	m.BottomLeft, m.TopLeft, m.TopRight, m.BottomRight = Color{}, Color{}, Color{}, Color{}
	m.Corners = Corners{TopLeft: 0.5}

	q := unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{}, &q)
	if want := (Color{0.5, 0.5, 0.5, 1}); !colorNear(q.Colors[TopLeft], want) {
		t.Errorf("TL = %+v, want %+v", q.Colors[TopLeft], want)
	}
	if !colorNear(q.Colors[BottomRight], ColorWhite) {
		t.Errorf("BR changed with zero weight: %+v", q.Colors[BottomRight])
	}
}

func TestCharacterGradient_SingleColor(t *testing.T) {
	red := Color{1, 0, 0, 1}
	m := NewCharacterGradient()
	m.Gradient = NewGradient(red, red)
	m.SingleColorPerCharacter = true

	q := unitQuad(40, 0)
	m.UpdateCharacter(&CharacterFrame{CharIndex: 3, Time: 1.7}, &q)
	for i, c := range q.Colors {
		if !colorNear(c, red) {
			t.Errorf("corner %d = %+v, want red", i, c)
		}
	}
}

func TestCharacterRainbow_HueFromTime(t *testing.T) {
	m := NewCharacterRainbow()
	m.SingleColorPerCharacter = true

	q := unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{CharIndex: 0, Time: 0}, &q)
	for i, c := range q.Colors {
		if !colorNear(c, Color{1, 0, 0, 1}) {
			t.Errorf("corner %d = %+v, want red at hue 0", i, c)
		}
	}

	// A third of a turn later the glyph is green.
	q = unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{CharIndex: 0, Time: 1.0 / 3}, &q)
	if !colorNear(q.Colors[TopLeft], Color{0, 1, 0, 1}) {
		t.Errorf("TL = %+v, want green", q.Colors[TopLeft])
	}
}

func TestCharacterRotate_Curve(t *testing.T) {
	m := NewCharacterRotate()
	m.UseSinus = false
	m.Curve = flatCurve(0.5)

	q := unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{Time: 0.3}, &q)
	// 0.5 * 180 degrees = a quarter turn around the glyph center.
	if !vecNear(q.Positions[TopLeft], Vec3{10, 0, 0}) {
		t.Errorf("TL = %+v, want (10,0,0)", q.Positions[TopLeft])
	}
	if !vecNear(QuadCenter(&q), Vec3{5, 5, 0}) {
		t.Errorf("center moved to %+v", QuadCenter(&q))
	}
}

func TestCharacterScale_Curve(t *testing.T) {
	m := NewCharacterScale()
	m.UseSinus = false
	m.Invert = false
	m.Curve = flatCurve(0.5)
	m.ScaleMin = Vec3One
	m.ScaleMax = Vec3{3, 3, 1}

	q := unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{Time: 2}, &q)
	if !vecNear(q.Positions[TopLeft], Vec3{-5, -5, 0}) {
		t.Errorf("TL = %+v, want (-5,-5,0)", q.Positions[TopLeft])
	}
	if !vecNear(q.Positions[BottomRight], Vec3{15, 15, 0}) {
		t.Errorf("BR = %+v, want (15,15,0)", q.Positions[BottomRight])
	}
}

func TestCharacterTranslate_PositiveYMovesUp(t *testing.T) {
	m := NewCharacterTranslate()
	m.Amplitude = Vec2{}
	m.Offset = Vec2{2, 5}

	q := unitQuad(0, 0)
	m.UpdateCharacter(&CharacterFrame{Time: 1}, &q)
	if !vecNear(q.Positions[TopLeft], Vec3{2, -5, 0}) {
		t.Errorf("TL = %+v, want (2,-5,0)", q.Positions[TopLeft])
	}
}

func TestCharacterTranslate_Sinus(t *testing.T) {
	m := NewCharacterTranslate()
	m.Offset = Vec2{}

	for _, tc := range []struct {
		char int
		time float64
	}{{0, 0}, {0, 0.4}, {3, 1.2}} {
		q := unitQuad(0, 0)
		m.UpdateCharacter(&CharacterFrame{CharIndex: tc.char, Time: tc.time}, &q)
		v := math.Sin(tc.time + stagger(float64(tc.char), 1, 1))
		want := -v * 10
		if math.Abs(q.Positions[TopLeft].Y-want) > 1e-6 {
			t.Errorf("char %d at %v: y = %v, want %v", tc.char, tc.time, q.Positions[TopLeft].Y, want)
		}
	}
}

func TestCharacterShake_SteppedDeterminism(t *testing.T) {
	m := NewCharacterShake()
	m.Speed = 1
	seeds := NewRandomSource(42)

	shake := func(unscaled float64, frame uint64) Vec3 {
		q := unitQuad(0, 0)
		m.UpdateCharacter(&CharacterFrame{UnscaledTime: unscaled, Speed: 1, Frame: frame, Random: seeds}, &q)
		return q.Positions[TopLeft]
	}

	first := shake(0, 1)
	second := shake(0, 1) // next glyph, same frame
	if vecNear(first, second) {
		t.Error("consecutive glyphs in a frame should draw different offsets")
	}
	if replay := shake(0.5, 2); !vecNear(replay, first) {
		t.Errorf("new frame inside the window = %+v, want replay %+v", replay, first)
	}
	if next := shake(1.5, 3); vecNear(next, first) {
		t.Error("expected a new draw once the window elapsed")
	}

	if math.Abs(first.X) > m.MaxDisplacement.X+1e-9 || math.Abs(first.Y) > m.MaxDisplacement.Y+1e-9 {
		t.Errorf("displacement %+v exceeds %+v", first, m.MaxDisplacement)
	}
}

func TestCharacterSketchy_ZeroRangesAreIdentity(t *testing.T) {
	m := NewCharacterSketchy()
	m.MaxScaleDifference = Vec2{}
	m.MaxRotation = 0

	q := unitQuad(3, 4)
	orig := q
	m.UpdateCharacter(&CharacterFrame{Speed: 1, Frame: 1, Random: NewRandomSource(1)}, &q)
	for i := range q.Positions {
		if !vecNear(q.Positions[i], orig.Positions[i]) {
			t.Errorf("corner %d moved to %+v", i, q.Positions[i])
		}
	}
}

func TestCharacterModule_CopyClonesCurves(t *testing.T) {
	src := NewCharacterTranslate()
	src.SetName("wave")
	src.Amplitude = Vec2{1, 2}

	dst := NewCharacterTranslate()
	dst.CopyValuesFrom(src)
	if dst.Name() != "wave" || dst.Amplitude != src.Amplitude {
		t.Errorf("copy = %q %+v", dst.Name(), dst.Amplitude)
	}
	src.Curve.Keys[1].Value = 9
	if dst.Curve.Keys[1].Value == 9 {
		t.Error("copy shares its curve with the source")
	}

	g := NewCharacterGradient()
	gc := NewCharacterGradient()
	gc.CopyValuesFrom(g)
	if gc.Gradient == g.Gradient {
		t.Error("copy shares its gradient with the source")
	}
}

func TestCharacterShake_CopyKeepsRandomState(t *testing.T) {
	src := NewCharacterShake()
	q := unitQuad(0, 0)
	src.UpdateCharacter(&CharacterFrame{Speed: 1, Frame: 1, Random: NewRandomSource(3)}, &q)

	dst := NewCharacterShake()
	dst.CopyValuesFrom(src)
	if dst.rnd.seeded {
		t.Error("CopyValuesFrom copied the stepped random state")
	}
}

func TestCharacterModules_RandomizeStaysValid(t *testing.T) {
	rng := NewRandomSource(11)
	for _, k := range ModuleKinds() {
		if k.IsTypewriter() {
			continue
		}
		m := NewModule(k).(CharacterModule)
		m.Randomize(rng)
		q := unitQuad(0, 0)
		m.UpdateCharacter(&CharacterFrame{Time: 0.5, Speed: 1, Frame: 1, Random: rng}, &q)
		for i, p := range q.Positions {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
				t.Errorf("%v: corner %d is NaN after Randomize", k, i)
			}
		}
	}
}
