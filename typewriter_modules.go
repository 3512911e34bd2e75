package textfx

import "math"

var (
	_ TypewriterModule = (*TypewriterColor)(nil)
	_ TypewriterModule = (*TypewriterRotate)(nil)
	_ TypewriterModule = (*TypewriterScale)(nil)
	_ TypewriterModule = (*TypewriterShake)(nil)
	_ TypewriterModule = (*TypewriterTranslate)(nil)
)

// fadeAlpha overwrites the quad alpha with the eased progress when enabled.
func fadeAlpha(q *Quad, enabled bool, easing Easing, curve *Curve, progress float64) {
	if !enabled {
		return
	}
	q.SetAlpha(clamp01(easing.Ease(progress, curve)))
}

// randomEasing picks one of the built-in easings, never EaseCustomCurve.
func randomEasing(rng *RandomSource) Easing {
	return Easing(rng.rng.IntN(int(EaseCustomCurve)))
}

// randomCenter returns a pivot suited to the absolute or relative center mode.
func randomCenter(rng *RandomSource, absolute bool) Vec3 {
	if absolute {
		return rng.Vec3(-100, 100)
	}
	return rng.Vec3(-3, 3)
}

// --- Color ---

// TypewriterColor fades each glyph in from StartColor.
type TypewriterColor struct {
	moduleBase `yaml:"-"`

	StartColor Color `yaml:"startColor"`
	// AlphaOnly fades the alpha and leaves RGB alone.
	AlphaOnly   bool    `yaml:"alphaOnly,omitempty"`
	ColorEasing Easing  `yaml:"colorEasing"`
	ColorCurve  *Curve  `yaml:"colorCurve,omitempty"`
	Corners     Corners `yaml:"corners"`
}

// NewTypewriterColor returns a typewriter color module with defaults applied.
func NewTypewriterColor() *TypewriterColor {
	m := &TypewriterColor{moduleBase: moduleBase{name: "Color"}}
	m.Reset()
	return m
}

func (m *TypewriterColor) Kind() ModuleKind { return ModuleTypewriterColor }

func (m *TypewriterColor) Reset() {
	m.StartColor = ColorTransparent
	m.AlphaOnly = false
	m.ColorEasing = EaseDefault
	m.ColorCurve = DefaultCurve01()
	m.Corners = AllCorners
}

func (m *TypewriterColor) CopyValuesFrom(src Module) {
	s, ok := src.(*TypewriterColor)
	if !ok {
		return
	}
	*m = *s
	m.ColorCurve = s.ColorCurve.Clone()
}

func (m *TypewriterColor) Randomize(rng *RandomSource) {
	m.StartColor = rng.Color(0, 1, true)
	m.AlphaOnly = rng.Bool()
	m.ColorEasing = randomEasing(rng)
	m.ColorCurve = rng.Curve(0, 1)
	m.Corners = rng.Corners(-1, 1)
}

func (m *TypewriterColor) UpdateCharacterNormalized(f *TypewriterFrame, q *Quad) {
	l := m.ColorEasing.Ease(f.Progress, m.ColorCurve)
	if m.AlphaOnly {
		q.SetAlpha(clamp01(l))
		return
	}
	for i := range q.Colors {
		w := m.Corners.At(Corner(i))
		q.Colors[i] = m.StartColor.Lerp(q.Colors[i], l+(1-l)*(1-w))
	}
}

// --- Rotate ---

// TypewriterRotate spins each glyph in from StartDelta degrees.
type TypewriterRotate struct {
	moduleBase `yaml:"-"`

	StartDelta     float64 `yaml:"startDelta"`
	Center         Vec3    `yaml:"center"`
	CenterAbsolute bool    `yaml:"centerAbsolute,omitempty"`
	RotationEasing Easing  `yaml:"rotationEasing"`
	RotationCurve  *Curve  `yaml:"rotationCurve,omitempty"`
	AlphaFade      bool    `yaml:"alphaFade"`
	AlphaEasing    Easing  `yaml:"alphaEasing"`
	AlphaCurve     *Curve  `yaml:"alphaCurve,omitempty"`
	Corners        Corners `yaml:"corners"`
	RotationAxis   Vec3    `yaml:"rotationAxis"`
}

// NewTypewriterRotate returns a typewriter rotate module with defaults applied.
func NewTypewriterRotate() *TypewriterRotate {
	m := &TypewriterRotate{moduleBase: moduleBase{name: "Rotate"}}
	m.Reset()
	return m
}

func (m *TypewriterRotate) Kind() ModuleKind { return ModuleTypewriterRotate }

func (m *TypewriterRotate) Reset() {
	m.StartDelta = -180
	m.Center = Vec3{}
	m.CenterAbsolute = false
	m.RotationEasing = EaseLinear
	m.RotationCurve = DefaultCurve01()
	m.AlphaFade = true
	m.AlphaEasing = EaseDefault
	m.AlphaCurve = DefaultCurve01()
	m.Corners = AllCorners
	m.RotationAxis = Vec3{0, 0, 1}
}

func (m *TypewriterRotate) CopyValuesFrom(src Module) {
	s, ok := src.(*TypewriterRotate)
	if !ok {
		return
	}
	*m = *s
	m.RotationCurve = s.RotationCurve.Clone()
	m.AlphaCurve = s.AlphaCurve.Clone()
}

func (m *TypewriterRotate) Randomize(rng *RandomSource) {
	m.StartDelta = rng.Range(-180, 180)
	m.CenterAbsolute = rng.Bool()
	m.Center = randomCenter(rng, m.CenterAbsolute)
	m.RotationEasing = randomEasing(rng)
	m.RotationCurve = rng.Curve(0, 1)
	m.AlphaFade = rng.Bool()
	m.AlphaEasing = randomEasing(rng)
	m.AlphaCurve = rng.Curve(0, 1)
	m.Corners = rng.Corners(-1, 1)
}

func (m *TypewriterRotate) UpdateCharacterNormalized(f *TypewriterFrame, q *Quad) {
	fadeAlpha(q, m.AlphaFade, m.AlphaEasing, m.AlphaCurve, f.Progress)
	l := m.RotationEasing.Ease(f.Progress, m.RotationCurve)
	RotateAround(q, pivot(q, m.Center, m.CenterAbsolute), m.RotationAxis.Scale(m.StartDelta*(1-l)), m.Corners)
}

// --- Scale ---

// TypewriterScale grows each glyph from StartScale to full size.
type TypewriterScale struct {
	moduleBase `yaml:"-"`

	StartScale     Vec3    `yaml:"startScale"`
	ScaleEasing    Easing  `yaml:"scaleEasing"`
	ScaleCurve     *Curve  `yaml:"scaleCurve,omitempty"`
	Center         Vec3    `yaml:"center"`
	CenterAbsolute bool    `yaml:"centerAbsolute,omitempty"`
	AlphaFade      bool    `yaml:"alphaFade"`
	AlphaEasing    Easing  `yaml:"alphaEasing"`
	AlphaCurve     *Curve  `yaml:"alphaCurve,omitempty"`
	Corners        Corners `yaml:"corners"`
}

// NewTypewriterScale returns a typewriter scale module with defaults applied.
func NewTypewriterScale() *TypewriterScale {
	m := &TypewriterScale{moduleBase: moduleBase{name: "Scale"}}
	m.Reset()
	return m
}

func (m *TypewriterScale) Kind() ModuleKind { return ModuleTypewriterScale }

func (m *TypewriterScale) Reset() {
	m.StartScale = Vec3{}
	m.ScaleEasing = EaseLinear
	m.ScaleCurve = DefaultCurve01()
	m.Center = Vec3{}
	m.CenterAbsolute = false
	m.AlphaFade = true
	m.AlphaEasing = EaseDefault
	m.AlphaCurve = DefaultCurve01()
	m.Corners = AllCorners
}

func (m *TypewriterScale) CopyValuesFrom(src Module) {
	s, ok := src.(*TypewriterScale)
	if !ok {
		return
	}
	*m = *s
	m.ScaleCurve = s.ScaleCurve.Clone()
	m.AlphaCurve = s.AlphaCurve.Clone()
}

func (m *TypewriterScale) Randomize(rng *RandomSource) {
	m.StartScale = Vec3{rng.Range(0, 1.5), rng.Range(0, 1.5), 1}
	m.CenterAbsolute = rng.Bool()
	m.Center = randomCenter(rng, m.CenterAbsolute)
	m.ScaleEasing = randomEasing(rng)
	m.ScaleCurve = rng.Curve(0, 1)
	m.AlphaFade = rng.Bool()
	m.AlphaEasing = randomEasing(rng)
	m.AlphaCurve = rng.Curve(0, 1)
	m.Corners = rng.Corners(-1, 1)
}

func (m *TypewriterScale) UpdateCharacterNormalized(f *TypewriterFrame, q *Quad) {
	fadeAlpha(q, m.AlphaFade, m.AlphaEasing, m.AlphaCurve, f.Progress)
	l := m.ScaleEasing.Ease(f.Progress, m.ScaleCurve)
	ScaleAround(q, pivot(q, m.Center, m.CenterAbsolute), m.StartScale.Lerp(Vec3One, l), m.Corners)
}

// --- Shake ---

// TypewriterShake rattles each glyph into place. The shake dissipates as
// progress advances and jumps between StartFrequency discrete positions.
// Directions come from a fixed lookup table so every glyph shakes the same
// way each time the text is revealed.
type TypewriterShake struct {
	moduleBase `yaml:"-"`

	MaxDisplacement Vec3    `yaml:"maxDisplacement"`
	Offset          Vec2    `yaml:"offset"`
	StartFrequency  float64 `yaml:"startFrequency"`
	DissipationEase Easing  `yaml:"dissipationEasing"`
	// StepOffsetAndDisplacement dissipates in steps instead of smoothly.
	StepOffsetAndDisplacement bool    `yaml:"stepOffsetAndDisplacement"`
	AlphaFade                 bool    `yaml:"alphaFade"`
	AlphaEasing               Easing  `yaml:"alphaEasing"`
	AlphaCurve                *Curve  `yaml:"alphaCurve,omitempty"`
	Corners                   Corners `yaml:"corners"`
}

// NewTypewriterShake returns a typewriter shake module with defaults applied.
func NewTypewriterShake() *TypewriterShake {
	m := &TypewriterShake{moduleBase: moduleBase{name: "Shake"}}
	m.Reset()
	return m
}

func (m *TypewriterShake) Kind() ModuleKind { return ModuleTypewriterShake }

func (m *TypewriterShake) Reset() {
	m.MaxDisplacement = Vec3{0, -30, 0}
	m.Offset = Vec2{}
	m.StartFrequency = 10
	m.DissipationEase = EaseQuadOut
	m.StepOffsetAndDisplacement = true
	m.AlphaFade = true
	m.AlphaEasing = EaseDefault
	m.AlphaCurve = DefaultCurve01()
	m.Corners = AllCorners
}

func (m *TypewriterShake) CopyValuesFrom(src Module) {
	s, ok := src.(*TypewriterShake)
	if !ok {
		return
	}
	*m = *s
	m.AlphaCurve = s.AlphaCurve.Clone()
}

func (m *TypewriterShake) Randomize(rng *RandomSource) {
	m.MaxDisplacement = rng.Vec3(-30, 30)
	m.Offset = Vec2{rng.Range(-15, 15), rng.Range(-15, 15)}
	m.StartFrequency = rng.Range(0.2, 20)
	m.DissipationEase = randomEasing(rng)
	m.StepOffsetAndDisplacement = rng.Bool()
	m.AlphaFade = rng.Bool()
	m.AlphaEasing = randomEasing(rng)
	m.AlphaCurve = rng.Curve(0, 1)
	m.Corners = rng.Corners(-1, 1)
}

func (m *TypewriterShake) UpdateCharacterNormalized(f *TypewriterFrame, q *Quad) {
	fadeAlpha(q, m.AlphaFade, m.AlphaEasing, m.AlphaCurve, f.Progress)

	stepped := stairStep(f.Progress, m.StartFrequency, m.DissipationEase)
	ix := randomTableValue(float64(f.QuadIndex))*randomTableSize + stepped*randomTableSize
	iy := randomTableValue(float64(f.QuadIndex+1))*randomTableSize + stepped*randomTableSize

	dissipation := f.Progress
	if m.StepOffsetAndDisplacement {
		dissipation = stepped
	}
	offset := m.Offset.Lerp(Vec2{}, dissipation)
	maxDisp := Vec2{m.MaxDisplacement.X, m.MaxDisplacement.Y}.Lerp(Vec2{}, dissipation)

	dir := Vec2{randomTableValue(ix) - 0.5, randomTableValue(iy) - 0.5}.Normalized()
	dx := dir.X*maxDisp.X + offset.X
	dy := -(dir.Y * maxDisp.Y) - offset.Y
	Translate(q, Vec3{dx, dy, 0}, m.Corners)
}

// stairStep quantizes the eased progress into steps levels.
func stairStep(t, steps float64, easing Easing) float64 {
	if steps == 0 {
		return easing.Ease(t, nil)
	}
	return math.Round(easing.Ease(t, nil)*steps) / steps
}

// --- Translate ---

// TypewriterTranslate slides each glyph in from StartDelta.
type TypewriterTranslate struct {
	moduleBase `yaml:"-"`

	StartDelta Vec3 `yaml:"startDelta"`
	// StartDeltaInPixels treats StartDelta as a pixel offset. Otherwise it is
	// a quad-relative point (see QuadRelativeCenter).
	StartDeltaInPixels bool    `yaml:"startDeltaInPixels"`
	PositionEasing     Easing  `yaml:"positionEasing"`
	PositionCurve      *Curve  `yaml:"positionCurve,omitempty"`
	AlphaFade          bool    `yaml:"alphaFade"`
	AlphaEasing        Easing  `yaml:"alphaEasing"`
	AlphaCurve         *Curve  `yaml:"alphaCurve,omitempty"`
	Corners            Corners `yaml:"corners"`
}

// NewTypewriterTranslate returns a typewriter translate module with defaults applied.
func NewTypewriterTranslate() *TypewriterTranslate {
	m := &TypewriterTranslate{moduleBase: moduleBase{name: "Translate"}}
	m.Reset()
	return m
}

func (m *TypewriterTranslate) Kind() ModuleKind { return ModuleTypewriterTranslate }

func (m *TypewriterTranslate) Reset() {
	m.StartDelta = Vec3{0, -30, 0}
	m.StartDeltaInPixels = true
	m.PositionEasing = EaseLinear
	m.PositionCurve = DefaultCurve01()
	m.AlphaFade = true
	m.AlphaEasing = EaseDefault
	m.AlphaCurve = DefaultCurve01()
	m.Corners = AllCorners
}

func (m *TypewriterTranslate) CopyValuesFrom(src Module) {
	s, ok := src.(*TypewriterTranslate)
	if !ok {
		return
	}
	*m = *s
	m.PositionCurve = s.PositionCurve.Clone()
	m.AlphaCurve = s.AlphaCurve.Clone()
}

func (m *TypewriterTranslate) Randomize(rng *RandomSource) {
	m.StartDeltaInPixels = rng.Bool()
	mult := 1.0
	if m.StartDeltaInPixels {
		mult = 10
	}
	m.StartDelta = rng.Vec3(-2*mult, 2*mult)
	m.PositionEasing = randomEasing(rng)
	m.PositionCurve = rng.Curve(0, 1)
	m.AlphaFade = rng.Bool()
	m.AlphaEasing = randomEasing(rng)
	m.AlphaCurve = rng.Curve(0, 1)
	m.Corners = rng.Corners(-1, 1)
}

func (m *TypewriterTranslate) UpdateCharacterNormalized(f *TypewriterFrame, q *Quad) {
	fadeAlpha(q, m.AlphaFade, m.AlphaEasing, m.AlphaCurve, f.Progress)
	l := m.PositionEasing.Ease(f.Progress, m.PositionCurve)
	var delta Vec3
	if m.StartDeltaInPixels {
		delta = m.StartDelta.Scale(1 - l)
	} else {
		delta = QuadRelativeCenter(q, m.StartDelta).Sub(QuadCenter(q)).Scale(1 - l)
	}
	Translate(q, delta, m.Corners)
}
