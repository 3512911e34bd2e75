package textfx

import "strings"

var _ Animation = (*TypewriterAnimation)(nil)

// TextChange records a text replacement so that a typewriter can decide how
// to continue: appended or shortened text keeps the already revealed glyphs,
// unrelated text restarts the reveal.
type TextChange struct {
	Previous string
	Current  string
}

// Appended reports whether Current extends Previous.
func (c *TextChange) Appended() bool {
	return len(c.Current) > len(c.Previous) && strings.HasPrefix(c.Current, c.Previous)
}

// Shortened reports whether Current is a prefix of Previous.
func (c *TextChange) Shortened() bool {
	return strings.HasPrefix(c.Previous, c.Current)
}

// TypewriterAnimation reveals glyphs one after another. Quad i starts
// i*CharacterDelay seconds after the animation (plus Delay and any delay
// tags placed before it) and takes CharacterDuration seconds to complete.
type TypewriterAnimation struct {
	AnimationState

	// RestartOnNewText restarts the reveal when the text is replaced by
	// unrelated text.
	RestartOnNewText bool
	// InvertAnimation plays the reveal backwards, hiding the glyphs.
	InvertAnimation bool
	// InvertOrder reveals the last glyph first.
	InvertOrder bool
	Delay       float64
	// Speed scales the reveal time. A Speed <= 0 freezes the reveal.
	Speed             float64
	CharacterDelay    float64
	CharacterDuration float64

	modules        []Module
	completedQuads int
}

// NewTypewriterAnimation returns a typewriter with default timing: no delay,
// speed 1, 0.02s between glyphs and 0.3s per glyph.
func NewTypewriterAnimation(id string, modules ...TypewriterModule) *TypewriterAnimation {
	a := &TypewriterAnimation{AnimationState: newAnimationState(id)}
	a.setDefaults()
	for _, m := range modules {
		a.modules = append(a.modules, m)
	}
	return a
}

func (a *TypewriterAnimation) setDefaults() {
	a.RestartOnNewText = true
	a.InvertAnimation = false
	a.InvertOrder = false
	a.Delay = 0
	a.Speed = 1
	a.CharacterDelay = 0.02
	a.CharacterDuration = 0.3
}

func (a *TypewriterAnimation) Kind() AnimationKind { return AnimationTypewriter }
func (a *TypewriterAnimation) Modules() []Module  { return a.modules }

// ClassName returns the class that attaches this typewriter to a text block.
func (a *TypewriterAnimation) ClassName() string {
	return TypewriterClassPrefix + a.ID()
}

// AddModule appends m and marks the animation as changed.
func (a *TypewriterAnimation) AddModule(m TypewriterModule) {
	a.modules = append(a.modules, m)
	a.MarkAsChanged()
}

// RemoveModuleAt removes the module at i and marks the animation as changed.
func (a *TypewriterAnimation) RemoveModuleAt(i int) {
	if i < 0 || i >= len(a.modules) {
		return
	}
	a.modules = append(a.modules[:i], a.modules[i+1:]...)
	a.MarkAsChanged()
}

// Module returns the index-th module named name, or nil.
func (a *TypewriterAnimation) Module(name string, index int) TypewriterModule {
	m, _ := moduleByName(a.modules, name, index).(TypewriterModule)
	return m
}

// TotalDuration returns the time needed to reveal quads glyphs, ignoring
// Delay, Speed and delay tags.
func (a *TypewriterAnimation) TotalDuration(quads int) float64 {
	return float64(quads-1)*a.CharacterDelay + a.CharacterDuration
}

func (a *TypewriterAnimation) Copy() Animation {
	c := &TypewriterAnimation{AnimationState: newAnimationState("")}
	c.pool = a.pool
	copyAnimationValues(c, a)
	syncCopy(c, a)
	return c
}

func (a *TypewriterAnimation) CopyValuesFrom(src Animation) {
	s, ok := src.(*TypewriterAnimation)
	if !ok {
		return
	}
	a.Delay = s.Delay
	a.Speed = s.Speed
	a.CharacterDelay = s.CharacterDelay
	a.CharacterDuration = s.CharacterDuration
	a.RestartOnNewText = s.RestartOnNewText
	a.InvertAnimation = s.InvertAnimation
	a.InvertOrder = s.InvertOrder
	a.modules = reconcileModules(a.modules, s.modules, a.pool)
}

func (a *TypewriterAnimation) Reset() {
	a.resetState()
	for i, m := range a.modules {
		releaseModule(a.pool, m)
		a.modules[i] = nil
	}
	a.modules = a.modules[:0]
	a.completedQuads = 0
	a.setDefaults()
}

func (a *TypewriterAnimation) RandomizeTiming(rng *RandomSource) {
	a.Speed = rng.Range(0.1, 10)
	a.CharacterDelay = rng.Range(0.01, 0.1)
	a.CharacterDuration = rng.Range(0.1, 0.5)
}

// Restart rewinds the typewriter to time. When change describes appended or
// shortened text, the time is moved so that the previousQuads glyphs that
// were already revealed stay revealed and the new glyphs continue from there.
// Unrelated text restarts at Delay if RestartOnNewText is set.
func (a *TypewriterAnimation) Restart(paused bool, time float64, change *TextChange, previousQuads int, delays []DelayTag) {
	a.completedQuads = 0
	if change != nil && change.Previous != change.Current {
		if change.Appended() || change.Shortened() {
			revealed := float64(previousQuads) * a.CharacterDelay
			if time >= revealed {
				a.completedQuads = previousQuads
			}
			time = a.Delay + a.tagDelay(previousQuads, delays) + min(time, revealed)*a.Speed
		} else if a.RestartOnNewText {
			time = a.Delay
		}
	}
	a.restart(paused, time)
}

// Progress returns the clamped progress of quadIndex at time without running
// any module. It follows the same rules as UpdateCharacter.
func (a *TypewriterAnimation) Progress(quadIndex, totalQuads int, time float64, delays []DelayTag) float64 {
	_, _, raw, skip := a.timing(quadIndex, totalQuads, time, delays)
	if skip {
		return 0
	}
	return clamp01(raw)
}

// timing maps the animation time to the scaled time, the unscaled time and
// the raw (unclamped) progress of quadIndex. skip is set for an inverted
// animation that has not started yet.
func (a *TypewriterAnimation) timing(quadIndex, totalQuads int, time float64, delays []DelayTag) (scaled, unscaled, raw float64, skip bool) {
	time = max(0, time-a.Delay-a.tagDelay(quadIndex, delays))
	if a.InvertAnimation {
		if time == 0 {
			return 0, 0, 0, true
		}
		total := a.TotalDuration(totalQuads)
		unscaled = max(0, total-time)
		scaled = max(0, total-time*a.Speed)
	} else {
		unscaled = time
		scaled = time * a.Speed
	}
	if a.InvertOrder {
		quadIndex = totalQuads - 1 - quadIndex
	}
	start := float64(quadIndex) * a.CharacterDelay
	if a.CharacterDuration <= 0 {
		// Zero-length reveals jump straight to done.
		raw = -1
		if scaled >= start {
			raw = 2
		}
		return scaled, unscaled, raw, false
	}
	raw = (scaled - start) / a.CharacterDuration
	return scaled, unscaled, raw, false
}

// UpdateCharacter computes the progress of quadIndex at f.Time and runs the
// modules on q. It reports whether the quad is still animating. A quad that
// finished is skipped on later calls; inverted animations keep applying
// their end state every frame and never report completion for started quads.
func (a *TypewriterAnimation) UpdateCharacter(quadIndex, totalQuads int, f *TypewriterFrame, q *Quad) bool {
	scaled, unscaled, raw, skip := a.timing(quadIndex, totalQuads, f.Time, f.DelayTags)
	if skip {
		return true
	}
	if a.InvertOrder {
		quadIndex = totalQuads - 1 - quadIndex
	}

	finished := (!a.InvertAnimation && raw > 1) || (a.InvertAnimation && raw < 0)
	if finished || a.completedQuads > quadIndex {
		a.completedQuads = max(a.completedQuads, quadIndex)
		if !a.InvertAnimation {
			return false
		}
	}

	progress := clamp01(raw)
	frame := *f
	frame.QuadIndex = quadIndex
	frame.TotalQuads = totalQuads
	frame.Time = scaled
	frame.UnscaledTime = unscaled
	frame.Progress = progress
	frame.Delay = a.Delay
	frame.Speed = a.Speed
	for _, m := range a.modules {
		if tm, ok := m.(TypewriterModule); ok {
			tm.UpdateCharacterNormalized(&frame, q)
		}
	}
	return progress < 1
}

// CompletedQuads returns the high-water mark of finished quads.
func (a *TypewriterAnimation) CompletedQuads() int { return a.completedQuads }

// tagDelay returns the unscaled wait the delay tags at or before quadIndex
// add. Tag delays are in reveal time, so they stretch as Speed drops; a
// frozen reveal has none.
func (a *TypewriterAnimation) tagDelay(quadIndex int, delays []DelayTag) float64 {
	if a.Speed <= 0 {
		return 0
	}
	return sumDelays(quadIndex, delays) / a.Speed
}

// sumDelays adds the delays of all tags placed at or before quadIndex.
func sumDelays(quadIndex int, delays []DelayTag) float64 {
	sum := 0.0
	for _, d := range delays {
		if d.QuadIndex <= quadIndex {
			sum += d.Delay
		}
	}
	return sum
}
