package textfx

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Class names understood by Animator. A class "text-typewriter-<id>" attaches
// the typewriter animation <id> to every glyph of the text block.
const (
	TypewriterClassPrefix = "text-typewriter-"
	AnimationClass        = "text-animation"
	AutoPlayOffClass      = "text-animation-auto-play-off"
)

// Animator binds one TextBlock to the animations of a Registry. Tag
// animations come from <link anim="..."> markup passed to SetText, typewriter
// animations from text-typewriter-<id> classes. Call Update once per frame
// and draw the result with Draw or Quads.
//
// An Animator is not safe for concurrent use.
type Animator struct {
	// Name identifies the animator in events and debug output.
	Name string
	Text *TextBlock

	// AutoPlay starts playback on creation, on text changes and when the
	// block becomes visible. Defaults to true unless the AutoPlayOffClass
	// class is present.
	AutoPlay bool
	// TimeScale multiplies the frame delta. Defaults to 1.
	TimeScale float64
	// Tint multiplies the animated glyph colors when drawing.
	Tint Color
	// OnAfterAnimationChanges runs after every animation pass with the
	// animated quads. It may modify them.
	OnAfterAnimationChanges func(a *Animator, quads []Quad)

	registry *Registry
	classes  []string
	store    EventSink

	markup      Markup
	tagAnims    []Animation
	typewriters []Animation
	change      *TextChange

	base      []Quad
	quads     []Quad
	quadChars []int
	quadSrc   [][4]float32
	quadCount int

	verts   []ebiten.Vertex
	indices []uint16

	time    float64
	frame   uint64
	random  *RandomSource
	tweens  []*TweenGroup
	dirty   bool
	twDirty bool

	playing   bool
	visible   bool
	animating bool
	idle      bool
	disposed  bool
	debug     bool
}

// NewAnimator creates an animator for text driven by reg. classes are the
// block's style classes (see TypewriterClassPrefix and AutoPlayOffClass).
func NewAnimator(text *TextBlock, reg *Registry, classes ...string) *Animator {
	a := &Animator{
		Text:      text,
		TimeScale: 1,
		Tint:      ColorWhite,
		registry:  reg,
		classes:   slices.Clone(classes),
		random:    SharedRandom(),
		visible:   true,
		dirty:     true,
	}
	a.AutoPlay = !a.HasClass(AutoPlayOffClass)
	a.playing = a.AutoPlay
	a.markup = ParseMarkup(text.Content)
	text.Content = a.markup.Text
	return a
}

// Registry returns the registry animations are copied from.
func (a *Animator) Registry() *Registry { return a.registry }

// SetEventSink sets the optional event bridge.
func (a *Animator) SetEventSink(sink EventSink) { a.store = sink }

// SetRandom replaces the shared random source used to seed stepped random
// modules. Tests use it for deterministic output.
func (a *Animator) SetRandom(src *RandomSource) {
	if src == nil {
		src = SharedRandom()
	}
	a.random = src
}

// SetDebugMode enables per-update stats on stderr and double-release
// panics in the registry pools.
func (a *Animator) SetDebugMode(enabled bool) {
	a.debug = enabled
	if a.registry != nil {
		a.registry.SetDebug(enabled)
	}
}

// --- Classes ---

// Classes returns the animator's classes. The slice must not be modified.
func (a *Animator) Classes() []string { return a.classes }

// HasClass reports whether class is present.
func (a *Animator) HasClass(class string) bool { return slices.Contains(a.classes, class) }

// AddClass adds class. Typewriter classes take effect on the next Update.
func (a *Animator) AddClass(class string) {
	if a.HasClass(class) {
		return
	}
	a.classes = append(a.classes, class)
	a.classesChanged(class)
}

// RemoveClass removes class. Typewriter classes take effect on the next Update.
func (a *Animator) RemoveClass(class string) {
	i := slices.Index(a.classes, class)
	if i < 0 {
		return
	}
	a.classes = slices.Delete(a.classes, i, i+1)
	a.classesChanged(class)
}

func (a *Animator) classesChanged(class string) {
	switch {
	case class == AutoPlayOffClass:
		a.AutoPlay = !a.HasClass(AutoPlayOffClass)
	case strings.HasPrefix(class, TypewriterClassPrefix):
		a.twDirty = true
		a.idle = false
	}
}

// --- Text ---

// SetText parses markup, sets the rendered text on the TextBlock and
// schedules a rebuild of the animation copies. Typewriters continue from the
// revealed glyphs when the new text extends or shortens the old one.
func (a *Animator) SetText(markup string) {
	if markup == a.markup.Source && a.Text.Content == a.markup.Text {
		return
	}
	m := ParseMarkup(markup)
	change := &TextChange{Previous: a.markup.Text, Current: m.Text}
	a.markup = m
	a.Text.Content = m.Text
	a.change = change
	a.dirty = true
	a.idle = false
	if a.AutoPlay {
		a.playing = true
	}
	a.emit(EventTextChanged)
}

// Refresh schedules a relayout and a rebuild of the animation copies. Call
// it after changing TextBlock formatting such as WrapWidth or Align.
func (a *Animator) Refresh() {
	a.Text.Invalidate()
	a.dirty = true
	a.idle = false
}

// Markup returns the parsed markup of the current text.
func (a *Animator) Markup() *Markup { return &a.markup }

// --- Playback ---

// Play starts or resumes every animation.
func (a *Animator) Play() {
	a.playing = true
	a.eachAnimation(func(an Animation) { an.State().Play() })
	a.idle = false
}

// Pause stops time for every animation. Update keeps applying the current
// frame so the glyphs hold their pose.
func (a *Animator) Pause() {
	a.playing = false
	a.eachAnimation(func(an Animation) { an.State().Pause() })
}

// Resume is Play.
func (a *Animator) Resume() { a.Play() }

// Restart rewinds every animation to t seconds.
func (a *Animator) Restart(paused bool, t float64) {
	a.playing = !paused
	a.time = t
	a.eachAnimation(func(an Animation) { an.Restart(paused, t, nil, 0, nil) })
	a.idle = false
	a.emit(EventRestarted)
}

// IsPlaying reports whether time advances.
func (a *Animator) IsPlaying() bool { return a.playing }

// IsAnimating reports whether the last pass had any glyph still in motion.
func (a *Animator) IsAnimating() bool { return a.animating }

// Time returns the animator clock in seconds.
func (a *Animator) Time() float64 { return a.time }

// SetVisible shows or hides the text. Becoming visible restarts all
// animations from zero, paused unless AutoPlay is set.
func (a *Animator) SetVisible(visible bool) {
	if visible == a.visible {
		return
	}
	a.visible = visible
	if visible {
		a.Restart(!a.AutoPlay, 0)
	}
}

// Visible reports whether the text is visible.
func (a *Animator) Visible() bool { return a.visible }

// --- Lookup ---

// AnimationCount returns the number of typewriter plus tag animations.
func (a *Animator) AnimationCount() int { return len(a.typewriters) + len(a.tagAnims) }

// AnimationAt returns the i-th animation: typewriters first, then tag
// animations in tag order. Unknown tag ids yield nil.
func (a *Animator) AnimationAt(i int) Animation {
	if i < 0 || i >= a.AnimationCount() {
		return nil
	}
	if i < len(a.typewriters) {
		return a.typewriters[i]
	}
	return a.tagAnims[i-len(a.typewriters)]
}

// Animation returns the index-th tag animation with id, or nil.
func (a *Animator) Animation(id string, index int) Animation {
	n := 0
	for _, an := range a.tagAnims {
		if an == nil || an.ID() != id {
			continue
		}
		if n == index {
			return an
		}
		n++
	}
	return nil
}

// Typewriter returns the typewriter animation with id, or nil.
func (a *Animator) Typewriter(id string) *TypewriterAnimation {
	for _, an := range a.typewriters {
		if an.ID() == id {
			tw, _ := an.(*TypewriterAnimation)
			return tw
		}
	}
	return nil
}

func (a *Animator) eachAnimation(fn func(Animation)) {
	for _, an := range a.typewriters {
		fn(an)
	}
	for _, an := range a.tagAnims {
		if an != nil {
			fn(an)
		}
	}
}

// templatesChanged reports whether a template behind any copy was edited
// since the copy last synced.
func (a *Animator) templatesChanged() bool {
	changed := false
	a.eachAnimation(func(an Animation) {
		changed = changed || HasPendingParentChanges(an)
	})
	return changed
}

// --- Output ---

// Quads returns the animated quads of the last Update, in quad index order.
// The slice is owned by the animator.
func (a *Animator) Quads() []Quad { return a.quads }

// QuadCount returns the number of visible glyphs.
func (a *Animator) QuadCount() int { return a.quadCount }

// --- Update ---

// Update advances the animations by dt seconds and recomputes the animated
// quads. Typewriters run over every quad first, then tag animations over
// their tagged quads, so tag effects compose on top of the reveal. Once no
// glyph is in motion the animator goes idle and Update does nothing until
// the text, classes or playback state change, or a template is marked as
// changed.
func (a *Animator) Update(dt float64) {
	if a.disposed {
		return
	}
	a.updateTweens(dt)

	if a.Text.Content != a.markup.Text {
		a.SetText(a.Text.Content)
	}
	var stats animatorStats
	var start time.Time
	if a.debug {
		start = time.Now()
	}
	if a.dirty {
		a.rebuild()
	} else if a.twDirty {
		a.rebuildTypewriters(a.quadCount, nil)
	}
	if a.debug {
		stats.rebuildTime = time.Since(start)
	}

	if a.idle && a.visible && a.templatesChanged() {
		a.idle = false
	}
	if a.idle || !a.visible {
		return
	}
	a.quads = append(a.quads[:0], a.base...)
	if a.quadCount == 0 || (len(a.tagAnims) == 0 && len(a.typewriters) == 0) {
		a.setAnimating(false)
		return
	}

	dt *= a.TimeScale
	if a.playing {
		a.time += dt
		a.eachAnimation(func(an Animation) {
			if an.State().IsPlaying {
				an.State().AdvanceTime(dt)
			}
		})
	}
	a.frame++
	a.eachAnimation(PullChangedValuesIfNecessary)

	rngState := a.random.Snapshot()
	animating := false

	if a.debug {
		start = time.Now()
	}
	for qi := range a.quads {
		for _, an := range a.typewriters {
			tw := an.(*TypewriterAnimation)
			f := TypewriterFrame{
				Time:          tw.Time(),
				UnscaledDelta: dt,
				DelayTags:     a.markup.Delays,
				Frame:         a.frame,
				Random:        a.random,
			}
			if tw.UpdateCharacter(qi, a.quadCount, &f, &a.quads[qi]) {
				animating = true
			}
		}
	}
	if a.debug {
		stats.typewriterTime = time.Since(start)
		start = time.Now()
	}
	if a.tagPass(dt) {
		animating = true
	}
	if a.debug {
		stats.tagTime = time.Since(start)
	}

	a.random.Restore(rngState)
	a.random.Uint64()

	if a.OnAfterAnimationChanges != nil {
		a.OnAfterAnimationChanges(a, a.quads)
	}
	a.setAnimating(animating)

	if a.debug {
		stats.quads = a.quadCount
		stats.typewriters = len(a.typewriters)
		stats.tagAnimations = len(a.tagAnims)
		a.debugLog(stats)
	}
}

// tagPass runs the tag animations over their quads. The animations of a tag
// start at the sum of the id counts of the tags before it.
func (a *Animator) tagPass(dt float64) bool {
	animating := false
	first := 0
	for _, tag := range a.markup.Tags {
		for j, qi := range tag.Quads {
			if qi < 0 || qi >= len(a.quads) {
				continue
			}
			for k := range tag.IDs {
				idx := first + k
				if idx >= len(a.tagAnims) {
					break
				}
				switch an := a.tagAnims[idx].(type) {
				case *CharacterAnimation:
					f := CharacterFrame{
						CharIndex:     a.quadChars[qi],
						Time:          an.Time(),
						UnscaledDelta: dt,
						DelayTags:     a.markup.Delays,
						Frame:         a.frame,
						Random:        a.random,
					}
					if an.UpdateCharacter(&f, &a.quads[qi]) {
						animating = true
					}
				case *TypewriterAnimation:
					// A typewriter inside a tag reveals the tag's glyphs only.
					f := TypewriterFrame{
						Time:          an.Time(),
						UnscaledDelta: dt,
						Frame:         a.frame,
						Random:        a.random,
					}
					if an.UpdateCharacter(j, len(tag.Quads), &f, &a.quads[qi]) {
						animating = true
					}
				}
			}
		}
		first += len(tag.IDs)
	}
	return animating
}

func (a *Animator) setAnimating(v bool) {
	a.idle = !v
	if v == a.animating {
		return
	}
	a.animating = v
	if v {
		a.emit(EventResumed)
	} else {
		a.emit(EventSettled)
	}
}

// rebuild lays out the text, maps tags to quads and replaces the animation
// copies.
func (a *Animator) rebuild() {
	prev := a.quadCount
	glyphs := a.Text.Glyphs()
	a.markup.Resolve(glyphs)

	a.base = a.Text.Quads(a.base[:0])
	a.quadCount = len(a.base)
	a.quadChars = a.quadChars[:0]
	a.quadSrc = a.quadSrc[:0]
	for _, g := range glyphs {
		if g.Visible {
			a.quadChars = append(a.quadChars, g.CharIndex)
			a.quadSrc = append(a.quadSrc, [4]float32{g.SrcX, g.SrcY, g.SrcW, g.SrcH})
		}
	}

	if a.registry != nil {
		a.tagAnims = a.registry.CopiesForTags(a.markup.Tags, a.tagAnims)
		for _, an := range a.tagAnims {
			if an != nil {
				an.Restart(!a.playing, a.time, nil, 0, nil)
			}
		}
	}
	a.rebuildTypewriters(prev, a.change)
	a.change = nil
	a.dirty = false
}

// rebuildTypewriters replaces the typewriter copies with one per typewriter
// class. When the quad count changed, each copy restarts from the clock of the
// copy it replaces, with the text change, so that revealed glyphs stay
// revealed.
func (a *Animator) rebuildTypewriters(prevQuads int, change *TextChange) {
	a.twDirty = false
	if a.registry == nil {
		return
	}
	prevTimes := make(map[string]float64, len(a.typewriters))
	for _, tw := range a.typewriters {
		prevTimes[tw.ID()] = tw.State().Time()
	}
	a.typewriters = a.registry.Release(a.typewriters)
	for _, class := range a.classes {
		id, ok := strings.CutPrefix(class, TypewriterClassPrefix)
		if !ok {
			continue
		}
		base := a.registry.Animation(id)
		if base == nil {
			a.registry.warnUnknown(id)
			continue
		}
		if base.Kind() != AnimationTypewriter {
			log.Printf("textfx: class %q names %s animation %q", class, base.Kind(), id)
			continue
		}
		tw := a.registry.CopyFromPool(base)
		a.typewriters = append(a.typewriters, tw)
		if prevQuads != a.quadCount {
			t, ok := prevTimes[id]
			if !ok {
				t = a.time
			}
			tw.Restart(!a.playing, t, change, prevQuads, a.markup.Delays)
		} else {
			tw.Restart(!a.playing, 0, nil, 0, nil)
		}
	}
}

// Dispose returns every animation copy to the registry pool. The animator
// must not be used afterwards.
func (a *Animator) Dispose() {
	if a.disposed {
		return
	}
	if a.registry != nil {
		a.typewriters = a.registry.Release(a.typewriters)
		a.tagAnims = a.registry.Release(a.tagAnims)
	}
	a.tweens = nil
	a.disposed = true
}

// IsDisposed reports whether Dispose was called.
func (a *Animator) IsDisposed() bool { return a.disposed }

func (a *Animator) emit(t EventType) {
	if a.store == nil {
		return
	}
	a.store.EmitEvent(AnimationEvent{
		Type:      t,
		Name:      a.Name,
		Text:      a.Text.Content,
		QuadCount: a.quadCount,
		Time:      a.time,
	})
}

// animatorStats holds per-update timing, only populated in debug mode.
type animatorStats struct {
	rebuildTime    time.Duration
	typewriterTime time.Duration
	tagTime        time.Duration
	quads          int
	typewriters    int
	tagAnimations  int
}

func (a *Animator) debugLog(s animatorStats) {
	total := s.rebuildTime + s.typewriterTime + s.tagTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[textfx] %s rebuild: %v | typewriter: %v | tags: %v | total: %v\n",
		a.Name, s.rebuildTime, s.typewriterTime, s.tagTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[textfx] %s quads: %d | typewriters: %d | tag animations: %d | animating: %t\n",
		a.Name, s.quads, s.typewriters, s.tagAnimations, a.animating)
}
