package textfx

import "fmt"

// AnimationKind distinguishes the two animation families.
type AnimationKind uint8

const (
	// AnimationCharacter runs its modules every frame on tagged glyphs.
	AnimationCharacter AnimationKind = iota + 1
	// AnimationTypewriter reveals every glyph of a text block one by one.
	AnimationTypewriter
)

func (k AnimationKind) String() string {
	switch k {
	case AnimationCharacter:
		return "character"
	case AnimationTypewriter:
		return "typewriter"
	default:
		return fmt.Sprintf("AnimationKind(%d)", k)
	}
}

// ParseAnimationKind resolves "character" or "typewriter".
func ParseAnimationKind(s string) (AnimationKind, error) {
	switch s {
	case "character":
		return AnimationCharacter, nil
	case "typewriter":
		return AnimationTypewriter, nil
	}
	return 0, fmt.Errorf("textfx: unknown animation kind %q", s)
}

// Animation is an ordered list of modules plus timing. Templates live in a
// Registry; text blocks animate runtime copies obtained from it.
type Animation interface {
	Kind() AnimationKind
	ID() string
	SetID(id string)
	// State exposes the shared playback and change-tracking state.
	State() *AnimationState
	Modules() []Module
	// Copy returns a new animation with the same values whose parent is the
	// receiver.
	Copy() Animation
	// CopyValuesFrom copies identity, timing and modules from src, which must
	// be of the same kind. Playback state is not copied.
	CopyValuesFrom(src Animation)
	// Reset clears playback state, drops the parent link and returns the
	// modules to the module pool.
	Reset()
	// Restart sets the time and playing flag. change, previousQuads and
	// delays are only used by typewriters.
	Restart(paused bool, time float64, change *TextChange, previousQuads int, delays []DelayTag)
	// RandomizeTiming assigns random timing parameters.
	RandomizeTiming(rng *RandomSource)
}

// AnimationState is the state shared by every animation kind.
type AnimationState struct {
	id string

	// Parent is the template (or copy) this animation pulls edits from.
	Parent Animation
	// IgnoreChangesInParent stops PullChangedValuesIfNecessary from syncing.
	IgnoreChangesInParent bool
	IsPlaying             bool

	time        float64
	changeIndex uint64
	syncedIndex uint64

	pool     *ModulePool
	released bool
}

func newAnimationState(id string) AnimationState {
	return AnimationState{id: id, IsPlaying: true}
}

// ID returns the identifier used by markup and class names.
func (s *AnimationState) ID() string { return s.id }

// SetID changes the identifier and marks the animation as changed.
func (s *AnimationState) SetID(id string) {
	if s.id == id {
		return
	}
	s.id = id
	s.MarkAsChanged()
}

// State returns s; it lets embedding types satisfy Animation.
func (s *AnimationState) State() *AnimationState { return s }

// Time returns the elapsed animation time in seconds.
func (s *AnimationState) Time() float64 { return s.time }

// ValueChangeIndex returns the generation counter bumped by MarkAsChanged.
func (s *AnimationState) ValueChangeIndex() uint64 { return s.changeIndex }

// MarkAsChanged bumps the generation counter so that copies re-sync on their
// next PullChangedValuesIfNecessary. Call it after editing a template; idle
// animators holding copies wake up on their next Update.
func (s *AnimationState) MarkAsChanged() { s.changeIndex++ }

func (s *AnimationState) Play()   { s.IsPlaying = true }
func (s *AnimationState) Pause()  { s.IsPlaying = false }
func (s *AnimationState) Resume() { s.Play() }

// AdvanceTime adds dt seconds to the animation time.
func (s *AnimationState) AdvanceTime(dt float64) { s.time += dt }

func (s *AnimationState) restart(paused bool, time float64) {
	s.IsPlaying = !paused
	s.time = time
}

func (s *AnimationState) resetState() {
	s.time = 0
	s.IgnoreChangesInParent = false
	s.Parent = nil
}

// PullChangedValuesIfNecessary walks up the parent chain and copies values
// from the parent whenever its generation counter moved since the last sync.
// Edits made to a template while copies are playing therefore show up on the
// next frame without restarting them.
func PullChangedValuesIfNecessary(a Animation) {
	if a == nil {
		return
	}
	st := a.State()
	if st.IgnoreChangesInParent || st.Parent == nil {
		return
	}
	PullChangedValuesIfNecessary(st.Parent)
	ps := st.Parent.State()
	if st.syncedIndex != ps.changeIndex {
		copyAnimationValues(a, st.Parent)
		st.syncedIndex = ps.changeIndex
		st.changeIndex = ps.changeIndex
	}
}

// HasPendingParentChanges reports whether PullChangedValuesIfNecessary would
// copy new values into a or any animation on its parent chain.
func HasPendingParentChanges(a Animation) bool {
	if a == nil {
		return false
	}
	st := a.State()
	if st.IgnoreChangesInParent || st.Parent == nil {
		return false
	}
	return st.syncedIndex != st.Parent.State().changeIndex || HasPendingParentChanges(st.Parent)
}

// copyAnimationValues copies identity and values from src into dst.
func copyAnimationValues(dst, src Animation) {
	ds, ss := dst.State(), src.State()
	ds.SetID(ss.id)
	ds.IgnoreChangesInParent = ss.IgnoreChangesInParent
	dst.CopyValuesFrom(src)
}

// syncCopy finishes a copy of src: it links the parent and records the
// parent's generation so the first pull is a no-op.
func syncCopy(dst, src Animation) {
	ds, ss := dst.State(), src.State()
	ds.Parent = src
	ds.syncedIndex = ss.changeIndex
	ds.changeIndex = ss.changeIndex
	if ds.pool == nil {
		ds.pool = ss.pool
	}
}

// reconcileModules makes dst mirror src: modules of a different kind are
// replaced, missing ones are added, surplus ones are released. Existing
// modules of the right kind receive src's values in place.
func reconcileModules(dst, src []Module, pool *ModulePool) []Module {
	for i, sm := range src {
		if i >= len(dst) {
			dst = append(dst, acquireModuleCopy(pool, sm))
			continue
		}
		dm := dst[i]
		switch {
		case sm == nil:
			releaseModule(pool, dm)
			dst[i] = nil
		case dm == nil || dm.Kind() != sm.Kind():
			releaseModule(pool, dm)
			dst[i] = acquireModuleCopy(pool, sm)
		default:
			dm.CopyValuesFrom(sm)
		}
	}
	for i := len(src); i < len(dst); i++ {
		releaseModule(pool, dst[i])
		dst[i] = nil
	}
	return dst[:len(src)]
}

func acquireModuleCopy(pool *ModulePool, src Module) Module {
	if src == nil {
		return nil
	}
	if pool != nil {
		return pool.AcquireCopy(src)
	}
	m := NewModule(src.Kind())
	m.CopyValuesFrom(src)
	return m
}

func releaseModule(pool *ModulePool, m Module) {
	if m == nil || pool == nil {
		return
	}
	pool.Release(m)
}

// moduleByName returns the index-th module named name, or nil.
func moduleByName(mods []Module, name string, index int) Module {
	n := 0
	for _, m := range mods {
		if m == nil || m.Name() != name {
			continue
		}
		if n == index {
			return m
		}
		n++
	}
	return nil
}

// ModuleOf returns the index-th module of a's modules with concrete type T.
// ok is false when there is no such module.
//
//	shake, ok := textfx.ModuleOf[*textfx.CharacterShake](anim, 0)
func ModuleOf[T Module](a Animation, index int) (T, bool) {
	var zero T
	if a == nil {
		return zero, false
	}
	n := 0
	for _, m := range a.Modules() {
		t, ok := m.(T)
		if !ok {
			continue
		}
		if n == index {
			return t, true
		}
		n++
	}
	return zero, false
}

// ModuleAt returns the module at position i, or nil when out of range.
func ModuleAt(a Animation, i int) Module {
	if a == nil {
		return nil
	}
	mods := a.Modules()
	if i < 0 || i >= len(mods) {
		return nil
	}
	return mods[i]
}

// ModuleNamed returns the index-th module with the given name, or nil.
func ModuleNamed(a Animation, name string, index int) Module {
	if a == nil {
		return nil
	}
	return moduleByName(a.Modules(), name, index)
}

// RandomizeAnimation randomizes the timing and every module of a.
func RandomizeAnimation(a Animation, rng *RandomSource) {
	a.RandomizeTiming(rng)
	for _, m := range a.Modules() {
		if m != nil {
			m.Randomize(rng)
		}
	}
	a.State().MarkAsChanged()
}
