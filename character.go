package textfx

var _ Animation = (*CharacterAnimation)(nil)

// CharacterAnimation applies its modules every frame to the glyphs of the
// markup tags that reference its id.
type CharacterAnimation struct {
	AnimationState

	// Delay in seconds before the modules see time advance.
	Delay float64
	// Speed scales the time handed to modules.
	Speed float64

	modules []Module
}

// NewCharacterAnimation returns a playing character animation with the
// given modules.
func NewCharacterAnimation(id string, modules ...CharacterModule) *CharacterAnimation {
	a := &CharacterAnimation{
		AnimationState: newAnimationState(id),
		Speed:          1,
	}
	for _, m := range modules {
		a.modules = append(a.modules, m)
	}
	return a
}

func (a *CharacterAnimation) Kind() AnimationKind { return AnimationCharacter }
func (a *CharacterAnimation) Modules() []Module  { return a.modules }

// AddModule appends m and marks the animation as changed.
func (a *CharacterAnimation) AddModule(m CharacterModule) {
	a.modules = append(a.modules, m)
	a.MarkAsChanged()
}

// RemoveModuleAt removes the module at i and marks the animation as changed.
func (a *CharacterAnimation) RemoveModuleAt(i int) {
	if i < 0 || i >= len(a.modules) {
		return
	}
	a.modules = append(a.modules[:i], a.modules[i+1:]...)
	a.MarkAsChanged()
}

// Module returns the index-th module named name, or nil.
func (a *CharacterAnimation) Module(name string, index int) CharacterModule {
	m, _ := moduleByName(a.modules, name, index).(CharacterModule)
	return m
}

func (a *CharacterAnimation) Copy() Animation {
	c := &CharacterAnimation{AnimationState: newAnimationState("")}
	c.pool = a.pool
	copyAnimationValues(c, a)
	syncCopy(c, a)
	return c
}

func (a *CharacterAnimation) CopyValuesFrom(src Animation) {
	s, ok := src.(*CharacterAnimation)
	if !ok {
		return
	}
	a.Delay = s.Delay
	a.Speed = s.Speed
	a.modules = reconcileModules(a.modules, s.modules, a.pool)
}

func (a *CharacterAnimation) Reset() {
	a.resetState()
	for i, m := range a.modules {
		releaseModule(a.pool, m)
		a.modules[i] = nil
	}
	a.modules = a.modules[:0]
	a.Delay = 0
	a.Speed = 1
}

func (a *CharacterAnimation) Restart(paused bool, time float64, _ *TextChange, _ int, _ []DelayTag) {
	a.restart(paused, time)
}

func (a *CharacterAnimation) RandomizeTiming(rng *RandomSource) {
	a.Speed = rng.Range(0.1, 2)
}

// UpdateCharacter offsets time by Delay, scales it by Speed and runs every
// module on q. It reports whether any module is still playing.
func (a *CharacterAnimation) UpdateCharacter(f *CharacterFrame, q *Quad) bool {
	unscaled := f.Time
	t := max(0, (f.Time-a.Delay)*a.Speed)

	frame := *f
	frame.Time = t
	frame.UnscaledTime = unscaled
	frame.Delay = a.Delay
	frame.Speed = a.Speed

	playing := false
	for _, m := range a.modules {
		cm, ok := m.(CharacterModule)
		if !ok {
			continue
		}
		if cm.UpdateCharacter(&frame, q) {
			playing = true
		}
	}
	return playing
}
