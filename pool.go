package textfx

import "fmt"

// ModulePool recycles modules in per-kind buckets. A module is either live
// (owned by exactly one animation) or pooled, never both. Not safe for
// concurrent use.
type ModulePool struct {
	// Debug makes Release panic when a module is released twice.
	Debug bool

	buckets map[ModuleKind][]Module
	pooled  map[Module]struct{}
}

// NewModulePool returns an empty pool.
func NewModulePool() *ModulePool {
	return &ModulePool{buckets: make(map[ModuleKind][]Module)}
}

// Acquire returns a module of kind in its default state. A pooled instance
// is reused when available; otherwise a new one is constructed. It returns
// nil for an unregistered kind.
func (p *ModulePool) Acquire(kind ModuleKind) Module {
	if stack := p.buckets[kind]; len(stack) > 0 {
		m := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		p.buckets[kind] = stack[:len(stack)-1]
		if p.pooled != nil {
			delete(p.pooled, m)
		}
		return m
	}
	return NewModule(kind)
}

// AcquireCopy returns a module of src's kind holding src's values.
func (p *ModulePool) AcquireCopy(src Module) Module {
	if src == nil {
		return nil
	}
	m := p.Acquire(src.Kind())
	if m == nil {
		return nil
	}
	m.CopyValuesFrom(src)
	return m
}

// Release resets m, restores its kind's default name and pushes it onto its
// kind's bucket. The caller must not use m afterwards.
func (p *ModulePool) Release(m Module) {
	if m == nil {
		return
	}
	if p.Debug {
		if p.pooled == nil {
			p.pooled = make(map[Module]struct{})
		}
		if _, dup := p.pooled[m]; dup {
			panic(fmt.Sprintf("textfx debug: module %q (%s) released twice", m.Name(), m.Kind()))
		}
		p.pooled[m] = struct{}{}
	}
	if p.buckets == nil {
		p.buckets = make(map[ModuleKind][]Module)
	}
	m.Reset()
	m.SetName(defaultModuleName(m.Kind()))
	p.buckets[m.Kind()] = append(p.buckets[m.Kind()], m)
}

// ReleaseAll releases every module in mods, last to first.
func (p *ModulePool) ReleaseAll(mods []Module) {
	for i := len(mods) - 1; i >= 0; i-- {
		p.Release(mods[i])
	}
}

// Len returns the number of pooled modules of kind.
func (p *ModulePool) Len(kind ModuleKind) int { return len(p.buckets[kind]) }

// AnimationPool recycles runtime copies of animations keyed by animation id.
// Not safe for concurrent use.
type AnimationPool struct {
	// Debug makes Release panic when an animation is released twice.
	Debug bool

	modules *ModulePool
	buckets map[string][]Animation
}

// NewAnimationPool returns an empty pool whose animations draw their modules
// from modules. modules may be nil, in which case modules are allocated and
// dropped instead of pooled.
func NewAnimationPool(modules *ModulePool) *AnimationPool {
	return &AnimationPool{modules: modules, buckets: make(map[string][]Animation)}
}

// Modules returns the module pool shared by the pooled animations.
func (p *AnimationPool) Modules() *ModulePool { return p.modules }

// Acquire returns an animation of kind with id in its default state and no
// parent. A released animation with the same id and kind is reused when
// available. It returns nil for an unknown kind.
func (p *AnimationPool) Acquire(kind AnimationKind, id string) Animation {
	if a := p.pop(kind, id); a != nil {
		st := a.State()
		st.id = id
		st.IsPlaying = true
		return a
	}
	var a Animation
	switch kind {
	case AnimationCharacter:
		a = NewCharacterAnimation(id)
	case AnimationTypewriter:
		a = NewTypewriterAnimation(id)
	default:
		return nil
	}
	a.State().pool = p.modules
	return a
}

// AcquireCopy returns a runtime copy of template whose parent is template.
// A released copy with the same id is reused when available.
func (p *AnimationPool) AcquireCopy(template Animation) Animation {
	if template == nil {
		return nil
	}
	if a := p.pop(template.Kind(), template.ID()); a != nil {
		copyAnimationValues(a, template)
		syncCopy(a, template)
		return a
	}
	if template.State().pool == nil {
		template.State().pool = p.modules
	}
	return template.Copy()
}

// pop removes the most recently released animation of kind with id from its
// bucket and marks it live again.
func (p *AnimationPool) pop(kind AnimationKind, id string) Animation {
	stack := p.buckets[id]
	for i := len(stack) - 1; i >= 0; i-- {
		a := stack[i]
		if a.Kind() != kind {
			continue
		}
		p.buckets[id] = append(stack[:i], stack[i+1:]...)
		st := a.State()
		st.released = false
		st.pool = p.modules
		return a
	}
	return nil
}

// Release resets a and pushes it onto the bucket of its id. The caller must
// not use a afterwards.
func (p *AnimationPool) Release(a Animation) {
	if a == nil {
		return
	}
	st := a.State()
	if st.released {
		if p.Debug {
			panic(fmt.Sprintf("textfx debug: animation %q released twice", a.ID()))
		}
		return
	}
	if st.pool == nil {
		st.pool = p.modules
	}
	id := a.ID()
	a.Reset()
	st.released = true
	if p.buckets == nil {
		p.buckets = make(map[string][]Animation)
	}
	p.buckets[id] = append(p.buckets[id], a)
}

// ReleaseAll releases every animation in list and returns list[:0].
func (p *AnimationPool) ReleaseAll(list []Animation) []Animation {
	for i := len(list) - 1; i >= 0; i-- {
		p.Release(list[i])
		list[i] = nil
	}
	return list[:0]
}

// Len returns the number of pooled animations with id.
func (p *AnimationPool) Len(id string) int { return len(p.buckets[id]) }
