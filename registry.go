package textfx

import (
	"fmt"
	"log"
)

// Registry is the ordered list of animation templates a game authors once,
// typically loaded from a YAML file. Templates are never animated directly:
// the registry keeps one runtime copy per template (see Animations) and text
// blocks animate copies of those copies obtained from the pool. Edits to a
// template propagate down that chain after MarkAsChanged.
type Registry struct {
	// TargetFrameRate is the frame rate the demos run previews at.
	TargetFrameRate int

	templates []Animation
	runtime   []Animation
	pool      *AnimationPool
	warned    map[string]bool
}

// NewRegistry returns a registry holding templates in order.
func NewRegistry(templates ...Animation) *Registry {
	r := &Registry{
		TargetFrameRate: 30,
		pool:            NewAnimationPool(NewModulePool()),
	}
	for _, t := range templates {
		if err := r.Add(t); err != nil {
			log.Printf("textfx: %v", err)
		}
	}
	return r
}

// Pool returns the animation pool runtime copies are drawn from.
func (r *Registry) Pool() *AnimationPool { return r.pool }

// SetDebug toggles double-release detection on both pools.
func (r *Registry) SetDebug(enabled bool) {
	r.pool.Debug = enabled
	if r.pool.modules != nil {
		r.pool.modules.Debug = enabled
	}
}

// Add appends a template. Ids must be unique and non-empty.
func (r *Registry) Add(a Animation) error {
	if a == nil {
		return fmt.Errorf("textfx: add nil animation")
	}
	if a.ID() == "" {
		return fmt.Errorf("textfx: animation has no id")
	}
	if r.Template(a.ID()) != nil {
		return fmt.Errorf("textfx: duplicate animation id %q", a.ID())
	}
	r.templates = append(r.templates, a)
	return nil
}

// Remove deletes the template with id and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	for i, t := range r.templates {
		if t != nil && t.ID() == id {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			r.Refresh()
			return true
		}
	}
	return false
}

// Templates returns the authored templates. The slice must not be modified.
func (r *Registry) Templates() []Animation { return r.templates }

// Template returns the template with id, or nil.
func (r *Registry) Template(id string) Animation {
	for _, t := range r.templates {
		if t != nil && t.ID() == id {
			return t
		}
	}
	return nil
}

// Animations returns one runtime copy per template, in template order. The
// copies are rebuilt when missing or stale.
func (r *Registry) Animations() []Animation {
	if r.runtime == nil || len(r.runtime) != len(r.templates) || hasNil(r.runtime) {
		r.runtime = r.pool.ReleaseAll(r.runtime)
		for _, t := range r.templates {
			r.runtime = append(r.runtime, r.pool.AcquireCopy(t))
		}
	}
	return r.runtime
}

func hasNil(list []Animation) bool {
	for _, a := range list {
		if a == nil {
			return true
		}
	}
	return false
}

// Animation returns the runtime copy with id, or nil. The list is small, so
// it is scanned linearly.
func (r *Registry) Animation(id string) Animation {
	for _, a := range r.Animations() {
		if a != nil && a.ID() == id {
			return a
		}
	}
	return nil
}

// CopyFromPool returns a runtime copy of base whose parent is base.
func (r *Registry) CopyFromPool(base Animation) Animation {
	return r.pool.AcquireCopy(base)
}

// Release returns every animation in list to the pool and returns list[:0].
func (r *Registry) Release(list []Animation) []Animation {
	return r.pool.ReleaseAll(list)
}

// CopiesForTags releases the animations in dst, then appends one copy per id
// of every tag, in order. Unknown ids append nil so that positions stay
// aligned with the tag ids.
func (r *Registry) CopiesForTags(tags []TagInfo, dst []Animation) []Animation {
	dst = r.pool.ReleaseAll(dst)
	for _, tag := range tags {
		for _, id := range tag.IDs {
			base := r.Animation(id)
			if base == nil {
				r.warnUnknown(id)
				dst = append(dst, nil)
				continue
			}
			dst = append(dst, r.pool.AcquireCopy(base))
		}
	}
	return dst
}

// CopiesForIDs releases the animations in dst, then appends one copy per id.
// Unknown ids append nil.
func (r *Registry) CopiesForIDs(ids []string, dst []Animation) []Animation {
	dst = r.pool.ReleaseAll(dst)
	for _, id := range ids {
		base := r.Animation(id)
		if base == nil {
			r.warnUnknown(id)
			dst = append(dst, nil)
			continue
		}
		dst = append(dst, r.pool.AcquireCopy(base))
	}
	return dst
}

// Refresh drops the runtime copies so the next Animations call rebuilds them.
func (r *Registry) Refresh() {
	r.runtime = r.pool.ReleaseAll(r.runtime)
}

// Defrag removes nil templates.
func (r *Registry) Defrag() {
	kept := r.templates[:0]
	for _, t := range r.templates {
		if t != nil {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(r.templates); i++ {
		r.templates[i] = nil
	}
	r.templates = kept
}

// MarkAllChanged bumps the generation of every template so that all live
// copies re-sync on their next update. Idle animators wake up to apply the
// new values.
func (r *Registry) MarkAllChanged() {
	for _, t := range r.templates {
		if t != nil {
			t.State().MarkAsChanged()
		}
	}
}

func (r *Registry) warnUnknown(id string) {
	if id == "" {
		return
	}
	if r.warned == nil {
		r.warned = make(map[string]bool)
	}
	if r.warned[id] {
		return
	}
	r.warned[id] = true
	log.Printf("textfx: unknown animation id %q", id)
}
