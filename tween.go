package textfx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields of an Animator simultaneously.
// Groups created through the Animator's Tween methods are advanced by
// Animator.Update with the unscaled frame delta; call Update yourself only
// for groups built with NewTweenGroup. If the animator is disposed, the
// group stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Animator
	Done   bool
}

// NewTweenGroup animates the given fields of target from their current
// values to the matching entries of to. At most 4 fields are animated.
func NewTweenGroup(target *Animator, fields []*float64, to []float64, duration float64, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{target: target}
	if fn == nil {
		fn = ease.Linear
	}
	for i, f := range fields {
		if i >= len(g.fields) || i >= len(to) {
			break
		}
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), float32(duration), fn)
		g.fields[i] = f
		g.count++
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values to the
// target fields. If the target animator has been disposed, Done is set and
// no writes occur.
func (g *TweenGroup) Update(dt float64) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenTimeScale ramps TimeScale to the given value, e.g. for slow motion or
// to fast-forward a typewriter. easing selects the curve; EaseCustomCurve
// falls back to linear.
func (a *Animator) TweenTimeScale(to, duration float64, easing Easing) *TweenGroup {
	g := NewTweenGroup(a, []*float64{&a.TimeScale}, []float64{to}, duration, easing.TweenFunc())
	a.tweens = append(a.tweens, g)
	return g
}

// TweenTint animates all four components of Tint to the target color.
func (a *Animator) TweenTint(to Color, duration float64, easing Easing) *TweenGroup {
	g := NewTweenGroup(a,
		[]*float64{&a.Tint.R, &a.Tint.G, &a.Tint.B, &a.Tint.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, easing.TweenFunc())
	a.tweens = append(a.tweens, g)
	return g
}

// updateTweens advances the animator's own tween groups and drops the
// finished ones.
func (a *Animator) updateTweens(dt float64) {
	if len(a.tweens) == 0 {
		return
	}
	live := a.tweens[:0]
	for _, g := range a.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	for i := len(live); i < len(a.tweens); i++ {
		a.tweens[i] = nil
	}
	a.tweens = live
}
