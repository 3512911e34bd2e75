package textfx

import (
	"reflect"
	"testing"
)

func TestModulePool_ReuseRestoresDefaults(t *testing.T) {
	for _, kind := range ModuleKinds() {
		t.Run(kind.String(), func(t *testing.T) {
			p := NewModulePool()
			m := p.Acquire(kind)
			m.SetName("custom")
			m.Randomize(NewRandomSource(7))
			if g, ok := m.(*CharacterGradient); ok {
				g.Gradient = NewGradient(Color{0, 1, 0, 1}, Color{0, 0.5, 0, 1})
			}
			q := unitQuad(0, 0)
			switch mm := m.(type) {
			case CharacterModule:
				mm.UpdateCharacter(&CharacterFrame{Speed: 1, UnscaledTime: 1, Frame: 1, Random: NewRandomSource(1)}, &q)
			case TypewriterModule:
				mm.UpdateCharacterNormalized(&TypewriterFrame{TotalQuads: 1, Progress: 0.5, Speed: 1, Frame: 1, Random: NewRandomSource(1)}, &q)
			}

			p.Release(m)
			if p.Len(kind) != 1 {
				t.Fatalf("Len = %d, want 1", p.Len(kind))
			}
			again := p.Acquire(kind)
			if again != m {
				t.Fatal("expected the pooled module to be reused")
			}
			if want := NewModule(kind); !reflect.DeepEqual(again, want) {
				t.Errorf("reused module = %+v, want %+v", again, want)
			}
		})
	}

	if NewModulePool().Acquire(ModuleInvalid) != nil {
		t.Error("Acquire of an unknown kind should be nil")
	}
}

func TestModulePool_AcquireCopy(t *testing.T) {
	p := NewModulePool()
	src := NewCharacterTranslate()
	src.Frequency = 7

	c := p.AcquireCopy(src).(*CharacterTranslate)
	if c == src || c.Frequency != 7 {
		t.Errorf("copy = %p Frequency %v", c, c.Frequency)
	}
	if p.AcquireCopy(nil) != nil {
		t.Error("AcquireCopy(nil) should be nil")
	}
}

func TestModulePool_DebugDoubleRelease(t *testing.T) {
	p := NewModulePool()
	p.Debug = true
	m := p.Acquire(ModuleCharacterColor)
	p.Release(m)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on double release")
		}
	}()
	p.Release(m)
}

func TestModulePool_ReleaseAll(t *testing.T) {
	var p ModulePool
	p.ReleaseAll([]Module{NewCharacterColor(), nil, NewTypewriterColor()})
	if p.Len(ModuleCharacterColor) != 1 || p.Len(ModuleTypewriterColor) != 1 {
		t.Errorf("Len = %d, %d", p.Len(ModuleCharacterColor), p.Len(ModuleTypewriterColor))
	}
}

func TestAnimationPool_Reuse(t *testing.T) {
	mods := NewModulePool()
	p := NewAnimationPool(mods)
	tpl := NewCharacterAnimation("wave", NewCharacterTranslate(), NewCharacterColor())
	tpl.Speed = 2

	c := p.AcquireCopy(tpl)
	if c == Animation(tpl) || c.State().Parent != Animation(tpl) {
		t.Fatal("copy should be a new animation parented to the template")
	}
	if got := c.(*CharacterAnimation).Speed; got != 2 {
		t.Errorf("copy Speed = %v, want 2", got)
	}
	if c.Modules()[0] == tpl.Modules()[0] {
		t.Error("copy shares modules with the template")
	}

	p.Release(c)
	if p.Len("wave") != 1 {
		t.Errorf("Len(wave) = %d, want 1", p.Len("wave"))
	}
	if mods.Len(ModuleCharacterTranslate) != 1 || mods.Len(ModuleCharacterColor) != 1 {
		t.Error("released animation did not return its modules")
	}
	if c.State().Parent != nil || len(c.Modules()) != 0 {
		t.Error("released animation was not reset")
	}

	again := p.AcquireCopy(tpl)
	if again != c {
		t.Error("expected the released copy to be reused")
	}
	if again.State().Parent != Animation(tpl) || len(again.Modules()) != 2 {
		t.Error("reused copy not re-synced with the template")
	}
	if mods.Len(ModuleCharacterTranslate) != 0 {
		t.Error("reused copy did not draw its modules from the module pool")
	}
}

func TestAnimationPool_KindMismatch(t *testing.T) {
	p := NewAnimationPool(nil)
	p.Release(NewCharacterAnimation("x"))
	c := p.AcquireCopy(NewTypewriterAnimation("x"))
	if c.Kind() != AnimationTypewriter {
		t.Errorf("Kind = %v, want typewriter", c.Kind())
	}
	if p.Len("x") != 1 {
		t.Error("character animation should stay pooled")
	}
}

func TestAnimationPool_DoubleRelease(t *testing.T) {
	p := NewAnimationPool(NewModulePool())
	c := p.AcquireCopy(NewCharacterAnimation("a"))
	p.Release(c)
	p.Release(c)
	if p.Len("a") != 1 {
		t.Errorf("Len = %d after double release, want 1", p.Len("a"))
	}

	p.Debug = true
	defer func() {
		if recover() == nil {
			t.Error("expected panic on double release in debug mode")
		}
	}()
	p.Release(c)
}

func TestAnimationPool_ReleaseAll(t *testing.T) {
	p := NewAnimationPool(nil)
	list := []Animation{p.AcquireCopy(NewCharacterAnimation("a")), nil, p.AcquireCopy(NewCharacterAnimation("b"))}
	list = p.ReleaseAll(list)
	if len(list) != 0 || p.Len("a") != 1 || p.Len("b") != 1 {
		t.Errorf("ReleaseAll: len %d, a %d, b %d", len(list), p.Len("a"), p.Len("b"))
	}
}

func TestAnimationPool_AcquireRestoresDefaults(t *testing.T) {
	mods := NewModulePool()
	p := NewAnimationPool(mods)

	tpl := NewTypewriterAnimation("tw", NewTypewriterColor(), NewTypewriterShake())
	tpl.Delay = 2
	tpl.Speed = 3
	tpl.CharacterDelay = 0.5
	tpl.CharacterDuration = 1.5
	tpl.RestartOnNewText = false
	tpl.InvertAnimation = true
	tpl.InvertOrder = true
	c := p.AcquireCopy(tpl).(*TypewriterAnimation)
	c.completedQuads = 4
	c.IgnoreChangesInParent = true
	c.Restart(true, 5, nil, 0, nil)
	p.Release(c)

	got := p.Acquire(AnimationTypewriter, "tw").(*TypewriterAnimation)
	if got != c {
		t.Fatal("expected the released typewriter to be reused")
	}
	want := NewTypewriterAnimation("tw")
	if got.Delay != want.Delay || got.Speed != want.Speed ||
		got.CharacterDelay != want.CharacterDelay || got.CharacterDuration != want.CharacterDuration {
		t.Errorf("timing = %v %v %v %v, want %v %v %v %v",
			got.Delay, got.Speed, got.CharacterDelay, got.CharacterDuration,
			want.Delay, want.Speed, want.CharacterDelay, want.CharacterDuration)
	}
	if got.RestartOnNewText != want.RestartOnNewText || got.InvertAnimation || got.InvertOrder {
		t.Errorf("flags = %v %v %v", got.RestartOnNewText, got.InvertAnimation, got.InvertOrder)
	}
	if got.completedQuads != 0 {
		t.Errorf("completedQuads = %d, want 0", got.completedQuads)
	}
	if got.Parent != nil || got.IgnoreChangesInParent || !got.IsPlaying || got.Time() != 0 {
		t.Errorf("state = parent %v ignore %v playing %v time %v", got.Parent, got.IgnoreChangesInParent, got.IsPlaying, got.Time())
	}
	if len(got.Modules()) != 0 {
		t.Errorf("modules = %d, want none", len(got.Modules()))
	}
	if mods.Len(ModuleTypewriterColor) != 1 || mods.Len(ModuleTypewriterShake) != 1 {
		t.Error("released typewriter did not return its modules")
	}
	if p.Len("tw") != 0 {
		t.Errorf("Len(tw) = %d, want 0", p.Len("tw"))
	}
}

func TestAnimationPool_AcquireFresh(t *testing.T) {
	mods := NewModulePool()
	p := NewAnimationPool(mods)

	p.Release(NewCharacterAnimation("other"))
	a := p.Acquire(AnimationCharacter, "wave").(*CharacterAnimation)
	if a.ID() != "wave" || a.Speed != 1 || a.Delay != 0 || a.Parent != nil {
		t.Errorf("fresh animation = id %q speed %v delay %v parent %v", a.ID(), a.Speed, a.Delay, a.Parent)
	}
	if a.State().pool != mods {
		t.Error("fresh animation should draw modules from the pool")
	}
	if p.Len("other") != 1 {
		t.Error("an animation with a different id should stay pooled")
	}
	if p.Acquire(AnimationKind(99), "x") != nil {
		t.Error("Acquire of an unknown kind should be nil")
	}
}
