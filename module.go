package textfx

import (
	"fmt"
	"sort"
)

// ModuleKind identifies a module implementation. Kinds are registered with a
// factory so that configuration files and pools can construct modules by tag
// without reflecting over types.
type ModuleKind uint8

const (
	ModuleInvalid ModuleKind = iota

	// Character modules run continuously while their tag is active.
	ModuleCharacterColor
	ModuleCharacterGradient
	ModuleCharacterRainbow
	ModuleCharacterRotate
	ModuleCharacterScale
	ModuleCharacterShake
	ModuleCharacterSketchy
	ModuleCharacterTranslate

	// Typewriter modules receive a normalized per-quad progress.
	ModuleTypewriterColor
	ModuleTypewriterRotate
	ModuleTypewriterScale
	ModuleTypewriterShake
	ModuleTypewriterTranslate
)

// Module is a named parameter bundle that applies one visual effect to a
// glyph quad. Implementations are either CharacterModule or TypewriterModule.
type Module interface {
	Kind() ModuleKind
	Name() string
	SetName(name string)
	// Reset restores the defaults and clears transient state. The name is kept.
	Reset()
	// CopyValuesFrom copies every parameter of src, which must have the same
	// kind. Transient random state is not copied.
	CopyValuesFrom(src Module)
	// Randomize assigns random but sensible parameters, for prototyping.
	Randomize(rng *RandomSource)
}

// CharacterFrame carries the per-glyph inputs of a character animation pass.
// Time has already been offset by the owning animation's delay and scaled by
// its speed. Delay and Speed are the owning animation's values.
type CharacterFrame struct {
	CharIndex     int
	Time          float64
	UnscaledTime  float64
	UnscaledDelta float64
	Delay         float64
	Speed         float64
	DelayTags     []DelayTag
	// Frame increments once per Animator update and lets stepped random
	// modules detect a new frame.
	Frame uint64
	// Random seeds the stepped random modules.
	Random *RandomSource
}

// CharacterModule animates a glyph continuously.
type CharacterModule interface {
	Module
	// UpdateCharacter mutates q and reports whether the module wants further
	// timed updates.
	UpdateCharacter(f *CharacterFrame, q *Quad) bool
}

// TypewriterFrame carries the per-quad inputs of a typewriter pass. Progress
// is the normalized, clamped position of this quad within its own reveal.
type TypewriterFrame struct {
	QuadIndex     int
	TotalQuads    int
	Time          float64
	UnscaledTime  float64
	UnscaledDelta float64
	Progress      float64
	Delay         float64
	Speed         float64
	DelayTags     []DelayTag
	Frame         uint64
	Random        *RandomSource
}

// TypewriterModule animates a glyph through a one-shot reveal.
type TypewriterModule interface {
	Module
	UpdateCharacterNormalized(f *TypewriterFrame, q *Quad)
}

// ModuleFactory constructs a module with its defaults applied.
type ModuleFactory func() Module

type moduleKindEntry struct {
	name        string
	typewriter  bool
	factory     ModuleFactory
	defaultName string
}

var moduleKinds = map[ModuleKind]moduleKindEntry{}

// RegisterModuleKind associates a kind with its configuration name and
// factory. It panics on duplicate kinds or names.
func RegisterModuleKind(kind ModuleKind, name string, typewriter bool, factory ModuleFactory) {
	if _, exists := moduleKinds[kind]; exists {
		panic("textfx: duplicate module kind " + name)
	}
	for _, e := range moduleKinds {
		if e.name == name {
			panic("textfx: duplicate module name " + name)
		}
	}
	moduleKinds[kind] = moduleKindEntry{
		name:        name,
		typewriter:  typewriter,
		factory:     factory,
		defaultName: factory().Name(),
	}
}

func init() {
	RegisterModuleKind(ModuleCharacterColor, "color", false, func() Module { return NewCharacterColor() })
	RegisterModuleKind(ModuleCharacterGradient, "gradient", false, func() Module { return NewCharacterGradient() })
	RegisterModuleKind(ModuleCharacterRainbow, "rainbow", false, func() Module { return NewCharacterRainbow() })
	RegisterModuleKind(ModuleCharacterRotate, "rotate", false, func() Module { return NewCharacterRotate() })
	RegisterModuleKind(ModuleCharacterScale, "scale", false, func() Module { return NewCharacterScale() })
	RegisterModuleKind(ModuleCharacterShake, "shake", false, func() Module { return NewCharacterShake() })
	RegisterModuleKind(ModuleCharacterSketchy, "sketchy", false, func() Module { return NewCharacterSketchy() })
	RegisterModuleKind(ModuleCharacterTranslate, "translate", false, func() Module { return NewCharacterTranslate() })
	RegisterModuleKind(ModuleTypewriterColor, "typewriterColor", true, func() Module { return NewTypewriterColor() })
	RegisterModuleKind(ModuleTypewriterRotate, "typewriterRotate", true, func() Module { return NewTypewriterRotate() })
	RegisterModuleKind(ModuleTypewriterScale, "typewriterScale", true, func() Module { return NewTypewriterScale() })
	RegisterModuleKind(ModuleTypewriterShake, "typewriterShake", true, func() Module { return NewTypewriterShake() })
	RegisterModuleKind(ModuleTypewriterTranslate, "typewriterTranslate", true, func() Module { return NewTypewriterTranslate() })
}

// String returns the configuration name of the kind.
func (k ModuleKind) String() string {
	if e, ok := moduleKinds[k]; ok {
		return e.name
	}
	return fmt.Sprintf("ModuleKind(%d)", k)
}

// IsTypewriter reports whether modules of this kind implement TypewriterModule.
func (k ModuleKind) IsTypewriter() bool {
	return moduleKinds[k].typewriter
}

// ParseModuleKind resolves a kind by its configuration name.
func ParseModuleKind(name string) (ModuleKind, error) {
	for k, e := range moduleKinds {
		if e.name == name {
			return k, nil
		}
	}
	return ModuleInvalid, fmt.Errorf("textfx: unknown module kind %q", name)
}

// ModuleKinds returns every registered kind in ascending order.
func ModuleKinds() []ModuleKind {
	kinds := make([]ModuleKind, 0, len(moduleKinds))
	for k := range moduleKinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// defaultModuleName returns the name a freshly constructed module of kind
// carries.
func defaultModuleName(kind ModuleKind) string { return moduleKinds[kind].defaultName }

// NewModule constructs a module of the given kind with defaults applied.
// It returns nil for an unregistered kind.
func NewModule(kind ModuleKind) Module {
	e, ok := moduleKinds[kind]
	if !ok {
		return nil
	}
	return e.factory()
}

// moduleBase holds the name shared by every module.
type moduleBase struct {
	name string
}

func (b *moduleBase) Name() string        { return b.name }
func (b *moduleBase) SetName(name string) { b.name = name }

// stagger returns the per-character phase offset used by the looping
// character modules: (10000 - index) * frequency * k. The large constant keeps
// the phase positive for any realistic index.
func stagger(index, frequency, k float64) float64 {
	return (10000 - index) * frequency * k
}
