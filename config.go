package textfx

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// RegistryFile is the YAML document a Registry is loaded from and saved to.
//
//	targetFrameRate: 30
//	animations:
//	  - id: wave
//	    kind: character
//	    modules:
//	      - kind: translate
//	        name: bob
//	        amplitude: {x: 0, y: 4}
//	  - id: reveal
//	    kind: typewriter
//	    characterDelay: 0.03
//	    modules:
//	      - kind: typewriterColor
type RegistryFile struct {
	TargetFrameRate int              `yaml:"targetFrameRate,omitempty"`
	Animations      []AnimationEntry `yaml:"animations"`
}

// AnimationEntry is one animation of a RegistryFile. Pointer fields are
// optional; nil takes the animation kind's default.
type AnimationEntry struct {
	ID                    string        `yaml:"id"`
	Kind                  string        `yaml:"kind"`
	IgnoreChangesInParent bool          `yaml:"ignoreChangesInParent,omitempty"`
	Delay                 *float64      `yaml:"delay,omitempty"`
	Speed                 *float64      `yaml:"speed,omitempty"`
	CharacterDelay        *float64      `yaml:"characterDelay,omitempty"`
	CharacterDuration     *float64      `yaml:"characterDuration,omitempty"`
	RestartOnNewText      *bool         `yaml:"restartOnNewText,omitempty"`
	InvertAnimation       bool          `yaml:"invertAnimation,omitempty"`
	InvertOrder           bool          `yaml:"invertOrder,omitempty"`
	Modules               []ModuleEntry `yaml:"modules"`
}

// ModuleEntry wraps a Module so that it is written with its kind and name
// in front of its parameters.
type ModuleEntry struct {
	Module Module
}

// UnmarshalYAML reads the kind key, constructs a module of that kind with
// its defaults and decodes the remaining keys on top.
func (e *ModuleEntry) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Kind string `yaml:"kind"`
		Name string `yaml:"name"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}
	if head.Kind == "" {
		return fmt.Errorf("line %d: module has no kind", node.Line)
	}
	kind, err := ParseModuleKind(head.Kind)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	m := NewModule(kind)
	if err := node.Decode(m); err != nil {
		return fmt.Errorf("line %d: module %q: %w", node.Line, head.Kind, err)
	}
	if head.Name != "" {
		m.SetName(head.Name)
	}
	e.Module = m
	return nil
}

// MarshalYAML writes the module as a mapping that starts with kind and name.
func (e ModuleEntry) MarshalYAML() (any, error) {
	if e.Module == nil {
		return nil, errors.New("textfx: nil module")
	}
	var node yaml.Node
	if err := node.Encode(e.Module); err != nil {
		return nil, err
	}
	head := []*yaml.Node{
		scalarNode("kind"), scalarNode(e.Module.Kind().String()),
		scalarNode("name"), scalarNode(e.Module.Name()),
	}
	node.Content = append(head, node.Content...)
	return &node, nil
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// LoadRegistryFile reads a YAML registry from path.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("textfx: read registry %s: %w", path, err)
	}
	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("textfx: registry %s: %w", path, err)
	}
	return reg, nil
}

// ParseRegistry decodes, applies defaults to and validates a YAML registry.
func ParseRegistry(data []byte) (*Registry, error) {
	var file RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	applyRegistryDefaults(&file)
	if err := validateRegistryFile(&file); err != nil {
		return nil, fmt.Errorf("invalid registry: %w", err)
	}
	return file.Build(), nil
}

// MarshalRegistry encodes the templates of reg as YAML.
func MarshalRegistry(reg *Registry) ([]byte, error) {
	file := NewRegistryFile(reg)
	data, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("textfx: marshal registry: %w", err)
	}
	return data, nil
}

// applyRegistryDefaults fills optional settings.
func applyRegistryDefaults(file *RegistryFile) {
	if file.TargetFrameRate == 0 {
		file.TargetFrameRate = 30
	}
}

// validateRegistryFile checks ids, kinds and timing.
func validateRegistryFile(file *RegistryFile) error {
	seen := make(map[string]bool, len(file.Animations))
	for i, e := range file.Animations {
		if e.ID == "" {
			return fmt.Errorf("animation %d: id is required", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("animation %d: duplicate id %q", i, e.ID)
		}
		seen[e.ID] = true

		kind, err := ParseAnimationKind(e.Kind)
		if err != nil {
			return fmt.Errorf("animation %q: %w", e.ID, err)
		}
		if e.Speed != nil && *e.Speed == 0 {
			return fmt.Errorf("animation %q: speed must not be 0", e.ID)
		}
		if e.CharacterDuration != nil && *e.CharacterDuration <= 0 {
			return fmt.Errorf("animation %q: characterDuration must be positive", e.ID)
		}
		if kind == AnimationCharacter && (e.CharacterDelay != nil || e.CharacterDuration != nil) {
			return fmt.Errorf("animation %q: character animations have no per-character timing", e.ID)
		}
		for j, m := range e.Modules {
			if m.Module == nil {
				return fmt.Errorf("animation %q: module %d is empty", e.ID, j)
			}
			if m.Module.Kind().IsTypewriter() != (kind == AnimationTypewriter) {
				return fmt.Errorf("animation %q: module %d (%s) does not fit a %s animation",
					e.ID, j, m.Module.Kind(), kind)
			}
		}
	}
	return nil
}

// Build turns a validated file into a Registry.
func (f *RegistryFile) Build() *Registry {
	reg := NewRegistry()
	if f.TargetFrameRate > 0 {
		reg.TargetFrameRate = f.TargetFrameRate
	}
	for _, e := range f.Animations {
		if err := reg.Add(e.build()); err != nil {
			log.Printf("textfx: %v", err)
		}
	}
	return reg
}

func (e *AnimationEntry) build() Animation {
	var a Animation
	switch e.Kind {
	case "typewriter":
		tw := NewTypewriterAnimation(e.ID)
		setIf(&tw.Delay, e.Delay)
		setIf(&tw.Speed, e.Speed)
		setIf(&tw.CharacterDelay, e.CharacterDelay)
		setIf(&tw.CharacterDuration, e.CharacterDuration)
		setIf(&tw.RestartOnNewText, e.RestartOnNewText)
		tw.InvertAnimation = e.InvertAnimation
		tw.InvertOrder = e.InvertOrder
		for _, m := range e.Modules {
			if tm, ok := m.Module.(TypewriterModule); ok {
				tw.modules = append(tw.modules, tm)
			}
		}
		a = tw
	default:
		ca := NewCharacterAnimation(e.ID)
		setIf(&ca.Delay, e.Delay)
		setIf(&ca.Speed, e.Speed)
		for _, m := range e.Modules {
			if cm, ok := m.Module.(CharacterModule); ok {
				ca.modules = append(ca.modules, cm)
			}
		}
		a = ca
	}
	a.State().IgnoreChangesInParent = e.IgnoreChangesInParent
	return a
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// NewRegistryFile captures the templates of reg. Optional fields are always
// written so that a saved file is independent of future defaults.
func NewRegistryFile(reg *Registry) *RegistryFile {
	f := &RegistryFile{TargetFrameRate: reg.TargetFrameRate}
	for _, t := range reg.Templates() {
		if t == nil {
			continue
		}
		e := AnimationEntry{
			ID:                    t.ID(),
			Kind:                  t.Kind().String(),
			IgnoreChangesInParent: t.State().IgnoreChangesInParent,
		}
		switch a := t.(type) {
		case *CharacterAnimation:
			e.Delay, e.Speed = ptr(a.Delay), ptr(a.Speed)
		case *TypewriterAnimation:
			e.Delay, e.Speed = ptr(a.Delay), ptr(a.Speed)
			e.CharacterDelay = ptr(a.CharacterDelay)
			e.CharacterDuration = ptr(a.CharacterDuration)
			e.RestartOnNewText = ptr(a.RestartOnNewText)
			e.InvertAnimation = a.InvertAnimation
			e.InvertOrder = a.InvertOrder
		}
		for _, m := range t.Modules() {
			if m != nil {
				e.Modules = append(e.Modules, ModuleEntry{Module: m})
			}
		}
		f.Animations = append(f.Animations, e)
	}
	return f
}

func ptr[T any](v T) *T { return &v }
