package textfx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const testRegistryYAML = `targetFrameRate: 60
animations:
  - id: fancy
    kind: character
    speed: 2
    modules:
      - kind: color
        topLeft: {r: 1, g: 0, b: 0, a: 1}
      - kind: gradient
        singleColorPerCharacter: true
      - kind: rainbow
      - kind: rotate
        curve:
          keys:
            - {time: 1, value: 0}
            - {time: 0, value: 1}
      - kind: scale
      - kind: shake
        speed: 12
      - kind: sketchy
      - kind: translate
        name: bob
        amplitude: {x: 0, y: 4}
  - id: reveal
    kind: typewriter
    characterDelay: 0.03
    invertOrder: true
    modules:
      - kind: typewriterColor
        alphaOnly: true
      - kind: typewriterRotate
      - kind: typewriterScale
      - kind: typewriterShake
      - kind: typewriterTranslate
        positionEasing: backOut
`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistryYAML))
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	if reg.TargetFrameRate != 60 {
		t.Errorf("TargetFrameRate = %d, want 60", reg.TargetFrameRate)
	}

	fancy, ok := reg.Template("fancy").(*CharacterAnimation)
	if !ok {
		t.Fatal("fancy is not a character animation")
	}
	if fancy.Speed != 2 || fancy.Delay != 0 {
		t.Errorf("fancy timing = speed %v delay %v", fancy.Speed, fancy.Delay)
	}
	wantKinds := []ModuleKind{
		ModuleCharacterColor, ModuleCharacterGradient, ModuleCharacterRainbow, ModuleCharacterRotate,
		ModuleCharacterScale, ModuleCharacterShake, ModuleCharacterSketchy, ModuleCharacterTranslate,
	}
	if len(fancy.Modules()) != len(wantKinds) {
		t.Fatalf("fancy has %d modules, want %d", len(fancy.Modules()), len(wantKinds))
	}
	for i, k := range wantKinds {
		if got := fancy.Modules()[i].Kind(); got != k {
			t.Errorf("module %d kind = %v, want %v", i, got, k)
		}
	}

	color := fancy.Modules()[0].(*CharacterColor)
	if color.TopLeft != (Color{1, 0, 0, 1}) || color.BottomLeft != ColorWhite || color.Lerp != 1 {
		t.Errorf("color module = %+v", color)
	}
	rotate := fancy.Modules()[3].(*CharacterRotate)
	if rotate.Curve.Keys[0].Time != 0 || rotate.Curve.Keys[0].Value != 1 {
		t.Errorf("rotate curve keys not sorted: %+v", rotate.Curve.Keys)
	}
	if shake := fancy.Modules()[5].(*CharacterShake); shake.Speed != 12 || shake.MaxDisplacement != (Vec2{1, 3}) {
		t.Errorf("shake = %+v", shake)
	}
	translate := fancy.Modules()[7].(*CharacterTranslate)
	if translate.Name() != "bob" || translate.Amplitude != (Vec2{0, 4}) || translate.Offset != (Vec2{0, -5}) {
		t.Errorf("translate = %q %+v", translate.Name(), translate)
	}
	if fancy.Modules()[2].Name() != "Rainbow" {
		t.Errorf("unnamed module name = %q, want the default", fancy.Modules()[2].Name())
	}

	reveal, ok := reg.Template("reveal").(*TypewriterAnimation)
	if !ok {
		t.Fatal("reveal is not a typewriter")
	}
	if reveal.CharacterDelay != 0.03 || reveal.CharacterDuration != 0.3 || !reveal.InvertOrder || !reveal.RestartOnNewText {
		t.Errorf("reveal timing = %+v", reveal)
	}
	if len(reveal.Modules()) != 5 {
		t.Fatalf("reveal has %d modules, want 5", len(reveal.Modules()))
	}
	if !reveal.Modules()[0].(*TypewriterColor).AlphaOnly {
		t.Error("typewriterColor alphaOnly not decoded")
	}
	if e := reveal.Modules()[4].(*TypewriterTranslate).PositionEasing; e != EaseBackOut {
		t.Errorf("positionEasing = %v, want backOut", e)
	}
}

func TestMarshalRegistry_RoundTrip(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistryYAML))
	if err != nil {
		t.Fatal(err)
	}
	first, err := MarshalRegistry(reg)
	if err != nil {
		t.Fatal(err)
	}
	again, err := ParseRegistry(first)
	if err != nil {
		t.Fatalf("re-parse: %v\n%s", err, first)
	}
	second, err := MarshalRegistry(again)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Errorf("round trip changed the document:\n%s\n---\n%s", first, second)
	}
}

func TestModuleEntry_MarshalPutsKindFirst(t *testing.T) {
	out, err := yaml.Marshal(ModuleEntry{Module: NewCharacterShake()})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "kind: shake\nname: Shake\n") {
		t.Errorf("marshal = %q", out)
	}
	if _, err := yaml.Marshal(ModuleEntry{}); err == nil {
		t.Error("expected an error for a nil module")
	}
}

func TestParseRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"bad yaml", "animations: [", "parse yaml"},
		{"missing id", "animations:\n  - kind: character\n", "id is required"},
		{"duplicate id", "animations:\n  - {id: a, kind: character}\n  - {id: a, kind: character}\n", "duplicate id"},
		{"bad kind", "animations:\n  - {id: a, kind: sparkle}\n", "unknown animation kind"},
		{"zero speed", "animations:\n  - {id: a, kind: character, speed: 0}\n", "speed must not be 0"},
		{"zero duration", "animations:\n  - {id: a, kind: typewriter, characterDuration: 0}\n", "characterDuration"},
		{"character timing", "animations:\n  - {id: a, kind: character, characterDelay: 0.1}\n", "per-character timing"},
		{"module kind mismatch", "animations:\n  - id: a\n    kind: character\n    modules:\n      - kind: typewriterColor\n", "does not fit"},
		{"module without kind", "animations:\n  - id: a\n    kind: character\n    modules:\n      - speed: 1\n", "has no kind"},
		{"unknown module", "animations:\n  - id: a\n    kind: character\n    modules:\n      - kind: wobble\n", "unknown module kind"},
		{"bad module field", "animations:\n  - id: a\n    kind: character\n    modules:\n      - {kind: shake, speed: fast}\n", "shake"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseRegistry_Defaults(t *testing.T) {
	reg, err := ParseRegistry([]byte("animations:\n  - {id: a, kind: character}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if reg.TargetFrameRate != 30 {
		t.Errorf("TargetFrameRate = %d, want 30", reg.TargetFrameRate)
	}
	if a := reg.Template("a").(*CharacterAnimation); a.Speed != 1 || len(a.Modules()) != 0 {
		t.Errorf("defaults = %+v", a)
	}
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animations.yaml")
	if err := os.WriteFile(path, []byte(testRegistryYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(reg.Templates()) != 2 {
		t.Errorf("Templates = %d, want 2", len(reg.Templates()))
	}

	if _, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
