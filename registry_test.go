package textfx

import "testing"

func TestRegistry_Add(t *testing.T) {
	r := NewRegistry()
	if err := r.Add(NewCharacterAnimation("wave")); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		anim Animation
	}{
		{"nil", nil},
		{"empty id", NewCharacterAnimation("")},
		{"duplicate", NewTypewriterAnimation("wave")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := r.Add(tt.anim); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if len(r.Templates()) != 1 {
		t.Errorf("Templates = %d, want 1", len(r.Templates()))
	}
}

func TestRegistry_RuntimeCopies(t *testing.T) {
	r := newTestRegistry()
	anims := r.Animations()
	if len(anims) != len(r.Templates()) {
		t.Fatalf("Animations = %d, want %d", len(anims), len(r.Templates()))
	}
	for i, a := range anims {
		tpl := r.Templates()[i]
		if a == tpl || a.State().Parent != tpl {
			t.Errorf("runtime copy %d is not parented to its template", i)
		}
	}
	if r.Animation("wave") != anims[0] {
		t.Error("Animation(wave) should return the runtime copy")
	}
	if r.Animation("missing") != nil {
		t.Error("Animation(missing) should be nil")
	}
	// Stable between calls.
	if r.Animations()[0] != anims[0] {
		t.Error("runtime copies rebuilt without a change")
	}
}

func TestRegistry_CopiesForTags(t *testing.T) {
	r := newTestRegistry()
	tags := []TagInfo{{IDs: []string{"wave", "missing"}}, {}, {IDs: []string{"tint"}}}

	copies := r.CopiesForTags(tags, nil)
	if len(copies) != 3 {
		t.Fatalf("copies = %d, want 3", len(copies))
	}
	if copies[0].ID() != "wave" || copies[1] != nil || copies[2].ID() != "tint" {
		t.Errorf("copies = %v", copies)
	}
	if copies[0].State().Parent != r.Animation("wave") {
		t.Error("tag copy should be parented to the runtime copy")
	}

	copies = r.CopiesForTags(tags[2:], copies)
	if len(copies) != 1 || r.Pool().Len("wave") != 1 {
		t.Errorf("old copies not released: len %d, pooled wave %d", len(copies), r.Pool().Len("wave"))
	}
}

func TestRegistry_CopiesForIDs(t *testing.T) {
	r := newTestRegistry()
	copies := r.CopiesForIDs([]string{"reveal", "nope"}, nil)
	if len(copies) != 2 || copies[0].Kind() != AnimationTypewriter || copies[1] != nil {
		t.Errorf("copies = %v", copies)
	}
	copies = r.Release(copies)
	if len(copies) != 0 || r.Pool().Len("reveal") != 1 {
		t.Error("Release did not pool the copy")
	}
}

func TestRegistry_ParentChangePropagation(t *testing.T) {
	r := newTestRegistry()
	tpl := r.Template("tint").(*CharacterAnimation)
	c := r.CopiesForTags([]TagInfo{{IDs: []string{"tint"}}}, nil)[0].(*CharacterAnimation)

	tpl.Speed = 3
	PullChangedValuesIfNecessary(c)
	if c.Speed != 1 {
		t.Errorf("Speed = %v, edits must not propagate before MarkAsChanged", c.Speed)
	}

	tpl.MarkAsChanged()
	PullChangedValuesIfNecessary(c)
	if c.Speed != 3 {
		t.Errorf("Speed = %v, want 3 after MarkAsChanged", c.Speed)
	}
	if rt := r.Animation("tint").(*CharacterAnimation); rt.Speed != 3 {
		t.Errorf("runtime copy Speed = %v, want 3", rt.Speed)
	}

	// Added modules reach the copy as well.
	tpl.AddModule(NewCharacterScale())
	PullChangedValuesIfNecessary(c)
	if len(c.Modules()) != 2 || c.Modules()[1].Kind() != ModuleCharacterScale {
		t.Errorf("modules = %d after AddModule", len(c.Modules()))
	}
	if c.Modules()[1] == tpl.Modules()[1] {
		t.Error("copy shares the added module with the template")
	}

	tpl.RemoveModuleAt(0)
	PullChangedValuesIfNecessary(c)
	if len(c.Modules()) != 1 || c.Modules()[0].Kind() != ModuleCharacterScale {
		t.Error("removed module still present on the copy")
	}
}

func TestRegistry_IgnoreChangesInParent(t *testing.T) {
	r := newTestRegistry()
	tpl := r.Template("wave").(*CharacterAnimation)
	c := r.CopiesForTags([]TagInfo{{IDs: []string{"wave"}}}, nil)[0].(*CharacterAnimation)
	c.IgnoreChangesInParent = true

	tpl.Delay = 2
	tpl.MarkAsChanged()
	PullChangedValuesIfNecessary(c)
	if c.Delay != 0 {
		t.Errorf("Delay = %v, copy should ignore its parent", c.Delay)
	}
}

func TestRegistry_RemoveAndDefrag(t *testing.T) {
	r := newTestRegistry()
	r.Animations()
	if !r.Remove("wave") {
		t.Fatal("Remove(wave) = false")
	}
	if r.Remove("wave") {
		t.Error("second Remove(wave) = true")
	}
	if r.Animation("wave") != nil || len(r.Animations()) != 3 {
		t.Error("runtime copies not rebuilt after Remove")
	}

	r.templates = append(r.templates, nil)
	r.Defrag()
	if len(r.Templates()) != 3 {
		t.Errorf("Templates = %d after Defrag, want 3", len(r.Templates()))
	}
}

func TestRegistry_MarkAllChanged(t *testing.T) {
	r := newTestRegistry()
	before := r.Template("wave").State().ValueChangeIndex()
	r.MarkAllChanged()
	if r.Template("wave").State().ValueChangeIndex() != before+1 {
		t.Error("MarkAllChanged did not bump the template generation")
	}
}

func TestModuleLookup(t *testing.T) {
	a := NewCharacterAnimation("x", NewCharacterColor(), NewCharacterShake(), NewCharacterColor())
	if c, ok := ModuleOf[*CharacterColor](a, 1); !ok || c != a.Modules()[2] {
		t.Error("ModuleOf did not find the second color module")
	}
	if _, ok := ModuleOf[*CharacterScale](a, 0); ok {
		t.Error("ModuleOf found a missing module")
	}
	if ModuleAt(a, 1).Kind() != ModuleCharacterShake || ModuleAt(a, 3) != nil {
		t.Error("ModuleAt")
	}
	if ModuleNamed(a, "Color", 1) != a.Modules()[2] || a.Module("Shake", 0) == nil {
		t.Error("ModuleNamed")
	}
}
