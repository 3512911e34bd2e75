// Package textfx animates text glyph by glyph for [Ebitengine].
//
// Text is laid out from a BMFont atlas into one quad per visible glyph. An
// [Animator] mutates those quads every frame through animations looked up in
// a [Registry], then draws them with DrawTriangles.
//
// # Quick start
//
//	font, _ := textfx.LoadBitmapFont(fntData)
//	font.SetAtlas(atlasImage)
//
//	reg, _ := textfx.LoadRegistryFile("animations.yaml")
//	block := textfx.NewTextBlock("", font)
//	anim := textfx.NewAnimator(block, reg, "text-typewriter-reveal")
//	anim.SetText(`Hello <link anim="wave,rainbow">world</link>!`)
//
//	func (g *Game) Update() error        { g.anim.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.anim.Draw(s, &textfx.DrawOptions{}) }
//
// # Animations
//
// A [CharacterAnimation] runs continuously on the glyphs of every markup tag
// that names it: <link anim="a,b">...</link> applies a then b. A
// [TypewriterAnimation] reveals every glyph of the block one after another
// and is attached with the class text-typewriter-<id>. The delay tag
// </noparse delay="0.5"> pauses a typewriter before the following glyphs.
//
// Both kinds are ordered lists of modules. Character modules (color,
// gradient, rainbow, rotate, scale, shake, sketchy, translate) receive the
// animation time; typewriter modules (typewriterColor, typewriterRotate,
// typewriterScale, typewriterShake, typewriterTranslate) receive the
// normalized progress of each glyph's reveal.
//
// # Templates and copies
//
// Registry templates are never animated directly. Text blocks animate
// pooled copies that remember their parent; after editing a template, call
// [AnimationState.MarkAsChanged] and every live copy picks up the new values
// on its next update without restarting.
//
// # Persistence
//
// Registries are YAML documents (see [RegistryFile]). A [PresetStore] saves
// them across sessions through [gdata]. Lifecycle events can be forwarded to
// an ECS through [EventSink]; textfx/ecs provides a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gdata]: https://github.com/quasilyte/gdata
// [Donburi]: https://github.com/yohamta/donburi
package textfx
