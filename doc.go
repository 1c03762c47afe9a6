// Package canopy is the geometric and dispatch core of a retained-mode 2D
// scene graph for [Ebitengine].
//
// canopy maintains a tree of [Node] values, lazily resolves their world
// transforms and bounds only when asked, and replays a per-layer-group
// instruction stream against a drawing [Surface].
//
// # Quick start
//
// Implement [ebiten.Game] and call [Scene.Update] and [Scene.Draw]:
//
//	type Game struct{ scene *canopy.Scene }
//
//	func (g *Game) Update() error         { g.scene.Update(1.0 / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image)  { g.scene.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a tree rooted at [Scene.Root] and
// carry an optional [View] (what they draw) and a list of effects. Children
// inherit their parent's transform, alpha and tint.
//
//	atlas, _ := canopy.LoadAtlas(jsonData, pages)
//	hero := atlas.Sprite("hero_idle")
//	hero.SetPosition(100, 50)
//	scene.Root().AddChild(hero)
//
// Transform setters only mark a node dirty. World transforms are resolved on
// demand by [ResolveWorldTransform], [GetGlobalBounds] and the render pass;
// these queries update the cached matrices in place.
//
// # Layer groups
//
// A node made a group root with [Node.EnableLayerGroup] batches its subtree
// into its own [InstructionSet], relative to the root. At render time the
// [LayerPipe] pushes the group's projection, world transform and world color
// onto the [RenderContext] uniform stack, replays the group's instructions,
// and pops the uniforms again. Color composition restarts at each group
// root; the group's world color carries what lies above it.
//
// # Textures
//
// A [TextureLayout] describes a frame in a source texture, its untrimmed
// size, trim and one of eight [Symmetry] values (rotations and mirrors of
// the square) that decide how the frame's corners map onto a quad.
//
// # Offscreen rendering
//
// [Scene.RenderToTexture] draws a subtree in its own local space into a
// [RenderTexture], running any [DisplacementFilter] attached to the subtree
// root. The texture can be shown again through [RenderTexture.NewSpriteNode].
// Meshes ([NewMesh], [NewPolygon], [NewDistortionGrid]) batch together with
// sprites.
//
// # Tooling
//
// Scene trees can be described in TOML ([DecodeSceneFile]); the canopy
// command measures bounds, prints UVs and dumps instruction sets from such
// files. ECS integration lives in canopy/ecs (a [Donburi] adapter).
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package canopy
