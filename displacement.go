package canopy

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// displacementShaderSrc offsets every source pixel by the red and green
// channels of the map texture (0.5 is no offset), rotated into the map's
// orientation and scaled by Scale.
const displacementShaderSrc = `//kage:unit pixels
package main

var FilterMatrix mat3
var Scale vec2
var Rotation vec4

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	mp := (FilterMatrix * vec3(src, 1)).xy
	m := imageSrc1At(mp)
	if m.a > 0 {
		m.rgb /= m.a
	}
	off := m.rg - 0.5
	off = vec2(Rotation.x*off.x+Rotation.z*off.y, Rotation.y*off.x+Rotation.w*off.y)
	return imageSrc0At(src + off*Scale)
}
`

var displacementShader *ebiten.Shader

func ensureDisplacementShader() *ebiten.Shader {
	if displacementShader == nil {
		s, err := ebiten.NewShader([]byte(displacementShaderSrc))
		if err != nil {
			panic("canopy: failed to compile displacement shader: " + err.Error())
		}
		displacementShader = s
	}
	return displacementShader
}

// defaultDisplacementScale is used when NewDisplacementFilter gets scale 0.
const defaultDisplacementScale = 20

// DisplacementFilter is an effect that shifts the pixels of its node's
// rendered output by the colors of a map sprite. The map sprite is only
// sampled, never drawn itself.
type DisplacementFilter struct {
	// Map is the sprite node whose texture and world transform drive the
	// displacement. Its view must be a *SpriteView.
	Map *Node
	// Scale is the maximum displacement in pixels along each axis.
	Scale Vec2

	filterMatrix [6]float64
	rotation     [4]float32
	shaderOp     ebiten.DrawRectShaderOptions
}

// NewDisplacementFilter creates a filter driven by mapSprite. A zero scale
// selects the default of 20 pixels. mapSprite is made non-renderable.
func NewDisplacementFilter(mapSprite *Node, scale float64) *DisplacementFilter {
	if scale == 0 {
		scale = defaultDisplacementScale
	}
	mapSprite.Renderable = false
	return &DisplacementFilter{
		Map:      mapSprite,
		Scale:    Vec2{X: scale, Y: scale},
		rotation: [4]float32{1, 0, 0, 1},
	}
}

// AddBounds pads the filtered subtree by half the scale, the furthest a pixel
// can move.
func (f *DisplacementFilter) AddBounds(b *Bounds) {
	b.Pad(math.Abs(f.Scale.X)/2, math.Abs(f.Scale.Y)/2)
}

// Padding returns the whole-pixel padding needed around the filter input.
func (f *DisplacementFilter) Padding() int {
	return int(math.Ceil(math.Max(math.Abs(f.Scale.X), math.Abs(f.Scale.Y)) / 2))
}

// Rotation returns the map sprite's normalized rotation (a, b, c, d) as of
// the last UpdateUniforms.
func (f *DisplacementFilter) Rotation() [4]float32 {
	return f.rotation
}

// FilterMatrix returns the matrix from world space to map-texture pixels as
// of the last UpdateUniforms.
func (f *DisplacementFilter) FilterMatrix() [6]float64 {
	return f.filterMatrix
}

// UpdateUniforms recomputes the rotation and filter matrix from the map
// sprite's resolved world transform. The rotation keeps the previous value
// when the map is degenerate (a zero-length axis).
func (f *DisplacementFilter) UpdateUniforms() {
	wt := ResolveWorldTransform(f.Map, false)

	lenX := math.Hypot(wt[0], wt[1])
	lenY := math.Hypot(wt[2], wt[3])
	if lenX != 0 && lenY != 0 {
		f.rotation = [4]float32{
			float32(wt[0] / lenX),
			float32(wt[1] / lenX),
			float32(wt[2] / lenY),
			float32(wt[3] / lenY),
		}
	}

	f.filterMatrix = invertAffine(wt)
	v, ok := f.Map.View.(*SpriteView)
	if !ok || v.Layout == nil {
		return
	}
	x0, y0, x1, y1 := v.localQuad()
	frame := v.Layout.Frame()
	if x1 == x0 || y1 == y0 {
		return
	}
	toFrame := [6]float64{
		frame.Width / (x1 - x0), 0,
		0, frame.Height / (y1 - y0),
		frame.X - x0*frame.Width/(x1-x0),
		frame.Y - y0*frame.Height/(y1-y0),
	}
	f.filterMatrix = multiplyAffine(toFrame, f.filterMatrix)
}

// Uniforms returns the shader uniforms for an input whose pixel (0, 0) lies
// at world position origin.
func (f *DisplacementFilter) Uniforms(origin Vec2) map[string]any {
	return f.uniformsFor([6]float64{1, 0, 0, 1, origin.X, origin.Y})
}

// uniformsFor returns the shader uniforms for an input whose pixels map to
// world space through inputToWorld.
func (f *DisplacementFilter) uniformsFor(inputToWorld [6]float64) map[string]any {
	m := multiplyAffine(f.filterMatrix, inputToWorld)
	return map[string]any{
		// mat3, column-major
		"FilterMatrix": []float32{
			float32(m[0]), float32(m[1]), 0,
			float32(m[2]), float32(m[3]), 0,
			float32(m[4]), float32(m[5]), 1,
		},
		"Scale":    []float32{float32(f.Scale.X), float32(f.Scale.Y)},
		"Rotation": f.rotation[:],
	}
}

// Apply renders src into dst with the displacement applied. origin is the
// world position of src's pixel (0, 0).
func (f *DisplacementFilter) Apply(src, dst *ebiten.Image, origin Vec2) {
	f.apply(src, dst, [6]float64{1, 0, 0, 1, origin.X, origin.Y})
}

func (f *DisplacementFilter) apply(src, dst *ebiten.Image, inputToWorld [6]float64) {
	v, ok := f.Map.View.(*SpriteView)
	if !ok || v.Source == nil {
		dst.DrawImage(src, nil)
		return
	}
	f.UpdateUniforms()
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Images[1] = v.Source
	f.shaderOp.Uniforms = f.uniformsFor(inputToWorld)
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), ensureDisplacementShader(), &f.shaderOp)
}
