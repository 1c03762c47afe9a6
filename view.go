package canopy

import "github.com/hajimehoshi/ebiten/v2"

// View is the drawable content attached to a node. AddBounds adds the view's
// local extents to b; b already carries the node's transform, so views add
// local-space rectangles or points.
type View interface {
	AddBounds(b *Bounds)
}

// Effect is anything attached to a node's effect list (filters, masks,
// padding). Effects that also implement BoundsEffect enlarge bounds queries;
// the rest are ignored by measurement.
type Effect interface{}

// BoundsEffect is an effect that contributes to bounds. It runs after the
// node's view and children, receiving the bounds of that subtree.
type BoundsEffect interface {
	AddBounds(b *Bounds)
}

// --- SpriteView ---

// SpriteView draws a TextureLayout from a source image, positioned by an
// anchor expressed as a fraction of the untrimmed size.
type SpriteView struct {
	Layout *TextureLayout
	Source *ebiten.Image
	Anchor Vec2
}

// NewSpriteView creates a view for layout, adopting the layout's default
// anchor when it has one.
func NewSpriteView(layout *TextureLayout) *SpriteView {
	v := &SpriteView{Layout: layout}
	if layout != nil {
		if a, ok := layout.DefaultAnchor(); ok {
			v.Anchor = a
		}
	}
	return v
}

// localQuad returns the local rectangle covered by the visible pixels. With a
// trim, only the trimmed area inside the untrimmed box is covered.
func (v *SpriteView) localQuad() (x0, y0, x1, y1 float64) {
	orig := v.Layout.Orig()
	if trim, ok := v.Layout.Trim(); ok {
		x0 = trim.X - v.Anchor.X*orig.Width
		y0 = trim.Y - v.Anchor.Y*orig.Height
		return x0, y0, x0 + trim.Width, y0 + trim.Height
	}
	x0 = -v.Anchor.X * orig.Width
	y0 = -v.Anchor.Y * orig.Height
	return x0, y0, x0 + orig.Width, y0 + orig.Height
}

// AddBounds adds the sprite's visible quad.
func (v *SpriteView) AddBounds(b *Bounds) {
	if v.Layout == nil {
		return
	}
	b.AddFrame(v.localQuad())
}

// --- RectView ---

// RectView is a solid rectangle drawn with the node's layer color.
type RectView struct {
	Width, Height float64
}

// AddBounds adds the rectangle (0, 0)-(Width, Height).
func (v *RectView) AddBounds(b *Bounds) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	b.AddFrame(0, 0, v.Width, v.Height)
}

// --- MeshView ---

// MeshView draws arbitrary triangles. Vertex Dst coordinates are local space;
// Src coordinates sample Source.
type MeshView struct {
	Vertices []ebiten.Vertex
	Indices  []uint32
	Source   *ebiten.Image
}

// AddBounds adds every vertex position.
func (v *MeshView) AddBounds(b *Bounds) {
	m := b.Matrix()
	for i := range v.Vertices {
		x := float64(v.Vertices[i].DstX)
		y := float64(v.Vertices[i].DstY)
		b.addPoint(m[0]*x+m[2]*y+m[4], m[1]*x+m[3]*y+m[5])
	}
}

// --- PaddingEffect ---

// PaddingEffect grows the bounds of its node's subtree by a fixed margin on
// every side, for content such as glows or outlines drawn past the geometry.
type PaddingEffect struct {
	X, Y float64
}

// AddBounds pads the accumulated subtree bounds.
func (e *PaddingEffect) AddBounds(b *Bounds) {
	b.Pad(e.X, e.Y)
}
