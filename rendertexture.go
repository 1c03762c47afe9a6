package canopy

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent offscreen canvas owned by the caller. It is
// filled by Scene.RenderToTexture and shown in a tree through NewSpriteNode.
// Unlike pooled images used internally, it is never recycled.
type RenderTexture struct {
	image  *ebiten.Image
	layout *TextureLayout
	w, h   int

	// Bounds is the local rectangle covered by the last RenderToTexture.
	Bounds Rect
}

// NewRenderTexture creates a canvas of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image:  ebiten.NewImage(w, h),
		layout: NewFrameLayout(Rect{Width: float64(w), Height: float64(h)}),
		w:      w,
		h:      h,
	}
}

// Image returns the underlying image.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Layout returns the layout covering the whole texture. It is updated when
// the texture is resized.
func (rt *RenderTexture) Layout() *TextureLayout {
	return rt.layout
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Resize replaces the image with a new one of the given size. The content is
// lost. Sprites created by NewSpriteNode follow the new image.
func (rt *RenderTexture) Resize(w, h int) {
	if w == rt.w && h == rt.h {
		return
	}
	rt.image.Deallocate()
	rt.image = ebiten.NewImage(w, h)
	rt.w, rt.h = w, h
	rt.layout.SetFrame(Rect{Width: float64(w), Height: float64(h)})
	rt.layout.SetOrig(Rect{Width: float64(w), Height: float64(h)})
	rt.layout.Update()
}

// NewSpriteNode creates a sprite displaying the texture.
func (rt *RenderTexture) NewSpriteNode(name string) *Node {
	n := NewSprite(name, rt.layout)
	v := n.View.(*SpriteView)
	v.Source = rt.image
	rt.layout.Subscribe(func(*TextureLayout) { v.Source = rt.image })
	return n
}

// Dispose releases the image and destroys the layout; sprites showing the
// texture stop drawing.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
	rt.layout.Destroy()
}

// --- Subtree rendering ---

// RenderToTexture draws n's subtree into rt in n's local space, sized by
// GetLocalBounds (effect padding included), and returns the covered local
// rectangle. rt grows to fit. n's own tint and alpha apply, its ancestors' do
// not. Displacement filters attached to n then run in attachment order.
//
// Layer values below n are left relative to n until the next Scene update.
func (s *Scene) RenderToTexture(n *Node, rt *RenderTexture) Rect {
	b := n.LocalBounds()
	w, h := int(math.Ceil(b.Width)), int(math.Ceil(b.Height))
	if w <= 0 || h <= 0 {
		rt.Clear()
		rt.Bounds = Rect{}
		return Rect{}
	}
	if w > rt.w || h > rt.h {
		rt.Resize(max(w, rt.w), max(h, rt.h))
	}
	rt.Clear()
	rt.Bounds = b

	var filters []*DisplacementFilter
	for _, e := range n.Effects {
		if f, ok := e.(*DisplacementFilter); ok && f.Map != nil {
			filters = append(filters, f)
		}
	}
	if len(filters) == 0 {
		s.renderSubtree(n, rt.image, b)
		return b
	}

	src := s.pool.Acquire(w, h)
	s.renderSubtree(n, src, b)
	toWorld := multiplyAffine(n.worldTransform, [6]float64{1, 0, 0, 1, b.X, b.Y})
	for _, f := range filters {
		dst := s.pool.Acquire(w, h)
		f.apply(src, dst, toWorld)
		s.pool.Release(src)
		src = dst
	}
	rt.image.DrawImage(src, nil)
	s.pool.Release(src)
	return b
}

// renderSubtree draws n's subtree to target with the local point (b.X, b.Y)
// at the target origin. n is treated as the root of a transient layer group.
func (s *Scene) renderSubtree(n *Node, target Surface, b Rect) RenderStats {
	updateSubtreeTransforms(n, ParentTransform(n, false), n.Parent != nil)
	g := newLayerGroup(n)
	g.refresh(colorWhite, nil, true)

	builder := instructionBuilder{pipes: s.pipes}
	builder.buildGroup(g)

	// world -> n's local space -> target pixels
	projection := multiplyAffine([6]float64{1, 0, 0, 1, -b.X, -b.Y}, invertAffine(n.worldTransform))
	rc := NewRenderContext(target, projection)
	s.pipes.Layer.Execute(rc, g)
	rc.Finish()
	return rc.Stats
}

// --- Texture pool ---

// texturePool manages reusable offscreen images keyed by power-of-two
// dimensions. After warmup, Acquire and Release do not allocate.
type texturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared image with at least (w, h) pixels. Dimensions
// are rounded up to the next power of two.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	key := poolKey(pw, ph)
	if stack := p.buckets[key]; len(stack) > 0 {
		img := stack[len(stack)-1]
		p.buckets[key] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rect(0, 0, pw, ph), &ebiten.NewImageOptions{Unmanaged: true})
}

// Release returns img to the pool. It is cleared on the next Acquire.
func (p *texturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	key := poolKey(b.Dx(), b.Dy())
	p.buckets[key] = append(p.buckets[key], img)
}

// Len returns the number of pooled images.
func (p *texturePool) Len() int {
	n := 0
	for _, stack := range p.buckets {
		n += len(stack)
	}
	return n
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
