package canopy

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// subtreeScene builds n (scaled, half alpha) with a plain child and a nested
// group child, all 10x10 boxes, and returns the scene and n.
func subtreeScene() (*Scene, *Node) {
	s := drawScene()
	n := box("n", 50, 50, 10, 10)
	n.SetScale(2, 2)
	n.SetAlpha(0.5)
	n.AddChild(box("child", 5, 0, 10, 10))
	group := NewLayerGroupContainer("group")
	group.SetPosition(20, 0)
	group.AddChild(box("inner", 0, 0, 10, 10))
	n.AddChild(group)
	s.Root().AddChild(n)
	return s, n
}

func TestRenderSubtreeLocalSpace(t *testing.T) {
	s, n := subtreeScene()
	b := n.LocalBounds()
	assertRect(t, "local bounds", b, Rect{Width: 30, Height: 10})

	surface := &recordingSurface{}
	stats := s.renderSubtree(n, surface, b)
	if stats.DrawCalls != 2 || stats.Groups != 2 {
		t.Fatalf("stats = %+v, want 2 draw calls in 2 groups", stats)
	}

	first := surface.calls[0]
	assertVertexNear(t, "n x", first.vertices[0].DstX, 0)
	assertVertexNear(t, "n BR x", first.vertices[2].DstX, 10)
	assertVertexNear(t, "child x", first.vertices[4].DstX, 5)
	assertVertexNear(t, "alpha", first.vertices[0].ColorA, float32(127)/255)

	nested := surface.calls[1]
	assertVertexNear(t, "nested x", nested.vertices[0].DstX, 20)
	assertVertexNear(t, "nested alpha", nested.vertices[0].ColorA, float32(127)/255)
}

func TestRenderSubtreeOffsetsByBounds(t *testing.T) {
	s := drawScene()
	n := NewContainer("n")
	n.AddChild(box("a", -8, -4, 4, 4))
	s.Root().AddChild(n)

	b := n.LocalBounds()
	surface := &recordingSurface{}
	s.renderSubtree(n, surface, b)
	assertVertexNear(t, "x", surface.calls[0].vertices[0].DstX, 0)
	assertVertexNear(t, "y", surface.calls[0].vertices[0].DstY, 0)
}

func TestRenderSubtreeThenDrawRestoresWorld(t *testing.T) {
	s, n := subtreeScene()
	s.renderSubtree(n, &recordingSurface{}, n.LocalBounds())

	surface := &recordingSurface{}
	s.Draw(surface)
	last := surface.calls[len(surface.calls)-1]
	assertVertexNear(t, "inner world x", last.vertices[0].DstX, 90)
	assertVertexNear(t, "inner world y", last.vertices[0].DstY, 50)
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{-1, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {64, 64}, {65, 128}, {1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPoolKeyDistinct(t *testing.T) {
	if poolKey(64, 32) == poolKey(32, 64) {
		t.Error("width and height must not collide")
	}
}

func TestTexturePoolReuse(t *testing.T) {
	var p texturePool
	img := p.Acquire(30, 20)
	defer img.Deallocate()
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("size = %dx%d, want 32x32", b.Dx(), b.Dy())
	}
	p.Release(img)
	p.Release(nil)
	if p.Len() != 1 {
		t.Fatalf("Len = %d, want 1", p.Len())
	}
	if again := p.Acquire(17, 32); again != img {
		t.Error("same bucket should reuse the released image")
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d after reuse, want 0", p.Len())
	}
}

func TestRenderTextureSprite(t *testing.T) {
	rt := NewRenderTexture(64, 32)
	defer rt.Dispose()
	if rt.Width() != 64 || rt.Height() != 32 || rt.Image() == nil {
		t.Fatalf("texture = %dx%d", rt.Width(), rt.Height())
	}

	n := rt.NewSpriteNode("canvas")
	v := n.View.(*SpriteView)
	if v.Source != rt.Image() {
		t.Error("sprite should show the texture image")
	}

	rt.Resize(128, 32)
	if v.Source != rt.Image() {
		t.Error("sprite should follow the resized image")
	}
	assertRect(t, "bounds", n.LocalBounds(), Rect{Width: 128, Height: 32})
}

func TestRenderTextureDisposeStopsSprites(t *testing.T) {
	rt := NewRenderTexture(8, 8)
	n := rt.NewSpriteNode("canvas")
	rt.Dispose()
	if !rt.Layout().IsDestroyed() {
		t.Error("layout should be destroyed")
	}

	var set InstructionSet
	NewBatchPipe().AddNode(n, &set)
	if set.Len() != 0 {
		t.Error("sprites of a disposed texture should not draw")
	}
}

func TestRenderToTextureEmptySubtree(t *testing.T) {
	s := NewScene()
	rt := NewRenderTexture(4, 4)
	defer rt.Dispose()
	n := NewContainer("empty")
	if got := s.RenderToTexture(n, rt); got != (Rect{}) {
		t.Errorf("RenderToTexture = %v, want zero", got)
	}
	if rt.Width() != 4 {
		t.Error("empty subtree should not resize")
	}
}

func TestRenderToTextureGrows(t *testing.T) {
	s := NewScene()
	s.Pipes().Batch.White = ebiten.NewImage(1, 1)
	rt := NewRenderTexture(4, 4)
	defer rt.Dispose()

	n := box("n", 0, 0, 20, 10)
	got := s.RenderToTexture(n, rt)
	assertRect(t, "bounds", got, Rect{Width: 20, Height: 10})
	if rt.Width() != 20 || rt.Height() != 10 || rt.Bounds != got {
		t.Errorf("texture = %dx%d bounds %v", rt.Width(), rt.Height(), rt.Bounds)
	}
}
