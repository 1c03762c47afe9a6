package canopy

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween/ease"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	if cam.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", cam.Zoom)
	}
	if cam.CullEnabled || cam.BoundsEnabled {
		t.Error("culling and bounds should start disabled")
	}
}

func TestCameraProjection(t *testing.T) {
	tests := []struct {
		name         string
		x, y, zoom   float64
		rotation     float64
		wx, wy       float64
		wantX, wantY float64
	}{
		{"origin at center", 0, 0, 1, 0, 0, 0, 400, 300},
		{"translated", 100, 50, 1, 0, 100, 50, 400, 300},
		{"zoomed", 0, 0, 2, 0, 10, 5, 420, 310},
		{"rotated quarter", 0, 0, 1, math.Pi / 2, 1, 0, 400, 299},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(Rect{Width: 800, Height: 600})
			cam.X, cam.Y, cam.Zoom, cam.Rotation = tt.x, tt.y, tt.zoom, tt.rotation
			sx, sy := cam.WorldToScreen(tt.wx, tt.wy)
			assertNear(t, "sx", sx, tt.wantX)
			assertNear(t, "sy", sy, tt.wantY)
		})
	}
}

func TestCameraProjectionFollowsFieldWrites(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	first := cam.Projection()
	cam.X = 10
	second := cam.Projection()
	if first == second {
		t.Error("projection should be recomputed after X changes")
	}
	assertNear(t, "tx", second[4], 40)
}

func TestCameraScreenToWorldRoundTrip(t *testing.T) {
	cam := NewCamera(Rect{X: 20, Y: 10, Width: 640, Height: 480})
	cam.X, cam.Y = 33, -12
	cam.Zoom = 1.5
	cam.Rotation = 0.4
	sx, sy := cam.WorldToScreen(123, 456)
	wx, wy := cam.ScreenToWorld(sx, sy)
	assertNear(t, "wx", wx, 123)
	assertNear(t, "wy", wy, 456)
}

func TestCameraVisibleBounds(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	assertRect(t, "zoom 1", cam.VisibleBounds(), Rect{X: -400, Y: -300, Width: 800, Height: 600})

	cam.Zoom = 2
	cam.X = 100
	assertRect(t, "zoom 2", cam.VisibleBounds(), Rect{X: -100, Y: -150, Width: 400, Height: 300})
}

func TestCameraFollow(t *testing.T) {
	s := NewScene()
	target := NewContainer("target")
	target.SetPosition(100, 40)
	s.Root().AddChild(target)

	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.Follow(target, 0, 10, 0.5)
	s.SetCamera(cam)

	s.Update(0)
	assertNear(t, "x after 1", cam.X, 50)
	assertNear(t, "y after 1", cam.Y, 25)
	s.Update(0)
	assertNear(t, "x after 2", cam.X, 75)

	cam.Unfollow()
	s.Update(0)
	assertNear(t, "x after unfollow", cam.X, 75)
}

func TestCameraFollowDisposedTarget(t *testing.T) {
	target := NewContainer("target")
	target.SetPosition(10, 10)
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.Follow(target, 0, 0, 1)
	target.Dispose()
	cam.Update(0)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("camera moved to (%v, %v) for a disposed target", cam.X, cam.Y)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.ScrollTo(100, -50, 1, ease.Linear)
	if !cam.IsScrolling() {
		t.Fatal("IsScrolling should be true")
	}
	cam.Update(0.5)
	assertNear(t, "x halfway", cam.X, 50)
	assertNear(t, "y halfway", cam.Y, -25)
	cam.Update(0.5)
	assertNear(t, "x done", cam.X, 100)
	if cam.IsScrolling() {
		t.Error("scroll should be finished")
	}
}

func TestCameraBounds(t *testing.T) {
	tests := []struct {
		name         string
		bounds       Rect
		x, y         float64
		wantX, wantY float64
	}{
		{"inside", Rect{Width: 2000, Height: 2000}, 1000, 1000, 1000, 1000},
		{"clamped low", Rect{Width: 2000, Height: 2000}, 0, 0, 400, 300},
		{"clamped high", Rect{Width: 2000, Height: 2000}, 5000, 5000, 1600, 1700},
		{"smaller than view", Rect{X: 10, Y: 20, Width: 100, Height: 100}, 0, 0, 60, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(Rect{Width: 800, Height: 600})
			cam.SetBounds(tt.bounds)
			cam.X, cam.Y = tt.x, tt.y
			cam.Update(0)
			assertNear(t, "x", cam.X, tt.wantX)
			assertNear(t, "y", cam.Y, tt.wantY)
		})
	}
}

func TestCameraClearBounds(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.SetBounds(Rect{Width: 1000, Height: 1000})
	cam.ClearBounds()
	cam.X = -5000
	cam.Update(0)
	assertNear(t, "x", cam.X, -5000)
}

func TestCameraCulling(t *testing.T) {
	build := func(cull bool) RenderStats {
		s := NewScene()
		s.Pipes().Batch.White = new(ebiten.Image)
		s.Root().AddChild(box("inside", 10, 10, 5, 5))
		s.Root().AddChild(box("outside", 500, 500, 5, 5))
		cam := NewCamera(Rect{Width: 100, Height: 100})
		cam.X, cam.Y = 50, 50
		cam.CullEnabled = cull
		s.SetCamera(cam)
		return s.Draw(&recordingSurface{})
	}
	if got := build(true).Vertices; got != 4 {
		t.Errorf("culled vertices = %d, want 4", got)
	}
	if got := build(false).Vertices; got != 8 {
		t.Errorf("unculled vertices = %d, want 8", got)
	}
}

func TestCullingKeepsChildrenOfCulledNode(t *testing.T) {
	s := NewScene()
	s.Pipes().Batch.White = new(ebiten.Image)
	far := box("far", 500, 0, 5, 5)
	near := box("near", -495, 0, 5, 5)
	far.AddChild(near)
	s.Root().AddChild(far)
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.X, cam.Y = 50, 50
	cam.CullEnabled = true
	s.SetCamera(cam)

	if got := s.Draw(&recordingSurface{}).Vertices; got != 4 {
		t.Errorf("vertices = %d, want 4 (child inside the view)", got)
	}
}

func TestCullingAfterLazyQuery(t *testing.T) {
	s := NewScene()
	s.Pipes().Batch.White = new(ebiten.Image)
	group := NewContainer("group")
	group.SetPosition(500, 0)
	marker := NewContainer("marker")
	group.AddChild(marker)
	group.AddChild(box("shape", 0, 0, 5, 5))
	s.Root().AddChild(group)
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.X, cam.Y = 50, 50
	cam.CullEnabled = true
	s.SetCamera(cam)
	if got := s.Draw(&recordingSurface{}).Vertices; got != 0 {
		t.Fatalf("vertices = %d, want the shape culled", got)
	}

	// the sibling query resolves group before the next frame
	group.SetPosition(10, 10)
	ResolveWorldTransform(marker, false)
	if got := s.Draw(&recordingSurface{}).Vertices; got != 4 {
		t.Errorf("vertices = %d, want the moved shape drawn", got)
	}
}

func TestCameraFollowAfterLazyQuery(t *testing.T) {
	s := NewScene()
	parent := NewContainer("parent")
	target := NewContainer("target")
	parent.AddChild(target)
	s.Root().AddChild(parent)
	cam := NewCamera(Rect{Width: 100, Height: 100})
	cam.Follow(target, 0, 0, 1)
	s.SetCamera(cam)
	s.Update(0)

	parent.SetPosition(40, 30)
	parent.GlobalBounds(false)
	s.Update(0)
	assertNear(t, "x", cam.X, 40)
	assertNear(t, "y", cam.Y, 30)
}

func BenchmarkCameraCulling(b *testing.B) {
	s := NewScene()
	s.Pipes().Batch.White = new(ebiten.Image)
	for i := 0; i < 10000; i++ {
		s.Root().AddChild(box("b", float64(i%100)*20, float64(i/100)*20, 16, 16))
	}
	cam := NewCamera(Rect{Width: 640, Height: 480})
	cam.CullEnabled = true
	s.SetCamera(cam)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.BuildInstructions()
	}
}
