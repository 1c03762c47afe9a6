package canopy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the projection source of a scene: it maps world space to the
// pixels of the render target.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the target-space rectangle the camera renders into.
	Viewport Rect

	// CullEnabled skips views whose world bounds miss VisibleBounds while
	// instructions are built.
	CullEnabled bool

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	followTarget *Node
	followOffset Vec2
	followLerp   float64

	// projection is cached for the state it was computed from.
	projection    [6]float64
	invProjection [6]float64
	projState     cameraState
	projValid     bool

	scroll *scrollAnim
}

type cameraState struct {
	x, y, zoom, rotation float64
	viewport             Rect
}

// NewCamera creates a camera centered on the origin with the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1,
		Viewport: viewport,
	}
}

// Follow makes the camera track node's world position plus the offset. A lerp
// of 1 snaps immediately; lower values trail behind.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffset = Vec2{X: offsetX, Y: offsetY}
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// IsScrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) IsScrolling() bool {
	return c.scroll != nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll and bounds clamping by dt seconds. The follow
// target's world transform must be current (Scene.Update runs the layer
// update first).
func (c *Camera) Update(dt float32) {
	if t := c.followTarget; t != nil && !t.IsDisposed() {
		tx := t.worldTransform[4] + c.followOffset.X
		ty := t.worldTransform[5] + c.followOffset.Y
		c.X += (tx - c.X) * c.followLerp
		c.Y += (ty - c.Y) * c.followLerp
	}

	if s := c.scroll; s != nil {
		if !s.doneX {
			v, done := s.tweenX.Update(dt)
			c.X, s.doneX = float64(v), done
		}
		if !s.doneY {
			v, done := s.tweenY.Update(dt)
			c.Y, s.doneY = float64(v), done
		}
		if s.doneX && s.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts the camera position so the visible area stays
// within Bounds; an area smaller than the view is centered.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX, maxX := c.Bounds.X+halfW, c.Bounds.Right()-halfW
	minY, maxY := c.Bounds.Y+halfH, c.Bounds.Bottom()-halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// Projection returns the world-to-target matrix:
// Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y).
func (c *Camera) Projection() [6]float64 {
	st := cameraState{x: c.X, y: c.Y, zoom: c.Zoom, rotation: c.Rotation, viewport: c.Viewport}
	if c.projValid && st == c.projState {
		return c.projection
	}
	c.projState, c.projValid = st, true

	cos := math.Cos(-c.Rotation)
	sin := math.Sin(-c.Rotation)
	z := c.Zoom
	center := c.Viewport.Center()

	m := [6]float64{1, 0, 0, 1, -c.X, -c.Y}
	m = multiplyAffine([6]float64{z * cos, z * sin, -z * sin, z * cos, 0, 0}, m)
	m = multiplyAffine([6]float64{1, 0, 0, 1, center.X, center.Y}, m)

	c.projection = m
	c.invProjection = invertAffine(m)
	return m
}

// WorldToScreen converts world coordinates to target coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.Projection(), wx, wy)
}

// ScreenToWorld converts target coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.Projection()
	return transformPoint(c.invProjection, sx, sy)
}

// VisibleBounds returns the world-space AABB of the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.Projection()
	var b Bounds
	b.Clear()
	b.SetMatrix(c.invProjection)
	b.AddRect(c.Viewport)
	return b.Rectangle()
}
