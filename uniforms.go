package canopy

import "github.com/hajimehoshi/ebiten/v2"

// GlobalUniforms is the shading state shared by everything drawn inside one
// layer group.
type GlobalUniforms struct {
	Projection     [6]float64
	WorldTransform [6]float64
	// WorldColor is packed ABGR.
	WorldColor uint32
}

// UniformStack is the LIFO of global uniforms for the group being executed.
// Every Push must be matched by exactly one Pop.
type UniformStack struct {
	stack []GlobalUniforms
}

// Push makes u the current uniforms.
func (s *UniformStack) Push(u GlobalUniforms) {
	s.stack = append(s.stack, u)
}

// Pop discards the current uniforms. Popping an empty stack panics.
func (s *UniformStack) Pop() {
	if len(s.stack) == 0 {
		panic("canopy: global uniform stack underflow")
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Top returns the current uniforms; ok is false when the stack is empty.
func (s *UniformStack) Top() (u GlobalUniforms, ok bool) {
	if len(s.stack) == 0 {
		return GlobalUniforms{}, false
	}
	return s.stack[len(s.stack)-1], true
}

// Depth returns the number of pushed entries.
func (s *UniformStack) Depth() int {
	return len(s.stack)
}

// --- RenderContext ---

// Surface is the destination of batched triangles. *ebiten.Image satisfies it.
type Surface interface {
	DrawTriangles32(vertices []ebiten.Vertex, indices []uint32, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
}

// RenderStats counts the work done by one execution.
type RenderStats struct {
	DrawCalls int
	Vertices  int
	Groups    int
}

// RenderContext carries the per-execution state threaded through the pipes:
// the target surface, its projection and the uniform stack.
type RenderContext struct {
	Target   Surface
	Uniforms UniformStack
	Stats    RenderStats

	projection [6]float64
}

// NewRenderContext creates a context drawing to target. projection maps world
// space to target pixels.
func NewRenderContext(target Surface, projection [6]float64) *RenderContext {
	return &RenderContext{Target: target, projection: projection}
}

// Projection returns the target's projection matrix.
func (rc *RenderContext) Projection() [6]float64 {
	return rc.projection
}

// Finish checks that every pushed uniform entry was popped.
func (rc *RenderContext) Finish() {
	if rc.Uniforms.Depth() != 0 {
		panic("canopy: unbalanced global uniform stack at end of render")
	}
}
