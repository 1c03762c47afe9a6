package canopy

// instructionBuilder emits the instruction sets of a group tree from the
// current node tree. Layer values must be current (see UpdateLayerGroup).
type instructionBuilder struct {
	pipes *Pipes

	// cull skips views whose world bounds miss cullRect. Children of a
	// culled node are still visited.
	cull     bool
	cullRect Rect
}

// buildGroup resets g's instruction set and refills it from g's members.
// Nested groups are added as single layer instructions and built in turn.
func (b *instructionBuilder) buildGroup(g *LayerGroup) {
	g.instructions.Reset()
	root := g.root
	if root == nil {
		return
	}
	b.addView(root, g)
	for _, c := range root.children {
		b.collect(c, g)
	}
}

func (b *instructionBuilder) collect(n *Node, g *LayerGroup) {
	if !n.Visible {
		return
	}
	if n.layerGroup != nil {
		b.pipes.Layer.AddLayerGroup(n.layerGroup, &g.instructions)
		b.buildGroup(n.layerGroup)
		return
	}
	b.addView(n, g)
	for _, c := range n.children {
		b.collect(c, g)
	}
}

func (b *instructionBuilder) addView(n *Node, g *LayerGroup) {
	if !n.Renderable || n.View == nil {
		return
	}
	if b.cull && viewCulled(n, b.cullRect) {
		return
	}
	b.pipes.Batch.AddNode(n, &g.instructions)
}

// viewCulled reports whether n's own view lies entirely outside r in world
// space. Views with no measurable extent are never culled.
func viewCulled(n *Node, r Rect) bool {
	var vb Bounds
	vb.Clear()
	vb.SetMatrix(n.worldTransform)
	n.View.AddBounds(&vb)
	if !vb.IsValid() {
		return false
	}
	return !vb.Rectangle().Intersects(r)
}
