package canopy

// LayerGroup is a rendering scope rooted at one node. Members (the root's
// descendants up to the next nested group root) are batched in the group's
// own InstructionSet with transforms and colors relative to the root; the
// group's world transform and world color are applied once, at execution,
// through the global uniform stack.
//
// Color composition restarts at every group root: members compose up to the
// root only. The group's world color carries everything above it, so nested
// groups still render with the ancestor-composed color.
type LayerGroup struct {
	root     *Node
	children []*LayerGroup

	worldTransform [6]float64
	worldColor     uint32

	instructions InstructionSet
	released     bool
}

func newLayerGroup(root *Node) *LayerGroup {
	return &LayerGroup{
		root:           root,
		worldTransform: identityTransform,
		worldColor:     colorWhite,
	}
}

// PipeID routes a group instruction to the layer pipe.
func (g *LayerGroup) PipeID() string { return PipeLayer }

// Root returns the node the group is rooted at, or nil once released.
func (g *LayerGroup) Root() *Node { return g.root }

// Parent returns the nearest enclosing group, or nil for an outermost group.
func (g *LayerGroup) Parent() *LayerGroup {
	if g.root == nil {
		return nil
	}
	for p := g.root.Parent; p != nil; p = p.Parent {
		if p.layerGroup != nil {
			return p.layerGroup
		}
	}
	return nil
}

// Children returns the groups directly nested in g, in tree order, as of the
// last update. The returned slice MUST NOT be mutated by the caller.
func (g *LayerGroup) Children() []*LayerGroup { return g.children }

// WorldTransform returns the root's world transform as of the last update.
func (g *LayerGroup) WorldTransform() [6]float64 { return g.worldTransform }

// WorldColor returns the group's ancestor-composed color (packed ABGR) as of
// the last update.
func (g *LayerGroup) WorldColor() uint32 { return g.worldColor }

// Instructions returns the group's instruction set.
func (g *LayerGroup) Instructions() *InstructionSet { return &g.instructions }

// IsReleased reports whether the group's root was disposed or the group
// disabled.
func (g *LayerGroup) IsReleased() bool { return g.released }

func (g *LayerGroup) release() {
	g.instructions.Reset()
	g.children = nil
	g.root = nil
	g.released = true
}

// --- Node API ---

// EnableLayerGroup makes n the root of a layer group and returns it. Calling
// it on a node that already roots a group returns the existing group.
func (n *Node) EnableLayerGroup() *LayerGroup {
	if n.layerGroup == nil {
		n.layerGroup = newLayerGroup(n)
		markColorDirty(n)
	}
	return n.layerGroup
}

// DisableLayerGroup releases the group rooted at n, if any. Its members join
// the enclosing group on the next update.
func (n *Node) DisableLayerGroup() {
	if n.layerGroup == nil {
		return
	}
	n.layerGroup.release()
	n.layerGroup = nil
	markColorDirty(n)
}

// LayerGroup returns the group rooted at n, or nil.
func (n *Node) LayerGroup() *LayerGroup { return n.layerGroup }

// IsLayerGroupRoot reports whether n roots a layer group.
func (n *Node) IsLayerGroupRoot() bool { return n.layerGroup != nil }

// LayerTransform returns n's transform relative to the root of its enclosing
// group, as of the last update. A group root's layer transform is the identity.
func (n *Node) LayerTransform() [6]float64 { return n.layerTransform }

// --- Update ---

// UpdateLayerGroup refreshes the world transforms below g's root, then the
// layer values of g and of every group nested in it.
func UpdateLayerGroup(g *LayerGroup) {
	root := g.root
	if root == nil {
		return
	}
	updateSubtreeTransforms(root, ParentTransform(root, false), root.Parent != nil)
	updateLayerGroupTransforms(g, true)
}

// updateLayerGroupTransforms recomputes g's world values from its root and
// the layer transform and layer color of every member. World transforms of
// the root and members must already be current. With updateChildren, nested
// groups are refreshed too; otherwise they are only recorded as children.
func updateLayerGroupTransforms(g *LayerGroup, updateChildren bool) {
	if g.root == nil {
		return
	}
	g.refresh(enclosingLayerColor(g.root), g.Parent(), updateChildren)
}

// refresh sets g's world values. enclosing is the composed local color of
// the nodes strictly between the parent group's root and g's root.
func (g *LayerGroup) refresh(enclosing uint32, parent *LayerGroup, updateChildren bool) {
	root := g.root
	g.worldTransform = root.worldTransform
	g.worldColor = multiplyColors(root.localColor, enclosing)
	if parent != nil {
		g.worldColor = multiplyColors(g.worldColor, parent.worldColor)
	}

	root.layerTransform = identityTransform
	root.layerColor = colorWhite
	root.colorDirty = false

	g.children = g.children[:0]
	for _, c := range root.children {
		g.updateMember(c, identityTransform, colorWhite, updateChildren)
	}
}

func (g *LayerGroup) updateMember(n *Node, parentTransform [6]float64, parentColor uint32, updateChildren bool) {
	if n.layerGroup != nil {
		g.children = append(g.children, n.layerGroup)
		if updateChildren {
			n.layerGroup.refresh(parentColor, g, true)
		}
		return
	}

	resolveLocal(n)
	n.layerTransform = multiplyAffine(parentTransform, n.localTransform)
	n.layerColor = multiplyColors(n.localColor, parentColor)
	n.colorDirty = false

	for _, c := range n.children {
		g.updateMember(c, n.layerTransform, n.layerColor, updateChildren)
	}
}

// enclosingLayerColor composes the local colors of n's ancestors up to, but
// not including, the nearest group root.
func enclosingLayerColor(n *Node) uint32 {
	c := colorWhite
	for p := n.Parent; p != nil && p.layerGroup == nil; p = p.Parent {
		c = multiplyColors(c, p.localColor)
	}
	return c
}
