package canopy

// --- ID counter ---

// nodeIDCounter is a plain counter (canopy is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used
// for every node; drawable content is attached through View and Effects.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Cached transforms, see resolve.go.
	localTransform [6]float64
	worldTransform [6]float64
	layerTransform [6]float64
	transformDirty bool
	// worldDirty is set when localTransform was recomputed and the world
	// transforms of the subtree have not been refreshed since.
	worldDirty bool

	// Visibility. Invisible or unmeasurable nodes are pruned with their
	// subtree from bounds queries; invisible nodes are also not rendered.
	Visible    bool
	Measurable bool
	Renderable bool

	// Content
	View    View
	Effects []Effect

	// BlendMode is applied to the node's own view when batched.
	BlendMode BlendMode

	// Metadata
	UserData any
	EntityID uint32

	// Appearance, see appearance.go.
	alpha      uint8
	tint       uint32
	localColor uint32
	layerColor uint32
	colorDirty bool

	// OnAppearanceChanged fires once per actual alpha or tint change.
	OnAppearanceChanged func(n *Node)

	// layerGroup is non-nil when this node is the root of a layer group.
	layerGroup *LayerGroup

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Visible = true
	n.Measurable = true
	n.Renderable = true
	n.transformDirty = true
	n.localTransform = identityTransform
	n.worldTransform = identityTransform
	n.layerTransform = identityTransform
	n.alpha = 0xFF
	n.tint = 0xFFFFFF
	n.localColor = colorWhite
	n.layerColor = colorWhite
}

// NewContainer creates a node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

// NewSprite creates a node that draws the given texture layout.
func NewSprite(name string, layout *TextureLayout) *Node {
	n := NewContainer(name)
	n.View = NewSpriteView(layout)
	return n
}

// NewLayerGroupContainer creates a container that roots its own layer group.
func NewLayerGroupContainer(name string) *Node {
	n := NewContainer(name)
	n.EnableLayerGroup()
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("canopy: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("canopy: adding child would create a cycle")
	}
	// the valid range excludes child when it is already one of n's children
	limit := len(n.children)
	if child.Parent == n {
		limit--
	}
	if index < 0 || index > limit {
		panic("canopy: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("canopy: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("canopy: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	markSubtreeDirty(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("canopy: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("canopy: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// FindChild returns the first descendant (depth-first, pre-order) with the
// given name, or nil.
func (n *Node) FindChild(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		if found := c.FindChild(name); found != nil {
			return found
		}
	}
	return nil
}

// AddEffect appends an effect to the node's effect list.
func (n *Node) AddEffect(e Effect) {
	n.Effects = append(n.Effects, e)
}

// RemoveEffect removes the first occurrence of e from the effect list.
func (n *Node) RemoveEffect(e Effect) {
	for i, cur := range n.Effects {
		if cur == e {
			n.Effects = append(n.Effects[:i], n.Effects[i+1:]...)
			return
		}
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.View = nil
	n.Effects = nil
	n.UserData = nil
	n.OnAppearanceChanged = nil
	if n.layerGroup != nil {
		n.layerGroup.release()
		n.layerGroup = nil
	}
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty and colorDirty on node and all its
// descendants. Reparenting changes both the inherited transform and the
// inherited color.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	node.colorDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
