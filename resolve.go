package canopy

// The resolver treats localTransform as a cache cell: reading it through
// resolveLocal either returns the cached matrix or recomputes it when the
// node is dirty. Queries that look read-only (bounds, world transforms)
// therefore update localTransform, worldTransform and transformDirty in place.
// A recomputation leaves worldDirty set until the next full subtree update
// has refreshed the world transforms below the node.

// resolveLocal recomputes n.localTransform if the node is dirty and clears the
// flag. Reports whether a recomputation happened.
func resolveLocal(n *Node) bool {
	if !n.transformDirty {
		return false
	}
	n.localTransform = computeLocalTransform(n)
	n.transformDirty = false
	n.worldDirty = true
	return true
}

// updateTransformBackwards ascends from target to the root and appends every
// ancestor's local transform into acc, root first. Dirty ancestors are
// resolved on the way back down and their worldTransform is refreshed from
// the running accumulator. target itself is not included.
func updateTransformBackwards(target *Node, acc *[6]float64) {
	parent := target.Parent
	if parent == nil {
		return
	}
	updateTransformBackwards(parent, acc)
	resolveLocal(parent)
	*acc = multiplyAffine(*acc, parent.localTransform)
	parent.worldTransform = *acc
}

// ParentTransform returns the matrix that maps n's parent space to world
// space. A node without a parent resolves to the identity.
//
// When skipUpdate is true the parent's cached worldTransform is trusted as-is;
// the caller guarantees nothing above n is dirty. Otherwise every ancestor is
// lazily resolved.
func ParentTransform(n *Node, skipUpdate bool) [6]float64 {
	if n.Parent == nil {
		return identityTransform
	}
	if skipUpdate {
		return n.Parent.worldTransform
	}
	acc := identityTransform
	updateTransformBackwards(n, &acc)
	return acc
}

// ResolveWorldTransform computes n's world transform without a full-tree
// update, stores it on the node and returns it. See ParentTransform for the
// meaning of skipUpdate.
func ResolveWorldTransform(n *Node, skipUpdate bool) [6]float64 {
	parent := ParentTransform(n, skipUpdate)
	resolveLocal(n)
	n.worldTransform = multiplyAffine(parent, n.localTransform)
	return n.worldTransform
}

// updateSubtreeTransforms refreshes world transforms top-down for n and its
// descendants given n's parent world matrix. Subtrees are recomputed when the
// node's local transform changed since the last update (whether resolved here
// or by an earlier lazy query) or any ancestor in this walk was recomputed.
func updateSubtreeTransforms(n *Node, parentTransform [6]float64, parentRecomputed bool) {
	resolveLocal(n)
	recompute := n.worldDirty || parentRecomputed
	n.worldDirty = false
	if recompute {
		n.worldTransform = multiplyAffine(parentTransform, n.localTransform)
	}
	for _, child := range n.children {
		updateSubtreeTransforms(child, n.worldTransform, recompute)
	}
}
