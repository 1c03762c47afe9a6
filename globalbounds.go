package canopy

// boundsWalk configures a bounds traversal.
type boundsWalk struct {
	// trustWorld uses cached world transforms instead of composing local ones.
	trustWorld bool
	// storeWorld writes composed matrices back into Node.worldTransform. Only
	// set when the composed matrices really are world transforms.
	storeWorld bool
}

// GetGlobalBounds computes the world-space union of target's view, its
// visible and measurable descendants, and every attached effect that can
// contribute bounds. The result is written into out (which is cleared first)
// and returned.
//
// With skipUpdateTransform false, dirty ancestors and descendants are lazily
// resolved. With skipUpdateTransform true, cached world transforms are trusted;
// the caller guarantees nothing is dirty.
//
// If nothing contributed, out is set to the zero rectangle.
func GetGlobalBounds(target *Node, skipUpdateTransform bool, out *Bounds) *Bounds {
	out.Clear()

	parentTransform := ParentTransform(target, skipUpdateTransform)
	w := boundsWalk{trustWorld: skipUpdateTransform, storeWorld: !skipUpdateTransform}
	w.collect(target, out, parentTransform)

	if !out.IsValid() {
		out.Set(0, 0, 0, 0)
	}
	return out
}

// GetLocalBounds measures target's subtree in target's own coordinate space:
// target's transform is treated as the identity and dirty local transforms
// below it are resolved. Cached world transforms are left untouched. Invalid
// results collapse to the zero rectangle.
func GetLocalBounds(target *Node, out *Bounds) *Bounds {
	out.Clear()
	if target.Visible && target.Measurable {
		var w boundsWalk
		w.collectWith(target, out, identityTransform)
	}
	if !out.IsValid() {
		out.Set(0, 0, 0, 0)
	}
	return out
}

// collect visits n pre-order: n's world transform is known before its
// children are visited. Invisible or unmeasurable nodes are pruned with their
// whole subtree.
func (w boundsWalk) collect(n *Node, bounds *Bounds, parentTransform [6]float64) {
	if !n.Visible || !n.Measurable {
		return
	}

	var m [6]float64
	if w.trustWorld {
		m = n.worldTransform
	} else {
		resolveLocal(n)
		m = multiplyAffine(parentTransform, n.localTransform)
		if w.storeWorld {
			n.worldTransform = m
		}
	}
	w.collectWith(n, bounds, m)
}

// collectWith adds n's view, then its children, then its effects, using m as
// n's transform. Effects see only the bounds of n's own subtree.
func (w boundsWalk) collectWith(n *Node, bounds *Bounds, m [6]float64) {
	if !hasBoundsEffects(n) {
		w.collectContent(n, bounds, m)
		return
	}

	var sub Bounds
	sub.Clear()
	w.collectContent(n, &sub, m)
	for _, e := range n.Effects {
		if be, ok := e.(BoundsEffect); ok {
			sub.SetMatrix(m)
			be.AddBounds(&sub)
		}
	}
	bounds.AddBounds(&sub)
}

func (w boundsWalk) collectContent(n *Node, bounds *Bounds, m [6]float64) {
	if n.View != nil {
		bounds.SetMatrix(m)
		n.View.AddBounds(bounds)
	}
	for _, child := range n.children {
		w.collect(child, bounds, m)
	}
}

func hasBoundsEffects(n *Node) bool {
	for _, e := range n.Effects {
		if _, ok := e.(BoundsEffect); ok {
			return true
		}
	}
	return false
}

// GlobalBounds is a convenience wrapper around GetGlobalBounds returning a Rect.
func (n *Node) GlobalBounds(skipUpdateTransform bool) Rect {
	var b Bounds
	return GetGlobalBounds(n, skipUpdateTransform, &b).Rectangle()
}

// LocalBounds is a convenience wrapper around GetLocalBounds returning a Rect.
func (n *Node) LocalBounds() Rect {
	var b Bounds
	return GetLocalBounds(n, &b).Rectangle()
}
