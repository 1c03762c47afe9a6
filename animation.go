package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of a Node simultaneously. Values are
// written back through the node's setters, so transforms are marked dirty and
// appearance changes notify as usual. Create one via the convenience
// constructors and call Update(dt) each frame. If the target node is
// disposed, the group stops immediately.
//
// There is no global animation manager: users call Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(n *Node, v *[4]float64)
	target *Node
	Done   bool
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, apply func(*Node, *[4]float64), from, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(from), target: node, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		v, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(v)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.target, &g.values)
}

// TweenPosition animates the node's position to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v *[4]float64) { n.SetPosition(v[0], v[1]) },
		[]float64{node.X, node.Y}, []float64{toX, toY})
}

// TweenScale animates the node's scale to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v *[4]float64) { n.SetScale(v[0], v[1]) },
		[]float64{node.ScaleX, node.ScaleY}, []float64{toSX, toSY})
}

// TweenRotation animates the node's rotation (radians) to to.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v *[4]float64) { n.SetRotation(v[0]) },
		[]float64{node.Rotation}, []float64{to})
}

// TweenAlpha animates the node's alpha to to. Because alpha is quantized,
// OnAppearanceChanged fires only on frames where the stored step changes.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v *[4]float64) { n.SetAlpha(v[0]) },
		[]float64{node.Alpha()}, []float64{to})
}

// TweenTint animates the node's tint channel by channel to the 0xRRGGBB
// value to.
func TweenTint(node *Node, to uint32, duration float32, fn ease.TweenFunc) *TweenGroup {
	from := node.Tint()
	return newTweenGroup(node, duration, fn,
		func(n *Node, v *[4]float64) {
			n.SetTint(channel8(v[0])<<16 | channel8(v[1])<<8 | channel8(v[2]))
		},
		[]float64{float64((from>>16)&0xFF), float64((from>>8)&0xFF), float64(from&0xFF)},
		[]float64{float64((to>>16)&0xFF), float64((to>>8)&0xFF), float64(to&0xFF)})
}

// channel8 rounds a tweened channel value into 0..255.
func channel8(v float64) uint32 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint32(v + 0.5)
	}
}
