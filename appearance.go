package canopy

// Packed colors are 32-bit ABGR: alpha in the top byte, then blue, green and
// red in the low byte. Every channel is an 8-bit fixed-point value where 255
// means 1.0.
//
// Channel products truncate: mul8(x, y) = x*y/255 in integer arithmetic. The
// same truncation is used when quantizing alpha (a*255 rounded toward zero),
// so setting alpha to 0.5 reads back 127/255.

// colorWhite is the composition identity: opaque white.
const colorWhite uint32 = 0xFFFFFFFF

// PackColor packs 8-bit channels into an ABGR value.
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// UnpackColor splits an ABGR value into its 8-bit channels.
func UnpackColor(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// rgbToBGR swaps the red and blue bytes of a 0xRRGGBB tint.
func rgbToBGR(rgb uint32) uint32 {
	return (rgb&0xFF)<<16 | rgb&0xFF00 | (rgb>>16)&0xFF
}

func mul8(x, y uint32) uint32 {
	return x * y / 255
}

// multiplyColors composes two ABGR colors channel by channel.
func multiplyColors(a, b uint32) uint32 {
	if a == colorWhite {
		return b
	}
	if b == colorWhite {
		return a
	}
	r := mul8(a&0xFF, b&0xFF)
	g := mul8((a>>8)&0xFF, (b>>8)&0xFF)
	bl := mul8((a>>16)&0xFF, (b>>16)&0xFF)
	al := mul8(a>>24, b>>24)
	return al<<24 | bl<<16 | g<<8 | r
}

// colorScale converts an ABGR value into premultiplied float channels as used
// by ebiten.ColorScale.
func colorScale(c uint32) (r, g, b, a float32) {
	cr, cg, cb, ca := UnpackColor(c)
	a = float32(ca) / 255
	return float32(cr) / 255 * a, float32(cg) / 255 * a, float32(cb) / 255 * a, a
}

// quantizeAlpha clamps a to [0, 1] and truncates it to an 8-bit step.
func quantizeAlpha(a float64) uint8 {
	if a != a || a <= 0 { // NaN or negative
		return 0
	}
	if a >= 1 {
		return 0xFF
	}
	return uint8(a * 255)
}

// --- Node appearance ---

// Alpha returns the node's quantized opacity in [0, 1].
func (n *Node) Alpha() float64 {
	return float64(n.alpha) / 255
}

// SetAlpha clamps a to [0, 1] and stores it quantized to 1/255 steps.
// OnAppearanceChanged fires only when the stored value changes.
func (n *Node) SetAlpha(a float64) {
	q := quantizeAlpha(a)
	if q == n.alpha {
		return
	}
	n.alpha = q
	n.appearanceChanged()
}

// Tint returns the node's tint as 0xRRGGBB.
func (n *Node) Tint() uint32 {
	return n.tint
}

// SetTint sets the node's tint from a 0xRRGGBB value; higher bits are ignored.
// OnAppearanceChanged fires only when the tint changes.
func (n *Node) SetTint(rgb uint32) {
	rgb &= 0xFFFFFF
	if rgb == n.tint {
		return
	}
	n.tint = rgb
	n.appearanceChanged()
}

// LocalColor returns the node's own tint and alpha packed as ABGR.
func (n *Node) LocalColor() uint32 {
	return n.localColor
}

// LayerColor returns the node's color composed with its ancestors up to the
// nearest enclosing layer-group root, as of the last layer-group update.
func (n *Node) LayerColor() uint32 {
	return n.layerColor
}

func (n *Node) appearanceChanged() {
	n.localColor = uint32(n.alpha)<<24 | rgbToBGR(n.tint)
	markColorDirty(n)
	if n.OnAppearanceChanged != nil {
		n.OnAppearanceChanged(n)
	}
}

// markColorDirty flags n and its descendants for layer-color recomposition.
func markColorDirty(n *Node) {
	n.colorDirty = true
	for _, c := range n.children {
		markColorDirty(c)
	}
}
