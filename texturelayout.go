package canopy

import "slices"

// UVs holds the four source-texture coordinates sampled by a quad's corners,
// in destination winding: 0 top-left, 1 top-right, 2 bottom-right,
// 3 bottom-left. Values are in source pixel space.
type UVs struct {
	X0, Y0 float64
	X1, Y1 float64
	X2, Y2 float64
	X3, Y3 float64
}

// Corner returns the i-th corner (0..3).
func (u UVs) Corner(i int) (x, y float64) {
	switch i {
	case 0:
		return u.X0, u.Y0
	case 1:
		return u.X1, u.Y1
	case 2:
		return u.X2, u.Y2
	default:
		return u.X3, u.Y3
	}
}

// computeUVs maps the corners of frame under symmetry s. The identity takes
// the frame corners directly; every other code walks the corners starting
// from the top-left direction, turning 90° clockwise per corner.
//
// s must be valid; callers validate at the boundary.
func computeUVs(frame Rect, s Symmetry) UVs {
	if s == SymmetryE {
		return UVs{
			X0: frame.X, Y0: frame.Y,
			X1: frame.X + frame.Width, Y1: frame.Y,
			X2: frame.X + frame.Width, Y2: frame.Y + frame.Height,
			X3: frame.X, Y3: frame.Y + frame.Height,
		}
	}

	w2 := frame.Width / 2
	h2 := frame.Height / 2
	cx := frame.X + w2
	cy := frame.Y + h2

	var uvs UVs
	r := ComposeSymmetry(s, SymmetryNW)
	uvs.X0 = cx + w2*r.UX()
	uvs.Y0 = cy + h2*r.UY()

	r = ComposeSymmetry(r, SymmetryS)
	uvs.X1 = cx + w2*r.UX()
	uvs.Y1 = cy + h2*r.UY()

	r = ComposeSymmetry(r, SymmetryS)
	uvs.X2 = cx + w2*r.UX()
	uvs.Y2 = cy + h2*r.UY()

	r = ComposeSymmetry(r, SymmetryS)
	uvs.X3 = cx + w2*r.UX()
	uvs.Y3 = cy + h2*r.UY()
	return uvs
}

// TextureLayoutOptions configures NewTextureLayout. Nil pointers take their
// defaults: Frame is the unit rectangle and Orig aliases Frame.
type TextureLayoutOptions struct {
	Frame         *Rect
	Orig          *Rect
	Trim          *Rect
	DefaultAnchor *Vec2
	Symmetry      Symmetry
}

// TextureLayout describes where a sprite's pixels live inside a source
// texture: the visible frame, the untrimmed original size, an optional trim
// rectangle and the symmetry used to sample the frame. UVs are derived from
// frame and symmetry and refreshed by Update.
type TextureLayout struct {
	frame         Rect
	orig          Rect
	trim          *Rect
	defaultAnchor *Vec2
	symmetry      Symmetry
	uvs           UVs

	subs      []*LayoutSubscription
	destroyed bool
}

// LayoutSubscription is the handle returned by TextureLayout.Subscribe.
type LayoutSubscription struct {
	layout *TextureLayout
	fn     func(*TextureLayout)
}

// NewTextureLayout creates a layout and computes its UVs immediately.
// Panics if opts.Symmetry is not a valid frame symmetry.
func NewTextureLayout(opts TextureLayoutOptions) *TextureLayout {
	mustValidSymmetry(opts.Symmetry)
	l := &TextureLayout{
		frame:    Rect{0, 0, 1, 1},
		symmetry: opts.Symmetry,
	}
	if opts.Frame != nil {
		l.frame = *opts.Frame
	}
	l.orig = l.frame
	if opts.Orig != nil {
		l.orig = *opts.Orig
	}
	if opts.Trim != nil {
		t := *opts.Trim
		l.trim = &t
	}
	if opts.DefaultAnchor != nil {
		a := *opts.DefaultAnchor
		l.defaultAnchor = &a
	}
	l.uvs = computeUVs(l.frame, l.symmetry)
	return l
}

// NewFrameLayout is shorthand for an untrimmed, unrotated layout of frame.
func NewFrameLayout(frame Rect) *TextureLayout {
	return NewTextureLayout(TextureLayoutOptions{Frame: &frame})
}

func (l *TextureLayout) checkAlive(op string) {
	if l.destroyed {
		panic("canopy: " + op + " on destroyed TextureLayout")
	}
}

// Frame returns the visible rectangle in source-texture pixels.
func (l *TextureLayout) Frame() Rect {
	l.checkAlive("Frame")
	return l.frame
}

// Orig returns the untrimmed rectangle.
func (l *TextureLayout) Orig() Rect {
	l.checkAlive("Orig")
	return l.orig
}

// Trim returns the trim rectangle and whether one is set.
func (l *TextureLayout) Trim() (Rect, bool) {
	l.checkAlive("Trim")
	if l.trim == nil {
		return Rect{}, false
	}
	return *l.trim, true
}

// DefaultAnchor returns the anchor suggested by the atlas, if any.
func (l *TextureLayout) DefaultAnchor() (Vec2, bool) {
	l.checkAlive("DefaultAnchor")
	if l.defaultAnchor == nil {
		return Vec2{}, false
	}
	return *l.defaultAnchor, true
}

// Symmetry returns the committed or pending symmetry code.
func (l *TextureLayout) Symmetry() Symmetry {
	l.checkAlive("Symmetry")
	return l.symmetry
}

// UVs returns the corner coordinates as of the last Update (or construction).
func (l *TextureLayout) UVs() UVs {
	l.checkAlive("UVs")
	return l.uvs
}

// Size returns the untrimmed width and height.
func (l *TextureLayout) Size() (w, h float64) {
	l.checkAlive("Size")
	return l.orig.Width, l.orig.Height
}

// SetFrame stores a new frame. Call Update to commit it.
func (l *TextureLayout) SetFrame(frame Rect) {
	l.checkAlive("SetFrame")
	l.frame = frame
}

// SetOrig stores a new untrimmed rectangle. Call Update to notify observers.
func (l *TextureLayout) SetOrig(orig Rect) {
	l.checkAlive("SetOrig")
	l.orig = orig
}

// SetTrim stores a new trim rectangle; nil removes it. Call Update to commit it.
func (l *TextureLayout) SetTrim(trim *Rect) {
	l.checkAlive("SetTrim")
	if trim == nil {
		l.trim = nil
		return
	}
	t := *trim
	l.trim = &t
}

// SetSymmetry stores a new symmetry. Call Update to commit it.
func (l *TextureLayout) SetSymmetry(s Symmetry) {
	l.checkAlive("SetSymmetry")
	l.symmetry = s
}

// Update recomputes the UVs from the current frame and symmetry and then
// notifies every subscriber in registration order. Subscriptions added or
// cancelled by a callback take effect from the next Update.
// Panics if the pending symmetry is invalid.
func (l *TextureLayout) Update() {
	l.checkAlive("Update")
	mustValidSymmetry(l.symmetry)
	l.uvs = computeUVs(l.frame, l.symmetry)

	subs := slices.Clone(l.subs)
	for _, s := range subs {
		if l.destroyed {
			return
		}
		s.fn(l)
	}
}

// Subscribe registers fn to be called with the layout after every Update.
func (l *TextureLayout) Subscribe(fn func(*TextureLayout)) *LayoutSubscription {
	l.checkAlive("Subscribe")
	s := &LayoutSubscription{layout: l, fn: fn}
	l.subs = append(l.subs, s)
	return s
}

// NumSubscribers returns the number of active subscriptions.
func (l *TextureLayout) NumSubscribers() int {
	return len(l.subs)
}

// Cancel removes the subscription. Safe to call more than once and after
// the layout was destroyed.
func (s *LayoutSubscription) Cancel() {
	l := s.layout
	if l == nil {
		return
	}
	s.layout = nil
	l.subs = slices.DeleteFunc(slices.Clone(l.subs), func(cur *LayoutSubscription) bool {
		return cur == s
	})
}

// Destroy detaches all subscribers and releases every field. Any later use
// of the layout panics.
func (l *TextureLayout) Destroy() {
	if l.destroyed {
		return
	}
	for _, s := range l.subs {
		s.layout = nil
	}
	l.subs = nil
	l.frame = Rect{}
	l.orig = Rect{}
	l.trim = nil
	l.defaultAnchor = nil
	l.uvs = UVs{}
	l.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (l *TextureLayout) IsDestroyed() bool {
	return l.destroyed
}

// DefaultMatrix returns the matrix mapping frame pixels to unit UV space,
// a scale by 1/frame.Width and 1/frame.Height.
func (l *TextureLayout) DefaultMatrix() [6]float64 {
	l.checkAlive("DefaultMatrix")
	return scaleTransform(1/l.frame.Width, 1/l.frame.Height)
}
