package canopy

import "math"

// Bounds accumulates an axis-aligned rectangle. Corners added through
// AddFrame are transformed by the current matrix first. A Bounds is owned by
// the call that created it and is not safe to share between traversals.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64

	matrix [6]float64
}

// NewBounds returns a cleared (invalid) Bounds.
func NewBounds() *Bounds {
	b := &Bounds{}
	b.Clear()
	return b
}

// Clear empties the bounds and resets the matrix to the identity.
func (b *Bounds) Clear() {
	b.MinX, b.MinY = math.Inf(1), math.Inf(1)
	b.MaxX, b.MaxY = math.Inf(-1), math.Inf(-1)
	b.matrix = identityTransform
}

// Set overwrites the extents.
func (b *Bounds) Set(minX, minY, maxX, maxY float64) {
	b.MinX, b.MinY = minX, minY
	b.MaxX, b.MaxY = maxX, maxY
}

// IsValid reports whether anything has been added since the last Clear.
func (b *Bounds) IsValid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// SetMatrix sets the matrix applied by AddFrame.
func (b *Bounds) SetMatrix(m [6]float64) {
	b.matrix = m
}

// Matrix returns the matrix applied by AddFrame.
func (b *Bounds) Matrix() [6]float64 {
	return b.matrix
}

// AddFrame adds the local rectangle (x0, y0)-(x1, y1) after transforming its
// four corners by the current matrix.
func (b *Bounds) AddFrame(x0, y0, x1, y1 float64) {
	m := &b.matrix
	a, bb, c, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]

	b.addPoint(a*x0+c*y0+tx, bb*x0+d*y0+ty)
	b.addPoint(a*x1+c*y0+tx, bb*x1+d*y0+ty)
	b.addPoint(a*x1+c*y1+tx, bb*x1+d*y1+ty)
	b.addPoint(a*x0+c*y1+tx, bb*x0+d*y1+ty)
}

// AddRect adds r in local space, transformed by the current matrix.
func (b *Bounds) AddRect(r Rect) {
	b.AddFrame(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// AddVertices adds a flat list of local-space points (x0, y0, x1, y1, ...),
// each transformed by the current matrix. A trailing odd value is ignored.
func (b *Bounds) AddVertices(points []float64) {
	m := &b.matrix
	for i := 0; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		b.addPoint(m[0]*x+m[2]*y+m[4], m[1]*x+m[3]*y+m[5])
	}
}

// AddBounds merges other's extents without applying the matrix.
func (b *Bounds) AddBounds(other *Bounds) {
	if !other.IsValid() {
		return
	}
	b.addPoint(other.MinX, other.MinY)
	b.addPoint(other.MaxX, other.MaxY)
}

// Pad grows valid bounds by x horizontally and y vertically on each side.
func (b *Bounds) Pad(x, y float64) {
	if !b.IsValid() {
		return
	}
	b.MinX -= x
	b.MinY -= y
	b.MaxX += x
	b.MaxY += y
}

// Width returns the horizontal extent, or 0 when invalid.
func (b *Bounds) Width() float64 {
	if !b.IsValid() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns the vertical extent, or 0 when invalid.
func (b *Bounds) Height() float64 {
	if !b.IsValid() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Rectangle returns the bounds as a Rect; invalid bounds yield the zero Rect.
func (b *Bounds) Rectangle() Rect {
	if !b.IsValid() {
		return Rect{}
	}
	return Rect{X: b.MinX, Y: b.MinY, Width: b.MaxX - b.MinX, Height: b.MaxY - b.MinY}
}

func (b *Bounds) addPoint(x, y float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}
