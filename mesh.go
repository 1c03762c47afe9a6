package canopy

import "github.com/hajimehoshi/ebiten/v2"

// NewMesh creates a node drawing the given triangles. Vertex Dst coordinates
// are local; Src coordinates sample img, or the white texture when img is nil.
func NewMesh(name string, img *ebiten.Image, vertices []ebiten.Vertex, indices []uint32) *Node {
	n := NewContainer(name)
	n.View = &MeshView{Vertices: vertices, Indices: indices, Source: img}
	return n
}

// --- DistortionGrid ---

// DistortionGrid is a grid mesh over an image whose vertices can be offset
// from their rest positions.
type DistortionGrid struct {
	node    *Node
	view    *MeshView
	cols    int
	rows    int
	restPos []Vec2
}

// NewDistortionGrid creates a grid of cols x rows cells spanning w x h pixels
// of img, so (cols+1)*(rows+1) vertices.
func NewDistortionGrid(name string, img *ebiten.Image, w, h float64, cols, rows int) (*DistortionGrid, *Node) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	vcols := cols + 1
	vrows := rows + 1

	verts := make([]ebiten.Vertex, vcols*vrows)
	inds := make([]uint32, 0, cols*rows*6)
	restPos := make([]Vec2, vcols*vrows)

	cellW := w / float64(cols)
	cellH := h / float64(rows)
	for r := 0; r < vrows; r++ {
		for c := 0; c < vcols; c++ {
			idx := r*vcols + c
			x := float64(c) * cellW
			y := float64(r) * cellH
			verts[idx] = ebiten.Vertex{
				DstX: float32(x), DstY: float32(y),
				SrcX: float32(x), SrcY: float32(y),
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			}
			restPos[idx] = Vec2{X: x, Y: y}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			tl := uint32(r*vcols + c)
			tr := tl + 1
			bl := uint32((r+1)*vcols + c)
			br := bl + 1
			inds = append(inds, tl, bl, tr, tr, bl, br)
		}
	}

	n := NewMesh(name, img, verts, inds)
	g := &DistortionGrid{node: n, view: n.View.(*MeshView), cols: cols, rows: rows, restPos: restPos}
	return g, n
}

// Node returns the underlying mesh node.
func (g *DistortionGrid) Node() *Node { return g.node }

// Cols returns the number of grid columns.
func (g *DistortionGrid) Cols() int { return g.cols }

// Rows returns the number of grid rows.
func (g *DistortionGrid) Rows() int { return g.rows }

// SetVertex offsets a single grid vertex by (dx, dy) from its rest position.
func (g *DistortionGrid) SetVertex(col, row int, dx, dy float64) {
	g.offset(row*(g.cols+1)+col, dx, dy)
}

// SetAllVertices calls fn for each vertex with its rest position; fn returns
// the offset from it.
func (g *DistortionGrid) SetAllVertices(fn func(col, row int, restX, restY float64) (dx, dy float64)) {
	vcols := g.cols + 1
	for idx, rest := range g.restPos {
		dx, dy := fn(idx%vcols, idx/vcols, rest.X, rest.Y)
		g.offset(idx, dx, dy)
	}
}

// Reset returns all vertices to their rest positions.
func (g *DistortionGrid) Reset() {
	for idx := range g.restPos {
		g.offset(idx, 0, 0)
	}
}

func (g *DistortionGrid) offset(idx int, dx, dy float64) {
	rest := g.restPos[idx]
	g.view.Vertices[idx].DstX = float32(rest.X + dx)
	g.view.Vertices[idx].DstY = float32(rest.Y + dy)
}

// --- Polygon ---

// NewPolygon creates an untextured convex polygon, fan-triangulated from the
// first point. Its color comes from the node's tint and alpha.
func NewPolygon(name string, points []Vec2) *Node {
	n := NewMesh(name, nil, nil, nil)
	SetPolygonPoints(n, points)
	return n
}

// NewPolygonTextured creates a textured polygon. The w x h pixels of img are
// mapped onto the bounding box of the points.
func NewPolygonTextured(name string, img *ebiten.Image, w, h float64, points []Vec2) *Node {
	n := NewMesh(name, img, nil, nil)
	v := n.View.(*MeshView)
	v.Vertices, v.Indices = buildPolygonFan(v.Vertices[:0], v.Indices[:0], points, w, h)
	return n
}

// SetPolygonPoints replaces the points of an untextured polygon created by
// NewPolygon, reusing its buffers.
func SetPolygonPoints(n *Node, points []Vec2) {
	v, ok := n.View.(*MeshView)
	if !ok {
		return
	}
	v.Vertices, v.Indices = buildPolygonFan(v.Vertices[:0], v.Indices[:0], points, 0, 0)
}

// buildPolygonFan appends a fan triangulation of points: N vertices and
// 3*(N-2) indices. With a zero texture size every vertex samples the white
// texture center.
func buildPolygonFan(verts []ebiten.Vertex, inds []uint32, points []Vec2, texW, texH float64) ([]ebiten.Vertex, []uint32) {
	if len(points) < 3 {
		return verts, inds
	}

	textured := texW > 0 && texH > 0
	b := NewBounds()
	if textured {
		for _, p := range points {
			b.addPoint(p.X, p.Y)
		}
	}
	r := b.Rectangle()

	for _, p := range points {
		v := ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
		}
		if textured {
			v.SrcX, v.SrcY = 0, 0
			if r.Width > 0 {
				v.SrcX = float32((p.X - r.X) / r.Width * texW)
			}
			if r.Height > 0 {
				v.SrcY = float32((p.Y - r.Y) / r.Height * texH)
			}
		}
		verts = append(verts, v)
	}
	for i := 1; i < len(points)-1; i++ {
		inds = append(inds, 0, uint32(i), uint32(i+1))
	}
	return verts, inds
}
