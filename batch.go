package canopy

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// batchKey groups geometry that can be submitted in a single draw call.
type batchKey struct {
	source *ebiten.Image
	blend  BlendMode
}

// Batch is a run of triangles sharing one source image and blend mode.
// Vertex positions are in layer space and vertex colors are straight
// (non-premultiplied) layer colors; the enclosing group's uniforms are
// applied when the batch executes.
type Batch struct {
	key      batchKey
	vertices []ebiten.Vertex
	indices  []uint32
}

// PipeID routes a batch to the batch pipe.
func (b *Batch) PipeID() string { return PipeBatch }

// Source returns the batch texture; nil means the white texture.
func (b *Batch) Source() *ebiten.Image { return b.key.source }

// Blend returns the batch blend mode.
func (b *Batch) Blend() BlendMode { return b.key.blend }

// Vertices returns the layer-space vertices. MUST NOT be mutated.
func (b *Batch) Vertices() []ebiten.Vertex { return b.vertices }

// Indices returns the triangle indices. MUST NOT be mutated.
func (b *Batch) Indices() []uint32 { return b.indices }

// --- BatchPipe ---

// BatchPipe turns node views into batches while instructions are built and
// submits them to the render target when they execute.
type BatchPipe struct {
	// White is sampled by untextured geometry. When nil, a shared 1x1 white
	// image is created on first use.
	White *ebiten.Image

	scratch []ebiten.Vertex
}

// NewBatchPipe creates an empty batch pipe.
func NewBatchPipe() *BatchPipe {
	return &BatchPipe{}
}

// Break closes the open batch of set. The next geometry added to set starts
// a new batch even if its texture and blend match.
func (p *BatchPipe) Break(set *InstructionSet) {
	set.open = nil
}

// AddNode appends the geometry of n's view to set. Views the pipe cannot
// draw are ignored.
func (p *BatchPipe) AddNode(n *Node, set *InstructionSet) {
	switch v := n.View.(type) {
	case *SpriteView:
		p.addSprite(n, v, set)
	case *RectView:
		p.addRect(n, v, set)
	case *MeshView:
		p.addMesh(n, v, set)
	}
}

// batchFor returns the open batch of set if it matches key, otherwise a new
// batch appended to set.
func (p *BatchPipe) batchFor(set *InstructionSet, key batchKey) *Batch {
	if b := set.open; b != nil && b.key == key {
		return b
	}
	b := &Batch{key: key}
	set.Add(b)
	set.open = b
	return b
}

// addSprite appends one quad. A sprite without a source image is drawn as a
// solid placeholder quad from the white texture.
func (p *BatchPipe) addSprite(n *Node, v *SpriteView, set *InstructionSet) {
	if v.Layout == nil || v.Layout.IsDestroyed() {
		return
	}
	x0, y0, x1, y1 := v.localQuad()
	var uvs UVs
	if v.Source != nil {
		uvs = v.Layout.UVs()
	} else {
		uvs = whiteUVs
	}
	b := p.batchFor(set, batchKey{source: v.Source, blend: n.BlendMode})
	appendQuad(b, n.layerTransform, n.layerColor, x0, y0, x1, y1, uvs)
}

func (p *BatchPipe) addRect(n *Node, v *RectView, set *InstructionSet) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	b := p.batchFor(set, batchKey{blend: n.BlendMode})
	appendQuad(b, n.layerTransform, n.layerColor, 0, 0, v.Width, v.Height, whiteUVs)
}

func (p *BatchPipe) addMesh(n *Node, v *MeshView, set *InstructionSet) {
	if len(v.Vertices) == 0 || len(v.Indices) == 0 {
		return
	}
	b := p.batchFor(set, batchKey{source: v.Source, blend: n.BlendMode})
	m := &n.layerTransform
	cr, cg, cb, ca := straightColor(n.layerColor)
	base := uint32(len(b.vertices))
	for _, src := range v.Vertices {
		x, y := float64(src.DstX), float64(src.DstY)
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX:   float32(m[0]*x + m[2]*y + m[4]),
			DstY:   float32(m[1]*x + m[3]*y + m[5]),
			SrcX:   src.SrcX,
			SrcY:   src.SrcY,
			ColorR: src.ColorR * cr,
			ColorG: src.ColorG * cg,
			ColorB: src.ColorB * cb,
			ColorA: src.ColorA * ca,
		})
	}
	for _, idx := range v.Indices {
		b.indices = append(b.indices, base+idx)
	}
}

// whiteUVs samples the interior of the 1x1 white texture.
var whiteUVs = UVs{X0: 0, Y0: 0, X1: 1, Y1: 0, X2: 1, Y2: 1, X3: 0, Y3: 1}

// appendQuad appends 4 vertices and 6 indices for the local rectangle
// (x0, y0)-(x1, y1) transformed by m, sampling uvs corner by corner.
func appendQuad(b *Batch, m [6]float64, c uint32, x0, y0, x1, y1 float64, uvs UVs) {
	// Destination winding: TL, TR, BR, BL.
	lx := [4]float64{x0, x1, x1, x0}
	ly := [4]float64{y0, y0, y1, y1}

	a, bb, cc, d, tx, ty := m[0], m[1], m[2], m[3], m[4], m[5]
	cr, cg, cb, ca := straightColor(c)

	base := uint32(len(b.vertices))
	for i := 0; i < 4; i++ {
		sx, sy := uvs.Corner(i)
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX:   float32(a*lx[i] + cc*ly[i] + tx),
			DstY:   float32(bb*lx[i] + d*ly[i] + ty),
			SrcX:   float32(sx),
			SrcY:   float32(sy),
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}

	// Two triangles: TL-TR-BR, TL-BR-BL
	b.indices = append(b.indices,
		base+0, base+1, base+2,
		base+0, base+2, base+3,
	)
}

// straightColor converts packed ABGR to float channels in [0, 1].
func straightColor(c uint32) (r, g, b, a float32) {
	cr, cg, cb, ca := UnpackColor(c)
	return float32(cr) / 255, float32(cg) / 255, float32(cb) / 255, float32(ca) / 255
}

// Execute transforms the batch by the current uniforms (projection times
// group world transform), multiplies vertex colors by the group world color,
// premultiplies, and submits a single DrawTriangles32 call.
func (p *BatchPipe) Execute(rc *RenderContext, inst Instruction) {
	b, ok := inst.(*Batch)
	if !ok {
		panic(fmt.Sprintf("canopy: batch pipe cannot execute %T", inst))
	}
	if len(b.indices) == 0 {
		return
	}
	u, ok := rc.Uniforms.Top()
	if !ok {
		panic("canopy: batch executed outside a layer group")
	}

	m := multiplyAffine(u.Projection, u.WorldTransform)
	wr, wg, wb, wa := straightColor(u.WorldColor)

	p.scratch = p.scratch[:0]
	for _, v := range b.vertices {
		x, y := float64(v.DstX), float64(v.DstY)
		a := v.ColorA * wa
		v.DstX = float32(m[0]*x + m[2]*y + m[4])
		v.DstY = float32(m[1]*x + m[3]*y + m[5])
		v.ColorR *= wr * a
		v.ColorG *= wg * a
		v.ColorB *= wb * a
		v.ColorA = a
		p.scratch = append(p.scratch, v)
	}

	src := b.key.source
	if src == nil {
		src = p.white()
	}

	var op ebiten.DrawTrianglesOptions
	op.Blend = b.key.blend.EbitenBlend()
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha

	rc.Target.DrawTriangles32(p.scratch, b.indices, src, &op)
	rc.Stats.DrawCalls++
	rc.Stats.Vertices += len(p.scratch)
}

func (p *BatchPipe) white() *ebiten.Image {
	if p.White != nil {
		return p.White
	}
	return ensureWhitePixel()
}

// --- White pixel singleton (canopy is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
