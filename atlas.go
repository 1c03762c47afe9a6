package canopy

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// AtlasFrame is a named frame of an atlas: its layout and the page it lives on.
type AtlasFrame struct {
	Layout *TextureLayout
	Page   int
}

// Atlas holds atlas page images and the texture layouts of their frames.
type Atlas struct {
	// Pages contains the atlas page images indexed by page number. Entries may
	// be nil when the atlas is loaded for measurement only.
	Pages  []*ebiten.Image
	frames map[string]AtlasFrame
}

// Frame returns the named frame.
func (a *Atlas) Frame(name string) (AtlasFrame, bool) {
	f, ok := a.frames[name]
	return f, ok
}

// Layout returns the layout of the named frame, or nil.
func (a *Atlas) Layout(name string) *TextureLayout {
	return a.frames[name].Layout
}

// Names returns all frame names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.frames))
	for name := range a.frames {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of frames.
func (a *Atlas) Len() int {
	return len(a.frames)
}

// page returns page i, or nil when out of range.
func (a *Atlas) page(i int) *ebiten.Image {
	if i < 0 || i >= len(a.Pages) {
		return nil
	}
	return a.Pages[i]
}

// Sprite creates a sprite node named name drawing the named frame. A missing
// frame logs a warning and yields a 1x1 placeholder drawn from the white
// texture.
func (a *Atlas) Sprite(name string) *Node {
	f, ok := a.frames[name]
	if !ok {
		logger.Warn("atlas frame not found, using placeholder", "frame", name)
		return NewSprite(name, NewFrameLayout(Rect{Width: 1, Height: 1}))
	}
	n := NewSprite(name, f.Layout)
	n.View.(*SpriteView).Source = a.page(f.Page)
	return n
}

// Destroy destroys every frame layout. The atlas must not be used afterwards.
func (a *Atlas) Destroy() {
	for _, f := range a.frames {
		f.Layout.Destroy()
	}
	a.frames = nil
	a.Pages = nil
}

// LoadAtlas parses TexturePacker JSON data and associates the given page images.
// Supports both the hash format (single "frames" object) and the array format
// ("textures" array with per-page frame lists).
//
// Frames stored rotated are described by their atlas-space rectangle (width
// and height swapped) with SymmetryS, so UVs walk the stored pixels back
// upright. Trimmed frames carry their spriteSourceSize as trim and
// sourceSize as orig.
func LoadAtlas(jsonData []byte, pages []*ebiten.Image) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("canopy: failed to parse atlas JSON: %w", err)
	}

	atlas := &Atlas{
		Pages:  pages,
		frames: make(map[string]AtlasFrame),
	}

	switch {
	case probe.Textures != nil:
		if err := parseArrayFormat(probe.Textures, atlas); err != nil {
			return nil, err
		}
	case probe.Frames != nil:
		if err := parseHashFrames(probe.Frames, 0, atlas); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("canopy: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return atlas, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonSize struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonFrame struct {
	Frame            jsonRect   `json:"frame"`
	Rotated          bool       `json:"rotated"`
	Trimmed          bool       `json:"trimmed"`
	SpriteSourceSize jsonRect   `json:"spriteSourceSize"`
	SourceSize       jsonSize   `json:"sourceSize"`
	Pivot            *jsonPoint `json:"pivot"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, atlas *Atlas) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("canopy: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		atlas.frames[name] = AtlasFrame{Layout: frameToLayout(f), Page: page}
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, atlas *Atlas) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("canopy: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			atlas.frames[name] = AtlasFrame{Layout: frameToLayout(f), Page: i}
		}
	}
	return nil
}

func frameToLayout(f jsonFrame) *TextureLayout {
	frame := Rect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	orig := Rect{Width: f.Frame.W, Height: f.Frame.H}
	opts := TextureLayoutOptions{Frame: &frame, Orig: &orig}
	if f.Rotated {
		frame.Width, frame.Height = f.Frame.H, f.Frame.W
		opts.Symmetry = SymmetryS
	}
	if f.SourceSize.W > 0 && f.SourceSize.H > 0 {
		orig = Rect{Width: f.SourceSize.W, Height: f.SourceSize.H}
	}
	if f.Trimmed {
		opts.Trim = &Rect{
			X: f.SpriteSourceSize.X, Y: f.SpriteSourceSize.Y,
			Width: f.SpriteSourceSize.W, Height: f.SpriteSourceSize.H,
		}
	}
	if f.Pivot != nil {
		opts.DefaultAnchor = &Vec2{X: f.Pivot.X, Y: f.Pivot.Y}
	}
	return NewTextureLayout(opts)
}
