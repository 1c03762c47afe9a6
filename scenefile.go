package canopy

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// SceneFile is the TOML description of a node tree and the texture frames
// its sprites use.
//
//	[[frames]]
//	name = "hero"
//	frame = [0, 0, 32, 48]
//	anchor = [0.5, 1.0]
//
//	[root]
//	name = "world"
//	layer = true
//
//	[[root.children]]
//	name = "player"
//	sprite = "hero"
//	x = 100
//	alpha = 0.5
type SceneFile struct {
	Frames []FrameSpec `toml:"frames"`
	Root   NodeSpec    `toml:"root"`
}

// FrameSpec describes one TextureLayout. Rectangles are [x, y, w, h].
type FrameSpec struct {
	Name     string      `toml:"name"`
	Frame    [4]float64  `toml:"frame"`
	Orig     *[4]float64 `toml:"orig"`
	Trim     *[4]float64 `toml:"trim"`
	Anchor   *[2]float64 `toml:"anchor"`
	Symmetry int         `toml:"symmetry"`
}

// NodeSpec describes one node and its children. Pointer fields distinguish
// "absent" from a zero value.
type NodeSpec struct {
	Name     string   `toml:"name"`
	X        float64  `toml:"x"`
	Y        float64  `toml:"y"`
	ScaleX   *float64 `toml:"scale_x"`
	ScaleY   *float64 `toml:"scale_y"`
	Rotation float64  `toml:"rotation"`
	SkewX    float64  `toml:"skew_x"`
	SkewY    float64  `toml:"skew_y"`
	PivotX   float64  `toml:"pivot_x"`
	PivotY   float64  `toml:"pivot_y"`

	Alpha *float64 `toml:"alpha"`
	Tint  *uint32  `toml:"tint"`
	Blend string   `toml:"blend"`

	Visible    *bool `toml:"visible"`
	Measurable *bool `toml:"measurable"`
	Renderable *bool `toml:"renderable"`
	Layer      bool  `toml:"layer"`

	Sprite string      `toml:"sprite"`
	Anchor *[2]float64 `toml:"anchor"`
	Rect   *[2]float64 `toml:"rect"`

	Entity   uint32       `toml:"entity"`
	Effects  []EffectSpec `toml:"effects"`
	Children []NodeSpec   `toml:"children"`
}

// EffectSpec describes an effect. Type is "padding" (X, Y) or
// "displacement" (Map names a sprite node anywhere in the file, Scale).
type EffectSpec struct {
	Type  string  `toml:"type"`
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
	Map   string  `toml:"map"`
	Scale float64 `toml:"scale"`
}

// DecodeSceneFile reads a scene description. Unknown keys are an error.
func DecodeSceneFile(r io.Reader) (*SceneFile, error) {
	var sf SceneFile
	md, err := toml.NewDecoder(r).Decode(&sf)
	if err != nil {
		return nil, fmt.Errorf("canopy: failed to parse scene file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("canopy: unknown scene file keys: %s", strings.Join(keys, ", "))
	}
	return &sf, nil
}

// LoadSceneFile reads a scene description from path.
func LoadSceneFile(path string) (*SceneFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("canopy: failed to open scene file: %w", err)
	}
	defer f.Close()
	return DecodeSceneFile(f)
}

// Layouts creates the texture layouts named by the file's frames.
func (sf *SceneFile) Layouts() (map[string]*TextureLayout, error) {
	layouts := make(map[string]*TextureLayout, len(sf.Frames))
	for _, fs := range sf.Frames {
		if fs.Name == "" {
			return nil, fmt.Errorf("canopy: frame without a name")
		}
		if _, dup := layouts[fs.Name]; dup {
			return nil, fmt.Errorf("canopy: duplicate frame %q", fs.Name)
		}
		sym, err := ParseSymmetry(fs.Symmetry)
		if err != nil {
			return nil, fmt.Errorf("canopy: frame %q: %w", fs.Name, err)
		}
		frame := rectFromSpec(fs.Frame)
		opts := TextureLayoutOptions{Frame: &frame, Symmetry: sym}
		if fs.Orig != nil {
			r := rectFromSpec(*fs.Orig)
			opts.Orig = &r
		}
		if fs.Trim != nil {
			r := rectFromSpec(*fs.Trim)
			opts.Trim = &r
		}
		if fs.Anchor != nil {
			opts.DefaultAnchor = &Vec2{X: fs.Anchor[0], Y: fs.Anchor[1]}
		}
		layouts[fs.Name] = NewTextureLayout(opts)
	}
	return layouts, nil
}

// Build creates the node tree described by the file and returns its root.
func (sf *SceneFile) Build() (*Node, error) {
	layouts, err := sf.Layouts()
	if err != nil {
		return nil, err
	}
	b := sceneBuilder{layouts: layouts}
	root, err := b.node(&sf.Root)
	if err != nil {
		return nil, err
	}
	if err := b.resolveMaps(root); err != nil {
		return nil, err
	}
	return root, nil
}

func rectFromSpec(r [4]float64) Rect {
	return Rect{X: r[0], Y: r[1], Width: r[2], Height: r[3]}
}

// sceneBuilder carries the state of one SceneFile.Build.
type sceneBuilder struct {
	layouts map[string]*TextureLayout
	// maps collects displacement filters until every node exists.
	maps []pendingMap
}

type pendingMap struct {
	filter *DisplacementFilter
	name   string
	owner  string
}

func (b *sceneBuilder) node(spec *NodeSpec) (*Node, error) {
	n := NewContainer(spec.Name)
	n.SetPosition(spec.X, spec.Y)
	sx, sy := 1.0, 1.0
	if spec.ScaleX != nil {
		sx = *spec.ScaleX
	}
	if spec.ScaleY != nil {
		sy = *spec.ScaleY
	}
	n.SetScale(sx, sy)
	n.SetRotation(spec.Rotation)
	n.SetSkew(spec.SkewX, spec.SkewY)
	n.SetPivot(spec.PivotX, spec.PivotY)
	n.EntityID = spec.Entity

	if spec.Alpha != nil {
		n.SetAlpha(*spec.Alpha)
	}
	if spec.Tint != nil {
		n.SetTint(*spec.Tint)
	}
	if spec.Blend != "" {
		mode, ok := parseBlendMode(spec.Blend)
		if !ok {
			return nil, fmt.Errorf("canopy: node %q: unknown blend mode %q", spec.Name, spec.Blend)
		}
		n.BlendMode = mode
	}
	if spec.Visible != nil {
		n.Visible = *spec.Visible
	}
	if spec.Measurable != nil {
		n.Measurable = *spec.Measurable
	}
	if spec.Renderable != nil {
		n.Renderable = *spec.Renderable
	}
	if spec.Layer {
		n.EnableLayerGroup()
	}

	switch {
	case spec.Sprite != "" && spec.Rect != nil:
		return nil, fmt.Errorf("canopy: node %q: sprite and rect are exclusive", spec.Name)
	case spec.Sprite != "":
		layout, ok := b.layouts[spec.Sprite]
		if !ok {
			return nil, fmt.Errorf("canopy: node %q: unknown frame %q", spec.Name, spec.Sprite)
		}
		v := NewSpriteView(layout)
		if spec.Anchor != nil {
			v.Anchor = Vec2{X: spec.Anchor[0], Y: spec.Anchor[1]}
		}
		n.View = v
	case spec.Rect != nil:
		n.View = &RectView{Width: spec.Rect[0], Height: spec.Rect[1]}
	}

	for _, es := range spec.Effects {
		switch es.Type {
		case "padding":
			n.AddEffect(&PaddingEffect{X: es.X, Y: es.Y})
		case "displacement":
			f := &DisplacementFilter{Scale: Vec2{X: es.Scale, Y: es.Scale}, rotation: [4]float32{1, 0, 0, 1}}
			if es.Scale == 0 {
				f.Scale = Vec2{X: defaultDisplacementScale, Y: defaultDisplacementScale}
			}
			b.maps = append(b.maps, pendingMap{filter: f, name: es.Map, owner: spec.Name})
			n.AddEffect(f)
		default:
			return nil, fmt.Errorf("canopy: node %q: unknown effect type %q", spec.Name, es.Type)
		}
	}

	for i := range spec.Children {
		child, err := b.node(&spec.Children[i])
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// resolveMaps binds displacement filters to their map sprites.
func (b *sceneBuilder) resolveMaps(root *Node) error {
	for _, pm := range b.maps {
		m := root
		if root.Name != pm.name {
			m = root.FindChild(pm.name)
		}
		if m == nil {
			return fmt.Errorf("canopy: node %q: displacement map %q not found", pm.owner, pm.name)
		}
		if _, ok := m.View.(*SpriteView); !ok {
			return fmt.Errorf("canopy: node %q: displacement map %q is not a sprite", pm.owner, pm.name)
		}
		m.Renderable = false
		pm.filter.Map = m
	}
	return nil
}
