package canopy

import "time"

// ChangeType identifies what changed on a node reported to an EventStore.
type ChangeType uint8

const (
	ChangeTransform  ChangeType = iota // local transform changed
	ChangeAppearance                   // alpha or tint changed, here or above
)

// String returns a readable name for the change type.
func (t ChangeType) String() string {
	switch t {
	case ChangeTransform:
		return "transform"
	case ChangeAppearance:
		return "appearance"
	default:
		return "unknown"
	}
}

// ChangeEvent reports a change on a node carrying an EntityID.
type ChangeEvent struct {
	Type           ChangeType
	EntityID       uint32
	NodeID         uint32
	WorldTransform [6]float64
	// Color is the node's composed color in world space, packed ABGR.
	Color uint32
}

// EventStore is the interface for optional ECS integration. When set on a
// Scene, changes of nodes with a non-zero EntityID are forwarded to it from
// Update.
type EventStore interface {
	EmitEvent(event ChangeEvent)
}

// pendingChange is a node recorded before the update pass, reported after it.
type pendingChange struct {
	node *Node
	typ  ChangeType
}

// Scene owns the node tree, its root layer group, the instruction pipes and
// an optional camera.
type Scene struct {
	root   *Node
	pipes  *Pipes
	camera *Camera
	store  EventStore
	debug  bool

	pending []pendingChange
	pool    texturePool
}

// NewScene creates a new scene with a pre-created root container that roots
// the outermost layer group.
func NewScene() *Scene {
	return &Scene{
		root:  NewLayerGroupContainer("root"),
		pipes: NewPipes(),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// RootGroup returns the outermost layer group.
func (s *Scene) RootGroup() *LayerGroup {
	return s.root.EnableLayerGroup()
}

// Pipes returns the scene's pipe registry.
func (s *Scene) Pipes() *Pipes {
	return s.pipes
}

// SetCamera sets the camera used for projection and culling. nil renders
// with the identity projection and no culling.
func (s *Scene) SetCamera(cam *Camera) {
	s.camera = cam
}

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// SetEventStore sets the optional ECS bridge.
func (s *Scene) SetEventStore(store EventStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and
// per-frame stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// Update refreshes world transforms and layer values, advances the camera by
// dt seconds and reports changes to the event store.
func (s *Scene) Update(dt float32) {
	if s.store != nil {
		s.pending = s.pending[:0]
		s.recordChanges(s.root)
	}

	UpdateLayerGroup(s.RootGroup())

	if s.camera != nil {
		s.camera.Update(dt)
	}

	if s.store != nil {
		for _, c := range s.pending {
			s.store.EmitEvent(ChangeEvent{
				Type:           c.typ,
				EntityID:       c.node.EntityID,
				NodeID:         c.node.ID,
				WorldTransform: c.node.worldTransform,
				Color:          worldColorOf(c.node),
			})
		}
		clear(s.pending)
		s.pending = s.pending[:0]
	}
}

func (s *Scene) recordChanges(n *Node) {
	if n.EntityID != 0 {
		if n.transformChanged() {
			s.pending = append(s.pending, pendingChange{node: n, typ: ChangeTransform})
		}
		if n.colorDirty {
			s.pending = append(s.pending, pendingChange{node: n, typ: ChangeAppearance})
		}
	}
	for _, c := range n.children {
		s.recordChanges(c)
	}
}

// worldColorOf composes n's layer color with the world color of the group it
// belongs to. A group root's own color is its group's world color.
func worldColorOf(n *Node) uint32 {
	if n.layerGroup != nil {
		return n.layerGroup.worldColor
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.layerGroup != nil {
			return multiplyColors(n.layerColor, p.layerGroup.worldColor)
		}
	}
	return n.layerColor
}

// BuildInstructions refreshes layer values and rebuilds the instruction sets
// of every group in the scene.
func (s *Scene) BuildInstructions() {
	g := s.RootGroup()
	UpdateLayerGroup(g)
	b := instructionBuilder{pipes: s.pipes}
	if s.camera != nil && s.camera.CullEnabled {
		b.cull = true
		b.cullRect = s.camera.VisibleBounds()
	}
	if !s.root.Visible {
		g.instructions.Reset()
		return
	}
	b.buildGroup(g)
}

// Draw builds the instruction sets and executes them against target.
func (s *Scene) Draw(target Surface) RenderStats {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.BuildInstructions()

	if s.debug {
		stats.buildTime = time.Since(t0)
		t0 = time.Now()
	}

	projection := identityTransform
	if s.camera != nil {
		projection = s.camera.Projection()
	}
	rc := NewRenderContext(target, projection)
	s.pipes.Layer.Execute(rc, s.RootGroup())
	rc.Finish()

	if s.debug {
		stats.executeTime = time.Since(t0)
		stats.groupCount, stats.instructionCount = countInstructions(s.RootGroup())
		stats.drawCallCount = rc.Stats.DrawCalls
		stats.vertexCount = rc.Stats.Vertices
		s.debugLog(stats)
	}
	return rc.Stats
}
