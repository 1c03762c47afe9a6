package canopy

import "testing"

type recordingStore struct {
	events []ChangeEvent
}

func (s *recordingStore) EmitEvent(e ChangeEvent) {
	s.events = append(s.events, e)
}

func (s *recordingStore) ofType(typ ChangeType) []ChangeEvent {
	var out []ChangeEvent
	for _, e := range s.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func TestNewScene(t *testing.T) {
	s := NewScene()
	if s.Root() == nil || s.Root().Name != "root" {
		t.Fatal("scene should have a root named root")
	}
	if !s.Root().IsLayerGroupRoot() || s.RootGroup() != s.Root().LayerGroup() {
		t.Error("root should own the outermost layer group")
	}
	if s.Camera() != nil {
		t.Error("no camera by default")
	}
	if s.Pipes() == nil || s.Pipes().Batch == nil {
		t.Error("pipes should be created")
	}
}

func TestSceneUpdateResolvesWorldTransforms(t *testing.T) {
	s := NewScene()
	parent := NewContainer("parent")
	parent.SetPosition(10, 0)
	child := NewContainer("child")
	child.SetPosition(0, 5)
	parent.AddChild(child)
	s.Root().AddChild(parent)

	s.Update(0)
	assertMatrix(t, "child world", child.WorldTransform(), [6]float64{1, 0, 0, 1, 10, 5})
	if child.TransformDirty() {
		t.Error("update should clear the dirty flag")
	}
}

func TestSceneEmitsTransformEvents(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEventStore(store)

	tracked := NewContainer("tracked")
	tracked.EntityID = 42
	untracked := NewContainer("untracked")
	s.Root().AddChild(tracked)
	s.Root().AddChild(untracked)
	s.Update(0)
	store.events = nil

	tracked.SetPosition(3, 4)
	untracked.SetPosition(1, 1)
	s.Update(0)

	got := store.ofType(ChangeTransform)
	if len(got) != 1 {
		t.Fatalf("transform events = %v, want 1", store.events)
	}
	e := got[0]
	if e.EntityID != 42 || e.NodeID != tracked.ID {
		t.Errorf("event ids = %d/%d", e.EntityID, e.NodeID)
	}
	assertMatrix(t, "event transform", e.WorldTransform, [6]float64{1, 0, 0, 1, 3, 4})

	store.events = nil
	s.Update(0)
	if len(store.events) != 0 {
		t.Errorf("unchanged frame emitted %v", store.events)
	}
}

func TestSceneEmitsTransformEventAfterLazyQuery(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEventStore(store)
	tracked := box("tracked", 0, 0, 4, 4)
	tracked.EntityID = 7
	s.Root().AddChild(tracked)
	s.Update(0)
	store.events = nil

	tracked.SetPosition(3, 0)
	tracked.GlobalBounds(false)
	s.Update(0)

	got := store.ofType(ChangeTransform)
	if len(got) != 1 || got[0].EntityID != 7 {
		t.Fatalf("transform events = %v, want one for entity 7", store.events)
	}
	assertMatrix(t, "event transform", got[0].WorldTransform, [6]float64{1, 0, 0, 1, 3, 0})

	store.events = nil
	s.Update(0)
	if len(store.events) != 0 {
		t.Errorf("unchanged frame emitted %v", store.events)
	}
}

func TestSceneEmitsAppearanceEvents(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEventStore(store)

	parent := NewContainer("parent")
	child := NewContainer("child")
	child.EntityID = 7
	parent.AddChild(child)
	s.Root().AddChild(parent)
	s.Update(0)
	store.events = nil

	parent.SetAlpha(0.5)
	s.Update(0)

	got := store.ofType(ChangeAppearance)
	if len(got) != 1 || got[0].EntityID != 7 {
		t.Fatalf("appearance events = %v", store.events)
	}
	assertColor(t, "event color", got[0].Color, 255, 255, 255, 127)
}

func TestSceneEventColorIncludesGroup(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEventStore(store)

	group := NewLayerGroupContainer("group")
	group.SetTint(0xFF0000)
	member := NewContainer("member")
	member.EntityID = 1
	member.SetAlpha(0.5)
	group.AddChild(member)
	s.Root().AddChild(group)
	s.Update(0)

	got := store.ofType(ChangeAppearance)
	if len(got) == 0 {
		t.Fatal("expected an appearance event")
	}
	assertColor(t, "event color", got[len(got)-1].Color, 255, 0, 0, 127)
}

func TestSceneWithoutStore(t *testing.T) {
	s := NewScene()
	n := NewContainer("n")
	n.EntityID = 1
	s.Root().AddChild(n)
	n.SetPosition(1, 1)
	s.Update(0) // no store, no panic
}

func TestChangeTypeString(t *testing.T) {
	if ChangeTransform.String() != "transform" || ChangeAppearance.String() != "appearance" {
		t.Error("unexpected change type names")
	}
	if ChangeType(9).String() != "unknown" {
		t.Error("out of range should be unknown")
	}
}

func TestWorldColorOf(t *testing.T) {
	root := NewLayerGroupContainer("root")
	root.SetAlpha(0.5)
	child := NewContainer("child")
	child.SetTint(0x00FF00)
	root.AddChild(child)
	UpdateLayerGroup(root.LayerGroup())

	assertColor(t, "root", worldColorOf(root), 255, 255, 255, 127)
	assertColor(t, "child", worldColorOf(child), 0, 255, 0, 127)

	loose := NewContainer("loose")
	loose.SetAlpha(0.5)
	// outside any group the layer color is used as is; it was never updated
	assertColor(t, "no group", worldColorOf(loose), 255, 255, 255, 255)
}
