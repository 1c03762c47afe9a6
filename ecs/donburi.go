package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ChangeEventType is the Donburi event type for canopy change events.
// Subscribe to this in your ECS systems to receive transform and appearance
// changes reported by Scene.Update.
var ChangeEventType = events.NewEventType[canopy.ChangeEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Change events are published to ChangeEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) canopy.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event canopy.ChangeEvent) {
	ChangeEventType.Publish(s.world, event)
}
