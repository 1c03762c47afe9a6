// Package ecs provides ECS adapters for canopy's change notifications.
//
// The primary adapter is [NewDonburiStore], which bridges canopy change
// events (transform and appearance changes of nodes carrying an EntityID)
// into a [Donburi] world as typed events. Subscribe to [ChangeEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
