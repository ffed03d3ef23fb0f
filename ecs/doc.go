// Package ecs bridges scrollfx trigger edges into an ECS world.
//
// [NewDonburiStore] publishes every [scrollfx.TriggerEvent] (enter, leave,
// enter-back, leave-back) into a [Donburi] world as a typed event.
// Subscribe to [TriggerEventType] in your systems and call ProcessEvents
// once per frame.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	site.Registry().SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
