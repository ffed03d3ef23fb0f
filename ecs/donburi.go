// Package ecs provides ECS adapters for scrollfx.
package ecs

import (
	"github.com/phanxgames/scrollfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TriggerEventType is the Donburi event type for scroll trigger edges.
// Subscribe to this in your ECS systems to react to reveals, pins and
// section changes.
var TriggerEventType = events.NewEventType[scrollfx.TriggerEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Trigger events are published to TriggerEventType and delivered by
// ProcessEvents.
func NewDonburiStore(world donburi.World) scrollfx.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitTrigger(event scrollfx.TriggerEvent) {
	TriggerEventType.Publish(s.world, event)
}
