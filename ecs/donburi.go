package ecs

import (
	"github.com/phanxgames/textfx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// AnimationEventType is the Donburi event type for textfx animator events.
// Subscribe to this in your ECS systems to react to reveals finishing or
// text changing.
var AnimationEventType = events.NewEventType[textfx.AnimationEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Animator events are published to AnimationEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) textfx.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event textfx.AnimationEvent) {
	AnimationEventType.Publish(s.world, event)
}
