// Package ecs provides ECS adapters for textfx animation events.
//
// The primary adapter is [NewDonburiSink], which bridges animator lifecycle
// events (text changed, resumed, settled, restarted) into a [Donburi] world
// as typed events. Subscribe to [AnimationEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	animator.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
