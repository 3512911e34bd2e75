package textfx

import "fmt"

// EventSink is the interface for optional ECS integration.
// When set on an Animator, animation lifecycle events are forwarded to it.
type EventSink interface {
	EmitEvent(event AnimationEvent)
}

// EventType identifies an animation lifecycle event.
type EventType uint8

const (
	// EventTextChanged fires when SetText replaces the rendered text.
	EventTextChanged EventType = iota
	// EventResumed fires when an idle animator starts animating again.
	EventResumed
	// EventSettled fires when every glyph animation has finished and the
	// animator stops updating.
	EventSettled
	// EventRestarted fires on Restart, including visibility restarts.
	EventRestarted
)

var eventTypeNames = [...]string{
	EventTextChanged: "text-changed",
	EventResumed:     "resumed",
	EventSettled:     "settled",
	EventRestarted:   "restarted",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", t)
}

// AnimationEvent carries animator lifecycle data for the ECS bridge.
type AnimationEvent struct {
	Type EventType
	// Name is the Animator's Name.
	Name string
	// Text is the rendered text at the time of the event.
	Text      string
	QuadCount int
	// Time is the animator clock in seconds.
	Time float64
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(AnimationEvent)

func (f EventSinkFunc) EmitEvent(e AnimationEvent) { f(e) }
