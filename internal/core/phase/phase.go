// Package phase implements the table-driven Pomodoro phase state machine.
package phase

import (
	"fmt"
	"time"
)

// Phase is the session mode.
type Phase int

const (
	Idle Phase = iota
	Work
	Rest
)

// Phases lists every phase.
func Phases() []Phase {
	return []Phase{Idle, Work, Rest}
}

func (phase Phase) String() string {
	switch phase {
	case Idle:
		return "idle"
	case Work:
		return "work"
	case Rest:
		return "rest"
	default:
		return fmt.Sprintf("phase(%d)", int(phase))
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(value string) (Phase, error) {
	for _, phase := range Phases() {
		if phase.String() == value {
			return phase, nil
		}
	}
	return Idle, fmt.Errorf("unknown phase %q", value)
}

// Event is a request to change phase.
type Event int

const (
	StartStop Event = iota
	TimerFired
	SkipRest
)

// Events lists every event.
func Events() []Event {
	return []Event{StartStop, TimerFired, SkipRest}
}

func (event Event) String() string {
	switch event {
	case StartStop:
		return "startStop"
	case TimerFired:
		return "timerFired"
	case SkipRest:
		return "skipRest"
	default:
		return fmt.Sprintf("event(%d)", int(event))
	}
}

// ParseEvent is the inverse of Event.String.
func ParseEvent(value string) (Event, error) {
	for _, event := range Events() {
		if event.String() == value {
			return event, nil
		}
	}
	return StartStop, fmt.Errorf("unknown event %q", value)
}

// Transition describes an edge taken by the machine.
type Transition struct {
	From  Phase
	To    Phase
	Event Event
	At    time.Time
}

func (transition Transition) String() string {
	return fmt.Sprintf("%s -> %s on %s at %s",
		transition.From, transition.To, transition.Event, transition.At.Format(time.RFC3339))
}
