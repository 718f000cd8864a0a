package timekeeper

import (
	"time"

	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventProgress       EventType = "progress"
	EventPresetChange   EventType = "preset_change"
	EventSettingsChange EventType = "settings_change"
)

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type  EventType
	Phase phase.Phase
	// Trigger is the event that caused a state change.
	Trigger phase.Event
	// RemainingText is the MM:SS countdown, empty when no countdown runs.
	RemainingText            string
	Remaining                time.Duration
	ConsecutiveWorkIntervals int
	ActivePreset             model.PresetKind
	Preset                   model.Preset
	Settings                 model.Settings
	At                       time.Time
}

// Snapshot is a consistent view of the session state.
type Snapshot struct {
	Phase                    phase.Phase
	RemainingText            string
	Remaining                time.Duration
	Deadline                 time.Time
	CountdownActive          bool
	ConsecutiveWorkIntervals int
	ActivePreset             model.PresetKind
	Preset                   model.Preset
	Presets                  model.Presets
	Settings                 model.Settings
}
