package timekeeper

import (
	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
)

// AmbienceKind names a looping background sound.
type AmbienceKind string

const (
	AmbienceTicking AmbienceKind = "ticking"
	AmbienceDark    AmbienceKind = "dark"
	AmbienceRainy   AmbienceKind = "rainy"
)

// AmbienceKinds lists the loops played during work intervals.
func AmbienceKinds() []AmbienceKind {
	return []AmbienceKind{AmbienceTicking, AmbienceDark, AmbienceRainy}
}

// Audio plays session sounds.
type Audio interface {
	PlayStartSound()
	PlayEndSound()
	StartAmbience(kind AmbienceKind)
	StopAmbience(kind AmbienceKind)
}

// Icon selects the status display image.
type Icon string

const (
	IconIdle      Icon = "idle"
	IconWork      Icon = "work"
	IconShortRest Icon = "short_rest"
	IconLongRest  Icon = "long_rest"
)

// StatusDisplay shows the session state, e.g. in the system tray.
type StatusDisplay interface {
	SetIcon(icon Icon)
	// SetTitle shows text next to the icon; an empty title hides it.
	SetTitle(title string)
}

// Category classifies notifications.
type Category string

const (
	CategoryWorkFinished Category = "work_finished"
	CategoryRestStarted  Category = "rest_started"
	CategoryRestFinished Category = "rest_finished"
)

// Action is a user response to a notification.
type Action string

const ActionSkipRest Action = "skip_rest"

// Notification is a user-facing message.
type Notification struct {
	Title    string
	Body     string
	Category Category
}

// Notifier delivers notifications.
type Notifier interface {
	Send(notification Notification)
}

// PresetStore persists the presets and the active preset.
type PresetStore interface {
	Load() model.Presets
	Save(presets model.Presets) error
	LoadActive() model.PresetKind
	SaveActive(kind model.PresetKind) error
}

// TransitionRecorder keeps a history of phase transitions.
type TransitionRecorder interface {
	Record(transition phase.Transition) error
}

// Collaborators are the outside components the TimeKeeper drives. Nil
// fields are replaced with no-op implementations.
type Collaborators struct {
	Audio    Audio
	Display  StatusDisplay
	Notifier Notifier
	Presets  PresetStore
	Journal  TransitionRecorder
}

func (deps Collaborators) withDefaults() Collaborators {
	if deps.Audio == nil {
		deps.Audio = nopAudio{}
	}
	if deps.Display == nil {
		deps.Display = nopDisplay{}
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Presets == nil {
		deps.Presets = &memoryPresets{presets: model.DefaultPresets()}
	}
	return deps
}

type nopAudio struct{}

func (nopAudio) PlayStartSound()            {}
func (nopAudio) PlayEndSound()              {}
func (nopAudio) StartAmbience(AmbienceKind) {}
func (nopAudio) StopAmbience(AmbienceKind)  {}

type nopDisplay struct{}

func (nopDisplay) SetIcon(Icon)    {}
func (nopDisplay) SetTitle(string) {}

type nopNotifier struct{}

func (nopNotifier) Send(Notification) {}

type memoryPresets struct {
	presets model.Presets
	active  model.PresetKind
}

func (store *memoryPresets) Load() model.Presets {
	return store.presets
}

func (store *memoryPresets) LoadActive() model.PresetKind {
	return store.active
}

func (store *memoryPresets) SaveActive(kind model.PresetKind) error {
	store.active = kind
	return nil
}

func (store *memoryPresets) Save(presets model.Presets) error {
	store.presets = presets
	return nil
}
