package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPreset indicates preset values outside the supported ranges.
var ErrInvalidPreset = errors.New("invalid preset")

// Supported ranges for preset values.
const (
	MinIntervalMinutes = 1
	MaxIntervalMinutes = 90
	MinIntervalsPerSet = 1
	MaxIntervalsPerSet = 10
)

// PresetKind identifies one of the preset slots.
type PresetKind int

const (
	PresetMorning PresetKind = iota
	PresetAfternoon
	PresetNight
	PresetCustom
)

// PresetCount is the number of preset slots; it never changes.
const PresetCount = 4

var presetNames = [PresetCount]string{"morning", "afternoon", "night", "custom"}

func (kind PresetKind) String() string {
	if !kind.Valid() {
		return fmt.Sprintf("preset(%d)", int(kind))
	}
	return presetNames[kind]
}

// Valid reports whether kind addresses an existing slot.
func (kind PresetKind) Valid() bool {
	return kind >= PresetMorning && kind <= PresetCustom
}

// Mutable reports whether the user may edit the preset values.
func (kind PresetKind) Mutable() bool {
	return kind == PresetCustom
}

// PresetKinds lists all slots in display order.
func PresetKinds() []PresetKind {
	return []PresetKind{PresetMorning, PresetAfternoon, PresetNight, PresetCustom}
}

// ParsePresetKind resolves a preset by name or slot index.
func ParsePresetKind(value string) (PresetKind, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for index, name := range presetNames {
		if value == name || value == fmt.Sprint(index) {
			return PresetKind(index), nil
		}
	}
	return PresetMorning, fmt.Errorf("unknown preset %q", value)
}

// Preset bundles the four interval settings.
type Preset struct {
	WorkMinutes         int `yaml:"work_minutes"`
	ShortRestMinutes    int `yaml:"short_rest_minutes"`
	LongRestMinutes     int `yaml:"long_rest_minutes"`
	WorkIntervalsPerSet int `yaml:"work_intervals_per_set"`
}

// Validate checks every value against the supported ranges.
func (preset Preset) Validate() error {
	if err := checkMinutes("work", preset.WorkMinutes); err != nil {
		return err
	}
	if err := checkMinutes("short rest", preset.ShortRestMinutes); err != nil {
		return err
	}
	if err := checkMinutes("long rest", preset.LongRestMinutes); err != nil {
		return err
	}
	if preset.WorkIntervalsPerSet < MinIntervalsPerSet || preset.WorkIntervalsPerSet > MaxIntervalsPerSet {
		return fmt.Errorf("%w: work intervals per set %d not in [%d, %d]",
			ErrInvalidPreset, preset.WorkIntervalsPerSet, MinIntervalsPerSet, MaxIntervalsPerSet)
	}
	return nil
}

// WorkDuration returns the length of a work interval.
func (preset Preset) WorkDuration() time.Duration {
	return time.Duration(preset.WorkMinutes) * time.Minute
}

// RestDuration returns the length of a short or long rest.
func (preset Preset) RestDuration(long bool) time.Duration {
	if long {
		return time.Duration(preset.LongRestMinutes) * time.Minute
	}
	return time.Duration(preset.ShortRestMinutes) * time.Minute
}

func checkMinutes(field string, minutes int) error {
	if minutes < MinIntervalMinutes || minutes > MaxIntervalMinutes {
		return fmt.Errorf("%w: %s minutes %d not in [%d, %d]",
			ErrInvalidPreset, field, minutes, MinIntervalMinutes, MaxIntervalMinutes)
	}
	return nil
}

// Presets holds exactly one preset per slot.
type Presets [PresetCount]Preset

// DefaultPresets returns the built-in presets.
func DefaultPresets() Presets {
	return Presets{
		PresetMorning:   {WorkMinutes: 40, ShortRestMinutes: 10, LongRestMinutes: 20, WorkIntervalsPerSet: 2},
		PresetAfternoon: {WorkMinutes: 25, ShortRestMinutes: 5, LongRestMinutes: 30, WorkIntervalsPerSet: 3},
		PresetNight:     {WorkMinutes: 30, ShortRestMinutes: 5, LongRestMinutes: 20, WorkIntervalsPerSet: 2},
		PresetCustom:    {WorkMinutes: 25, ShortRestMinutes: 5, LongRestMinutes: 15, WorkIntervalsPerSet: 4},
	}
}

// PresetsFromSlice converts a decoded list into Presets.
// The list must hold exactly PresetCount valid entries.
func PresetsFromSlice(list []Preset) (Presets, error) {
	var presets Presets
	if len(list) != PresetCount {
		return presets, fmt.Errorf("%w: got %d presets, want %d", ErrInvalidPreset, len(list), PresetCount)
	}
	for index, preset := range list {
		if err := preset.Validate(); err != nil {
			return presets, fmt.Errorf("preset %s: %w", PresetKind(index), err)
		}
		presets[index] = preset
	}
	return presets, nil
}
