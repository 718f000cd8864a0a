package timekeeper

import (
	"fmt"

	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
	"tomatobar/internal/log"
)

// SelectPreset makes kind the active preset. A running session is stopped
// first and the work interval counter starts over.
func (keeper *TimeKeeper) SelectPreset(kind model.PresetKind) error {
	if !kind.Valid() {
		return fmt.Errorf("select preset: %w: %s", model.ErrInvalidPreset, kind)
	}
	return keeper.do(func() {
		if keeper.machine.Current() != phase.Idle {
			keeper.fire(phase.StartStop)
		}
		keeper.stopCountdown()
		keeper.consecutiveWorkIntervals = 0
		keeper.activePreset = kind
		keeper.working = keeper.presets[kind]

		if err := keeper.deps.Presets.SaveActive(kind); err != nil {
			log.Warn(log.CatStorage, "save active preset", "error", err)
		}
		log.Info(log.CatPreset, "preset selected", "preset", kind)
		keeper.publish(Event{Type: EventPresetChange})
	})
}

// SetWorkMinutes edits the custom preset's work interval.
func (keeper *TimeKeeper) SetWorkMinutes(minutes int) error {
	return keeper.editCustom(func(preset *model.Preset) { preset.WorkMinutes = minutes })
}

// SetShortRestMinutes edits the custom preset's short rest.
func (keeper *TimeKeeper) SetShortRestMinutes(minutes int) error {
	return keeper.editCustom(func(preset *model.Preset) { preset.ShortRestMinutes = minutes })
}

// SetLongRestMinutes edits the custom preset's long rest.
func (keeper *TimeKeeper) SetLongRestMinutes(minutes int) error {
	return keeper.editCustom(func(preset *model.Preset) { preset.LongRestMinutes = minutes })
}

// SetWorkIntervalsPerSet edits how many work intervals precede a long rest.
func (keeper *TimeKeeper) SetWorkIntervalsPerSet(intervals int) error {
	return keeper.editCustom(func(preset *model.Preset) { preset.WorkIntervalsPerSet = intervals })
}

// UpdatePreset replaces all four working values at once.
func (keeper *TimeKeeper) UpdatePreset(updated model.Preset) error {
	return keeper.editCustom(func(preset *model.Preset) { *preset = updated })
}

// editCustom applies edit to the working values and writes them into the
// custom slot. Edits are rejected while a fixed preset is active.
func (keeper *TimeKeeper) editCustom(edit func(*model.Preset)) error {
	var editErr error
	err := keeper.do(func() {
		if !keeper.activePreset.Mutable() {
			editErr = fmt.Errorf("edit %s: %w", keeper.activePreset, ErrPresetReadOnly)
			return
		}

		preset := keeper.working
		edit(&preset)
		if err := preset.Validate(); err != nil {
			editErr = err
			return
		}
		if preset == keeper.working {
			return
		}

		keeper.working = preset
		keeper.presets[model.PresetCustom] = preset
		if err := keeper.deps.Presets.Save(keeper.presets); err != nil {
			log.Warn(log.CatStorage, "save presets", "error", err)
		}
		log.Info(log.CatPreset, "custom preset updated",
			"work", preset.WorkMinutes,
			"short_rest", preset.ShortRestMinutes,
			"long_rest", preset.LongRestMinutes,
			"intervals", preset.WorkIntervalsPerSet,
		)
		keeper.publish(Event{Type: EventPresetChange})
	})
	if err != nil {
		return err
	}
	return editErr
}

// ReloadPresets takes the custom preset from presets, e.g. after the preset
// file was edited on disk. The fixed presets always keep their defaults. A
// running countdown keeps its deadline; the new values apply from the next
// interval.
func (keeper *TimeKeeper) ReloadPresets(loaded model.Presets) error {
	presets := withFixedDefaults(loaded)
	return keeper.do(func() {
		if presets == keeper.presets {
			return
		}
		keeper.presets = presets
		keeper.working = presets[keeper.activePreset]
		log.Info(log.CatPreset, "presets reloaded", "active", keeper.activePreset)
		keeper.publish(Event{Type: EventPresetChange})
	})
}

// UpdateSettings replaces the runtime settings.
func (keeper *TimeKeeper) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return keeper.do(func() {
		keeper.settings = settings
		keeper.updateTitle()
		keeper.publish(Event{Type: EventSettingsChange})
	})
}

// withFixedDefaults keeps only the custom slot of loaded.
func withFixedDefaults(loaded model.Presets) model.Presets {
	presets := model.DefaultPresets()
	presets[model.PresetCustom] = loaded[model.PresetCustom]
	return presets
}
