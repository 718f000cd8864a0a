package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"tomatobar/internal/core/model"
	"tomatobar/internal/sound"
)

func testValues() Values {
	return Values{
		ActivePreset: model.PresetMorning,
		Presets:      model.DefaultPresets(),
		Settings:     model.DefaultSettings(),
		Volumes:      sound.Volumes{Windup: 1, Ding: 1, Ticking: 1},
	}
}

func TestWindow_FixedPresetIsReadOnly(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved []Values
	prefs := New(app, testValues(), func(values Values) { saved = append(saved, values) })

	require.Equal(t, "40", prefs.work.Text)
	require.True(t, prefs.work.Disabled())
	require.True(t, prefs.intervals.Disabled())

	prefs.stopAfterBreak.SetChecked(true)
	prefs.handleSave()

	require.Len(t, saved, 1)
	require.Equal(t, model.PresetMorning, saved[0].ActivePreset)
	require.Equal(t, model.DefaultPresets(), saved[0].Presets)
	require.True(t, saved[0].Settings.StopAfterBreak)
}

func TestWindow_EditCustomPreset(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var saved Values
	prefs := New(app, testValues(), func(values Values) { saved = values })

	prefs.presetSelect.SetSelectedIndex(int(model.PresetCustom))
	require.False(t, prefs.work.Disabled())
	require.Equal(t, "25", prefs.work.Text)

	prefs.work.SetText("50")
	prefs.intervals.SetText("3")
	prefs.launchAtLogin.SetChecked(true)
	prefs.rainy.SetValue(0.5)
	prefs.handleSave()

	require.Equal(t, model.PresetCustom, saved.ActivePreset)
	require.Equal(t, model.Preset{WorkMinutes: 50, ShortRestMinutes: 5, LongRestMinutes: 15, WorkIntervalsPerSet: 3}, saved.Preset())
	require.True(t, saved.LaunchAtLogin)
	require.InDelta(t, 0.5, saved.Volumes.Rainy, 1e-9)
}

func TestWindow_RejectsOutOfRange(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	values := testValues()
	values.ActivePreset = model.PresetCustom
	calls := 0
	prefs := New(app, values, func(Values) { calls++ })

	prefs.work.SetText("91")
	prefs.handleSave()
	require.Zero(t, calls)
	require.Contains(t, prefs.status.Text, "between 1 and 90")

	prefs.work.SetText("abc")
	prefs.handleSave()
	require.Zero(t, calls)
	require.Contains(t, prefs.status.Text, "not a number")

	prefs.work.SetText("90")
	prefs.intervals.SetText("11")
	prefs.handleSave()
	require.Zero(t, calls)

	prefs.intervals.SetText("10")
	prefs.handleSave()
	require.Equal(t, 1, calls)
	require.Empty(t, prefs.status.Text)
}
