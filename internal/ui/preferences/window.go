package preferences

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tomatobar/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window fyne.Window
	values Values
	onSave func(Values)

	presetSelect   *widget.Select
	work           *widget.Entry
	shortRest      *widget.Entry
	longRest       *widget.Entry
	intervals      *widget.Entry
	stopAfterBreak *widget.Check
	showTimer      *widget.Check
	launchAtLogin  *widget.Check
	windup         *widget.Slider
	ding           *widget.Slider
	ticking        *widget.Slider
	dark           *widget.Slider
	rainy          *widget.Slider
	status         *widget.Label
}

// New creates a hidden preferences window.
func New(app fyne.App, values Values, onSave func(Values)) *Window {
	prefs := &Window{
		window:         app.NewWindow("TomatoBar Preferences"),
		onSave:         onSave,
		work:           widget.NewEntry(),
		shortRest:      widget.NewEntry(),
		longRest:       widget.NewEntry(),
		intervals:      widget.NewEntry(),
		stopAfterBreak: widget.NewCheck("Stop after break", nil),
		showTimer:      widget.NewCheck("Show timer in menu", nil),
		launchAtLogin:  widget.NewCheck("Launch at login", nil),
		windup:         newVolumeSlider(),
		ding:           newVolumeSlider(),
		ticking:        newVolumeSlider(),
		dark:           newVolumeSlider(),
		rainy:          newVolumeSlider(),
		status:         widget.NewLabel(""),
	}

	options := make([]string, 0, model.PresetCount)
	for _, kind := range model.PresetKinds() {
		name := kind.String()
		options = append(options, strings.ToUpper(name[:1])+name[1:])
	}
	prefs.presetSelect = widget.NewSelect(options, func(string) {
		prefs.showPreset(model.PresetKind(prefs.presetSelect.SelectedIndex()))
	})

	intervalForm := widget.NewForm(
		widget.NewFormItem("Preset", prefs.presetSelect),
		widget.NewFormItem("Work interval (min)", prefs.work),
		widget.NewFormItem("Short rest (min)", prefs.shortRest),
		widget.NewFormItem("Long rest (min)", prefs.longRest),
		widget.NewFormItem("Work intervals in set", prefs.intervals),
	)
	soundForm := widget.NewForm(
		widget.NewFormItem("Windup", prefs.windup),
		widget.NewFormItem("Ding", prefs.ding),
		widget.NewFormItem("Ticking", prefs.ticking),
		widget.NewFormItem("Dark", prefs.dark),
		widget.NewFormItem("Rainy", prefs.rainy),
	)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Intervals", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		intervalForm,
		prefs.stopAfterBreak,
		prefs.showTimer,
		prefs.launchAtLogin,
		widget.NewLabelWithStyle("Sound", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		soundForm,
		prefs.status,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.Update(prefs.values)
		prefs.window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	prefs.window.SetCloseIntercept(prefs.window.Hide)
	prefs.window.Resize(fyne.NewSize(420, 560))

	prefs.Update(values)
	return prefs
}

func newVolumeSlider() *widget.Slider {
	slider := widget.NewSlider(0, 1)
	slider.Step = 0.05
	return slider
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// Update replaces the window values.
func (prefs *Window) Update(values Values) {
	prefs.values = values
	prefs.presetSelect.SetSelectedIndex(int(values.ActivePreset))
	prefs.showPreset(values.ActivePreset)
	prefs.stopAfterBreak.SetChecked(values.Settings.StopAfterBreak)
	prefs.showTimer.SetChecked(values.Settings.ShowTimerInMenuBar)
	prefs.launchAtLogin.SetChecked(values.LaunchAtLogin)
	prefs.windup.SetValue(values.Volumes.Windup)
	prefs.ding.SetValue(values.Volumes.Ding)
	prefs.ticking.SetValue(values.Volumes.Ticking)
	prefs.dark.SetValue(values.Volumes.Dark)
	prefs.rainy.SetValue(values.Volumes.Rainy)
	prefs.status.SetText("")
}

// showPreset fills the interval entries. Only the custom preset is editable.
func (prefs *Window) showPreset(kind model.PresetKind) {
	if !kind.Valid() {
		return
	}
	preset := prefs.values.Presets[kind]
	prefs.work.SetText(strconv.Itoa(preset.WorkMinutes))
	prefs.shortRest.SetText(strconv.Itoa(preset.ShortRestMinutes))
	prefs.longRest.SetText(strconv.Itoa(preset.LongRestMinutes))
	prefs.intervals.SetText(strconv.Itoa(preset.WorkIntervalsPerSet))

	for _, entry := range []*widget.Entry{prefs.work, prefs.shortRest, prefs.longRest, prefs.intervals} {
		if kind.Mutable() {
			entry.Enable()
		} else {
			entry.Disable()
		}
	}
}

func (prefs *Window) handleSave() {
	values := prefs.values
	values.ActivePreset = model.PresetKind(prefs.presetSelect.SelectedIndex())
	if !values.ActivePreset.Valid() {
		values.ActivePreset = prefs.values.ActivePreset
	}

	if values.ActivePreset.Mutable() {
		preset, err := prefs.readPreset()
		if err != nil {
			prefs.status.SetText(err.Error())
			return
		}
		values.Presets[model.PresetCustom] = preset
	}

	values.Settings.StopAfterBreak = prefs.stopAfterBreak.Checked
	values.Settings.ShowTimerInMenuBar = prefs.showTimer.Checked
	values.LaunchAtLogin = prefs.launchAtLogin.Checked
	values.Volumes.Windup = prefs.windup.Value
	values.Volumes.Ding = prefs.ding.Value
	values.Volumes.Ticking = prefs.ticking.Value
	values.Volumes.Dark = prefs.dark.Value
	values.Volumes.Rainy = prefs.rainy.Value

	prefs.values = values
	prefs.status.SetText("")
	if prefs.onSave != nil {
		prefs.onSave(values)
	}
	prefs.window.Hide()
}

func (prefs *Window) readPreset() (model.Preset, error) {
	var preset model.Preset
	var err error
	if preset.WorkMinutes, err = parseBounded("work interval", prefs.work.Text, model.MinIntervalMinutes, model.MaxIntervalMinutes); err != nil {
		return preset, err
	}
	if preset.ShortRestMinutes, err = parseBounded("short rest", prefs.shortRest.Text, model.MinIntervalMinutes, model.MaxIntervalMinutes); err != nil {
		return preset, err
	}
	if preset.LongRestMinutes, err = parseBounded("long rest", prefs.longRest.Text, model.MinIntervalMinutes, model.MaxIntervalMinutes); err != nil {
		return preset, err
	}
	if preset.WorkIntervalsPerSet, err = parseBounded("work intervals in set", prefs.intervals.Text, model.MinIntervalsPerSet, model.MaxIntervalsPerSet); err != nil {
		return preset, err
	}
	return preset, nil
}
