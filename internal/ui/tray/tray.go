package tray

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"

	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
	"tomatobar/internal/core/timekeeper"
)

const menuTitle = "TomatoBar"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStartStop    func()
	OnSkipRest     func()
	OnSelectPreset func(model.PresetKind)
	OnPreferences  func()
	OnQuit         func()
}

// menuState is what the menu renders.
type menuState struct {
	phase  phase.Phase
	title  string
	active model.PresetKind
}

// trayApp is the part of desktop.App the manager drives.
type trayApp interface {
	SetSystemTrayIcon(icon fyne.Resource)
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Manager owns the system tray icon and menu. It implements
// timekeeper.StatusDisplay; its methods may be called from any goroutine.
type Manager struct {
	app       trayApp
	callbacks Callbacks

	mu    sync.Mutex
	state menuState
}

// New installs the tray icon and menu.
func New(app desktop.App, callbacks Callbacks) *Manager {
	return newManager(app, callbacks)
}

func newManager(app trayApp, callbacks Callbacks) *Manager {
	manager := &Manager{app: app, callbacks: callbacks}
	app.SetSystemTrayIcon(iconResource(timekeeper.IconIdle))
	app.SetSystemTrayMenu(buildMenu(manager.state, callbacks))
	return manager
}

// SetIcon switches the tray icon. The icon is set on every phase change,
// so the menu follows it too.
func (manager *Manager) SetIcon(icon timekeeper.Icon) {
	resource := iconResource(icon)
	fyne.Do(func() {
		manager.app.SetSystemTrayIcon(resource)
	})

	manager.mu.Lock()
	current := phaseForIcon(icon)
	changed := manager.state.phase != current
	manager.state.phase = current
	manager.mu.Unlock()
	if changed {
		manager.refresh()
	}
}

// SetTitle shows the countdown next to the status entry. Tray icons have
// no text slot on every platform, so the title lives in the menu.
func (manager *Manager) SetTitle(title string) {
	manager.mu.Lock()
	if manager.state.title == title {
		manager.mu.Unlock()
		return
	}
	manager.state.title = title
	manager.mu.Unlock()
	manager.refresh()
}

// Update follows controller events for the preset selection.
func (manager *Manager) Update(event timekeeper.Event) {
	if event.Type == timekeeper.EventProgress {
		return
	}
	manager.mu.Lock()
	manager.state.active = event.ActivePreset
	manager.mu.Unlock()
	manager.refresh()
}

func (manager *Manager) refresh() {
	manager.mu.Lock()
	menu := buildMenu(manager.state, manager.callbacks)
	manager.mu.Unlock()
	fyne.Do(func() {
		manager.app.SetSystemTrayMenu(menu)
	})
}

func buildMenu(state menuState, callbacks Callbacks) *fyne.Menu {
	status := fyne.NewMenuItem(statusLabel(state), nil)
	status.Disabled = true

	startStopLabel := "Start"
	if state.phase != phase.Idle {
		startStopLabel = "Stop"
	}
	startStop := fyne.NewMenuItem(startStopLabel, call(callbacks.OnStartStop))

	skip := fyne.NewMenuItem("Skip rest", call(callbacks.OnSkipRest))
	skip.Disabled = state.phase != phase.Rest

	presetItems := make([]*fyne.MenuItem, 0, model.PresetCount)
	for _, kind := range model.PresetKinds() {
		kind := kind
		item := fyne.NewMenuItem(presetLabel(kind), func() {
			if callbacks.OnSelectPreset != nil {
				callbacks.OnSelectPreset(kind)
			}
		})
		item.Checked = kind == state.active
		presetItems = append(presetItems, item)
	}
	presets := fyne.NewMenuItem("Preset", nil)
	presets.ChildMenu = fyne.NewMenu("", presetItems...)

	preferences := fyne.NewMenuItem("Preferences...", call(callbacks.OnPreferences))

	quit := fyne.NewMenuItem("Quit", call(callbacks.OnQuit))
	quit.IsQuit = true

	return fyne.NewMenu(menuTitle,
		status,
		fyne.NewMenuItemSeparator(),
		startStop,
		skip,
		presets,
		fyne.NewMenuItemSeparator(),
		preferences,
		quit,
	)
}

func statusLabel(state menuState) string {
	label := map[phase.Phase]string{
		phase.Idle: "Idle",
		phase.Work: "Working",
		phase.Rest: "Resting",
	}[state.phase]
	if state.title != "" {
		label += " " + state.title
	}
	return label
}

func presetLabel(kind model.PresetKind) string {
	name := kind.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func call(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}

func phaseForIcon(icon timekeeper.Icon) phase.Phase {
	switch icon {
	case timekeeper.IconWork:
		return phase.Work
	case timekeeper.IconShortRest, timekeeper.IconLongRest:
		return phase.Rest
	default:
		return phase.Idle
	}
}

func iconResource(icon timekeeper.Icon) fyne.Resource {
	switch icon {
	case timekeeper.IconWork:
		return theme.MediaRecordIcon()
	case timekeeper.IconShortRest:
		return theme.MediaPauseIcon()
	case timekeeper.IconLongRest:
		return theme.MediaStopIcon()
	default:
		return theme.HistoryIcon()
	}
}
