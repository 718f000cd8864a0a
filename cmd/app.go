package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"tomatobar/internal/config"
	"tomatobar/internal/core/model"
	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/log"
	"tomatobar/internal/platform"
	"tomatobar/internal/sound"
	"tomatobar/internal/storage"
	"tomatobar/internal/ui/console"
	"tomatobar/internal/ui/notify"
	"tomatobar/internal/ui/preferences"
	"tomatobar/internal/ui/tray"
)

// session holds the components shared by the tray and headless front-ends.
type session struct {
	keeper    *timekeeper.TimeKeeper
	presets   *storage.PresetFile
	player    *sound.Player
	loginItem *platform.LoginItem
	deps      timekeeper.Collaborators
	closers   []func()
}

func runApp(cmd *cobra.Command, _ []string) error {
	guard, err := platform.AcquireSingleInstance(config.AppName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "tomatobar is already running; use 'tomatobar startstop' to control it")
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = guard.Release() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newSession()
	defer s.close()

	headless, _ := cmd.Flags().GetBool("headless")
	if headless {
		return s.runHeadless(ctx, guard)
	}
	return s.runTray(ctx, guard)
}

func newSession() *session {
	dataDir := cfg.ResolveDataDir(configPath)
	s := &session{
		presets: storage.NewPresetFile(filepath.Join(dataDir, storage.PresetsFileName)),
		player:  sound.NewPlayer(volumesFromConfig(cfg.Volume)),
	}
	s.deps = timekeeper.Collaborators{Audio: s.player, Presets: s.presets}

	journal, err := storage.OpenJournal(filepath.Join(dataDir, storage.JournalFileName))
	if err != nil {
		log.ErrorErr(log.CatStorage, "transition journal unavailable", err)
	} else {
		s.deps.Journal = journal
		s.closers = append(s.closers, func() { _ = journal.Close() })
	}

	loginItem, err := platform.NewLoginItem(config.AppName)
	if err != nil {
		log.ErrorErr(log.CatPlatform, "launch at login unavailable", err)
	} else {
		s.loginItem = loginItem
		if cfg.LaunchAtLogin {
			if err := loginItem.Apply(true); err != nil {
				log.ErrorErr(log.CatPlatform, "refresh login item", err)
			}
		}
	}
	return s
}

// start creates the controller from deps and runs the background services.
func (s *session) start(ctx context.Context, guard *platform.InstanceGuard) {
	s.keeper = timekeeper.New(timekeeper.Config{Settings: cfg.Settings()}, s.deps)
	s.keeper.Start()
	s.closers = append(s.closers, s.keeper.Stop)

	go guard.Serve(ctx, s.handleCommand)
	s.watchPresets(ctx)
}

func (s *session) close() {
	for index := len(s.closers) - 1; index >= 0; index-- {
		s.closers[index]()
	}
}

func (s *session) handleCommand(command platform.Command) error {
	switch command {
	case platform.CommandStartStop:
		return s.keeper.StartStop()
	default:
		return fmt.Errorf("%w: %s", platform.ErrUnknownCommand, command)
	}
}

// watchPresets reloads the preset file when it is edited by hand.
func (s *session) watchPresets(ctx context.Context) {
	watcher, err := storage.NewWatcher(s.presets.Path(), storage.DefaultDebounce)
	if err != nil {
		log.ErrorErr(log.CatStorage, "preset watcher unavailable", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.presets.Path()), 0o755); err != nil {
		log.ErrorErr(log.CatStorage, "create data directory", err)
	}
	changes, err := watcher.Start()
	if err != nil {
		log.ErrorErr(log.CatStorage, "preset watcher unavailable", err)
		_ = watcher.Stop()
		return
	}
	s.closers = append(s.closers, func() { _ = watcher.Stop() })

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				log.Info(log.CatPreset, "preset file changed", "path", s.presets.Path())
				if err := s.keeper.ReloadPresets(s.presets.Load()); err != nil {
					return
				}
			}
		}
	}()
}

func (s *session) runHeadless(ctx context.Context, guard *platform.InstanceGuard) error {
	front := console.New(os.Stdin, os.Stdout)
	s.deps.Display = front
	s.deps.Notifier = front
	s.start(ctx, guard)
	front.Attach(s.keeper)

	return front.Run(ctx, s.keeper.Subscribe(ctx))
}

func (s *session) runTray(ctx context.Context, guard *platform.InstanceGuard) error {
	fyneApp := app.NewWithID("com.tomatobar.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform, run with --headless")
	}

	var prefsWindow *preferences.Window
	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStartStop: func() { report("start/stop", s.keeper.StartStop()) },
		OnSkipRest:  func() { report("skip rest", s.keeper.SkipRest()) },
		OnSelectPreset: func(kind model.PresetKind) {
			report("select preset", s.keeper.SelectPreset(kind))
		},
		OnPreferences: func() {
			prefsWindow.Update(s.values())
			prefsWindow.Show()
		},
		OnQuit: fyneApp.Quit,
	})
	s.deps.Display = trayManager
	s.deps.Notifier = notify.New(fyneApp)
	s.start(ctx, guard)

	prefsWindow = preferences.New(fyneApp, s.values(), s.applyPreferences)

	go func() {
		for event := range s.keeper.Subscribe(ctx) {
			trayManager.Update(event.Payload)
		}
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	fyneApp.Run()
	return nil
}

func (s *session) values() preferences.Values {
	values := preferences.Values{
		LaunchAtLogin: cfg.LaunchAtLogin,
		Volumes:       volumesFromConfig(cfg.Volume),
		Settings:      cfg.Settings(),
		Presets:       model.DefaultPresets(),
	}
	snapshot, err := s.keeper.Snapshot()
	if err != nil {
		return values
	}
	values.ActivePreset = snapshot.ActivePreset
	values.Presets = snapshot.Presets
	values.Settings = snapshot.Settings
	return values
}

func (s *session) applyPreferences(values preferences.Values) {
	snapshot, err := s.keeper.Snapshot()
	if err != nil {
		return
	}
	if values.ActivePreset != snapshot.ActivePreset {
		report("select preset", s.keeper.SelectPreset(values.ActivePreset))
	}
	custom := values.Presets[model.PresetCustom]
	if values.ActivePreset.Mutable() && custom != snapshot.Presets[model.PresetCustom] {
		report("update preset", s.keeper.UpdatePreset(custom))
	}
	report("update settings", s.keeper.UpdateSettings(values.Settings))
	s.player.SetVolumes(values.Volumes)

	if s.loginItem != nil && values.LaunchAtLogin != cfg.LaunchAtLogin {
		report("launch at login", s.loginItem.Apply(values.LaunchAtLogin))
	}

	cfg = cfg.WithSettings(values.Settings)
	cfg.LaunchAtLogin = values.LaunchAtLogin
	cfg.Volume = config.VolumeConfig(values.Volumes)
	report("save config", config.Save(configPath, cfg))
}

func volumesFromConfig(volume config.VolumeConfig) sound.Volumes {
	return sound.Volumes(volume)
}

func report(action string, err error) {
	if err != nil {
		log.Warn(log.CatUI, "action failed", "action", action, "error", err)
	}
}
