package timekeeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"tomatobar/internal/core/clock"
	"tomatobar/internal/core/model"
	"tomatobar/internal/core/phase"
	"tomatobar/internal/log"
	"tomatobar/internal/pubsub"
)

var (
	// ErrNotRunning is returned by commands issued before Start or after Stop.
	ErrNotRunning = errors.New("timekeeper is not running")
	// ErrPresetReadOnly is returned when editing a preset other than custom.
	ErrPresetReadOnly = errors.New("preset is read-only")
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Clock        clock.Clock
	Settings     model.Settings
	// OnFatal is called when a transition hook fails. The default logs the
	// transition and exits the process.
	OnFatal func(error)
}

// TimeKeeper is the session controller. It owns the phase machine and runs
// a single event loop; commands and ticks are processed one at a time on
// that loop, so session state needs no locking.
type TimeKeeper struct {
	mu      sync.Mutex
	running bool
	started bool
	stopCh  chan struct{}
	exited  chan struct{}

	options  Config
	deps     Collaborators
	clock    clock.Clock
	requests chan func()
	broker   *pubsub.Broker[Event]

	// Owned by the loop goroutine.
	machine                  *phase.Machine
	settings                 model.Settings
	presets                  model.Presets
	activePreset             model.PresetKind
	working                  model.Preset
	consecutiveWorkIntervals int
	ticker                   clock.Ticker
	deadline                 time.Time
	remainingText            string
}

// New creates a TimeKeeper in the Idle phase with the stored presets loaded.
func New(config Config, deps Collaborators) *TimeKeeper {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Clock == nil {
		config.Clock = clock.System
	}
	if err := config.Settings.Validate(); err != nil {
		log.Warn(log.CatConfig, "invalid settings, using defaults", "error", err)
		config.Settings = model.DefaultSettings()
	}
	if config.OnFatal == nil {
		config.OnFatal = fatal
	}
	deps = deps.withDefaults()

	keeper := &TimeKeeper{
		options:  config,
		deps:     deps,
		clock:    config.Clock,
		requests: make(chan func()),
		broker:   pubsub.NewBroker[Event](),
		settings: config.Settings,
		presets:  withFixedDefaults(deps.Presets.Load()),
	}

	keeper.activePreset = deps.Presets.LoadActive()
	if !keeper.activePreset.Valid() {
		keeper.activePreset = model.PresetMorning
	}
	keeper.working = keeper.presets[keeper.activePreset]

	stopAfterBreak := func() bool { return keeper.settings.StopAfterBreak }
	keeper.machine = phase.New(phase.Idle, phase.PomodoroTable(stopAfterBreak), keeper.clock.Now)
	keeper.registerHooks()
	return keeper
}

// Subscribe registers a new observer channel. It is closed when ctx ends or
// the TimeKeeper stops.
func (keeper *TimeKeeper) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return keeper.broker.Subscribe(ctx)
}

// Start launches the event loop. A TimeKeeper can be started once.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.started {
		return
	}
	keeper.started = true
	keeper.running = true
	keeper.stopCh = make(chan struct{})
	keeper.exited = make(chan struct{})

	keeper.deps.Display.SetIcon(IconIdle)
	keeper.deps.Display.SetTitle("")

	go keeper.run(keeper.stopCh, keeper.exited)
}

// Stop cancels any countdown, terminates the loop and closes observers.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	keeper.running = false
	close(keeper.stopCh)
	exited := keeper.exited
	keeper.mu.Unlock()

	<-exited
	keeper.broker.Close()
}

// StartStop toggles between Idle and Work, or ends a rest.
func (keeper *TimeKeeper) StartStop() error {
	return keeper.do(func() { keeper.fire(phase.StartStop) })
}

// SkipRest ends the current rest and starts the next work interval. It is
// ignored outside of Rest.
func (keeper *TimeKeeper) SkipRest() error {
	return keeper.do(func() { keeper.fire(phase.SkipRest) })
}

// HandleNotificationAction reacts to a notification button.
func (keeper *TimeKeeper) HandleNotificationAction(action Action) error {
	return keeper.do(func() {
		switch action {
		case ActionSkipRest:
			if keeper.machine.Current() == phase.Rest {
				keeper.fire(phase.SkipRest)
			}
		default:
			log.Warn(log.CatUI, "unknown notification action", "action", action)
		}
	})
}

// Snapshot returns the current session state.
func (keeper *TimeKeeper) Snapshot() (Snapshot, error) {
	var snapshot Snapshot
	err := keeper.do(func() { snapshot = keeper.snapshot() })
	return snapshot, err
}

func (keeper *TimeKeeper) snapshot() Snapshot {
	snapshot := Snapshot{
		Phase:                    keeper.machine.Current(),
		RemainingText:            keeper.remainingText,
		Deadline:                 keeper.deadline,
		CountdownActive:          keeper.ticker != nil,
		ConsecutiveWorkIntervals: keeper.consecutiveWorkIntervals,
		ActivePreset:             keeper.activePreset,
		Preset:                   keeper.working,
		Presets:                  keeper.presets,
		Settings:                 keeper.settings,
	}
	if snapshot.CountdownActive {
		snapshot.Remaining = keeper.deadline.Sub(keeper.clock.Now())
	}
	return snapshot
}

// do runs fn on the loop goroutine and waits for it to finish. It must not
// be called from a hook or collaborator invoked by the loop.
func (keeper *TimeKeeper) do(fn func()) error {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return ErrNotRunning
	}
	stopCh := keeper.stopCh
	keeper.mu.Unlock()

	done := make(chan struct{})
	request := func() {
		defer close(done)
		fn()
	}
	select {
	case keeper.requests <- request:
	case <-stopCh:
		return ErrNotRunning
	}
	<-done
	return nil
}

func (keeper *TimeKeeper) run(stopCh, exited chan struct{}) {
	defer close(exited)

	for {
		var ticks <-chan time.Time
		if keeper.ticker != nil {
			ticks = keeper.ticker.C()
		}

		select {
		case <-stopCh:
			keeper.stopCountdown()
			return
		case request := <-keeper.requests:
			request()
		case now := <-ticks:
			keeper.tick(now)
		}
	}
}

func (keeper *TimeKeeper) fire(event phase.Event) {
	result, err := keeper.machine.Fire(event)
	if err != nil {
		keeper.options.OnFatal(err)
		return
	}
	if !result.Changed {
		log.Debug(log.CatPhase, "event ignored", "phase", keeper.machine.Current(), "event", event)
		return
	}

	keeper.publish(Event{
		Type:    EventStateChange,
		Trigger: event,
		At:      result.Transition.At,
	})
}

// publish fills the session fields of event and hands it to observers.
func (keeper *TimeKeeper) publish(event Event) {
	event.Phase = keeper.machine.Current()
	event.RemainingText = keeper.remainingText
	if keeper.ticker != nil {
		event.Remaining = keeper.deadline.Sub(keeper.clock.Now())
	}
	event.ConsecutiveWorkIntervals = keeper.consecutiveWorkIntervals
	event.ActivePreset = keeper.activePreset
	event.Preset = keeper.working
	event.Settings = keeper.settings
	if event.At.IsZero() {
		event.At = keeper.clock.Now()
	}
	keeper.broker.Publish(event)
}

func fatal(err error) {
	fields := []any{}
	var hookErr *phase.HookError
	if errors.As(err, &hookErr) {
		fields = append(fields,
			"from", hookErr.Transition.From,
			"to", hookErr.Transition.To,
			"event", hookErr.Transition.Event,
			"stage", hookErr.Stage,
			"at", hookErr.Transition.At,
		)
	}
	log.Fatal(log.CatPhase, "transition hook failed", err, fields...)
}
