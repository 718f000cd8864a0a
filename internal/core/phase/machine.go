package phase

import (
	"errors"
	"fmt"
	"time"
)

// ErrReentrantFire is returned when a hook tries to fire another event.
var ErrReentrantFire = errors.New("fire called from a transition hook")

// Guard decides whether a route may be taken.
type Guard func() bool

// Hook runs while a transition is in progress.
type Hook func(Transition) error

// Route is one row of the transition table.
type Route struct {
	Event Event
	From  Phase
	To    Phase
	Guard Guard
}

// Table is an ordered list of routes. For a given phase and event the first
// route whose guard passes wins.
type Table []Route

// PomodoroTable returns the Idle/Work/Rest table. stopAfterBreak decides
// whether a finished rest returns to Idle or starts the next work interval.
func PomodoroTable(stopAfterBreak Guard) Table {
	keepGoing := func() bool { return !stopAfterBreak() }
	return Table{
		{Event: StartStop, From: Idle, To: Work},
		{Event: StartStop, From: Work, To: Idle},
		{Event: StartStop, From: Rest, To: Idle},
		{Event: TimerFired, From: Work, To: Rest},
		{Event: TimerFired, From: Rest, To: Idle, Guard: stopAfterBreak},
		{Event: TimerFired, From: Rest, To: Work, Guard: keepGoing},
		{Event: SkipRest, From: Rest, To: Work},
	}
}

// HookStage names the hook list that failed.
type HookStage string

const (
	StageFinish     HookStage = "finish"
	StageEnd        HookStage = "end"
	StageStart      HookStage = "start"
	StageTransition HookStage = "transition"
)

// HookError reports a failed hook together with the transition it broke.
type HookError struct {
	Transition Transition
	Stage      HookStage
	Err        error
}

func (err *HookError) Error() string {
	return fmt.Sprintf("%s hook failed during %s: %v", err.Stage, err.Transition, err.Err)
}

func (err *HookError) Unwrap() error {
	return err.Err
}

// Result describes the outcome of Fire.
type Result struct {
	Transition Transition
	// Changed is false when the event had no route from the current phase.
	Changed bool
}

type routeKey struct {
	from  Phase
	event Event
}

type edge struct {
	from Phase
	to   Phase
}

// Machine dispatches events through the transition table and runs hooks.
// It is not safe for concurrent use; a single owner drives it.
type Machine struct {
	current    Phase
	routes     map[routeKey][]Route
	finish     map[edge][]Hook
	end        map[Phase][]Hook
	start      map[Phase][]Hook
	transition []Hook
	now        func() time.Time
	firing     bool
}

// New creates a machine in the initial phase.
func New(initial Phase, table Table, now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	machine := &Machine{
		current: initial,
		routes:  make(map[routeKey][]Route),
		finish:  make(map[edge][]Hook),
		end:     make(map[Phase][]Hook),
		start:   make(map[Phase][]Hook),
		now:     now,
	}
	for _, route := range table {
		key := routeKey{from: route.From, event: route.Event}
		machine.routes[key] = append(machine.routes[key], route)
	}
	return machine
}

// Current returns the active phase.
func (machine *Machine) Current() Phase {
	return machine.current
}

// OnFinish registers a hook for the from->to edge only.
func (machine *Machine) OnFinish(from, to Phase, hook Hook) {
	key := edge{from: from, to: to}
	machine.finish[key] = append(machine.finish[key], hook)
}

// OnEnd registers a hook for any edge leaving from.
func (machine *Machine) OnEnd(from Phase, hook Hook) {
	machine.end[from] = append(machine.end[from], hook)
}

// OnStart registers a hook for any edge entering to.
func (machine *Machine) OnStart(to Phase, hook Hook) {
	machine.start[to] = append(machine.start[to], hook)
}

// OnTransition registers a hook for every edge.
func (machine *Machine) OnTransition(hook Hook) {
	machine.transition = append(machine.transition, hook)
}

// Resolve returns the phase event would lead to, without running hooks.
func (machine *Machine) Resolve(event Event) (Phase, bool) {
	for _, route := range machine.routes[routeKey{from: machine.current, event: event}] {
		if route.Guard == nil || route.Guard() {
			return route.To, true
		}
	}
	return machine.current, false
}

// Fire dispatches event. Events without a route are ignored. Hooks run
// synchronously in finish, end, start, transition order after the phase has
// been updated; the first failing hook stops the sequence.
func (machine *Machine) Fire(event Event) (Result, error) {
	if machine.firing {
		return Result{}, ErrReentrantFire
	}

	to, ok := machine.Resolve(event)
	if !ok {
		return Result{}, nil
	}

	transition := Transition{
		From:  machine.current,
		To:    to,
		Event: event,
		At:    machine.now(),
	}
	machine.current = to
	result := Result{Transition: transition, Changed: true}

	machine.firing = true
	defer func() { machine.firing = false }()

	stages := []struct {
		stage HookStage
		hooks []Hook
	}{
		{StageFinish, machine.finish[edge{from: transition.From, to: transition.To}]},
		{StageEnd, machine.end[transition.From]},
		{StageStart, machine.start[transition.To]},
		{StageTransition, machine.transition},
	}
	for _, stage := range stages {
		for _, hook := range stage.hooks {
			if err := hook(transition); err != nil {
				return result, &HookError{Transition: transition, Stage: stage.stage, Err: err}
			}
		}
	}
	return result, nil
}
