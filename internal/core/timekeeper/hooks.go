package timekeeper

import (
	"tomatobar/internal/core/phase"
	"tomatobar/internal/log"
)

// Notification texts.
const (
	workFinishedTitle = "Pomodoro session complete!"
	workFinishedBody  = "Time for a break!"
	restStartedTitle  = "Time's up"
	shortRestBody     = "It's time for a short break!"
	longRestBody      = "It's time for a long break!"
	restFinishedTitle = "Break is over"
	restFinishedBody  = "Keep up the good work!"
)

// registerHooks wires the session side effects into the machine.
// Finish hooks run only when an interval ran out, end hooks whenever the
// interval ended, including cancellation.
func (keeper *TimeKeeper) registerHooks() {
	keeper.machine.OnStart(phase.Work, keeper.onWorkStart)
	keeper.machine.OnFinish(phase.Work, phase.Rest, keeper.onWorkFinish)
	keeper.machine.OnEnd(phase.Work, keeper.onWorkEnd)
	keeper.machine.OnStart(phase.Rest, keeper.onRestStart)
	keeper.machine.OnFinish(phase.Rest, phase.Work, keeper.onRestFinish)
	keeper.machine.OnStart(phase.Idle, keeper.onIdleStart)
	keeper.machine.OnTransition(keeper.onTransition)
}

func (keeper *TimeKeeper) onWorkStart(phase.Transition) error {
	keeper.deps.Display.SetIcon(IconWork)
	keeper.deps.Audio.PlayStartSound()
	for _, kind := range AmbienceKinds() {
		keeper.deps.Audio.StartAmbience(kind)
	}
	return keeper.startCountdown(keeper.working.WorkDuration())
}

func (keeper *TimeKeeper) onWorkFinish(phase.Transition) error {
	keeper.consecutiveWorkIntervals++
	keeper.deps.Audio.PlayEndSound()
	keeper.deps.Notifier.Send(Notification{
		Title:    workFinishedTitle,
		Body:     workFinishedBody,
		Category: CategoryWorkFinished,
	})
	return nil
}

func (keeper *TimeKeeper) onWorkEnd(phase.Transition) error {
	for _, kind := range AmbienceKinds() {
		keeper.deps.Audio.StopAmbience(kind)
	}
	return nil
}

func (keeper *TimeKeeper) onRestStart(phase.Transition) error {
	long := keeper.consecutiveWorkIntervals >= keeper.working.WorkIntervalsPerSet
	body, icon := shortRestBody, IconShortRest
	if long {
		body, icon = longRestBody, IconLongRest
		keeper.consecutiveWorkIntervals = 0
	}

	keeper.deps.Notifier.Send(Notification{
		Title:    restStartedTitle,
		Body:     body,
		Category: CategoryRestStarted,
	})
	keeper.deps.Display.SetIcon(icon)
	return keeper.startCountdown(keeper.working.RestDuration(long))
}

func (keeper *TimeKeeper) onRestFinish(transition phase.Transition) error {
	if transition.Event == phase.SkipRest {
		return nil
	}
	keeper.deps.Notifier.Send(Notification{
		Title:    restFinishedTitle,
		Body:     restFinishedBody,
		Category: CategoryRestFinished,
	})
	return nil
}

func (keeper *TimeKeeper) onIdleStart(phase.Transition) error {
	keeper.stopCountdown()
	keeper.deps.Display.SetIcon(IconIdle)
	keeper.consecutiveWorkIntervals = 0
	return nil
}

func (keeper *TimeKeeper) onTransition(transition phase.Transition) error {
	log.Info(log.CatPhase, "transition",
		"from", transition.From,
		"to", transition.To,
		"event", transition.Event,
		"consecutive", keeper.consecutiveWorkIntervals,
	)
	if keeper.deps.Journal == nil {
		return nil
	}
	// The journal is a history aid; losing an entry is not a session error.
	if err := keeper.deps.Journal.Record(transition); err != nil {
		log.ErrorErr(log.CatStorage, "record transition", err)
	}
	return nil
}
