package timekeeper

import (
	"fmt"
	"time"

	"tomatobar/internal/core/phase"
	"tomatobar/internal/log"
)

// startCountdown arms the deadline and replaces any running ticker.
func (keeper *TimeKeeper) startCountdown(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("start countdown: non-positive duration %s", duration)
	}
	if keeper.ticker != nil {
		keeper.ticker.Stop()
	}

	keeper.deadline = keeper.clock.Now().Add(duration)
	keeper.ticker = keeper.clock.NewTicker(keeper.options.TickInterval)
	log.Debug(log.CatTimer, "countdown started", "duration", duration, "deadline", keeper.deadline)

	keeper.refreshRemaining()
	return nil
}

// stopCountdown cancels the ticker and clears the deadline. Safe to call
// when no countdown is running.
func (keeper *TimeKeeper) stopCountdown() {
	if keeper.ticker == nil {
		return
	}
	keeper.ticker.Stop()
	keeper.ticker = nil
	keeper.deadline = time.Time{}
	log.Debug(log.CatTimer, "countdown stopped")
	keeper.onCancel()
}

func (keeper *TimeKeeper) onCancel() {
	keeper.refreshRemaining()
}

// tick recomputes the remaining time as of the tick time now and fires the
// timer once the deadline has passed. Ticks can be missed while the machine
// sleeps; a deadline overrun beyond the configured limit abandons the
// session instead.
func (keeper *TimeKeeper) tick(now time.Time) {
	if keeper.ticker == nil {
		return
	}

	remaining := keeper.refreshRemainingAt(now)
	if remaining > 0 {
		return
	}

	if remaining < keeper.settings.OverrunTimeLimit {
		log.Warn(log.CatTimer, "deadline overrun beyond limit, stopping session",
			"overrun", -remaining,
			"limit", keeper.settings.OverrunTimeLimit,
			"phase", keeper.machine.Current(),
		)
		keeper.fire(phase.StartStop)
		return
	}
	keeper.fire(phase.TimerFired)
}

// refreshRemaining publishes the remaining time and returns it.
func (keeper *TimeKeeper) refreshRemaining() time.Duration {
	return keeper.refreshRemainingAt(keeper.clock.Now())
}

func (keeper *TimeKeeper) refreshRemainingAt(now time.Time) time.Duration {
	var remaining time.Duration
	if keeper.ticker != nil {
		remaining = keeper.deadline.Sub(now)
		keeper.remainingText = formatRemaining(remaining)
	} else {
		keeper.remainingText = ""
	}

	keeper.updateTitle()
	keeper.publish(Event{Type: EventProgress})
	return remaining
}

func (keeper *TimeKeeper) updateTitle() {
	if keeper.ticker != nil && keeper.settings.ShowTimerInMenuBar {
		keeper.deps.Display.SetTitle(keeper.remainingText)
		return
	}
	keeper.deps.Display.SetTitle("")
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
