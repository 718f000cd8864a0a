package model

import (
	"fmt"
	"time"
)

// DefaultOverrunTimeLimit is how far past a deadline a tick may land before
// the session is treated as stale.
const DefaultOverrunTimeLimit = -60 * time.Second

// Settings contains runtime options for the session controller.
type Settings struct {
	StopAfterBreak     bool
	ShowTimerInMenuBar bool
	// OverrunTimeLimit is non-positive; a tick observing a remaining time
	// below it abandons the session instead of firing the timer.
	OverrunTimeLimit time.Duration
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		StopAfterBreak:     false,
		ShowTimerInMenuBar: true,
		OverrunTimeLimit:   DefaultOverrunTimeLimit,
	}
}

// Validate rejects settings the controller cannot honour.
func (settings Settings) Validate() error {
	if settings.OverrunTimeLimit > 0 {
		return fmt.Errorf("overrun time limit must not be positive, got %s", settings.OverrunTimeLimit)
	}
	return nil
}
