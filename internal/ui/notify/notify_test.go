package notify

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"tomatobar/internal/core/timekeeper"
)

func TestNotifier_Send(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()
	notifier := New(app)

	test.AssertNotificationSent(t, fyne.NewNotification("Time's up", "It's time for a short break!"), func() {
		notifier.Send(timekeeper.Notification{
			Title:    "Time's up",
			Body:     "It's time for a short break!",
			Category: timekeeper.CategoryRestStarted,
		})
	})
}
