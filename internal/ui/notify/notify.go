// Package notify delivers session notifications through the desktop.
package notify

import (
	"fyne.io/fyne/v2"

	"tomatobar/internal/core/timekeeper"
	"tomatobar/internal/log"
)

// Notifier implements timekeeper.Notifier with fyne notifications.
type Notifier struct {
	app fyne.App
}

// New returns a Notifier sending through app.
func New(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// Send shows the notification. Desktop notifications carry no buttons;
// the skip action is offered from the tray menu instead.
func (notifier *Notifier) Send(notification timekeeper.Notification) {
	log.Debug(log.CatUI, "notification", "category", notification.Category, "title", notification.Title)
	notifier.app.SendNotification(fyne.NewNotification(notification.Title, notification.Body))
}
