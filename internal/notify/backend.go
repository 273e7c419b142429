package notify

import "github.com/gen2brain/beeep"

// Backend abstracts the notification delivery mechanism so the notifier
// can be tested without a desktop session.
type Backend interface {
	// Notify sends an informational notification.
	Notify(title, message, iconPath string) error
	// Alert sends a higher-urgency notification.
	Alert(title, message, iconPath string) error
}

// desktopBackend delivers through the platform notification service.
type desktopBackend struct{}

func (desktopBackend) Notify(title, message, iconPath string) error {
	return beeep.Notify(title, message, iconPath)
}

func (desktopBackend) Alert(title, message, iconPath string) error {
	return beeep.Alert(title, message, iconPath)
}

func newDesktopBackend() Backend {
	return desktopBackend{}
}
