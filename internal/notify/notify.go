// Package notify provides desktop notification support for profile
// switches.
package notify

import (
	"fmt"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/config"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifySwitch sends a notification after a successful profile
	// switch.
	NotifySwitch(profile string) error
	// NotifyExpiryWarning sends an alert when a switched-to credential
	// is expired or about to expire.
	NotifyExpiryWarning(profile, health string) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification
// service.
type notifier struct {
	onSwitch bool
	onExpiry bool
	backend  Backend
}

// NotifySwitch sends a notification after a successful profile switch.
func (n *notifier) NotifySwitch(profile string) error {
	if !n.onSwitch {
		return nil
	}

	title := "Claude profile switched"
	message := fmt.Sprintf("Now using profile '%s'.", profile)

	return n.backend.Notify(title, message, "")
}

// NotifyExpiryWarning sends an alert about an expired or expiring
// credential.
func (n *notifier) NotifyExpiryWarning(profile, health string) error {
	if !n.onExpiry {
		return nil
	}

	title := "Claude profile credential warning"
	message := fmt.Sprintf("Credential for '%s' is %s.", profile, health)

	return n.backend.Alert(title, message, "")
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onSwitch: cfg.Enabled && cfg.OnSwitch,
		onExpiry: cfg.Enabled && cfg.OnExpiryWarning,
		backend:  newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
