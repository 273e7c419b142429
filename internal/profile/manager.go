// Package profile implements the profile lifecycle engine: saving live
// credentials into named profiles, switching between them, and keeping
// the metadata records, alias table and current-profile pointer
// consistent.
package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/alias"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/audit"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/config"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/credential"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/keyring"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/metadata"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/notify"
)

var (
	// ErrNoTarget is returned when Save has no profile name and no
	// current profile to default to.
	ErrNoTarget = errors.New("no target profile: give a profile name or switch to one first")
	// ErrNoCurrent is returned when no current profile is set.
	ErrNoCurrent = errors.New("no current profile set")
	// ErrProfileNotFound is returned when a profile record does not
	// exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoLiveCredentials is returned when Save finds nothing to save.
	ErrNoLiveCredentials = errors.New("no live credentials found: log in with Claude Code first")
	// ErrOverwriteDeclined is returned when overwriting an existing
	// profile was refused by policy or by the user.
	ErrOverwriteDeclined = errors.New("profile already exists: overwrite declined")
	// ErrUnknownKind is returned when a profile's auth kind cannot be
	// determined well enough to switch to it.
	ErrUnknownKind = errors.New("cannot determine profile auth kind")
	// ErrSecretUnretrievable is returned when a profile record exists
	// but its stored secret cannot be read.
	ErrSecretUnretrievable = errors.New("stored credential for profile is unretrievable")
	// ErrAutoSaveFailed is returned when the pre-switch auto-save fails
	// under the abort policy.
	ErrAutoSaveFailed = errors.New("failed to back up live credentials before switching")
)

// DecisionFunc answers a yes/no question about a profile, typically by
// prompting the user. The engine never talks to a terminal itself.
type DecisionFunc func(name string) (bool, error)

// Manager orchestrates the secure store, the metadata store, the alias
// table and the health analyzer. It is the only component with
// cross-cutting invariants.
type Manager struct {
	store   keyring.Store
	meta    *metadata.Store
	aliases *alias.Store
	audit   *audit.Logger
	notify  notify.Notifier

	confirmOverwrite    DecisionFunc
	continueAfterFailed DecisionFunc
	autoSavePolicy      string

	liveAccount string
	now         func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfirmOverwrite sets the decision function used when saving over
// an existing profile under the prompt policy.
func WithConfirmOverwrite(fn DecisionFunc) Option {
	return func(m *Manager) { m.confirmOverwrite = fn }
}

// WithAutoSaveFailurePrompt sets the decision function used when the
// pre-switch auto-save fails under the promptContinue policy.
func WithAutoSaveFailurePrompt(fn DecisionFunc) Option {
	return func(m *Manager) { m.continueAfterFailed = fn }
}

// WithNotifier sets the notifier used for switch notifications.
func WithNotifier(n notify.Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// WithAuditLogger sets the audit logger.
func WithAuditLogger(l *audit.Logger) Option {
	return func(m *Manager) { m.audit = l }
}

// WithLiveAccount overrides the keyring account used for the live
// credential slots (for testing).
func WithLiveAccount(account string) Option {
	return func(m *Manager) { m.liveAccount = account }
}

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over the given store and profile
// directory, applying the policies from cfg.
func NewManager(dir string, store keyring.Store, cfg *config.Config, opts ...Option) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}

	m := &Manager{
		store:          store,
		meta:           metadata.NewStore(dir),
		aliases:        alias.NewStore(dir),
		audit:          audit.New(dir, false),
		notify:         notify.New(config.NotificationConfig{}),
		autoSavePolicy: cfg.OnAutoSaveFailure,
		liveAccount:    credential.LiveAccount(),
		now:            time.Now,
	}

	switch cfg.ConfirmOverwrite {
	case config.ConfirmAlways:
		m.confirmOverwrite = func(string) (bool, error) { return true, nil }
	case config.ConfirmNever:
		m.confirmOverwrite = func(string) (bool, error) { return false, nil }
	default:
		// Prompt policy without an injected decision function refuses,
		// so non-interactive callers never overwrite by accident.
		m.confirmOverwrite = func(string) (bool, error) { return false, nil }
	}

	m.continueAfterFailed = func(string) (bool, error) { return true, nil }

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Metadata exposes the metadata store for diagnostics.
func (m *Manager) Metadata() *metadata.Store {
	return m.meta
}

// Resolve maps a user-facing name to a canonical profile name. A direct
// profile match wins over an alias; a name matching neither is returned
// unchanged.
func (m *Manager) Resolve(name string) string {
	if m.meta.Exists(name) {
		return name
	}
	if target, ok := m.aliases.Lookup(name); ok {
		return target
	}
	return name
}

// DetectLive classifies the live credentials the upstream tool currently
// holds. The OAuth slot is probed first since its presence is the
// stronger signal of active use.
func (m *Manager) DetectLive() (credential.AuthKind, error) {
	if _, err := m.store.Get(m.liveAccount, credential.ServiceLiveOAuth); err == nil {
		return credential.AuthKindOAuth, nil
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return credential.AuthKindUnknown, fmt.Errorf("credential store unavailable: %w", err)
	}

	if _, err := m.store.Get(m.liveAccount, credential.ServiceLiveAPIKey); err == nil {
		return credential.AuthKindAPIKey, nil
	} else if !errors.Is(err, keyring.ErrNotFound) {
		return credential.AuthKindUnknown, fmt.Errorf("credential store unavailable: %w", err)
	}

	return credential.AuthKindNone, nil
}

// ProfileKind determines a profile's auth kind. The persisted authMethod
// field is authoritative; the layered fallbacks exist only for records
// created before the field was written.
func (m *Manager) ProfileKind(name string) credential.AuthKind {
	if rec, err := m.meta.Read(name); err == nil {
		if kind := credential.ParseAuthKind(rec.AuthMethod); kind != credential.AuthKindUnknown {
			return kind
		}
	}

	if kind := credential.WellKnownKind(name); kind != credential.AuthKindUnknown {
		return kind
	}

	if secret, err := m.store.Get(name, credential.ServiceBackup); err == nil {
		if kind := credential.Classify(secret); kind != credential.AuthKindUnknown {
			return kind
		}
	}

	if kind, err := m.DetectLive(); err == nil &&
		(kind == credential.AuthKindAPIKey || kind == credential.AuthKindOAuth) {
		return kind
	}

	return credential.AuthKindUnknown
}

// liveService returns the live slot service for an auth kind.
func liveService(kind credential.AuthKind) string {
	if kind == credential.AuthKindAPIKey {
		return credential.ServiceLiveAPIKey
	}
	return credential.ServiceLiveOAuth
}

// otherLiveService returns the live slot that must be cleared when
// switching to a profile of the given kind.
func otherLiveService(kind credential.AuthKind) string {
	if kind == credential.AuthKindAPIKey {
		return credential.ServiceLiveOAuth
	}
	return credential.ServiceLiveAPIKey
}
