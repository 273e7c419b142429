package profile

import (
	"errors"
	"fmt"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/credential"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/keyring"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/metadata"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/token"
)

// Entry is one row of the profile listing.
type Entry struct {
	Name     string              `json:"name"`
	Aliases  []string            `json:"aliases,omitempty"`
	Kind     credential.AuthKind `json:"kind"`
	Created  string              `json:"created"`
	LastUsed string              `json:"last_used"`
	Status   string              `json:"status"`
	Current  bool                `json:"current"`
}

// CurrentResult describes the current profile.
type CurrentResult struct {
	Name string              `json:"name"`
	Kind credential.AuthKind `json:"kind"`
}

// List assembles the status table for all profiles, sorted by name.
// A profile whose record or secret is damaged still gets a row; nothing
// here fails the listing.
func (m *Manager) List() ([]Entry, error) {
	names, err := m.meta.Enumerate()
	if err != nil {
		return nil, err
	}

	current := m.meta.Current()

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		rec, _ := m.meta.Read(name)
		kind := m.ProfileKind(name)

		entries = append(entries, Entry{
			Name:     name,
			Aliases:  m.aliases.AliasesFor(name),
			Kind:     kind,
			Created:  metadata.FormatTimestamp(rec.Created),
			LastUsed: metadata.FormatTimestamp(rec.LastUsed),
			Status:   m.profileStatus(name, kind),
			Current:  name == current,
		})
	}
	return entries, nil
}

// profileStatus renders the status column for one profile.
func (m *Manager) profileStatus(name string, kind credential.AuthKind) string {
	switch kind {
	case credential.AuthKindAPIKey:
		if _, err := m.store.Get(name, credential.ServiceBackup); err != nil {
			return "missing"
		}
		return "ready"
	case credential.AuthKindOAuth:
		secret, err := m.store.Get(name, credential.ServiceBackup)
		if err != nil {
			return "missing"
		}
		return token.CheckHealth(m.now(), secret)
	default:
		return token.HealthNA
	}
}

// Current reports the current profile and its kind.
func (m *Manager) Current() (*CurrentResult, error) {
	name := m.meta.Current()
	if name == "" {
		return nil, ErrNoCurrent
	}
	return &CurrentResult{
		Name: name,
		Kind: m.ProfileKind(name),
	}, nil
}

// AddAlias maps an alias to an existing profile. Adding an alias to a
// nonexistent profile fails.
func (m *Manager) AddAlias(aliasName, target string) error {
	if err := credential.ValidateName(aliasName); err != nil {
		return fmt.Errorf("invalid alias: %w", err)
	}
	if err := credential.ValidateName(target); err != nil {
		return err
	}
	if !m.meta.Exists(target) {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, target)
	}
	if err := m.aliases.Set(aliasName, target); err != nil {
		return err
	}
	_ = m.audit.Log("ALIAS-ADD", target, aliasName)
	return nil
}

// RemoveAlias removes an alias mapping.
func (m *Manager) RemoveAlias(aliasName string) error {
	if err := credential.ValidateName(aliasName); err != nil {
		return fmt.Errorf("invalid alias: %w", err)
	}
	if err := m.aliases.Remove(aliasName); err != nil {
		return err
	}
	_ = m.audit.Log("ALIAS-REMOVE", aliasName, "")
	return nil
}

// Aliases returns the full alias table.
func (m *Manager) Aliases() (map[string]string, error) {
	return m.aliases.All()
}

// IsNotFound reports whether an error is one of the engine's not-found
// conditions, as opposed to a store or I/O failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrNoCurrent) ||
		errors.Is(err, keyring.ErrNotFound) ||
		errors.Is(err, metadata.ErrRecordNotFound)
}
