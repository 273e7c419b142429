package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/config"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/credential"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/keyring"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/metadata"
	"github.com/derekspelledcorrectly/claude-profile-manager/internal/token"
)

// SaveResult describes a completed save.
type SaveResult struct {
	Name    string              `json:"name"`
	Kind    credential.AuthKind `json:"kind"`
	Created bool                `json:"created"`
	Aliases []string            `json:"aliases,omitempty"`
}

// SwitchResult describes a completed switch.
type SwitchResult struct {
	Name     string              `json:"name"`
	Kind     credential.AuthKind `json:"kind"`
	Health   string              `json:"health,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
}

// DeleteResult describes a completed delete.
type DeleteResult struct {
	Name       string `json:"name"`
	WasCurrent bool   `json:"was_current"`
}

// Save captures the live credentials into the named profile, creating or
// overwriting its record and stored secret. With an empty name it targets
// the current profile.
func (m *Manager) Save(name string, aliasNames []string) (*SaveResult, error) {
	if name == "" {
		name = m.meta.Current()
		if name == "" {
			return nil, ErrNoTarget
		}
	}

	if err := credential.ValidateName(name); err != nil {
		return nil, err
	}
	for _, a := range aliasNames {
		if err := credential.ValidateName(a); err != nil {
			return nil, fmt.Errorf("invalid alias: %w", err)
		}
	}

	existed := m.meta.Exists(name)
	if existed {
		ok, err := m.confirmOverwrite(name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrOverwriteDeclined, name)
		}
	}

	kind, err := m.DetectLive()
	if err != nil {
		return nil, err
	}
	if kind == credential.AuthKindNone {
		return nil, ErrNoLiveCredentials
	}

	secret, err := m.store.Get(m.liveAccount, liveService(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to read live credentials: %w", err)
	}

	if err := m.store.Save(name, credential.ServiceBackup, secret); err != nil {
		return nil, fmt.Errorf("failed to store profile credentials: %w", err)
	}

	now := m.now().UTC().Format(metadata.TimeLayout)
	rec := metadata.Record{
		Created:    now,
		AuthMethod: string(kind),
		LastUsed:   now,
	}
	if existed {
		if old, err := m.meta.Read(name); err == nil && old.Created != "" {
			rec.Created = old.Created
		}
	}
	if err := m.meta.Write(name, rec); err != nil {
		return nil, err
	}

	for _, a := range aliasNames {
		if err := m.aliases.Set(a, name); err != nil {
			return nil, fmt.Errorf("failed to record alias %q: %w", a, err)
		}
	}

	_ = m.audit.Log("SAVE", name, kind.String())

	return &SaveResult{
		Name:    name,
		Kind:    kind,
		Created: !existed,
		Aliases: aliasNames,
	}, nil
}

// Switch makes the named profile's stored credentials live and records it
// as the current profile. The live slot of the other auth kind is cleared
// so the upstream tool can never read stale credentials of the wrong
// kind.
func (m *Manager) Switch(nameOrAlias string) (*SwitchResult, error) {
	if err := credential.ValidateName(nameOrAlias); err != nil {
		return nil, err
	}
	name := m.Resolve(nameOrAlias)

	if !m.meta.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	result := &SwitchResult{Name: name}

	if err := m.autoSaveCurrent(name, result); err != nil {
		return nil, err
	}

	kind := m.ProfileKind(name)
	if kind != credential.AuthKindAPIKey && kind != credential.AuthKindOAuth {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	result.Kind = kind

	secret, err := m.store.Get(name, credential.ServiceBackup)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrSecretUnretrievable, name)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrSecretUnretrievable, name, err)
	}

	if kind == credential.AuthKindOAuth {
		health := token.CheckHealth(m.now(), secret)
		result.Health = health
		if strings.HasPrefix(health, "expired") || strings.HasPrefix(health, "expires soon") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("credential for %q is %s", name, health))
			_ = m.notify.NotifyExpiryWarning(name, health)
		}
	}

	// Swap first, pointer last: a crash in between leaves the pointer
	// under-reporting, never claiming a switch that did not happen.
	if err := m.store.Save(m.liveAccount, liveService(kind), secret); err != nil {
		return nil, fmt.Errorf("failed to activate credentials for %q: %w", name, err)
	}
	if err := m.store.Delete(m.liveAccount, otherLiveService(kind)); err != nil {
		// The primary swap already succeeded; a failed clear is a
		// warning, not an operation failure.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("failed to clear the unused live credential slot: %v", err))
	}

	if err := m.meta.SetLastUsed(name, m.now()); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("failed to update last-used time: %v", err))
	}
	if err := m.meta.SetCurrent(name); err != nil {
		return nil, err
	}

	_ = m.audit.Log("SWITCH", name, kind.String())
	_ = m.notify.NotifySwitch(name)

	return result, nil
}

// autoSaveCurrent is the auto-save safety step: before switching away
// from an active OAuth profile, capture the live bundle (which the
// upstream tool may have refreshed since it was saved) back into that
// profile's stored secret. Best-effort by default.
func (m *Manager) autoSaveCurrent(target string, result *SwitchResult) error {
	current := m.meta.Current()
	if current == "" || current == target || !m.meta.Exists(current) {
		return nil
	}
	if m.ProfileKind(current) != credential.AuthKindOAuth {
		return nil
	}

	live, err := m.store.Get(m.liveAccount, credential.ServiceLiveOAuth)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			// Nothing live to preserve.
			return nil
		}
		return m.handleAutoSaveFailure(current, err, result)
	}

	// Diff before write: a bundle identical to the stored one needs no
	// re-save.
	if stored, err := m.store.Get(current, credential.ServiceBackup); err == nil && stored == live {
		return nil
	}

	if err := m.store.Save(current, credential.ServiceBackup, live); err != nil {
		return m.handleAutoSaveFailure(current, err, result)
	}

	_ = m.audit.Log("AUTO-SAVE", current, "oauth")
	return nil
}

func (m *Manager) handleAutoSaveFailure(current string, cause error, result *SwitchResult) error {
	switch m.autoSavePolicy {
	case config.AutoSaveAbort:
		return fmt.Errorf("%w: %q: %v", ErrAutoSaveFailed, current, cause)
	case config.AutoSavePrompt:
		ok, err := m.continueAfterFailed(current)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", ErrAutoSaveFailed, current)
		}
	}
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("could not back up live credentials for %q before switching", current))
	return nil
}

// Delete removes a profile, its stored secret, and the current-profile
// pointer if it referenced the profile. Aliases pointing at the deleted
// profile are left in place; removing them is an explicit alias
// operation.
func (m *Manager) Delete(nameOrAlias string) (*DeleteResult, error) {
	if err := credential.ValidateName(nameOrAlias); err != nil {
		return nil, err
	}
	name := m.Resolve(nameOrAlias)

	if !m.meta.Exists(name) {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	kind := m.ProfileKind(name)

	// Best-effort: a secret that cannot be deleted should not strand the
	// record.
	_ = m.store.Delete(name, credential.ServiceBackup)

	if err := m.meta.Delete(name); err != nil {
		return nil, err
	}

	wasCurrent := m.meta.Current() == name
	if wasCurrent {
		if err := m.meta.ClearCurrent(); err != nil {
			return nil, err
		}
	}

	_ = m.audit.Log("DELETE", name, kind.String())

	return &DeleteResult{Name: name, WasCurrent: wasCurrent}, nil
}
