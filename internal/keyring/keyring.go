// Package keyring provides secure secret storage using the OS keyring.
//
// Secrets are addressed by an (account, service) pair. Reads are padded to
// a constant minimum wall-clock duration so that timing cannot be used to
// enumerate which accounts exist.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/utils"
)

const (
	// MinReadDuration is the minimum wall-clock time a Get takes,
	// regardless of hit or miss. Short reads are padded with a sleep;
	// slow reads are never truncated.
	MinReadDuration = 10 * time.Millisecond

	// TestKeyringEnvVar is the environment variable that, when set to a
	// directory path, switches to a file-based store instead of the OS
	// keyring. This is intended for testing only.
	TestKeyringEnvVar = "CCPROFILE_TEST_KEYRING_DIR"
)

var (
	// ErrUnavailable is returned when no secure keyring is available.
	ErrUnavailable = errors.New("secure keyring is not available on this system")
	// ErrNotFound is returned when a secret is not found in the keyring.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrAccessDenied is returned when access to the keyring is denied.
	ErrAccessDenied = errors.New("access to keyring denied")
	// ErrEmptyAccount is returned when an account name is empty.
	ErrEmptyAccount = errors.New("account cannot be empty")
	// ErrEmptySecret is returned when a secret is empty.
	ErrEmptySecret = errors.New("secret cannot be empty")
)

// Store represents a secure secret storage backend keyed by
// (account, service) pairs.
type Store interface {
	// Save stores a secret for the given account and service.
	Save(account, service, secret string) error
	// Get retrieves a secret. It returns ErrNotFound on a miss and takes
	// at least MinReadDuration either way.
	Get(account, service string) (string, error)
	// Delete removes a secret. Deleting an absent entry is not an error.
	Delete(account, service string) error
	// ListAccounts returns the accounts stored under a service.
	// Best-effort: backends that cannot enumerate return a nil list.
	ListAccounts(service string) ([]string, error)
	// IsAvailable checks if the backend is usable.
	IsAvailable() error
}

// DefaultStore returns the default store for the current platform.
// If CCPROFILE_TEST_KEYRING_DIR is set, a file-based store is used instead
// so tests can run without touching the OS keyring.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		fileStore, err := NewFileStore(testDir)
		if err == nil {
			return fileStore
		}
	}
	return &osKeyring{}
}

// padReadDuration sleeps until at least MinReadDuration has elapsed since
// start. Operations that already took longer are unaffected.
func padReadDuration(start time.Time) {
	if elapsed := time.Since(start); elapsed < MinReadDuration {
		time.Sleep(MinReadDuration - elapsed)
	}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct {
	mu sync.Mutex
}

// IsAvailable checks if a secure keyring is available on this system.
func (k *osKeyring) IsAvailable() error {
	_, err := gokeyring.Get("claude-profile-manager/availability-check", "test")
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return nil
		}

		errStr := err.Error()

		if runtime.GOOS == "linux" {
			if utils.ContainsAny(errStr, "secret service", "dbus", "org.freedesktop.secrets") {
				return fmt.Errorf("%w: D-Bus secret service not available", ErrUnavailable)
			}
		}

		if runtime.GOOS == "darwin" {
			if utils.ContainsAny(errStr, "keychain", "security") {
				return fmt.Errorf("%w: macOS Keychain not accessible", ErrUnavailable)
			}
		}

		if runtime.GOOS == "windows" {
			if utils.ContainsAny(errStr, "credential", "wincred") {
				return fmt.Errorf("%w: Windows Credential Manager not accessible", ErrUnavailable)
			}
		}

		// Other errors during the availability probe are not conclusive;
		// the actual operations will surface better errors.
		return nil
	}

	return nil
}

func (k *osKeyring) Save(account, service, secret string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if account == "" {
		return ErrEmptyAccount
	}
	if secret == "" {
		return ErrEmptySecret
	}

	if err := gokeyring.Set(service, account, secret); err != nil {
		return wrapKeyringError(err, "failed to store secret")
	}
	return nil
}

func (k *osKeyring) Get(account, service string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	defer padReadDuration(time.Now())

	if account == "" {
		return "", ErrEmptyAccount
	}

	secret, err := gokeyring.Get(service, account)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve secret")
	}
	return secret, nil
}

func (k *osKeyring) Delete(account, service string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if account == "" {
		return ErrEmptyAccount
	}

	if err := gokeyring.Delete(service, account); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			// Already gone, not an error.
			return nil
		}
		return wrapKeyringError(err, "failed to delete secret")
	}
	return nil
}

// ListAccounts is unsupported by the go-keyring backend; callers treat an
// empty result as "cannot enumerate".
func (k *osKeyring) ListAccounts(service string) ([]string, error) {
	return nil, nil
}

// wrapKeyringError classifies a backend error into one of the exported
// sentinel errors. The raw backend text stays inside the wrapped error and
// is never printed to the user directly.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if utils.ContainsAny(errStr, "denied", "permission", "not allowed", "unauthorized") {
		return fmt.Errorf("%w: %s", ErrAccessDenied, context)
	}

	if utils.ContainsAny(errStr, "not found", "no keyring", "unavailable", "secret service") {
		return fmt.Errorf("%w: %s", ErrUnavailable, context)
	}

	return fmt.Errorf("%s: %w", context, errUnspecified)
}

// errUnspecified replaces raw backend errors so store internals never leak
// into command output.
var errUnspecified = errors.New("keyring operation failed")
