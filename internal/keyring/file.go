package keyring

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/utils"
)

// FileStore is a file-based keyring implementation for testing.
// Secrets are stored as files under <dir>/<service>/<account>.
// This should ONLY be used for testing, never in production.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a new file-based store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// IsAvailable implements Store.
func (f *FileStore) IsAvailable() error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("%w: directory not accessible", ErrUnavailable)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: path is not a directory", ErrUnavailable)
	}
	return nil
}

// entryPath returns the file path for an (account, service) pair.
// Both components are sanitized so a hostile name cannot escape the store
// directory.
func (f *FileStore) entryPath(account, service string) (string, error) {
	servicePath := filepath.Join(f.dir, utils.SanitizeKey(service))
	fullPath := filepath.Join(servicePath, utils.SanitizeKey(account))

	absDir, err := filepath.Abs(f.dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key: path traversal detected")
	}

	return fullPath, nil
}

// Save implements Store.
func (f *FileStore) Save(account, service, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if account == "" {
		return ErrEmptyAccount
	}
	if secret == "" {
		return ErrEmptySecret
	}

	path, err := f.entryPath(account, service)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create service directory: %w", err)
	}

	// Remove any existing file first to prevent symlink attacks, then
	// create exclusively so the file never exists with loose permissions.
	_ = os.Remove(path)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create secret file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte(secret)); err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}
	return nil
}

// Get implements Store. Like the OS-backed store, it takes at least
// MinReadDuration regardless of outcome.
func (f *FileStore) Get(account, service string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer padReadDuration(time.Now())

	if account == "" {
		return "", ErrEmptyAccount
	}

	path, err := f.entryPath(account, service)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return string(data), nil
}

// Delete implements Store.
func (f *FileStore) Delete(account, service string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if account == "" {
		return ErrEmptyAccount
	}

	path, err := f.entryPath(account, service)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

// ListAccounts implements Store by scanning the service directory.
func (f *FileStore) ListAccounts(service string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(f.dir, utils.SanitizeKey(service)))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			accounts = append(accounts, entry.Name())
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}
