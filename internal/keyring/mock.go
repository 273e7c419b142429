package keyring

import (
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory keyring implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

// NewMockStore creates a new mock keyring store.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]string),
	}
}

// SetFailing makes all operations fail with ErrUnavailable.
func (m *MockStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func mockKey(account, service string) string {
	return service + "\x00" + account
}

// IsAvailable implements Store.
func (m *MockStore) IsAvailable() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return ErrUnavailable
	}
	return nil
}

// Save implements Store.
func (m *MockStore) Save(account, service, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrUnavailable
	}
	if account == "" {
		return ErrEmptyAccount
	}
	if secret == "" {
		return ErrEmptySecret
	}
	m.data[mockKey(account, service)] = secret
	return nil
}

// Get implements Store.
func (m *MockStore) Get(account, service string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	defer padReadDuration(time.Now())
	if m.failing {
		return "", ErrUnavailable
	}
	if account == "" {
		return "", ErrEmptyAccount
	}
	secret, ok := m.data[mockKey(account, service)]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

// Delete implements Store.
func (m *MockStore) Delete(account, service string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrUnavailable
	}
	if account == "" {
		return ErrEmptyAccount
	}
	delete(m.data, mockKey(account, service))
	return nil
}

// ListAccounts implements Store.
func (m *MockStore) ListAccounts(service string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing {
		return nil, ErrUnavailable
	}
	prefix := service + "\x00"
	accounts := []string{}
	for k := range m.data {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			accounts = append(accounts, k[len(prefix):])
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}
