// Package metadata persists per-profile records, plus the current-profile
// pointer, inside the profile directory.
//
// Every mutating write goes through a temp-file-then-rename sequence so a
// crash can never leave a half-written file. The directory and every file
// in it carry owner-only permissions.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// recordSuffix is the extension of per-profile record files.
	recordSuffix = ".json"
	// currentFileName is the single-value current-profile pointer file.
	currentFileName = "current"
	// TimeLayout is the timestamp format used in records.
	TimeLayout = time.RFC3339
)

var (
	// ErrRecordNotFound is returned when a profile record does not exist.
	ErrRecordNotFound = errors.New("profile record not found")
)

// Record is the small metadata document kept per profile. Timestamps are
// stored as strings so a malformed value degrades to "unknown" at display
// time instead of poisoning the whole record.
type Record struct {
	// Created is when the profile was first saved, RFC3339 UTC.
	Created string `json:"created,omitempty"`
	// AuthMethod is the detected auth kind at save time.
	AuthMethod string `json:"authMethod,omitempty"`
	// LastUsed is updated on every successful switch-to, RFC3339 UTC.
	LastUsed string `json:"lastUsed,omitempty"`
}

// Store manages the profile directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is not created
// until EnsureDir is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the profile directory path.
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the profile directory with owner-only permissions.
// The parent is created too, best-effort, with the same mode.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}
	// MkdirAll does not tighten a pre-existing directory.
	if err := os.Chmod(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to secure profile directory: %w", err)
	}
	return nil
}

// RecordPath returns the record file path for a profile name.
func (s *Store) RecordPath(name string) string {
	return filepath.Join(s.dir, name+recordSuffix)
}

// Exists reports whether a record exists for the profile.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.RecordPath(name))
	return err == nil && info.Mode().IsRegular()
}

// Write persists a record atomically with owner-only permissions.
func (s *Store) Write(name string, rec Record) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile record: %w", err)
	}
	return WriteFileAtomic(s.RecordPath(name), append(data, '\n'))
}

// Read loads a record. A record that exists but cannot be parsed is
// returned empty rather than as an error, so one corrupted profile never
// blocks operating on the rest.
func (s *Store) Read(name string) (Record, error) {
	data, err := os.ReadFile(s.RecordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, fmt.Errorf("failed to read profile record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, nil
	}
	return rec, nil
}

// SetLastUsed updates the LastUsed field of a record in place,
// read-modify-atomic-write.
func (s *Store) SetLastUsed(name string, ts time.Time) error {
	rec, err := s.Read(name)
	if err != nil {
		return err
	}
	rec.LastUsed = ts.UTC().Format(TimeLayout)
	return s.Write(name, rec)
}

// Delete removes a record. Deleting an absent record is an error so the
// caller can distinguish not-found from success.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.RecordPath(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete profile record: %w", err)
	}
	return nil
}

// Enumerate returns the profile names that have records, sorted by name.
func (s *Store) Enumerate() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan profile directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		if !strings.HasSuffix(name, recordSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, recordSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// Current returns the current-profile pointer, or "" if unset.
func (s *Store) Current() string {
	data, err := os.ReadFile(filepath.Join(s.dir, currentFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetCurrent writes the current-profile pointer atomically.
func (s *Store) SetCurrent(name string) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}
	return WriteFileAtomic(filepath.Join(s.dir, currentFileName), []byte(name+"\n"))
}

// ClearCurrent removes the current-profile pointer. Clearing an absent
// pointer is success.
func (s *Store) ClearCurrent() error {
	err := os.Remove(filepath.Join(s.dir, currentFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear current profile: %w", err)
	}
	return nil
}

// FormatTimestamp renders a stored timestamp for display, degrading to
// "unknown" when the value is missing or unparseable.
func FormatTimestamp(s string) string {
	if s == "" {
		return "unknown"
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04")
}
