// Package alias maps short user-facing names to canonical profile names.
//
// The table is a single line-oriented file, `alias=target` per line, in
// the profile directory. Every mutation rewrites the whole file
// atomically.
package alias

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/derekspelledcorrectly/claude-profile-manager/internal/metadata"
)

// FileName is the alias table file inside the profile directory.
const FileName = "aliases"

var (
	// ErrAliasNotFound is returned when removing an alias that does not
	// exist.
	ErrAliasNotFound = errors.New("alias not found")
)

// Store manages the alias table file.
type Store struct {
	path string
}

// NewStore creates a Store for the alias table inside dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

// All returns the alias table. A missing file is an empty table.
// Malformed lines are skipped; a duplicated key keeps its last value.
func (s *Store) All() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read alias table: %w", err)
	}

	table := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, target, ok := strings.Cut(line, "=")
		if !ok || name == "" || target == "" {
			continue
		}
		table[name] = target
	}
	return table, nil
}

// Set inserts or replaces an alias mapping.
func (s *Store) Set(name, target string) error {
	table, err := s.All()
	if err != nil {
		return err
	}
	table[name] = target
	return s.write(table)
}

// Remove deletes an alias mapping.
func (s *Store) Remove(name string) error {
	table, err := s.All()
	if err != nil {
		return err
	}
	if _, ok := table[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAliasNotFound, name)
	}
	delete(table, name)
	return s.write(table)
}

// Lookup returns the target for an alias, if it exists. Direct-match
// priority over profile names is the caller's concern; this is a pure
// table lookup.
func (s *Store) Lookup(name string) (string, bool) {
	table, err := s.All()
	if err != nil {
		return "", false
	}
	target, ok := table[name]
	return target, ok
}

// AliasesFor returns the alias names pointing at a target profile, sorted.
func (s *Store) AliasesFor(target string) []string {
	table, err := s.All()
	if err != nil {
		return nil
	}
	var names []string
	for name, t := range table {
		if t == target {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// write rewrites the alias file atomically, keys sorted for a stable file.
func (s *Store) write(table map[string]string) error {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(table[name])
		b.WriteByte('\n')
	}
	return metadata.WriteFileAtomic(s.path, []byte(b.String()))
}
