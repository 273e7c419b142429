package credential

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxNameLength is the maximum length of a profile or alias name.
const MaxNameLength = 50

// Name validation errors. Each rule has its own error so the user sees the
// exact reason a name was rejected.
var (
	// ErrNameEmpty is returned when a name is empty.
	ErrNameEmpty = errors.New("name cannot be empty")
	// ErrNameTooLong is returned when a name exceeds MaxNameLength.
	ErrNameTooLong = fmt.Errorf("name cannot be longer than %d characters", MaxNameLength)
	// ErrNameDotPrefix is returned when a name starts with a dot.
	ErrNameDotPrefix = errors.New("name cannot start with a dot")
	// ErrNameInvalidChars is returned when a name contains characters
	// outside [A-Za-z0-9_-].
	ErrNameInvalidChars = errors.New("name may only contain letters, digits, hyphens and underscores")
	// ErrNameReserved is returned when a name collides with an internal
	// file name or an OS-reserved device name.
	ErrNameReserved = errors.New("name is reserved")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedNames are the file names used inside the profile directory plus
// a short deny-list of Windows device names.
var reservedNames = map[string]struct{}{
	"current": {},
	"aliases": {},
	"audit":   {},
	"config":  {},
	"con":     {},
	"prn":     {},
	"aux":     {},
	"nul":     {},
}

// ValidateName checks that a profile or alias name is safe to use as a
// keyring account and as a file name inside the profile directory.
func ValidateName(name string) error {
	if name == "" {
		return ErrNameEmpty
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is %d characters", ErrNameTooLong, name, len(name))
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrNameDotPrefix, name)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrNameInvalidChars, name)
	}
	if _, ok := reservedNames[strings.ToLower(name)]; ok {
		return fmt.Errorf("%w: %q", ErrNameReserved, name)
	}
	return nil
}
