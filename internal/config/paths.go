package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// DirName is the profile directory name under the user's home.
	DirName = ".claude-profiles"
	// DirEnvVar overrides the profile directory location.
	DirEnvVar = "CCPROFILE_DIR"
)

// ProfilesDir returns the profile directory path. CCPROFILE_DIR takes
// precedence; otherwise the directory lives directly under the user's
// home, next to where Claude Code keeps its own state.
func ProfilesDir() string {
	if dir := os.Getenv(DirEnvVar); dir != "" {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, DirName)
	}

	if runtime.GOOS == "windows" {
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, DirName)
		}
	}

	// Last resort fallback.
	return filepath.Join(".", DirName)
}
