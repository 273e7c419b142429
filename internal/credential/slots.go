package credential

import (
	"os"
	"os/user"
	"runtime"
)

// Keyring service names. Two services belong to the Claude Code CLI itself
// and hold whatever credential it is currently using; the third namespaces
// this tool's own per-profile backups.
const (
	// ServiceLiveAPIKey is the live slot Claude Code reads a static API
	// key from.
	ServiceLiveAPIKey = "Claude Code"
	// ServiceLiveOAuth is the live slot Claude Code reads an OAuth token
	// bundle from.
	ServiceLiveOAuth = "Claude Code-credentials"
	// ServiceBackup is the service under which saved profile secrets are
	// stored, keyed by profile name as the account.
	ServiceBackup = "claude-profile-manager"
)

// LiveAccount returns the keyring account name used by the live credential
// slots. Claude Code keys its entries by the OS username.
func LiveAccount() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "default"
}
