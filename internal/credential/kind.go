// Package credential defines authentication kinds, the live credential
// slots shared with the Claude Code CLI, and profile name validation.
package credential

import "strings"

// AuthKind represents the kind of credential a profile holds.
type AuthKind string

const (
	// AuthKindAPIKey is a static Anthropic API key.
	AuthKindAPIKey AuthKind = "api_key"
	// AuthKindOAuth is an OAuth token bundle from a subscription login.
	AuthKindOAuth AuthKind = "oauth"
	// AuthKindUnknown means the kind could not be determined.
	AuthKindUnknown AuthKind = "unknown"
	// AuthKindNone means no live credential is present.
	AuthKindNone AuthKind = "none"
)

// String returns the kind name.
func (k AuthKind) String() string {
	if k == "" {
		return string(AuthKindUnknown)
	}
	return string(k)
}

// DisplayName returns a human-readable kind name for listings.
func (k AuthKind) DisplayName() string {
	switch k {
	case AuthKindAPIKey:
		return "API key"
	case AuthKindOAuth:
		return "OAuth"
	default:
		return string(AuthKindUnknown)
	}
}

// ParseAuthKind parses a stored authMethod value. Empty or unrecognized
// values yield AuthKindUnknown so older records degrade instead of failing.
func ParseAuthKind(s string) AuthKind {
	switch s {
	case string(AuthKindAPIKey), "api-key", "apikey":
		return AuthKindAPIKey
	case string(AuthKindOAuth), "token", "subscription":
		return AuthKindOAuth
	default:
		return AuthKindUnknown
	}
}

// apiKeyPrefix is the fixed prefix of Anthropic static API keys.
const apiKeyPrefix = "sk-ant-"

// Classify guesses the auth kind of a raw secret from its shape.
// This is a best-effort fallback used only when a profile record carries
// no authMethod field; the persisted field always takes precedence.
func Classify(secret string) AuthKind {
	s := strings.TrimSpace(secret)
	switch {
	case s == "":
		return AuthKindUnknown
	case strings.HasPrefix(s, apiKeyPrefix):
		return AuthKindAPIKey
	case strings.HasPrefix(s, "{"):
		// OAuth bundles are JSON objects.
		return AuthKindOAuth
	case strings.Count(s, ".") == 2 && !strings.ContainsAny(s, " \t\n"):
		// Legacy dot-delimited structured token.
		return AuthKindOAuth
	default:
		return AuthKindUnknown
	}
}

// wellKnownKinds maps conventional profile names to their implied kind.
// Used as a fallback for records created before authMethod was persisted.
var wellKnownKinds = map[string]AuthKind{
	"max":          AuthKindOAuth,
	"pro":          AuthKindOAuth,
	"subscription": AuthKindOAuth,
	"api":          AuthKindAPIKey,
	"console":      AuthKindAPIKey,
}

// WellKnownKind returns the auth kind implied by a conventional profile
// name, or AuthKindUnknown if the name implies nothing.
func WellKnownKind(name string) AuthKind {
	if k, ok := wellKnownKinds[strings.ToLower(name)]; ok {
		return k
	}
	return AuthKindUnknown
}
