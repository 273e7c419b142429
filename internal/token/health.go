// Package token analyzes stored credential blobs for expiration and
// renders human-readable health labels.
//
// Token bundles are treated as opaque JSON with a recoverable expiry
// somewhere in their shape; probing is an explicit ordered list of
// candidate field names rather than a generic deep search, so behavior
// stays predictable and bounded.
package token

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Health labels that are not derived from an expiry.
const (
	// HealthNA marks credentials that have no expiry by nature, such as
	// static API keys.
	HealthNA = "n/a"
	// HealthInvalid marks secrets not recognizable as any token shape.
	HealthInvalid = "invalid"
	// HealthValid is the optimistic label for bundles with no
	// discoverable expiry. An unfamiliar token shape must never read as
	// broken.
	HealthValid = "valid"
)

// expiryKeys are the candidate field names probed, in order, at any depth
// of the bundle.
var expiryKeys = []string{"expiresAt", "expires_at", "expiry", "exp"}

// maxProbeDepth bounds the search through nested objects.
const maxProbeDepth = 4

// Bucket thresholds.
const (
	soonMinutes = 30 * time.Minute
	soonHours   = 4 * time.Hour
	validCutoff = 7 * 24 * time.Hour
)

// ParseExpiry extracts an expiration instant from a token-bundle blob.
// It returns the zero time when no expiry can be found; callers treat
// that as valid rather than as an error.
func ParseExpiry(blob string) time.Time {
	var doc any
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return time.Time{}
	}

	for _, key := range expiryKeys {
		if v, ok := findKey(doc, key, maxProbeDepth); ok {
			if t := normalizeTimestamp(v); !t.IsZero() {
				return t
			}
		}
	}

	// Known nested shape: an OAuth bundle keeping its fields under an
	// access-token sub-object.
	if obj, ok := doc.(map[string]any); ok {
		if sub, ok := obj["claudeAiOauth"].(map[string]any); ok {
			for _, key := range expiryKeys {
				if v, ok := sub[key]; ok {
					if t := normalizeTimestamp(v); !t.IsZero() {
						return t
					}
				}
			}
		}
	}

	return time.Time{}
}

// findKey searches doc for a non-null value under key, depth-first, down
// to maxDepth levels of nesting.
func findKey(doc any, key string, maxDepth int) (any, bool) {
	if maxDepth < 0 {
		return nil, false
	}
	switch v := doc.(type) {
	case map[string]any:
		if val, ok := v[key]; ok && val != nil {
			return val, true
		}
		for _, sub := range v {
			if val, ok := findKey(sub, key, maxDepth-1); ok {
				return val, true
			}
		}
	case []any:
		for _, sub := range v {
			if val, ok := findKey(sub, key, maxDepth-1); ok {
				return val, true
			}
		}
	}
	return nil, false
}

// msThreshold separates epoch milliseconds from epoch seconds. Anything
// above it is implausible as seconds (year 5138) and is read as
// milliseconds.
const msThreshold = int64(1e11)

// normalizeTimestamp converts a probed value into a time. Accepted shapes
// are epoch milliseconds, epoch seconds, and ISO-8601-like strings.
// Anything unparseable yields the zero time, never an error.
func normalizeTimestamp(v any) time.Time {
	switch val := v.(type) {
	case float64:
		if val <= 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return time.Time{}
		}
		return fromEpoch(int64(val))
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}
		}
		if isAllDigits(s) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n <= 0 {
				return time.Time{}
			}
			return fromEpoch(n)
		}
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
			"2006-01-02",
		} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func fromEpoch(n int64) time.Time {
	if n > msThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Classify renders the health bucket for an expiry relative to now.
// A zero expiry classifies as valid.
func Classify(now, expiry time.Time) string {
	if expiry.IsZero() {
		return HealthValid
	}

	d := expiry.Sub(now)
	switch {
	case d < 0:
		return renderExpired(-d)
	case d < soonMinutes:
		return "expires soon (" + strconv.Itoa(int(d.Minutes())) + "m)"
	case d < soonHours:
		return "expires soon (" + strconv.Itoa(int(d.Round(time.Hour).Hours())) + "h)"
	case d < validCutoff:
		return "expires in " + renderDaysHours(d)
	default:
		return "valid (" + strconv.Itoa(int(d.Hours())/24) + "d)"
	}
}

func renderExpired(ago time.Duration) string {
	if ago < 24*time.Hour {
		return "expired " + strconv.Itoa(int(ago.Hours())) + "h ago"
	}
	return "expired " + strconv.Itoa(int(ago.Hours())/24) + "d ago"
}

func renderDaysHours(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days == 0 {
		return strconv.Itoa(hours) + "h"
	}
	if hours == 0 {
		return strconv.Itoa(days) + "d"
	}
	return strconv.Itoa(days) + "d " + strconv.Itoa(hours) + "h"
}

// CheckHealth classifies a stored secret. An empty secret is "n/a"
// (static-key profiles have no expiry). A JSON bundle is probed for an
// expiry. A three-part dot-delimited token gets a legacy decode of its
// middle segment. Anything else is "invalid".
func CheckHealth(now time.Time, secret string) string {
	s := strings.TrimSpace(secret)
	if s == "" {
		return HealthNA
	}

	if strings.HasPrefix(s, "{") {
		return Classify(now, ParseExpiry(s))
	}

	if parts := strings.Split(s, "."); len(parts) == 3 {
		return classifyCoarse(now, decodeLegacyExpiry(parts[1]))
	}

	return HealthInvalid
}

// decodeLegacyExpiry reads an "exp" claim (epoch seconds) out of a
// base64url-encoded JSON segment.
func decodeLegacyExpiry(segment string) time.Time {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(segment)
		if err != nil {
			return time.Time{}
		}
	}

	var claims map[string]any
	if err := json.Unmarshal(data, &claims); err != nil {
		return time.Time{}
	}
	return normalizeTimestamp(claims["exp"])
}

// classifyCoarse applies the same thresholds as Classify but with coarser
// rendering, used for legacy dot-delimited tokens.
func classifyCoarse(now, expiry time.Time) string {
	if expiry.IsZero() {
		return HealthValid
	}

	d := expiry.Sub(now)
	switch {
	case d < 0:
		return renderExpired(-d)
	case d < soonHours:
		return "expires soon"
	case d < validCutoff:
		return "valid (" + strconv.Itoa(int(d.Hours())/24) + "d)"
	default:
		return HealthValid
	}
}
