// Package utils provides small shared helpers.
package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ContainsAny checks if s contains any of the substrings (case-insensitive).
func ContainsAny(s string, substrings ...string) bool {
	sLower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(sLower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// SanitizeKey makes a key safe for use as a filename.
// Keys containing path traversal patterns are hashed instead.
func SanitizeKey(key string) string {
	if strings.Contains(key, "..") || strings.Contains(key, "/") ||
		strings.Contains(key, "\\") || strings.Contains(key, string(filepath.Separator)) {
		h := sha256.Sum256([]byte(key))
		return hex.EncodeToString(h[:])
	}

	// Replace characters that might be problematic in filenames.
	// '.' is excluded too, to prevent hidden files and traversal.
	result := make([]byte, len(key))
	for i, c := range []byte(key) {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '-' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}

// Mask masks a sensitive string for display, showing only the first and
// last few characters. E.g., "sk-ant-abc123xyz" -> "sk-a****3xyz"
func Mask(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
