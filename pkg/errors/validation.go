package errors

import (
	"strings"
	"unicode"
)

// ValidateTreeName validates a name under which a tree is stored.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateTreeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "tree name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "tree name too long (max 128 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "tree name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\\\\", // Double backslash
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "tree name contains invalid sequence: %q", pattern)
		}
	}

	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return New(ErrCodeInvalidName, "tree name cannot start with a path separator")
	}

	return nil
}
