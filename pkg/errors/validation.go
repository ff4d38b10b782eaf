package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxQubits bounds the device and circuit sizes accepted from untrusted input.
const MaxQubits = 4096

// nameRegex matches architecture and allocator names, including generator
// specs such as "grid:4x5" or "line:16".
var nameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*(:[0-9]+(x[0-9]+)?)?$`)

// ValidateName validates an architecture or allocator name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Lowercase letters, digits, '_', '.', '-' and an optional ":N" or ":RxC" suffix
//   - Maximum length of 64 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidName, "name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "name contains invalid characters")
		}
	}

	if !nameRegex.MatchString(strings.ToLower(name)) {
		return New(ErrCodeInvalidName, "invalid name: %q", name)
	}

	return nil
}

// ValidateLimit validates a search bound. Zero means unbounded.
func ValidateLimit(field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidOption, "%s must be >= 0, got %d", field, v)
	}
	return nil
}

// ValidateWeight validates a cost weight.
func ValidateWeight(field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidOption, "%s must be >= 0, got %d", field, v)
	}
	if v > 1<<20 {
		return New(ErrCodeInvalidOption, "%s too large (max %d), got %d", field, 1<<20, v)
	}
	return nil
}

// ValidateQubitCount validates a qubit count read from a file or request.
func ValidateQubitCount(field string, n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "%s must be >= 0, got %d", field, n)
	}
	if n > MaxQubits {
		return New(ErrCodeInvalidInput, "%s too large (max %d), got %d", field, MaxQubits, n)
	}
	return nil
}
