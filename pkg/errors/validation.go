package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateKey validates a node or edge identifier from an input file.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters
//   - Maximum length of 256 characters
func ValidateKey(kind, key string) error {
	if key == "" {
		return New(ErrCodeInvalidTopology, "%s id cannot be empty", kind)
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidTopology, "%s id too long (max 256 characters)", kind)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTopology, "%s id contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
