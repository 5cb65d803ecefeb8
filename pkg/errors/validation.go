package errors

import (
	"strings"
	"unicode"
)

// ValidateGraphName validates a graph name before it is used to derive an
// output file name or a cache key scope.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators, and not "." or ".."
//   - Maximum length of 255 characters
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "graph name cannot be empty")
	}

	if len(name) > 255 {
		return New(ErrCodeInvalidName, "graph name too long (max 255 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "graph name contains invalid control characters")
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidName, "graph name cannot be %q", name)
	}

	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidName, "graph name contains a path separator")
	}

	return nil
}

// ValidatePath validates a user-supplied input path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
