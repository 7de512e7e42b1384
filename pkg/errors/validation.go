package errors

import (
	"strings"
	"unicode"
)

// ValidateResourcePath validates an incoming repository resource path.
// It rejects paths that could escape the local repository when joined
// onto it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal segments (..)
//   - No empty segments (//)
//   - No backslashes (Windows-style paths)
func ValidateResourcePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "resource path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "resource path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "resource path contains invalid characters")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "resource path cannot contain backslashes")
	}

	for _, segment := range strings.Split(strings.TrimPrefix(path, "/"), "/") {
		switch segment {
		case "":
			return New(ErrCodeInvalidPath, "resource path cannot contain empty segments")
		case "..", ".":
			return New(ErrCodeInvalidPath, "resource path cannot contain path traversal sequences")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a scheme the feed transport can speak.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
