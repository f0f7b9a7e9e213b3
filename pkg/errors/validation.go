package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier received from user input
// (CLI flags, URL path segments).
//
// Rules:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id contains invalid control characters")
		}
	}
	return nil
}

// ValidateDatasetFile validates a dataset file name relative to a dataset
// directory. It prevents path traversal and absolute paths.
func ValidateDatasetFile(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "dataset file cannot be empty")
	}

	const maxPathLength = 255
	if len(name) > maxPathLength {
		return New(ErrCodeInvalidPath, "dataset file name too long (max %d characters)", maxPathLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "dataset file name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "dataset file name cannot contain path separators")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidPath, "dataset file name cannot contain path traversal sequences (..)")
	}
	if !strings.HasSuffix(name, ".json") {
		return New(ErrCodeInvalidPath, "dataset file must be a .json file: %q", name)
	}
	return nil
}
