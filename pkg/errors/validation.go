package errors

import (
	"strings"
	"unicode"
)

// MaxDescriptionLength caps the accepted notation length. Descriptions come
// from users and from LLM output, so the cap is generous but bounded.
const MaxDescriptionLength = 10000

// ValidateDescription validates a diagram description before compilation.
// An empty description is legal (it compiles to an empty diagram); the
// checks here reject only input that could not have come from the notation:
// control characters and unbounded length.
func ValidateDescription(desc string) error {
	if len(desc) > MaxDescriptionLength {
		return New(ErrCodeInvalidDescription, "description too long (max %d characters)", MaxDescriptionLength)
	}
	for _, r := range desc {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return New(ErrCodeInvalidDescription, "description contains control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
// It rejects empty paths and null bytes; everything else is the
// filesystem's concern.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidFormat, "output path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidFormat, "output path contains a null byte")
	}
	return nil
}
