package validation

import "strings"

// Trim strips surrounding whitespace so blank strings fail required.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// TrimToNil trims an optional string and turns an empty result into nil.
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// TrimPtr trims an optional string but keeps an empty result, so rules such
// as min=1 still see it.
func TrimPtr(s *string) *string {
	if s == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
