package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the string is blank.
// Useful for optional fields that should be NULL in the backend when not provided.
func NewNullString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
