// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
)

const maxNameLength = 64

// DisplayName validates a user display name is non-empty after trimming
// whitespace and fits the server's column.
func DisplayName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name is required")
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return nil
}

// RoomName validates a room name is non-empty after trimming whitespace.
func RoomName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("room name is required")
	}
	if len(trimmed) > maxNameLength {
		return fmt.Errorf("room name must be at most %d characters", maxNameLength)
	}
	return nil
}
