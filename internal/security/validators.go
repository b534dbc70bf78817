package security

import (
	"fmt"
	"regexp"
	"strings"
)

// Input length constraints
const (
	MaxUsernameLength    = 20
	MaxChatMessageLength = 300
	MinNameLength        = 1
)

var (
	// Room codes are 6 uppercase alphanumeric characters
	roomCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)
	// Name validation regex - Unicode letters, digits, spaces, apostrophes, hyphens, underscores, dots
	// \p{L} matches any Unicode letter (includes accented characters)
	// \p{N} matches any Unicode number
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
	// Dangerous characters that could be used for injection attacks
	dangerousCharsRegex = regexp.MustCompile(`[<>{}[\]\\;|&$()` + "`" + `]`)
)

// ValidateRoomCode validates a room code's shape before the registry lookup.
func ValidateRoomCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("room code cannot be empty")
	}
	if !roomCodeRegex.MatchString(code) {
		return "", fmt.Errorf("invalid room code format")
	}
	return code, nil
}

// ValidateUsername validates a display name with length and character
// constraints. Returns the sanitized name.
func ValidateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if len(name) < MinNameLength {
		return "", fmt.Errorf("name too short (min %d characters)", MinNameLength)
	}
	if len(name) > MaxUsernameLength {
		return "", fmt.Errorf("name too long (max %d characters)", MaxUsernameLength)
	}
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters (allowed: letters, numbers, spaces, apostrophes, hyphens, underscores, dots)")
	}
	if dangerousCharsRegex.MatchString(name) {
		return "", fmt.Errorf("name contains potentially dangerous characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	return name, nil
}

// ValidateChatMessage checks a chat line before relaying it.
func ValidateChatMessage(text string) (string, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	if len(text) > MaxChatMessageLength {
		return "", fmt.Errorf("message too long (max %d characters)", MaxChatMessageLength)
	}
	for _, r := range text {
		if (r < 32 && r != '\n') || r == 127 {
			return "", fmt.Errorf("message contains control characters")
		}
	}

	return text, nil
}
