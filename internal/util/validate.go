package util

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go-wishlist/pkg/apierror"
)

// Latin and Cyrillic letters, digits, whitespace and a little punctuation.
var allowedText = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ0-9\s\-!?.]*$`)

const (
	maxTextRunes     = 255
	maxURLLength     = 2048
	minPasswordBytes = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// ValidateText checks a human-entered field such as a name or a title.
func ValidateText(field string, value string, required bool) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return apierror.BadRequest(field, field+" cannot be empty")
		}
		return nil
	}

	if hasHiddenCharacters(trimmed) {
		return apierror.BadRequest(field, field+" contains invalid characters")
	}

	if utf8.RuneCountInString(trimmed) > maxTextRunes {
		return apierror.BadRequest(field, field+" is too long")
	}

	if !allowedText.MatchString(trimmed) {
		return apierror.BadRequest(field, field+" contains invalid characters")
	}

	return nil
}

func ValidatePassword(field string, value string, required bool) error {
	if value == "" {
		if required {
			return apierror.BadRequest(field, field+" cannot be empty")
		}
		return nil
	}

	if strings.TrimSpace(value) == "" || hasHiddenCharacters(value) {
		return apierror.BadRequest(field, field+" contains invalid characters")
	}

	if len(value) < minPasswordBytes || len(value) > maxPasswordBytes {
		return apierror.BadRequest(field, field+" must be between 6 and 72 bytes")
	}

	return nil
}

// RequireValue only checks that something was sent.
func RequireValue(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return apierror.BadRequest(field, field+" cannot be empty")
	}
	return nil
}

// ValidateURL accepts absolute http(s) URLs and server-relative paths.
func ValidateURL(field string, value string, required bool) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return apierror.BadRequest(field, field+" cannot be empty")
		}
		return nil
	}

	if len(trimmed) > maxURLLength || hasHiddenCharacters(trimmed) {
		return apierror.BadRequest(field, field+" is not a valid URL")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return apierror.BadRequest(field, field+" is not a valid URL")
	}

	switch {
	case parsed.Scheme == "http" || parsed.Scheme == "https":
		if parsed.Host == "" {
			return apierror.BadRequest(field, field+" is not a valid URL")
		}
	case parsed.Scheme == "" && strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, "//"):
	default:
		return apierror.BadRequest(field, field+" is not a valid URL")
	}

	return nil
}

func hasHiddenCharacters(value string) bool {
	for _, char := range value {
		if char == ' ' {
			continue
		}
		if unicode.IsControl(char) && char != '\t' {
			return true
		}
		if isInvisibleUnicode(char) {
			return true
		}
	}

	return false
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
