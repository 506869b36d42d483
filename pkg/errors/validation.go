package errors

import (
	"regexp"
	"unicode"
)

// MaxDataLength is the largest payload the encoder can ever fit: a version 40
// symbol at ECC level L holds 2953 bytes in byte mode.
const MaxDataLength = 2953

// ValidateData validates a QR payload before it reaches the encoder.
// The encoder performs the authoritative capacity check; this catches
// obviously bad input at the edge (CLI flags, HTTP query parameters).
func ValidateData(data string) error {
	if data == "" {
		return New(ErrCodeInvalidInput, "data cannot be empty")
	}
	if len(data) > MaxDataLength {
		return New(ErrCodeInvalidInput, "data too long (max %d bytes)", MaxDataLength)
	}
	for _, r := range data {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "data contains null bytes")
		}
	}
	return nil
}

// hexColorRegex matches 3-, 6-, and 8-digit hex colors with a leading #.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// colorKeywordRegex matches CSS color keywords (letters only).
var colorKeywordRegex = regexp.MustCompile(`^[a-zA-Z]+$`)

// ValidateColor validates a color value destined for SVG output.
// Accepts hex colors (#fff, #ffffff, #ffffffff) and alphabetic keywords.
// Anything else is rejected so untrusted query parameters cannot inject
// markup into the generated document.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}
	if len(color) > 32 {
		return New(ErrCodeInvalidInput, "color too long")
	}
	if hexColorRegex.MatchString(color) || colorKeywordRegex.MatchString(color) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid color value: %q", color)
}

// ValidateModuleChar validates a character override for the text renderers.
// It rejects control characters so rendered output stays one glyph per module.
func ValidateModuleChar(s string) error {
	if s == "" {
		return New(ErrCodeInvalidInput, "module character cannot be empty")
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\x1b' {
			return New(ErrCodeInvalidInput, "module character contains control characters")
		}
	}
	return nil
}
