package render

import (
	"github.com/qrframe/qrframe/pkg/qr"
)

// ANSIOptions configures the ANSI renderer's background colors. Values are
// SGR escape sequences, not character substitutions: the renderer always
// emits a full-width space wrapped in a color escape and a reset, so
// UnicodeOptions character overrides have no equivalent here. Callers who
// want different glyphs use Unicode directly.
type ANSIOptions struct {
	// WhiteColor is the SGR sequence for light modules. Default white
	// background.
	WhiteColor string

	// BlackColor is the SGR sequence for dark modules. Default black
	// background.
	BlackColor string
}

// Default SGR sequences.
const (
	DefaultWhiteColor = "\x1b[47m" // white background
	DefaultBlackColor = "\x1b[40m" // black background

	ansiReset = "\x1b[0m"

	// One full-width space per module keeps the cell roughly square.
	ansiCell = "　"
)

// ANSI renders the symbol as terminal text with colored cells. It delegates
// to the Unicode renderer, substituting each module character with a
// background-colored full-width space.
func ANSI(res *qr.Result, opts ANSIOptions) string {
	white := opts.WhiteColor
	if white == "" {
		white = DefaultWhiteColor
	}
	black := opts.BlackColor
	if black == "" {
		black = DefaultBlackColor
	}
	return Unicode(res, UnicodeOptions{
		WhiteChar: white + ansiCell + ansiReset,
		BlackChar: black + ansiCell + ansiReset,
	})
}
