package render

import (
	"strings"

	"github.com/qrframe/qrframe/pkg/qr"
)

// UnicodeOptions configures the plain Unicode renderer.
//
// The default assignment looks swapped on purpose: light modules get the
// full block and dark modules get the light shade, so that on the usual
// dark-on-light terminal the printed symbol scans correctly. Downstream
// renderers rely on this polarity; do not "fix" it.
type UnicodeOptions struct {
	// WhiteChar is printed for light modules. Default "█".
	WhiteChar string

	// BlackChar is printed for dark modules. Default "░".
	BlackChar string
}

// Default module characters.
const (
	DefaultWhiteChar = "█" // full block
	DefaultBlackChar = "░" // light shade
)

// Unicode renders one configurable character per module, one line per matrix
// row, joined by newlines with no trailing newline.
func Unicode(res *qr.Result, opts UnicodeOptions) string {
	white := opts.WhiteChar
	if white == "" {
		white = DefaultWhiteChar
	}
	black := opts.BlackChar
	if black == "" {
		black = DefaultBlackChar
	}

	var sb strings.Builder
	sb.Grow(res.Size * (res.Size + 1) * len(white))
	for y, row := range res.Data {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, dark := range row {
			if dark {
				sb.WriteString(black)
			} else {
				sb.WriteString(white)
			}
		}
	}
	return sb.String()
}

// Half-block glyphs for the compact renderer. Light modules are the drawn
// ink, matching the Unicode renderer's polarity.
const (
	compactBoth   = "█" // both rows light
	compactTop    = "▀" // upper half: top light, bottom dark
	compactBottom = "▄" // lower half: top dark, bottom light
	compactNone   = " " // both rows dark
)

// UnicodeCompact renders two matrix rows per output line using half-block
// glyphs, halving vertical height so the symbol stays visually square in
// terminal cells. For odd-height matrices the probe below the last row
// defaults to light.
func UnicodeCompact(res *qr.Result) string {
	var sb strings.Builder
	sb.Grow((res.Size/2 + 1) * (res.Size + 1) * len(compactTop))
	for y := 0; y < res.Size; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < res.Size; x++ {
			top := qr.At(res.Data, x, y, false)
			bottom := qr.At(res.Data, x, y+1, false)
			switch {
			case top && bottom:
				sb.WriteString(compactNone)
			case top:
				sb.WriteString(compactBottom)
			case bottom:
				sb.WriteString(compactTop)
			default:
				sb.WriteString(compactBoth)
			}
		}
	}
	return sb.String()
}
