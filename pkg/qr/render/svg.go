package render

import (
	"fmt"
	"strings"

	"github.com/qrframe/qrframe/pkg/qr"
)

// SVGOptions configures the vector renderer.
type SVGOptions struct {
	// PixelSize is the side length of one module in document units.
	// Default 10.
	PixelSize int

	// WhiteColor fills the background rectangle. Default "white".
	WhiteColor string

	// BlackColor fills the module path. Default "black".
	BlackColor string
}

// SVG renders the symbol as a scalable vector graphics document: one
// background rectangle in the light color and one path merging every dark
// module as a closed unit-square subpath with relative draw commands. A
// single path keeps the document size proportional to the dark-module
// count rather than emitting one shape per module.
func SVG(res *qr.Result, opts SVGOptions) string {
	ps := opts.PixelSize
	if ps <= 0 {
		ps = 10
	}
	white := opts.WhiteColor
	if white == "" {
		white = "white"
	}
	black := opts.BlackColor
	if black == "" {
		black = "black"
	}
	dim := res.Size * ps

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, dim, dim)
	fmt.Fprintf(&sb, `<rect fill="%s" width="%d" height="%d"/>`, white, dim, dim)

	var path strings.Builder
	for y, row := range res.Data {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&path, "M%d,%dh%dv%dh-%dz", x*ps, y*ps, ps, ps, ps)
			}
		}
	}
	fmt.Fprintf(&sb, `<path fill="%s" d="%s"/>`, black, path.String())
	sb.WriteString(`</svg>`)
	return sb.String()
}
