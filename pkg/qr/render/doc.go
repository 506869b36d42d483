// Package render turns a generated QR result into presentation formats:
// plain Unicode block text, ANSI-colored terminal text, vertically compacted
// Unicode, SVG markup, and PNG images.
//
// Every renderer is a pure projection: it never mutates the result and holds
// no state across calls. Renderers trust their input; feed them a result
// straight from qr.Encode.
//
// Each renderer takes an options struct whose zero value selects the
// documented defaults, so callers only name what they change:
//
//	res, _ := qr.EncodeText("https://example.com", qr.Options{})
//	fmt.Println(render.UnicodeCompact(res))
//	svg := render.SVG(res, render.SVGOptions{PixelSize: 8})
package render
