package render

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/qrframe/qrframe/pkg/qr"
)

// PNGOptions configures the raster renderer.
type PNGOptions struct {
	// PixelSize is the side length of one module in pixels. Default 10.
	PixelSize int

	// WhiteColor is the background hex color. Default "#ffffff".
	WhiteColor string

	// BlackColor is the module hex color. Default "#000000".
	BlackColor string
}

// PNG renders the symbol as a PNG image, one filled square per dark module.
func PNG(res *qr.Result, opts PNGOptions) ([]byte, error) {
	ps := opts.PixelSize
	if ps <= 0 {
		ps = 10
	}
	white := opts.WhiteColor
	if white == "" {
		white = "#ffffff"
	}
	black := opts.BlackColor
	if black == "" {
		black = "#000000"
	}

	dim := res.Size * ps
	dc := gg.NewContext(dim, dim)
	dc.SetHexColor(white)
	dc.Clear()
	dc.SetHexColor(black)
	for y, row := range res.Data {
		for x, dark := range row {
			if dark {
				dc.DrawRectangle(float64(x*ps), float64(y*ps), float64(ps), float64(ps))
			}
		}
	}
	dc.Fill()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
