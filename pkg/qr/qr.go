// Package qr owns the generation result and the post-processing that sits
// between raw symbol generation and rendering.
//
// A Result holds two parallel grids: module values and per-module semantic
// types. The two are only ever mutated together, through AddBorder and
// Invert, so they cannot drift out of shape. Renderers in the render
// subpackage consume a Result as a read-only value.
package qr

import (
	"github.com/qrframe/qrframe/pkg/qr/gen"
)

// ModuleType is re-exported from the generator so consumers of a Result do
// not need to import gen directly.
type ModuleType = gen.ModuleType

// Module semantic types.
const (
	TypeData      = gen.TypeData
	TypeECC       = gen.TypeECC
	TypeFinder    = gen.TypeFinder
	TypeAlignment = gen.TypeAlignment
	TypeTiming    = gen.TypeTiming
	TypeFormat    = gen.TypeFormat
	TypeVersion   = gen.TypeVersion
	TypeBorder    = gen.TypeBorder
)

// Result is a generated QR symbol after post-processing. Size always equals
// the side length of both grids, including any quiet-zone border.
type Result struct {
	// Version of the underlying symbol, 1..40.
	Version int

	// Mask pattern applied by the generator, 0..7.
	Mask int

	// Size is the side length of Data and Types.
	Size int

	// Data holds module values, row-major; true is dark.
	Data [][]bool

	// Types holds the semantic category of each position, same shape as
	// Data.
	Types [][]ModuleType
}

// At returns grid[y][x], or def when (x, y) falls outside [0, size).
// x is column, y is row. Renderers use this to probe one row past the last
// valid row when pairing rows on odd-height matrices.
func At(grid [][]bool, x, y int, def bool) bool {
	if y < 0 || y >= len(grid) {
		return def
	}
	if x < 0 || x >= len(grid[y]) {
		return def
	}
	return grid[y][x]
}

// At returns the module value at column x, row y, treating out-of-bounds
// positions as light.
func (r *Result) At(x, y int) bool {
	return At(r.Data, x, y, false)
}

// AddBorder extends the symbol by a uniform quiet-zone ring of the given
// width. Added modules are light and tagged TypeBorder. Both grids are
// edited in lockstep; a width of zero or less is a no-op. Returns r.
func (r *Result) AddBorder(width int) *Result {
	if width <= 0 {
		return r
	}
	newSize := r.Size + width*2

	data := make([][]bool, 0, newSize)
	types := make([][]ModuleType, 0, newSize)
	for i := 0; i < width; i++ {
		data = append(data, make([]bool, newSize))
		types = append(types, borderRow(newSize))
	}
	for y := 0; y < r.Size; y++ {
		row := make([]bool, newSize)
		copy(row[width:], r.Data[y])
		data = append(data, row)

		trow := borderRow(newSize)
		copy(trow[width:width+r.Size], r.Types[y])
		types = append(types, trow)
	}
	for i := 0; i < width; i++ {
		data = append(data, make([]bool, newSize))
		types = append(types, borderRow(newSize))
	}

	r.Size = newSize
	r.Data = data
	r.Types = types
	return r
}

// borderRow returns a row of TypeBorder cells.
func borderRow(n int) []ModuleType {
	row := make([]ModuleType, n)
	for i := range row {
		row[i] = TypeBorder
	}
	return row
}

// Invert negates every module value, leaving the type grid untouched:
// inversion changes color polarity, not what a position means. When a border
// was added first, the quiet zone goes dark too; output fidelity requires
// the border to invert along with everything else. Returns r.
func (r *Result) Invert() *Result {
	for _, row := range r.Data {
		for x := range row {
			row[x] = !row[x]
		}
	}
	return r
}

// DarkCount returns the number of dark modules.
func (r *Result) DarkCount() int {
	n := 0
	for _, row := range r.Data {
		for _, m := range row {
			if m {
				n++
			}
		}
	}
	return n
}
