package gen

// canvas holds the grids under construction plus the function-module overlay
// used to protect placed patterns from masking and codeword drawing.
type canvas struct {
	size       int
	modules    [][]bool
	types      [][]ModuleType
	isFunction [][]bool
	level      Level
}

// buildCode draws function patterns and codewords, applies the requested or
// best-scoring mask, and returns the finished symbol.
func buildCode(codewords []byte, isEcc []bool, version int, level Level, mask int) *Code {
	size := version*4 + 17
	c := &canvas{size: size, level: level}
	c.modules = make([][]bool, size)
	c.types = make([][]ModuleType, size)
	c.isFunction = make([][]bool, size)
	for i := range c.modules {
		c.modules[i] = make([]bool, size)
		c.types[i] = make([]ModuleType, size)
		c.isFunction[i] = make([]bool, size)
	}

	c.drawFunctionPatterns(version)
	c.drawCodewords(codewords, isEcc)

	if mask == AutoMask {
		minPenalty := int(^uint(0) >> 1)
		for i := 0; i < 8; i++ {
			c.applyMask(i)
			c.drawFormatBits(i)
			if p := c.getPenaltyScore(); p < minPenalty {
				mask = i
				minPenalty = p
			}
			c.applyMask(i) // undo, XOR masking is involutory
		}
	}
	c.applyMask(mask)
	c.drawFormatBits(mask)

	return &Code{
		Version: version,
		Mask:    mask,
		Size:    size,
		Modules: c.modules,
		Types:   c.types,
	}
}

// setFunctionModule sets a module value and type and marks it off-limits for
// codeword placement and masking. x is column, y is row.
func (c *canvas) setFunctionModule(x, y int, dark bool, t ModuleType) {
	c.modules[y][x] = dark
	c.types[y][x] = t
	c.isFunction[y][x] = true
}

func (c *canvas) drawFunctionPatterns(version int) {
	for i := 0; i < c.size; i++ {
		c.setFunctionModule(6, i, i%2 == 0, TypeTiming)
		c.setFunctionModule(i, 6, i%2 == 0, TypeTiming)
	}

	// Finder patterns overwrite the timing line corners; draw them after.
	c.drawFinderPattern(3, 3)
	c.drawFinderPattern(c.size-4, 3)
	c.drawFinderPattern(3, c.size-4)

	alignPos := alignmentPatternPositions(version)
	numAlign := len(alignPos)
	for i := 0; i < numAlign; i++ {
		for j := 0; j < numAlign; j++ {
			// Skip the three corners occupied by finder patterns.
			if (i == 0 && j == 0) || (i == 0 && j == numAlign-1) || (i == numAlign-1 && j == 0) {
				continue
			}
			c.drawAlignmentPattern(alignPos[i], alignPos[j])
		}
	}

	// Reserve format areas now so codeword placement avoids them; real
	// values are drawn once the mask is chosen.
	c.drawFormatBits(0)
	c.drawVersion(version)
}

// drawFinderPattern draws a 7x7 finder pattern plus separator ring centered
// at (x, y), clipped to the grid.
func (c *canvas) drawFinderPattern(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			dist := max(abs(dx), abs(dy))
			xx, yy := x+dx, y+dy
			if 0 <= xx && xx < c.size && 0 <= yy && yy < c.size {
				c.setFunctionModule(xx, yy, dist != 2 && dist != 4, TypeFinder)
			}
		}
	}
}

// drawAlignmentPattern draws a 5x5 alignment pattern centered at (x, y).
func (c *canvas) drawAlignmentPattern(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			c.setFunctionModule(x+dx, y+dy, max(abs(dx), abs(dy)) != 1, TypeAlignment)
		}
	}
}

// alignmentPatternPositions returns center coordinates of alignment patterns
// in ascending order, empty for version 1.
func alignmentPatternPositions(version int) []int {
	if version == 1 {
		return nil
	}
	numAlign := version/7 + 2
	var step int
	if version == 32 {
		step = 26
	} else {
		step = (version*4 + numAlign*2 + 1) / (numAlign*2 - 2) * 2
	}
	size := version*4 + 17
	result := make([]int, numAlign)
	result[0] = 6
	for i, pos := numAlign-1, size-7; i >= 1; i, pos = i-1, pos-step {
		result[i] = pos
	}
	return result
}

// drawFormatBits draws the two copies of the format information for the
// canvas level and the given mask, plus the fixed dark module.
func (c *canvas) drawFormatBits(mask int) {
	data := c.level.formatBits()<<3 | mask
	rem := data
	for i := 0; i < 10; i++ {
		rem = (rem << 1) ^ ((rem >> 9) * 0x537)
	}
	bits := (data<<10 | rem) ^ 0x5412

	bit := func(i int) bool { return bits>>uint(i)&1 != 0 }

	// First copy around the top-left finder.
	for i := 0; i <= 5; i++ {
		c.setFunctionModule(8, i, bit(i), TypeFormat)
	}
	c.setFunctionModule(8, 7, bit(6), TypeFormat)
	c.setFunctionModule(8, 8, bit(7), TypeFormat)
	c.setFunctionModule(7, 8, bit(8), TypeFormat)
	for i := 9; i < 15; i++ {
		c.setFunctionModule(14-i, 8, bit(i), TypeFormat)
	}

	// Second copy split across the other two finders.
	for i := 0; i < 8; i++ {
		c.setFunctionModule(c.size-1-i, 8, bit(i), TypeFormat)
	}
	for i := 8; i < 15; i++ {
		c.setFunctionModule(8, c.size-15+i, bit(i), TypeFormat)
	}
	c.setFunctionModule(8, c.size-8, true, TypeFormat) // dark module
}

// drawVersion draws the two copies of the version information for version 7
// and up.
func (c *canvas) drawVersion(version int) {
	if version < 7 {
		return
	}
	rem := version
	for i := 0; i < 12; i++ {
		rem = (rem << 1) ^ ((rem >> 11) * 0x1F25)
	}
	bits := version<<12 | rem

	for i := 0; i < 18; i++ {
		bit := bits>>uint(i)&1 != 0
		a := c.size - 11 + i%3
		b := i / 3
		c.setFunctionModule(a, b, bit, TypeVersion)
		c.setFunctionModule(b, a, bit, TypeVersion)
	}
}

// drawCodewords places interleaved codeword bits in the standard zigzag,
// tagging each module as data or ECC from the codeword it came from.
// Remainder positions past the last codeword stay light with TypeData.
func (c *canvas) drawCodewords(data []byte, isEcc []bool) {
	i := 0 // bit index into data
	for right := c.size - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		for vert := 0; vert < c.size; vert++ {
			for j := 0; j < 2; j++ {
				x := right - j
				upward := (right+1)&2 == 0
				y := vert
				if upward {
					y = c.size - 1 - vert
				}
				if c.isFunction[y][x] || i >= len(data)*8 {
					continue
				}
				c.modules[y][x] = data[i>>3]>>uint(7-i&7)&1 != 0
				if isEcc[i>>3] {
					c.types[y][x] = TypeECC
				} else {
					c.types[y][x] = TypeData
				}
				i++
			}
		}
	}
}

// applyMask XORs the mask pattern onto non-function modules. Applying the
// same mask twice restores the original grid.
func (c *canvas) applyMask(mask int) {
	for y := 0; y < c.size; y++ {
		for x := 0; x < c.size; x++ {
			if c.isFunction[y][x] {
				continue
			}
			var invert bool
			switch mask {
			case 0:
				invert = (x+y)%2 == 0
			case 1:
				invert = y%2 == 0
			case 2:
				invert = x%3 == 0
			case 3:
				invert = (x+y)%3 == 0
			case 4:
				invert = (x/3+y/2)%2 == 0
			case 5:
				invert = x*y%2+x*y%3 == 0
			case 6:
				invert = (x*y%2+x*y%3)%2 == 0
			case 7:
				invert = ((x+y)%2+x*y%3)%2 == 0
			}
			c.modules[y][x] = c.modules[y][x] != invert
		}
	}
}

// Penalty weights from the QR specification.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// getPenaltyScore scores the current grid; lower is better.
func (c *canvas) getPenaltyScore() int {
	result := 0
	size := c.size

	// Adjacent same-color runs in rows, and finder-like row patterns.
	for y := 0; y < size; y++ {
		runColor := false
		runX := 0
		runHistory := newRunHistory()
		for x := 0; x < size; x++ {
			if c.modules[y][x] == runColor {
				runX++
				if runX == 5 {
					result += penaltyN1
				} else if runX > 5 {
					result++
				}
			} else {
				runHistory.add(runX, size)
				if !runColor {
					result += runHistory.countFinderPatterns() * penaltyN3
				}
				runColor = c.modules[y][x]
				runX = 1
			}
		}
		result += runHistory.terminate(runX, runColor, size) * penaltyN3
	}

	// Adjacent same-color runs in columns, and finder-like column patterns.
	for x := 0; x < size; x++ {
		runColor := false
		runY := 0
		runHistory := newRunHistory()
		for y := 0; y < size; y++ {
			if c.modules[y][x] == runColor {
				runY++
				if runY == 5 {
					result += penaltyN1
				} else if runY > 5 {
					result++
				}
			} else {
				runHistory.add(runY, size)
				if !runColor {
					result += runHistory.countFinderPatterns() * penaltyN3
				}
				runColor = c.modules[y][x]
				runY = 1
			}
		}
		result += runHistory.terminate(runY, runColor, size) * penaltyN3
	}

	// 2x2 blocks of the same color.
	for y := 0; y < size-1; y++ {
		for x := 0; x < size-1; x++ {
			color := c.modules[y][x]
			if color == c.modules[y][x+1] && color == c.modules[y+1][x] && color == c.modules[y+1][x+1] {
				result += penaltyN2
			}
		}
	}

	// Dark module balance, in steps of 5% deviation from 50%.
	dark := 0
	for _, row := range c.modules {
		for _, m := range row {
			if m {
				dark++
			}
		}
	}
	total := size * size
	k := (abs(dark*20-total*10)+total-1)/total - 1
	result += k * penaltyN4
	return result
}

// runHistory tracks the last seven run lengths on a scan line to detect
// finder-like 1:1:3:1:1 patterns with adequate light padding.
type runHistory [7]int

func newRunHistory() *runHistory { return &runHistory{} }

// add records a finished run. The first run on a line is padded as if the
// quiet zone extended it.
func (h *runHistory) add(runLength, size int) {
	if h[0] == 0 {
		runLength += size // treat the leading area as running off the edge
	}
	copy(h[1:], h[:6])
	h[0] = runLength
}

// terminate flushes the final run plus the trailing light padding and
// returns the finder-like pattern count for the completed line.
func (h *runHistory) terminate(currentRunLength int, currentRunColor bool, size int) int {
	if currentRunColor { // terminate dark run
		h.add(currentRunLength, size)
		currentRunLength = 0
	}
	currentRunLength += size // add light border to final run
	h.add(currentRunLength, size)
	return h.countFinderPatterns()
}

// countFinderPatterns checks the recorded runs for the 1:1:3:1:1 ratio with
// at least 4 units of light on either side.
func (h *runHistory) countFinderPatterns() int {
	n := h[1]
	core := n > 0 && h[2] == n && h[3] == n*3 && h[4] == n && h[5] == n
	result := 0
	if core && h[6] >= n*4 && h[0] >= n {
		result++
	}
	if core && h[0] >= n*4 && h[6] >= n {
		result++
	}
	return result
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
