package gen

// Level is an error-correction level. Higher levels tolerate more damaged
// modules at the cost of payload capacity.
type Level int

const (
	LevelLow      Level = iota // ~7% correction
	LevelMedium                // ~15% correction
	LevelQuartile              // ~25% correction
	LevelHigh                  // ~30% correction
)

// formatBits returns the two-bit value used in format information.
func (l Level) formatBits() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 0
	case LevelQuartile:
		return 3
	default:
		return 2
	}
}

// String returns the conventional single-letter name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	default:
		return "H"
	}
}

// Version bounds defined by the QR standard.
const (
	MinVersion = 1
	MaxVersion = 40
)

// eccCodewordsPerBlock[level][version]. Index 0 is unused.
var eccCodewordsPerBlock = [4][MaxVersion + 1]int8{
	{-1, 7, 10, 15, 20, 26, 18, 20, 24, 30, 18, 20, 24, 26, 30, 22, 24, 28, 30, 28, 28, 28, 28, 30, 30, 26, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 10, 16, 26, 18, 24, 16, 18, 22, 22, 26, 30, 22, 22, 24, 24, 28, 28, 26, 26, 26, 26, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28, 28},
	{-1, 13, 22, 18, 26, 18, 24, 18, 22, 20, 24, 28, 26, 24, 20, 30, 24, 28, 28, 26, 30, 28, 30, 30, 30, 30, 28, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
	{-1, 17, 28, 22, 16, 22, 28, 26, 26, 24, 28, 24, 28, 22, 24, 24, 30, 28, 28, 26, 28, 30, 24, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30, 30},
}

// numErrorCorrectionBlocks[level][version]. Index 0 is unused.
var numErrorCorrectionBlocks = [4][MaxVersion + 1]int8{
	{-1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 4, 4, 4, 4, 4, 6, 6, 6, 6, 7, 8, 8, 9, 9, 10, 12, 12, 12, 13, 14, 15, 16, 17, 18, 19, 19, 20, 21, 22, 24, 25},
	{-1, 1, 1, 1, 2, 2, 4, 4, 4, 5, 5, 5, 8, 9, 9, 10, 10, 11, 13, 14, 16, 17, 17, 18, 20, 21, 23, 25, 26, 28, 29, 31, 33, 35, 37, 38, 40, 43, 45, 47, 49},
	{-1, 1, 1, 2, 2, 4, 4, 6, 6, 8, 8, 8, 10, 12, 16, 12, 17, 16, 18, 21, 20, 23, 23, 25, 27, 29, 34, 34, 35, 38, 40, 43, 45, 48, 51, 53, 56, 59, 62, 65, 68},
	{-1, 1, 1, 2, 4, 4, 4, 5, 6, 8, 8, 11, 11, 16, 16, 18, 16, 19, 21, 25, 25, 25, 34, 30, 32, 35, 37, 40, 42, 45, 48, 51, 54, 57, 60, 63, 66, 70, 74, 77, 81},
}

// getNumRawDataModules returns the number of data modules available at the
// given version after all function patterns are placed.
func getNumRawDataModules(version int) int {
	result := (16*version+128)*version + 64
	if version >= 2 {
		numAlign := version/7 + 2
		result -= (25*numAlign-10)*numAlign - 55
		if version >= 7 {
			result -= 36
		}
	}
	return result
}

// getNumDataCodewords returns the message codeword capacity at the given
// version and level, excluding error-correction codewords.
func getNumDataCodewords(version int, level Level) int {
	return getNumRawDataModules(version)/8 -
		int(eccCodewordsPerBlock[level][version])*int(numErrorCorrectionBlocks[level][version])
}
