package gen

// ModuleType records the semantic category of a module position. The type
// grid is carried alongside the module grid so downstream consumers can tell
// what role a given position plays without re-deriving symbol geometry.
type ModuleType uint8

const (
	// TypeData marks modules carrying message codeword bits (and the
	// remainder bits that follow the last codeword).
	TypeData ModuleType = iota

	// TypeECC marks modules carrying error-correction codeword bits.
	TypeECC

	// TypeFinder marks the three finder patterns and their separators.
	TypeFinder

	// TypeAlignment marks alignment patterns.
	TypeAlignment

	// TypeTiming marks the two timing pattern lines.
	TypeTiming

	// TypeFormat marks format information modules and the dark module.
	TypeFormat

	// TypeVersion marks version information modules (version 7 and up).
	TypeVersion

	// TypeBorder marks quiet-zone modules added by border post-processing.
	// The generator itself never emits this type.
	TypeBorder
)

// String returns a short lowercase name for the module type.
func (t ModuleType) String() string {
	switch t {
	case TypeData:
		return "data"
	case TypeECC:
		return "ecc"
	case TypeFinder:
		return "finder"
	case TypeAlignment:
		return "alignment"
	case TypeTiming:
		return "timing"
	case TypeFormat:
		return "format"
	case TypeVersion:
		return "version"
	case TypeBorder:
		return "border"
	default:
		return "unknown"
	}
}
