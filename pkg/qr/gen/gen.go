// Package gen constructs QR symbols: segment packing, Reed-Solomon error
// correction, function pattern placement, and mask selection.
//
// The package emits a raw module grid together with a parallel grid of
// per-module semantic types. It knows nothing about borders, inversion, or
// output formats; those live in the qr and render packages which consume the
// Code it produces.
package gen

import (
	"errors"
	"fmt"
)

// ErrDataTooLong is wrapped by EncodeSegments when the payload cannot fit
// within the requested version range at the requested level.
var ErrDataTooLong = errors.New("data too long")

// AutoMask requests automatic mask selection by penalty score.
const AutoMask = -1

// Code is a generated QR symbol before any post-processing.
type Code struct {
	// Version in 1..40; Size == Version*4 + 17.
	Version int

	// Mask in 0..7 actually applied to the symbol.
	Mask int

	// Size is the side length of both grids.
	Size int

	// Modules holds module values, row-major; true is dark.
	Modules [][]bool

	// Types holds the semantic category of each position, same shape as
	// Modules.
	Types [][]ModuleType
}

// EncodeSegments encodes segments into a QR symbol at the lowest version in
// [minVersion, maxVersion] that fits. mask selects the mask pattern, or
// AutoMask to choose the lowest-penalty mask. When boost is set the level is
// raised as far as the chosen version allows without growing the symbol.
func EncodeSegments(segs []Segment, level Level, minVersion, maxVersion, mask int, boost bool) (*Code, error) {
	if minVersion < MinVersion || minVersion > maxVersion || maxVersion > MaxVersion {
		return nil, fmt.Errorf("invalid version range: %d..%d", minVersion, maxVersion)
	}
	if mask < AutoMask || mask > 7 {
		return nil, fmt.Errorf("invalid mask pattern: %d", mask)
	}

	// Find the smallest version that fits the payload.
	version := minVersion
	var dataUsedBits int
	for {
		dataCapacityBits := getNumDataCodewords(version, level) * 8
		dataUsedBits = getTotalBits(segs, version)
		if dataUsedBits != -1 && dataUsedBits <= dataCapacityBits {
			break
		}
		if version >= maxVersion {
			if dataUsedBits == -1 {
				return nil, fmt.Errorf("%w: segment too long", ErrDataTooLong)
			}
			return nil, fmt.Errorf("%w: %d bits needed, %d bits available at version %d",
				ErrDataTooLong, dataUsedBits, dataCapacityBits, maxVersion)
		}
		version++
	}

	// Raise the level while the payload still fits at this version.
	if boost {
		for _, l := range []Level{LevelMedium, LevelQuartile, LevelHigh} {
			if l > level && dataUsedBits <= getNumDataCodewords(version, l)*8 {
				level = l
			}
		}
	}

	// Pack segments into the data codeword stream.
	var bb bitBuffer
	for _, seg := range segs {
		bb = bb.appendBits(uint32(seg.Mode.modeBits), 4)
		bb = bb.appendBits(uint32(seg.NumChars), seg.Mode.numCharCountBits(version))
		bb = append(bb, seg.data...)
	}

	// Terminator, bit padding to a byte boundary, then alternating pad bytes.
	dataCapacityBits := getNumDataCodewords(version, level) * 8
	bb = bb.appendBits(0, min(4, dataCapacityBits-len(bb)))
	bb = bb.appendBits(0, (8-len(bb)%8)%8)
	for pad := uint32(0xEC); len(bb) < dataCapacityBits; pad ^= 0xEC ^ 0x11 {
		bb = bb.appendBits(pad, 8)
	}

	dataCodewords := make([]byte, len(bb)/8)
	for i, bit := range bb {
		if bit {
			dataCodewords[i>>3] |= 0x80 >> uint(i&7)
		}
	}

	allCodewords, isEcc := addEccAndInterleave(dataCodewords, version, level)
	return buildCode(allCodewords, isEcc, version, level, mask), nil
}

// addEccAndInterleave splits data into blocks, appends Reed-Solomon ECC to
// each, and interleaves the blocks into transmission order. The returned
// boolean slice marks which output codewords are ECC rather than data.
func addEccAndInterleave(data []byte, version int, level Level) ([]byte, []bool) {
	numBlocks := int(numErrorCorrectionBlocks[level][version])
	blockEccLen := int(eccCodewordsPerBlock[level][version])
	rawCodewords := getNumRawDataModules(version) / 8
	numShortBlocks := numBlocks - rawCodewords%numBlocks
	shortBlockLen := rawCodewords / numBlocks

	rsDiv := reedSolomonComputeDivisor(blockEccLen)
	blocks := make([][]byte, 0, numBlocks)
	k := 0
	for i := 0; i < numBlocks; i++ {
		datLen := shortBlockLen - blockEccLen
		if i >= numShortBlocks {
			datLen++
		}
		dat := data[k : k+datLen]
		k += datLen
		ecc := reedSolomonComputeRemainder(dat, rsDiv)
		block := make([]byte, 0, shortBlockLen+1)
		block = append(block, dat...)
		if i < numShortBlocks {
			block = append(block, 0) // placeholder, skipped during interleave
		}
		block = append(block, ecc...)
		blocks = append(blocks, block)
	}

	result := make([]byte, 0, rawCodewords)
	flags := make([]bool, 0, rawCodewords)
	for i := 0; i < len(blocks[0]); i++ {
		for j, block := range blocks {
			if i == shortBlockLen-blockEccLen && j < numShortBlocks {
				continue
			}
			result = append(result, block[i])
			flags = append(flags, i >= len(block)-blockEccLen)
		}
	}
	return result, flags
}

// reedSolomonComputeDivisor returns the degree-n generator polynomial
// coefficients, highest power first with the leading 1 dropped.
func reedSolomonComputeDivisor(degree int) []byte {
	result := make([]byte, degree)
	result[degree-1] = 1 // x^0 term of the initial monomial

	// Multiply by (x - r^i) for successive i, where r = 0x02 in GF(2^8/0x11D).
	root := byte(1)
	for i := 0; i < degree; i++ {
		for j := 0; j < degree; j++ {
			result[j] = reedSolomonMultiply(result[j], root)
			if j+1 < degree {
				result[j] ^= result[j+1]
			}
		}
		root = reedSolomonMultiply(root, 0x02)
	}
	return result
}

// reedSolomonComputeRemainder returns the polynomial remainder of data
// divided by the given divisor.
func reedSolomonComputeRemainder(data, divisor []byte) []byte {
	result := make([]byte, len(divisor))
	for _, b := range data {
		factor := b ^ result[0]
		copy(result, result[1:])
		result[len(result)-1] = 0
		for i, coef := range divisor {
			result[i] ^= reedSolomonMultiply(coef, factor)
		}
	}
	return result
}

// reedSolomonMultiply multiplies in GF(2^8) with modulus 0x11D.
func reedSolomonMultiply(x, y byte) byte {
	z := 0
	for i := 7; i >= 0; i-- {
		z = (z << 1) ^ ((z >> 7) * 0x11D)
		z ^= int(y>>uint(i)&1) * int(x)
	}
	return byte(z)
}
