package gen

import (
	"strings"
)

// Mode describes a segment encoding mode.
type Mode struct {
	modeBits int
	// Character count field width for version ranges 1-9, 10-26, 27-40.
	numBitsCharCount [3]int
}

// Segment encoding modes.
var (
	ModeNumeric      = Mode{1, [3]int{10, 12, 14}}
	ModeAlphanumeric = Mode{2, [3]int{9, 11, 13}}
	ModeByte         = Mode{4, [3]int{8, 16, 16}}
)

// numCharCountBits returns the character count field width for a version.
func (m Mode) numCharCountBits(version int) int {
	return m.numBitsCharCount[(version+7)/17]
}

// Segment is a run of characters encoded in a single mode. The bit data is
// already packed; numChars counts source characters, not bits or bytes.
type Segment struct {
	Mode     Mode
	NumChars int
	data     bitBuffer
}

// alphanumericCharset maps each alphanumeric-mode character to its value by
// string index.
const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// IsNumeric reports whether text can be encoded in numeric mode.
func IsNumeric(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsAlphanumeric reports whether text can be encoded in alphanumeric mode.
func IsAlphanumeric(text string) bool {
	for _, r := range text {
		if !strings.ContainsRune(alphanumericCharset, r) {
			return false
		}
	}
	return true
}

// MakeBytes wraps binary data as a single byte-mode segment.
func MakeBytes(data []byte) Segment {
	var bb bitBuffer
	for _, b := range data {
		bb = bb.appendBits(uint32(b), 8)
	}
	return Segment{Mode: ModeByte, NumChars: len(data), data: bb}
}

// MakeNumeric encodes a string of decimal digits.
func MakeNumeric(digits string) Segment {
	var bb bitBuffer
	for i := 0; i < len(digits); {
		n := min(len(digits)-i, 3)
		val := uint32(0)
		for j := 0; j < n; j++ {
			val = val*10 + uint32(digits[i+j]-'0')
		}
		bb = bb.appendBits(val, n*3+1)
		i += n
	}
	return Segment{Mode: ModeNumeric, NumChars: len(digits), data: bb}
}

// MakeAlphanumeric encodes text limited to the alphanumeric charset
// (digits, uppercase letters, and the nine symbols " $%*+-./:").
func MakeAlphanumeric(text string) Segment {
	var bb bitBuffer
	i := 0
	for ; i+1 < len(text); i += 2 {
		val := uint32(strings.IndexByte(alphanumericCharset, text[i])) * 45
		val += uint32(strings.IndexByte(alphanumericCharset, text[i+1]))
		bb = bb.appendBits(val, 11)
	}
	if i < len(text) {
		bb = bb.appendBits(uint32(strings.IndexByte(alphanumericCharset, text[i])), 6)
	}
	return Segment{Mode: ModeAlphanumeric, NumChars: len(text), data: bb}
}

// MakeSegments converts text into the most compact single-mode segment list:
// numeric mode when all characters are digits, alphanumeric mode when the
// charset allows, and UTF-8 byte mode otherwise. Empty text produces an
// empty list, which encodes as a valid symbol with no payload.
func MakeSegments(text string) []Segment {
	switch {
	case text == "":
		return nil
	case IsNumeric(text):
		return []Segment{MakeNumeric(text)}
	case IsAlphanumeric(text):
		return []Segment{MakeAlphanumeric(text)}
	default:
		return []Segment{MakeBytes([]byte(text))}
	}
}

// getTotalBits returns the bit length of the segment list at the given
// version, or -1 if any segment's character count overflows its field.
func getTotalBits(segs []Segment, version int) int {
	result := 0
	for _, seg := range segs {
		ccbits := seg.Mode.numCharCountBits(version)
		if seg.NumChars >= 1<<ccbits {
			return -1
		}
		result += 4 + ccbits + len(seg.data)
	}
	return result
}

// bitBuffer accumulates bits in transmission order.
type bitBuffer []bool

// appendBits appends the n least significant bits of val, most significant
// first. n must be at most 31 and val must fit in n bits.
func (b bitBuffer) appendBits(val uint32, n int) bitBuffer {
	for i := n - 1; i >= 0; i-- {
		b = append(b, val>>uint(i)&1 != 0)
	}
	return b
}
