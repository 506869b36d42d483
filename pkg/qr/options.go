package qr

import (
	"github.com/qrframe/qrframe/pkg/errors"
	"github.com/qrframe/qrframe/pkg/qr/gen"
)

// Mask selects the mask pattern. The zero value selects the lowest-penalty
// mask automatically.
type Mask int

// Mask pattern values.
const (
	MaskAuto Mask = iota
	Mask0
	Mask1
	Mask2
	Mask3
	Mask4
	Mask5
	Mask6
	Mask7
)

// genMask converts to the generator's representation, where -1 means auto.
func (m Mask) genMask() int {
	if m == MaskAuto {
		return gen.AutoMask
	}
	return int(m) - 1
}

// NoBorder disables the quiet-zone border. The Border field's zero value
// keeps the default single-module ring, so opting out is explicit.
const NoBorder = -1

// Version number bounds defined by the QR standard.
const (
	MinVersion = gen.MinVersion
	MaxVersion = gen.MaxVersion
)

// Options configures encoding and post-processing. The zero value is valid:
// level L, versions 1..40, automatic mask, a one-module border, no
// inversion.
type Options struct {
	// ECC is the symbolic error-correction level: "L", "M", "Q", or "H".
	// Empty means "L". Anything else fails with INVALID_ECC_LEVEL.
	ECC string

	// Boost raises the ECC level when the chosen version has room, without
	// growing the symbol.
	Boost bool

	// MinVersion and MaxVersion bound the version search, 1..40.
	// Zero values mean 1 and 40 respectively.
	MinVersion int
	MaxVersion int

	// Mask forces a mask pattern; MaskAuto picks by penalty score.
	Mask Mask

	// Border is the quiet-zone width in modules. Zero means the default of
	// one module; NoBorder disables the ring.
	Border int

	// Invert flips module polarity after the border is added, so the quiet
	// zone renders dark as well.
	Invert bool

	// OnEncoded, when set, is invoked synchronously with the final result
	// after all post-processing and before Encode returns. It is purely for
	// observation; its effects on the result are the caller's problem and
	// panics are not recovered.
	OnEncoded func(*Result)
}

// eccLevels maps symbolic levels to the generator's representation.
var eccLevels = map[string]gen.Level{
	"L": gen.LevelLow,
	"M": gen.LevelMedium,
	"Q": gen.LevelQuartile,
	"H": gen.LevelHigh,
}

// withDefaults returns a copy with zero values resolved.
func (o Options) withDefaults() Options {
	if o.ECC == "" {
		o.ECC = "L"
	}
	if o.MinVersion == 0 {
		o.MinVersion = gen.MinVersion
	}
	if o.MaxVersion == 0 {
		o.MaxVersion = gen.MaxVersion
	}
	if o.Border == 0 {
		o.Border = 1
	} else if o.Border == NoBorder {
		o.Border = 0
	}
	return o
}

// validate checks resolved options.
func (o Options) validate() error {
	if _, ok := eccLevels[o.ECC]; !ok {
		return errors.New(errors.ErrCodeInvalidEccLevel, "unknown ECC level: %q", o.ECC)
	}
	if o.MinVersion < gen.MinVersion || o.MinVersion > o.MaxVersion || o.MaxVersion > gen.MaxVersion {
		return errors.New(errors.ErrCodeInvalidVersion, "invalid version range: %d..%d", o.MinVersion, o.MaxVersion)
	}
	if o.Mask < MaskAuto || o.Mask > Mask7 {
		return errors.New(errors.ErrCodeInvalidMask, "invalid mask pattern: %d", o.Mask.genMask())
	}
	if o.Border < 0 {
		return errors.New(errors.ErrCodeInvalidBorder, "border width cannot be negative: %d", o.Border)
	}
	return nil
}
