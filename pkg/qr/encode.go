package qr

import (
	"github.com/qrframe/qrframe/pkg/errors"
	"github.com/qrframe/qrframe/pkg/qr/gen"
)

// Encode generates a QR symbol from text or binary data and applies border
// and inversion post-processing. input must be a string or a []byte; any
// other type fails with UNSUPPORTED_INPUT naming the type received.
func Encode(input any, opts Options) (*Result, error) {
	switch v := input.(type) {
	case string:
		return EncodeText(v, opts)
	case []byte:
		return EncodeBytes(v, opts)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedInput, "unsupported input type: %T", input)
	}
}

// EncodeText encodes text, choosing the most compact segment mode.
func EncodeText(text string, opts Options) (*Result, error) {
	return encode(gen.MakeSegments(text), opts)
}

// EncodeBytes encodes binary data as a single byte-mode segment.
func EncodeBytes(data []byte, opts Options) (*Result, error) {
	return encode([]gen.Segment{gen.MakeBytes(data)}, opts)
}

func encode(segs []gen.Segment, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	code, err := gen.EncodeSegments(segs, eccLevels[opts.ECC],
		opts.MinVersion, opts.MaxVersion, opts.Mask.genMask(), opts.Boost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodingFailed, err, "cannot encode input")
	}

	res := &Result{
		Version: code.Version,
		Mask:    code.Mask,
		Size:    code.Size,
		Data:    code.Modules,
		Types:   code.Types,
	}

	// Border first, inversion second: an inverted symbol inverts its quiet
	// zone too.
	res.AddBorder(opts.Border)
	if opts.Invert {
		res.Invert()
	}

	if opts.OnEncoded != nil {
		opts.OnEncoded(res)
	}
	return res, nil
}
