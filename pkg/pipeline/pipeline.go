// Package pipeline provides the core encode → render pipeline for qrframe.
//
// This package implements the complete flow shared by the CLI and the HTTP
// service: normalize options, generate and post-process the QR symbol, and
// render it to the requested output formats with artifact caching. By
// centralizing this logic, every entry point behaves identically.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    "https://example.com",
//	    ECC:     "M",
//	    Formats: []string{"svg", "compact"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/qrframe/qrframe/pkg/cache"
	"github.com/qrframe/qrframe/pkg/errors"
	"github.com/qrframe/qrframe/pkg/qr"
	"github.com/qrframe/qrframe/pkg/qr/render"
)

// Format constants for output formats.
const (
	FormatUnicode = "unicode"
	FormatCompact = "compact"
	FormatANSI    = "ansi"
	FormatSVG     = "svg"
	FormatPNG     = "png"
)

// DefaultECC is the default error-correction level.
const DefaultECC = "L"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatUnicode: true,
	FormatCompact: true,
	FormatANSI:    true,
	FormatSVG:     true,
	FormatPNG:     true,
}

// TextFormats are the formats whose artifacts are terminal text rather than
// a document or image.
var TextFormats = map[string]bool{
	FormatUnicode: true,
	FormatCompact: true,
	FormatANSI:    true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: unicode, compact, ansi, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for service requests.
type Options struct {
	// Input: exactly one of Text or Bytes. Bytes wins when both are set,
	// matching the byte-mode segment's stricter encoding.
	Text  string `json:"text,omitempty"`
	Bytes []byte `json:"bytes,omitempty"`

	// Encode options
	ECC        string  `json:"ecc,omitempty"`
	Boost      bool    `json:"boost,omitempty"`
	MinVersion int     `json:"min_version,omitempty"`
	MaxVersion int     `json:"max_version,omitempty"`
	Mask       qr.Mask `json:"mask,omitempty"`
	Border     int     `json:"border,omitempty"`
	Invert     bool    `json:"invert,omitempty"`

	// Render options
	Formats []string              `json:"formats,omitempty"`
	Unicode render.UnicodeOptions `json:"unicode,omitempty"`
	ANSI    render.ANSIOptions    `json:"ansi,omitempty"`
	SVG     render.SVGOptions     `json:"svg,omitempty"`
	PNG     render.PNGOptions     `json:"png,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger      `json:"-"`
	OnEncoded func(*qr.Result) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Text == "" && o.Bytes == nil {
		return errors.New(errors.ErrCodeInvalidInput, "text or bytes is required")
	}
	if o.ECC == "" {
		o.ECC = DefaultECC
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatUnicode}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.validateRenderOptions(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// validateRenderOptions rejects unsafe color and glyph overrides before they
// reach a renderer. ANSI escape sequences are exempt: they are opaque SGR
// strings, not colors.
func (o *Options) validateRenderOptions() error {
	for _, color := range []string{o.SVG.WhiteColor, o.SVG.BlackColor, o.PNG.WhiteColor, o.PNG.BlackColor} {
		if color == "" {
			continue
		}
		if err := errors.ValidateColor(color); err != nil {
			return err
		}
	}
	for _, ch := range []string{o.Unicode.WhiteChar, o.Unicode.BlackChar} {
		if ch == "" {
			continue
		}
		if err := errors.ValidateModuleChar(ch); err != nil {
			return err
		}
	}
	return nil
}

// input returns the encoder input value.
func (o *Options) input() any {
	if o.Bytes != nil {
		return o.Bytes
	}
	return o.Text
}

// qrOptions converts pipeline options into encoder options.
func (o *Options) qrOptions() qr.Options {
	return qr.Options{
		ECC:        o.ECC,
		Boost:      o.Boost,
		MinVersion: o.MinVersion,
		MaxVersion: o.MaxVersion,
		Mask:       o.Mask,
		Border:     o.Border,
		Invert:     o.Invert,
		OnEncoded:  o.OnEncoded,
	}
}

// payloadHash returns the hash identifying the input payload for cache keys.
// Text and bytes inputs hash differently even for identical byte content
// because they may choose different segment modes.
func (o *Options) payloadHash() string {
	if o.Bytes != nil {
		return cache.Hash(append([]byte("bytes:"), o.Bytes...))
	}
	return cache.Hash(append([]byte("text:"), o.Text...))
}

// artifactKeyOpts returns cache key options for one rendered format.
func (o *Options) artifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     format,
		ECC:        o.ECC,
		Boost:      o.Boost,
		MinVersion: o.MinVersion,
		MaxVersion: o.MaxVersion,
		Mask:       int(o.Mask),
		Border:     o.Border,
		Invert:     o.Invert,
	}
	switch format {
	case FormatUnicode:
		opts.WhiteChar = o.Unicode.WhiteChar
		opts.BlackChar = o.Unicode.BlackChar
	case FormatANSI:
		opts.WhiteColor = o.ANSI.WhiteColor
		opts.BlackColor = o.ANSI.BlackColor
	case FormatSVG:
		opts.PixelSize = o.SVG.PixelSize
		opts.WhiteColor = o.SVG.WhiteColor
		opts.BlackColor = o.SVG.BlackColor
	case FormatPNG:
		opts.PixelSize = o.PNG.PixelSize
		opts.WhiteColor = o.PNG.WhiteColor
		opts.BlackColor = o.PNG.BlackColor
	}
	return opts
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// QR is the post-processed generation result.
	QR *qr.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Version    int
	Size       int
	DarkCount  int
	EncodeTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for rendered artifacts.
type CacheInfo struct {
	// Hits maps format to whether its artifact came from cache.
	Hits map[string]bool
}

// AllHit reports whether every requested artifact came from cache.
func (c CacheInfo) AllHit() bool {
	if len(c.Hits) == 0 {
		return false
	}
	for _, hit := range c.Hits {
		if !hit {
			return false
		}
	}
	return true
}
