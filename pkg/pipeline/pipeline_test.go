package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/qrframe/qrframe/pkg/cache"
	"github.com/qrframe/qrframe/pkg/errors"
	"github.com/qrframe/qrframe/pkg/qr"
	"github.com/qrframe/qrframe/pkg/qr/render"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: "hello"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if opts.ECC != DefaultECC {
		t.Errorf("ECC = %q, want %q", opts.ECC, DefaultECC)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatUnicode {
		t.Errorf("Formats = %v, want [unicode]", opts.Formats)
	}

	// Idempotent: mutating after validation does not re-trigger defaults.
	opts.ECC = ""
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call error: %v", err)
	}
	if opts.ECC != "" {
		t.Error("second call should be a no-op")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Text: "x", Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad svg color", Options{Text: "x", SVG: render.SVGOptions{BlackColor: "</style>"}}, errors.ErrCodeInvalidInput},
		{"bad glyph", Options{Text: "x", Unicode: render.UnicodeOptions{BlackChar: "\n"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != tt.code {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for f := range ValidFormats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	err := ValidateFormat("jpeg")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestPayloadHashDistinguishesInputKinds(t *testing.T) {
	text := Options{Text: "abc"}
	data := Options{Bytes: []byte("abc")}
	if text.payloadHash() == data.payloadHash() {
		t.Error("text and bytes payloads must hash differently")
	}
	if (&Options{Text: "abc"}).payloadHash() != text.payloadHash() {
		t.Error("payload hash should be deterministic")
	}
}

func TestArtifactKeyOptsPerFormat(t *testing.T) {
	opts := Options{
		Text:    "x",
		ECC:     "M",
		Border:  2,
		Unicode: render.UnicodeOptions{BlackChar: "#"},
		SVG:     render.SVGOptions{PixelSize: 20, WhiteColor: "ivory", BlackColor: "navy"},
		PNG:     render.PNGOptions{PixelSize: 4, WhiteColor: "#fff", BlackColor: "#000"},
	}

	unicode := opts.artifactKeyOpts(FormatUnicode)
	if unicode.BlackChar != "#" || unicode.PixelSize != 0 {
		t.Errorf("unicode key opts = %+v", unicode)
	}
	svg := opts.artifactKeyOpts(FormatSVG)
	if svg.PixelSize != 20 || svg.WhiteColor != "ivory" || svg.BlackChar != "" {
		t.Errorf("svg key opts = %+v", svg)
	}
	png := opts.artifactKeyOpts(FormatPNG)
	if png.PixelSize != 4 || png.BlackColor != "#000" {
		t.Errorf("png key opts = %+v", png)
	}
	compact := opts.artifactKeyOpts(FormatCompact)
	if compact.WhiteChar != "" || compact.PixelSize != 0 {
		t.Errorf("compact key opts = %+v", compact)
	}

	// Shared encode options flow into every format key.
	for _, f := range []string{FormatUnicode, FormatCompact, FormatANSI, FormatSVG, FormatPNG} {
		ko := opts.artifactKeyOpts(f)
		if ko.Format != f || ko.ECC != "M" || ko.Border != 2 {
			t.Errorf("%s key opts = %+v", f, ko)
		}
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	opts := Options{
		Text:    "https://example.com",
		Formats: []string{FormatCompact, FormatSVG},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.QR == nil {
		t.Fatal("missing QR result")
	}
	if len(result.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(result.Artifacts))
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing prolog")
	}
	if result.Stats.Version < 1 || result.Stats.Size != result.QR.Size {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.Stats.DarkCount == 0 {
		t.Error("DarkCount should be set")
	}
	// Null cache never hits.
	if result.CacheInfo.AllHit() {
		t.Error("null cache should not report hits")
	}
}

func TestExecuteBytesInput(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	result, err := runner.Execute(context.Background(), Options{
		Bytes:   []byte{0x00, 0x01, 0xFF},
		Formats: []string{FormatUnicode},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(result.Artifacts[FormatUnicode]) == 0 {
		t.Error("missing unicode artifact")
	}
}

func TestExecuteEncodeError(t *testing.T) {
	runner := NewRunner(nil, nil, testLogger())
	_, err := runner.Execute(context.Background(), Options{
		Text:       strings.Repeat("x", 100),
		MaxVersion: 1,
		Formats:    []string{FormatCompact},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeEncodingFailed) {
		t.Errorf("error = %v, want ENCODING_FAILED", err)
	}
}

func TestExecuteArtifactCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := NewRunner(fc, nil, testLogger())
	opts := Options{Text: "cached", Formats: []string{FormatSVG}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.AllHit() {
		t.Error("first run should miss")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.AllHit() {
		t.Error("second run should hit")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the cache.
	refreshOpts := opts
	refreshOpts.Refresh = true
	third, err := runner.Execute(ctx, refreshOpts)
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheInfo.AllHit() {
		t.Error("refresh run should not report hits")
	}

	// Different render options must not share artifacts.
	invOpts := Options{Text: "cached", Invert: true, Formats: []string{FormatSVG}}
	inverted, err := runner.Execute(ctx, invOpts)
	if err != nil {
		t.Fatalf("inverted Execute error: %v", err)
	}
	if inverted.CacheInfo.AllHit() {
		t.Error("changed options should miss the cache")
	}
	if string(inverted.Artifacts[FormatSVG]) == string(first.Artifacts[FormatSVG]) {
		t.Error("inverted artifact should differ")
	}
}

func TestRenderArtifactUnknownFormat(t *testing.T) {
	res, err := qr.EncodeText("X", qr.Options{})
	if err != nil {
		t.Fatalf("EncodeText error: %v", err)
	}
	if _, err := RenderArtifact(res, "gif", Options{}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestCacheInfoAllHit(t *testing.T) {
	if (CacheInfo{}).AllHit() {
		t.Error("empty info should not report all hits")
	}
	if !(CacheInfo{Hits: map[string]bool{"svg": true}}).AllHit() {
		t.Error("single hit should report all hits")
	}
	if (CacheInfo{Hits: map[string]bool{"svg": true, "png": false}}).AllHit() {
		t.Error("mixed hits should not report all hits")
	}
}
