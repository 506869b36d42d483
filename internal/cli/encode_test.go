package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/qrframe/qrframe/pkg/pipeline"
	"github.com/qrframe/qrframe/pkg/qr"
)

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		format   string
		multiple bool
		want     string
	}{
		{
			name:   "no output uses default base",
			format: "svg",
			want:   "qrcode.svg",
		},
		{
			name:   "explicit output single format",
			output: "out/code.svg",
			format: "svg",
			want:   "out/code.svg",
		},
		{
			name:     "explicit output multiple formats",
			output:   "out/code.svg",
			format:   "png",
			multiple: true,
			want:     "out/code.png",
		},
		{
			name:     "base without extension multiple formats",
			output:   "mycode",
			format:   "svg",
			multiple: true,
			want:     "mycode.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifactPath(tt.output, tt.format, tt.multiple)
			if got != tt.want {
				t.Errorf("artifactPath(%q, %q, %v) = %q, want %q", tt.output, tt.format, tt.multiple, got, tt.want)
			}
		})
	}
}

func TestPipelineOptionsMask(t *testing.T) {
	opts := encodeOpts{mask: -1, border: 1}
	popts := opts.pipelineOptions()
	if popts.Mask != qr.MaskAuto {
		t.Errorf("mask -1 should map to automatic selection, got %v", popts.Mask)
	}

	opts.mask = 3
	popts = opts.pipelineOptions()
	if popts.Mask != qr.Mask3 {
		t.Errorf("mask 3 = %v, want %v", popts.Mask, qr.Mask3)
	}
}

func TestPipelineOptionsBorder(t *testing.T) {
	opts := encodeOpts{mask: -1, border: 0}
	popts := opts.pipelineOptions()
	if popts.Border != qr.NoBorder {
		t.Errorf("border 0 should disable the quiet zone, got %d", popts.Border)
	}

	opts.border = 4
	popts = opts.pipelineOptions()
	if popts.Border != 4 {
		t.Errorf("border = %d, want 4", popts.Border)
	}
}

func TestPipelineOptionsRender(t *testing.T) {
	opts := encodeOpts{
		mask:      -1,
		border:    1,
		ecc:       "m",
		pixelSize: 8,
		light:     "#eeeeee",
		dark:      "navy",
	}
	popts := opts.pipelineOptions()

	if popts.ECC != "M" {
		t.Errorf("ECC = %q, want %q (uppercased)", popts.ECC, "M")
	}
	if popts.SVG.PixelSize != 8 || popts.PNG.PixelSize != 8 {
		t.Error("pixel size should apply to both svg and png")
	}
	if popts.SVG.WhiteColor != "#eeeeee" || popts.PNG.WhiteColor != "#eeeeee" {
		t.Error("light color should apply to both svg and png")
	}
	if popts.SVG.BlackColor != "navy" || popts.PNG.BlackColor != "navy" {
		t.Error("dark color should apply to both svg and png")
	}
}

func TestResolveInputText(t *testing.T) {
	opts := &encodeOpts{}
	var popts pipeline.Options

	if err := resolveInput([]string{"hello"}, opts, &popts); err != nil {
		t.Fatalf("resolveInput() error: %v", err)
	}
	if popts.Text != "hello" {
		t.Errorf("Text = %q, want %q", popts.Text, "hello")
	}
	if popts.Bytes != nil {
		t.Error("Bytes should be nil for positional text")
	}
}

func TestResolveInputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.bin")
	if err := os.WriteFile(path, []byte{0x00, 0xFF, 0x42}, 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &encodeOpts{input: path}
	var popts pipeline.Options

	if err := resolveInput(nil, opts, &popts); err != nil {
		t.Fatalf("resolveInput() error: %v", err)
	}
	if !reflect.DeepEqual(popts.Bytes, []byte{0x00, 0xFF, 0x42}) {
		t.Errorf("Bytes = %v, want file contents", popts.Bytes)
	}
}

func TestResolveInputFileOverridesText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := &encodeOpts{input: path}
	var popts pipeline.Options

	if err := resolveInput([]string{"from arg"}, opts, &popts); err != nil {
		t.Fatalf("resolveInput() error: %v", err)
	}
	if string(popts.Bytes) != "from file" {
		t.Errorf("Bytes = %q, --input should win over positional text", popts.Bytes)
	}
	if popts.Text != "" {
		t.Errorf("Text = %q, should stay empty when --input is set", popts.Text)
	}
}

func TestResolveInputMissing(t *testing.T) {
	opts := &encodeOpts{}
	var popts pipeline.Options

	if err := resolveInput(nil, opts, &popts); err == nil {
		t.Error("resolveInput() should fail without a payload")
	}
}

func TestResolveInputBadFile(t *testing.T) {
	opts := &encodeOpts{input: filepath.Join(t.TempDir(), "missing")}
	var popts pipeline.Options

	if err := resolveInput(nil, opts, &popts); err == nil {
		t.Error("resolveInput() should fail for an unreadable file")
	}
}

func TestPayloadLen(t *testing.T) {
	if got := payloadLen(pipeline.Options{Text: "hello"}); got != 5 {
		t.Errorf("payloadLen(text) = %d, want 5", got)
	}
	if got := payloadLen(pipeline.Options{Bytes: []byte{1, 2, 3}}); got != 3 {
		t.Errorf("payloadLen(bytes) = %d, want 3", got)
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	c := newTestCLI()
	c.Config.Defaults = DefaultsConfig{
		ECC:     "Q",
		Border:  3,
		Formats: []string{"svg"},
	}

	cmd := c.encodeCommand()
	opts := encodeOpts{ecc: "L", border: 1, formats: []string{"compact"}}

	c.applyConfigDefaults(cmd, &opts)

	if opts.ecc != "Q" {
		t.Errorf("ecc = %q, want config default %q", opts.ecc, "Q")
	}
	if opts.border != 3 {
		t.Errorf("border = %d, want config default 3", opts.border)
	}
	if !reflect.DeepEqual(opts.formats, []string{"svg"}) {
		t.Errorf("formats = %v, want config default [svg]", opts.formats)
	}
}

func TestApplyConfigDefaultsFlagWins(t *testing.T) {
	c := newTestCLI()
	c.Config.Defaults = DefaultsConfig{ECC: "Q"}

	cmd := c.encodeCommand()
	if err := cmd.Flags().Set("ecc", "H"); err != nil {
		t.Fatal(err)
	}
	opts := encodeOpts{ecc: "H"}

	c.applyConfigDefaults(cmd, &opts)

	if opts.ecc != "H" {
		t.Errorf("ecc = %q, explicit flag should win over config", opts.ecc)
	}
}
