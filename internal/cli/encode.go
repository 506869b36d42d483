package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qrframe/qrframe/pkg/pipeline"
	"github.com/qrframe/qrframe/pkg/qr"
)

// defaultOutputBase is the base filename for file artifacts when no
// output path is given.
const defaultOutputBase = "qrcode"

// encodeOpts holds the command-line flags for the encode command.
type encodeOpts struct {
	input      string   // input file path ("-" for stdin), overrides positional text
	output     string   // output file path (or base path for multiple file formats)
	formats    []string // output formats: unicode, compact, ansi, svg, png
	ecc        string   // error correction level: L, M, Q, H
	boost      bool     // upgrade ECC when the chosen version has slack
	minVersion int      // minimum symbol version (1-40)
	maxVersion int      // maximum symbol version (1-40)
	mask       int      // mask pattern 0-7, or -1 for automatic selection
	border     int      // quiet zone width in modules (0 disables)
	invert     bool     // flip module polarity after the border is applied
	pixelSize  int      // pixel size per module for svg/png
	light      string   // light module color for svg/png
	dark       string   // dark module color for svg/png
	noCache    bool     // disable the artifact cache
	refresh    bool     // bypass cached artifacts and re-render
}

// encodeCommand creates the encode command.
//
// Text formats are written to stdout; svg and png artifacts are written to
// files derived from --output.
func (c *CLI) encodeCommand() *cobra.Command {
	var formatsStr string
	opts := encodeOpts{
		minVersion: qr.MinVersion,
		maxVersion: qr.MaxVersion,
		mask:       -1,
		border:     1,
	}

	cmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode a payload and render it as a QR code",
		Long: `Encode text or file contents into a QR code and render it to one or
more output formats. Terminal formats (compact, unicode, ansi) are written
to stdout; svg and png artifacts are written to files.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			c.applyConfigDefaults(cmd, &opts)
			return c.runEncode(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read payload bytes from a file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single file format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): compact (default), unicode, ansi, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.ecc, "ecc", "e", "", "error correction level: L (default), M, Q, H")
	cmd.Flags().BoolVar(&opts.boost, "boost", false, "upgrade error correction when the symbol has slack")
	cmd.Flags().IntVar(&opts.minVersion, "min-version", opts.minVersion, "minimum symbol version")
	cmd.Flags().IntVar(&opts.maxVersion, "max-version", opts.maxVersion, "maximum symbol version")
	cmd.Flags().IntVar(&opts.mask, "mask", opts.mask, "mask pattern 0-7, or -1 for automatic selection")
	cmd.Flags().IntVarP(&opts.border, "border", "b", opts.border, "quiet zone width in modules (0 disables)")
	cmd.Flags().BoolVar(&opts.invert, "invert", false, "flip module polarity")
	cmd.Flags().IntVar(&opts.pixelSize, "pixel-size", 0, "pixel size per module for svg/png")
	cmd.Flags().StringVar(&opts.light, "light", "", "light module color for svg/png")
	cmd.Flags().StringVar(&opts.dark, "dark", "", "dark module color for svg/png")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached artifacts exist")

	return cmd
}

// applyConfigDefaults fills unset flags from the config file.
func (c *CLI) applyConfigDefaults(cmd *cobra.Command, opts *encodeOpts) {
	if !cmd.Flags().Changed("ecc") && c.Config.Defaults.ECC != "" {
		opts.ecc = c.Config.Defaults.ECC
	}
	if !cmd.Flags().Changed("border") && c.Config.Defaults.Border != 0 {
		opts.border = c.Config.Defaults.Border
	}
	if !cmd.Flags().Changed("format") && len(c.Config.Defaults.Formats) > 0 {
		opts.formats = c.Config.Defaults.Formats
	}
}

// runEncode resolves the payload, executes the pipeline, and writes artifacts.
func (c *CLI) runEncode(cmd *cobra.Command, args []string, opts *encodeOpts) error {
	ctx := withLogger(cmd.Context(), c.Logger)

	popts := opts.pipelineOptions()
	if err := resolveInput(args, opts, &popts); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Encoded %d bytes", payloadLen(popts)))

	return c.writeArtifacts(result, opts)
}

// pipelineOptions converts CLI flags into pipeline options.
func (o *encodeOpts) pipelineOptions() pipeline.Options {
	mask := qr.MaskAuto
	if o.mask >= 0 {
		mask = qr.Mask(o.mask + 1)
	}
	border := o.border
	if border == 0 {
		border = qr.NoBorder
	}

	popts := pipeline.Options{
		ECC:        strings.ToUpper(o.ecc),
		Boost:      o.boost,
		MinVersion: o.minVersion,
		MaxVersion: o.maxVersion,
		Mask:       mask,
		Border:     border,
		Invert:     o.invert,
		Formats:    o.formats,
		Refresh:    o.refresh,
	}
	if o.pixelSize > 0 {
		popts.SVG.PixelSize = o.pixelSize
		popts.PNG.PixelSize = o.pixelSize
	}
	if o.light != "" {
		popts.SVG.WhiteColor = o.light
		popts.PNG.WhiteColor = o.light
	}
	if o.dark != "" {
		popts.SVG.BlackColor = o.dark
		popts.PNG.BlackColor = o.dark
	}
	return popts
}

// resolveInput fills the payload from the positional argument, a file, or stdin.
func resolveInput(args []string, opts *encodeOpts, popts *pipeline.Options) error {
	if opts.input != "" {
		data, err := readInput(opts.input)
		if err != nil {
			return err
		}
		popts.Bytes = data
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no payload: pass text as an argument or use --input")
	}
	popts.Text = args[0]
	return nil
}

// readInput reads payload bytes from a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

// payloadLen returns the payload length in bytes for progress reporting.
func payloadLen(popts pipeline.Options) int {
	if popts.Bytes != nil {
		return len(popts.Bytes)
	}
	return len(popts.Text)
}

// writeArtifacts writes text formats to stdout and file formats to disk.
func (c *CLI) writeArtifacts(result *pipeline.Result, opts *encodeOpts) error {
	var fileFormats []string
	for _, format := range opts.formats {
		if pipeline.TextFormats[format] {
			fmt.Println(string(result.Artifacts[format]))
		} else {
			fileFormats = append(fileFormats, format)
		}
	}
	if opts.output != "" && len(fileFormats) == 0 {
		printWarning("--output ignored: all requested formats write to stdout")
	}

	for _, format := range fileFormats {
		path := artifactPath(opts.output, format, len(fileFormats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.Version, result.Stats.Size, result.Stats.DarkCount, result.CacheInfo.AllHit())
	return nil
}

// artifactPath derives the output path for a file format.
// With a single file format, an explicit --output is used verbatim.
// Otherwise the format extension is appended to the base path.
func artifactPath(output, format string, multiple bool) string {
	if output == "" {
		return defaultOutputBase + "." + format
	}
	if !multiple {
		return output
	}
	base := strings.TrimSuffix(output, filepath.Ext(output))
	return base + "." + format
}
