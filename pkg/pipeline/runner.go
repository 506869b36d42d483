package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/qrframe/qrframe/pkg/cache"
	"github.com/qrframe/qrframe/pkg/observability"
	"github.com/qrframe/qrframe/pkg/qr"
	"github.com/qrframe/qrframe/pkg/qr/render"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete encode → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Encode. Never cached: symbol generation is pure CPU work
	// and cheaper than a cache round trip.
	encodeStart := time.Now()
	res, err := r.Encode(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.QR = res
	result.Stats.EncodeTime = time.Since(encodeStart)
	result.Stats.Version = res.Version
	result.Stats.Size = res.Size
	result.Stats.DarkCount = res.DarkCount()

	opts.Logger.Info("encoded symbol",
		"version", res.Version,
		"size", res.Size,
		"mask", res.Mask,
		"duration", result.Stats.EncodeTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.Hits = hits

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Encode generates the post-processed QR symbol for the given options.
func (r *Runner) Encode(ctx context.Context, opts Options) (*qr.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	input := opts.input()
	payloadLen := len(opts.Text)
	if opts.Bytes != nil {
		payloadLen = len(opts.Bytes)
	}

	start := time.Now()
	observability.Encode().OnEncodeStart(ctx, payloadLen)
	res, err := qr.Encode(input, opts.qrOptions())
	if err != nil {
		observability.Encode().OnEncodeComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	observability.Encode().OnEncodeComplete(ctx, res.Version, res.Size, time.Since(start), nil)
	return res, nil
}

// RenderWithCacheInfo renders all requested formats with per-format caching
// and returns a map of cache hits by format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *qr.Result, opts Options) (map[string][]byte, map[string]bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)

	payloadHash := opts.payloadHash()
	artifacts := make(map[string][]byte, len(opts.Formats))
	hits := make(map[string]bool, len(opts.Formats))

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(payloadHash, opts.artifactKeyOpts(format))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, cacheKey)
				artifacts[format] = data
				hits[format] = true
				continue
			}
			observability.Cache().OnCacheMiss(ctx, cacheKey)
		}

		data, err := RenderArtifact(res, format, opts)
		if err != nil {
			observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, nil, err
		}
		artifacts[format] = data
		hits[format] = false

		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, cacheKey, len(data))
	}

	observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *qr.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// RenderArtifact renders a single format without touching the cache.
func RenderArtifact(res *qr.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatUnicode:
		return []byte(render.Unicode(res, opts.Unicode)), nil
	case FormatCompact:
		return []byte(render.UnicodeCompact(res)), nil
	case FormatANSI:
		return []byte(render.ANSI(res, opts.ANSI)), nil
	case FormatSVG:
		return []byte(render.SVG(res, opts.SVG)), nil
	case FormatPNG:
		return render.PNG(res, opts.PNG)
	default:
		return nil, ValidateFormat(format)
	}
}

// applyLogger propagates the runner's logger to options that don't set one.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
