// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about encoding, rendering, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This keeps the core library free of observability framework imports and
// avoids import cycles: hooks are registered by main, not by libraries.
// Note the distinction from qr.Options.OnEncoded, which is a per-call
// observation of one result; hooks are process-wide instrumentation.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEncodeHooks(&myEncodeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Encode().OnEncodeStart(ctx, byteLen)
//	// ... encode ...
//	observability.Encode().OnEncodeComplete(ctx, version, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// EncodeHooks receives events from symbol generation and post-processing.
type EncodeHooks interface {
	// OnEncodeStart records the start of an encode with the payload length
	// in bytes.
	OnEncodeStart(ctx context.Context, payloadLen int)

	// OnEncodeComplete records a finished encode with the chosen version
	// and the post-processed symbol size.
	OnEncodeComplete(ctx context.Context, version, size int, duration time.Duration, err error)
}

// RenderHooks receives events from artifact rendering.
type RenderHooks interface {
	// OnRenderStart records the start of rendering for a set of formats.
	OnRenderStart(ctx context.Context, formats []string)

	// OnRenderComplete records finished rendering.
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopEncodeHooks is a no-op implementation of EncodeHooks.
type NoopEncodeHooks struct{}

func (NoopEncodeHooks) OnEncodeStart(context.Context, int)                               {}
func (NoopEncodeHooks) OnEncodeComplete(context.Context, int, int, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopRenderHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	encodeHooks EncodeHooks = NoopEncodeHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetEncodeHooks registers custom encode hooks.
// This should be called once at application startup.
func SetEncodeHooks(h EncodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		encodeHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Encode returns the registered encode hooks.
func Encode() EncodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return encodeHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	encodeHooks = NoopEncodeHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
}
