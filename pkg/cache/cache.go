// Package cache provides pluggable caching for rendered QR artifacts.
//
// Rendering is cheap for a single symbol but the HTTP service renders the
// same payloads over and over; caching finished artifacts keyed by payload
// and render options avoids recomputing identical output. Three backends
// are provided:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared cache for the HTTP service
//   - NullCache: caching disabled
//
// Keys are produced by a Keyer so that every consumer hashes the same
// option set in the same way; ScopedKeyer adds a namespace prefix when one
// process serves multiple tenants.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached. Artifacts are
// deterministic for a given key, so the TTL only bounds disk usage.
const TTLArtifact = 7 * 24 * time.Hour

// Cache stores rendered artifacts by key.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// ArtifactKeyOpts captures every option that changes rendered output.
// Two renders with equal payload hash and equal opts produce identical
// artifacts.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	ECC        string `json:"ecc"`
	Boost      bool   `json:"boost,omitempty"`
	MinVersion int    `json:"min_version,omitempty"`
	MaxVersion int    `json:"max_version,omitempty"`
	Mask       int    `json:"mask,omitempty"`
	Border     int    `json:"border,omitempty"`
	Invert     bool   `json:"invert,omitempty"`
	PixelSize  int    `json:"pixel_size,omitempty"`
	WhiteColor string `json:"white_color,omitempty"`
	BlackColor string `json:"black_color,omitempty"`
	WhiteChar  string `json:"white_char,omitempty"`
	BlackChar  string `json:"black_char,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey generates a key for a rendered artifact from the payload
	// hash and the options that shaped the output.
	ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", payloadHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. when
// one Redis instance backs several deployments.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. The prefix is prepended to
// all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(payloadHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(payloadHash, opts)
}
