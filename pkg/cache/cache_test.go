package cache

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestFileCacheRoundtrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before set
	if _, hit, _ := c.Get(ctx, "artifact"); hit {
		t.Error("unexpected hit before Set")
	}

	value := []byte("<svg/>")
	if err := c.Set(ctx, "artifact", value, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "artifact")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if !bytes.Equal(data, value) {
		t.Errorf("data = %q, want %q", data, value)
	}

	// Delete removes the entry; deleting again is not an error.
	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "artifact"); hit {
		t.Error("unexpected hit after Delete")
	}
	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Errorf("second Delete error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should be a miss")
	}

	// ttl of zero means no expiration.
	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if err := c.Set(ctx, "key", []byte("valid"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	// Overwrite the entry file with garbage.
	fc := c.(*FileCache)
	if err := writeGarbage(fc.path("key")); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	// A corrupt entry reads as a miss, not an error.
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("corrupt entry should be a miss")
	}
}

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not json"), 0644)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := ArtifactKeyOpts{Format: "svg", ECC: "M", Border: 2}

	// Deterministic for equal inputs.
	if k.ArtifactKey("hash", opts) != k.ArtifactKey("hash", opts) {
		t.Error("keys should be deterministic")
	}

	// Every option that shapes output must change the key.
	base := k.ArtifactKey("hash", opts)
	variants := []ArtifactKeyOpts{
		{Format: "png", ECC: "M", Border: 2},
		{Format: "svg", ECC: "H", Border: 2},
		{Format: "svg", ECC: "M", Border: 4},
		{Format: "svg", ECC: "M", Border: 2, Invert: true},
		{Format: "svg", ECC: "M", Border: 2, PixelSize: 20},
		{Format: "svg", ECC: "M", Border: 2, BlackColor: "navy"},
	}
	for i, v := range variants {
		if k.ArtifactKey("hash", v) == base {
			t.Errorf("variant %d produced the same key", i)
		}
	}
	if k.ArtifactKey("other", opts) == base {
		t.Error("payload hash should change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant1:")
	opts := ArtifactKeyOpts{Format: "svg"}

	key := scoped.ArtifactKey("hash", opts)
	if key != "tenant1:"+inner.ArtifactKey("hash", opts) {
		t.Errorf("scoped key = %q, want prefixed inner key", key)
	}

	// A nil inner keyer falls back to the default.
	fallback := NewScopedKeyer(nil, "t:")
	if fallback.ArtifactKey("hash", opts) != "t:"+inner.ArtifactKey("hash", opts) {
		t.Error("nil inner should use the default keyer")
	}
}
