package config

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
)

// MapCache stores decompressed map blobs on disk keyed by
// crc32(blob)+len(blob), so a reconnect to the same save skips
// redownloading and reparsing the full map transfer.
type MapCache struct {
	dir     string
	disabled bool
}

// NewMapCache returns a MapCache rooted at cfg.MapCacheDir, or a
// disabled one if cfg.DisableMapCache is set.
func NewMapCache(cfg Config) *MapCache {
	return &MapCache{dir: cfg.MapCacheDir, disabled: cfg.DisableMapCache}
}

func (c *MapCache) key(blob []byte) string {
	sum := crc32.ChecksumIEEE(blob)
	return fmt.Sprintf("%08x-%d.bin", sum, len(blob))
}

// Get returns the cached decompressed payload for blob's raw bytes, if present.
func (c *MapCache) Get(blob []byte) ([]byte, bool) {
	if c.disabled || c.dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(c.dir, c.key(blob)))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores decompressed for blob's raw bytes, creating the cache dir
// as needed. Errors are swallowed — the cache is an optimization, not a
// correctness requirement.
func (c *MapCache) Put(blob, decompressed []byte) {
	if c.disabled || c.dir == "" {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(c.dir, c.key(blob)), decompressed, 0o644)
}
