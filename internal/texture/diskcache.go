package texture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/cityforge/meshgen/internal/logger"
)

// cacheVersion invalidates previously cached textures when the synthesis
// contract changes.
const cacheVersion = "no-placeholder"

// DiskCache wraps a Synthesizer with a content-addressed on-disk cache keyed
// by wall size and prompt metadata. A hit short-circuits the inner
// synthesizer entirely; a miss copies the inner result into the cache so
// later runs reuse it.
type DiskCache struct {
	dir   string
	inner Synthesizer
}

// NewDiskCache returns a caching synthesizer storing textures under dir.
func NewDiskCache(dir string, inner Synthesizer) *DiskCache {
	return &DiskCache{dir: dir, inner: inner}
}

// Synthesize implements Synthesizer.
func (c *DiskCache) Synthesize(ctx context.Context, req Request) (*Result, error) {
	key, err := contentKey(req)
	if err != nil {
		return nil, err
	}

	cached := Result{
		BaseColor: filepath.Join(c.dir, "base_"+key+".png"),
		Roughness: filepath.Join(c.dir, "roughness_"+key+".png"),
		Normal:    filepath.Join(c.dir, "normal_"+key+".png"),
	}
	if fileExists(cached.BaseColor) {
		logger.Debug("using cached textures", zap.String("key", key))
		if !fileExists(cached.Roughness) {
			cached.Roughness = ""
		}
		if !fileExists(cached.Normal) {
			cached.Normal = ""
		}
		return &cached, nil
	}

	res, err := c.inner.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return nil, err
	}
	out := &Result{}
	if out.BaseColor, err = copyChannel(res.BaseColor, cached.BaseColor); err != nil {
		return nil, fmt.Errorf("caching base color: %w", err)
	}
	if out.Roughness, err = copyChannel(res.Roughness, cached.Roughness); err != nil {
		return nil, fmt.Errorf("caching roughness: %w", err)
	}
	if out.Normal, err = copyChannel(res.Normal, cached.Normal); err != nil {
		return nil, fmt.Errorf("caching normal: %w", err)
	}
	return out, nil
}

// contentKey hashes the request's wall size and metadata. Map keys are
// sorted by the JSON encoder, so the digest is deterministic.
func contentKey(req Request) (string, error) {
	payload, err := json.Marshal(struct {
		Wall    [2]int            `json:"wall"`
		Meta    map[string]string `json:"meta"`
		Version string            `json:"version"`
	}{
		Wall:    [2]int{req.WallWidth, req.WallHeight},
		Meta:    req.Metadata,
		Version: cacheVersion,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// copyChannel copies an optional texture channel into the cache. An empty
// source stays empty.
func copyChannel(src, dst string) (string, error) {
	if src == "" {
		return "", nil
	}
	if src == dst {
		return dst, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", err
	}
	return dst, out.Close()
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
