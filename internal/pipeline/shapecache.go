package pipeline

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/cityforge/meshgen/internal/mesh"
	"github.com/cityforge/meshgen/internal/texture"
)

// shapeKeyPrecision is the decimal rounding that merges near-identical
// footprints onto one key.
const shapeKeyPrecision = 3

// ShapeKey fingerprints a building by its planar bounding dimensions (larger
// first) and height, each rounded to three decimal places. Equality is exact
// on the rounded values.
type ShapeKey struct {
	MaxExtent float64
	MinExtent float64
	Height    float64
}

// ShapeKeyFor derives the key from a mesh's planar bounding box and height.
func ShapeKeyFor(m *mesh.Mesh) ShapeKey {
	maxExtent, minExtent := m.PlanarExtents()
	return ShapeKey{
		MaxExtent: roundPlaces(maxExtent, shapeKeyPrecision),
		MinExtent: roundPlaces(minExtent, shapeKeyPrecision),
		Height:    roundPlaces(m.Height(), shapeKeyPrecision),
	}
}

// String renders the key for logging and single-flight grouping.
func (k ShapeKey) String() string {
	return fmt.Sprintf("%.3fx%.3fx%.3f", k.MaxExtent, k.MinExtent, k.Height)
}

func roundPlaces(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// ShapeCache deduplicates texture synthesis across geometrically
// interchangeable footprints. Entries live for one batch run; the cache is
// owned by the run and never persisted. Per-key access goes through a
// single-flight group so parallel callers with the same signature trigger
// at most one synthesis.
type ShapeCache struct {
	mu      sync.Mutex
	entries map[ShapeKey]*texture.Result
	group   singleflight.Group
}

// NewShapeCache returns an empty cache.
func NewShapeCache() *ShapeCache {
	return &ShapeCache{entries: make(map[ShapeKey]*texture.Result)}
}

// GetOrCreate returns the cached result for key, or invokes create and
// stores its result. The second return reports a cache hit (including a
// result shared from a concurrent in-flight create). A failed create caches
// nothing.
func (c *ShapeCache) GetOrCreate(key ShapeKey, create func() (*texture.Result, error)) (*texture.Result, bool, error) {
	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return res, true, nil
	}
	c.mu.Unlock()

	created := false
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		if res, ok := c.entries[key]; ok {
			c.mu.Unlock()
			return res, nil
		}
		c.mu.Unlock()

		res, err := create()
		if err != nil {
			return nil, err
		}
		created = true

		c.mu.Lock()
		c.entries[key] = res
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*texture.Result), !created, nil
}

// Len returns the number of distinct shape signatures seen so far.
func (c *ShapeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
