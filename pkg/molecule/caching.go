package molecule

import (
	"context"
	"os"
	"strconv"

	"github.com/virtualzx/molpack/pkg/cache"
	"github.com/virtualzx/molpack/pkg/observability"
)

// CachingConverter wraps a Converter with a content-addressed cache.
// Converted geometries and computed energies are keyed by the SHA-256 of
// their raw input plus format and force field, so cached entries survive
// renames and repeated sessions.
type CachingConverter struct {
	inner Converter
	cache cache.Cache
	keyer cache.Keyer
}

// NewCachingConverter wraps inner with c. If keyer is nil the default
// keyer is used; if c is nil the wrapper degrades to a passthrough.
func NewCachingConverter(inner Converter, c cache.Cache, keyer cache.Keyer) *CachingConverter {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachingConverter{inner: inner, cache: c, keyer: keyer}
}

// ConvertFile converts a structure file, reusing a cached result when the
// file content has been converted before.
func (c *CachingConverter) ConvertFile(ctx context.Context, path, format string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		// Let the inner converter produce its own error for consistency.
		return c.inner.ConvertFile(ctx, path, format)
	}

	key := c.keyer.GeometryKey(cache.Hash(content), format, "")
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "geometry")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "geometry")

	data, err := c.inner.ConvertFile(ctx, path, format)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, cache.TTLGeometry); err == nil {
		observability.Cache().OnCacheSet(ctx, "geometry", len(data))
	}
	return data, nil
}

// Embed3D generates 3-D coordinates for a SMILES string, reusing a cached
// embedding for the same string and force field.
func (c *CachingConverter) Embed3D(ctx context.Context, smiles, forceField string) ([]byte, error) {
	key := c.keyer.GeometryKey(cache.Hash([]byte(smiles)), "smi", forceField)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "geometry")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "geometry")

	data, err := c.inner.Embed3D(ctx, smiles, forceField)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, cache.TTLGeometry); err == nil {
		observability.Cache().OnCacheSet(ctx, "geometry", len(data))
	}
	return data, nil
}

// Energy computes a single-point energy, reusing a cached value for the
// same geometry content and force field.
func (c *CachingConverter) Energy(ctx context.Context, path, forceField string) (float64, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return c.inner.Energy(ctx, path, forceField)
	}

	key := c.keyer.EnergyKey(cache.Hash(content), forceField)
	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		if v, err := strconv.ParseFloat(string(data), 64); err == nil {
			observability.Cache().OnCacheHit(ctx, "energy")
			return v, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "energy")

	v, err := c.inner.Energy(ctx, path, forceField)
	if err != nil {
		return 0, err
	}
	data := strconv.FormatFloat(v, 'g', -1, 64)
	if err := c.cache.Set(ctx, key, []byte(data), cache.TTLEnergy); err == nil {
		observability.Cache().OnCacheSet(ctx, "energy", len(data))
	}
	return v, nil
}

// Ensure CachingConverter implements Converter.
var _ Converter = (*CachingConverter)(nil)
