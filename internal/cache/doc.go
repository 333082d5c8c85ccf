// Package cache provides a small generic LRU cache.
//
// Cache is safe for concurrent use. It backs the WGSL to GLSL translation
// cache of package shadersrc, where the same stage source is translated
// again on every reload even when it did not change:
//
//	c := cache.New[string, string](64)
//	glsl, err := c.GetOrCreate(src, func() (string, error) {
//		return translate(src)
//	})
//
// Failed creations are not cached.
package cache
