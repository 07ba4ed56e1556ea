// Package cache provides a Redis-backed cache for tesseract API responses.
//
// Fetching the full detailed-population cube takes dozens of paginated
// requests. During site development the same pages are requested over and
// over, so the client can be given a cache manager that stores each page body
// under a deterministic key for a fixed TTL.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 24*time.Hour)
//
//	key := cache.CacheKey{
//		Host:        "api.datasaudi.sa",
//		Cube:        "gastat_detailed_population",
//		QueryParams: query.Values(),
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then
//		_ = manager.Store(ctx, key, body)
//	}
//
// # Metrics
//
//   - tesseract_cache_hits_total - Cache hits
//   - tesseract_cache_misses_total - Cache misses
//   - tesseract_cache_size_bytes - Bytes written to the cache
//   - tesseract_cache_errors_total{operation} - Cache operation errors
//
// Cache failures never fail a fetch; the client logs them and goes to the API.
package cache
