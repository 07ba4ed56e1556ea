package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies one cached API response.
type CacheKey struct {
	// Host is the API host the response came from (e.g., "api.datasaudi.sa")
	Host string

	// Cube is the tesseract cube name (e.g., "gastat_detailed_population")
	Cube string

	// QueryParams are the full request query parameters, including limit
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: tesseract:host:cube:query1=val1:query2=val2
//
// Example:
//
//	tesseract:api.datasaudi.sa:gastat_detailed_population:limit=500,0:locale=ar
func (k CacheKey) String() string {
	parts := []string{"tesseract"}

	if host := strings.ToLower(strings.TrimSpace(k.Host)); host != "" {
		parts = append(parts, host)
	}

	if cube := strings.TrimSpace(k.Cube); cube != "" {
		parts = append(parts, cube)
	}

	// Query params sorted for determinism; "cube" is already part of the key.
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			if key == "cube" {
				continue
			}
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(k.QueryParams[key], ",")))
		}
	}

	return strings.Join(parts, ":")
}
