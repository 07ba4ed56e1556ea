package cache

import (
	"net/url"
	"testing"
)

func TestCacheKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  CacheKey
		want string
	}{
		{
			name: "cube without params",
			key: CacheKey{
				Cube: "gastat_detailed_population",
			},
			want: "tesseract:gastat_detailed_population",
		},
		{
			name: "query params sorted",
			key: CacheKey{
				Cube: "gastat_detailed_population",
				QueryParams: url.Values{
					"locale":   []string{"ar"},
					"limit":    []string{"500,1000"},
					"measures": []string{"Population"},
				},
			},
			want: "tesseract:gastat_detailed_population:limit=500,1000:locale=ar:measures=Population",
		},
		{
			name: "cube param is not repeated",
			key: CacheKey{
				Cube: "gastat_population_province_sex_nationality",
				QueryParams: url.Values{
					"cube":    []string{"gastat_population_province_sex_nationality"},
					"include": []string{"Year:2024"},
				},
			},
			want: "tesseract:gastat_population_province_sex_nationality:include=Year:2024",
		},
		{
			name: "host precedes cube",
			key: CacheKey{
				Host:        "API.datasaudi.sa",
				Cube:        "gastat_detailed_population",
				QueryParams: url.Values{"limit": []string{"500,0"}},
			},
			want: "tesseract:api.datasaudi.sa:gastat_detailed_population:limit=500,0",
		},
		{
			name: "empty key",
			key:  CacheKey{},
			want: "tesseract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	params := url.Values{
		"drilldowns": []string{"Geography Province,Sex,Year,Nationality,Age Range"},
		"measures":   []string{"Population"},
		"locale":     []string{"ar"},
		"limit":      []string{"500,0"},
	}
	key := CacheKey{Cube: "gastat_detailed_population", QueryParams: params}

	first := key.String()
	for i := 0; i < 20; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q != %q", got, first)
		}
	}
}

func TestCacheKey_DistinctPages(t *testing.T) {
	a := CacheKey{Cube: "c", QueryParams: url.Values{"limit": []string{"500,0"}}}
	b := CacheKey{Cube: "c", QueryParams: url.Values{"limit": []string{"500,500"}}}

	if a.String() == b.String() {
		t.Errorf("different pages produced the same key %q", a.String())
	}
}

func TestCacheKey_DistinctHosts(t *testing.T) {
	params := url.Values{"limit": []string{"500,0"}}
	prod := CacheKey{Host: "api.datasaudi.sa", Cube: "c", QueryParams: params}
	staging := CacheKey{Host: "staging.datasaudi.sa", Cube: "c", QueryParams: params}

	if prod.String() == staging.String() {
		t.Errorf("keys for different hosts collide: %q", prod.String())
	}
}
