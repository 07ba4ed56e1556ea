// Package testutil provides a mock tesseract API server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DataPath mirrors the tesseract records endpoint.
const DataPath = "/tesseract/data.jsonrecords"

// MockResponse defines a canned response for a cube.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

type mockCube struct {
	rows  []map[string]any
	paged bool
}

// MockAPI is a configurable mock tesseract server. Cubes registered with
// SetCube are served from DataPath, paged by the "limit" parameter.
type MockAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	cubes     map[string]mockCube
	overrides map[string]MockResponse

	// MaxPageSize caps rows per page regardless of the requested limit,
	// simulating a server that returns short pages. 0 disables the cap.
	MaxPageSize int

	requests []url.Values
	lastUA   string
}

// NewMockAPI creates and starts a mock server.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		cubes:     make(map[string]mockCube),
		overrides: make(map[string]MockResponse),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears request tracking.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.lastUA = ""
}

// SetCube serves rows for cube. Paged cubes report page.total.
func (m *MockAPI) SetCube(cube string, rows []map[string]any, paged bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cubes[cube] = mockCube{rows: rows, paged: paged}
}

// SetResponse replaces every response for cube with resp.
func (m *MockAPI) SetResponse(cube string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[cube] = resp
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Requests returns the query parameters of every request, in order.
func (m *MockAPI) Requests() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]url.Values, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastUserAgent returns the User-Agent of the latest request.
func (m *MockAPI) LastUserAgent() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastUA
}

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	m.mu.Lock()
	m.requests = append(m.requests, query)
	m.lastUA = r.Header.Get("User-Agent")
	cubeName := query.Get("cube")
	override, hasOverride := m.overrides[cubeName]
	cube, hasCube := m.cubes[cubeName]
	maxPage := m.MaxPageSize
	m.mu.Unlock()

	if r.URL.Path != DataPath {
		http.NotFound(w, r)
		return
	}

	if hasOverride {
		if override.Delay > 0 {
			time.Sleep(override.Delay)
		}
		for k, v := range override.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(override.StatusCode)
		if override.Body != "" {
			w.Write([]byte(override.Body))
		}
		return
	}

	if !hasCube {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"error":"cube %q not found"}`, cubeName)
		return
	}

	limit, offset, err := parseLimit(query.Get("limit"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
		return
	}
	if limit == 0 {
		limit = len(cube.rows)
	}
	if maxPage > 0 && limit > maxPage {
		limit = maxPage
	}

	start := min(offset, len(cube.rows))
	end := min(start+limit, len(cube.rows))

	payload := map[string]any{"data": cube.rows[start:end]}
	if cube.paged {
		payload["page"] = map[string]int{
			"limit":  limit,
			"offset": offset,
			"total":  len(cube.rows),
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

// parseLimit decodes "<limit>,<offset>". An empty value means all rows.
func parseLimit(v string) (limit, offset int, err error) {
	if v == "" {
		return 0, 0, nil
	}
	parts := strings.SplitN(v, ",", 2)
	if limit, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid limit %q", v)
	}
	if len(parts) == 2 {
		if offset, err = strconv.Atoi(parts[1]); err != nil {
			return 0, 0, fmt.Errorf("invalid offset %q", v)
		}
	}
	return limit, offset, nil
}

// Arabic category labels used by the API for locale "ar".
const (
	Male       = "ذكور"
	Female     = "إناث"
	Total      = "الإجمالي"
	Saudi      = "سعودي"
	NonSaudi   = "غير سعودي"
	AllRegions = "الإجمالي"
)

// DetailRow builds a gastat_detailed_population row.
func DetailRow(province, sex, nationality, ageRange string, population int64) map[string]any {
	return map[string]any{
		"Geography Province": province,
		"Sex":                sex,
		"Year":               2022,
		"Nationality":        nationality,
		"Age Range":          ageRange,
		"Population":         population,
	}
}

// NationalRow builds a gastat_population_province_sex_nationality row.
func NationalRow(sex, nationality string, population int64) map[string]any {
	return map[string]any{
		"Province":    AllRegions,
		"Sex":         sex,
		"Year":        2024,
		"Nationality": nationality,
		"Population":  population,
	}
}

// NationalRows returns the nine national summary rows for the given values.
func NationalRows(saudiMale, saudiFemale, nonSaudiMale, nonSaudiFemale int64) []map[string]any {
	return []map[string]any{
		NationalRow(Male, Saudi, saudiMale),
		NationalRow(Female, Saudi, saudiFemale),
		NationalRow(Total, Saudi, saudiMale+saudiFemale),
		NationalRow(Male, NonSaudi, nonSaudiMale),
		NationalRow(Female, NonSaudi, nonSaudiFemale),
		NationalRow(Total, NonSaudi, nonSaudiMale+nonSaudiFemale),
		NationalRow(Male, Total, saudiMale+nonSaudiMale),
		NationalRow(Female, Total, saudiFemale+nonSaudiFemale),
		NationalRow(Total, Total, saudiMale+saudiFemale+nonSaudiMale+nonSaudiFemale),
	}
}

// GeneratedDetailRows returns n granular rows spread over a few provinces
// and the canonical age brackets, each with population 1.
func GeneratedDetailRows(n int) []map[string]any {
	provinces := []string{"منطقة الرياض", "منطقة مكة المكرمة", "المنطقة الشرقية"}
	ages := []string{"0 - 4", "5 - 9", "10 - 14", "15 - 19", "20 - 24", "80+"}
	sexes := []string{Male, Female}
	nats := []string{Saudi, NonSaudi}

	rows := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, DetailRow(
			provinces[i%len(provinces)],
			sexes[i%len(sexes)],
			nats[(i/2)%len(nats)],
			ages[i%len(ages)],
			1,
		))
	}
	return rows
}
