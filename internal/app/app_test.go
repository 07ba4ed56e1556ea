package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/Sternrassler/ksa-population/internal/config"
	"github.com/Sternrassler/ksa-population/internal/testutil"
)

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	return config.Config{
		APIBaseURL:   baseURL,
		UserAgent:    "ksa-population-test",
		NationalYear: 2024,
		DetailedYear: 2022,
		PageSize:     500,
		OutputPath:   filepath.Join(t.TempDir(), "population.json"),
	}
}

func TestFetch(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetCube("gastat_population_province_sex_nationality", testutil.NationalRows(1, 2, 3, 4), false)
	mock.SetCube("gastat_detailed_population", testutil.GeneratedDetailRows(12), true)

	var pushes atomic.Int32
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	cfg := testConfig(t, mock.URL())
	cfg.PushgatewayURL = gateway.URL

	d, err := Fetch(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if d.National.TotalPopulation != 10 {
		t.Errorf("TotalPopulation = %d, want 10", d.National.TotalPopulation)
	}
	if got := d.Provinces.Sum(); got != 12 {
		t.Errorf("province sum = %d, want 12", got)
	}
	if mock.LastUserAgent() != "ksa-population-test" {
		t.Errorf("User-Agent = %q", mock.LastUserAgent())
	}
	if pushes.Load() != 1 {
		t.Errorf("pushes = %d, want 1", pushes.Load())
	}
}

func TestFetch_PushesOnFailure(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()
	mock.SetResponse("gastat_population_province_sex_nationality", testutil.MockResponse{StatusCode: http.StatusBadGateway})

	var pushes atomic.Int32
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	cfg := testConfig(t, mock.URL())
	cfg.PushgatewayURL = gateway.URL

	_, err := Fetch(context.Background(), cfg)
	if err == nil {
		t.Fatal("Fetch() expected error")
	}
	if pushes.Load() != 1 {
		t.Errorf("pushes = %d, want 1", pushes.Load())
	}
}

func TestNewClient_UnreachableRedis(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	cfg.RedisAddr = "127.0.0.1:1"

	c, release, err := NewClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	defer release()
	if c == nil {
		t.Fatal("NewClient() returned nil client")
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "ftp://example.com")
	if _, _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() should reject a non-http base url")
	}

	cfg = testConfig(t, "http://localhost")
	cfg.UserAgent = ""
	if _, _, err := NewClient(context.Background(), cfg); err == nil {
		t.Fatal("NewClient() should require a user agent")
	}
}
