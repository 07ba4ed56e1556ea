// Package config reads the commands' settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Sternrassler/ksa-population/pkg/cache"
	"github.com/Sternrassler/ksa-population/pkg/client"
	"github.com/Sternrassler/ksa-population/pkg/dataset"
	"github.com/Sternrassler/ksa-population/pkg/fetcher"
	"github.com/Sternrassler/ksa-population/pkg/pagination"
	"github.com/Sternrassler/ksa-population/pkg/site"
)

// Config is the full runtime configuration.
type Config struct {
	APIBaseURL   string
	UserAgent    string
	NationalYear int
	DetailedYear int
	PageSize     int

	OutputPath  string
	TemplateDir string
	DistDir     string

	// RedisAddr enables the response cache when set.
	RedisAddr string
	CacheTTL  time.Duration

	// PushgatewayURL enables pushing run metrics when set.
	PushgatewayURL string

	Port string
}

// FromEnv builds a Config from environment variables, falling back to the
// defaults for anything unset.
func FromEnv() (Config, error) {
	siteDefaults := site.DefaultConfig()
	cfg := Config{
		APIBaseURL:     getEnv("KSA_API_BASE_URL", "https://api.datasaudi.sa"),
		UserAgent:      getEnv("KSA_USER_AGENT", "ksa-population/1.0"),
		OutputPath:     getEnv("KSA_OUTPUT_PATH", "static/data/population.json"),
		TemplateDir:    getEnv("KSA_TEMPLATE_DIR", siteDefaults.TemplateDir),
		DistDir:        getEnv("KSA_DIST_DIR", siteDefaults.OutputDir),
		RedisAddr:      os.Getenv("KSA_REDIS_ADDR"),
		PushgatewayURL: os.Getenv("KSA_PUSHGATEWAY_URL"),
		Port:           getEnv("PORT", "8080"),
	}

	var err error
	if cfg.NationalYear, err = getEnvInt("KSA_NATIONAL_YEAR", 2024); err != nil {
		return Config{}, err
	}
	if cfg.DetailedYear, err = getEnvInt("KSA_DETAILED_YEAR", 2022); err != nil {
		return Config{}, err
	}
	if cfg.PageSize, err = getEnvInt("KSA_PAGE_SIZE", pagination.DefaultPageSize); err != nil {
		return Config{}, err
	}
	if cfg.PageSize <= 0 {
		return Config{}, fmt.Errorf("KSA_PAGE_SIZE must be > 0 (got %d)", cfg.PageSize)
	}
	if cfg.CacheTTL, err = getEnvDuration("KSA_CACHE_TTL", cache.DefaultTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Client returns the tesseract client configuration, without a cache.
func (c Config) Client() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.APIBaseURL
	cc.UserAgent = c.UserAgent
	return cc
}

// Fetcher returns the fetcher configuration.
func (c Config) Fetcher() fetcher.Config {
	fc := fetcher.DefaultConfig()
	fc.NationalYear = c.NationalYear
	fc.Pagination.PageSize = c.PageSize
	return fc
}

// Metadata returns the provenance block written to the dataset.
func (c Config) Metadata() dataset.Metadata {
	return dataset.DefaultMetadata(c.APIBaseURL, c.NationalYear, c.DetailedYear)
}

// Site returns the site build configuration.
func (c Config) Site() site.Config {
	return site.Config{TemplateDir: c.TemplateDir, OutputDir: c.DistDir}
}

// Addr is the preview server listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, value)
	}
	return d, nil
}
