// Package fetcher retrieves the national summary and the detailed population
// rows from the DataSaudi tesseract API.
package fetcher

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sternrassler/ksa-population/pkg/client"
	"github.com/Sternrassler/ksa-population/pkg/pagination"
	"github.com/Sternrassler/ksa-population/pkg/population"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// nationalLimit is the single-page limit for the national cube, which only
// returns the 3x3 nationality/sex cross for one year.
const nationalLimit = 100

// Config selects the cubes and filters to fetch.
type Config struct {
	NationalCube string
	DetailedCube string
	Locale       string
	// NationalYear restricts the national cube to one year.
	NationalYear int
	Labels       population.Labels
	Pagination   pagination.Config
}

// DefaultConfig returns the GASTAT cubes used by the site.
func DefaultConfig() Config {
	return Config{
		NationalCube: "gastat_population_province_sex_nationality",
		DetailedCube: "gastat_detailed_population",
		Locale:       "ar",
		NationalYear: 2024,
		Labels:       population.ArabicLabels,
		Pagination:   pagination.DefaultConfig(),
	}
}

// Getter is the part of the tesseract client the fetcher needs.
type Getter interface {
	Get(ctx context.Context, q client.Query) (*client.Response, error)
}

// Fetcher issues the national and detailed queries and validates rows.
type Fetcher struct {
	api    Getter
	config Config
	logger zerolog.Logger
}

// New creates a Fetcher.
func New(api Getter, cfg Config) *Fetcher {
	return &Fetcher{
		api:    api,
		config: cfg,
		logger: log.With().Str("component", "fetcher").Logger(),
	}
}

// NationalQuery is the year-filtered, pre-aggregated national query.
func (f *Fetcher) NationalQuery() client.Query {
	return client.Query{
		Cube:       f.config.NationalCube,
		Locale:     f.config.Locale,
		Drilldowns: []string{"Province", "Sex", "Year", "Nationality"},
		Measures:   []string{"Population"},
		Include:    "Year:" + strconv.Itoa(f.config.NationalYear),
		Limit:      nationalLimit,
	}
}

// DetailedQuery is the unpaged detailed query; pages are applied per request.
func (f *Fetcher) DetailedQuery() client.Query {
	return client.Query{
		Cube:       f.config.DetailedCube,
		Locale:     f.config.Locale,
		Drilldowns: []string{"Geography Province", "Sex", "Year", "Nationality", "Age Range"},
		Measures:   []string{"Population"},
	}
}

// FetchNational returns the national summary rows in one request.
func (f *Fetcher) FetchNational(ctx context.Context) ([]population.Record, error) {
	q := f.NationalQuery()
	f.logger.Info().Int("year", f.config.NationalYear).Msg("Fetching national data")

	resp, err := f.api.Get(ctx, q)
	if err != nil {
		return nil, err
	}

	records, err := population.ParseRecords(resp.Data, population.NationalFields, f.config.Labels)
	if err != nil {
		return nil, client.NewMalformedError(q.Cube, err)
	}

	f.logger.Info().Int("rows", len(records)).Msg("National data fetched")
	return records, nil
}

// FetchDetailed pages through the detailed cube and returns every row.
func (f *Fetcher) FetchDetailed(ctx context.Context) ([]population.Record, error) {
	f.logger.Info().
		Int("page_size", f.config.Pagination.PageSize).
		Msg("Fetching detailed province data")

	p := pagination.NewPaginator[population.Record](f.detailPages(), f.config.Pagination)
	records, err := p.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	f.logger.Info().Int("rows", len(records)).Msg("Detailed data fetched")
	return records, nil
}

func (f *Fetcher) detailPages() pagination.PageFetcher[population.Record] {
	base := f.DetailedQuery()
	return pagination.PageFetcherFunc[population.Record](func(ctx context.Context, offset, limit int) (pagination.Page[population.Record], error) {
		resp, err := f.api.Get(ctx, base.WithPage(limit, offset))
		if err != nil {
			return pagination.Page[population.Record]{}, err
		}
		if resp.Page == nil {
			return pagination.Page[population.Record]{}, client.NewMalformedError(base.Cube,
				fmt.Errorf(`missing "page" block at offset %d`, offset))
		}

		records, err := population.ParseRecords(resp.Data, population.DetailedFields, f.config.Labels)
		if err != nil {
			return pagination.Page[population.Record]{}, client.NewMalformedError(base.Cube,
				fmt.Errorf("offset %d: %w", offset, err))
		}

		return pagination.Page[population.Record]{Items: records, Total: resp.Page.Total}, nil
	})
}
