package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrStalled is returned when a page comes back empty before the reported
// total has been reached.
var ErrStalled = errors.New("pagination stalled")

// DefaultPageSize is the page size used against DataSaudi.
const DefaultPageSize = 500

// Config holds paginator configuration
type Config struct {
	// PageSize is the limit requested per page
	PageSize int
	// Timeout per page fetch
	Timeout time.Duration
}

// DefaultConfig returns the page size and timeout used against DataSaudi
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Timeout:  30 * time.Second,
	}
}

// Page is one page of results together with the total result-set size
type Page[T any] struct {
	Items []T
	Total int
}

// PageFetcher fetches a single page starting at offset
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, offset, limit int) (Page[T], error)
}

// PageFetcherFunc adapts a function to PageFetcher
type PageFetcherFunc[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, offset, limit int) (Page[T], error) {
	return f(ctx, offset, limit)
}

// Paginator walks a paged result set sequentially
type Paginator[T any] struct {
	fetcher PageFetcher[T]
	config  Config
	logger  zerolog.Logger
}

// NewPaginator creates a new paginator
func NewPaginator[T any](fetcher PageFetcher[T], config Config) *Paginator[T] {
	defaults := DefaultConfig()
	if config.PageSize <= 0 {
		config.PageSize = defaults.PageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &Paginator[T]{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "paginator").Logger(),
	}
}

// FetchAll requests pages until the accumulated item count reaches the
// total reported by the most recent page.
func (p *Paginator[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()

	var all []T
	offset := 0
	pages := 0

	for {
		page, err := p.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", offset, err)
		}
		pages++

		all = append(all, page.Items...)

		p.logger.Info().
			Int("fetched", len(all)).
			Int("total", page.Total).
			Int("page", pages).
			Msg("Fetch progress")

		if len(all) >= page.Total {
			break
		}
		if len(page.Items) == 0 {
			return nil, fmt.Errorf("%w: empty page at offset %d with %d/%d items fetched",
				ErrStalled, offset, len(all), page.Total)
		}

		offset += len(page.Items)
	}

	p.logger.Info().
		Int("items", len(all)).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return all, nil
}

func (p *Paginator[T]) fetchPage(ctx context.Context, offset int) (Page[T], error) {
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}

	pageCtx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	return p.fetcher.FetchPage(pageCtx, offset, p.config.PageSize)
}
