// Package pipeline runs one fetch → aggregate → write cycle.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/ksa-population/pkg/dataset"
	"github.com/Sternrassler/ksa-population/pkg/logging"
	"github.com/Sternrassler/ksa-population/pkg/metrics"
	"github.com/Sternrassler/ksa-population/pkg/population"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	factory = promauto.With(metrics.Registry)

	recordsFetched = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ksa_population_records_fetched",
		Help: "Rows fetched in the last run by source",
	}, []string{"source"})

	provincesGauge = factory.NewGauge(prometheus.GaugeOpts{
		Name: "ksa_population_provinces",
		Help: "Provinces in the last written dataset",
	})

	ageGroupsGauge = factory.NewGauge(prometheus.GaugeOpts{
		Name: "ksa_population_age_groups",
		Help: "Age groups in the last written dataset",
	})

	lastSuccess = factory.NewGauge(prometheus.GaugeOpts{
		Name: "ksa_population_last_success_timestamp_seconds",
		Help: "Unix time of the last successfully written dataset",
	})
)

// Fetcher supplies the raw records.
type Fetcher interface {
	FetchNational(ctx context.Context) ([]population.Record, error)
	FetchDetailed(ctx context.Context) ([]population.Record, error)
}

// Config controls where the dataset goes and how it is labelled.
type Config struct {
	OutputPath string
	Metadata   dataset.Metadata
}

// Run fetches both sources, aggregates them and writes the dataset to
// cfg.OutputPath. Any failure aborts the run; the previous file is left
// untouched.
func Run(ctx context.Context, f Fetcher, cfg Config) (*dataset.Dataset, error) {
	if cfg.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}

	logger, _ := logging.WithRunID(logging.NewLogger("pipeline"))
	p := message.NewPrinter(language.English)
	start := time.Now()

	logger.Info().Str("output", cfg.OutputPath).Msg("Run started")

	national, err := f.FetchNational(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch national data: %w", err)
	}
	recordsFetched.WithLabelValues("national").Set(float64(len(national)))

	detailed, err := f.FetchDetailed(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch detailed data: %w", err)
	}
	recordsFetched.WithLabelValues("detailed").Set(float64(len(detailed)))

	summary := population.SummarizeNational(national)
	breakdown := population.SummarizeByProvinceAndAge(detailed)

	logger.Info().
		Str("total_population", p.Sprintf("%d", summary.TotalPopulation)).
		Str("saudi", p.Sprintf("%d", summary.Saudi.Total)).
		Str("non_saudi", p.Sprintf("%d", summary.NonSaudi.Total)).
		Msg("National summary")
	logger.Info().
		Int("provinces", breakdown.Provinces.Len()).
		Int("age_groups", breakdown.AgeGroups.Len()).
		Str("detailed_total", p.Sprintf("%d", breakdown.Provinces.Sum())).
		Msg("Detailed breakdown")

	d := &dataset.Dataset{
		National:  summary,
		Provinces: breakdown.Provinces,
		AgeGroups: breakdown.AgeGroups,
		Metadata:  cfg.Metadata,
	}
	if err := dataset.Write(cfg.OutputPath, d); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	provincesGauge.Set(float64(breakdown.Provinces.Len()))
	ageGroupsGauge.Set(float64(breakdown.AgeGroups.Len()))
	lastSuccess.SetToCurrentTime()

	logger.Info().
		Dur("duration", time.Since(start)).
		Str("output", cfg.OutputPath).
		Msg("Run complete")
	return d, nil
}
