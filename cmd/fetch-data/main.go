// Command fetch-data downloads the GASTAT population cubes and writes the
// site's data file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/ksa-population/internal/app"
	"github.com/Sternrassler/ksa-population/internal/config"
	"github.com/Sternrassler/ksa-population/pkg/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(logging.ConfigFromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("Fetch failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	log.Info().Str("api", cfg.APIBaseURL).Msg("KSA population data fetcher")
	if _, err := app.Fetch(ctx, cfg); err != nil {
		return err
	}
	log.Info().Str("output", cfg.OutputPath).Msg("Data saved")
	return nil
}
