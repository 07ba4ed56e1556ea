// Command build-site refreshes the data file and assembles the deployable
// static site.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/ksa-population/internal/app"
	"github.com/Sternrassler/ksa-population/internal/config"
	"github.com/Sternrassler/ksa-population/pkg/logging"
	"github.com/Sternrassler/ksa-population/pkg/site"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(logging.ConfigFromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("Build failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	log.Info().Msg("[1/2] Fetching data from DataSaudi API")
	if _, err := app.Fetch(ctx, cfg); err != nil {
		return fmt.Errorf("fetch data: %w", err)
	}

	log.Info().Msg("[2/2] Assembling static site")
	files, err := site.Build(ctx, cfg.Site())
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}

	log.Info().Str("dir", cfg.DistDir).Strs("files", files).Msg("Build complete")
	return nil
}
