// Command serve-site serves the built site for local preview.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/ksa-population/internal/config"
	"github.com/Sternrassler/ksa-population/pkg/logging"
	"github.com/Sternrassler/ksa-population/pkg/server"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(logging.ConfigFromEnv())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("Server failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.DistDir); err != nil {
		log.Warn().Str("dir", cfg.DistDir).Msg("Site directory missing, run build-site first")
	}

	log.Info().
		Str("url", "http://localhost"+cfg.Addr()).
		Str("dir", cfg.DistDir).
		Msg("Serving site, press Ctrl+C to stop")
	return server.Run(ctx, server.New(cfg.Addr(), server.NewRouter(cfg.DistDir)))
}
