package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/nnaakkaaii/alpha2048/internal/config"
	"github.com/nnaakkaaii/alpha2048/internal/domain"
	"github.com/nnaakkaaii/alpha2048/internal/usecase"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load("autoplay", os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.SetupLogging(os.Stderr)
	logger.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if cfg.Games == 1 && cfg.Report == "" {
		var rng domain.Random = usecase.SecureRandom{}
		if cfg.Seed != 0 {
			rng = rand.New(rand.NewSource(cfg.Seed))
		}
		if _, err := usecase.AutoPlay(ctx, os.Stdout, rng, cfg); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatal().Err(err).Msg("autoplay")
		}
		return
	}

	summary, err := usecase.RunBatch(ctx, cfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("batch")
	}

	if err := writeReport(cfg.Report, summary); err != nil {
		logger.Fatal().Err(err).Msg("writing report")
	}
	logger.Info().
		Int("games", summary.Games).
		Float64("mean-score", summary.MeanScore).
		Float64("win-rate", summary.WinRate).
		Msg("batch-done")
}

// writeReport writes the YAML report to path, or to stdout when path is empty.
func writeReport(path string, summary usecase.Summary) error {
	if path == "" {
		return usecase.WriteReport(os.Stdout, summary)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := usecase.WriteReport(f, summary); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
