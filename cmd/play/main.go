package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nnaakkaaii/alpha2048/internal/config"
	"github.com/nnaakkaaii/alpha2048/internal/usecase"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load("play", os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.SetupLogging(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	solver, err := cfg.NewSolver()
	if err != nil {
		logger.Fatal().Err(err).Msg("building solver")
	}
	err = usecase.PlayGame(ctx, os.Stdin, os.Stdout, usecase.SecureRandom{}, solver)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("play")
	}
}
