package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chzyer/readline"

	"github.com/nnaakkaaii/alpha2048/internal/config"
	"github.com/nnaakkaaii/alpha2048/internal/usecase"
)

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load("analyze", os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.SetupLogging(os.Stderr)
	ctx := logger.WithContext(context.Background())

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32m2048>\033[0m ",
		HistoryFile:     "/tmp/alpha2048-analyze.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("starting readline")
	}
	defer l.Close()

	analyzer, err := usecase.NewAnalyzer(l.Stdout(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("building analyzer")
	}
	if err := analyzer.Loop(ctx, l); err != nil {
		logger.Fatal().Err(err).Msg("analyze")
	}
}
