package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nnaakkaaii/alpha2048/internal/domain"
)

// PlayGame はCLIで2048ゲームを実行する
// solver は h（ヒント）と 1（AIに1手打たせる）で使う
func PlayGame(ctx context.Context, r io.Reader, w io.Writer, rng domain.Random, solver *domain.Solver) error {
	logger := zerolog.Ctx(ctx)
	game := domain.NewGame(rng)
	lines := readLines(ctx, r)

	fmt.Fprintln(w, "=== 2048 ===")
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, h=Hint, 1=AI move, n=New game, q=Quit")
	fmt.Fprintln(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(w, game.Board())
		fmt.Fprintf(w, "Score: %d\n", game.Score())

		if game.IsTerminal() {
			fmt.Fprintln(w, "Game Over!")
			logger.Info().Int("score", game.Score()).Int("moves", game.Moves()).Msg("game-over")
			return nil
		}

		fmt.Fprint(w, "Move: ")
		var line readResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line = <-lines:
		}
		if line.err != nil {
			if errors.Is(line.err, io.EOF) {
				return nil
			}
			return line.err
		}

		input := strings.TrimSpace(strings.ToLower(line.text))
		switch input {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return nil
		case "n":
			game.Reset()
			fmt.Fprintln(w, "New game.")
			fmt.Fprintln(w)
			continue
		case "h", "1":
			dir, err := solver.BestMove(game.Board())
			if err != nil {
				fmt.Fprintln(w, "No valid moves available!")
				continue
			}
			if input == "h" {
				fmt.Fprintf(w, "Hint: %s\n\n", dir)
				continue
			}
			fmt.Fprintf(w, "AI plays %s\n", dir)
			game.Apply(dir)
			fmt.Fprintln(w)
			continue
		}

		dir, ok := parseKey(input)
		if !ok {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, h, 1, n or q.")
			continue
		}

		if !game.Apply(dir).Changed {
			fmt.Fprintln(w, "Cannot move in that direction.")
		}
		fmt.Fprintln(w)
	}
}

// parseKey はwasdのキーを方向に変換する
func parseKey(input string) (domain.Direction, bool) {
	switch input {
	case "w":
		return domain.Up, true
	case "s":
		return domain.Down, true
	case "a":
		return domain.Left, true
	case "d":
		return domain.Right, true
	default:
		return 0, false
	}
}

type readResult struct {
	text string
	err  error
}

// readLines は r を1行ずつ読んで送る（ctxが終わると送信をやめる）
func readLines(ctx context.Context, r io.Reader) <-chan readResult {
	lines := make(chan readResult)
	go func() {
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			select {
			case lines <- readResult{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}
