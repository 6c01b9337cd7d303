package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/nnaakkaaii/alpha2048/internal/config"
	"github.com/nnaakkaaii/alpha2048/internal/domain"
)

// WinningTile はこの値に到達したら勝ちとみなす
const WinningTile = 2048

// milestoneTiles は到達手数を記録するタイル
var milestoneTiles = []int{1024, 2048, 4096, 8192, 16384}

// Result は1ゲームの結果
type Result struct {
	Score   int  `yaml:"score"`
	Moves   int  `yaml:"moves"`
	MaxTile int  `yaml:"max_tile"`
	Won     bool `yaml:"won"`
	// Milestones はタイル値 → 初めて出現した手数
	Milestones map[int]int `yaml:"milestones,omitempty"`
}

// AutoPlay は自動でゲームをプレイする
func AutoPlay(ctx context.Context, w io.Writer, rng domain.Random, cfg *config.Config) (Result, error) {
	logger := zerolog.Ctx(ctx)
	solver, err := cfg.NewSolver()
	if err != nil {
		return Result{}, err
	}

	game := domain.NewGame(rng)
	res := Result{Milestones: make(map[int]int)}
	verbose := !cfg.Quiet

	if verbose {
		fmt.Fprintln(w, "=== 2048 AutoPlay ===")
		fmt.Fprintf(w, "Depth: %d, Adaptive: %v, Policy: %s, Evaluator: %s\n\n",
			cfg.Depth, cfg.AdaptiveDepth, cfg.ChancePolicy, cfg.Evaluator)
	}

	for !game.IsTerminal() {
		if err := ctx.Err(); err != nil {
			fillResult(&res, game)
			return res, err
		}
		if verbose {
			fmt.Fprint(w, game.Board())
			fmt.Fprintf(w, "Score: %d, Moves: %d\n", game.Score(), game.Moves())
		}

		depth := cfg.DepthFor(game.Board())
		dir, err := solver.WithDepth(depth).BestMove(game.Board())
		if err != nil {
			// IsTerminalを確認済みなので通常は起きない
			fillResult(&res, game)
			return res, fmt.Errorf("choosing move %d: %w", game.Moves()+1, err)
		}

		if verbose {
			fmt.Fprintf(w, "Move: %s\n\n", dir)
		}

		mv := game.Apply(dir)
		if !mv.Changed {
			fillResult(&res, game)
			return res, fmt.Errorf("solver chose illegal move %s", dir)
		}
		recordMilestones(res.Milestones, game)
		logger.Debug().
			Int("move", game.Moves()).
			Str("dir", dir.String()).
			Int("depth", depth).
			Int("delta", mv.ScoreDelta).
			Int("score", game.Score()).
			Msg("autoplay-move")

		if cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Delay):
			}
		}
	}

	fillResult(&res, game)

	// 最終結果は常に表示
	fmt.Fprint(w, game.Board())
	fmt.Fprintln(w, "=== Game Over ===")
	fmt.Fprintf(w, "Final Score: %d\n", res.Score)
	fmt.Fprintf(w, "Total Moves: %d\n", res.Moves)
	fmt.Fprintf(w, "Max Tile: %d\n", res.MaxTile)
	fmt.Fprintf(w, "Win: %v\n", res.Won)
	if m, ok := res.Milestones[WinningTile]; ok {
		fmt.Fprintf(w, "%d tile achieved at move %d\n", WinningTile, m)
	}

	logger.Info().
		Int("score", res.Score).
		Int("moves", res.Moves).
		Int("max-tile", res.MaxTile).
		Bool("won", res.Won).
		Msg("game-over")

	return res, nil
}

func recordMilestones(m map[int]int, game *domain.Game) {
	top := game.MaxTile()
	for _, tile := range milestoneTiles {
		if top < tile {
			return
		}
		if _, ok := m[tile]; !ok {
			m[tile] = game.Moves()
		}
	}
}

func fillResult(res *Result, game *domain.Game) {
	res.Score = game.Score()
	res.Moves = game.Moves()
	res.MaxTile = game.MaxTile()
	res.Won = res.MaxTile >= WinningTile
}
