package usecase

import (
	"context"
	"io"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/nnaakkaaii/alpha2048/internal/config"
)

// Summary は複数ゲームの集計
type Summary struct {
	Seed        int64       `yaml:"seed"`
	Games       int         `yaml:"games"`
	MeanScore   float64     `yaml:"mean_score"`
	StdDevScore float64     `yaml:"stddev_score"`
	BestScore   int         `yaml:"best_score"`
	MeanMoves   float64     `yaml:"mean_moves"`
	WinRate     float64     `yaml:"win_rate"`
	MaxTiles    map[int]int `yaml:"max_tiles"` // 最大タイル → ゲーム数
	Results     []Result    `yaml:"results"`
}

// RunBatch はcfg.Games回のゲームをcfg.Workers並列で実行する
// 各ゲームは独立した盤面と乱数源（seed+i）を持つので結果はseedで再現できる
func RunBatch(ctx context.Context, cfg *config.Config) (Summary, error) {
	logger := zerolog.Ctx(ctx)
	seed := cfg.Seed
	if seed == 0 {
		seed = int64(frand.Uint64n(math.MaxInt64))
	}

	gameCfg := *cfg
	gameCfg.Quiet = true
	gameCfg.Delay = 0

	results := make([]Result, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range results {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(i)))
			r, err := AutoPlay(gctx, io.Discard, rng, &gameCfg)
			results[i] = r
			if err != nil {
				return err
			}
			logger.Info().Int("game", i).Int("score", r.Score).Int("max-tile", r.MaxTile).Msg("batch-game-done")
			return nil
		})
	}
	err := g.Wait()
	return Summarize(seed, results), err
}

// Summarize はゲーム結果を集計する
func Summarize(seed int64, results []Result) Summary {
	s := Summary{
		Seed:     seed,
		Games:    len(results),
		MaxTiles: lo.CountValuesBy(results, func(r Result) int { return r.MaxTile }),
		Results:  results,
	}
	if len(results) == 0 {
		return s
	}

	scores := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Score) })
	moves := lo.Map(results, func(r Result, _ int) float64 { return float64(r.Moves) })
	if len(scores) > 1 {
		s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	} else {
		s.MeanScore = scores[0]
	}
	s.MeanMoves = stat.Mean(moves, nil)
	s.BestScore = lo.MaxBy(results, func(a, b Result) bool { return a.Score > b.Score }).Score
	s.WinRate = float64(lo.CountBy(results, func(r Result) bool { return r.Won })) / float64(len(results))
	return s
}

// WriteReport は集計結果をYAMLで書き出す
func WriteReport(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
