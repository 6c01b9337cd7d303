package domain

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// ヒューリスティックの重み（固定値。探索アルゴリズムとは独立に調整できる）
const (
	EmptyCellsWeight   = 2.7
	MonotonicityWeight = 1.0
	SmoothnessWeight   = 0.1
	CornerWeight       = 1.0
	MergeableWeight    = 0.7
)

// Evaluator はBoardを評価してスコアを返すインターフェース
type Evaluator interface {
	Evaluate(b Board) float64
}

// Weights はNewHeuristicEvaluatorWithWeightsに渡す各成分の重み
type Weights struct {
	Empty        float64 `mapstructure:"empty" yaml:"empty"`
	Monotonicity float64 `mapstructure:"monotonicity" yaml:"monotonicity"`
	Smoothness   float64 `mapstructure:"smoothness" yaml:"smoothness"`
	Corner       float64 `mapstructure:"corner" yaml:"corner"`
	Mergeable    float64 `mapstructure:"mergeable" yaml:"mergeable"`
}

// DefaultWeights は定数の重みを返す
func DefaultWeights() Weights {
	return Weights{
		Empty:        EmptyCellsWeight,
		Monotonicity: MonotonicityWeight,
		Smoothness:   SmoothnessWeight,
		Corner:       CornerWeight,
		Mergeable:    MergeableWeight,
	}
}

// NewHeuristicEvaluator は標準の重みで各評価関数を組み合わせる
func NewHeuristicEvaluator() *WeightedEvaluator {
	return NewHeuristicEvaluatorWithWeights(DefaultWeights())
}

// NewHeuristicEvaluatorWithWeights は指定した重みで各評価関数を組み合わせる
func NewHeuristicEvaluatorWithWeights(w Weights) *WeightedEvaluator {
	return NewWeightedEvaluator(
		[]Evaluator{
			&EmptyCellsEvaluator{},
			&MonotonicityEvaluator{},
			&SmoothnessEvaluator{},
			&CornerBonusEvaluator{},
			&MergeableEvaluator{},
		},
		[]float64{w.Empty, w.Monotonicity, w.Smoothness, w.Corner, w.Mergeable},
	)
}

// EvaluatorByName は設定値から評価関数を選ぶ
func EvaluatorByName(name string, w Weights) (Evaluator, error) {
	switch name {
	case "", "heuristic":
		return NewHeuristicEvaluatorWithWeights(w), nil
	case "snake":
		return &SnakePatternEvaluator{}, nil
	case "maxtile":
		return &MaxTileEvaluator{}, nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", name)
}

// WeightedEvaluator は複数のEvaluatorを係数付きで組み合わせる
type WeightedEvaluator struct {
	evaluators []Evaluator
	weights    []float64
}

// NewWeightedEvaluator は係数付きEvaluatorを生成する
func NewWeightedEvaluator(evaluators []Evaluator, weights []float64) *WeightedEvaluator {
	if len(evaluators) != len(weights) {
		panic("evaluators and weights must have the same length")
	}
	return &WeightedEvaluator{
		evaluators: evaluators,
		weights:    weights,
	}
}

// Evaluate は全てのEvaluatorの重み付き和を返す
func (w *WeightedEvaluator) Evaluate(b Board) float64 {
	return lo.SumBy(lo.Range(len(w.evaluators)), func(i int) float64 {
		return w.weights[i] * w.evaluators[i].Evaluate(b)
	})
}

// rank はタイル値のlog2（空きマスは0）
func rank(v int) float64 {
	if v == 0 {
		return 0
	}
	return math.Log2(float64(v))
}

// EmptyCellsEvaluator は空きマス数で評価する
type EmptyCellsEvaluator struct{}

func (e *EmptyCellsEvaluator) Evaluate(b Board) float64 {
	return float64(b.CountEmpty())
}

// MonotonicityEvaluator は単調性で評価する
// 各行・各列で増加方向と減少方向の逆転量を求め、小さい方をペナルティとして負にして返す
type MonotonicityEvaluator struct{}

func (e *MonotonicityEvaluator) Evaluate(b Board) float64 {
	penalty := 0.0
	for i := 0; i < Size; i++ {
		var row, col [Size]int
		for j := 0; j < Size; j++ {
			row[j] = b.Get(i, j)
			col[j] = b.Get(j, i)
		}
		penalty += lineInversion(row) + lineInversion(col)
	}
	return -penalty
}

// lineInversion は1行が単調でない度合い（どちら向きでも単調なら0）
func lineInversion(line [Size]int) float64 {
	inc, dec := 0.0, 0.0
	for i := 0; i+1 < Size; i++ {
		a, b := rank(line[i]), rank(line[i+1])
		if a > b {
			dec += a - b
		} else {
			inc += b - a
		}
	}
	return math.Min(inc, dec)
}

// SmoothnessEvaluator は隣接タイルの値の差で評価する（差が小さいほど高評価）
type SmoothnessEvaluator struct{}

func (e *SmoothnessEvaluator) Evaluate(b Board) float64 {
	penalty := 0.0

	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v == 0 {
				continue
			}
			// 右隣
			if c+1 < Size {
				if right := b.Get(r, c+1); right != 0 {
					penalty += math.Abs(rank(v) - rank(right))
				}
			}
			// 下隣
			if r+1 < Size {
				if down := b.Get(r+1, c); down != 0 {
					penalty += math.Abs(rank(v) - rank(down))
				}
			}
		}
	}

	// ペナルティなので負の値を返す（小さいほど良い → 大きいスコア）
	return -penalty
}

// CornerBonusEvaluator は最大タイルが角にあると高評価、辺にあれば半分
type CornerBonusEvaluator struct{}

func (e *CornerBonusEvaluator) Evaluate(b Board) float64 {
	maxVal := b.MaxTile()
	if maxVal == 0 {
		return 0
	}

	// 最大タイルが複数ある場合は最も良い位置を採用する
	best := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.Get(r, c) != maxVal {
				continue
			}
			rowEdge := r == 0 || r == Size-1
			colEdge := c == 0 || c == Size-1
			switch {
			case rowEdge && colEdge:
				best = math.Max(best, 1.0)
			case rowEdge || colEdge:
				best = math.Max(best, 0.5)
			}
		}
	}
	return best * rank(maxVal)
}

// MergeableEvaluator は隣接する同じ値のペア数で評価する
type MergeableEvaluator struct{}

func (e *MergeableEvaluator) Evaluate(b Board) float64 {
	count := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b.Get(r, c)
			if v == 0 {
				continue
			}
			// 右隣
			if c+1 < Size && b.Get(r, c+1) == v {
				count++
			}
			// 下隣
			if r+1 < Size && b.Get(r+1, c) == v {
				count++
			}
		}
	}
	return count
}

// SnakePatternEvaluator はスネークパターンに沿った配置を高評価
type SnakePatternEvaluator struct{}

// スネークパターンの重み（左上から蛇状に降順）
var snakeWeights = [Size][Size]float64{
	{15, 14, 13, 12},
	{8, 9, 10, 11},
	{7, 6, 5, 4},
	{0, 1, 2, 3},
}

// snakePatterns は4つの回転とその水平反転
var snakePatterns = func() [][Size][Size]float64 {
	patterns := make([][Size][Size]float64, 0, 8)
	w := snakeWeights
	for i := 0; i < 4; i++ {
		patterns = append(patterns, w)
		w = rotateWeights(w)
	}
	for i := 0; i < 4; i++ {
		patterns = append(patterns, flipHorizontal(patterns[i]))
	}
	return patterns
}()

func (e *SnakePatternEvaluator) Evaluate(b Board) float64 {
	return lo.Max(lo.Map(snakePatterns, func(p [Size][Size]float64, _ int) float64 {
		score := 0.0
		for r := 0; r < Size; r++ {
			for c := 0; c < Size; c++ {
				score += p[r][c] * rank(b.Get(r, c))
			}
		}
		return score
	}))
}

func rotateWeights(w [Size][Size]float64) [Size][Size]float64 {
	var result [Size][Size]float64
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			result[c][Size-1-r] = w[r][c]
		}
	}
	return result
}

func flipHorizontal(w [Size][Size]float64) [Size][Size]float64 {
	var result [Size][Size]float64
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			result[r][Size-1-c] = w[r][c]
		}
	}
	return result
}

// MaxTileEvaluator は最大タイルの値（log2）で評価する
type MaxTileEvaluator struct{}

func (e *MaxTileEvaluator) Evaluate(b Board) float64 {
	return rank(b.MaxTile())
}
