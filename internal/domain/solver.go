package domain

import (
	"errors"
	"math"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/rs/zerolog/log"
)

// DefaultDepth は探索のデフォルト手数（プレイヤー層と出現層を合わせたply数）
const DefaultDepth = 5

// DefaultCacheSize は1回の探索で使う置換表のエントリ数
const DefaultCacheSize = 1 << 16

// ErrNoLegalMove は有効な手がない盤面で探索した場合に返される
var ErrNoLegalMove = errors.New("no legal move available")

// WeightedValue は出現層の子ノード1つの評価値と確率
type WeightedValue struct {
	Value float64
	Prob  float64
}

// ChancePolicy は出現層の子ノードの評価値をまとめる方法
type ChancePolicy interface {
	Combine(children []WeightedValue) float64
}

// Expectation は確率で重み付けした期待値（expectimax）
type Expectation struct{}

func (Expectation) Combine(children []WeightedValue) float64 {
	total := 0.0
	for _, ch := range children {
		total += ch.Prob * ch.Value
	}
	return total
}

// WorstCase は最悪の出現を仮定する（minimax）
type WorstCase struct{}

func (WorstCase) Combine(children []WeightedValue) float64 {
	worst := math.Inf(1)
	for _, ch := range children {
		worst = math.Min(worst, ch.Value)
	}
	return worst
}

// ChancePolicyByName は設定値から出現層の方式を選ぶ
func ChancePolicyByName(name string) (ChancePolicy, bool) {
	switch name {
	case "", "expectation", "expectimax":
		return Expectation{}, true
	case "worst", "worstcase", "minimax":
		return WorstCase{}, true
	}
	return nil, false
}

// Analysis はルートでの各方向の評価結果
type Analysis struct {
	Best   Direction
	Scores map[Direction]float64 // 有効な方向のみ
	Nodes  int
	Hits   int
}

// Solver はExpectimaxアルゴリズムで最良の手を探索する
type Solver struct {
	evaluator Evaluator
	chance    ChancePolicy
	maxDepth  int
	cacheSize int
}

// SolverOption はSolverの設定を変更する
type SolverOption func(*Solver)

// WithChancePolicy は出現層の方式を指定する
func WithChancePolicy(p ChancePolicy) SolverOption {
	return func(s *Solver) {
		s.chance = p
	}
}

// WithCacheSize は置換表の大きさを指定する（0で無効）
func WithCacheSize(n int) SolverOption {
	return func(s *Solver) {
		s.cacheSize = n
	}
}

// NewSolver は新しいSolverを生成する
func NewSolver(evaluator Evaluator, maxDepth int, opts ...SolverOption) *Solver {
	s := &Solver{
		evaluator: evaluator,
		chance:    Expectation{},
		maxDepth:  maxDepth,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Depth は探索の深さを返す
func (s *Solver) Depth() int {
	return s.maxDepth
}

// WithDepth は深さだけを変えたSolverを返す
func (s *Solver) WithDepth(depth int) *Solver {
	cp := *s
	cp.maxDepth = depth
	return &cp
}

// SuggestMove は標準の評価関数で指定した深さの最良の手を返す
// ゲームの状態には触れない
func SuggestMove(board Board, depth int) (Direction, error) {
	return NewSolver(NewHeuristicEvaluator(), depth).BestMove(board)
}

// BestMove は現在の盤面から最良の手を返す
// 有効な手がない場合はErrNoLegalMoveを返す
func (s *Solver) BestMove(board Board) (Direction, error) {
	a, err := s.Analyze(board)
	if err != nil {
		return 0, err
	}
	return a.Best, nil
}

// Analyze はルートのプレイヤー層を展開し、各方向の評価値を返す
// 同点の場合はDirectionsの順で先の方向を選ぶ
func (s *Solver) Analyze(board Board) (Analysis, error) {
	sr := s.newSearch()
	a := Analysis{Scores: make(map[Direction]float64, len(Directions))}
	bestScore := math.Inf(-1)
	found := false

	depth := max(s.maxDepth, 1)
	for _, dir := range Directions {
		out := board.Move(dir)
		if !out.Changed {
			continue
		}
		score := sr.chanceValue(out.Board, depth-1)
		a.Scores[dir] = score
		if !found || score > bestScore {
			bestScore = score
			a.Best = dir
			found = true
		}
	}
	a.Nodes, a.Hits = sr.nodes, sr.hits

	if !found {
		return a, ErrNoLegalMove
	}
	log.Debug().
		Str("best", a.Best.String()).
		Float64("score", bestScore).
		Int("depth", depth).
		Int("nodes", a.Nodes).
		Int("cache-hits", a.Hits).
		Msg("solver-decision")
	return a, nil
}

// layer は置換表のキーでプレイヤー層か出現層かを区別する
type layer uint8

const (
	maxLayer layer = iota
	chanceLayer
)

type cacheKey struct {
	board BitBoard
	depth int
	layer layer
}

// search は1回のAnalyzeの間だけ存在する探索状態
type search struct {
	*Solver
	cache *simplelru.LRU
	nodes int
	hits  int
}

func (s *Solver) newSearch() *search {
	sr := &search{Solver: s}
	if s.cacheSize > 0 {
		sr.cache, _ = simplelru.NewLRU(s.cacheSize, nil)
	}
	return sr
}

// memo は置換表を引き、なければcomputeして保存する
func (sr *search) memo(board Board, depth int, l layer, compute func() float64) float64 {
	sr.nodes++
	if sr.cache == nil {
		return compute()
	}
	bb, ok := NewBitBoard(board)
	if !ok {
		return compute()
	}
	key := cacheKey{board: bb, depth: depth, layer: l}
	if v, ok := sr.cache.Get(key); ok {
		sr.hits++
		return v.(float64)
	}
	v := compute()
	sr.cache.Add(key, v)
	return v
}

// chanceValue はスポーンの評価値を出現方式に従って計算する
func (sr *search) chanceValue(board Board, depth int) float64 {
	return sr.memo(board, depth, chanceLayer, func() float64 {
		if depth <= 0 {
			return sr.evaluator.Evaluate(board)
		}
		outcomes := board.ChanceOutcomes()
		if len(outcomes) == 0 {
			return sr.evaluator.Evaluate(board)
		}
		children := make([]WeightedValue, len(outcomes))
		for i, o := range outcomes {
			children[i] = WeightedValue{
				Value: sr.maxValue(o.Board, depth-1),
				Prob:  o.Prob,
			}
		}
		return sr.chance.Combine(children)
	})
}

// maxValue はプレイヤーの最善手を探索
func (sr *search) maxValue(board Board, depth int) float64 {
	return sr.memo(board, depth, maxLayer, func() float64 {
		if depth <= 0 {
			return sr.evaluator.Evaluate(board)
		}
		best := math.Inf(-1)
		hasMoved := false
		for _, dir := range Directions {
			out := board.Move(dir)
			if !out.Changed {
				continue
			}
			hasMoved = true
			best = math.Max(best, sr.chanceValue(out.Board, depth-1))
		}
		if !hasMoved {
			return sr.evaluator.Evaluate(board)
		}
		return best
	})
}

// AdaptiveDepth は盤面の埋まり具合に応じて探索の深さを決める
// 埋まるほど深くする
// 結果は1以上maxDepth以下に丸める
func AdaptiveDepth(b Board, base, maxDepth int) int {
	f := b.Fullness()
	var d int
	switch {
	case f >= 1:
		d = base + 5
	case f >= 0.85:
		d = base + 2
	case f >= 0.6:
		d = base
	case f >= 0.5:
		d = base - 2
	case f >= 0.4:
		d = base - 3
	default:
		d = base - 4
	}
	if maxDepth > 0 {
		d = min(d, maxDepth)
	}
	return max(d, 1)
}
