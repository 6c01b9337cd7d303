package domain

// スポーン確率（2が90%、4が10%）
const (
	spawn2Prob = 0.9
	spawn4Prob = 0.1
)

// SpawnValues はスワイプ後に空きマスに出現しうる値
var SpawnValues = []int{2, 4}

// Random はタイル配置に使う乱数源
// *rand.Rand と *frand.RNG のどちらも満たす
type Random interface {
	Intn(n int) int
	Float64() float64
}

// ChanceOutcome はスポーン1通りとその確率
type ChanceOutcome struct {
	Pos   Position
	Value int
	Prob  float64
	Board Board
}

// drawSpawnValue は2か4を9:1の割合で選ぶ
func drawSpawnValue(rng Random) int {
	if rng.Float64() < spawn4Prob {
		return 4
	}
	return 2
}

// SpawnTile は空きマスにランダムにタイルを配置したBoardを返す
// 空きマスがない場合は同じBoardを返す
func (b Board) SpawnTile(rng Random) Board {
	b, _, _ = b.spawn(rng)
	return b
}

// spawn はSpawnTileと同じだが配置した位置と値も返す
func (b Board) spawn(rng Random) (Board, Position, int) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return b, Position{}, 0
	}
	pos := empty[rng.Intn(len(empty))]
	val := drawSpawnValue(rng)
	return b.Set(pos.Row, pos.Col, val), pos, val
}

// ChanceOutcomes は空きマスに2または4がspawnする全ての可能性を確率付きで列挙する
// 空きマスがない場合は空のスライスを返す
func (b Board) ChanceOutcomes() []ChanceOutcome {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return nil
	}
	perCell := 1.0 / float64(len(empty))
	results := make([]ChanceOutcome, 0, len(empty)*len(SpawnValues))
	for _, pos := range empty {
		for _, val := range SpawnValues {
			p := spawn2Prob
			if val == 4 {
				p = spawn4Prob
			}
			results = append(results, ChanceOutcome{
				Pos:   pos,
				Value: val,
				Prob:  perCell * p,
				Board: b.Set(pos.Row, pos.Col, val),
			})
		}
	}
	return results
}
