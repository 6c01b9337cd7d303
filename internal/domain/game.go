package domain

// MoveResult はGame.Applyの結果
// Changed が false の場合は状態は一切変化していない
type MoveResult struct {
	Board        Board // spawn後の盤面
	Slid         Board // spawn前の盤面
	ScoreDelta   int
	Changed      bool
	Spawned      Position
	SpawnedValue int // 0 はspawnなし
}

// Game は2048ゲームの状態を管理する
type Game struct {
	board Board
	score int
	moves int
	rng   Random
}

// NewGame は新しいゲームを開始する
func NewGame(rng Random) *Game {
	g := &Game{rng: rng}
	g.Reset()
	return g
}

// Reset は初期盤面・スコア0・手数0に戻す
func (g *Game) Reset() {
	g.board = newInitialBoard(g.rng)
	g.score = 0
	g.moves = 0
}

// newInitialBoard は空の盤面の異なる2マスにタイルを配置する
func newInitialBoard(rng Random) Board {
	return NewBoard().SpawnTile(rng).SpawnTile(rng)
}

// Board は現在の盤面を返す
func (g *Game) Board() Board {
	return g.board
}

// Score は現在のスコアを返す
func (g *Game) Score() int {
	return g.score
}

// Moves は成功した手の数を返す
func (g *Game) Moves() int {
	return g.moves
}

// MaxTile は現在の最大タイル
func (g *Game) MaxTile() int {
	return g.board.MaxTile()
}

// IsTerminal はゲームオーバーかどうかを返す（毎回盤面から判定する）
func (g *Game) IsTerminal() bool {
	return g.board.IsTerminal()
}

// Apply は指定した方向にスワイプを実行する
// 盤面が変化しない場合は何もせず Changed=false を返す
func (g *Game) Apply(dir Direction) MoveResult {
	out := g.board.Move(dir)
	if !out.Changed {
		return MoveResult{Board: g.board, Slid: g.board}
	}

	g.board = out.Board
	g.score += out.ScoreDelta
	g.moves++

	var pos Position
	var val int
	g.board, pos, val = g.board.spawn(g.rng)

	return MoveResult{
		Board:        g.board,
		Slid:         out.Board,
		ScoreDelta:   out.ScoreDelta,
		Changed:      true,
		Spawned:      pos,
		SpawnedValue: val,
	}
}
