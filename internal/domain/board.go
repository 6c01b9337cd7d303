package domain

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Size は盤面の一辺の長さ
const Size = 4

// ErrInvalidBoard は盤面の入力が不正な場合に返される
var ErrInvalidBoard = errors.New("invalid board")

// ErrInvalidDirection は方向の文字列が解釈できない場合に返される
var ErrInvalidDirection = errors.New("invalid direction")

// Direction はスワイプの方向を表す
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions は全方向を固定順で並べたもの
// AIの同点判定もこの順で先に現れた方向を採用する
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// ParseDirection は "up", "u" などの文字列を方向に変換する
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// rotations はdirを左スライドにするための時計回り回転数
func (d Direction) rotations() int {
	switch d {
	case Down:
		return 1
	case Right:
		return 2
	case Up:
		return 3
	default:
		return 0
	}
}

// Position は盤面上の座標
type Position struct {
	Row, Col int
}

// Board は4x4の2048ゲーム盤面を表す（immutable）
type Board struct {
	cells [Size][Size]int
}

// MoveOutcome はスワイプ結果（spawnなし）
// Changed が false の場合はその方向への移動は不正
type MoveOutcome struct {
	Board      Board
	ScoreDelta int
	Changed    bool
}

// NewBoard は空のBoardを生成する
func NewBoard() Board {
	return Board{}
}

// NewBoardFromCells はセルの値を指定してBoardを生成する
func NewBoardFromCells(cells [Size][Size]int) Board {
	return Board{cells: cells}
}

// ParseBoard は行のスライスからBoardを生成する
// サイズ違いや2の累乗でない値はErrInvalidBoardになる
func ParseBoard(rows [][]int) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidBoard, r, len(row), Size)
		}
		for c, v := range row {
			if !validTile(v) {
				return b, fmt.Errorf("%w: cell (%d,%d) = %d is not 0 or a power of two >= 2", ErrInvalidBoard, r, c, v)
			}
			b.cells[r][c] = v
		}
	}
	return b, nil
}

// ParseBoardFields は空白区切りの16個の整数からBoardを生成する
func ParseBoardFields(fields []string) (Board, error) {
	if len(fields) != Size*Size {
		return Board{}, fmt.Errorf("%w: need exactly %d numbers, got %d", ErrInvalidBoard, Size*Size, len(fields))
	}
	rows := make([][]int, Size)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Board{}, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
		}
		rows[i/Size] = append(rows[i/Size], v)
	}
	return ParseBoard(rows)
}

func validTile(v int) bool {
	return v == 0 || (v >= 2 && v&(v-1) == 0)
}

// Get は指定した位置のセル値を取得する
func (b Board) Get(row, col int) int {
	return b.cells[row][col]
}

// Set は指定した位置に値を設定した新しいBoardを返す
func (b Board) Set(row, col, value int) Board {
	b.cells[row][col] = value
	return b
}

// Rows は描画用に盤面のスナップショットを返す
func (b Board) Rows() [][]int {
	rows := make([][]int, Size)
	for r := range rows {
		rows[r] = slices.Clone(b.cells[r][:])
	}
	return rows
}

// Empty は空のセルを行優先の順に返す
func (b Board) Empty() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for r := 0; r < Size; r++ {
			for c := 0; c < Size; c++ {
				if b.cells[r][c] == 0 && !yield(Position{r, c}) {
					return
				}
			}
		}
	}
}

// EmptyCells は空のセルの座標一覧を返す
func (b Board) EmptyCells() []Position {
	return slices.Collect(b.Empty())
}

// CountEmpty は空のセル数を返す
func (b Board) CountEmpty() int {
	n := 0
	for range b.Empty() {
		n++
	}
	return n
}

// Fullness は埋まっているセルの割合（0〜1）
func (b Board) Fullness() float64 {
	return float64(Size*Size-b.CountEmpty()) / float64(Size*Size)
}

// MaxTile は最大タイルの値を返す
func (b Board) MaxTile() int {
	m := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			m = max(m, b.cells[r][c])
		}
	}
	return m
}

// Sum は全タイルの合計
func (b Board) Sum() int {
	s := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			s += b.cells[r][c]
		}
	}
	return s
}

// Transform は指定した方向にスワイプした結果の盤面とスコアを返す（spawnなし）
// 盤面を回転してdirを左スライドにし、各行をマージしてから回転を戻す
func (b Board) Transform(dir Direction) (Board, int) {
	turns := dir.rotations()
	rotated := b.rotate(turns)

	var out Board
	total := 0
	for r := 0; r < Size; r++ {
		merged, score := mergeLine(rotated.cells[r])
		out.cells[r] = merged
		total += score
	}
	return out.rotate((4 - turns) % 4), total
}

// Move はスワイプ結果と、盤面が変化したかどうかを返す
func (b Board) Move(dir Direction) MoveOutcome {
	next, score := b.Transform(dir)
	return MoveOutcome{
		Board:      next,
		ScoreDelta: score,
		Changed:    HasChanged(b, next),
	}
}

// HasChanged はいずれかのセルが異なればtrueを返す
func HasChanged(old, next Board) bool {
	return !old.Equal(next)
}

// rotate は盤面を時計回りにturns回回転したBoardを返す
func (b Board) rotate(turns int) Board {
	for ; turns > 0; turns-- {
		var out Board
		for r := 0; r < Size; r++ {
			for c := 0; c < Size; c++ {
				out.cells[r][c] = b.cells[Size-1-c][r]
			}
		}
		b = out
	}
	return b
}

// mergeLine は1行を左方向にマージし、結果とスコアを返す
// マージされたタイルは同じ手の中で再びマージされない
func mergeLine(line [Size]int) ([Size]int, int) {
	score := 0

	// 0を除去して詰める
	nonZero := make([]int, 0, Size)
	for _, v := range line {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}

	// 同じ値が隣接していたらマージ
	var result [Size]int
	w := 0
	for i := 0; i < len(nonZero); i++ {
		if i+1 < len(nonZero) && nonZero[i] == nonZero[i+1] {
			result[w] = nonZero[i] * 2
			score += result[w]
			i++ // 次の要素をスキップ
		} else {
			result[w] = nonZero[i]
		}
		w++
	}
	return result, score
}

// LegalMoves は盤面を変化させる方向の一覧を返す
func (b Board) LegalMoves() []Direction {
	return lo.Filter(Directions[:], func(dir Direction, _ int) bool {
		return b.Move(dir).Changed
	})
}

// IsTerminal は全方向にスワイプできない（ゲームオーバー）かどうかを返す
func (b Board) IsTerminal() bool {
	for _, dir := range Directions {
		if b.Move(dir).Changed {
			return false
		}
	}
	return true
}

// Equal は2つのBoardが等しいかどうかを返す
func (b Board) Equal(other Board) bool {
	return b.cells == other.cells
}

// String はBoardをASCIIアートとして表示する
func (b Board) String() string {
	line := "+" + strings.Repeat("------+", Size)
	var sb strings.Builder
	sb.WriteString(line + "\n")
	for r := 0; r < Size; r++ {
		sb.WriteString("|")
		for c := 0; c < Size; c++ {
			if b.cells[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", b.cells[r][c])
			}
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}
