package domain

import (
	"math/bits"
)

// maxPackedExp は4ビットで表せる最大の指数（32768）
const maxPackedExp = 15

// BitBoard は2048の盤面を64ビット整数で表現
// 各タイルは4ビットで表現（0-15の指数: 0=空, 1=2, 2=4, 3=8, ..., 15=32768）
// 16個のタイル × 4ビット = 64ビット
// 探索中の置換表のキーとして使う
type BitBoard uint64

// NewBitBoard は通常のBoardからBitBoardを生成
// 32768を超えるタイルがある場合は false を返す
func NewBitBoard(b Board) (BitBoard, bool) {
	var bb BitBoard
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			val := b.Get(r, c)
			if val == 0 {
				continue
			}
			// 2の何乗かを計算（2→1, 4→2, 8→3, ...）
			exp := bits.TrailingZeros(uint(val))
			if exp > maxPackedExp {
				return 0, false
			}
			bb.setTile(r, c, exp)
		}
	}
	return bb, true
}

// ToBoard はBitBoardを通常のBoardに変換
func (bb BitBoard) ToBoard() Board {
	var cells [Size][Size]int
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			exp := bb.getTile(r, c)
			if exp > 0 {
				cells[r][c] = 1 << exp // 2^exp
			}
		}
	}
	return NewBoardFromCells(cells)
}

// getTile は指定位置のタイル値（指数）を取得
func (bb BitBoard) getTile(row, col int) int {
	shift := (row*Size + col) * 4
	return int((bb >> shift) & 0xF)
}

// setTile は指定位置にタイル値（指数）を設定
func (bb *BitBoard) setTile(row, col, exp int) {
	shift := (row*Size + col) * 4
	mask := ^(BitBoard(0xF) << shift)
	*bb = (*bb & mask) | (BitBoard(exp) << shift)
}

// Get はタイルの値を取得
func (bb BitBoard) Get(row, col int) int {
	exp := bb.getTile(row, col)
	if exp == 0 {
		return 0
	}
	return 1 << exp
}
