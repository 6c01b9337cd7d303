package domain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/matryer/is"
)

// fixedRandom は決まった値を返す乱数源
type fixedRandom struct {
	ints   []int
	floats []float64
	calls  int
}

func (f *fixedRandom) Intn(n int) int {
	f.calls++
	v := f.ints[0] % n
	f.ints = f.ints[1:]
	return v
}

func (f *fixedRandom) Float64() float64 {
	f.calls++
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func TestSpawnTileFullBoard(t *testing.T) {
	is := is.New(t)
	full := NewBoardFromCells([Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	})
	rng := &fixedRandom{}
	is.Equal(full.SpawnTile(rng), full)
	is.Equal(rng.calls, 0) // 乱数を消費しない
}

func TestSpawnTileChoosesByDraw(t *testing.T) {
	is := is.New(t)
	board := NewBoardFromCells([Size][Size]int{
		{2, 0, 4, 0},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 0},
	})

	// 空きマスは (0,1), (0,3), (3,3) の順
	got := board.SpawnTile(&fixedRandom{ints: []int{1}, floats: []float64{0.5}})
	is.Equal(got.Get(0, 3), 2)

	got = board.SpawnTile(&fixedRandom{ints: []int{2}, floats: []float64{0.05}})
	is.Equal(got.Get(3, 3), 4)
}

func TestSpawnTileDistribution(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewSource(1))
	fours := 0
	const n = 20000
	for i := 0; i < n; i++ {
		b := NewBoard().SpawnTile(rng)
		is.Equal(b.CountEmpty(), Size*Size-1)
		switch b.MaxTile() {
		case 4:
			fours++
		case 2:
		default:
			t.Fatalf("unexpected spawn value %d", b.MaxTile())
		}
	}
	ratio := float64(fours) / n
	is.True(math.Abs(ratio-spawn4Prob) < 0.01)
}

func TestChanceOutcomes(t *testing.T) {
	is := is.New(t)
	board := NewBoardFromCells([Size][Size]int{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})

	outcomes := board.ChanceOutcomes()
	// 空きマス14個 × 2(2か4) = 28通り
	is.Equal(len(outcomes), 28)

	total := 0.0
	for _, o := range outcomes {
		total += o.Prob
		is.Equal(o.Board.Get(o.Pos.Row, o.Pos.Col), o.Value)
		is.Equal(o.Board.CountEmpty(), 13)
	}
	is.True(math.Abs(total-1) < 1e-9)

	is.Equal(len(NewBoardFromCells([Size][Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}).ChanceOutcomes()), 0)
}
