package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnaakkaaii/alpha2048/internal/domain"
)

// firstCellRandom は常に先頭の空きマスに2を置く
type firstCellRandom struct{}

func (firstCellRandom) Intn(int) int { return 0 }

func (firstCellRandom) Float64() float64 { return 0.5 }

func playInput(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	solver := domain.NewSolver(domain.NewHeuristicEvaluator(), 2)
	err := PlayGame(context.Background(), strings.NewReader(input), &out, firstCellRandom{}, solver)
	require.NoError(t, err)
	return out.String()
}

func TestPlayGameQuit(t *testing.T) {
	out := playInput(t, "q\n")
	assert.Contains(t, out, "=== 2048 ===")
	assert.Contains(t, out, "Quit.")
}

func TestPlayGameEOF(t *testing.T) {
	out := playInput(t, "")
	assert.Contains(t, out, "Score: 0")
}

func TestPlayGameMoves(t *testing.T) {
	// 初期盤面は先頭行が 2 2 0 0
	out := playInput(t, "w\na\nq\n")
	assert.Contains(t, out, "Cannot move in that direction.")
	assert.Contains(t, out, "Score: 4")
}

func TestPlayGameInvalidInput(t *testing.T) {
	out := playInput(t, "x\nq\n")
	assert.Contains(t, out, "Invalid input.")
}

func TestPlayGameHintAndAIMove(t *testing.T) {
	out := playInput(t, "h\n1\nq\n")
	assert.Contains(t, out, "Hint: ")
	assert.Contains(t, out, "AI plays ")
}

func TestPlayGameNewGame(t *testing.T) {
	out := playInput(t, "a\nn\nq\n")
	assert.Contains(t, out, "New game.")
	assert.Equal(t, 2, strings.Count(out, "Score: 0")) // 開始時とリセット後
}

func TestPlayGameCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	solver := domain.NewSolver(domain.NewHeuristicEvaluator(), 2)
	input := strings.Repeat("a\nd\n", 5) + "q\n"
	err := PlayGame(ctx, strings.NewReader(input), &out, firstCellRandom{}, solver)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "Move: ")
	assert.NotContains(t, out.String(), "Quit.")
}

func TestPlayGameCanceledWhileReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, w := io.Pipe()
	defer w.Close()

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	var out bytes.Buffer
	solver := domain.NewSolver(domain.NewHeuristicEvaluator(), 2)
	err := PlayGame(ctx, r, &out, firstCellRandom{}, solver)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, out.String(), "Score: 0")
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Direction
		ok   bool
	}{
		{"w", domain.Up, true},
		{"s", domain.Down, true},
		{"a", domain.Left, true},
		{"d", domain.Right, true},
		{"up", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseKey(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}
