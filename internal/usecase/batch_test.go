package usecase

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunBatch(t *testing.T) {
	cfg := fastConfig()
	cfg.Games = 3
	cfg.Workers = 2
	cfg.Seed = 42

	s, err := RunBatch(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, 3, s.Games)
	require.Len(t, s.Results, 3)

	// i番目のゲームはseed+iで単独実行したものと一致する
	for i, r := range s.Results {
		want, err := AutoPlay(context.Background(), io.Discard, rand.New(rand.NewSource(42+int64(i))), cfg)
		require.NoError(t, err)
		assert.Equal(t, want, r)
	}
}

func TestRunBatchRandomSeed(t *testing.T) {
	cfg := fastConfig()
	cfg.Games = 1
	s, err := RunBatch(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotZero(t, s.Seed)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Score: 100, Moves: 10, MaxTile: 256},
		{Score: 300, Moves: 30, MaxTile: 2048, Won: true},
		{Score: 200, Moves: 20, MaxTile: 256},
	}
	s := Summarize(5, results)
	assert.Equal(t, 3, s.Games)
	assert.InDelta(t, 200.0, s.MeanScore, 1e-9)
	assert.InDelta(t, 100.0, s.StdDevScore, 1e-9)
	assert.InDelta(t, 20.0, s.MeanMoves, 1e-9)
	assert.Equal(t, 300, s.BestScore)
	assert.InDelta(t, 1.0/3, s.WinRate, 1e-9)
	assert.Equal(t, map[int]int{256: 2, 2048: 1}, s.MaxTiles)
}

func TestSummarizeEdgeCases(t *testing.T) {
	s := Summarize(1, nil)
	assert.Equal(t, 0, s.Games)
	assert.Zero(t, s.MeanScore)

	s = Summarize(1, []Result{{Score: 50, Moves: 5, MaxTile: 64}})
	assert.Equal(t, 50.0, s.MeanScore)
	assert.Zero(t, s.StdDevScore)
	assert.Equal(t, 50, s.BestScore)
}

func TestWriteReport(t *testing.T) {
	s := Summarize(9, []Result{
		{Score: 100, Moves: 10, MaxTile: 128},
		{Score: 2500, Moves: 900, MaxTile: 2048, Won: true, Milestones: map[int]int{1024: 500, 2048: 880}},
	})
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, s))
	assert.Contains(t, buf.String(), "seed: 9")
	assert.Contains(t, buf.String(), "win_rate: 0.5")

	var got Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, s.BestScore, got.BestScore)
	assert.Equal(t, s.MaxTiles, got.MaxTiles)
	assert.Equal(t, 880, got.Results[1].Milestones[2048])
}
