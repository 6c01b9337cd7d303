package usecase

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnaakkaaii/alpha2048/internal/config"
)

func fastConfig() *config.Config {
	cfg := config.Default()
	cfg.Depth = 1
	cfg.Delay = 0
	cfg.Quiet = true
	cfg.CacheSize = 1024
	return cfg
}

func TestAutoPlayFinishes(t *testing.T) {
	var out bytes.Buffer
	res, err := AutoPlay(context.Background(), &out, rand.New(rand.NewSource(1)), fastConfig())
	require.NoError(t, err)

	assert.Greater(t, res.Moves, 0)
	assert.Greater(t, res.Score, 0)
	assert.GreaterOrEqual(t, res.MaxTile, 4)
	assert.Equal(t, 0, res.MaxTile&(res.MaxTile-1), "max tile is a power of two")
	assert.Equal(t, res.MaxTile >= WinningTile, res.Won)
	for tile, move := range res.Milestones {
		assert.LessOrEqual(t, tile, res.MaxTile)
		assert.LessOrEqual(t, move, res.Moves)
	}
	assert.Contains(t, out.String(), "=== Game Over ===")
	assert.NotContains(t, out.String(), "Move: ")
}

func TestAutoPlayDeterministic(t *testing.T) {
	a, err := AutoPlay(context.Background(), io.Discard, rand.New(rand.NewSource(7)), fastConfig())
	require.NoError(t, err)
	b, err := AutoPlay(context.Background(), io.Discard, rand.New(rand.NewSource(7)), fastConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAutoPlayVerbose(t *testing.T) {
	cfg := fastConfig()
	cfg.Quiet = false
	var out bytes.Buffer
	_, err := AutoPlay(context.Background(), &out, rand.New(rand.NewSource(3)), cfg)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "=== 2048 AutoPlay ===")
	assert.Contains(t, out.String(), "Move: ")
}

func TestAutoPlayCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := AutoPlay(ctx, io.Discard, rand.New(rand.NewSource(1)), fastConfig())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Moves)
}

func TestAutoPlayBadConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.Evaluator = "neural"
	_, err := AutoPlay(context.Background(), io.Discard, rand.New(rand.NewSource(1)), cfg)
	assert.Error(t, err)
}
