package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnaakkaaii/alpha2048/internal/usecase"
)

func TestWriteReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	s := usecase.Summarize(11, []usecase.Result{{Score: 120, Moves: 40, MaxTile: 128}})
	require.NoError(t, writeReport(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "seed: 11")
	assert.Contains(t, string(data), "best_score: 120")
}

func TestWriteReportBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.yaml")
	s := usecase.Summarize(1, nil)
	assert.Error(t, writeReport(path, s))
}
