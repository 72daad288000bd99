package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-news-service/internal/dataset"
)

func TestRun_WritesReadableCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "obs.csv")
	require.NoError(t, run([]string{"-out", out, "-seed", "7", "-start", "2025-01-01", "-end", "2025-01-31"}))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := dataset.ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, records, 31)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing out", nil},
		{"bad start", []string{"-out", "x.csv", "-start", "2025/01/01"}},
		{"end before start", []string{"-out", "x.csv", "-start", "2025-02-01", "-end", "2025-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, run(tt.args))
		})
	}
}
