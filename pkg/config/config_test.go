package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_Values(t *testing.T) {
	d := Default()
	assert.Equal(t, 0.01, d.Epsilon)
	assert.Equal(t, 0.5, d.CompletenessRatio)
	assert.Equal(t, 0.10, d.MarginLow)
	assert.Equal(t, 3.0, d.MarginHigh)
	assert.Equal(t, 100_000.0, d.HighOrderValue)
	assert.Equal(t, 50, d.SuspiciousLineCount)
	assert.Equal(t, 3*365*24*time.Hour, d.StaleStockAge)
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Thresholds)
	}{
		{"zero epsilon", func(t *Thresholds) { t.Epsilon = 0 }},
		{"completeness above one", func(t *Thresholds) { t.CompletenessRatio = 1.5 }},
		{"margin bounds inverted", func(t *Thresholds) { t.MarginHigh = t.MarginLow - 1 }},
		{"negative name distance", func(t *Thresholds) { t.NameDistance = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := Default()
			tt.mutate(&th)
			assert.Error(t, th.Validate())
		})
	}
}

func TestLoad_LayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epsilon: 0.05\nhigh_order_value: 50000\n"), 0o600))

	th, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.05, th.Epsilon)
	assert.Equal(t, 50_000.0, th.HighOrderValue)
	// untouched fields keep defaults
	assert.Equal(t, 0.5, th.CompletenessRatio)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte("epsilon: -1\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
