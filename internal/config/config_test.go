package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("FEC_API_KEY", "abc")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.FECAPIKey)
	assert.Equal(t, 2026, cfg.ElectionYear)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, 14, cfg.FECRatePerMinute)
	assert.Equal(t, 3, cfg.FetchRetries)
	assert.Equal(t, "web/public/data", cfg.OutputDir)
	assert.Equal(t, ".cache", cfg.CacheDir)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("FEC_API_KEY", "abc")
	t.Setenv("FTM_API_KEY", "def")
	t.Setenv("ELECTION_YEAR", "2028")
	t.Setenv("FETCH_CONCURRENCY", "8")
	t.Setenv("FEC_RATE_LIMIT", "30")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "def", cfg.FTMAPIKey)
	assert.Equal(t, 2028, cfg.ElectionYear)
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.Equal(t, 30, cfg.FECRatePerMinute)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("ELECTION_YEAR", "not-a-year")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvRejectsZeroConcurrency(t *testing.T) {
	t.Setenv("FETCH_CONCURRENCY", "0")
	_, err := FromEnv()
	assert.Error(t, err)
}
