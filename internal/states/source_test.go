package states

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"whopaysthem/internal/finance"
)

type stubSource struct {
	name    string
	states  map[string][]CandidateFinance
	err     error
	fetches int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Covers(state string) bool {
	_, ok := s.states[state]
	return ok
}

func (s *stubSource) Fetch(ctx context.Context, state string, cycle int) ([]CandidateFinance, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.states[state], nil
}

func TestRegistryEnrichJoinsByName(t *testing.T) {
	source := &stubSource{
		name: "stub",
		states: map[string][]CandidateFinance{
			"IA": {{
				Name:        "SMITH, JANE",
				TotalRaised: 400_000,
				Donors: []finance.Donor{
					{Name: "Acme Corp", Amount: 50_000, Category: finance.CategoryOther},
				},
				SourceURL: "https://example.org/jane",
			}},
		},
	}
	registry := NewRegistry(zaptest.NewLogger(t).Sugar(), source)

	candidates := registry.Enrich(context.Background(), []finance.Candidate{
		{Name: "Jane Smith", State: "IA", Office: finance.OfficeGovernor},
		{Name: "Un Matched", State: "IA", Office: finance.OfficeGovernor},
	}, 2026)

	jane := candidates[0]
	assert.Equal(t, 400_000.0, jane.Finance.TotalRaised)
	assert.Equal(t, "https://example.org/jane", jane.DisclosureURL)
	assert.False(t, jane.Finance.NoData)

	other := candidates[1]
	assert.True(t, other.Finance.NoData)
	assert.Equal(t, "https://webapp.iecdb.iowa.gov", other.DisclosureURL,
		"candidates without a per-candidate source page link the state portal")

	assert.Equal(t, 1, source.fetches, "state fetch must be memoized per run")
}

func TestDisclosureURLCoversGovernorStates(t *testing.T) {
	for _, state := range finance.GovernorStates2026 {
		assert.NotEmpty(t, DisclosureURL(state), state)
	}
}

func TestRegistryEnrichSurvivesSourceFailure(t *testing.T) {
	source := &stubSource{
		name:   "stub",
		states: map[string][]CandidateFinance{"IA": {}},
		err:    errors.New("upstream down"),
	}
	registry := NewRegistry(zaptest.NewLogger(t).Sugar(), source)

	candidates := registry.Enrich(context.Background(), []finance.Candidate{
		{Name: "Jane Smith", State: "IA", Office: finance.OfficeGovernor},
	}, 2026)

	assert.True(t, candidates[0].Finance.NoData)
}

func TestRegistryEnrichWithNoSources(t *testing.T) {
	registry := NewRegistry(zaptest.NewLogger(t).Sugar())
	candidates := registry.Enrich(context.Background(), []finance.Candidate{
		{Name: "Jane Smith", State: "IA", Office: finance.OfficeGovernor},
	}, 2026)
	assert.True(t, candidates[0].Finance.NoData)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.json")
	payload := `{"IA": [{"name": "Jane Smith", "total_raised": 1000}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	source, err := NewFileSource("curated", path)
	require.NoError(t, err)

	assert.True(t, source.Covers("IA"))
	assert.False(t, source.Covers("TX"))

	records, err := source.Fetch(context.Background(), "IA", 2026)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane Smith", records[0].Name)
}

func TestNewFileSourceRejectsMissingFile(t *testing.T) {
	_, err := NewFileSource("curated", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
