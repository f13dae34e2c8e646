package states

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whopaysthem/internal/finance"
)

func TestHawaiiFetchGroupsByCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resource/jexd-xbcg.json", r.URL.Path)
		where := r.URL.Query().Get("$where")
		assert.True(t, strings.Contains(where, "office='Governor'"), "where = %q", where)
		assert.True(t, strings.Contains(where, "2025-01-01"), "where = %q", where)

		fmt.Fprint(w, `[
			{"candidate_name": "Doe, Jane", "amount": "1000.50", "contributor_name": "Big Donor", "contributor_type": "Individual"},
			{"candidate_name": "Doe, Jane", "amount": "500", "contributor_name": "Island Futures", "contributor_type": "Noncandidate Committee"},
			{"candidate_name": "", "amount": "100", "contributor_name": "Nobody", "contributor_type": "Individual"},
			{"candidate_name": "Doe, Jane", "amount": "-5", "contributor_name": "Refund", "contributor_type": "Individual"}
		]`)
	}))
	t.Cleanup(server.Close)

	source := NewHawaiiSource(WithHawaiiBaseURL(server.URL))
	records, err := source.Fetch(context.Background(), "HI", 2026)
	require.NoError(t, err)
	require.Len(t, records, 1)

	jane := records[0]
	assert.Equal(t, "Doe, Jane", jane.Name)
	assert.Equal(t, 1500.50, jane.TotalRaised)

	require.Len(t, jane.Donors, 2)
	assert.Equal(t, "Big Donor", jane.Donors[0].Name)
	assert.Equal(t, finance.CategoryIndividual, jane.Donors[0].Category)
	assert.Equal(t, finance.CategoryOther, jane.Donors[1].Category,
		"noncandidate committees are independent spenders, not pacs")
}

func TestHawaiiFetchReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	source := NewHawaiiSource(WithHawaiiBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), "HI", 2026)
	assert.Error(t, err)
}

func TestHawaiiCovers(t *testing.T) {
	source := NewHawaiiSource()
	assert.True(t, source.Covers("HI"))
	assert.False(t, source.Covers("IA"))
}
