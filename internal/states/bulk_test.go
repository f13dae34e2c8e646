package states

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whopaysthem/internal/finance"
)

const nebraskaExtract = `Filer Name,Candidate Name,Receipt Amount,Receipt Transaction/Contribution Type,Contributor or Source Name (Individual Last Name),First Name,Contributor or Transaction Source Type
SMITH FOR GOVERNOR,JANE SMITH,"1,000.00",Monetary,DONOR,BIG,Individual
SMITH FOR GOVERNOR,JANE SMITH,500.00,Monetary,DONOR,BIG,Individual
SMITH FOR GOVERNOR,JANE SMITH,800.00,Monetary,ACME LLC,,Business
SMITH FOR GOVERNOR,JANE SMITH,2000.00,Loan Received,BANK,,Business
GOOD GOVERNMENT PAC,,750.00,Monetary,ACME PAC,,Committee
DOE FOR GOVERNOR,JOHN DOE,300.00,Monetary,SMALL,SAM,Individual
`

func zipExtract(t *testing.T, csvBody string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("2026_ContributionLoanExtract.csv")
	require.NoError(t, err)
	_, err = f.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBulkSourceGroupsGovernorContributions(t *testing.T) {
	archive := zipExtract(t, nebraskaExtract)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only the cycle year is published; the prior year is tolerated
		// missing.
		if r.URL.Path == "/PublicSite/Docs/BulkDataDownloads/2026_ContributionLoanExtract.csv.zip" {
			w.Write(archive)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	source := NewNebraskaSource(WithBulkBaseURL(server.URL))
	records, err := source.Fetch(context.Background(), "NE", 2026)
	require.NoError(t, err)
	require.Len(t, records, 2, "non-governor filers must be filtered out")

	jane := records[0]
	assert.Equal(t, "Jane Smith", jane.Name)
	assert.Equal(t, 2300.0, jane.TotalRaised, "loans must not count as contributions")

	require.Len(t, jane.Donors, 2)
	assert.Equal(t, "BIG DONOR", jane.Donors[0].Name)
	assert.Equal(t, 1500.0, jane.Donors[0].Amount, "repeat gifts sum per donor")
	assert.Equal(t, finance.CategoryIndividual, jane.Donors[0].Category)
	assert.Equal(t, finance.CategoryOther, jane.Donors[1].Category)

	john := records[1]
	assert.Equal(t, "John Doe", john.Name)
	assert.Equal(t, 300.0, john.TotalRaised)
}

func TestBulkSourceFailsWhenNoYearIsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	source := NewOklahomaSource(WithBulkBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), "OK", 2026)
	assert.Error(t, err)
}

func TestParseContributionExtractOklahomaColumns(t *testing.T) {
	extract := `Committee Name,Candidate Name,Receipt Amount,Receipt Type,Last Name,First Name,Receipt Source Type
FRIENDS OF GOVERNOR DOE,JOHN DOE,450.00,Contribution,PAYER,PAT,Individual
FRIENDS OF GOVERNOR DOE,JOHN DOE,100.00,Loan,BANK,,Business
`
	rows, err := parseContributionExtract(strings.NewReader(extract))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "JOHN DOE", rows[0].candidate)
	assert.Equal(t, "PAT PAYER", rows[0].donor)
	assert.Equal(t, 450.0, rows[0].amount)
}

func TestBulkSourceCovers(t *testing.T) {
	assert.True(t, NewNebraskaSource().Covers("NE"))
	assert.False(t, NewNebraskaSource().Covers("OK"))
	assert.True(t, NewOklahomaSource().Covers("OK"))
}
