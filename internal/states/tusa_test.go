package states

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whopaysthem/internal/finance"
)

// A trimmed race page: one funded candidate whose fields reference the state
// function's parameters, one unfunded candidate with literal fields.
const tusaRacePage = `<html><body><script>window.__NUXT__=(function(a,b,c,d,e,f){return {data:[{candidates:[{candidateFullName:a,candidateLastName:"Smith",candidateSlug:b,candidateImageName:"jane.jpg",candidateBpUrl:"",candidateStatus:"filed",candidateIsWriteIn:false,candidateIsIncumbent:c,candidateParty:d,candidateTotalContributions:e,candidateTotalExpenditures:120000,candidateTotalLoans:0,personHasTusaData:true},{candidateFullName:"John Doe",candidateLastName:"Doe",candidateSlug:"",candidateImageName:"",candidateBpUrl:"",candidateStatus:"filed",candidateIsWriteIn:false,candidateIsIncumbent:false,candidateParty:"Republican",candidateTotalContributions:0,candidateTotalExpenditures:0,personHasTusaData:false}]}]}}("Jane Smith","jane-smith",true,"Democratic",400000.5,Array(2)));</script></body></html>`

const tusaCandidatePage = `<html><body><script>window.__NUXT__=(function(a,b){return {donors:[{electionAmount:a,contributorName:b},{electionAmount:2500,contributorName:"Acme Corp"},{electionAmount:99,contributorName:"UNITEMIZED CONTRIBUTIONS"}]}}(9000.25,"Big Donor"));</script></body></html>`

func tusaServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ia/race/governor-of-iowa":
			fmt.Fprint(w, tusaRacePage)
		case "/ia/candidate/jane-smith":
			fmt.Fprint(w, tusaCandidatePage)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTUSAFetchParsesRaceAndDonorPages(t *testing.T) {
	server := tusaServer(t)
	source := NewTUSASource(WithTUSABaseURL(server.URL), WithTUSADelay(0))

	records, err := source.Fetch(context.Background(), "IA", 2026)
	require.NoError(t, err)
	require.Len(t, records, 2)

	jane := records[0]
	assert.Equal(t, "Jane Smith", jane.Name)
	assert.Equal(t, "D", jane.Party)
	assert.True(t, jane.Incumbent)
	assert.Equal(t, 400000.5, jane.TotalRaised)
	assert.Equal(t, server.URL+"/ia/candidate/jane-smith", jane.SourceURL)

	require.Len(t, jane.Donors, 2, "unitemized buckets must be dropped")
	assert.Equal(t, "Big Donor", jane.Donors[0].Name)
	assert.Equal(t, 9000.25, jane.Donors[0].Amount)
	assert.Equal(t, "Acme Corp", jane.Donors[1].Name)

	john := records[1]
	assert.Equal(t, "John Doe", john.Name)
	assert.Equal(t, "R", john.Party)
	assert.Zero(t, john.TotalRaised)
	assert.Empty(t, john.SourceURL, "candidates without site data get no candidate link")
	assert.Empty(t, john.Donors)
}

func TestTUSAFetchReportsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	source := NewTUSASource(WithTUSABaseURL(server.URL), WithTUSADelay(0))
	_, err := source.Fetch(context.Background(), "IA", 2026)
	assert.Error(t, err)
}

func TestTUSACovers(t *testing.T) {
	source := NewTUSASource()
	assert.True(t, source.Covers("IA"))
	assert.False(t, source.Covers("NE"))

	for state := range tusaStates {
		assert.Contains(t, finance.GovernorStates2026, state)
	}
}
