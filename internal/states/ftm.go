package states

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"whopaysthem/internal/finance"
)

const defaultFTMBaseURL = "https://api.followthemoney.org"

// ftmStates are the governor-race states whose disclosure data reaches us
// through the FollowTheMoney aggregator rather than a dedicated source.
var ftmStates = map[string]bool{
	"AK": true, "AR": true, "CT": true, "HI": true, "ID": true,
	"KS": true, "ME": true, "MD": true, "MA": true, "OK": true,
	"OR": true, "RI": true, "SD": true, "TN": true, "VT": true,
}

// governorOfficeCode is the source's office filter for governor races.
const governorOfficeCode = "G00"

// FTMSource pulls state-level campaign finance from the FollowTheMoney API.
type FTMSource struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewFTMSource constructs the source. The API requires a (free) key.
func NewFTMSource(apiKey string, opts ...func(*FTMSource)) *FTMSource {
	s := &FTMSource{
		baseURL: defaultFTMBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithFTMBaseURL overrides the API location (useful for tests).
func WithFTMBaseURL(u string) func(*FTMSource) {
	return func(s *FTMSource) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithFTMHTTPClient overrides the internal HTTP client.
func WithFTMHTTPClient(hc *http.Client) func(*FTMSource) {
	return func(s *FTMSource) {
		s.httpClient = hc
	}
}

// Name returns the source identifier.
func (s *FTMSource) Name() string { return "followthemoney" }

// Covers reports whether this source carries the state.
func (s *FTMSource) Covers(state string) bool { return ftmStates[state] }

// Fetch returns normalized finance records for one state's governor race:
// candidate totals grouped by candidate entity, then top donors per
// candidate grouped by donor entity.
func (s *FTMSource) Fetch(ctx context.Context, state string, cycle int) ([]CandidateFinance, error) {
	if s.apiKey == "" {
		return nil, &finance.ConfigError{Setting: "FTM_API_KEY", Reason: "access credential is required"}
	}

	records, err := s.query(ctx, url.Values{
		"dt":     {"1"},
		"s":      {state},
		"y":      {strconv.Itoa(cycle)},
		"c-r-oc": {governorOfficeCode},
		"gro":    {"c-t-eid"},
	})
	if err != nil {
		return nil, err
	}

	var out []CandidateFinance
	for _, rec := range records {
		name := rec.value("Candidate")
		if name == "" {
			name = rec.value("Career_Summary")
		}
		total := rec.amount("Total_$")
		if name == "" || total <= 0 {
			continue
		}

		cf := CandidateFinance{
			Name:        name,
			Party:       finance.NormalizeParty(rec.value("Specific_Party", "General_Party")),
			TotalRaised: total,
		}
		if eid := rec.id("Candidate_Entity", "Career_Summary"); eid != "" {
			donors, err := s.fetchDonors(ctx, eid, cycle)
			if err != nil {
				return nil, err
			}
			cf.Donors = donors
		}
		out = append(out, cf)
	}
	return out, nil
}

func (s *FTMSource) fetchDonors(ctx context.Context, entityID string, cycle int) ([]finance.Donor, error) {
	records, err := s.query(ctx, url.Values{
		"dt":      {"1"},
		"c-t-eid": {entityID},
		"y":       {strconv.Itoa(cycle)},
		"gro":     {"d-eid"},
	})
	if err != nil {
		return nil, err
	}

	var donors []finance.Donor
	for _, rec := range records {
		name := rec.value("Contributor")
		amount := rec.amount("Total_$")
		if name == "" || amount <= 0 || finance.IsUninformativeDonor(name) {
			continue
		}

		category := finance.CategoryIndividual
		if typ := rec.value("Type_of_Contributor"); typ != "" && typ != "Individual" {
			category = finance.ClassifyReceipt("", finance.ItemizedReceipt{ContributorName: name})
		}
		donors = append(donors, finance.Donor{
			Name:          name,
			Amount:        amount,
			AmountDisplay: finance.FormatAmount(amount),
			Category:      category,
		})
	}
	return donors, nil
}

// ftmRecord is one grouped result row. The source nests every field as
// {"Field": {"Field": value, "id": ...}}, and pads empty result sets with
// bare strings, so fields stay raw until accessed.
type ftmRecord map[string]json.RawMessage

type ftmResponse struct {
	Records []json.RawMessage `json:"records"`
}

func (s *FTMSource) query(ctx context.Context, params url.Values) ([]ftmRecord, error) {
	params.Set("APIKey", s.apiKey)
	params.Set("mode", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("states: create ftm request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states: ftm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("states: ftm api returned status %d", resp.StatusCode)
	}

	var payload ftmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("states: decode ftm response: %w", err)
	}

	records := make([]ftmRecord, 0, len(payload.Records))
	for _, raw := range payload.Records {
		var rec ftmRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			// "No Records" placeholder strings and other non-objects.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// value unwraps the nested {"Field": {"Field": "..."}} string for the first
// key that is present.
func (r ftmRecord) value(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			continue
		}
		inner, ok := nested[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(inner, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

// amount unwraps a nested numeric field, tolerating string-encoded numbers.
func (r ftmRecord) amount(key string) float64 {
	raw, ok := r[key]
	if !ok {
		return 0
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(raw, &nested); err != nil {
		var direct float64
		if err := json.Unmarshal(raw, &direct); err == nil {
			return direct
		}
		return 0
	}
	inner, ok := nested[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(inner, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(inner, &s); err == nil {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return parsed
		}
	}
	return 0
}

// id unwraps the nested "id" attribute for the first key that carries one.
func (r ftmRecord) id(keys ...string) string {
	for _, key := range keys {
		raw, ok := r[key]
		if !ok {
			continue
		}
		var nested struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(raw, &nested); err != nil || nested.ID == nil {
			continue
		}
		var s string
		if err := json.Unmarshal(nested.ID, &s); err == nil && s != "" {
			return s
		}
		var n float64
		if err := json.Unmarshal(nested.ID, &n); err == nil && n != 0 {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	}
	return ""
}
