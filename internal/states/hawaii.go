package states

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"whopaysthem/internal/finance"
)

const (
	defaultHawaiiBaseURL = "https://hicscdata.hawaii.gov"
	hawaiiDataset        = "jexd-xbcg"
)

// HawaiiSource queries the Campaign Spending Commission's open-data API
// (a Socrata deployment) for governor-race contributions.
type HawaiiSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHawaiiSource constructs the source. The dataset is public; no key.
func NewHawaiiSource(opts ...func(*HawaiiSource)) *HawaiiSource {
	s := &HawaiiSource{
		baseURL: defaultHawaiiBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithHawaiiBaseURL overrides the API location (useful for tests).
func WithHawaiiBaseURL(u string) func(*HawaiiSource) {
	return func(s *HawaiiSource) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithHawaiiHTTPClient overrides the internal HTTP client.
func WithHawaiiHTTPClient(hc *http.Client) func(*HawaiiSource) {
	return func(s *HawaiiSource) {
		s.httpClient = hc
	}
}

// Name returns the source identifier.
func (s *HawaiiSource) Name() string { return "hawaii-csc" }

// Covers reports whether this source carries the state.
func (s *HawaiiSource) Covers(state string) bool { return state == "HI" }

type hawaiiRecord struct {
	CandidateName   string `json:"candidate_name"`
	Amount          string `json:"amount"`
	ContributorName string `json:"contributor_name"`
	ContributorType string `json:"contributor_type"`
}

// Fetch queries governor contributions filed since the start of the year
// before the cycle and groups them per candidate.
func (s *HawaiiSource) Fetch(ctx context.Context, _ string, cycle int) ([]CandidateFinance, error) {
	where := fmt.Sprintf("office='Governor' AND date>'%d-01-01T00:00:00'", cycle-1)
	params := url.Values{
		"$where": {where},
		"$limit": {"50000"},
		"$order": {"amount DESC"},
	}
	u := s.baseURL + "/resource/" + hawaiiDataset + ".json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("states: create hawaii request: %w", err)
	}
	req.Header.Set("User-Agent", rosterUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states: hawaii request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("states: hawaii api returned status %d", resp.StatusCode)
	}
	var records []hawaiiRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("states: decode hawaii response: %w", err)
	}

	var rows []stateContribution
	for _, r := range records {
		if r.CandidateName == "" {
			continue
		}
		amount, err := strconv.ParseFloat(r.Amount, 64)
		if err != nil || amount <= 0 {
			continue
		}
		donor := r.ContributorName
		if donor == "" {
			donor = "Unknown"
		}
		rows = append(rows, stateContribution{
			candidate: r.CandidateName,
			donor:     donor,
			amount:    amount,
			category:  classifyHawaiiDonor(r.ContributorType),
		})
	}
	return groupStateContributions(rows), nil
}

// classifyHawaiiDonor maps the commission's contributor-type vocabulary to a
// donor category. "Noncandidate committee" is the local term for independent
// spending entities, so it lands in "other" rather than "pac".
func classifyHawaiiDonor(contributorType string) finance.DonorCategory {
	ct := strings.ToLower(contributorType)
	switch {
	case strings.Contains(ct, "individual") || strings.Contains(ct, "immediate family"):
		return finance.CategoryIndividual
	case strings.Contains(ct, "other entity") || strings.Contains(ct, "organization") ||
		strings.Contains(ct, "noncandidate"):
		return finance.CategoryOther
	case strings.Contains(ct, "pac") || strings.Contains(ct, "committee"):
		return finance.CategoryPAC
	case strings.Contains(ct, "party"):
		return finance.CategoryParty
	}
	return finance.CategoryIndividual
}
