package states

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"whopaysthem/internal/finance"
)

const (
	defaultNebraskaBaseURL = "https://nadc-e.nebraska.gov"
	defaultOklahomaBaseURL = "https://guardian.ok.gov"

	bulkExtractPath = "/PublicSite/Docs/BulkDataDownloads/%d_ContributionLoanExtract.csv.zip"
)

// BulkSource pulls the yearly contribution extract from the disclosure
// platform the Nebraska and Oklahoma ethics commissions share: one zipped
// CSV per filing year. The two deployments use slightly different column
// names, so lookups carry both spellings.
type BulkSource struct {
	name       string
	state      string
	baseURL    string
	httpClient *http.Client
}

// NewNebraskaSource constructs the Nebraska (NADC) bulk source.
func NewNebraskaSource(opts ...func(*BulkSource)) *BulkSource {
	return newBulkSource("nebraska-nadc", "NE", defaultNebraskaBaseURL, opts)
}

// NewOklahomaSource constructs the Oklahoma (Guardian) bulk source.
func NewOklahomaSource(opts ...func(*BulkSource)) *BulkSource {
	return newBulkSource("oklahoma-guardian", "OK", defaultOklahomaBaseURL, opts)
}

func newBulkSource(name, state, baseURL string, opts []func(*BulkSource)) *BulkSource {
	s := &BulkSource{
		name:    name,
		state:   state,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithBulkBaseURL overrides the platform location (useful for tests).
func WithBulkBaseURL(u string) func(*BulkSource) {
	return func(s *BulkSource) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithBulkHTTPClient overrides the internal HTTP client.
func WithBulkHTTPClient(hc *http.Client) func(*BulkSource) {
	return func(s *BulkSource) {
		s.httpClient = hc
	}
}

// Name returns the source identifier.
func (s *BulkSource) Name() string { return s.name }

// Covers reports whether this source carries the state.
func (s *BulkSource) Covers(state string) bool { return state == s.state }

// Fetch downloads the extracts for the cycle year and the year before it
// (early filings land in the prior year) and groups the governor-race rows
// per candidate. A year whose extract is not published yet is skipped; the
// fetch fails only when no year yields anything.
func (s *BulkSource) Fetch(ctx context.Context, _ string, cycle int) ([]CandidateFinance, error) {
	var rows []stateContribution
	var errs error
	for _, year := range []int{cycle, cycle - 1} {
		yearRows, err := s.fetchYear(ctx, year)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rows = append(rows, yearRows...)
	}
	if len(rows) == 0 && errs != nil {
		return nil, errs
	}
	return groupStateContributions(rows), nil
}

func (s *BulkSource) fetchYear(ctx context.Context, year int) ([]stateContribution, error) {
	u := s.baseURL + fmt.Sprintf(bulkExtractPath, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("states: create extract request: %w", err)
	}
	req.Header.Set("User-Agent", rosterUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("states: %s returned status %d", u, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("states: read %s: %w", u, err)
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("states: open extract archive %s: %w", u, err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("states: extract archive %s is empty", u)
	}
	f, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("states: open extract file: %w", err)
	}
	defer f.Close()

	return parseContributionExtract(f)
}

// stateContribution is one governor-race contribution row from a direct
// state source, before per-candidate grouping.
type stateContribution struct {
	candidate string
	donor     string
	amount    float64
	category  finance.DonorCategory
}

func parseContributionExtract(r io.Reader) ([]stateContribution, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("states: read extract header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	field := func(rec []string, names ...string) string {
		for _, n := range names {
			if i, ok := col[n]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
		}
		return ""
	}

	var rows []stateContribution
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("states: read extract row: %w", err)
		}

		filer := field(rec, "Filer Name", "Committee Name")
		candidate := field(rec, "Candidate Name")
		// "GOVERNOR" and not "GOV", so government-affairs PACs stay out.
		if !strings.Contains(strings.ToUpper(filer+" "+candidate), "GOVERNOR") {
			continue
		}

		amount, err := strconv.ParseFloat(
			strings.ReplaceAll(field(rec, "Receipt Amount"), ",", ""), 64)
		if err != nil || amount <= 0 {
			continue
		}
		kind := field(rec, "Receipt Transaction/Contribution Type", "Receipt Type")
		if strings.Contains(strings.ToLower(kind), "loan") {
			continue
		}

		last := field(rec, "Contributor or Source Name (Individual Last Name)", "Last Name")
		first := field(rec, "First Name")
		donor := strings.TrimSpace(first + " " + last)

		name := candidate
		if name == "" {
			name = filer
		}
		sourceType := field(rec, "Contributor or Transaction Source Type", "Receipt Source Type")
		rows = append(rows, stateContribution{
			candidate: name,
			donor:     donor,
			amount:    amount,
			category:  classifySourceType(sourceType, donor),
		})
	}
	return rows, nil
}

// classifySourceType maps a state platform's free-text source type to a
// donor category, guessing from the donor name when the type says nothing.
func classifySourceType(sourceType, donorName string) finance.DonorCategory {
	st := strings.ToLower(sourceType)
	switch {
	case strings.Contains(st, "individual") || strings.Contains(st, "person"):
		return finance.CategoryIndividual
	case strings.Contains(st, "pac") || strings.Contains(st, "committee"):
		return finance.CategoryPAC
	case strings.Contains(st, "party"):
		return finance.CategoryParty
	case strings.Contains(st, "corp") || strings.Contains(st, "business") ||
		strings.Contains(st, "organization"):
		return finance.CategoryOther
	}
	return finance.ClassifyReceipt("", finance.ItemizedReceipt{ContributorName: donorName})
}

// groupStateContributions folds raw contribution rows into per-candidate
// records: total raised, plus the top donors with repeat contributions
// summed per donor name.
func groupStateContributions(rows []stateContribution) []CandidateFinance {
	type donorTally struct {
		amount   float64
		category finance.DonorCategory
	}
	totals := make(map[string]float64)
	donors := make(map[string]map[string]*donorTally)
	var order []string

	for _, row := range rows {
		if _, ok := totals[row.candidate]; !ok {
			order = append(order, row.candidate)
			donors[row.candidate] = make(map[string]*donorTally)
		}
		totals[row.candidate] += row.amount
		if row.donor == "" {
			continue
		}
		t := donors[row.candidate][row.donor]
		if t == nil {
			t = &donorTally{}
			donors[row.candidate][row.donor] = t
		}
		t.amount += row.amount
		t.category = row.category
	}

	out := make([]CandidateFinance, 0, len(order))
	for _, candidate := range order {
		list := make([]finance.Donor, 0, len(donors[candidate]))
		for name, t := range donors[candidate] {
			list = append(list, finance.Donor{
				Name:          name,
				Amount:        t.amount,
				AmountDisplay: finance.FormatAmount(t.amount),
				Category:      t.category,
			})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].Amount != list[j].Amount {
				return list[i].Amount > list[j].Amount
			}
			return list[i].Name < list[j].Name
		})
		if len(list) > finance.AllDonorLimit {
			list = list[:finance.AllDonorLimit]
		}
		out = append(out, CandidateFinance{
			Name:        finance.TitleCase(candidate),
			TotalRaised: totals[candidate],
			Donors:      list,
		})
	}
	return out
}
