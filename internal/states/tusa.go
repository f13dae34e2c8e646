package states

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"whopaysthem/internal/finance"
)

const defaultTUSABaseURL = "https://transparencyusa.org"

// tusaStates are the governor-race states the TransparencyUSA aggregator
// covers. It is the preferred state-level source where available.
var tusaStates = map[string]bool{
	"AL": true, "AZ": true, "CA": true, "CO": true, "FL": true,
	"GA": true, "IL": true, "IA": true, "MI": true, "MN": true,
	"NV": true, "NH": true, "NM": true, "NY": true, "OH": true,
	"PA": true, "SC": true, "TX": true, "WI": true, "WY": true,
}

// TUSASource scrapes race and candidate pages from TransparencyUSA. The site
// has no API; candidate totals and donors are embedded in the page's inline
// Nuxt state payload.
type TUSASource struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
}

// NewTUSASource constructs the source.
func NewTUSASource(opts ...func(*TUSASource)) *TUSASource {
	s := &TUSASource{
		baseURL: defaultTUSABaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		delay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTUSABaseURL overrides the site location (useful for tests).
func WithTUSABaseURL(u string) func(*TUSASource) {
	return func(s *TUSASource) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// WithTUSAHTTPClient overrides the internal HTTP client.
func WithTUSAHTTPClient(hc *http.Client) func(*TUSASource) {
	return func(s *TUSASource) {
		s.httpClient = hc
	}
}

// WithTUSADelay adjusts the pause between candidate-page requests.
func WithTUSADelay(d time.Duration) func(*TUSASource) {
	return func(s *TUSASource) {
		s.delay = d
	}
}

// Name returns the source identifier.
func (s *TUSASource) Name() string { return "transparencyusa" }

// Covers reports whether this source carries the state.
func (s *TUSASource) Covers(state string) bool { return tusaStates[state] }

// Fetch scrapes the state's governor race page for candidate totals, then
// each funded candidate's page for their top donors. A failed candidate page
// costs only that candidate's donor list.
func (s *TUSASource) Fetch(ctx context.Context, state string, _ int) ([]CandidateFinance, error) {
	page, err := s.get(ctx, s.raceURL(state))
	if err != nil {
		return nil, err
	}

	var out []CandidateFinance
	fetched := 0
	for _, c := range parseTUSARace(page) {
		cf := CandidateFinance{
			Name:        c.name,
			Party:       finance.NormalizeParty(c.party),
			Incumbent:   c.incumbent,
			TotalRaised: c.total,
		}
		if c.hasData && c.slug != "" && c.total > 0 {
			cf.SourceURL = s.candidateURL(state, c.slug)
			if fetched > 0 && s.delay > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(s.delay):
				}
			}
			fetched++
			if donorPage, err := s.get(ctx, cf.SourceURL); err == nil {
				cf.Donors = parseTUSADonors(donorPage)
			}
		}
		out = append(out, cf)
	}
	return out, nil
}

func (s *TUSASource) raceURL(state string) string {
	slug := strings.ToLower(strings.ReplaceAll(finance.StateName(state), " ", "-"))
	return fmt.Sprintf("%s/%s/race/governor-of-%s", s.baseURL, strings.ToLower(state), slug)
}

func (s *TUSASource) candidateURL(state, slug string) string {
	return fmt.Sprintf("%s/%s/candidate/%s", s.baseURL, strings.ToLower(state), slug)
}

func (s *TUSASource) get(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("states: create tusa request: %w", err)
	}
	req.Header.Set("User-Agent", rosterUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("states: fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("states: %s returned status %d", u, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("states: read %s: %w", u, err)
	}
	return string(body), nil
}

// The inline state payload has the shape
//
//	window.__NUXT__=(function(a,b,...){...})(val1,val2,...);
//
// Scalar fields in the body reference the function parameters by name, so
// parsing needs the parameter-to-argument mapping first.
var (
	nuxtParamsRe = regexp.MustCompile(`window\.__NUXT__=\(function\(([^)]+)\)`)
	nuxtArgsRes  = []*regexp.Regexp{
		regexp.MustCompile(`(?s)\}\(((?:[^()]*|\([^()]*\))*)\)\)\s*;?\s*</script>`),
		regexp.MustCompile(`(?s)\}\)\(((?:[^()]*|\([^()]*\))*)\)\s*;?\s*</script>`),
	}
)

const (
	tusaVal = `(?:"(?:[^"\\]|\\.)*?"|[a-zA-Z_$]+)`
	tusaNum = `[^,}]+`
)

// candidateTotalLoans only appears for some states.
var tusaCandidateRe = regexp.MustCompile(
	`candidateFullName:(` + tusaVal + `),` +
		`candidateLastName:` + tusaVal + `,` +
		`candidateSlug:(` + tusaVal + `),` +
		`candidateImageName:` + tusaVal + `,` +
		`candidateBpUrl:` + tusaVal + `,` +
		`candidateStatus:` + tusaVal + `,` +
		`candidateIsWriteIn:` + tusaVal + `,` +
		`candidateIsIncumbent:(` + tusaVal + `),` +
		`candidateParty:(` + tusaVal + `),` +
		`candidateTotalContributions:(` + tusaNum + `),` +
		`candidateTotalExpenditures:` + tusaNum + `,` +
		`(?:candidateTotalLoans:` + tusaNum + `,)?` +
		`personHasTusaData:(` + tusaVal + `)`)

var tusaDonorRe = regexp.MustCompile(
	`electionAmount:([^,]+),contributorName:("(?:[^"\\]|\\.)*?"|[a-zA-Z_$]+)`)

type tusaCandidate struct {
	name      string
	slug      string
	party     string
	incumbent bool
	hasData   bool
	total     float64
}

func parseTUSARace(page string) []tusaCandidate {
	vars := nuxtVars(page)
	var out []tusaCandidate
	for _, m := range tusaCandidateRe.FindAllStringSubmatch(page, -1) {
		c := tusaCandidate{
			name:      resolveNuxtString(m[1], vars),
			slug:      resolveNuxtString(m[2], vars),
			incumbent: resolveNuxtBool(m[3], vars),
			party:     resolveNuxtString(m[4], vars),
			total:     resolveNuxtAmount(m[5], vars),
			hasData:   resolveNuxtBool(m[6], vars),
		}
		if c.name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func parseTUSADonors(page string) []finance.Donor {
	vars := nuxtVars(page)
	var donors []finance.Donor
	for _, m := range tusaDonorRe.FindAllStringSubmatch(page, -1) {
		amount := resolveNuxtAmount(m[1], vars)
		name := resolveNuxtString(m[2], vars)
		if name == "" || amount <= 0 || finance.IsUninformativeDonor(name) {
			continue
		}
		donors = append(donors, finance.Donor{
			Name:          name,
			Amount:        amount,
			AmountDisplay: finance.FormatAmount(amount),
			// The site does not distinguish donor kinds.
			Category: finance.CategoryIndividual,
		})
	}
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].Amount > donors[j].Amount
	})
	if len(donors) > finance.AllDonorLimit {
		donors = donors[:finance.AllDonorLimit]
	}
	return donors
}

// nuxtVars maps the state function's parameter names to the raw argument
// tokens it is invoked with.
func nuxtVars(page string) map[string]string {
	pm := nuxtParamsRe.FindStringSubmatch(page)
	if pm == nil {
		return nil
	}
	params := strings.Split(pm[1], ",")

	var argsRaw string
	for _, re := range nuxtArgsRes {
		if m := re.FindStringSubmatch(page); m != nil {
			argsRaw = m[1]
			break
		}
	}
	if argsRaw == "" {
		return nil
	}

	args := splitNuxtArgs(argsRaw)
	vars := make(map[string]string, len(params))
	for i, p := range params {
		if i < len(args) {
			vars[strings.TrimSpace(p)] = strings.TrimSpace(args[i])
		}
	}
	return vars
}

// splitNuxtArgs splits an argument list on top-level commas, leaving string
// literals and bracketed expressions like Array(8) intact.
func splitNuxtArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ',' && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func unquoteNuxt(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		token = token[1 : len(token)-1]
	}
	token = strings.ReplaceAll(token, `\u002F`, "/")
	return strings.ReplaceAll(token, `\"`, `"`)
}

func resolveNuxtString(token string, vars map[string]string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, `"`) {
		return unquoteNuxt(token)
	}
	if v, ok := vars[token]; ok {
		return unquoteNuxt(v)
	}
	return ""
}

func resolveNuxtBool(token string, vars map[string]string) bool {
	v := strings.TrimSpace(token)
	if mapped, ok := vars[v]; ok {
		v = mapped
	}
	v = unquoteNuxt(v)
	return v == "true" || v == "Y"
}

func resolveNuxtAmount(token string, vars map[string]string) float64 {
	v := strings.TrimSpace(token)
	if mapped, ok := vars[v]; ok {
		v = mapped
	}
	f, err := strconv.ParseFloat(unquoteNuxt(v), 64)
	if err != nil {
		return 0
	}
	return f
}
