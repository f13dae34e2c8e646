package states

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"whopaysthem/internal/cache"
	"whopaysthem/internal/finance"
)

const (
	defaultRosterBaseURL = "https://ballotpedia.org"
	rosterCacheName      = "governors_raw.json"
	rosterCacheMaxAge    = 24 * time.Hour
	rosterUserAgent      = "whopaysthem/1.0 (civic data project)"
)

// Roster fetches the gubernatorial candidate listing. No free API provides
// this data, so it is scraped from per-state election reference pages.
type Roster struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	log        *zap.SugaredLogger
	delay      time.Duration
}

// NewRoster constructs a roster fetcher.
func NewRoster(c *cache.Cache, log *zap.SugaredLogger, opts ...func(*Roster)) *Roster {
	r := &Roster{
		baseURL: defaultRosterBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: c,
		log:   log,
		// Polite pause between states; reference site throttles scrapers.
		delay: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithRosterBaseURL overrides the reference-site location (useful for tests).
func WithRosterBaseURL(u string) func(*Roster) {
	return func(r *Roster) {
		if u != "" {
			r.baseURL = u
		}
	}
}

// WithRosterHTTPClient overrides the internal HTTP client.
func WithRosterHTTPClient(hc *http.Client) func(*Roster) {
	return func(r *Roster) {
		r.httpClient = hc
	}
}

// WithRosterDelay adjusts the pause between state requests.
func WithRosterDelay(d time.Duration) func(*Roster) {
	return func(r *Roster) {
		r.delay = d
	}
}

// Invalidate discards the cached roster so the next Fetch scrapes fresh
// pages. Used by governors-only refreshes, which exist to pick up roster
// changes the daily cache would hide.
func (r *Roster) Invalidate() error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Remove(rosterCacheName)
}

// Fetch returns the governor candidates for every state electing in the
// cycle. States whose page cannot be fetched or parsed are logged and
// skipped.
func (r *Roster) Fetch(ctx context.Context, cycle int) ([]finance.Candidate, error) {
	var cached []finance.Candidate
	if r.cache != nil && r.cache.ReadJSON(rosterCacheName, rosterCacheMaxAge, &cached) {
		r.log.Debugw("using cached governor roster", "candidates", len(cached))
		return cached, nil
	}

	var all []finance.Candidate
	for i, state := range finance.GovernorStates2026 {
		if i > 0 && r.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.delay):
			}
		}

		candidates, err := r.fetchState(ctx, state, cycle)
		if err != nil {
			r.log.Warnw("governor roster fetch failed", "state", state, "error", err)
			continue
		}
		if len(candidates) == 0 {
			r.log.Warnw("no governor candidates found", "state", state)
			continue
		}
		all = append(all, candidates...)
	}

	if r.cache != nil && len(all) > 0 {
		if err := r.cache.WriteJSON(rosterCacheName, all); err != nil {
			r.log.Warnw("could not cache governor roster", "error", err)
		}
	}
	return all, nil
}

// fetchState tries the known URL patterns for one state's race page. Some
// states elect governor and lieutenant governor on a joint ticket and use a
// longer page slug.
func (r *Roster) fetchState(ctx context.Context, state string, cycle int) ([]finance.Candidate, error) {
	slug := strings.ReplaceAll(finance.StateName(state), " ", "_")
	urls := []string{
		fmt.Sprintf("%s/%s_gubernatorial_election,_%d", r.baseURL, slug, cycle),
		fmt.Sprintf("%s/%s_gubernatorial_and_lieutenant_gubernatorial_election,_%d", r.baseURL, slug, cycle),
	}

	var lastErr error
	for _, u := range urls {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("states: create roster request: %w", err)
		}
		req.Header.Set("User-Agent", rosterUserAgent)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("states: fetch roster %s: %w", u, err)
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("states: roster %s returned status %d", u, resp.StatusCode)
			continue
		}

		candidates, err := ParseRosterPage(resp.Body, state)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, lastErr
}

// ParseRosterPage extracts governor candidates from one state race page.
// Only ballot boxes describing the current cycle ("is running"/"running in")
// are considered; historical result boxes are skipped.
func ParseRosterPage(page io.Reader, state string) ([]finance.Candidate, error) {
	doc, err := html.Parse(page)
	if err != nil {
		return nil, fmt.Errorf("states: parse roster page: %w", err)
	}

	var candidates []finance.Candidate
	seen := make(map[string]bool)

	for _, box := range findAll(doc, byClass("div", "votebox")) {
		header := firstMatch(box, byClass("div", "race_header"))
		if header == nil {
			continue
		}
		headerText := strings.ToLower(nodeText(header))

		resultsText := ""
		if results := firstMatch(box, byClass("p", "results_text")); results != nil {
			resultsText = strings.ToLower(nodeText(results))
		}
		if !strings.Contains(resultsText, "running in") && !strings.Contains(resultsText, "is running") {
			continue
		}

		demPrimary := strings.Contains(headerText, "democratic primary")
		repPrimary := strings.Contains(headerText, "republican primary")

		for _, row := range findAll(box, byClass("tr", "results_row")) {
			link := firstMatch(row, byTag("a"))
			if link == nil {
				continue
			}
			name := strings.TrimSpace(nodeText(link))
			if len(name) < 3 || name == "Submit photo" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true

			rowText := nodeText(row)
			party := rowParty(row, rowText, demPrimary, repPrimary)

			candidates = append(candidates, finance.Candidate{
				Name:      name,
				Party:     party,
				PartyFull: finance.PartyFullName(party),
				State:     state,
				Office:    finance.OfficeGovernor,
				Incumbent: strings.Contains(rowText, "Incumbent"),
			})
		}
	}
	return candidates, nil
}

// rowParty resolves a candidate's party from the thumbnail class, the
// primary the ballot box belongs to, or party keywords in the row text.
func rowParty(row *html.Node, rowText string, demPrimary, repPrimary bool) string {
	raw := ""
	if thumb := firstMatch(row, byClassContains("div", "image-candidate-thumbnail-wrapper")); thumb != nil {
		for _, cls := range strings.Fields(attr(thumb, "class")) {
			if cls != "image-candidate-thumbnail-wrapper" {
				raw = cls
				break
			}
		}
	}
	if raw == "" {
		if demPrimary {
			raw = "Democratic"
		} else if repPrimary {
			raw = "Republican"
		}
	}
	if raw == "" {
		lower := strings.ToLower(rowText)
		switch {
		case strings.Contains(lower, "democratic") || strings.Contains(lower, "(d)"):
			raw = "Democratic"
		case strings.Contains(lower, "republican") || strings.Contains(lower, "(r)"):
			raw = "Republican"
		case strings.Contains(lower, "libertarian") || strings.Contains(lower, "(l)"):
			raw = "Libertarian"
		case strings.Contains(lower, "green") || strings.Contains(lower, "(g)"):
			raw = "Green"
		}
	}
	return finance.NormalizeParty(raw)
}
