// Package states integrates the heterogeneous record sources used for
// gubernatorial races: a roster scraped from an election-reference site and
// per-state finance sources normalized to the shared FinancialSummary shape.
package states

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"whopaysthem/internal/finance"
)

// CandidateFinance is the normalized finance record every state source
// produces, joined to roster candidates by name.
type CandidateFinance struct {
	Name        string          `json:"name"`
	Party       string          `json:"party"`
	Incumbent   bool            `json:"incumbent"`
	TotalRaised float64         `json:"total_raised"`
	Donors      []finance.Donor `json:"donors"`
	SourceURL   string          `json:"source_url,omitempty"`
}

// FinanceSource defines a pluggable upstream provider of state-level
// campaign-finance records.
type FinanceSource interface {
	Name() string
	Covers(state string) bool
	Fetch(ctx context.Context, state string, cycle int) ([]CandidateFinance, error)
}

// Registry keeps track of the available finance sources. An empty registry
// is valid: enrichment simply leaves candidates without finance data, which
// the presentation layer renders as "no data yet".
type Registry struct {
	sources []FinanceSource
	log     *zap.SugaredLogger
}

// NewRegistry builds a registry with the provided sources.
func NewRegistry(log *zap.SugaredLogger, sources ...FinanceSource) *Registry {
	return &Registry{sources: sources, log: log}
}

// Add registers a new source instance.
func (r *Registry) Add(source FinanceSource) {
	r.sources = append(r.sources, source)
}

// Enrich joins roster candidates with finance records from the first source
// covering their state. A source failure leaves that state's candidates with
// empty finance data rather than failing the batch. Every candidate ends up
// with a disclosure link: the source's per-candidate page when it carries
// one, the state's disclosure portal otherwise.
func (r *Registry) Enrich(ctx context.Context, candidates []finance.Candidate, cycle int) []finance.Candidate {
	byState := make(map[string][]CandidateFinance)

	for i := range candidates {
		c := &candidates[i]
		records, ok := byState[c.State]
		if !ok {
			records = r.fetchState(ctx, c.State, cycle)
			byState[c.State] = records
		}

		matched := false
		for _, rec := range records {
			if finance.NamesMatch(c.Name, rec.Name) {
				c.Finance = finance.SummaryFromDonors(rec.TotalRaised, rec.Donors)
				if rec.SourceURL != "" {
					c.DisclosureURL = rec.SourceURL
				}
				matched = true
				break
			}
		}
		if !matched {
			c.Finance = finance.SummaryFromDonors(0, nil)
		}
		if c.DisclosureURL == "" {
			c.DisclosureURL = DisclosureURL(c.State)
		}
	}
	return candidates
}

func (r *Registry) fetchState(ctx context.Context, state string, cycle int) []CandidateFinance {
	for _, src := range r.sources {
		if !src.Covers(state) {
			continue
		}
		records, err := src.Fetch(ctx, state, cycle)
		if err != nil {
			r.log.Warnw("state finance source failed",
				"source", src.Name(), "state", state, "error", err)
			continue
		}
		if len(records) > 0 {
			return records
		}
	}
	return nil
}

// FileSource serves CandidateFinance documents from a JSON file, keyed by
// state. Used for manually curated state data and in tests.
type FileSource struct {
	name string
	path string
}

// NewFileSource returns a new FileSource referencing the given file.
func NewFileSource(name, path string) (*FileSource, error) {
	if name == "" {
		return nil, errors.New("states: file source requires a name")
	}
	if path == "" {
		return nil, errors.New("states: file source requires a path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("states: file source: %w", err)
	}
	return &FileSource{name: name, path: path}, nil
}

// Name returns the source name.
func (s *FileSource) Name() string { return s.name }

// Covers reports whether the file carries records for the state.
func (s *FileSource) Covers(state string) bool {
	records, err := s.load()
	if err != nil {
		return false
	}
	_, ok := records[state]
	return ok
}

// Fetch reads the file and returns the records for one state.
func (s *FileSource) Fetch(ctx context.Context, state string, _ int) ([]CandidateFinance, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	return records[state], nil
}

func (s *FileSource) load() (map[string][]CandidateFinance, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("states: read file source %s: %w", s.path, err)
	}
	var records map[string][]CandidateFinance
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("states: decode file source %s: %w", s.path, err)
	}
	return records, nil
}
