// Package pipeline orchestrates the batch run: resolve districts, enumerate
// candidates per race, aggregate their finance profiles, and publish the
// static artifacts the lookup frontend reads.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"whopaysthem/internal/artifact"
	"whopaysthem/internal/cache"
	"whopaysthem/internal/config"
	"whopaysthem/internal/districts"
	"whopaysthem/internal/fec"
	"whopaysthem/internal/finance"
	"whopaysthem/internal/states"
)

// Pipeline wires the record sources to the artifact writer for one run.
type Pipeline struct {
	cfg config.Config
	log *zap.SugaredLogger

	fec       *fec.Client
	crosswalk *districts.Downloader
	roster    *states.Roster
	registry  *states.Registry
	writer    *artifact.Writer
}

// New assembles a pipeline from configuration. The cache and output
// directories are created eagerly so a bad path fails before any fetching.
func New(cfg config.Config, log *zap.SugaredLogger, opts ...func(*Pipeline)) (*Pipeline, error) {
	fileCache, err := cache.New(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	writer, err := artifact.NewWriter(cfg.OutputDir, log)
	if err != nil {
		return nil, err
	}

	// Registration order is precedence: the aggregator with per-candidate
	// pages first, then the direct state feeds, then the keyed aggregator
	// as a fallback for whatever the others leave empty.
	registry := states.NewRegistry(log)
	registry.Add(states.NewTUSASource())
	registry.Add(states.NewNebraskaSource())
	registry.Add(states.NewOklahomaSource())
	registry.Add(states.NewHawaiiSource())
	if cfg.FTMAPIKey != "" {
		registry.Add(states.NewFTMSource(cfg.FTMAPIKey))
	}

	ratePerMinute := cfg.FECRatePerMinute
	if ratePerMinute < 1 {
		ratePerMinute = 14
	}

	p := &Pipeline{
		cfg: cfg,
		log: log,
		fec: fec.NewClient(cfg.FECAPIKey,
			fec.WithLimiter(rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)),
			fec.WithRetries(cfg.FetchRetries),
		),
		crosswalk: districts.NewDownloader(fileCache, log),
		roster:    states.NewRoster(fileCache, log),
		registry:  registry,
		writer:    writer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// WithFECClient overrides the federal API client (useful for tests).
func WithFECClient(c *fec.Client) func(*Pipeline) {
	return func(p *Pipeline) { p.fec = c }
}

// WithCrosswalk overrides the district crosswalk downloader.
func WithCrosswalk(d *districts.Downloader) func(*Pipeline) {
	return func(p *Pipeline) { p.crosswalk = d }
}

// WithRoster overrides the governor roster fetcher.
func WithRoster(r *states.Roster) func(*Pipeline) {
	return func(p *Pipeline) { p.roster = r }
}

// WithRegistry overrides the state finance-source registry.
func WithRegistry(r *states.Registry) func(*Pipeline) {
	return func(p *Pipeline) { p.registry = r }
}

// Run executes the full batch: districts, federal races, governor races,
// artifacts. Individual race failures are logged and skipped; the run fails
// only when configuration is unusable or nothing could be published.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.cfg.FECAPIKey == "" {
		return &finance.ConfigError{Setting: "FEC_API_KEY", Reason: "access credential is required"}
	}
	runID := uuid.NewString()
	p.log.Infow("starting pipeline run", "run_id", runID, "cycle", p.cfg.ElectionYear)

	resolver, err := p.crosswalk.Build(ctx)
	if err != nil {
		return err
	}

	federal, err := p.fetchFederal(ctx)
	if err != nil {
		return err
	}
	governors := p.fetchGovernors(ctx)

	races := finance.AssembleRaces(append(federal, governors...))
	if len(races) == 0 {
		return fmt.Errorf("pipeline: no races assembled, nothing to publish")
	}

	var werr error
	werr = multierr.Append(werr, p.writer.WriteDistricts(resolver.Mappings()))
	werr = multierr.Append(werr, p.writer.WriteRaces(races))
	werr = multierr.Append(werr, p.writer.WriteMetadata(p.metadata(runID, len(races), resolver.Len())))
	if werr != nil {
		return werr
	}

	p.log.Infow("pipeline run complete", "run_id", runID, "races", len(races))
	return nil
}

// RunDistricts rebuilds and publishes only the postal-code lookup artifact.
func (p *Pipeline) RunDistricts(ctx context.Context) error {
	resolver, err := p.crosswalk.Build(ctx)
	if err != nil {
		return err
	}
	return p.writer.WriteDistricts(resolver.Mappings())
}

// RunGovernors refreshes only the governor races, merging them into the
// published race artifact and leaving federal races untouched. The roster
// cache is dropped first: the point of a governors-only run is to pick up
// roster changes, so serving the daily cache would make it a no-op.
func (p *Pipeline) RunGovernors(ctx context.Context) error {
	if err := p.roster.Invalidate(); err != nil {
		p.log.Warnw("could not invalidate roster cache", "error", err)
	}
	governors := p.fetchGovernors(ctx)
	if len(governors) == 0 {
		return fmt.Errorf("pipeline: no governor candidates fetched, keeping published races")
	}

	races, err := p.writer.ReadRaces()
	if err != nil {
		return err
	}
	for key, race := range finance.AssembleRaces(governors) {
		races[key] = race
	}
	return p.writer.WriteRaces(races)
}

// stateOffice is one fetch unit: every race for one office in one state.
type stateOffice struct {
	state  string
	office finance.Office
}

// fetchFederal enumerates and enriches Senate and House candidates with a
// bounded worker pool. One unit failing poisons only its own races.
func (p *Pipeline) fetchFederal(ctx context.Context) ([]finance.Candidate, error) {
	var units []stateOffice
	for _, state := range finance.SenateStates2026 {
		units = append(units, stateOffice{state: state, office: finance.OfficeSenate})
	}
	for _, state := range finance.HouseStates() {
		units = append(units, stateOffice{state: state, office: finance.OfficeHouse})
	}

	var (
		mu      sync.Mutex
		out     []finance.Candidate
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.FetchConcurrency)
	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			candidates, err := p.fetchUnit(gctx, unit)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				mu.Lock()
				skipped++
				mu.Unlock()
				p.log.Errorw("skipping races", "state", unit.state, "office", unit.office, "error", err)
				return nil
			}
			mu.Lock()
			out = append(out, candidates...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if skipped == len(units) {
		return nil, fmt.Errorf("pipeline: every federal fetch unit failed")
	}
	if skipped > 0 {
		p.log.Warnw("some federal races skipped", "skipped_units", skipped, "total_units", len(units))
	}
	return out, nil
}

func (p *Pipeline) fetchUnit(ctx context.Context, unit stateOffice) ([]finance.Candidate, error) {
	candidates, err := p.fec.Candidates(ctx, unit.state, unit.office, p.cfg.ElectionYear)
	if err != nil {
		return nil, err
	}

	out := make([]finance.Candidate, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if err := p.enrichCandidate(ctx, &c); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			ferr := &finance.RaceFetchError{
				RaceKey: finance.RaceKey(c.State, c.Office, c.District),
				Err:     err,
			}
			p.log.Errorw("skipping candidate", "candidate", c.Name, "error", ferr)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// enrichCandidate attaches the financial profile to one federal candidate:
// principal committee, official totals, top contributions, committee
// contributions, and outside spending against or for them.
func (p *Pipeline) enrichCandidate(ctx context.Context, c *finance.Candidate) error {
	committeeID, err := p.fec.PrincipalCommittee(ctx, c.FECID)
	if err != nil {
		return err
	}
	c.CommitteeID = committeeID

	if committeeID == "" {
		c.Finance = finance.BuildSummary(c.Name, nil, nil)
	} else {
		totals, err := p.fec.CommitteeTotals(ctx, committeeID, p.cfg.ElectionYear)
		if err != nil {
			return err
		}
		receipts, err := p.fec.ItemizedReceipts(ctx, committeeID, p.cfg.ElectionYear, true)
		if err != nil {
			return err
		}
		c.Finance = finance.BuildSummary(c.Name, totals, receipts)

		committee, err := p.fec.ItemizedReceipts(ctx, committeeID, p.cfg.ElectionYear, false)
		if err != nil {
			return err
		}
		finance.MergeDonors(&c.Finance, finance.DonorsFromReceipts(c.Name, committee))
	}

	expenditures, err := p.fec.IndependentExpenditures(ctx, c.FECID, p.cfg.ElectionYear)
	if err != nil {
		return err
	}
	c.OutsideSpending = finance.AggregateOutsideSpending(expenditures)
	return nil
}

// fetchGovernors builds the governor candidate set. State-level data is
// best-effort throughout: failures leave candidates with empty finance data
// rather than failing the batch.
func (p *Pipeline) fetchGovernors(ctx context.Context) []finance.Candidate {
	roster, err := p.roster.Fetch(ctx, p.cfg.ElectionYear)
	if err != nil {
		p.log.Errorw("governor roster unavailable", "error", err)
		return nil
	}
	return p.registry.Enrich(ctx, roster, p.cfg.ElectionYear)
}

func (p *Pipeline) metadata(runID string, raceCount, districtKeys int) artifact.Metadata {
	sources := []string{
		"Federal Election Commission",
		"U.S. Census Bureau",
		"Ballotpedia",
		"TransparencyUSA",
		"State disclosure agencies",
	}
	if p.cfg.FTMAPIKey != "" {
		sources = append(sources, "FollowTheMoney")
	}
	return artifact.Metadata{
		RunID:        runID,
		ElectionYear: p.cfg.ElectionYear,
		RaceCount:    raceCount,
		DistrictKeys: districtKeys,
		DataSources:  sources,
	}
}
