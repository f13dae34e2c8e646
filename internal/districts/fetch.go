package districts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"whopaysthem/internal/cache"
)

// crosswalkURL serves the relationship file for the 119th Congress mapped to
// 2020 ZCTAs. Refreshed upstream independently of this pipeline's schedule.
const crosswalkURL = "https://www2.census.gov/geo/docs/maps-data/data/rel2020/cd-sld/tab20_cd11920_zcta520_natl.txt"

const crosswalkCacheName = "zcta_cd_raw.txt"

// Downloader fetches the crosswalk file, keeping a local copy so reruns skip
// the multi-megabyte download.
type Downloader struct {
	url        string
	httpClient *http.Client
	cache      *cache.Cache
	log        *zap.SugaredLogger
}

// NewDownloader constructs a downloader writing through the given cache.
func NewDownloader(c *cache.Cache, log *zap.SugaredLogger, opts ...func(*Downloader)) *Downloader {
	d := &Downloader{
		url: crosswalkURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		cache: c,
		log:   log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithURL overrides the crosswalk location (useful for tests).
func WithURL(u string) func(*Downloader) {
	return func(d *Downloader) {
		if u != "" {
			d.url = u
		}
	}
}

// WithHTTPClient overrides the internal HTTP client.
func WithHTTPClient(hc *http.Client) func(*Downloader) {
	return func(d *Downloader) {
		d.httpClient = hc
	}
}

// Build downloads (or reuses) the crosswalk and parses it into a Resolver.
func (d *Downloader) Build(ctx context.Context) (*Resolver, error) {
	raw, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := ParseCrosswalk(raw)
	if err != nil {
		return nil, err
	}
	d.log.Infow("built district resolver", "postal_codes", resolver.Len())
	return resolver, nil
}

func (d *Downloader) fetch(ctx context.Context) (string, error) {
	if d.cache != nil {
		if raw, ok := d.cache.ReadString(crosswalkCacheName, 0); ok {
			d.log.Debugw("using cached crosswalk", "bytes", len(raw))
			return raw, nil
		}
	}

	d.log.Infow("downloading district crosswalk", "url", d.url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return "", fmt.Errorf("districts: create request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("districts: download crosswalk: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("districts: crosswalk download failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("districts: read crosswalk: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.WriteString(crosswalkCacheName, string(data)); err != nil {
			d.log.Warnw("could not cache crosswalk", "error", err)
		}
	}
	return string(data), nil
}
