package finance

import (
	"fmt"
	"strings"
)

// NotFoundError signals that a lookup key has no mapping. It is an expected
// outcome (unknown postal codes, districts without filed candidates) and must
// never abort a batch.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("finance: %s %q not found", e.Kind, e.Key)
}

// RateLimitError reports that an upstream source kept throttling after the
// retry budget was exhausted.
type RateLimitError struct {
	Endpoint string
	Attempts int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("finance: rate limited on %s after %d attempts", e.Endpoint, e.Attempts)
}

// RaceFetchError records a failure isolated to a single race. The race is
// logged and skipped; the rest of the batch continues.
type RaceFetchError struct {
	RaceKey string
	Err     error
}

func (e *RaceFetchError) Error() string {
	return fmt.Sprintf("finance: fetch race %s: %v", e.RaceKey, e.Err)
}

func (e *RaceFetchError) Unwrap() error { return e.Err }

// ValidationError reports inconsistencies in an aggregated dataset. It aborts
// the artifact write for that dataset only, leaving the previous artifact in
// place.
type ValidationError struct {
	Artifact string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("finance: %s failed validation: %s", e.Artifact, strings.Join(e.Problems, "; "))
}

// ConfigError signals missing or unusable configuration. Fatal: the run
// aborts before any fetching begins.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("finance: configuration %s: %s", e.Setting, e.Reason)
}
