package districts

import (
	"strings"

	"whopaysthem/internal/finance"
)

// Resolver answers postal-code lookups against a parsed crosswalk. Immutable
// once built; rebuilt wholesale from the reference file on each run.
type Resolver struct {
	mappings map[string]finance.DistrictMapping
}

// Lookup resolves a 5-digit postal code. Unknown codes return a
// NotFoundError, an expected outcome for invalid or very new codes.
func (r *Resolver) Lookup(zip string) (finance.DistrictMapping, error) {
	zip = strings.TrimSpace(zip)
	mapping, ok := r.mappings[zip]
	if !ok {
		return finance.DistrictMapping{}, &finance.NotFoundError{Kind: "postal code", Key: zip}
	}
	return mapping, nil
}

// Mappings exposes the full index for artifact generation.
func (r *Resolver) Mappings() map[string]finance.DistrictMapping {
	return r.mappings
}

// Len reports the number of postal codes covered.
func (r *Resolver) Len() int { return len(r.mappings) }
