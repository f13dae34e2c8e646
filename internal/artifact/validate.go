package artifact

import (
	"fmt"

	"whopaysthem/internal/finance"
)

// maxProblems caps the problems collected per artifact so one systemic defect
// does not produce a megabyte of error text.
const maxProblems = 25

// ValidateDistricts checks the postal-code lookup dataset before publication.
func ValidateDistricts(mappings map[string]finance.DistrictMapping) error {
	v := &validator{artifact: DistrictsFile}
	if len(mappings) == 0 {
		v.addf("no postal codes mapped")
		return v.err()
	}
	for zip, m := range mappings {
		if len(zip) != 5 {
			v.addf("postal code %q is not 5 digits", zip)
		}
		if len(m.State) != 2 {
			v.addf("postal code %s: state %q is not a 2-letter code", zip, m.State)
		}
		if len(m.Districts) == 0 {
			v.addf("postal code %s: no districts", zip)
		}
		for _, d := range m.Districts {
			if d == "" {
				v.addf("postal code %s: empty district entry", zip)
			}
		}
		if v.full() {
			break
		}
	}
	return v.err()
}

// ValidateRaces checks the race dataset before publication: keys consistent
// with their race contents, candidate ordering, amount and display-string
// coherence, breakdown and donor-list invariants.
func ValidateRaces(races map[string]finance.Race) error {
	v := &validator{artifact: RacesFile}
	if len(races) == 0 {
		v.addf("no races assembled")
		return v.err()
	}
	for key, race := range races {
		if key != race.Key {
			v.addf("race %s: key field is %q", key, race.Key)
		}
		if want := finance.RaceKey(race.State, race.Office, race.District); key != want {
			v.addf("race %s: key does not match state/office/district (want %s)", key, want)
		}
		if len(race.Candidates) == 0 {
			v.addf("race %s: no candidates", key)
		}
		for i, c := range race.Candidates {
			v.candidate(key, c)
			if i > 0 {
				prev := race.Candidates[i-1]
				if c.Finance.TotalRaised > prev.Finance.TotalRaised {
					v.addf("race %s: candidates not sorted by total raised at %q", key, c.Name)
				}
				if c.Finance.TotalRaised == prev.Finance.TotalRaised && c.Name < prev.Name {
					v.addf("race %s: tied candidates not alphabetical at %q", key, c.Name)
				}
			}
		}
		if v.full() {
			break
		}
	}
	return v.err()
}

func (v *validator) candidate(raceKey string, c finance.Candidate) {
	if c.Name == "" {
		v.addf("race %s: candidate with empty name", raceKey)
		return
	}
	f := c.Finance
	if f.TotalRaised < 0 || f.TotalSpent < 0 {
		v.addf("race %s: %s has negative totals", raceKey, c.Name)
	}
	if want := finance.FormatAmount(f.TotalRaised); f.TotalRaisedDisplay != want {
		v.addf("race %s: %s total_raised_display %q != %q", raceKey, c.Name, f.TotalRaisedDisplay, want)
	}

	b := f.Breakdown
	sum := b.Individual + b.PAC + b.Party + b.Self + b.Other
	// Whole-number rounding can push the named categories a little past 100.
	if sum > 105 {
		v.addf("race %s: %s funding breakdown sums to %.1f", raceKey, c.Name, sum)
	}
	if b.Individual < 0 || b.PAC < 0 || b.Party < 0 || b.Self < 0 || b.Other < 0 {
		v.addf("race %s: %s funding breakdown has a negative share", raceKey, c.Name)
	}

	v.donors(raceKey, c.Name, "top_donors", f.TopDonors, finance.TopDonorLimit)
	v.donors(raceKey, c.Name, "all_donors", f.AllDonors, finance.AllDonorLimit)
	for i := range f.TopDonors {
		if i >= len(f.AllDonors) || f.TopDonors[i] != f.AllDonors[i] {
			v.addf("race %s: %s top_donors is not a prefix of all_donors", raceKey, c.Name)
			break
		}
	}

	if os := c.OutsideSpending; os != nil {
		if os.Support < 0 || os.Oppose < 0 {
			v.addf("race %s: %s has negative outside spending", raceKey, c.Name)
		}
		if len(os.TopSpenders) > finance.TopSpenderLimit {
			v.addf("race %s: %s has %d top spenders", raceKey, c.Name, len(os.TopSpenders))
		}
	}
}

func (v *validator) donors(raceKey, name, field string, donors []finance.Donor, limit int) {
	if len(donors) > limit {
		v.addf("race %s: %s %s has %d entries (limit %d)", raceKey, name, field, len(donors), limit)
	}
	for i, d := range donors {
		if d.Amount < 0 {
			v.addf("race %s: %s %s entry %q has negative amount", raceKey, name, field, d.Name)
		}
		if i > 0 && d.Amount > donors[i-1].Amount {
			v.addf("race %s: %s %s not sorted by amount", raceKey, name, field)
			break
		}
	}
}

type validator struct {
	artifact string
	problems []string
}

func (v *validator) addf(format string, args ...interface{}) {
	if !v.full() {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validator) full() bool { return len(v.problems) >= maxProblems }

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &finance.ValidationError{Artifact: v.artifact, Problems: v.problems}
}
