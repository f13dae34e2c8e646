package finance

import (
	"fmt"
	"sort"
	"strings"
)

// NormalizeDistrict folds the various upstream district spellings ("05",
// "00", "98", "") into a display identifier: leading zeros stripped,
// at-large seats as "AL".
func NormalizeDistrict(raw string) string {
	d := strings.TrimLeft(strings.TrimSpace(raw), "0")
	if d == "" || d == "98" {
		return AtLargeDistrict
	}
	return d
}

// RaceKey builds the composite lookup key for a race:
// "{state}-senate", "{state}-house-{district}", or "{state}-governor".
func RaceKey(state string, office Office, district string) string {
	switch office {
	case OfficeSenate:
		return state + "-senate"
	case OfficeGovernor:
		return state + "-governor"
	default:
		return state + "-house-" + NormalizeDistrict(district)
	}
}

// RaceLabel builds the human-readable race title.
func RaceLabel(state string, office Office, district string) string {
	name := StateName(state)
	switch office {
	case OfficeSenate:
		return fmt.Sprintf("U.S. Senate - %s", name)
	case OfficeGovernor:
		return fmt.Sprintf("Governor - %s", name)
	default:
		d := NormalizeDistrict(district)
		if d == AtLargeDistrict {
			return fmt.Sprintf("U.S. House - %s (At-Large)", name)
		}
		return fmt.Sprintf("U.S. House - %s, District %s", name, d)
	}
}

// AssembleRaces groups candidates into race records keyed by
// (state, office, district). Candidates within a race are sorted by total
// raised descending, ties broken alphabetically by name. Races with no
// candidates are never emitted.
func AssembleRaces(candidates []Candidate) map[string]Race {
	races := make(map[string]Race)
	for _, c := range candidates {
		key := RaceKey(c.State, c.Office, c.District)
		race, ok := races[key]
		if !ok {
			race = Race{
				Key:    key,
				Label:  RaceLabel(c.State, c.Office, c.District),
				State:  c.State,
				Office: c.Office,
			}
			if c.Office == OfficeHouse {
				race.District = NormalizeDistrict(c.District)
			}
		}
		race.Candidates = append(race.Candidates, c)
		races[key] = race
	}

	for key, race := range races {
		sort.Slice(race.Candidates, func(i, j int) bool {
			a, b := race.Candidates[i], race.Candidates[j]
			if a.Finance.TotalRaised != b.Finance.TotalRaised {
				return a.Finance.TotalRaised > b.Finance.TotalRaised
			}
			return a.Name < b.Name
		})
		races[key] = race
	}
	return races
}
