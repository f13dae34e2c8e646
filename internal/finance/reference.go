package finance

import "strings"

// States lists every postal abbreviation the pipeline knows about, including
// DC and the territories.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	"DC", "PR", "GU", "VI", "AS", "MP",
}

// SenateStates2026 lists the Class II seats up in the 2026 cycle.
var SenateStates2026 = []string{
	"AL", "AK", "AR", "CO", "DE", "GA", "ID", "IL", "IA", "KS",
	"KY", "LA", "ME", "MA", "MI", "MN", "MS", "MT", "NE", "NH",
	"NJ", "NM", "NC", "OK", "OR", "RI", "SC", "SD", "TN", "TX",
	"VA", "WV", "WY",
}

// GovernorStates2026 lists the 36 states electing a governor in 2026.
var GovernorStates2026 = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "FL", "GA", "HI",
	"ID", "IL", "IA", "KS", "ME", "MD", "MA", "MI", "MN", "NE",
	"NV", "NH", "NM", "NY", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "VT", "WI", "WY",
}

// territories have no House races worth enumerating in this dataset.
var territories = map[string]bool{
	"PR": true, "GU": true, "VI": true, "AS": true, "MP": true,
}

// HouseStates returns the states enumerated for House races.
func HouseStates() []string {
	out := make([]string, 0, len(States))
	for _, s := range States {
		if territories[s] {
			continue
		}
		out = append(out, s)
	}
	return out
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
	"PR": "Puerto Rico", "GU": "Guam", "VI": "U.S. Virgin Islands",
	"AS": "American Samoa", "MP": "Northern Mariana Islands",
}

// StateName returns the display name for a postal abbreviation, falling back
// to the abbreviation itself for unknown codes.
func StateName(code string) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return code
}

var partyCodes = map[string]string{
	"DEM": "D", "REP": "R", "LIB": "L", "GRE": "G",
	"IND": "I", "CON": "C", "DFL": "D", "NNE": "I",
	"D": "D", "R": "R", "L": "L", "G": "G", "I": "I", "C": "C",
}

var partyFull = map[string]string{
	"D": "Democratic Party",
	"R": "Republican Party",
	"L": "Libertarian Party",
	"G": "Green Party",
	"I": "Independent",
	"C": "Constitution Party",
}

// NormalizeParty maps a source-provided party string to a single-letter code.
// Unknown parties fall back to their first letter, or "I" when empty.
func NormalizeParty(raw string) string {
	raw = strings.TrimSpace(raw)
	if code, ok := partyCodes[strings.ToUpper(raw)]; ok {
		return code
	}
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "democrat"):
		return "D"
	case strings.Contains(lower, "republican"):
		return "R"
	case strings.Contains(lower, "libertarian"):
		return "L"
	case strings.Contains(lower, "green"):
		return "G"
	}
	if raw == "" {
		return "I"
	}
	return strings.ToUpper(raw[:1])
}

// PartyFullName returns the display name for a single-letter party code.
func PartyFullName(code string) string {
	if full, ok := partyFull[code]; ok {
		return full
	}
	return "Independent"
}
