// Package districts maps 5-digit postal codes to electoral districts using
// the national ZCTA-to-congressional-district relationship file.
package districts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"whopaysthem/internal/finance"
)

var fipsToState = map[string]string{
	"01": "AL", "02": "AK", "04": "AZ", "05": "AR", "06": "CA",
	"08": "CO", "09": "CT", "10": "DE", "11": "DC", "12": "FL",
	"13": "GA", "15": "HI", "16": "ID", "17": "IL", "18": "IN",
	"19": "IA", "20": "KS", "21": "KY", "22": "LA", "23": "ME",
	"24": "MD", "25": "MA", "26": "MI", "27": "MN", "28": "MS",
	"29": "MO", "30": "MT", "31": "NE", "32": "NV", "33": "NH",
	"34": "NJ", "35": "NM", "36": "NY", "37": "NC", "38": "ND",
	"39": "OH", "40": "OK", "41": "OR", "42": "PA", "44": "RI",
	"45": "SC", "46": "SD", "47": "TN", "48": "TX", "49": "UT",
	"50": "VT", "51": "VA", "53": "WA", "54": "WV", "55": "WI",
	"56": "WY", "60": "AS", "66": "GU", "69": "MP", "72": "PR",
	"78": "VI",
}

// ParseCrosswalk reads the relationship file (pipe- or comma-delimited) into
// a Resolver. District lists preserve file order with duplicates removed.
func ParseCrosswalk(raw string) (*Resolver, error) {
	rows, err := readRows(raw, '|')
	if err != nil || len(rows) == 0 || len(rows[0]) < 2 {
		// Backup format is comma-delimited.
		rows, err = readRows(raw, ',')
		if err != nil {
			return nil, fmt.Errorf("districts: parse crosswalk: %w", err)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("districts: empty crosswalk file")
	}

	zctaCol, cdCol, stateCol := findColumns(rows[0])

	mappings := make(map[string]*finance.DistrictMapping)
	for _, row := range rows[1:] {
		if len(row) <= zctaCol || len(row) <= cdCol {
			continue
		}
		zcta := strings.TrimSpace(row[zctaCol])
		geoid := strings.TrimSpace(row[cdCol])
		if len(zcta) < 5 || geoid == "" {
			continue
		}

		state, district := splitGeoid(geoid, stateCol, row)
		if state == "" {
			continue
		}

		entry, ok := mappings[zcta]
		if !ok {
			entry = &finance.DistrictMapping{
				State:     state,
				StateName: finance.StateName(state),
			}
			mappings[zcta] = entry
		}
		if !contains(entry.Districts, district) {
			entry.Districts = append(entry.Districts, district)
		}
	}

	out := make(map[string]finance.DistrictMapping, len(mappings))
	for zcta, entry := range mappings {
		out[zcta] = *entry
	}
	return &Resolver{mappings: out}, nil
}

func readRows(raw string, delim rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// findColumns locates the postal-code, district-GEOID, and optional state
// columns; the file's header names vary across vintages.
func findColumns(header []string) (zctaCol, cdCol, stateCol int) {
	zctaCol, cdCol, stateCol = -1, -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(name, "zcta") && strings.Contains(name, "geoid"):
			zctaCol = i
		case name == "zcta5" || name == "zcta" || name == "zip" || name == "zipcode" || name == "zip_code":
			zctaCol = i
		case strings.Contains(name, "cd119") && strings.Contains(name, "geoid"):
			cdCol = i
		case name == "geoid" || name == "cd" || name == "cd119" || name == "congressional_district" || name == "district":
			cdCol = i
		case name == "state" || name == "statefp" || name == "state_fips":
			stateCol = i
		}
	}
	if zctaCol < 0 {
		zctaCol = 0
	}
	if cdCol < 0 {
		cdCol = 1
	}
	return zctaCol, cdCol, stateCol
}

// splitGeoid decodes a combined GEOID (2-digit state FIPS + district number)
// or, failing that, a bare district number paired with a state column.
func splitGeoid(geoid string, stateCol int, row []string) (state, district string) {
	if len(geoid) >= 4 {
		state = fipsToState[geoid[:2]]
		district = normalizeDistrictNumber(geoid[2:])
		return state, district
	}
	if stateCol >= 0 && len(row) > stateCol {
		state = fipsToState[strings.TrimSpace(row[stateCol])]
		district = normalizeDistrictNumber(geoid)
		return state, district
	}
	return "", ""
}

func normalizeDistrictNumber(raw string) string {
	d := strings.TrimLeft(raw, "0")
	// "00" and "98" both mean an at-large seat.
	if d == "" || d == "98" {
		return finance.AtLargeDistrict
	}
	return d
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
