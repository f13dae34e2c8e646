package fec

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"whopaysthem/internal/finance"
)

type candidateRecord struct {
	CandidateID        string `json:"candidate_id"`
	Name               string `json:"name"`
	Party              string `json:"party"`
	PartyFull          string `json:"party_full"`
	State              string `json:"state"`
	District           string `json:"district"`
	IncumbentChallenge string `json:"incumbent_challenge"`
}

type candidatesPage struct {
	Results    []candidateRecord `json:"results"`
	Pagination pagination        `json:"pagination"`
}

type committeeRecord struct {
	CommitteeID     string `json:"committee_id"`
	DesignationFull string `json:"designation_full"`
}

type committeesPage struct {
	Results []committeeRecord `json:"results"`
}

// Candidates enumerates currently filed candidates for one state and office
// in the given cycle, paginating until exhaustion.
func (c *Client) Candidates(ctx context.Context, state string, office finance.Office, cycle int) ([]finance.Candidate, error) {
	officeCode := "S"
	if office == finance.OfficeHouse {
		officeCode = "H"
	}

	query := url.Values{}
	query.Set("state", state)
	query.Set("office", officeCode)
	query.Set("election_year", strconv.Itoa(cycle))
	query.Set("candidate_status", "C")
	query.Set("is_active_candidate", "true")
	query.Set("sort", "name")

	var out []finance.Candidate
	seen := make(map[string]bool)
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		var payload candidatesPage
		if err := c.get(ctx, "/candidates/", query, &payload); err != nil {
			return nil, err
		}

		for _, r := range payload.Results {
			if r.CandidateID == "" || seen[r.CandidateID] {
				continue
			}
			seen[r.CandidateID] = true

			cand := finance.Candidate{
				Name:      finance.TitleCase(r.Name),
				Party:     finance.NormalizeParty(r.Party),
				PartyFull: r.PartyFull,
				State:     state,
				Office:    office,
				Incumbent: r.IncumbentChallenge == "I",
				FECID:     r.CandidateID,
				FECURL:    fmt.Sprintf("https://www.fec.gov/data/candidate/%s/", r.CandidateID),
			}
			if cand.PartyFull == "" {
				cand.PartyFull = finance.PartyFullName(cand.Party)
			}
			if office == finance.OfficeHouse {
				cand.District = finance.NormalizeDistrict(r.District)
			}
			out = append(out, cand)
		}

		if payload.Pagination.Pages == 0 || page >= payload.Pagination.Pages {
			break
		}
	}
	return out, nil
}

// PrincipalCommittee resolves a candidate to their principal campaign
// committee. The roster endpoint does not carry committee data, so this is a
// separate lookup. Returns "" when the candidate has no committee yet, which
// is a normal state for new filings.
func (c *Client) PrincipalCommittee(ctx context.Context, candidateID string) (string, error) {
	query := url.Values{}
	query.Set("designation", "P")

	var payload committeesPage
	endpoint := fmt.Sprintf("/candidate/%s/committees/", candidateID)
	if err := c.get(ctx, endpoint, query, &payload); err != nil {
		return "", err
	}
	if len(payload.Results) == 0 {
		return "", nil
	}
	return payload.Results[0].CommitteeID, nil
}
