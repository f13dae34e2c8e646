package fec

import (
	"context"
	"net/url"
	"strconv"

	"whopaysthem/internal/finance"
)

type expenditureRecord struct {
	CommitteeID   string  `json:"committee_id"`
	CommitteeName string  `json:"committee_name"`
	Amount        float64 `json:"expenditure_amount"`
	SupportOppose string  `json:"support_oppose_indicator"`
	CandidateID   string  `json:"candidate_id"`
	Committee     *struct {
		Name string `json:"name"`
	} `json:"committee"`
}

type expendituresPage struct {
	Results []expenditureRecord `json:"results"`
}

// IndependentExpenditures fetches outside-group spending records that target
// one candidate. The endpoint keys each record by target candidate, so a
// filing naming several candidates yields this candidate's own allocation
// only.
func (c *Client) IndependentExpenditures(ctx context.Context, candidateID string, cycle int) ([]finance.IndependentExpenditure, error) {
	query := url.Values{}
	query.Set("candidate_id", candidateID)
	query.Set("cycle", strconv.Itoa(cycle))
	query.Set("sort", "-expenditure_amount")

	var payload expendituresPage
	if err := c.get(ctx, "/schedules/schedule_e/", query, &payload); err != nil {
		return nil, err
	}

	out := make([]finance.IndependentExpenditure, 0, len(payload.Results))
	for _, r := range payload.Results {
		name := r.CommitteeName
		if r.Committee != nil && r.Committee.Name != "" {
			name = r.Committee.Name
		}
		out = append(out, finance.IndependentExpenditure{
			CommitteeID:   r.CommitteeID,
			CommitteeName: name,
			Amount:        r.Amount,
			Designation:   r.SupportOppose,
			CandidateID:   r.CandidateID,
		})
	}
	return out, nil
}
