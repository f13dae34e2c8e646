package fec

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"whopaysthem/internal/finance"
)

type totalsRecord struct {
	Receipts              float64 `json:"receipts"`
	Disbursements         float64 `json:"disbursements"`
	IndividualItemized    float64 `json:"individual_itemized_contributions"`
	IndividualUnitemized  float64 `json:"individual_unitemized_contributions"`
	OtherCommittee        float64 `json:"other_political_committee_contributions"`
	PartyCommittee        float64 `json:"political_party_committee_contributions"`
	CandidateContribution float64 `json:"candidate_contribution"`
	CashOnHand            float64 `json:"last_cash_on_hand_end_period"`
}

type totalsPage struct {
	Results []totalsRecord `json:"results"`
}

type receiptRecord struct {
	ContributorName       string  `json:"contributor_name"`
	ContributorEmployer   string  `json:"contributor_employer"`
	ContributorOccupation string  `json:"contributor_occupation"`
	Amount                float64 `json:"contribution_receipt_amount"`
	EntityType            string  `json:"entity_type"`
}

type receiptsPage struct {
	Results []receiptRecord `json:"results"`
}

// CommitteeTotals fetches the official financial-summary record for a
// committee. Returns nil when the committee has not filed one yet.
func (c *Client) CommitteeTotals(ctx context.Context, committeeID string, cycle int) (*finance.EntityTotals, error) {
	query := url.Values{}
	query.Set("cycle", strconv.Itoa(cycle))

	var payload totalsPage
	endpoint := fmt.Sprintf("/committee/%s/totals/", committeeID)
	if err := c.get(ctx, endpoint, query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	t := payload.Results[0]
	return &finance.EntityTotals{
		Raised:               t.Receipts,
		Spent:                t.Disbursements,
		IndividualItemized:   t.IndividualItemized,
		IndividualUnitemized: t.IndividualUnitemized,
		PAC:                  t.OtherCommittee,
		Party:                t.PartyCommittee,
		CandidateSelf:        t.CandidateContribution,
		CashOnHand:           t.CashOnHand,
	}, nil
}

// ItemizedReceipts fetches the largest itemized contributions to a committee
// for the reporting period. individual selects person-level receipts;
// otherwise committee-level (PAC, party, transfer) receipts are returned.
// One page of the top results is enough for ranking.
func (c *Client) ItemizedReceipts(ctx context.Context, committeeID string, cycle int, individual bool) ([]finance.ItemizedReceipt, error) {
	query := url.Values{}
	query.Set("committee_id", committeeID)
	query.Set("two_year_transaction_period", strconv.Itoa(cycle))
	query.Set("sort", "-contribution_receipt_amount")
	query.Set("is_individual", strconv.FormatBool(individual))

	var payload receiptsPage
	if err := c.get(ctx, "/schedules/schedule_a/", query, &payload); err != nil {
		return nil, err
	}

	receipts := make([]finance.ItemizedReceipt, 0, len(payload.Results))
	for _, r := range payload.Results {
		receipts = append(receipts, finance.ItemizedReceipt{
			ContributorName: r.ContributorName,
			Employer:        r.ContributorEmployer,
			Occupation:      r.ContributorOccupation,
			Amount:          r.Amount,
			EntityType:      r.EntityType,
		})
	}
	return receipts, nil
}
