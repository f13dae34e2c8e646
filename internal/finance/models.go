package finance

// Office identifies the kind of electoral contest a race is for.
type Office string

const (
	OfficeSenate   Office = "U.S. Senate"
	OfficeHouse    Office = "U.S. House"
	OfficeGovernor Office = "Governor"
)

// AtLargeDistrict is the synthetic district identifier used for states with a
// single House seat.
const AtLargeDistrict = "AL"

// DistrictMapping describes the electoral districts covering one 5-digit
// postal code. A postal code maps to exactly one state but may straddle
// several House districts.
type DistrictMapping struct {
	State     string   `json:"state"`
	StateName string   `json:"state_name"`
	Districts []string `json:"districts"`
}

// Race is a single electoral contest with its candidates, keyed by
// state/office (and district for House seats). Races are rebuilt wholesale on
// every pipeline run and never mutated afterwards.
type Race struct {
	Key        string      `json:"race_key"`
	Label      string      `json:"label"`
	State      string      `json:"state"`
	Office     Office      `json:"office"`
	District   string      `json:"district,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one filed candidate within a race together with the derived
// financial profile of their reporting entity.
type Candidate struct {
	Name        string `json:"name"`
	Party       string `json:"party"`
	PartyFull   string `json:"party_full"`
	State       string `json:"state"`
	District    string `json:"district,omitempty"`
	Office      Office `json:"office"`
	Incumbent   bool   `json:"incumbent"`
	FECID       string `json:"fec_id"`
	CommitteeID string `json:"-"`

	// External record-source references for the presentation layer.
	FECURL        string `json:"fec_url"`
	DisclosureURL string `json:"state_disclosure_url,omitempty"`

	Finance         FinancialSummary `json:"finance"`
	OutsideSpending *OutsideSpending `json:"outside_spending,omitempty"`
}

// FinancialSummary is the aggregated financial profile of a reporting entity
// for one reporting period.
type FinancialSummary struct {
	TotalRaised        float64 `json:"total_raised"`
	TotalRaisedDisplay string  `json:"total_raised_display"`
	TotalSpent         float64 `json:"total_spent,omitempty"`
	TotalSpentDisplay  string  `json:"total_spent_display,omitempty"`
	CashOnHand         float64 `json:"cash_on_hand,omitempty"`

	Breakdown FundingBreakdown `json:"funding_breakdown"`

	// TopDonors holds up to five ranked donors for the summary view;
	// AllDonors up to ten for the detail view. Both sorted by amount
	// descending, ties in encounter order.
	TopDonors []Donor `json:"top_donors"`
	AllDonors []Donor `json:"all_donors"`

	// NoOfficialTotals marks summaries whose percentages were derived from
	// itemized records because the source reported no usable totals.
	NoOfficialTotals bool `json:"no_official_totals,omitempty"`
	// NoData marks candidates with no reported finance activity at all.
	NoData bool `json:"no_data,omitempty"`
}

// FundingBreakdown holds whole-number percentages of total raised per
// contribution category. Categories at 0% stay present internally; the
// presentation layer omits them.
type FundingBreakdown struct {
	Individual float64 `json:"individual"`
	PAC        float64 `json:"pac"`
	Party      float64 `json:"party"`
	Self       float64 `json:"self"`
	Other      float64 `json:"other"`
}

// DonorCategory classifies the origin of a grouped contribution.
type DonorCategory string

const (
	CategoryIndividual DonorCategory = "individual"
	CategoryPAC        DonorCategory = "pac"
	CategoryParty      DonorCategory = "party"
	CategorySelf       DonorCategory = "self"
	CategoryOther      DonorCategory = "other"
)

// Donor is one grouped contributor (a person, an employer bucket of people,
// or a committee) with its summed amount.
type Donor struct {
	Name          string        `json:"name"`
	Amount        float64       `json:"amount"`
	AmountDisplay string        `json:"amount_display"`
	Category      DonorCategory `json:"type"`
	Description   string        `json:"description,omitempty"`
}

// OutsideSpending aggregates independent expenditures targeting a candidate.
// Federal races only; nil when no group reported spending.
type OutsideSpending struct {
	Support        float64        `json:"support"`
	Oppose         float64        `json:"oppose"`
	SupportDisplay string         `json:"support_display"`
	OpposeDisplay  string         `json:"oppose_display"`
	TopSpenders    []SpenderEntry `json:"top_spenders"`
}

// Support/oppose designations carried on independent-expenditure records.
const (
	DesignationSupport = "S"
	DesignationOppose  = "O"
)

// SpenderEntry is one outside group's total spending under one designation.
type SpenderEntry struct {
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	AmountDisplay string  `json:"amount_display"`
	Designation   string  `json:"support_oppose"`
}

// ItemizedReceipt is a single disclosed contribution above the reporting
// threshold, as normalized from an upstream source.
type ItemizedReceipt struct {
	ContributorName string
	Employer        string
	Occupation      string
	Amount          float64
	// EntityType is the source-provided contributor entity code
	// (IND, PAC, COM, PTY, CAN, CCM, ORG).
	EntityType string
}

// IndependentExpenditure is a single outside-spending record already
// attributed to one target candidate. A filing naming several candidates
// yields one record per candidate with that candidate's own amount.
type IndependentExpenditure struct {
	CommitteeID   string
	CommitteeName string
	Amount        float64
	Designation   string
	CandidateID   string
}

// EntityTotals is the official financial-summary record for a reporting
// entity, when the source provides one.
type EntityTotals struct {
	Raised               float64
	Spent                float64
	IndividualItemized   float64
	IndividualUnitemized float64
	PAC                  float64
	Party                float64
	CandidateSelf        float64
	CashOnHand           float64
}
