package finance

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// TopDonorLimit bounds the ranked donor list in the summary view.
	TopDonorLimit = 5
	// AllDonorLimit bounds the full donor list kept for the detail view.
	AllDonorLimit = 10

	// individualDonorFloor hides one-off small donors grouped by name.
	individualDonorFloor = 500
)

// genericEmployers are employer strings that identify nobody in particular;
// receipts carrying them are grouped by contributor name instead.
var genericEmployers = map[string]bool{
	"N/A": true, "NONE": true, "RETIRED": true, "SELF-EMPLOYED": true,
	"SELF": true, "NOT EMPLOYED": true, "HOMEMAKER": true,
	"INFORMATION REQUESTED": true,
}

// conduit platforms and joint-fundraising transfers say nothing about who is
// actually paying, so they are dropped from donor rankings.
var passthroughKeywords = []string{
	"WINRED", "ACTBLUE",
	"VICTORY FUND", "VICTORY COMMITTEE", "JOINT FUNDRAISING",
}

var uninformativeDonorKeywords = []string{
	"UNITEMIZED", "AGGREGATED", "NOT ITEMIZED", "ANONYMOUS",
}

// IsPassthroughContributor reports whether a contributor name is a
// fundraising platform or joint-fundraising committee transfer.
func IsPassthroughContributor(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range passthroughKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// IsUninformativeDonor reports whether a donor entry fails to identify an
// actual contributor (unitemized buckets, anonymous aggregates).
func IsUninformativeDonor(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range uninformativeDonorKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// ClassifyReceipt assigns a contribution category from the source entity-type
// code. Contributions from the candidate themself are always "self",
// whatever the code says. The name comparison here is exact after
// normalization; the fuzzy first-name-prefix rule in NamesMatch is for
// joining rosters across sources and would misfire on sibling-like names.
func ClassifyReceipt(candidateName string, r ItemizedReceipt) DonorCategory {
	switch strings.ToUpper(strings.TrimSpace(r.EntityType)) {
	case "CAN", "CCM":
		return CategorySelf
	}
	if candidateName != "" && NormalizeName(candidateName) == NormalizeName(r.ContributorName) {
		return CategorySelf
	}
	switch strings.ToUpper(strings.TrimSpace(r.EntityType)) {
	case "IND":
		return CategoryIndividual
	case "PAC", "COM":
		return CategoryPAC
	case "PTY":
		return CategoryParty
	case "ORG":
		return CategoryOther
	}
	return classifyDonorName(r.ContributorName)
}

// classifyDonorName guesses a category from name patterns, for sources that
// carry no entity-type code.
func classifyDonorName(name string) DonorCategory {
	upper := strings.ToUpper(name)
	for _, kw := range []string{"PAC", "COMMITTEE", "POLITICAL ACTION"} {
		if strings.Contains(upper, kw) {
			return CategoryPAC
		}
	}
	for _, kw := range []string{"PARTY", "DEMOCRATIC", "REPUBLICAN"} {
		if strings.Contains(upper, kw) {
			return CategoryParty
		}
	}
	for _, kw := range []string{"LLC", "INC", "CORP", "ASSOCIATION", "UNION"} {
		if strings.Contains(upper, kw) {
			return CategoryOther
		}
	}
	return CategoryIndividual
}

// donorGroup accumulates receipts resolved to the same contributor identity.
type donorGroup struct {
	name        string
	total       float64
	category    DonorCategory
	description string
	members     int
	byEmployer  bool
}

// BuildSummary computes the FinancialSummary for one reporting entity from
// its official totals record (may be nil) and its itemized receipts.
func BuildSummary(candidateName string, totals *EntityTotals, receipts []ItemizedReceipt) FinancialSummary {
	summary := FinancialSummary{}

	groups, categoryTotals := groupReceipts(candidateName, receipts)
	itemizedSum := 0.0
	for _, t := range categoryTotals {
		itemizedSum += t
	}

	switch {
	case totals != nil && totals.Raised > 0:
		summary.TotalRaised = totals.Raised
		summary.TotalSpent = totals.Spent
		summary.CashOnHand = totals.CashOnHand
		summary.Breakdown = breakdownFromTotals(totals)
	case itemizedSum > 0:
		// No usable official totals; derive everything from the
		// itemized records and flag it for the display layer.
		summary.NoOfficialTotals = true
		if totals != nil {
			summary.TotalRaised = totals.Raised
			summary.TotalSpent = totals.Spent
			summary.CashOnHand = totals.CashOnHand
		} else {
			summary.TotalRaised = itemizedSum
		}
		summary.Breakdown = breakdownFromCategories(categoryTotals, itemizedSum)
	default:
		summary.NoData = true
	}

	donors := rankDonors(groups)
	summary.AllDonors = donors
	if len(donors) > TopDonorLimit {
		summary.TopDonors = donors[:TopDonorLimit]
	} else {
		summary.TopDonors = donors
	}

	summary.TotalRaisedDisplay = FormatAmount(summary.TotalRaised)
	if summary.TotalSpent > 0 {
		summary.TotalSpentDisplay = FormatAmount(summary.TotalSpent)
	}
	return summary
}

// SummaryFromDonors builds a FinancialSummary for sources that report only a
// contribution total and pre-grouped donors (the state-level integrations).
// The category breakdown is derived from the donor categories; whatever the
// ranked donors do not explain lands in "other".
func SummaryFromDonors(totalRaised float64, donors []Donor) FinancialSummary {
	summary := FinancialSummary{
		TotalRaised:        totalRaised,
		TotalRaisedDisplay: FormatAmount(totalRaised),
	}
	if totalRaised <= 0 && len(donors) == 0 {
		summary.NoData = true
		return summary
	}

	kept := make([]Donor, 0, len(donors))
	categoryTotals := map[DonorCategory]float64{}
	for _, d := range donors {
		if d.Amount <= 0 || IsUninformativeDonor(d.Name) {
			continue
		}
		if d.AmountDisplay == "" {
			d.AmountDisplay = FormatAmount(d.Amount)
		}
		categoryTotals[d.Category] += d.Amount
		kept = append(kept, d)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Amount > kept[j].Amount
	})
	if len(kept) > AllDonorLimit {
		kept = kept[:AllDonorLimit]
	}
	summary.AllDonors = kept
	if len(kept) > TopDonorLimit {
		summary.TopDonors = kept[:TopDonorLimit]
	} else {
		summary.TopDonors = kept
	}

	base := totalRaised
	if base <= 0 {
		for _, t := range categoryTotals {
			base += t
		}
		summary.TotalRaised = base
		summary.TotalRaisedDisplay = FormatAmount(base)
		summary.NoOfficialTotals = true
	}
	summary.Breakdown = breakdownFromCategories(categoryTotals, base)
	return summary
}

// DonorsFromReceipts groups and ranks receipts into donor entries without
// deriving totals, for supplemental merge passes.
func DonorsFromReceipts(candidateName string, receipts []ItemizedReceipt) []Donor {
	groups, _ := groupReceipts(candidateName, receipts)
	return rankDonors(groups)
}

// MergeDonors folds extra donor entries (e.g. committee contributions fetched
// in a supplemental pass) into an existing summary, re-ranking the result.
func MergeDonors(summary *FinancialSummary, extra []Donor) {
	if len(extra) == 0 {
		return
	}
	combined := append(append([]Donor(nil), summary.AllDonors...), extra...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Amount > combined[j].Amount
	})
	if len(combined) > AllDonorLimit {
		combined = combined[:AllDonorLimit]
	}
	summary.AllDonors = combined
	if len(combined) > TopDonorLimit {
		summary.TopDonors = combined[:TopDonorLimit]
	} else {
		summary.TopDonors = combined
	}
}

func groupReceipts(candidateName string, receipts []ItemizedReceipt) ([]*donorGroup, map[DonorCategory]float64) {
	categoryTotals := map[DonorCategory]float64{}
	index := make(map[string]*donorGroup)
	var ordered []*donorGroup

	add := func(key string, g donorGroup) {
		if existing, ok := index[key]; ok {
			existing.total += g.total
			existing.members += g.members
			if existing.description == "" {
				existing.description = g.description
			}
			return
		}
		fresh := g
		index[key] = &fresh
		ordered = append(ordered, &fresh)
	}

	for _, r := range receipts {
		name := strings.TrimSpace(r.ContributorName)
		if r.Amount <= 0 || name == "" {
			continue
		}
		if IsUninformativeDonor(name) {
			continue
		}
		category := ClassifyReceipt(candidateName, r)
		categoryTotals[category] += r.Amount

		if category == CategoryPAC && IsPassthroughContributor(name) {
			// Counted in the breakdown but never ranked as a donor.
			continue
		}

		employer := strings.ToUpper(strings.TrimSpace(r.Employer))
		if category == CategoryIndividual && employer != "" && !genericEmployers[employer] {
			add("employer:"+employer, donorGroup{
				name:       TitleCase(employer),
				total:      r.Amount,
				category:   CategoryIndividual,
				members:    1,
				byEmployer: true,
			})
			continue
		}

		desc := strings.TrimSpace(r.Occupation)
		if desc == "" {
			desc = strings.TrimSpace(r.Employer)
		}
		add("name:"+string(category)+":"+NormalizeName(name), donorGroup{
			name:        TitleCase(name),
			total:       r.Amount,
			category:    category,
			description: TitleCase(desc),
		})
	}

	return ordered, categoryTotals
}

func rankDonors(groups []*donorGroup) []Donor {
	donors := make([]Donor, 0, len(groups))
	for _, g := range groups {
		if g.category == CategoryIndividual && !g.byEmployer && g.total < individualDonorFloor {
			continue
		}
		name := g.name
		if g.byEmployer && g.members > 1 {
			name = fmt.Sprintf("%s (%d employees)", name, g.members)
		}
		donors = append(donors, Donor{
			Name:          name,
			Amount:        math.Round(g.total*100) / 100,
			AmountDisplay: FormatAmount(g.total),
			Category:      g.category,
			Description:   g.description,
		})
	}

	// Stable: ties keep encounter order.
	sort.SliceStable(donors, func(i, j int) bool {
		return donors[i].Amount > donors[j].Amount
	})
	if len(donors) > AllDonorLimit {
		donors = donors[:AllDonorLimit]
	}
	return donors
}

func breakdownFromTotals(t *EntityTotals) FundingBreakdown {
	return clampBreakdown(FundingBreakdown{
		Individual: percent(t.IndividualItemized+t.IndividualUnitemized, t.Raised),
		PAC:        percent(t.PAC, t.Raised),
		Party:      percent(t.Party, t.Raised),
		Self:       percent(t.CandidateSelf, t.Raised),
	})
}

func breakdownFromCategories(totals map[DonorCategory]float64, sum float64) FundingBreakdown {
	return clampBreakdown(FundingBreakdown{
		Individual: percent(totals[CategoryIndividual], sum),
		PAC:        percent(totals[CategoryPAC], sum),
		Party:      percent(totals[CategoryParty], sum),
		Self:       percent(totals[CategorySelf], sum),
	})
}

// clampBreakdown buckets any rounding residual into "other" and keeps the
// sum at or below 100.
func clampBreakdown(b FundingBreakdown) FundingBreakdown {
	named := b.Individual + b.PAC + b.Party + b.Self
	b.Other = math.Max(0, 100-named)
	return b
}

func percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(part / total * 100)
}
