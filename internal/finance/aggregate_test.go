package finance

import (
	"strings"
	"testing"
)

func TestBuildSummaryFromOfficialTotals(t *testing.T) {
	totals := &EntityTotals{
		Raised:               1_000_000,
		Spent:                600_000,
		IndividualItemized:   400_000,
		IndividualUnitemized: 100_000,
		PAC:                  300_000,
		Party:                100_000,
		CandidateSelf:        50_000,
		CashOnHand:           400_000,
	}
	summary := BuildSummary("Jane Doe", totals, nil)

	if summary.NoData || summary.NoOfficialTotals {
		t.Fatalf("official totals should not be flagged: %+v", summary)
	}
	if summary.TotalRaised != 1_000_000 {
		t.Fatalf("total raised = %v", summary.TotalRaised)
	}
	if summary.TotalRaisedDisplay != "$1.0M" {
		t.Fatalf("display = %q", summary.TotalRaisedDisplay)
	}
	b := summary.Breakdown
	if b.Individual != 50 || b.PAC != 30 || b.Party != 10 || b.Self != 5 || b.Other != 5 {
		t.Fatalf("unexpected breakdown: %+v", b)
	}
}

func TestBuildSummaryDerivesFromReceiptsWithoutTotals(t *testing.T) {
	receipts := []ItemizedReceipt{
		{ContributorName: "SMITH, ALICE", Employer: "ACME CORP", Amount: 3000, EntityType: "IND"},
		{ContributorName: "GOOD GOVERNMENT PAC", Amount: 1000, EntityType: "PAC"},
	}
	summary := BuildSummary("Jane Doe", nil, receipts)

	if !summary.NoOfficialTotals {
		t.Fatalf("expected NoOfficialTotals, got %+v", summary)
	}
	if summary.TotalRaised != 4000 {
		t.Fatalf("total raised = %v", summary.TotalRaised)
	}
	if summary.Breakdown.Individual != 75 || summary.Breakdown.PAC != 25 {
		t.Fatalf("unexpected breakdown: %+v", summary.Breakdown)
	}
}

func TestBuildSummaryNoData(t *testing.T) {
	summary := BuildSummary("Jane Doe", nil, nil)
	if !summary.NoData {
		t.Fatalf("expected NoData, got %+v", summary)
	}
	if summary.TotalRaisedDisplay != "$0" {
		t.Fatalf("display = %q", summary.TotalRaisedDisplay)
	}
}

func TestBuildSummarySelfContributionOverridesEntityType(t *testing.T) {
	totals := &EntityTotals{Raised: 10_000}
	receipts := []ItemizedReceipt{
		{ContributorName: "DOE, JANE", Amount: 5000, EntityType: "IND"},
	}
	summary := BuildSummary("Jane Doe", totals, receipts)

	if len(summary.TopDonors) != 1 {
		t.Fatalf("expected 1 donor, got %d", len(summary.TopDonors))
	}
	if summary.TopDonors[0].Category != CategorySelf {
		t.Fatalf("expected self category, got %s", summary.TopDonors[0].Category)
	}
}

func TestClassifyReceiptSelfRequiresExactName(t *testing.T) {
	r := ItemizedReceipt{ContributorName: "JOHNSON, MICHELLE", Amount: 2000, EntityType: "IND"}
	if got := ClassifyReceipt("Michael Johnson", r); got != CategoryIndividual {
		t.Fatalf("similar first name must not classify as self, got %s", got)
	}

	r = ItemizedReceipt{ContributorName: "JOHNSON, MICHAEL JR.", Amount: 2000, EntityType: "IND"}
	if got := ClassifyReceipt("Michael Johnson", r); got != CategorySelf {
		t.Fatalf("exact normalized name must classify as self, got %s", got)
	}
}

func TestBuildSummaryGroupsByEmployer(t *testing.T) {
	totals := &EntityTotals{Raised: 100_000}
	receipts := []ItemizedReceipt{
		{ContributorName: "SMITH, ALICE", Employer: "ACME CORP", Amount: 3000, EntityType: "IND"},
		{ContributorName: "JONES, BOB", Employer: "ACME CORP", Amount: 2000, EntityType: "IND"},
		{ContributorName: "BROWN, CAROL", Employer: "RETIRED", Amount: 2800, EntityType: "IND"},
	}
	summary := BuildSummary("Jane Doe", totals, receipts)

	if len(summary.TopDonors) != 2 {
		t.Fatalf("expected 2 donors, got %+v", summary.TopDonors)
	}
	top := summary.TopDonors[0]
	if top.Name != "Acme Corp (2 employees)" {
		t.Fatalf("unexpected top donor name: %q", top.Name)
	}
	if top.Amount != 5000 {
		t.Fatalf("unexpected top donor amount: %v", top.Amount)
	}
	if summary.TopDonors[1].Name != "Brown, Carol" {
		t.Fatalf("unexpected second donor: %q", summary.TopDonors[1].Name)
	}
}

func TestBuildSummaryDropsPassthroughFromRanking(t *testing.T) {
	totals := &EntityTotals{Raised: 50_000}
	receipts := []ItemizedReceipt{
		{ContributorName: "WINRED", Amount: 20_000, EntityType: "PAC"},
		{ContributorName: "REAL LABOR PAC", Amount: 5_000, EntityType: "PAC"},
	}
	summary := BuildSummary("Jane Doe", totals, receipts)

	for _, d := range summary.AllDonors {
		if strings.Contains(strings.ToUpper(d.Name), "WINRED") {
			t.Fatalf("passthrough platform ranked as donor: %+v", d)
		}
	}
	if len(summary.AllDonors) != 1 || summary.AllDonors[0].Name != "Real Labor Pac" {
		t.Fatalf("unexpected donors: %+v", summary.AllDonors)
	}
}

func TestBuildSummaryFiltersSmallIndividualsAndCapsLists(t *testing.T) {
	totals := &EntityTotals{Raised: 1_000_000}
	var receipts []ItemizedReceipt
	receipts = append(receipts, ItemizedReceipt{
		ContributorName: "TINY, TIM", Amount: 100, EntityType: "IND",
	})
	names := []string{"AA", "BB", "CC", "DD", "EE", "FF", "GG", "HH", "II", "JJ", "KK", "LL"}
	for i, n := range names {
		receipts = append(receipts, ItemizedReceipt{
			ContributorName: n + " PAC", Amount: float64(10_000 - i*100), EntityType: "PAC",
		})
	}
	summary := BuildSummary("Jane Doe", totals, receipts)

	if len(summary.AllDonors) != AllDonorLimit {
		t.Fatalf("expected %d donors, got %d", AllDonorLimit, len(summary.AllDonors))
	}
	if len(summary.TopDonors) != TopDonorLimit {
		t.Fatalf("expected %d top donors, got %d", TopDonorLimit, len(summary.TopDonors))
	}
	for _, d := range summary.AllDonors {
		if d.Name == "Tiny, Tim" || d.Name == "Tim Tiny" {
			t.Fatalf("small individual donor should be filtered: %+v", d)
		}
	}
}

func TestBuildSummaryStableTieOrder(t *testing.T) {
	totals := &EntityTotals{Raised: 100_000}
	receipts := []ItemizedReceipt{
		{ContributorName: "FIRST PAC", Amount: 1000, EntityType: "PAC"},
		{ContributorName: "SECOND PAC", Amount: 1000, EntityType: "PAC"},
	}
	summary := BuildSummary("Jane Doe", totals, receipts)

	if summary.AllDonors[0].Name != "First Pac" || summary.AllDonors[1].Name != "Second Pac" {
		t.Fatalf("tie order not preserved: %+v", summary.AllDonors)
	}
}

func TestSummaryFromDonors(t *testing.T) {
	donors := []Donor{
		{Name: "Acme Corp", Amount: 60_000, Category: CategoryOther},
		{Name: "Alice Smith", Amount: 40_000, Category: CategoryIndividual},
		{Name: "Unitemized Contributions", Amount: 10_000, Category: CategoryIndividual},
	}
	summary := SummaryFromDonors(200_000, donors)

	if summary.NoData || summary.NoOfficialTotals {
		t.Fatalf("unexpected flags: %+v", summary)
	}
	if len(summary.AllDonors) != 2 {
		t.Fatalf("uninformative donor kept: %+v", summary.AllDonors)
	}
	if summary.Breakdown.Individual != 20 || summary.Breakdown.Other != 80 {
		t.Fatalf("unexpected breakdown: %+v", summary.Breakdown)
	}
}

func TestSummaryFromDonorsNoData(t *testing.T) {
	summary := SummaryFromDonors(0, nil)
	if !summary.NoData {
		t.Fatalf("expected NoData, got %+v", summary)
	}
}

func TestMergeDonorsReRanks(t *testing.T) {
	summary := FinancialSummary{
		AllDonors: []Donor{{Name: "Alice Smith", Amount: 5000, Category: CategoryIndividual}},
	}
	summary.TopDonors = summary.AllDonors

	MergeDonors(&summary, []Donor{{Name: "Big Pac", Amount: 9000, Category: CategoryPAC}})

	if summary.AllDonors[0].Name != "Big Pac" {
		t.Fatalf("merge did not re-rank: %+v", summary.AllDonors)
	}
	if len(summary.TopDonors) != 2 {
		t.Fatalf("top donors not refreshed: %+v", summary.TopDonors)
	}
}
