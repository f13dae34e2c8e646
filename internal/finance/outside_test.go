package finance

import "testing"

func TestAggregateOutsideSpendingRanksTopThree(t *testing.T) {
	expenditures := []IndependentExpenditure{
		{CommitteeID: "C1", CommitteeName: "ALPHA FUND", Amount: 50_000, Designation: DesignationSupport},
		{CommitteeID: "C1", CommitteeName: "ALPHA FUND", Amount: 25_000, Designation: DesignationSupport},
		{CommitteeID: "C2", CommitteeName: "BETA ACTION", Amount: 60_000, Designation: DesignationOppose},
		{CommitteeID: "C3", CommitteeName: "GAMMA PAC", Amount: 40_000, Designation: DesignationOppose},
		{CommitteeID: "C4", CommitteeName: "DELTA GROUP", Amount: 10_000, Designation: DesignationSupport},
	}
	os := AggregateOutsideSpending(expenditures)
	if os == nil {
		t.Fatal("expected aggregated spending")
	}

	if os.Support != 85_000 || os.Oppose != 100_000 {
		t.Fatalf("totals = support %v oppose %v", os.Support, os.Oppose)
	}
	if len(os.TopSpenders) != TopSpenderLimit {
		t.Fatalf("expected %d spenders, got %d", TopSpenderLimit, len(os.TopSpenders))
	}
	if os.TopSpenders[0].Name != "ALPHA FUND" || os.TopSpenders[0].Amount != 75_000 {
		t.Fatalf("unexpected leader: %+v", os.TopSpenders[0])
	}
	if os.TopSpenders[1].Name != "BETA ACTION" || os.TopSpenders[1].Designation != DesignationOppose {
		t.Fatalf("unexpected runner-up: %+v", os.TopSpenders[1])
	}
}

func TestAggregateOutsideSpendingSplitsDesignationsPerCommittee(t *testing.T) {
	expenditures := []IndependentExpenditure{
		{CommitteeID: "C1", CommitteeName: "BOTH WAYS PAC", Amount: 5000, Designation: DesignationSupport},
		{CommitteeID: "C1", CommitteeName: "BOTH WAYS PAC", Amount: 7000, Designation: DesignationOppose},
	}
	os := AggregateOutsideSpending(expenditures)
	if os == nil {
		t.Fatal("expected aggregated spending")
	}
	if len(os.TopSpenders) != 2 {
		t.Fatalf("expected separate entries per designation, got %+v", os.TopSpenders)
	}
	if os.TopSpenders[0].Designation != DesignationOppose {
		t.Fatalf("oppose entry should rank first: %+v", os.TopSpenders)
	}
}

func TestAggregateOutsideSpendingSkipsPlatformsAndJunk(t *testing.T) {
	expenditures := []IndependentExpenditure{
		{CommitteeName: "ACTBLUE", Amount: 90_000, Designation: DesignationSupport},
		{CommitteeName: "REAL PAC", Amount: -5, Designation: DesignationSupport},
		{CommitteeName: "OTHER PAC", Amount: 100, Designation: "X"},
	}
	if os := AggregateOutsideSpending(expenditures); os != nil {
		t.Fatalf("expected nil, got %+v", os)
	}
}

func TestAggregateOutsideSpendingEmpty(t *testing.T) {
	if os := AggregateOutsideSpending(nil); os != nil {
		t.Fatalf("expected nil for no expenditures, got %+v", os)
	}
}
