package finance

import (
	"math"
	"sort"
	"strings"
)

// TopSpenderLimit bounds the ranked outside-spender list.
const TopSpenderLimit = 3

// spenderTally accumulates one committee's spending per designation.
type spenderTally struct {
	name    string
	support float64
	oppose  float64
}

// AggregateOutsideSpending sums independent expenditures targeting a single
// candidate and ranks the groups behind them. Records arrive already
// attributed per candidate, so one filing naming several candidates
// contributes only that candidate's own amount here. Returns nil when no
// group reported any support or oppose spending.
func AggregateOutsideSpending(expenditures []IndependentExpenditure) *OutsideSpending {
	index := make(map[string]*spenderTally)
	var ordered []*spenderTally

	for _, e := range expenditures {
		name := strings.TrimSpace(e.CommitteeName)
		if name == "" {
			name = "Unknown"
		}
		if IsPassthroughContributor(name) {
			continue
		}
		if e.Amount <= 0 {
			continue
		}
		if e.Designation != DesignationSupport && e.Designation != DesignationOppose {
			continue
		}

		key := e.CommitteeID
		if key == "" {
			key = name
		}
		tally, ok := index[key]
		if !ok {
			tally = &spenderTally{name: name}
			index[key] = tally
			ordered = append(ordered, tally)
		}
		if e.Designation == DesignationSupport {
			tally.support += e.Amount
		} else {
			tally.oppose += e.Amount
		}
	}

	var totalSupport, totalOppose float64
	var entries []SpenderEntry
	for _, t := range ordered {
		if t.support > 0 {
			totalSupport += t.support
			entries = append(entries, SpenderEntry{
				Name:          t.name,
				Amount:        math.Round(t.support*100) / 100,
				AmountDisplay: FormatAmount(t.support),
				Designation:   DesignationSupport,
			})
		}
		if t.oppose > 0 {
			totalOppose += t.oppose
			entries = append(entries, SpenderEntry{
				Name:          t.name,
				Amount:        math.Round(t.oppose*100) / 100,
				AmountDisplay: FormatAmount(t.oppose),
				Designation:   DesignationOppose,
			})
		}
	}
	if len(entries) == 0 {
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount > entries[j].Amount
	})
	if len(entries) > TopSpenderLimit {
		entries = entries[:TopSpenderLimit]
	}

	return &OutsideSpending{
		Support:        math.Round(totalSupport*100) / 100,
		Oppose:         math.Round(totalOppose*100) / 100,
		SupportDisplay: FormatAmount(totalSupport),
		OpposeDisplay:  FormatAmount(totalOppose),
		TopSpenders:    entries,
	}
}
