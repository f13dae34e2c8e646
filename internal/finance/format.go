package finance

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatAmount renders a dollar amount for display. Amounts of $1M and above
// use one decimal ("$2.5M"), amounts of $1K and above round to a whole number
// of thousands ("$45K"), everything else is a literal dollar figure with
// thousands separators ("$850").
func FormatAmount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fK", v/1_000)
	default:
		return "$" + groupThousands(int64(math.Round(v)))
	}
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
