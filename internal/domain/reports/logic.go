package reports

import (
	"sort"
	"time"
)

// MergeMonthly zips revenue and expense totals keyed by month into a single
// chronological series, filling months present on only one side.
func MergeMonthly(revenue, expenses map[string]float64) []MonthlyTotals {
	months := make(map[string]struct{}, len(revenue)+len(expenses))
	for m := range revenue {
		months[m] = struct{}{}
	}
	for m := range expenses {
		months[m] = struct{}{}
	}

	out := make([]MonthlyTotals, 0, len(months))
	for m := range months {
		rev := revenue[m]
		exp := expenses[m]
		out = append(out, MonthlyTotals{Month: m, Revenue: rev, Expenses: exp, Net: rev - exp})
	}
	// Months format as "2006-01", so lexicographic order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// RetentionRate is the share of clients with a visit in the trailing window
// among clients who have ever visited. Zero clients yields zero, not NaN.
func RetentionRate(returning, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(returning) / float64(total)
}

func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
