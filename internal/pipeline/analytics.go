package pipeline

import (
	"math"
	"sort"
	"time"
)

// TrendPadding selects how a monthly trend shorter than six months is padded
// out to exactly six.
type TrendPadding int

const (
	// PadBeforeFirstMonth reproduces the historical behavior: the six-month
	// window ends at the first month that has data, so data months after the
	// first fall outside the window and are lost. Kept as the default for
	// compatibility with existing dashboards.
	PadBeforeFirstMonth TrendPadding = iota
	// PadThroughLastMonth ends the window at the last month with data, which
	// keeps every data month inside it.
	PadThroughLastMonth
)

const (
	trendMaxMonths = 12
	trendMinMonths = 6
	monthLabel     = "Jan 06"
)

// CalculateAnalytics derives the aggregate snapshot for a transaction batch.
// It is pure and total: the same batch always yields the same snapshot, and
// an empty batch yields the canonical empty snapshot.
func CalculateAnalytics(transactions []Transaction) AnalyticsSnapshot {
	return CalculateAnalyticsWithPadding(transactions, PadBeforeFirstMonth)
}

// CalculateAnalyticsWithPadding is CalculateAnalytics with an explicit trend
// padding policy.
func CalculateAnalyticsWithPadding(transactions []Transaction, padding TrendPadding) AnalyticsSnapshot {
	if len(transactions) == 0 {
		return emptyAnalytics()
	}

	var totalSpend float64
	for _, t := range transactions {
		totalSpend += math.Abs(t.Amount)
	}

	// MaxTransaction keeps the signed amount of the largest-magnitude
	// transaction; ties go to the earlier one.
	maxTransaction := transactions[0].Amount
	for _, t := range transactions[1:] {
		if math.Abs(t.Amount) > math.Abs(maxTransaction) {
			maxTransaction = t.Amount
		}
	}

	return AnalyticsSnapshot{
		TotalSpend:           totalSpend,
		MonthlyBudget:        totalSpend * 1.5, // synthetic placeholder budget
		Categories:           categoryRollup(transactions, totalSpend),
		Departments:          departmentRollup(transactions, totalSpend),
		MonthlyTrend:         monthlyTrend(transactions, padding),
		TransactionCount:     len(transactions),
		AvgTransactionAmount: totalSpend / float64(len(transactions)),
		MaxTransaction:       maxTransaction,
		DateRange:            dateRange(transactions),
	}
}

func emptyAnalytics() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		Categories:   []CategoryBucket{},
		Departments:  []DepartmentBucket{},
		MonthlyTrend: []MonthlyPoint{},
	}
}

// groupAmounts sums |amount| per group key, returning the keys in a
// deterministic order (descending amount, then name).
func groupAmounts(transactions []Transaction, key func(Transaction) string) ([]string, map[string]float64) {
	amounts := make(map[string]float64)
	for _, t := range transactions {
		amounts[key(t)] += math.Abs(t.Amount)
	}

	names := make([]string, 0, len(amounts))
	for name := range amounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if amounts[names[i]] != amounts[names[j]] {
			return amounts[names[i]] > amounts[names[j]]
		}
		return names[i] < names[j]
	})
	return names, amounts
}

func percentageOf(amount, totalSpend float64) float64 {
	if totalSpend <= 0 {
		return 0
	}
	return amount / totalSpend * 100
}

func categoryRollup(transactions []Transaction, totalSpend float64) []CategoryBucket {
	names, amounts := groupAmounts(transactions, func(t Transaction) string { return t.Category })
	buckets := make([]CategoryBucket, 0, len(names))
	for _, name := range names {
		buckets = append(buckets, CategoryBucket{
			Name:       name,
			Amount:     amounts[name],
			Percentage: percentageOf(amounts[name], totalSpend),
			Color:      CategoryColor(name),
		})
	}
	return buckets
}

func departmentRollup(transactions []Transaction, totalSpend float64) []DepartmentBucket {
	names, amounts := groupAmounts(transactions, func(t Transaction) string { return t.Department })
	buckets := make([]DepartmentBucket, 0, len(names))
	for _, name := range names {
		buckets = append(buckets, DepartmentBucket{
			Name:       name,
			Amount:     amounts[name],
			Percentage: percentageOf(amounts[name], totalSpend),
		})
	}
	return buckets
}

func dateRange(transactions []Transaction) DateRange {
	var start, end time.Time
	found := false
	for _, t := range transactions {
		d, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		if !found || d.Before(start) {
			start = d
		}
		if !found || d.After(end) {
			end = d
		}
		found = true
	}
	if !found {
		return DateRange{}
	}
	s := start.Format(dateLayout)
	e := end.Format(dateLayout)
	return DateRange{Start: &s, End: &e}
}

// monthOf truncates a date to the first day of its calendar month.
func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthlyTrend builds the per-month spend series.
//
// It buckets |amount| into one entry per calendar month, contiguous from the
// earliest to the latest transaction month even through empty months. More
// than twelve months truncates to the last twelve; fewer than six pads to
// exactly six per the padding policy. Transactions with unparseable dates are
// ignored; no parseable dates at all yields an empty series.
func monthlyTrend(transactions []Transaction, padding TrendPadding) []MonthlyPoint {
	amounts := make(map[time.Time]float64)
	var first, last time.Time
	for _, t := range transactions {
		d, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		m := monthOf(d)
		amounts[m] += math.Abs(t.Amount)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if last.IsZero() || m.After(last) {
			last = m
		}
	}
	if len(amounts) == 0 {
		return []MonthlyPoint{}
	}

	var trend []MonthlyPoint
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		trend = append(trend, MonthlyPoint{Month: m.Format(monthLabel), Amount: amounts[m]})
	}

	if len(trend) > trendMaxMonths {
		return trend[len(trend)-trendMaxMonths:]
	}

	if len(trend) < trendMinMonths {
		anchor := first
		if padding == PadThroughLastMonth {
			anchor = last
		}
		windowStart := anchor.AddDate(0, -(trendMinMonths - 1), 0)

		padded := make([]MonthlyPoint, 0, trendMinMonths)
		for i := 0; i < trendMinMonths; i++ {
			point := MonthlyPoint{Month: windowStart.AddDate(0, i, 0).Format(monthLabel)}
			for _, existing := range trend {
				if existing.Month == point.Month {
					point.Amount = existing.Amount
					break
				}
			}
			padded = append(padded, point)
		}
		return padded
	}

	return trend
}
