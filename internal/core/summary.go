package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// GroupSums maps a spending group to the cumulative amount spent on it.
type GroupSums map[string]decimal.Decimal

// Total returns the sum of all groups.
func (g GroupSums) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range g {
		total = total.Add(v)
	}
	return total
}

// Names returns the group labels, sorted.
func (g GroupSums) Names() []string {
	names := make([]string, 0, len(g))
	for k := range g {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MonthBucket holds the expenses sharing one month key, in input order.
type MonthBucket struct {
	Key      string
	Year     int // zero unless buckets are keyed by year
	Month    time.Month
	Expenses []Expense
}

// MonthSummary is the group breakdown for one month bucket.
type MonthSummary struct {
	Name   string
	Year   int
	Month  time.Month
	Groups GroupSums
}

// Report is the aggregated result: months in calendar order plus the grand total.
type Report struct {
	Months []MonthSummary
	Total  decimal.Decimal
}

// ByMonth returns the report as a month name -> group sums mapping.
func (r Report) ByMonth() map[string]GroupSums {
	out := make(map[string]GroupSums, len(r.Months))
	for _, m := range r.Months {
		out[m.Name] = m.Groups
	}
	return out
}
