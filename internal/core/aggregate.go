package core

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// AggregateOptions tunes how expenses are bucketed.
type AggregateOptions struct {
	// KeyByYear keys buckets by "January 2023" instead of "January", so the
	// same month of different years is reported separately.
	KeyByYear bool
}

// GroupByMonth buckets expenses by calendar month. Buckets come back in
// calendar order and keep the input order of their expenses.
func GroupByMonth(expenses []Expense, opts AggregateOptions) ([]MonthBucket, error) {
	index := map[string]int{}
	var buckets []MonthBucket
	for _, e := range expenses {
		t, err := ParseTimestamp(e.Timestamp)
		if err != nil {
			return nil, &CategorizationError{Timestamp: e.Timestamp, Source: e.Source, Err: err}
		}
		key := t.Month().String()
		year := 0
		if opts.KeyByYear {
			year = t.Year()
			key = fmt.Sprintf("%s %d", key, year)
		}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, MonthBucket{Key: key, Year: year, Month: t.Month()})
		}
		buckets[i].Expenses = append(buckets[i].Expenses, e)
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		if buckets[a].Year != buckets[b].Year {
			return buckets[a].Year < buckets[b].Year
		}
		return buckets[a].Month < buckets[b].Month
	})
	return buckets, nil
}

// Add resolves the expense category and adds its amount to the group entry in sums.
// Unknown categories are an error: the expense is never dropped or misfiled.
func (m CategoryMap) Add(sums GroupSums, e Expense) error {
	group, ok := m.Resolve(e.Category)
	if !ok {
		return &UnknownCategoryError{Category: e.Category, Source: e.Source}
	}
	if cur, ok := sums[group]; ok {
		sums[group] = cur.Add(e.Amount)
	} else {
		sums[group] = e.Amount
	}
	return nil
}

// Summarize produces one group-sum table per bucket.
func Summarize(buckets []MonthBucket, m CategoryMap) ([]MonthSummary, error) {
	out := make([]MonthSummary, 0, len(buckets))
	for _, b := range buckets {
		sums := GroupSums{}
		for _, e := range b.Expenses {
			if err := m.Add(sums, e); err != nil {
				return nil, err
			}
		}
		out = append(out, MonthSummary{Name: b.Key, Year: b.Year, Month: b.Month, Groups: sums})
	}
	return out, nil
}

// GrandTotal sums every expense amount regardless of month or group.
func GrandTotal(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// BuildReport runs grouping, summation and the grand total over expenses.
func BuildReport(expenses []Expense, m CategoryMap, opts AggregateOptions) (Report, error) {
	buckets, err := GroupByMonth(expenses, opts)
	if err != nil {
		return Report{}, err
	}
	months, err := Summarize(buckets, m)
	if err != nil {
		return Report{}, err
	}
	return Report{Months: months, Total: GrandTotal(expenses)}, nil
}
