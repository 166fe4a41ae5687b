// Package summary totals expenses in a single reference currency.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout formats the month buckets, e.g. "March 2024".
const MonthLayout = "January 2006"

const defaultCategory = "Other"

// Record is the part of an expense the summary needs.
type Record struct {
	Amount   decimal.Decimal
	Currency string
	Category string
	Date     time.Time
}

// Rater converts a currency symbol into the reference currency.
type Rater interface {
	Multiplier(symbol string) decimal.Decimal
}

// Bucket is one named subtotal.
type Bucket struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the normalized total and its two breakdowns. ByCategory is sorted
// by amount descending then name, ByMonth chronologically. Each sums to Total.
type Summary struct {
	Total      decimal.Decimal
	ByCategory []Bucket
	ByMonth    []Bucket
}

// MonthLabel returns the month bucket name for t.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}

// Aggregate converts every record with rater and totals it. A non-empty month
// restricts the summary to records whose MonthLabel equals it.
func Aggregate(records []Record, rater Rater, month string) Summary {
	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	byMonth := map[string]decimal.Decimal{}
	monthStart := map[string]time.Time{}

	for _, record := range records {
		label := MonthLabel(record.Date)
		if month != "" && label != month {
			continue
		}

		amount := record.Amount.Mul(rater.Multiplier(record.Currency))

		category := record.Category
		if category == "" {
			category = defaultCategory
		}

		total = total.Add(amount)
		byCategory[category] = byCategory[category].Add(amount)
		byMonth[label] = byMonth[label].Add(amount)
		monthStart[label] = firstOfMonth(record.Date)
	}

	categories := toBuckets(byCategory)
	sort.Slice(categories, func(i, j int) bool {
		if c := categories[i].Amount.Cmp(categories[j].Amount); c != 0 {
			return c > 0
		}
		return categories[i].Name < categories[j].Name
	})

	months := toBuckets(byMonth)
	sort.Slice(months, func(i, j int) bool {
		return monthStart[months[i].Name].Before(monthStart[months[j].Name])
	})

	return Summary{
		Total:      total,
		ByCategory: categories,
		ByMonth:    months,
	}
}

// AvailableMonths lists the distinct months present in records, oldest first.
func AvailableMonths(records []Record) []string {
	seen := map[string]time.Time{}
	for _, record := range records {
		seen[MonthLabel(record.Date)] = firstOfMonth(record.Date)
	}

	months := make([]string, 0, len(seen))
	for label := range seen {
		months = append(months, label)
	}
	sort.Slice(months, func(i, j int) bool {
		return seen[months[i]].Before(seen[months[j]])
	})
	return months
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func toBuckets(totals map[string]decimal.Decimal) []Bucket {
	buckets := make([]Bucket, 0, len(totals))
	for name, amount := range totals {
		buckets = append(buckets, Bucket{Name: name, Amount: amount})
	}
	return buckets
}
