package core

import "sort"

// SourceTotals is the derived balance of an income source. It is never
// stored: every read recomputes it from the source's transaction set, so the
// value always reflects the current ledger state.
type SourceTotals struct {
	TotalIncome    Money `json:"totalIncome"`
	TotalExpenses  Money `json:"totalExpenses"`
	CurrentBalance Money `json:"currentBalance"`
}

// Summary aggregates a filtered transaction set with no grouping.
type Summary struct {
	TotalIncome      Money `json:"totalIncome"`
	TotalExpenses    Money `json:"totalExpenses"`
	NetBalance       Money `json:"netBalance"`
	TransactionCount int   `json:"transactionCount"`
	ActiveSources    int   `json:"activeSources"`
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CategoryType TransactionType `json:"categoryType"`
	Total        Money           `json:"total"`
	Count        int             `json:"count"`
}

// MonthTotal is one calendar-month bucket of a trend series.
type MonthTotal struct {
	Month    string `json:"month"` // YYYY-MM
	Income   Money  `json:"income"`
	Expenses Money  `json:"expenses"`
	Net      Money  `json:"net"`
}

// SourceBalance derives {totalIncome, totalExpenses, currentBalance} for a
// source with the given initial balance from its complete transaction set.
// An empty set yields zero sums and currentBalance == initial.
func SourceBalance(initial Money, txns []Transaction) SourceTotals {
	var income, expenses int64
	for _, t := range txns {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expenses += t.Amount.Cents
		}
	}
	return SourceTotals{
		TotalIncome:    Money{Cents: income},
		TotalExpenses:  Money{Cents: expenses},
		CurrentBalance: Money{Cents: initial.Cents + income - expenses},
	}
}

// Summarize computes the overall totals for an already-filtered transaction
// set. The active source count is looked up separately by the caller.
func Summarize(txns []Transaction, activeSources int) Summary {
	var income, expenses int64
	for _, t := range txns {
		switch t.Type {
		case Income:
			income += t.Amount.Cents
		case Expense:
			expenses += t.Amount.Cents
		}
	}
	return Summary{
		TotalIncome:      Money{Cents: income},
		TotalExpenses:    Money{Cents: expenses},
		NetBalance:       Money{Cents: income - expenses},
		TransactionCount: len(txns),
		ActiveSources:    activeSources,
	}
}

// BreakdownByCategory groups a transaction set by category, returning total
// amount and transaction count per category, sorted descending by total so
// the largest drivers come first. Categories with no matching transactions
// produce no row. When typeFilter is a valid transaction type only matching
// transactions count; any other value means no filter.
func BreakdownByCategory(txns []Transaction, typeFilter TransactionType) []CategoryTotal {
	byCategory := make(map[int64]*CategoryTotal)
	for _, t := range txns {
		if typeFilter.Valid() && t.Type != typeFilter {
			continue
		}
		row, ok := byCategory[t.CategoryID]
		if !ok {
			row = &CategoryTotal{
				CategoryID:   t.CategoryID,
				CategoryName: t.CategoryName,
				CategoryType: t.CategoryType,
			}
			byCategory[t.CategoryID] = row
		}
		row.Total.Cents += t.Amount.Cents
		row.Count++
	}

	result := make([]CategoryTotal, 0, len(byCategory))
	for _, row := range byCategory {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total.Cents != result[j].Total.Cents {
			return result[i].Total.Cents > result[j].Total.Cents
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result
}

// MonthlyTrend buckets a transaction set by the calendar month of each
// transaction's own date. Buckets are sorted ascending by YYYY-MM key and
// months with no transactions are absent, not zero-filled.
func MonthlyTrend(txns []Transaction) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, t := range txns {
		key := t.Date.MonthKey()
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthTotal{Month: key}
			byMonth[key] = bucket
		}
		switch t.Type {
		case Income:
			bucket.Income.Cents += t.Amount.Cents
		case Expense:
			bucket.Expenses.Cents += t.Amount.Cents
		}
	}

	result := make([]MonthTotal, 0, len(byMonth))
	for _, bucket := range byMonth {
		bucket.Net = Money{Cents: bucket.Income.Cents - bucket.Expenses.Cents}
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}
