package core

import (
	"strings"
	"testing"
)

func txn(date Date, typ TransactionType, cents int64, categoryID int64, name string) Transaction {
	return Transaction{
		Date:         date,
		Type:         typ,
		Amount:       Money{Cents: cents},
		CategoryID:   categoryID,
		CategoryName: name,
		CategoryType: typ,
	}
}

func TestSourceBalance(t *testing.T) {
	initial := Money{Cents: 10000}
	txns := []Transaction{
		txn(NewDate(2025, 1, 2), Income, 5000, 1, "Sales Revenue"),
		txn(NewDate(2025, 1, 3), Expense, 3000, 2, "Rent"),
	}

	got := SourceBalance(initial, txns)
	if got.TotalIncome.Cents != 5000 {
		t.Fatalf("totalIncome: expected 5000, got %d", got.TotalIncome.Cents)
	}
	if got.TotalExpenses.Cents != 3000 {
		t.Fatalf("totalExpenses: expected 3000, got %d", got.TotalExpenses.Cents)
	}
	if got.CurrentBalance.Cents != 12000 {
		t.Fatalf("currentBalance: expected 12000, got %d", got.CurrentBalance.Cents)
	}
}

func TestSourceBalanceEmpty(t *testing.T) {
	got := SourceBalance(Money{Cents: 2500}, nil)
	if got.TotalIncome.Cents != 0 || got.TotalExpenses.Cents != 0 {
		t.Fatalf("expected zero sums, got %+v", got)
	}
	if got.CurrentBalance.Cents != 2500 {
		t.Fatalf("expected balance to equal initial, got %d", got.CurrentBalance.Cents)
	}
}

func TestSummarize(t *testing.T) {
	txns := []Transaction{
		txn(NewDate(2025, 1, 1), Income, 10000, 1, "Sales Revenue"),
		txn(NewDate(2025, 1, 2), Income, 2500, 1, "Sales Revenue"),
		txn(NewDate(2025, 1, 3), Expense, 4000, 2, "Rent"),
	}
	s := Summarize(txns, 2)
	if s.TotalIncome.Cents != 12500 || s.TotalExpenses.Cents != 4000 {
		t.Fatalf("totals wrong: %+v", s)
	}
	if s.NetBalance.Cents != 8500 {
		t.Fatalf("net: expected 8500, got %d", s.NetBalance.Cents)
	}
	if s.TransactionCount != 3 || s.ActiveSources != 2 {
		t.Fatalf("counts wrong: %+v", s)
	}
}

func TestBreakdownByCategory(t *testing.T) {
	txns := []Transaction{
		txn(NewDate(2025, 1, 1), Expense, 1000, 1, "Rent"),
		txn(NewDate(2025, 1, 5), Expense, 2000, 1, "Rent"),
		txn(NewDate(2025, 1, 2), Expense, 5000, 2, "Salaries"),
		txn(NewDate(2025, 1, 3), Income, 9000, 3, "Sales Revenue"),
	}

	rows := BreakdownByCategory(txns, Expense)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	// Descending by total: Salaries (5000) before Rent (3000).
	if rows[0].CategoryName != "Salaries" || rows[0].Total.Cents != 5000 || rows[0].Count != 1 {
		t.Fatalf("row 0 wrong: %+v", rows[0])
	}
	if rows[1].CategoryName != "Rent" || rows[1].Total.Cents != 3000 || rows[1].Count != 2 {
		t.Fatalf("row 1 wrong: %+v", rows[1])
	}

	// Breakdown totals match the summary totals for the same filter.
	var grand int64
	for _, r := range rows {
		grand += r.Total.Cents
	}
	if s := Summarize(txns, 0); grand != s.TotalExpenses.Cents {
		t.Fatalf("breakdown grand total %d != summary expenses %d", grand, s.TotalExpenses.Cents)
	}
}

func TestBreakdownTypeFilterIgnoredWhenInvalid(t *testing.T) {
	txns := []Transaction{
		txn(NewDate(2025, 1, 1), Expense, 1000, 1, "Rent"),
		txn(NewDate(2025, 1, 2), Income, 2000, 2, "Sales Revenue"),
	}
	// An unknown filter value means "no filter", not an error.
	rows := BreakdownByCategory(txns, "WHATEVER")
	if len(rows) != 2 {
		t.Fatalf("expected both categories, got %d rows", len(rows))
	}
}

func TestBreakdownEmpty(t *testing.T) {
	if rows := BreakdownByCategory(nil, Expense); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestMonthlyTrend(t *testing.T) {
	txns := []Transaction{
		txn(NewDate(2025, 3, 9), Expense, 1500, 1, "Rent"),
		txn(NewDate(2025, 1, 2), Income, 10000, 2, "Sales Revenue"),
		txn(NewDate(2025, 1, 20), Expense, 2000, 1, "Rent"),
		// February has no transactions: no bucket, not a zero row.
	}

	buckets := MonthlyTrend(txns)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Month != "2025-01" || buckets[1].Month != "2025-03" {
		t.Fatalf("buckets not sorted ascending: %+v", buckets)
	}
	jan := buckets[0]
	if jan.Income.Cents != 10000 || jan.Expenses.Cents != 2000 {
		t.Fatalf("january sums wrong: %+v", jan)
	}
	for _, b := range buckets {
		if b.Net.Cents != b.Income.Cents-b.Expenses.Cents {
			t.Fatalf("bucket %s: net %d != income-expenses", b.Month, b.Net.Cents)
		}
	}
}

func TestFormatCSV(t *testing.T) {
	txns := []Transaction{
		{
			Date:         NewDate(2025, 2, 10),
			Type:         Expense,
			Amount:       Money{Cents: 4550},
			Description:  `monthly "office" rent`,
			CategoryName: "Rent",
			SourceName:   "Main Bank",
		},
		{
			Date:         NewDate(2025, 2, 1),
			Type:         Income,
			Amount:       Money{Cents: 100000},
			Description:  "invoice 42",
			CategoryName: "Sales Revenue",
			SourceName:   "Main Bank",
		},
	}

	out := FormatCSV(txns)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Type,Amount,Category,Source,Description" {
		t.Fatalf("header wrong: %q", lines[0])
	}
	if lines[1] != `2025-02-10,EXPENSE,45.50,"Rent","Main Bank","monthly ""office"" rent"` {
		t.Fatalf("row 1 wrong: %q", lines[1])
	}
	if lines[2] != `2025-02-01,INCOME,1000.00,"Sales Revenue","Main Bank","invoice 42"` {
		t.Fatalf("row 2 wrong: %q", lines[2])
	}
}

func TestFormatCSVEmpty(t *testing.T) {
	out := FormatCSV(nil)
	if out != CSVHeader+"\n" {
		t.Fatalf("expected header only, got %q", out)
	}
}
