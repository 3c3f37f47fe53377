package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/core"
	"tally/internal/storage"
)

// ReportStore is the slice of the storage layer the report service reads
// from. Reports are always computed from the current rows, never cached.
type ReportStore interface {
	ListAllTransactions(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
	CountActiveSources(ctx context.Context, userID int64) (int, error)
}

// ReportService aggregates a user's transactions into summaries, breakdowns,
// trends, and CSV exports.
type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

// Summary computes income, expense, and net totals over the filtered set,
// together with the transaction count and the user's active source count.
func (s *ReportService) Summary(ctx context.Context, userID int64, f storage.TransactionFilter) (core.Summary, error) {
	txns, err := s.store.ListAllTransactions(ctx, userID, f)
	if err != nil {
		return core.Summary{}, fmt.Errorf("load transactions: %w", err)
	}
	active, err := s.store.CountActiveSources(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("count active sources: %w", err)
	}
	return core.Summarize(txns, active), nil
}

// CategoryBreakdown returns per-category totals for the filtered set, largest
// first. An invalid typeFilter is treated as no filter.
func (s *ReportService) CategoryBreakdown(ctx context.Context, userID int64, f storage.TransactionFilter, typeFilter core.TransactionType) ([]core.CategoryTotal, error) {
	txns, err := s.store.ListAllTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.BreakdownByCategory(txns, typeFilter), nil
}

// MonthlyTrends buckets the last months of activity by calendar month. The
// window starts on the first day of the month `months` back from now; months
// with no transactions are absent from the result.
func (s *ReportService) MonthlyTrends(ctx context.Context, userID int64, months int) ([]core.MonthTotal, error) {
	if months <= 0 {
		months = 6
	}
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month()-time.Month(months), 1, 0, 0, 0, 0, time.UTC)

	txns, err := s.store.ListAllTransactions(ctx, userID, storage.TransactionFilter{
		StartDate: core.NewDate(start.Year(), int(start.Month()), 1),
	})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.MonthlyTrend(txns), nil
}

// ExportCSV renders the filtered transactions as CSV, newest first.
func (s *ReportService) ExportCSV(ctx context.Context, userID int64, f storage.TransactionFilter) (string, error) {
	txns, err := s.store.ListAllTransactions(ctx, userID, f)
	if err != nil {
		return "", fmt.Errorf("load transactions: %w", err)
	}
	return core.FormatCSV(txns), nil
}
