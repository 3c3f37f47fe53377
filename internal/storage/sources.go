package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tally/internal/core"
)

// ListSources returns the user's income sources, most recently created first.
func (r *SQLiteRepository) ListSources(ctx context.Context, userID int64) ([]core.IncomeSource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, initial_balance_cents, is_active, created_at
		 FROM income_sources WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []core.IncomeSource
	for rows.Next() {
		var s core.IncomeSource
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Type, &s.InitialBalance.Cents, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *SQLiteRepository) GetSource(ctx context.Context, id, userID int64) (*core.IncomeSource, error) {
	var s core.IncomeSource
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, initial_balance_cents, is_active, created_at
		 FROM income_sources WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&s.ID, &s.UserID, &s.Name, &s.Type, &s.InitialBalance.Cents, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return &s, nil
}

func (r *SQLiteRepository) CreateSource(ctx context.Context, s *core.IncomeSource) error {
	s.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO income_sources (user_id, name, type, initial_balance_cents, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		s.UserID, s.Name, string(s.Type), s.InitialBalance.Cents, s.IsActive, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSource(ctx context.Context, s *core.IncomeSource) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE income_sources SET name = ?, type = ?, initial_balance_cents = ?, is_active = ?
		 WHERE id = ? AND user_id = ?`,
		s.Name, string(s.Type), s.InitialBalance.Cents, s.IsActive, s.ID, s.UserID)
	if err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteSource(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM income_sources WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return requireRow(res)
}

// CountTransactionsBySource returns how many transactions reference the
// source; a non-zero count blocks deletion.
func (r *SQLiteRepository) CountTransactionsBySource(ctx context.Context, sourceID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions by source: %w", err)
	}
	return n, nil
}

// CountActiveSources counts the user's active income sources for the summary
// report.
func (r *SQLiteRepository) CountActiveSources(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM income_sources WHERE user_id = ? AND is_active = 1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active sources: %w", err)
	}
	return n, nil
}

// ListSourceActivity returns the minimal transaction rows (source, type,
// amount) for all of the user's transactions, used to derive source balances
// in one pass.
func (r *SQLiteRepository) ListSourceActivity(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT source_id, type, amount_cents FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list source activity: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.SourceID, &t.Type, &t.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan source activity: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
