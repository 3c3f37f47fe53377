package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tally/internal/core"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no
// filter"; an invalid Type is ignored rather than rejected. Date bounds are
// inclusive on both ends.
type TransactionFilter struct {
	Type       core.TransactionType
	CategoryID int64
	SourceID   int64
	StartDate  core.Date
	EndDate    core.Date
}

const txnSelect = `SELECT t.id, t.user_id, t.txn_date, t.type, t.amount_cents, t.description,
	t.category_id, t.source_id, t.created_at,
	c.name, c.type, s.name, s.type
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	JOIN income_sources s ON s.id = t.source_id`

func (f TransactionFilter) where(userID int64) (string, []any) {
	clause := ` WHERE t.user_id = ?`
	args := []any{userID}
	if f.Type.Valid() {
		clause += ` AND t.type = ?`
		args = append(args, string(f.Type))
	}
	if f.CategoryID > 0 {
		clause += ` AND t.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.SourceID > 0 {
		clause += ` AND t.source_id = ?`
		args = append(args, f.SourceID)
	}
	if !f.StartDate.IsZero() {
		clause += ` AND t.txn_date >= ?`
		args = append(args, f.StartDate.String())
	}
	if !f.EndDate.IsZero() {
		clause += ` AND t.txn_date <= ?`
		args = append(args, f.EndDate.String())
	}
	return clause, args
}

// ListTransactions returns one page of the user's transactions matching the
// filter, newest first, along with the total match count.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter, page, limit int) ([]core.Transaction, int, error) {
	clause, args := f.where(userID)

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions t`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx,
		txnSelect+clause+` ORDER BY t.txn_date DESC, t.id DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListAllTransactions returns every matching transaction, newest first. Used
// by the report and export paths, which aggregate over the full filtered set.
func (r *SQLiteRepository) ListAllTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	clause, args := f.where(userID)
	rows, err := r.db.QueryContext(ctx,
		txnSelect+clause+` ORDER BY t.txn_date DESC, t.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id, userID int64) (*core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		txnSelect+` WHERE t.id = ? AND t.user_id = ?`, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	defer rows.Close()

	txns, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, ErrNotFound
	}
	return &txns[0], nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	t.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, txn_date, type, amount_cents, description, category_id, source_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		t.UserID, t.Date.String(), string(t.Type), t.Amount.Cents, t.Description, t.CategoryID, t.SourceID, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t *core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET txn_date = ?, type = ?, amount_cents = ?, description = ?, category_id = ?, source_id = ?
		 WHERE id = ? AND user_id = ?`,
		t.Date.String(), string(t.Type), t.Amount.Cents, t.Description, t.CategoryID, t.SourceID, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var txns []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			txnDate string
		)
		err := rows.Scan(&t.ID, &t.UserID, &txnDate, &t.Type, &t.Amount.Cents, &t.Description,
			&t.CategoryID, &t.SourceID, &t.CreatedAt,
			&t.CategoryName, &t.CategoryType, &t.SourceName, &t.SourceType)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(txnDate)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", txnDate, err)
		}
		t.Date = date
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}
