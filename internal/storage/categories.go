package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tally/internal/core"
)

// CategoryWithCount is a category plus the acting user's transaction-usage
// count for it.
type CategoryWithCount struct {
	core.Category
	TransactionCount int `json:"transactionCount"`
}

// ListCategories returns the system-default categories plus the user's own,
// each with the user's transaction count, ordered by type then name. A valid
// typeFilter restricts the list; any other value means no filter.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64, typeFilter core.TransactionType) ([]CategoryWithCount, error) {
	query := `SELECT c.id, c.name, c.type, c.is_custom, c.parent_id, c.user_id, COUNT(t.id)
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id AND t.user_id = ?
		WHERE (c.user_id IS NULL OR c.user_id = ?)`
	args := []any{userID, userID}
	if typeFilter.Valid() {
		query += ` AND c.type = ?`
		args = append(args, string(typeFilter))
	}
	query += ` GROUP BY c.id ORDER BY c.type, c.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []CategoryWithCount
	for rows.Next() {
		var (
			c        CategoryWithCount
			parentID sql.NullInt64
			ownerID  sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.IsCustom, &parentID, &ownerID, &c.TransactionCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		if ownerID.Valid {
			c.UserID = &ownerID.Int64
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns a category visible to the user: their own or a system
// default.
func (r *SQLiteRepository) GetCategory(ctx context.Context, id, userID int64) (*core.Category, error) {
	var (
		c        core.Category
		parentID sql.NullInt64
		ownerID  sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, type, is_custom, parent_id, user_id
		 FROM categories WHERE id = ? AND (user_id IS NULL OR user_id = ?)`,
		id, userID,
	).Scan(&c.ID, &c.Name, &c.Type, &c.IsCustom, &parentID, &ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if parentID.Valid {
		c.ParentID = &parentID.Int64
	}
	if ownerID.Valid {
		c.UserID = &ownerID.Int64
	}
	return &c, nil
}

// CreateCategory inserts a custom category owned by c.UserID and fills in the
// generated id.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, c *core.Category) error {
	c.IsCustom = true
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, type, is_custom, parent_id, user_id)
		 VALUES (?, ?, 1, ?, ?) RETURNING id`,
		c.Name, string(c.Type), nullableID(c.ParentID), nullableID(c.UserID),
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c *core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, parent_id = ? WHERE id = ?`,
		c.Name, string(c.Type), nullableID(c.ParentID), c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

// CountTransactionsByCategory returns how many transactions reference the
// category; a non-zero count blocks deletion.
func (r *SQLiteRepository) CountTransactionsByCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions by category: %w", err)
	}
	return n, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
