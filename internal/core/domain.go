package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"

	SourceBank  SourceType = "BANK"
	SourceCash  SourceType = "CASH"
	SourceOther SourceType = "OTHER"
)

type (
	TransactionType string

	SourceType string

	Date struct {
		time.Time
	}

	User struct {
		ID           int64      `json:"id"`
		Username     string     `json:"username"`
		Email        string     `json:"email"`
		PasswordHash string     `json:"-"`
		CreatedAt    time.Time  `json:"createdAt"`
		LastLogin    *time.Time `json:"lastLogin,omitempty"`
	}

	Category struct {
		ID       int64           `json:"id"`
		Name     string          `json:"categoryName"`
		Type     TransactionType `json:"categoryType"`
		IsCustom bool            `json:"isCustom"`
		ParentID *int64          `json:"parentCategoryId,omitempty"`
		UserID   *int64          `json:"userId,omitempty"`
	}

	IncomeSource struct {
		ID             int64      `json:"id"`
		UserID         int64      `json:"userId"`
		Name           string     `json:"sourceName"`
		Type           SourceType `json:"sourceType"`
		InitialBalance Money      `json:"initialBalance"`
		IsActive       bool       `json:"isActive"`
		CreatedAt      time.Time  `json:"createdAt"`
	}

	Transaction struct {
		ID          int64           `json:"id"`
		UserID      int64           `json:"userId"`
		Date        Date            `json:"transactionDate"`
		Type        TransactionType `json:"transactionType"`
		Amount      Money           `json:"amount"`
		Description string          `json:"description"`
		CategoryID  int64           `json:"categoryId"`
		SourceID    int64           `json:"sourceId"`
		CreatedAt   time.Time       `json:"createdAt"`

		// Resolved on read via joins, not part of the stored row.
		CategoryName string          `json:"-"`
		CategoryType TransactionType `json:"-"`
		SourceName   string          `json:"-"`
		SourceType   SourceType      `json:"-"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrMissingCategory  = errors.New("category is required")
	ErrMissingSource    = errors.New("source is required")
	ErrTypeMismatch     = errors.New("transaction type does not match category type")
	ErrEmptyName        = errors.New("empty name")
	ErrNameTooLong      = errors.New("name too long (max 100 characters)")
	ErrInvalidSourceTyp = errors.New("invalid source type")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (st SourceType) Valid() bool {
	switch st {
	case SourceBank, SourceCash, SourceOther:
		return true
	}
	return false
}

// NewDate creates a Date for the given UTC calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" with an RFC 3339 fallback for clients that
// send full timestamps. The time-of-day component is discarded.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	return Date{}, ErrInvalidDate
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the YYYY-MM bucket key; its lexicographic order is
// chronological.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (s IncomeSource) Validate() error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	if !s.Type.Valid() {
		return ErrInvalidSourceTyp
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if t.SourceID <= 0 {
		return ErrMissingSource
	}
	return nil
}
