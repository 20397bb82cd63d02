package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. Amount carries the magnitude,
	// Type carries the sign. Month caches the YYYY-MM key derived from Date;
	// ResolvedMonth falls back to Date when the cache is missing.
	Transaction struct {
		ID          string
		Type        TransactionType
		Category    string
		Amount      Money
		Date        Date
		Month       string
		IsFixed     bool
		Description string
	}

	// ManualConfig is the user's manual-configuration snapshot. The zero
	// value means "nothing set"; a nil *ManualConfig means no snapshot was
	// supplied at all.
	ManualConfig struct {
		Income           Money
		FixedExpenses    Money
		VariableEstimate Money
		Invested         Money
		CategoryBudgets  map[string]Money
	}

	GoalStatus string

	// Goal contributions fold additively into net worth; goals are not
	// otherwise analyzed by the engine.
	Goal struct {
		ID      string
		Name    string
		Target  Money
		Current Money
		Status  GoalStatus
	}
)

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyDescription = errors.New("empty description")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MonthKey returns the YYYY-MM key for the date, or "" for a zero date.
func (d Date) MonthKey() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

// ResolvedMonth returns the YYYY-MM key the transaction belongs to. The
// cached Month field wins when it is well-formed; otherwise the key is
// derived from Date. "" means the transaction cannot be placed in a month
// and is skipped by month-keyed aggregation.
func (t Transaction) ResolvedMonth() string {
	if m := normalizeMonthKey(t.Month); m != "" {
		return m
	}
	return t.Date.MonthKey()
}

// normalizeMonthKey accepts "YYYY-MM" or anything with that prefix (a full
// ISO date string included) and returns the 7-char key, or "".
func normalizeMonthKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 7 {
		return ""
	}
	s = s[:7]
	for i, r := range s {
		if i == 4 {
			if r != '-' {
				return ""
			}
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Budget returns the configured monthly budget for a category and whether
// one is set. A nil config or missing key means "no limit".
func (c *ManualConfig) Budget(category string) (Money, bool) {
	if c == nil || c.CategoryBudgets == nil {
		return Money{}, false
	}
	b, ok := c.CategoryBudgets[NormalizeCategory(category)]
	if !ok || b.Cents <= 0 {
		return Money{}, false
	}
	return b, true
}
