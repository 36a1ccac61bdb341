package core

import (
	"errors"
	"math"
	"strings"
)

const (
	Income  Category = "Income"
	Expense Category = "Expense"

	// Literals written by the first version of the program.
	legacyIncome  Category = "Доход"
	legacyExpense Category = "Расход"
)

const (
	KindUnrecognized CategoryKind = iota
	KindIncome
	KindExpense
)

type (
	// Category is stored verbatim; only Kind interprets it.
	Category string

	CategoryKind int

	Record struct {
		Date        string // YYYY-MM-DD, not validated
		Category    Category
		Amount      float64
		Description string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrLineBreak     = errors.New("field contains a line break")
)

// Kind classifies the category for balance purposes.
func (c Category) Kind() CategoryKind {
	switch c {
	case Income, legacyIncome:
		return KindIncome
	case Expense, legacyExpense:
		return KindExpense
	default:
		return KindUnrecognized
	}
}

func (c Category) String() string {
	return string(c)
}

func (k CategoryKind) String() string {
	switch k {
	case KindIncome:
		return "income"
	case KindExpense:
		return "expense"
	default:
		return "unrecognized"
	}
}

// NewRecord builds a record from already parsed values. It never fails.
func NewRecord(date string, category Category, amount float64, description string) Record {
	return Record{
		Date:        date,
		Category:    category,
		Amount:      amount,
		Description: description,
	}
}

// Validate reports values that cannot be written to the line-oriented
// ledger file without corrupting it. Nothing in the ledger calls it.
func (r Record) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"date", r.Date},
		{"category", string(r.Category)},
		{"description", r.Description},
	}
	for _, f := range fields {
		if strings.ContainsAny(f.value, "\r\n") {
			return errors.New(f.name + ": " + ErrLineBreak.Error())
		}
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return ErrInvalidAmount
	}
	return nil
}
