package core

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summary is the income/expense breakdown of a set of records.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	// Skipped counts records left out of both totals: unrecognized
	// category or a non-finite amount.
	Skipped int
}

// Summarize sums income and expense amounts. Records with an unrecognized
// category contribute to neither total.
func Summarize(records []Record) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	skipped := 0
	for _, r := range records {
		if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
			skipped++
			continue
		}
		switch r.Category.Kind() {
		case KindIncome:
			income = income.Add(decimal.NewFromFloat(r.Amount))
		case KindExpense:
			expense = expense.Add(decimal.NewFromFloat(r.Amount))
		default:
			skipped++
		}
	}
	return Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
		Skipped: skipped,
	}
}

// BalanceFloat returns the balance as a float64 for callers that work with
// plain amounts.
func (s Summary) BalanceFloat() float64 {
	return s.Balance.InexactFloat64()
}
