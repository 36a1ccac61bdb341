package ledger

import (
	"wallet/internal/core"
	"wallet/internal/log"
)

// Filter selects records by exact match. A nil field matches anything.
type Filter struct {
	Category *core.Category
	Date     *string
	Amount   *float64
}

// Matches reports whether r satisfies every set criterion. Strings compare
// case-sensitively and amounts without tolerance.
func (f Filter) Matches(r core.Record) bool {
	if f.Category != nil && r.Category != *f.Category {
		return false
	}
	if f.Date != nil && r.Date != *f.Date {
		return false
	}
	if f.Amount != nil && r.Amount != *f.Amount {
		return false
	}
	return true
}

// Search scans the records in order and returns the matching ones. The
// result is empty, not nil, when nothing matches.
func (l *Ledger) Search(f Filter) []core.Record {
	out := make([]core.Record, 0)
	for _, r := range l.records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	l.logger.Debug("Search finished", log.FieldOperation, log.OpSearch, log.FieldCount, len(out))
	return out
}

// Summary returns the income/expense breakdown of the current records.
func (l *Ledger) Summary() core.Summary {
	return core.Summarize(l.records)
}

// CalculateBalance returns income minus expense. Records with any other
// category are ignored.
func (l *Ledger) CalculateBalance() float64 {
	return l.Summary().BalanceFloat()
}

// DisplayBalance writes the current balance as a status line.
func (l *Ledger) DisplayBalance() {
	s := l.Summary()
	l.logger.Debug("Balance computed",
		log.FieldOperation, log.OpBalance,
		log.FieldBalance, s.Balance.String(),
		log.FieldCount, len(l.records))
	l.statusf("%s %s", MsgBalance, core.FormatAmount(s.BalanceFloat()))
}
