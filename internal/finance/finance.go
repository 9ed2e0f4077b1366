// Package finance computes totals over the append-only ledger and
// filters debtor/creditor records. Like reports, it owns no data.
package finance

import "urbanpark/internal/core"

// Summary is the all-time revenue/expense/profit rollup.
type Summary struct {
	TotalRevenue  core.Money `json:"total_revenue"`
	TotalExpenses core.Money `json:"total_expenses"`
	Profit        core.Money `json:"profit"`
}

// Total sums ledger entries.
func Total(entries []core.LedgerEntry) core.Money {
	var sum core.Money
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// Summarize builds the all-time summary from both ledger sides.
func Summarize(revenues, expenses []core.LedgerEntry) Summary {
	r := Total(revenues)
	e := Total(expenses)
	return Summary{TotalRevenue: r, TotalExpenses: e, Profit: r.Sub(e)}
}

// OverdueDebtors returns debtors more than 30 days past due.
func OverdueDebtors(debtors []core.Debtor, today core.Date) []core.Debtor {
	var out []core.Debtor
	for _, d := range debtors {
		if d.Overdue(today) {
			out = append(out, d)
		}
	}
	return out
}
