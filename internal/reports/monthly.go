// Package reports groups dated records by calendar month. Every
// function is a pure view over the slices it receives: nothing is
// cached, so permuting the input never changes a result.
package reports

import (
	"sort"

	"urbanpark/internal/core"
)

// PassSaleCounts holds the three fixed per-month counters. Unseen
// kinds stay zero.
type PassSaleCounts struct {
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
	Single  int `json:"single"`
}

// ProfitRow is one month of the profit report.
type ProfitRow struct {
	Month    string     `json:"month"`
	Revenue  core.Money `json:"revenue"`
	Expenses core.Money `json:"expenses"`
	Profit   core.Money `json:"profit"`
}

// PassSales counts passes sold per month per kind, keyed by sale date.
func PassSales(sales []core.PassSale) map[string]PassSaleCounts {
	out := make(map[string]PassSaleCounts)
	for _, s := range sales {
		key := s.SoldOn.MonthKey()
		counts := out[key]
		switch s.Kind {
		case core.WeeklyPass:
			counts.Weekly++
		case core.MonthlyPass:
			counts.Monthly++
		case core.SingleEntryPass:
			counts.Single++
		}
		out[key] = counts
	}
	return out
}

// UniqueVehicles counts distinct plates per month among receipts,
// bucketed by exit date. A plate visiting twice in one month counts
// once; across months it counts once per month.
func UniqueVehicles(receipts []core.Receipt) map[string]int {
	plates := make(map[string]map[string]struct{})
	for _, r := range receipts {
		key := core.MonthKeyOf(r.ExitTime)
		if plates[key] == nil {
			plates[key] = make(map[string]struct{})
		}
		plates[key][r.Plate] = struct{}{}
	}
	out := make(map[string]int, len(plates))
	for key, set := range plates {
		out[key] = len(set)
	}
	return out
}

// Revenue sums revenue entries per month.
func Revenue(entries []core.LedgerEntry) map[string]core.Money {
	return monthlyTotals(entries)
}

// Expenses sums expense entries per month.
func Expenses(entries []core.LedgerEntry) map[string]core.Money {
	return monthlyTotals(entries)
}

func monthlyTotals(entries []core.LedgerEntry) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, e := range entries {
		key := e.Date.MonthKey()
		out[key] = out[key].Add(e.Amount)
	}
	return out
}

// Profit reports revenue minus expenses for the union of months seen
// on either side, missing side zero, ascending by month key (the
// lexicographic order of "YYYY-MM" is chronological).
func Profit(revenues, expenses []core.LedgerEntry) []ProfitRow {
	rev := monthlyTotals(revenues)
	exp := monthlyTotals(expenses)

	months := make([]string, 0, len(rev)+len(exp))
	seen := make(map[string]struct{})
	for key := range rev {
		months = append(months, key)
		seen[key] = struct{}{}
	}
	for key := range exp {
		if _, ok := seen[key]; !ok {
			months = append(months, key)
		}
	}
	sort.Strings(months)

	out := make([]ProfitRow, 0, len(months))
	for _, key := range months {
		r := rev[key]
		e := exp[key]
		out = append(out, ProfitRow{
			Month:    key,
			Revenue:  r,
			Expenses: e,
			Profit:   r.Sub(e),
		})
	}
	return out
}
