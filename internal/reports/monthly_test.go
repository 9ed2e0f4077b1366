package reports

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"urbanpark/internal/core"
)

func TestPassSales(t *testing.T) {
	sales := []core.PassSale{
		{SoldOn: core.NewDate(2026, 1, 10), Kind: core.WeeklyPass, Amount: core.Money{Cents: 5000}, PassID: "AAAA1111", Plate: "ABC123"},
		{SoldOn: core.NewDate(2026, 1, 20), Kind: core.MonthlyPass, Amount: core.Money{Cents: 18000}, PassID: "BBBB2222", Plate: "ABC123"},
		{SoldOn: core.NewDate(2026, 2, 1), Kind: core.SingleEntryPass, Amount: core.Money{Cents: 1500}, PassID: "CCCC3333", Plate: "XYZ999"},
	}
	got := PassSales(sales)
	want := map[string]PassSaleCounts{
		"2026-01": {Weekly: 1, Monthly: 1, Single: 0},
		"2026-02": {Single: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PassSales = %+v, want %+v", got, want)
	}
}

func TestUniqueVehicles(t *testing.T) {
	receipts := []core.Receipt{
		{Plate: "XYZ999", ExitTime: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)},
		{Plate: "XYZ999", ExitTime: time.Date(2026, 2, 15, 10, 0, 0, 0, time.UTC)},
		{Plate: "ABC123", ExitTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Plate: "XYZ999", ExitTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
	}
	got := UniqueVehicles(receipts)
	want := map[string]int{"2026-02": 1, "2026-03": 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UniqueVehicles = %v, want %v", got, want)
	}
}

func TestRevenueTotals(t *testing.T) {
	entries := []core.LedgerEntry{
		{Date: core.NewDate(2026, 1, 5), Amount: core.Money{Cents: 20000}, Label: "Parking Fee"},
		{Date: core.NewDate(2026, 1, 20), Amount: core.Money{Cents: 5000}, Label: "WeeklyPass Sale"},
		{Date: core.NewDate(2026, 2, 2), Amount: core.Money{Cents: 100}, Label: "Parking Fee"},
	}
	got := Revenue(entries)
	want := map[string]core.Money{
		"2026-01": {Cents: 25000},
		"2026-02": {Cents: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Revenue = %v, want %v", got, want)
	}
}

func TestProfit(t *testing.T) {
	revenues := []core.LedgerEntry{
		{Date: core.NewDate(2026, 1, 5), Amount: core.Money{Cents: 20000}, Label: "Parking Fee"},
		{Date: core.NewDate(2026, 3, 1), Amount: core.Money{Cents: 1000}, Label: "Parking Fee"},
	}
	expenses := []core.LedgerEntry{
		{Date: core.NewDate(2026, 1, 6), Amount: core.Money{Cents: 5000}, Label: "Maintenance"},
		{Date: core.NewDate(2026, 2, 10), Amount: core.Money{Cents: 700}, Label: "Electricity"},
	}
	got := Profit(revenues, expenses)
	want := []ProfitRow{
		{Month: "2026-01", Revenue: core.Money{Cents: 20000}, Expenses: core.Money{Cents: 5000}, Profit: core.Money{Cents: 15000}},
		{Month: "2026-02", Revenue: core.Money{}, Expenses: core.Money{Cents: 700}, Profit: core.Money{Cents: -700}},
		{Month: "2026-03", Revenue: core.Money{Cents: 1000}, Expenses: core.Money{}, Profit: core.Money{Cents: 1000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Profit = %+v, want %+v", got, want)
	}
}

func TestAggregationIsOrderIndependent(t *testing.T) {
	entries := []core.LedgerEntry{
		{Date: core.NewDate(2026, 1, 1), Amount: core.Money{Cents: 100}, Label: "a"},
		{Date: core.NewDate(2026, 1, 15), Amount: core.Money{Cents: 250}, Label: "b"},
		{Date: core.NewDate(2026, 2, 1), Amount: core.Money{Cents: 400}, Label: "c"},
		{Date: core.NewDate(2026, 3, 9), Amount: core.Money{Cents: 75}, Label: "d"},
	}
	want := Revenue(entries)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5; i++ {
		shuffled := append([]core.LedgerEntry(nil), entries...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Revenue(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d changed totals: %v != %v", i, got, want)
		}
	}
}
