package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"urbanpark/internal/core"
	"urbanpark/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "urbanpark.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPassPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	passes := []core.Pass{
		{ID: "AAAA1111", Plate: "ABC123", Kind: core.WeeklyPass,
			ValidFrom: core.NewDate(2026, 2, 1), ValidTo: core.NewDate(2026, 2, 7)},
		{ID: "BBBB2222", Plate: "ABC123", Kind: core.SingleEntryPass},
	}
	for _, p := range passes {
		if err := s.SavePass(ctx, p); err != nil {
			t.Fatalf("save %s: %v", p.ID, err)
		}
	}
	if err := s.MarkPassUsed(ctx, "BBBB2222"); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	if err := s.MarkPassUsed(ctx, "MISSING0"); err != core.ErrPassNotFound {
		t.Fatalf("got %v, want ErrPassNotFound", err)
	}

	got, err := s.ListPasses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d passes, want 2", len(got))
	}
	// Issue order preserved.
	if got[0].ID != "AAAA1111" || got[1].ID != "BBBB2222" {
		t.Fatalf("order not preserved: %+v", got)
	}
	if !got[0].ValidFrom.Equal(core.NewDate(2026, 2, 1).Time) {
		t.Fatalf("valid_from round trip failed: %v", got[0].ValidFrom)
	}
	if !got[1].Used || !got[1].ValidFrom.IsZero() {
		t.Fatalf("single-entry round trip failed: %+v", got[1])
	}
}

func TestReceiptPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := core.Receipt{
		TicketID:    "T-AAAA1111",
		Plate:       "XYZ999",
		Category:    core.Heavy,
		SpotID:      7,
		EntryTime:   time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
		ExitTime:    time.Date(2026, 2, 3, 11, 0, 0, 0, time.UTC),
		Fee:         core.Money{Cents: 1800},
		Rule:        "Hourly Pricing (Peak/Off-peak/Weekend)",
		PassInfo:    "No pass",
		AppliedKind: "",
	}
	if err := s.SaveReceipt(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetReceipt(ctx, "T-AAAA1111")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.EntryTime.Equal(r.EntryTime) || !got.ExitTime.Equal(r.ExitTime) {
		t.Fatalf("time round trip failed: %+v", got)
	}
	if got.Fee.Cents != 1800 || got.Category != core.Heavy {
		t.Fatalf("unexpected receipt: %+v", got)
	}

	if _, err := s.GetReceipt(ctx, "T-MISSING1"); err != core.ErrReceiptNotFound {
		t.Fatalf("got %v, want ErrReceiptNotFound", err)
	}

	list, err := s.ListReceipts(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %+v (err=%v)", list, err)
	}
}

func TestLedgerPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AppendLedger(ctx, store.LedgerRevenue,
		core.LedgerEntry{Date: core.NewDate(2026, 1, 5), Amount: core.Money{Cents: 20000}, Label: "Parking Fee"}); err != nil {
		t.Fatalf("append revenue: %v", err)
	}
	if err := s.AppendLedger(ctx, store.LedgerExpense,
		core.LedgerEntry{Date: core.NewDate(2026, 1, 6), Amount: core.Money{Cents: 5000}, Label: "Maintenance"}); err != nil {
		t.Fatalf("append expense: %v", err)
	}
	// Validation applies before touching the database.
	if err := s.AppendLedger(ctx, store.LedgerExpense, core.LedgerEntry{}); err == nil {
		t.Fatalf("expected validation error")
	}

	revs, err := s.ListLedger(ctx, store.LedgerRevenue)
	if err != nil || len(revs) != 1 || revs[0].Amount.Cents != 20000 {
		t.Fatalf("revenues = %+v (err=%v)", revs, err)
	}
	exps, err := s.ListLedger(ctx, store.LedgerExpense)
	if err != nil || len(exps) != 1 || exps[0].Label != "Maintenance" {
		t.Fatalf("expenses = %+v (err=%v)", exps, err)
	}
}

func TestSalesAndParties(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sale := core.PassSale{SoldOn: core.NewDate(2026, 1, 10), Kind: core.WeeklyPass,
		Amount: core.Money{Cents: 5000}, PassID: "AAAA1111", Plate: "ABC123"}
	if err := s.SavePassSale(ctx, sale); err != nil {
		t.Fatalf("save sale: %v", err)
	}
	sales, err := s.ListPassSales(ctx)
	if err != nil || len(sales) != 1 || sales[0].Kind != core.WeeklyPass {
		t.Fatalf("sales = %+v (err=%v)", sales, err)
	}

	if err := s.SaveDebtor(ctx, core.Debtor{Name: "John", Amount: core.Money{Cents: 10000}, DueDate: core.NewDate(2026, 1, 1)}); err != nil {
		t.Fatalf("save debtor: %v", err)
	}
	debtors, err := s.ListDebtors(ctx)
	if err != nil || len(debtors) != 1 || debtors[0].Name != "John" {
		t.Fatalf("debtors = %+v (err=%v)", debtors, err)
	}

	if err := s.SaveCreditor(ctx, core.Creditor{Name: "Acme", Amount: core.Money{Cents: 9900}, PayableDate: core.NewDate(2026, 4, 1)}); err != nil {
		t.Fatalf("save creditor: %v", err)
	}
	creditors, err := s.ListCreditors(ctx)
	if err != nil || len(creditors) != 1 || creditors[0].Name != "Acme" {
		t.Fatalf("creditors = %+v (err=%v)", creditors, err)
	}
}
