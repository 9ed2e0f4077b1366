// Package memory is the in-process store backend, used by default and
// in tests. Collections are append-only slices guarded by one mutex.
package memory

import (
	"context"
	"sync"

	"urbanpark/internal/core"
	"urbanpark/internal/store"
)

type Store struct {
	mu        sync.Mutex
	passes    []core.Pass
	sales     []core.PassSale
	receipts  []core.Receipt
	revenues  []core.LedgerEntry
	expenses  []core.LedgerEntry
	debtors   []core.Debtor
	creditors []core.Creditor
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) SavePass(_ context.Context, p core.Pass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes = append(s.passes, p)
	return nil
}

func (s *Store) MarkPassUsed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.passes {
		if s.passes[i].ID == id {
			s.passes[i].Used = true
			return nil
		}
	}
	return core.ErrPassNotFound
}

func (s *Store) ListPasses(_ context.Context) ([]core.Pass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Pass(nil), s.passes...), nil
}

func (s *Store) SavePassSale(_ context.Context, sale core.PassSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sale)
	return nil
}

func (s *Store) ListPassSales(_ context.Context) ([]core.PassSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PassSale(nil), s.sales...), nil
}

func (s *Store) SaveReceipt(_ context.Context, r core.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *Store) GetReceipt(_ context.Context, ticketID string) (*core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.receipts {
		if s.receipts[i].TicketID == ticketID {
			out := s.receipts[i]
			return &out, nil
		}
	}
	return nil, core.ErrReceiptNotFound
}

func (s *Store) ListReceipts(_ context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Receipt(nil), s.receipts...), nil
}

func (s *Store) AppendLedger(_ context.Context, kind store.LedgerKind, e core.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == store.LedgerExpense {
		s.expenses = append(s.expenses, e)
	} else {
		s.revenues = append(s.revenues, e)
	}
	return nil
}

func (s *Store) ListLedger(_ context.Context, kind store.LedgerKind) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == store.LedgerExpense {
		return append([]core.LedgerEntry(nil), s.expenses...), nil
	}
	return append([]core.LedgerEntry(nil), s.revenues...), nil
}

func (s *Store) SaveDebtor(_ context.Context, d core.Debtor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.debtors = append(s.debtors, d)
	return nil
}

func (s *Store) ListDebtors(_ context.Context) ([]core.Debtor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Debtor(nil), s.debtors...), nil
}

func (s *Store) SaveCreditor(_ context.Context, c core.Creditor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creditors = append(s.creditors, c)
	return nil
}

func (s *Store) ListCreditors(_ context.Context) ([]core.Creditor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Creditor(nil), s.creditors...), nil
}

func (s *Store) Close() error {
	return nil
}
