// Package store defines the persistence ports for parking records.
// Implementations live in the sqlite and memory subpackages; the
// service layer only sees these interfaces.
package store

import (
	"context"

	"urbanpark/internal/core"
)

// LedgerKind selects a side of the ledger.
type LedgerKind string

const (
	LedgerRevenue LedgerKind = "revenue"
	LedgerExpense LedgerKind = "expense"
)

type (
	// PassStore persists issued passes so the registry survives restarts.
	// Listings preserve issue order.
	PassStore interface {
		SavePass(ctx context.Context, p core.Pass) error
		MarkPassUsed(ctx context.Context, id string) error
		ListPasses(ctx context.Context) ([]core.Pass, error)
	}

	// SaleStore appends and lists pass sale records.
	SaleStore interface {
		SavePassSale(ctx context.Context, s core.PassSale) error
		ListPassSales(ctx context.Context) ([]core.PassSale, error)
	}

	// ReceiptStore appends and lists receipts.
	ReceiptStore interface {
		SaveReceipt(ctx context.Context, r core.Receipt) error
		GetReceipt(ctx context.Context, ticketID string) (*core.Receipt, error)
		ListReceipts(ctx context.Context) ([]core.Receipt, error)
	}

	// LedgerStore appends and lists dated financial records.
	LedgerStore interface {
		AppendLedger(ctx context.Context, kind LedgerKind, e core.LedgerEntry) error
		ListLedger(ctx context.Context, kind LedgerKind) ([]core.LedgerEntry, error)
	}

	// PartyStore holds debtor and creditor records.
	PartyStore interface {
		SaveDebtor(ctx context.Context, d core.Debtor) error
		ListDebtors(ctx context.Context) ([]core.Debtor, error)
		SaveCreditor(ctx context.Context, c core.Creditor) error
		ListCreditors(ctx context.Context) ([]core.Creditor, error)
	}

	// Store is the full persistence surface used by the service.
	Store interface {
		PassStore
		SaleStore
		ReceiptStore
		LedgerStore
		PartyStore
		Close() error
	}
)
