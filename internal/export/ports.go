package export

import (
	"context"

	"urbanpark/internal/core"
	"urbanpark/internal/reports"
)

// Ports for outbound export adapters.
type (
	// ReceiptWriter appends a parking receipt row to the export target.
	ReceiptWriter interface {
		AppendReceipt(ctx context.Context, r core.Receipt) (rowRef string, err error)
	}

	// SaleWriter appends a pass sale row to the export target.
	SaleWriter interface {
		AppendSale(ctx context.Context, s core.PassSale) (rowRef string, err error)
	}

	// ReportWriter replaces the monthly profit report on the export target.
	ReportWriter interface {
		WriteProfitReport(ctx context.Context, rows []reports.ProfitRow) error
	}
)
