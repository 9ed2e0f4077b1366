// Package memory is an in-process exporter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"urbanpark/internal/core"
	ports "urbanpark/internal/export"
	"urbanpark/internal/reports"
)

type Exporter struct {
	mu       sync.Mutex
	receipts []core.Receipt
	sales    []core.PassSale
	report   []reports.ProfitRow
}

var (
	_ ports.ReceiptWriter = (*Exporter)(nil)
	_ ports.SaleWriter    = (*Exporter)(nil)
	_ ports.ReportWriter  = (*Exporter)(nil)
)

func New() *Exporter { return &Exporter{} }

func (e *Exporter) AppendReceipt(_ context.Context, r core.Receipt) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.receipts = append(e.receipts, r)
	return fmt.Sprintf("receipts:%d", len(e.receipts)), nil
}

func (e *Exporter) AppendSale(_ context.Context, s core.PassSale) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sales = append(e.sales, s)
	return fmt.Sprintf("sales:%d", len(e.sales)), nil
}

func (e *Exporter) WriteProfitReport(_ context.Context, rows []reports.ProfitRow) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.report = append([]reports.ProfitRow(nil), rows...)
	return nil
}

// Receipts returns a copy of everything exported so far.
func (e *Exporter) Receipts() []core.Receipt {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Receipt(nil), e.receipts...)
}

func (e *Exporter) Sales() []core.PassSale {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.PassSale(nil), e.sales...)
}

func (e *Exporter) Report() []reports.ProfitRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]reports.ProfitRow(nil), e.report...)
}
