// Package worker moves persisted parking records into the configured
// export target, driven by queue events plus a periodic report pass.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"urbanpark/internal/amqp"
	"urbanpark/internal/core"
	"urbanpark/internal/export"
	"urbanpark/internal/reports"
	"urbanpark/internal/store"
)

// ExportWorker consumes parking events and writes rows to the export
// target. The store stays the source of truth; the target only ever
// receives copies.
type ExportWorker struct {
	store    store.Store
	receipts export.ReceiptWriter
	sales    export.SaleWriter
	report   export.ReportWriter
}

func NewExportWorker(st store.Store, receipts export.ReceiptWriter, sales export.SaleWriter, report export.ReportWriter) *ExportWorker {
	return &ExportWorker{
		store:    st,
		receipts: receipts,
		sales:    sales,
		report:   report,
	}
}

// Handlers returns the AMQP dispatch table for this worker.
func (w *ExportWorker) Handlers() amqp.Handlers {
	return amqp.Handlers{
		OnReceiptPosted: w.HandleReceiptPosted,
		OnPassSold:      w.HandlePassSold,
	}
}

// HandleReceiptPosted fetches the full receipt from the store and
// appends it to the export target. The message only carries the ticket
// id, so a receipt missing from the store is a hard error and the
// delivery is retried.
func (w *ExportWorker) HandleReceiptPosted(ctx context.Context, msg *amqp.ReceiptPostedMessage) error {
	slog.InfoContext(ctx, "Processing receipt event",
		"ticket_id", msg.TicketID,
		"fee_cents", msg.FeeCents)

	receipt, err := w.store.GetReceipt(ctx, msg.TicketID)
	if err != nil {
		return fmt.Errorf("get receipt from store: %w", err)
	}

	ref, err := w.receipts.AppendReceipt(ctx, *receipt)
	if err != nil {
		return fmt.Errorf("export receipt: %w", err)
	}

	slog.InfoContext(ctx, "Receipt exported",
		"ticket_id", msg.TicketID,
		"sheets_ref", ref)
	return nil
}

// HandlePassSold exports a pass sale. The message is self-contained.
func (w *ExportWorker) HandlePassSold(ctx context.Context, msg *amqp.PassSoldMessage) error {
	slog.InfoContext(ctx, "Processing pass sale event",
		"pass_id", msg.PassID,
		"pass_kind", msg.Kind)

	soldOn, err := time.Parse("2006-01-02", msg.SoldOn)
	if err != nil {
		return fmt.Errorf("parse sale date %q: %w", msg.SoldOn, err)
	}

	sale := core.PassSale{
		SoldOn: core.DateOf(soldOn),
		Kind:   core.PassKind(msg.Kind),
		Amount: core.Money{Cents: msg.AmountCents},
		PassID: msg.PassID,
		Plate:  msg.Plate,
	}

	ref, err := w.sales.AppendSale(ctx, sale)
	if err != nil {
		return fmt.Errorf("export pass sale: %w", err)
	}

	slog.InfoContext(ctx, "Pass sale exported",
		"pass_id", msg.PassID,
		"sheets_ref", ref)
	return nil
}

// ExportProfitReport recomputes the monthly profit report from the
// ledger and rewrites the report sheet. Called periodically.
func (w *ExportWorker) ExportProfitReport(ctx context.Context) error {
	revenues, err := w.store.ListLedger(ctx, store.LedgerRevenue)
	if err != nil {
		return fmt.Errorf("list revenue ledger: %w", err)
	}
	expenses, err := w.store.ListLedger(ctx, store.LedgerExpense)
	if err != nil {
		return fmt.Errorf("list expense ledger: %w", err)
	}

	rows := reports.Profit(revenues, expenses)
	if len(rows) == 0 {
		return nil
	}

	if err := w.report.WriteProfitReport(ctx, rows); err != nil {
		return fmt.Errorf("write profit report: %w", err)
	}

	slog.InfoContext(ctx, "Profit report exported", "months", len(rows))
	return nil
}

// Run consumes queue events and rewrites the profit report on every
// tick until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Consume(ctx, w.Handlers())
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-ticker.C:
			if err := w.ExportProfitReport(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic report export failed", "error", err)
			}
		}
	}
}
