// Package sqlite persists parking records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"urbanpark/internal/core"
	"urbanpark/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func (s *Store) SavePass(ctx context.Context, p core.Pass) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO passes (id, plate, kind, valid_from, valid_to, used) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Plate, string(p.Kind), formatDate(p.ValidFrom), formatDate(p.ValidTo), boolToInt(p.Used))
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

func (s *Store) MarkPassUsed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE passes SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark pass used: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrPassNotFound
	}
	return nil
}

// ListPasses returns passes in issue order, which FindValid relies on.
func (s *Store) ListPasses(ctx context.Context) ([]core.Pass, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plate, kind, valid_from, valid_to, used FROM passes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}
	defer rows.Close()

	var out []core.Pass
	for rows.Next() {
		var p core.Pass
		var kind, from, to string
		var used int
		if err := rows.Scan(&p.ID, &p.Plate, &kind, &from, &to, &used); err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		p.Kind = core.PassKind(kind)
		p.Used = used != 0
		if p.ValidFrom, err = parseDate(from); err != nil {
			return nil, err
		}
		if p.ValidTo, err = parseDate(to); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SavePassSale(ctx context.Context, sale core.PassSale) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pass_sales (sold_on, kind, amount_cents, pass_id, plate) VALUES (?, ?, ?, ?, ?)`,
		formatDate(sale.SoldOn), string(sale.Kind), sale.Amount.Cents, sale.PassID, sale.Plate)
	if err != nil {
		return fmt.Errorf("insert pass sale: %w", err)
	}
	return nil
}

func (s *Store) ListPassSales(ctx context.Context) ([]core.PassSale, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sold_on, kind, amount_cents, pass_id, plate FROM pass_sales ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pass sales: %w", err)
	}
	defer rows.Close()

	var out []core.PassSale
	for rows.Next() {
		var sale core.PassSale
		var soldOn, kind string
		if err := rows.Scan(&soldOn, &kind, &sale.Amount.Cents, &sale.PassID, &sale.Plate); err != nil {
			return nil, fmt.Errorf("scan pass sale: %w", err)
		}
		sale.Kind = core.PassKind(kind)
		if sale.SoldOn, err = parseDate(soldOn); err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

func (s *Store) SaveReceipt(ctx context.Context, r core.Receipt) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO receipts (ticket_id, plate, category, spot_id, entry_time, exit_time, fee_cents, rule, pass_info, applied_kind)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.TicketID, r.Plate, string(r.Category), r.SpotID,
		r.EntryTime.UTC().Format(timeLayout), r.ExitTime.UTC().Format(timeLayout),
		r.Fee.Cents, r.Rule, r.PassInfo, string(r.AppliedKind))
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

func (s *Store) GetReceipt(ctx context.Context, ticketID string) (*core.Receipt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT ticket_id, plate, category, spot_id, entry_time, exit_time, fee_cents, rule, pass_info, applied_kind
		 FROM receipts WHERE ticket_id = ?`, ticketID)
	r, err := scanReceipt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListReceipts(ctx context.Context) ([]core.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticket_id, plate, category, spot_id, entry_time, exit_time, fee_cents, rule, pass_info, applied_kind
		 FROM receipts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var out []core.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanReceipt(scan func(dest ...any) error) (*core.Receipt, error) {
	var r core.Receipt
	var category, entry, exit, applied string
	if err := scan(&r.TicketID, &r.Plate, &category, &r.SpotID, &entry, &exit,
		&r.Fee.Cents, &r.Rule, &r.PassInfo, &applied); err != nil {
		return nil, err
	}
	r.Category = core.VehicleCategory(category)
	r.AppliedKind = core.PassKind(applied)
	var err error
	if r.EntryTime, err = time.Parse(timeLayout, entry); err != nil {
		return nil, fmt.Errorf("parse entry time: %w", err)
	}
	if r.ExitTime, err = time.Parse(timeLayout, exit); err != nil {
		return nil, fmt.Errorf("parse exit time: %w", err)
	}
	return &r, nil
}

func (s *Store) AppendLedger(ctx context.Context, kind store.LedgerKind, e core.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (kind, entry_date, amount_cents, label) VALUES (?, ?, ?, ?)`,
		string(kind), formatDate(e.Date), e.Amount.Cents, e.Label)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (s *Store) ListLedger(ctx context.Context, kind store.LedgerKind) ([]core.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_date, amount_cents, label FROM ledger_entries WHERE kind = ? ORDER BY id`,
		string(kind))
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []core.LedgerEntry
	for rows.Next() {
		var e core.LedgerEntry
		var date string
		if err := rows.Scan(&date, &e.Amount.Cents, &e.Label); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveDebtor(ctx context.Context, d core.Debtor) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debtors (name, amount_cents, due_date) VALUES (?, ?, ?)`,
		d.Name, d.Amount.Cents, formatDate(d.DueDate))
	if err != nil {
		return fmt.Errorf("insert debtor: %w", err)
	}
	return nil
}

func (s *Store) ListDebtors(ctx context.Context) ([]core.Debtor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, amount_cents, due_date FROM debtors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list debtors: %w", err)
	}
	defer rows.Close()

	var out []core.Debtor
	for rows.Next() {
		var d core.Debtor
		var due string
		if err := rows.Scan(&d.Name, &d.Amount.Cents, &due); err != nil {
			return nil, fmt.Errorf("scan debtor: %w", err)
		}
		if d.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) SaveCreditor(ctx context.Context, c core.Creditor) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO creditors (name, amount_cents, payable_date) VALUES (?, ?, ?)`,
		c.Name, c.Amount.Cents, formatDate(c.PayableDate))
	if err != nil {
		return fmt.Errorf("insert creditor: %w", err)
	}
	return nil
}

func (s *Store) ListCreditors(ctx context.Context) ([]core.Creditor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, amount_cents, payable_date FROM creditors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list creditors: %w", err)
	}
	defer rows.Close()

	var out []core.Creditor
	for rows.Next() {
		var c core.Creditor
		var payable string
		if err := rows.Scan(&c.Name, &c.Amount.Cents, &payable); err != nil {
			return nil, fmt.Errorf("scan creditor: %w", err)
		}
		if c.PayableDate, err = parseDate(payable); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
