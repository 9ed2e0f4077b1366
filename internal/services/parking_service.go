// Package services orchestrates the parking use cases: pass sales,
// vehicle entry and exit, reports, and the finance ledger. It is the
// only layer that talks to both the in-memory lot state and the store.
package services

import (
	"context"
	"fmt"
	"time"

	"urbanpark/internal/amqp"
	"urbanpark/internal/billing"
	"urbanpark/internal/core"
	"urbanpark/internal/finance"
	"urbanpark/internal/log"
	"urbanpark/internal/lot"
	"urbanpark/internal/passes"
	"urbanpark/internal/reports"
	"urbanpark/internal/store"
)

// Publisher emits events for the export worker. A nil publisher
// disables publishing; publish failures are logged, never fatal.
type Publisher interface {
	PublishReceiptPosted(ctx context.Context, ticketID string, feeCents int64) error
	PublishPassSold(ctx context.Context, msg amqp.PassSoldMessage) error
}

type ParkingService struct {
	lot       *lot.Lot
	registry  *passes.Registry
	store     store.Store
	publisher Publisher
	logger    *log.Logger

	now func() time.Time
}

// NewParkingService wires the service. The registry should already be
// seeded from the store's persisted passes.
func NewParkingService(l *lot.Lot, reg *passes.Registry, st store.Store, pub Publisher, logger *log.Logger) *ParkingService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ParkingService{
		lot:       l,
		registry:  reg,
		store:     st,
		publisher: pub,
		logger:    logger.WithComponent(log.ComponentParking),
		now:       time.Now,
	}
}

// SellPass issues a pass, records the sale and posts the price as
// revenue. Range kinds need both dates; single-entry ignores them.
func (s *ParkingService) SellPass(ctx context.Context, kind string, plate string, from, to core.Date, price core.Money) (*core.Pass, error) {
	parsedKind, err := core.ParsePassKind(kind)
	if err != nil {
		return nil, err
	}
	if err := price.Validate(); err != nil {
		return nil, err
	}

	pass, err := s.registry.Issue(parsedKind, plate, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.store.SavePass(ctx, *pass); err != nil {
		return nil, fmt.Errorf("persist pass: %w", err)
	}

	soldOn := core.DateOf(s.now())
	sale := core.PassSale{
		SoldOn: soldOn,
		Kind:   pass.Kind,
		Amount: price,
		PassID: pass.ID,
		Plate:  pass.Plate,
	}
	if err := s.store.SavePassSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("persist pass sale: %w", err)
	}

	entry := core.LedgerEntry{
		Date:   soldOn,
		Amount: price,
		Label:  string(pass.Kind) + " Sale",
	}
	if err := s.store.AppendLedger(ctx, store.LedgerRevenue, entry); err != nil {
		return nil, fmt.Errorf("record sale revenue: %w", err)
	}

	s.logger.InfoContext(ctx, "Pass sold",
		log.FieldOperation, log.OpSellPass,
		log.FieldPassID, pass.ID,
		log.FieldPassKind, string(pass.Kind),
		log.FieldPlate, pass.Plate,
		log.FieldAmount, price.Cents)

	if s.publisher != nil {
		msg := amqp.PassSoldMessage{
			PassID:      pass.ID,
			Kind:        string(pass.Kind),
			Plate:       pass.Plate,
			AmountCents: price.Cents,
			SoldOn:      soldOn.Format("2006-01-02"),
		}
		if err := s.publisher.PublishPassSold(ctx, msg); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish pass sale",
				log.FieldPassID, pass.ID,
				log.FieldError, err)
		}
	}

	return pass, nil
}

// VehicleEntry opens a session. A presented pass must exist and belong
// to the entering plate; validity is only judged at exit.
func (s *ParkingService) VehicleEntry(ctx context.Context, category, plate, passID string) (*core.Session, error) {
	parsedCategory, err := core.ParseVehicleCategory(category)
	if err != nil {
		return nil, err
	}
	vehicle, err := core.NewVehicle(parsedCategory, plate)
	if err != nil {
		return nil, err
	}

	if passID != "" {
		pass, err := s.registry.Lookup(passID)
		if err != nil {
			return nil, err
		}
		if pass.Plate != vehicle.Plate {
			return nil, core.ErrPassPlateMismatch
		}
		passID = pass.ID
	}

	session, err := s.lot.Enter(vehicle, passID, s.now())
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Vehicle entered",
		log.FieldOperation, log.OpEntry,
		log.FieldTicketID, session.TicketID,
		log.FieldPlate, session.Vehicle.Plate,
		log.FieldCategory, string(session.Vehicle.Category),
		log.FieldSpotID, session.SpotID)
	return session, nil
}

// VehicleExit closes the session identified by ticket id or plate,
// resolves the fee and persists the receipt. Fees above zero post to
// the revenue ledger.
func (s *ParkingService) VehicleExit(ctx context.Context, identifier string) (*core.Receipt, error) {
	session, err := s.lot.Exit(identifier, s.now())
	if err != nil {
		return nil, err
	}

	resolution, err := billing.Resolve(session, s.registry)
	if err != nil {
		return nil, fmt.Errorf("resolve fee: %w", err)
	}

	// The registry consumed the single-entry pass; mirror that in the
	// store so a restart does not resurrect it.
	if resolution.Applied == core.SingleEntryPass && session.PassID != "" {
		if err := s.store.MarkPassUsed(ctx, session.PassID); err != nil {
			return nil, fmt.Errorf("persist pass consumption: %w", err)
		}
	}

	receipt := core.Receipt{
		TicketID:    session.TicketID,
		Plate:       session.Vehicle.Plate,
		Category:    session.Vehicle.Category,
		SpotID:      session.SpotID,
		EntryTime:   session.EntryTime,
		ExitTime:    session.ExitTime,
		Fee:         resolution.Fee,
		Rule:        resolution.Rule,
		PassInfo:    resolution.PassInfo,
		AppliedKind: resolution.Applied,
	}
	if err := s.store.SaveReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("persist receipt: %w", err)
	}

	if receipt.Fee.Cents > 0 {
		entry := core.LedgerEntry{
			Date:   core.DateOf(session.ExitTime),
			Amount: receipt.Fee,
			Label:  "Parking Fee",
		}
		if err := s.store.AppendLedger(ctx, store.LedgerRevenue, entry); err != nil {
			return nil, fmt.Errorf("record parking revenue: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "Vehicle exited",
		log.FieldOperation, log.OpExit,
		log.FieldTicketID, receipt.TicketID,
		log.FieldPlate, receipt.Plate,
		log.FieldFeeCents, receipt.Fee.Cents,
		"rule", receipt.Rule)

	if s.publisher != nil {
		if err := s.publisher.PublishReceiptPosted(ctx, receipt.TicketID, receipt.Fee.Cents); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish receipt",
				log.FieldTicketID, receipt.TicketID,
				log.FieldError, err)
		}
	}

	return &receipt, nil
}

// Receipt returns a persisted receipt by ticket id.
func (s *ParkingService) Receipt(ctx context.Context, ticketID string) (*core.Receipt, error) {
	return s.store.GetReceipt(ctx, ticketID)
}

// PassSaleReport counts passes sold per month per kind.
func (s *ParkingService) PassSaleReport(ctx context.Context) (map[string]reports.PassSaleCounts, error) {
	sales, err := s.store.ListPassSales(ctx)
	if err != nil {
		return nil, err
	}
	return reports.PassSales(sales), nil
}

// VehicleReport counts distinct plates per month among receipts.
func (s *ParkingService) VehicleReport(ctx context.Context) (map[string]int, error) {
	receipts, err := s.store.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}
	return reports.UniqueVehicles(receipts), nil
}

// RevenueReport sums revenue per month.
func (s *ParkingService) RevenueReport(ctx context.Context) (map[string]core.Money, error) {
	entries, err := s.store.ListLedger(ctx, store.LedgerRevenue)
	if err != nil {
		return nil, err
	}
	return reports.Revenue(entries), nil
}

// ExpenseReport sums expenses per month.
func (s *ParkingService) ExpenseReport(ctx context.Context) (map[string]core.Money, error) {
	entries, err := s.store.ListLedger(ctx, store.LedgerExpense)
	if err != nil {
		return nil, err
	}
	return reports.Expenses(entries), nil
}

// ProfitReport returns per-month profit rows in chronological order.
func (s *ParkingService) ProfitReport(ctx context.Context) ([]reports.ProfitRow, error) {
	revenues, err := s.store.ListLedger(ctx, store.LedgerRevenue)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListLedger(ctx, store.LedgerExpense)
	if err != nil {
		return nil, err
	}
	return reports.Profit(revenues, expenses), nil
}

// FinanceSummary returns the all-time rollup.
func (s *ParkingService) FinanceSummary(ctx context.Context) (finance.Summary, error) {
	revenues, err := s.store.ListLedger(ctx, store.LedgerRevenue)
	if err != nil {
		return finance.Summary{}, err
	}
	expenses, err := s.store.ListLedger(ctx, store.LedgerExpense)
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Summarize(revenues, expenses), nil
}

// AddExpense appends an expense ledger entry.
func (s *ParkingService) AddExpense(ctx context.Context, date core.Date, amount core.Money, label string) error {
	entry := core.LedgerEntry{Date: date, Amount: amount, Label: label}
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.store.AppendLedger(ctx, store.LedgerExpense, entry)
}

// AddDebtor records an amount owed to the facility.
func (s *ParkingService) AddDebtor(ctx context.Context, d core.Debtor) error {
	if err := d.Amount.Validate(); err != nil {
		return err
	}
	if err := d.DueDate.Validate(); err != nil {
		return err
	}
	return s.store.SaveDebtor(ctx, d)
}

// AddCreditor records an amount the facility owes.
func (s *ParkingService) AddCreditor(ctx context.Context, c core.Creditor) error {
	if err := c.Amount.Validate(); err != nil {
		return err
	}
	if err := c.PayableDate.Validate(); err != nil {
		return err
	}
	return s.store.SaveCreditor(ctx, c)
}

// OverdueDebtors lists debtors more than 30 days past due as of now.
func (s *ParkingService) OverdueDebtors(ctx context.Context) ([]core.Debtor, error) {
	debtors, err := s.store.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	return finance.OverdueDebtors(debtors, core.DateOf(s.now())), nil
}

// Creditors lists all creditor records.
func (s *ParkingService) Creditors(ctx context.Context) ([]core.Creditor, error) {
	return s.store.ListCreditors(ctx)
}

// LotStatus reports capacity and free spots.
type LotStatus struct {
	Capacity  int `json:"capacity"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
}

func (s *ParkingService) LotStatus() LotStatus {
	capacity := s.lot.Capacity()
	available := s.lot.Available()
	return LotStatus{
		Capacity:  capacity,
		Available: available,
		Occupied:  capacity - available,
	}
}

func (s *ParkingService) Close() error {
	return s.store.Close()
}
