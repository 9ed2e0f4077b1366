package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Standard VehicleCategory = "standard"
	Light    VehicleCategory = "light"
	Heavy    VehicleCategory = "heavy"
)

const (
	WeeklyPass      PassKind = "WeeklyPass"
	MonthlyPass     PassKind = "MonthlyPass"
	SingleEntryPass PassKind = "SingleEntryPass"
)

type (
	VehicleCategory string

	PassKind string

	Date struct {
		time.Time
	}

	Vehicle struct {
		Plate    string
		Category VehicleCategory
	}

	// Pass is owned by the registry. Range passes never mutate; Used is
	// flipped exactly once for a single-entry pass, on its first waiver.
	Pass struct {
		ID        string
		Plate     string
		Kind      PassKind
		ValidFrom Date
		ValidTo   Date
		Used      bool
	}

	Session struct {
		TicketID  string
		Vehicle   Vehicle
		SpotID    int
		EntryTime time.Time
		PassID    string // explicit pass presented at entry, empty if none
		ExitTime  time.Time
	}

	// Receipt is produced exactly once per closed session.
	Receipt struct {
		TicketID    string
		Plate       string
		Category    VehicleCategory
		SpotID      int
		EntryTime   time.Time
		ExitTime    time.Time
		Fee         Money
		Rule        string
		PassInfo    string
		AppliedKind PassKind // empty when charged normally
	}

	LedgerEntry struct {
		Date   Date
		Amount Money
		Label  string
	}

	PassSale struct {
		SoldOn Date
		Kind   PassKind
		Amount Money
		PassID string
		Plate  string
	}

	Debtor struct {
		Name    string
		Amount  Money
		DueDate Date
	}

	Creditor struct {
		Name        string
		Amount      Money
		PayableDate Date
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyPlate         = errors.New("empty plate")
	ErrEmptyLabel         = errors.New("empty label")
	ErrUnknownCategory    = errors.New("unknown vehicle category")
	ErrUnknownPassKind    = errors.New("unknown pass kind")
	ErrInvalidPassPeriod  = errors.New("pass end date before start date")
	ErrPassNotFound       = errors.New("pass not found")
	ErrPassPlateMismatch  = errors.New("pass plate does not match vehicle plate")
	ErrSessionNotClosed   = errors.New("session is not closed")
	ErrSessionClosed      = errors.New("session already closed")
	ErrExitBeforeEntry    = errors.New("exit time before entry time")
	ErrLotFull            = errors.New("no spots available")
	ErrNoActiveSession    = errors.New("no active session for ticket or plate")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrPlateAlreadyParked = errors.New("vehicle already has an active session")
)

// NormalizePlate trims whitespace and uppercases, so plates compare
// case-insensitively everywhere.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// ParseVehicleCategory maps user input onto the closed category set.
func ParseVehicleCategory(s string) (VehicleCategory, error) {
	switch VehicleCategory(strings.ToLower(strings.TrimSpace(s))) {
	case Standard:
		return Standard, nil
	case Light:
		return Light, nil
	case Heavy:
		return Heavy, nil
	}
	return "", ErrUnknownCategory
}

// Multiplier returns the fee multiplier for the category.
func (c VehicleCategory) Multiplier() float64 {
	switch c {
	case Light:
		return 0.8
	case Heavy:
		return 1.5
	default:
		return 1.0
	}
}

func NewVehicle(category VehicleCategory, plate string) (Vehicle, error) {
	plate = NormalizePlate(plate)
	if plate == "" {
		return Vehicle{}, ErrEmptyPlate
	}
	switch category {
	case Standard, Light, Heavy:
	default:
		return Vehicle{}, ErrUnknownCategory
	}
	return Vehicle{Plate: plate, Category: category}, nil
}

// ParsePassKind maps user input onto the closed pass kind set. Short
// forms ("weekly") and full forms ("WeeklyPass") are both accepted.
func ParsePassKind(s string) (PassKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "weeklypass":
		return WeeklyPass, nil
	case "monthly", "monthlypass":
		return MonthlyPass, nil
	case "single", "singleentry", "singleentrypass":
		return SingleEntryPass, nil
	}
	return "", ErrUnknownPassKind
}

// IsRange reports whether the kind carries a validity date range.
func (k PassKind) IsRange() bool {
	return k == WeeklyPass || k == MonthlyPass
}

// ValidAt evaluates the pass validity predicate at the given instant.
// Range passes compare the calendar date inclusively on both ends;
// single-entry passes are valid until consumed, independent of time.
func (p *Pass) ValidAt(at time.Time) bool {
	if p.Kind.IsRange() {
		d := DateOf(at)
		return !d.Before(p.ValidFrom.Time) && !d.After(p.ValidTo.Time)
	}
	return !p.Used
}

// NewDate creates a Date from year, month, day (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// MonthKey returns the "YYYY-MM" bucket key used by monthly reports.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MonthKeyOf buckets an instant by its calendar month.
func MonthKeyOf(t time.Time) string {
	return t.Format("2006-01")
}

// Closed reports whether the session has an exit time.
func (s *Session) Closed() bool {
	return !s.ExitTime.IsZero()
}

// Close sets the exit time. A session closes at most once.
func (s *Session) Close(at time.Time) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	s.ExitTime = at
	return nil
}

// Duration is zero until the session is closed.
func (s *Session) Duration() time.Duration {
	if !s.Closed() {
		return 0
	}
	return s.ExitTime.Sub(s.EntryTime)
}

func (e LedgerEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Label) == "" {
		return ErrEmptyLabel
	}
	return nil
}

// Overdue reports whether the debt is more than 30 days past due.
func (d Debtor) Overdue(today Date) bool {
	return today.Sub(d.DueDate.Time) > 30*24*time.Hour
}
