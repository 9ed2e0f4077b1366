// Package billing resolves the final fee for a closed session: pass
// precedence first, tiered pricing otherwise.
package billing

import (
	"fmt"
	"time"

	"urbanpark/internal/core"
	"urbanpark/internal/pricing"
)

// Registry is the pass store the resolver consults.
type Registry interface {
	Lookup(id string) (*core.Pass, error)
	FindValid(plate string, at time.Time) *core.Pass
	MarkUsed(id string) error
}

// Resolution is the outcome of a fee computation.
type Resolution struct {
	Fee      core.Money
	Rule     string
	PassInfo string
	Applied  core.PassKind // empty when charged normally
}

// Resolve computes the fee for a closed session.
//
// Decision order, first match wins:
//  1. an explicit pass presented at entry: invalid at exit means the
//     session is charged normally with an INVALID explanation and no
//     auto-detection; a valid range pass waives the fee; a valid
//     single-entry pass waives the fee and is consumed.
//  2. no explicit pass: the first valid pass on record for the plate
//     waives the fee only if it is a range pass. A single-entry pass
//     is never auto-applied.
//  3. the tiered hourly pricing engine.
//
// At most one pass is mutated per resolution (the single-entry waiver).
func Resolve(session *core.Session, reg Registry) (Resolution, error) {
	if !session.Closed() {
		return Resolution{}, core.ErrSessionNotClosed
	}
	if session.ExitTime.Before(session.EntryTime) {
		return Resolution{}, core.ErrExitBeforeEntry
	}

	passInfo := "No pass"
	if session.PassID != "" {
		p, err := reg.Lookup(session.PassID)
		if err != nil {
			return Resolution{}, fmt.Errorf("lookup session pass: %w", err)
		}
		if !p.ValidAt(session.ExitTime) {
			return Resolution{
				Fee:      pricing.Price(session.EntryTime, session.ExitTime, session.Vehicle.Category.Multiplier()),
				Rule:     pricing.RuleLabel,
				PassInfo: string(p.Kind) + " INVALID (charged normally)",
			}, nil
		}
		if p.Kind.IsRange() {
			return Resolution{
				Rule:     string(p.Kind) + " Applied",
				PassInfo: string(p.Kind) + " VALID (fee waived)",
				Applied:  p.Kind,
			}, nil
		}
		if err := reg.MarkUsed(p.ID); err != nil {
			return Resolution{}, fmt.Errorf("consume single-entry pass: %w", err)
		}
		return Resolution{
			Rule:     string(core.SingleEntryPass) + " Applied",
			PassInfo: string(core.SingleEntryPass) + " USED (fee waived)",
			Applied:  core.SingleEntryPass,
		}, nil
	}

	if p := reg.FindValid(session.Vehicle.Plate, session.ExitTime); p != nil && p.Kind.IsRange() {
		return Resolution{
			Rule:     "Pass Auto-Detected",
			PassInfo: string(p.Kind) + " VALID (fee waived)",
			Applied:  p.Kind,
		}, nil
	}

	return Resolution{
		Fee:      pricing.Price(session.EntryTime, session.ExitTime, session.Vehicle.Category.Multiplier()),
		Rule:     pricing.RuleLabel,
		PassInfo: passInfo,
	}, nil
}
