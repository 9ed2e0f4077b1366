// Package passes stores issued passes and answers validity queries.
// The registry keeps insertion order: FindValid returns the first
// matching pass by issue order, so overlapping passes resolve the
// same way on every call.
package passes

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"urbanpark/internal/core"
)

// Registry owns all pass instances. Passes are never deleted; expired
// or consumed passes stay queryable and simply report invalid.
type Registry struct {
	mu      sync.Mutex
	ordered []*core.Pass
	byID    map[string]*core.Pass
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*core.Pass)}
}

// NewRegistryFrom seeds a registry with previously persisted passes,
// preserving their order.
func NewRegistryFrom(seed []core.Pass) *Registry {
	r := NewRegistry()
	for i := range seed {
		p := seed[i]
		r.ordered = append(r.ordered, &p)
		r.byID[p.ID] = &p
	}
	return r
}

// newPassID returns an 8-character uppercase identifier.
func newPassID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// Issue creates and stores a pass. Range kinds require from ≤ to;
// single-entry passes ignore the dates. A plate may hold any number
// of simultaneous passes.
func (r *Registry) Issue(kind core.PassKind, plate string, from, to core.Date) (*core.Pass, error) {
	plate = core.NormalizePlate(plate)
	if plate == "" {
		return nil, core.ErrEmptyPlate
	}
	switch kind {
	case core.WeeklyPass, core.MonthlyPass:
		if err := from.Validate(); err != nil {
			return nil, err
		}
		if err := to.Validate(); err != nil {
			return nil, err
		}
		if to.Before(from.Time) {
			return nil, core.ErrInvalidPassPeriod
		}
	case core.SingleEntryPass:
		from, to = core.Date{}, core.Date{}
	default:
		return nil, core.ErrUnknownPassKind
	}

	p := &core.Pass{
		ID:        newPassID(),
		Plate:     plate,
		Kind:      kind,
		ValidFrom: from,
		ValidTo:   to,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ordered = append(r.ordered, p)
	r.byID[p.ID] = p
	out := *p
	return &out, nil
}

// Lookup returns the pass with the given identifier.
func (r *Registry) Lookup(id string) (*core.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return nil, core.ErrPassNotFound
	}
	out := *p
	return &out, nil
}

// FindValid returns the first pass, in issue order, whose plate matches
// and whose validity predicate holds at the given instant, or nil.
func (r *Registry) FindValid(plate string, at time.Time) *core.Pass {
	plate = core.NormalizePlate(plate)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.ordered {
		if p.Plate == plate && p.ValidAt(at) {
			out := *p
			return &out
		}
	}
	return nil
}

// MarkUsed consumes a single-entry pass. It is the registry's only
// mutator and is invoked once per successful waiver.
func (r *Registry) MarkUsed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return core.ErrPassNotFound
	}
	p.Used = true
	return nil
}
