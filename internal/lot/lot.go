// Package lot tracks spots and active sessions. It enforces one
// active session per plate and close-once session semantics; fee
// resolution belongs to the billing package.
package lot

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"urbanpark/internal/core"
)

type spot struct {
	id       int
	occupied bool
	plate    string
}

type Lot struct {
	mu       sync.Mutex
	spots    []spot
	byPlate  map[string]*core.Session
	byTicket map[string]*core.Session
}

func New(capacity int) *Lot {
	spots := make([]spot, capacity)
	for i := range spots {
		spots[i].id = i + 1
	}
	return &Lot{
		spots:    spots,
		byPlate:  make(map[string]*core.Session),
		byTicket: make(map[string]*core.Session),
	}
}

func (l *Lot) Capacity() int {
	return len(l.spots)
}

// Available counts free spots.
func (l *Lot) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	free := 0
	for _, s := range l.spots {
		if !s.occupied {
			free++
		}
	}
	return free
}

func newTicketID() string {
	return "T-" + strings.ToUpper(uuid.NewString()[:8])
}

// Enter allocates the first free spot and opens a session. passID is
// the explicit pass presented at entry, already validated by the
// caller against the registry.
func (l *Lot) Enter(vehicle core.Vehicle, passID string, at time.Time) (*core.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, active := l.byPlate[vehicle.Plate]; active {
		return nil, core.ErrPlateAlreadyParked
	}

	var allocated *spot
	for i := range l.spots {
		if !l.spots[i].occupied {
			allocated = &l.spots[i]
			break
		}
	}
	if allocated == nil {
		return nil, core.ErrLotFull
	}
	allocated.occupied = true
	allocated.plate = vehicle.Plate

	session := &core.Session{
		TicketID:  newTicketID(),
		Vehicle:   vehicle,
		SpotID:    allocated.id,
		EntryTime: at,
		PassID:    passID,
	}
	l.byPlate[vehicle.Plate] = session
	l.byTicket[session.TicketID] = session
	out := *session
	return &out, nil
}

// Exit closes the session identified by ticket id or plate, frees its
// spot and returns the closed session.
func (l *Lot) Exit(identifier string, at time.Time) (*core.Session, error) {
	key := core.NormalizePlate(identifier)

	l.mu.Lock()
	defer l.mu.Unlock()

	session, ok := l.byTicket[key]
	if !ok {
		session, ok = l.byPlate[key]
	}
	if !ok {
		return nil, core.ErrNoActiveSession
	}
	if err := session.Close(at); err != nil {
		return nil, err
	}

	idx := session.SpotID - 1
	if idx >= 0 && idx < len(l.spots) {
		l.spots[idx].occupied = false
		l.spots[idx].plate = ""
	}
	delete(l.byPlate, session.Vehicle.Plate)
	delete(l.byTicket, session.TicketID)

	out := *session
	return &out, nil
}
