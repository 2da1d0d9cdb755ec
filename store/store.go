package store

import (
	"fmt"
	"strings"

	"github.com/platewise/reservations/models"
)

// Persister is the slice of storage the store needs: load the book at
// startup, rewrite it after every mutation.
type Persister interface {
	LoadReservations() ([]models.Reservation, error)
	LoadCounter() (int, error)
	SaveReservations(list []models.Reservation, nextID int) error
}

// KeepTable leaves the current table untouched in an update.
const KeepTable = -1

// UpdateParams carries replacement fields for Update. String fields keep
// their current value when empty or "0", NewPartySize keeps it when 0, and
// NewTable (a 0-based index) keeps it when set to KeepTable.
type UpdateParams struct {
	NewID        string
	NewName      string
	NewPhone     string
	NewPartySize int
	NewDate      string
	NewTime      string
	NewTable     int
}

// ReservationStore owns the table board and the reservation book. It is
// single-threaded: one caller drives it to completion per operation.
type ReservationStore struct {
	persister    Persister
	clock        models.Clock
	tables       [models.TableCount]bool
	reservations []models.Reservation
	nextID       int
}

// New loads the persisted book, rebuilds the table board from it and
// recovers the ID counter as the larger of the persisted value and the
// highest seen ID plus one.
func New(p Persister, clock models.Clock) (*ReservationStore, error) {
	s := &ReservationStore{persister: p, clock: clock, nextID: 1}
	for i := range s.tables {
		s.tables[i] = true
	}

	list, err := p.LoadReservations()
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		if r.TableIndex >= 0 && r.TableIndex < models.TableCount {
			s.tables[r.TableIndex] = false
		}
		s.reservations = append(s.reservations, r)
		if n, ok := models.ReservationIDNumber(r.ID); ok && n+1 > s.nextID {
			s.nextID = n + 1
		}
	}

	saved, err := p.LoadCounter()
	if err != nil {
		return nil, err
	}
	if saved > s.nextID {
		s.nextID = saved
	}
	return s, nil
}

// Clock returns the reference clock the store validates against.
func (s *ReservationStore) Clock() models.Clock {
	return s.clock
}

// Reserve books a table. It validates every field, rejects a booked table,
// assigns the next free ID and persists the book. The assigned ID is
// returned.
func (s *ReservationStore) Reserve(customer, phone string, partySize int, date, timeOfDay string, tableIndex int) (string, error) {
	if !models.ValidPhone(phone) {
		return "", &ValidationError{Field: "phone number", Reason: "use XXX-XXX-XXXX"}
	}
	if !models.ValidPartySize(partySize) {
		return "", &ValidationError{Field: "party size", Reason: "must be at least 1"}
	}
	if !models.ValidDate(date, s.clock) {
		return "", &ValidationError{Field: "date", Reason: "use YYYY-MM-DD on or after " + s.clock.Date}
	}
	if !models.ValidTime(timeOfDay, date, s.clock) {
		return "", &ValidationError{Field: "time", Reason: "use HH:MM, after " + s.clock.TimeString() + " if today"}
	}
	if tableIndex < 0 || tableIndex >= models.TableCount {
		return "", &ValidationError{Field: "table number", Reason: fmt.Sprintf("must be between 1 and %d", models.TableCount)}
	}
	if !s.tables[tableIndex] {
		return "", &ConflictError{Resource: "table", Detail: fmt.Sprintf("table %d is already booked", tableIndex+1)}
	}

	id := models.FormatReservationID(s.nextID)
	for s.idInUse(id, "") {
		s.nextID++
		id = models.FormatReservationID(s.nextID)
	}
	s.nextID++

	s.tables[tableIndex] = false
	s.reservations = append(s.reservations, models.Reservation{
		ID:           id,
		CustomerName: customer,
		PhoneNumber:  phone,
		PartySize:    partySize,
		Date:         date,
		Time:         timeOfDay,
		TableIndex:   tableIndex,
	})

	if err := s.persister.SaveReservations(s.reservations, s.nextID); err != nil {
		return "", err
	}
	return id, nil
}

// Update replaces fields of an existing reservation. Every supplied field
// is validated and collisions are checked before anything changes, so a
// failed update leaves the board and the book exactly as they were. A
// non-empty customerFilter restricts the lookup to that customer's
// reservations.
func (s *ReservationStore) Update(id, customerFilter string, p UpdateParams) error {
	upperID := strings.ToUpper(id)
	if !models.ValidReservationID(upperID) {
		return &ValidationError{Field: "reservation ID", Reason: "use 'ID <number>A', e.g. ID 1A"}
	}
	idx := s.find(upperID, customerFilter)
	if idx < 0 {
		return ErrNotFound
	}
	current := s.reservations[idx]

	newID := strings.ToUpper(p.NewID)
	changeID := newID != "" && newID != "0"
	if changeID {
		if !models.ValidReservationID(newID) {
			return &ValidationError{Field: "new reservation ID", Reason: "use 'ID <number>A', e.g. ID 1A"}
		}
		if s.idInUse(newID, upperID) {
			return &ConflictError{Resource: "reservation ID", Detail: newID + " already exists"}
		}
	}
	if supplied(p.NewPhone) && !models.ValidPhone(p.NewPhone) {
		return &ValidationError{Field: "phone number", Reason: "use XXX-XXX-XXXX"}
	}
	if p.NewPartySize != 0 && !models.ValidPartySize(p.NewPartySize) {
		return &ValidationError{Field: "party size", Reason: "must be at least 1"}
	}
	if supplied(p.NewDate) && !models.ValidDate(p.NewDate, s.clock) {
		return &ValidationError{Field: "date", Reason: "use YYYY-MM-DD on or after " + s.clock.Date}
	}
	effectiveDate := current.Date
	if supplied(p.NewDate) {
		effectiveDate = p.NewDate
	}
	if supplied(p.NewTime) && !models.ValidTime(p.NewTime, effectiveDate, s.clock) {
		return &ValidationError{Field: "time", Reason: "use HH:MM, after " + s.clock.TimeString() + " if today"}
	}

	newTable := p.NewTable
	if newTable == KeepTable {
		newTable = current.TableIndex
	} else {
		if newTable < 0 || newTable >= models.TableCount {
			return &ValidationError{Field: "table number", Reason: fmt.Sprintf("must be between 1 and %d", models.TableCount)}
		}
		if newTable != current.TableIndex && !s.tables[newTable] {
			return &ConflictError{Resource: "table", Detail: fmt.Sprintf("table %d is already booked", newTable+1)}
		}
	}

	if newTable != current.TableIndex {
		s.tables[current.TableIndex] = true
		s.tables[newTable] = false
	}

	r := &s.reservations[idx]
	if changeID {
		r.ID = newID
	}
	if supplied(p.NewName) {
		r.CustomerName = p.NewName
	}
	if supplied(p.NewPhone) {
		r.PhoneNumber = p.NewPhone
	}
	if p.NewPartySize != 0 {
		r.PartySize = p.NewPartySize
	}
	if supplied(p.NewDate) {
		r.Date = p.NewDate
	}
	if supplied(p.NewTime) {
		r.Time = p.NewTime
	}
	r.TableIndex = newTable

	return s.persister.SaveReservations(s.reservations, s.nextID)
}

// Cancel removes every record carrying the ID and frees its table. A
// non-empty customerFilter restricts the lookup to that customer's
// reservations.
func (s *ReservationStore) Cancel(id, customerFilter string) error {
	upperID := strings.ToUpper(id)
	if !models.ValidReservationID(upperID) {
		return &ValidationError{Field: "reservation ID", Reason: "use 'ID <number>A', e.g. ID 1A"}
	}
	idx := s.find(upperID, customerFilter)
	if idx < 0 {
		return ErrNotFound
	}

	s.tables[s.reservations[idx].TableIndex] = true

	kept := make([]models.Reservation, 0, len(s.reservations))
	for _, r := range s.reservations {
		if r.ID != upperID {
			kept = append(kept, r)
		}
	}
	s.reservations = kept

	return s.persister.SaveReservations(s.reservations, s.nextID)
}

// Find returns the reservation with the given ID, case-insensitively.
func (s *ReservationStore) Find(id string) (models.Reservation, bool) {
	idx := s.find(strings.ToUpper(id), "")
	if idx < 0 {
		return models.Reservation{}, false
	}
	return s.reservations[idx], true
}

// ListByCustomer returns the customer's reservations in booking order.
func (s *ReservationStore) ListByCustomer(name string) []models.Reservation {
	var out []models.Reservation
	for _, r := range s.reservations {
		if r.CustomerName == name {
			out = append(out, r)
		}
	}
	return out
}

// ListAll returns a copy of the whole book in booking order.
func (s *ReservationStore) ListAll() []models.Reservation {
	out := make([]models.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// HasReservations reports whether the customer holds any reservation.
func (s *ReservationStore) HasReservations(name string) bool {
	for _, r := range s.reservations {
		if r.CustomerName == name {
			return true
		}
	}
	return false
}

// TableAvailability returns the board; true means available.
func (s *ReservationStore) TableAvailability() [models.TableCount]bool {
	return s.tables
}

func (s *ReservationStore) find(upperID, customerFilter string) int {
	for i, r := range s.reservations {
		if r.ID == upperID && (customerFilter == "" || r.CustomerName == customerFilter) {
			return i
		}
	}
	return -1
}

func (s *ReservationStore) idInUse(upperID, excludeID string) bool {
	for _, r := range s.reservations {
		if r.ID == upperID && r.ID != excludeID {
			return true
		}
	}
	return false
}

func supplied(v string) bool {
	return v != "" && v != "0"
}
