package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/reservations/models"
	"github.com/platewise/reservations/store"
)

var testClock = models.Clock{Date: "2025-05-22", Hour: 22, Minute: 19}

type memPersister struct {
	list    []models.Reservation
	counter int
	saves   int
}

func (m *memPersister) LoadReservations() ([]models.Reservation, error) { return m.list, nil }
func (m *memPersister) LoadCounter() (int, error)                       { return m.counter, nil }

func (m *memPersister) SaveReservations(list []models.Reservation, nextID int) error {
	m.list = append([]models.Reservation(nil), list...)
	m.counter = nextID
	m.saves++
	return nil
}

func newStore(t *testing.T, p *memPersister) *store.ReservationStore {
	t.Helper()
	s, err := store.New(p, testClock)
	require.NoError(t, err)
	return s
}

func TestReserveAndCancelRoundTrip(t *testing.T) {
	p := &memPersister{}
	s := newStore(t, p)

	id, err := s.Reserve("alice", "123-456-7890", 4, "2025-05-22", "22:20", 3)
	require.NoError(t, err)
	assert.Equal(t, "ID 1A", id)
	assert.False(t, s.TableAvailability()[3], "table 3 booked after reserve")
	assert.Equal(t, 1, p.saves, "reserve persists")

	require.NoError(t, s.Cancel(id, ""))
	assert.True(t, s.TableAvailability()[3], "table 3 free again after cancel")
	assert.Empty(t, s.ListAll())
	assert.Equal(t, 2, p.saves, "cancel persists")
}

func TestReserveValidation(t *testing.T) {
	s := newStore(t, &memPersister{})

	cases := []struct {
		name  string
		phone string
		size  int
		date  string
		time  string
		table int
		field string
	}{
		{"bad phone", "12345", 2, "2025-06-01", "18:00", 0, "phone number"},
		{"zero party", "123-456-7890", 0, "2025-06-01", "18:00", 0, "party size"},
		{"past date", "123-456-7890", 2, "2025-05-01", "18:00", 0, "date"},
		{"past time today", "123-456-7890", 2, "2025-05-22", "21:00", 0, "time"},
		{"table too high", "123-456-7890", 2, "2025-06-01", "18:00", 10, "table number"},
		{"table negative", "123-456-7890", 2, "2025-06-01", "18:00", -1, "table number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Reserve("bob", tc.phone, tc.size, tc.date, tc.time, tc.table)
			var ve *store.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	assert.Empty(t, s.ListAll(), "failed reserves leave the book empty")
}

func TestReserveTableConflict(t *testing.T) {
	s := newStore(t, &memPersister{})

	_, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 5)
	require.NoError(t, err)

	_, err = s.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 5)
	assert.True(t, store.IsConflict(err))
	assert.Len(t, s.ListAll(), 1)
}

func TestIDsAreUniqueAndMonotonic(t *testing.T) {
	s := newStore(t, &memPersister{})

	prev := 0
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", i)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate ID %s", id)
		seen[id] = true
		n, ok := models.ReservationIDNumber(id)
		require.True(t, ok)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestIDAllocationSkipsTakenIDs(t *testing.T) {
	s := newStore(t, &memPersister{})

	id, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)

	// Rename the first reservation onto the counter's next value, then
	// reserve again: the allocator must skip past the taken ID.
	require.NoError(t, s.Update(id, "", store.UpdateParams{NewID: "ID 2A", NewTable: store.KeepTable}))

	next, err := s.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 1)
	require.NoError(t, err)
	assert.Equal(t, "ID 3A", next)
}

func TestCounterRecoveredAtStartup(t *testing.T) {
	p := &memPersister{
		list: []models.Reservation{
			{ID: "ID 7A", CustomerName: "carol", PhoneNumber: "111-222-3333", PartySize: 2, Date: "2025-06-01", Time: "18:00", TableIndex: 2},
		},
		counter: 3,
	}
	s := newStore(t, p)

	assert.False(t, s.TableAvailability()[2], "board rebuilt from the book")

	id, err := s.Reserve("dave", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)
	assert.Equal(t, "ID 8A", id, "counter is max seen ID + 1 when it beats the persisted value")
}

func TestUpdateSentinelsKeepFields(t *testing.T) {
	s := newStore(t, &memPersister{})
	id, err := s.Reserve("alice", "123-456-7890", 4, "2025-06-01", "18:00", 3)
	require.NoError(t, err)

	err = s.Update(id, "", store.UpdateParams{
		NewID: "0", NewName: "0", NewPhone: "0", NewPartySize: 0,
		NewDate: "0", NewTime: "0", NewTable: store.KeepTable,
	})
	require.NoError(t, err)

	r, found := s.Find(id)
	require.True(t, found)
	assert.Equal(t, "alice", r.CustomerName)
	assert.Equal(t, "123-456-7890", r.PhoneNumber)
	assert.Equal(t, 4, r.PartySize)
	assert.Equal(t, "2025-06-01", r.Date)
	assert.Equal(t, "18:00", r.Time)
	assert.Equal(t, 3, r.TableIndex)
}

func TestUpdateMovesTable(t *testing.T) {
	s := newStore(t, &memPersister{})
	id, err := s.Reserve("alice", "123-456-7890", 4, "2025-06-01", "18:00", 0)
	require.NoError(t, err)

	require.NoError(t, s.Update(id, "", store.UpdateParams{NewTable: 7}))

	board := s.TableAvailability()
	assert.True(t, board[0], "old slot released")
	assert.False(t, board[7], "new slot claimed")
}

func TestUpdateToBookedTableIsAtomic(t *testing.T) {
	s := newStore(t, &memPersister{})
	idA, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)
	_, err = s.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 1)
	require.NoError(t, err)

	err = s.Update(idA, "", store.UpdateParams{NewTable: 1})
	assert.True(t, store.IsConflict(err))

	board := s.TableAvailability()
	assert.False(t, board[0], "alice's booking untouched")
	assert.False(t, board[1], "bob's booking untouched")
	r, _ := s.Find(idA)
	assert.Equal(t, 0, r.TableIndex)
}

func TestUpdateValidatesBeforeMutating(t *testing.T) {
	s := newStore(t, &memPersister{})
	id, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)

	err = s.Update(id, "", store.UpdateParams{NewPhone: "nope", NewTable: 5})
	assert.True(t, store.IsValidation(err))

	board := s.TableAvailability()
	assert.True(t, board[5], "target table never claimed on a failed update")
	r, _ := s.Find(id)
	assert.Equal(t, "123-456-7890", r.PhoneNumber)
	assert.Equal(t, 0, r.TableIndex)
}

func TestUpdateIDCollision(t *testing.T) {
	s := newStore(t, &memPersister{})
	idA, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)
	idB, err := s.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 1)
	require.NoError(t, err)

	err = s.Update(idB, "", store.UpdateParams{NewID: idA, NewTable: store.KeepTable})
	assert.True(t, store.IsConflict(err))

	// Renaming onto its own ID is not a collision.
	require.NoError(t, s.Update(idA, "", store.UpdateParams{NewID: idA, NewTable: store.KeepTable}))
}

func TestCustomerFilterScopesLookups(t *testing.T) {
	s := newStore(t, &memPersister{})
	id, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)

	err = s.Update(id, "mallory", store.UpdateParams{NewPartySize: 6, NewTable: store.KeepTable})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = s.Cancel(id, "mallory")
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.False(t, s.TableAvailability()[0], "filtered miss changes nothing")

	require.NoError(t, s.Cancel(id, "alice"))
}

func TestCancelUnknownID(t *testing.T) {
	s := newStore(t, &memPersister{})
	err := s.Cancel("ID 9A", "")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	err = s.Cancel("garbage", "")
	assert.True(t, store.IsValidation(err))
}

func TestCancelRemovesAllRecordsWithID(t *testing.T) {
	// A hand-edited data file can carry duplicate IDs; cancel sweeps them all.
	p := &memPersister{
		list: []models.Reservation{
			{ID: "ID 1A", CustomerName: "alice", PhoneNumber: "123-456-7890", PartySize: 2, Date: "2025-06-01", Time: "18:00", TableIndex: 0},
			{ID: "ID 1A", CustomerName: "alice", PhoneNumber: "123-456-7890", PartySize: 2, Date: "2025-06-01", Time: "18:00", TableIndex: 1},
		},
	}
	s := newStore(t, p)

	require.NoError(t, s.Cancel("ID 1A", ""))
	assert.Empty(t, s.ListAll())

	// Only the first matching record's table is freed; the second
	// duplicate's slot stays booked until the data file is repaired.
	board := s.TableAvailability()
	assert.True(t, board[0], "first record's table freed")
	assert.False(t, board[1], "duplicate's table still held")
}

func TestListByCustomer(t *testing.T) {
	s := newStore(t, &memPersister{})
	_, err := s.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)
	_, err = s.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 1)
	require.NoError(t, err)

	assert.Len(t, s.ListByCustomer("alice"), 1)
	assert.Len(t, s.ListAll(), 2)
	assert.True(t, s.HasReservations("bob"))
	assert.False(t, s.HasReservations("carol"))
}
