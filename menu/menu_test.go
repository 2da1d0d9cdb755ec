package menu_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/reservations/accounts"
	"github.com/platewise/reservations/auditlog"
	"github.com/platewise/reservations/menu"
	"github.com/platewise/reservations/models"
	"github.com/platewise/reservations/storage"
	"github.com/platewise/reservations/store"
	"github.com/platewise/reservations/utils"
)

type fixture struct {
	store    *store.ReservationStore
	accounts *accounts.Manager
	audit    *auditlog.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	utils.InitLogger()

	files, err := storage.New(t.TempDir())
	require.NoError(t, err)
	clock := models.Clock{Date: "2025-05-22", Hour: 22, Minute: 19}
	st, err := store.New(files, clock)
	require.NoError(t, err)
	acc, err := accounts.NewManager(files, "admin", "admin123")
	require.NoError(t, err)
	audit, err := auditlog.Open("file::memory:?cache=shared")
	require.NoError(t, err)

	return &fixture{store: st, accounts: acc, audit: audit}
}

func (f *fixture) run(script ...string) string {
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	menu.New(in, &out, f.store, f.accounts, f.audit).Run()
	return out.String()
}

func TestCustomerReservesTable(t *testing.T) {
	f := newFixture(t)

	out := f.run(
		"2",            // role: customer
		"1",            // create account
		"alice", "pw1234",
		"3",            // reserve table
		"123-456-7890", // phone
		"4",            // party size
		"2025-06-01",   // date
		"18:30",        // time
		"3",            // table 3
		"1",            // view my reservations
		"6", "y",       // logout
		"4",            // exit
	)

	assert.Contains(t, out, "Customer account created.")
	assert.Contains(t, out, "Enter reservation time (HH:MM 24-hour): ",
		"no reference-time hint for a future date")
	assert.Contains(t, out, "Reserved Table #3 successfully! Your reservation ID is ID 1A.")
	assert.Contains(t, out, "ID: ID 1A, Name: alice, Contact: 123-456-7890, Party Size: 4, Date: 2025-06-01, Time: 18:30, Table: 3")
	assert.False(t, f.store.TableAvailability()[2], "table 3 booked")
}

func TestInvalidInputReprompts(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accounts.RegisterCustomer("alice", "pw1234"))

	out := f.run(
		"abc",            // bad role choice
		"2", "2",         // customer login
		"alice", "nope",  // wrong password
		"alice", "pw1234",
		"3",
		"555 123 4567",   // bad phone
		"123-456-7890",
		"2a",             // bad party size
		"2",
		"2025-05-01",     // past date
		"2025-06-01",
		"25:00",          // bad time
		"18:30",
		"0",              // abandon at table prompt
		"6", "Yes",
		"4",
	)

	assert.Contains(t, out, "Invalid choice. Please enter a single number between 1 and 4.")
	assert.Contains(t, out, "Invalid credentials. Please try again.")
	assert.Contains(t, out, "Error: Invalid phone number format. Use XXX-XXX-XXXX.")
	assert.Contains(t, out, "Error: Invalid party size.")
	assert.Contains(t, out, "Error: Invalid date format (use YYYY-MM-DD) or date is in the past.")
	assert.Contains(t, out, "Error: Invalid time format (use HH:MM) or time is in the past for today.")
	assert.Contains(t, out, "Reservation cancelled.")
	assert.Empty(t, f.store.ListAll(), "abandoned flow books nothing")
}

func TestTimePromptMentionsReferenceOnlyForToday(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accounts.RegisterCustomer("alice", "pw1234"))

	out := f.run(
		"2", "2",
		"alice", "pw1234",
		"3",
		"123-456-7890",
		"2",
		"2025-05-22", // the reference date itself
		"22:30",
		"0", // abandon at the table prompt
		"6", "y",
		"4",
	)

	assert.Contains(t, out, "Enter reservation time (HH:MM 24-hour, after 22:19): ")
}

func TestCustomerCancelsOwnReservation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accounts.RegisterCustomer("alice", "pw1234"))
	id, err := f.store.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 4)
	require.NoError(t, err)
	require.Equal(t, "ID 1A", id)

	out := f.run(
		"2", "2",
		"alice", "pw1234",
		"5",       // cancel
		"id 1a",   // IDs match case-insensitively
		"Y",
		"6", "Yes",
		"4",
	)

	assert.Contains(t, out, "--- Reservation to Cancel ---")
	assert.Contains(t, out, "Reservation cancelled.")
	assert.True(t, f.store.TableAvailability()[4], "table freed")
	assert.Empty(t, f.store.ListByCustomer("alice"))
}

func TestCustomerCannotTouchOthersReservation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.accounts.RegisterCustomer("alice", "pw1234"))
	require.NoError(t, f.accounts.RegisterCustomer("bob", "pw5678"))
	_, err := f.store.Reserve("bob", "321-654-0987", 2, "2025-06-01", "19:00", 1)
	require.NoError(t, err)
	_, err = f.store.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)

	out := f.run(
		"2", "2",
		"alice", "pw1234",
		"5",
		"ID 1A",  // bob's reservation
		"ID 2A",  // her own
		"Y",
		"6", "y",
		"4",
	)

	assert.Contains(t, out, "Error: No reservation to cancel.")
	assert.True(t, f.store.HasReservations("bob"), "bob's booking untouched")
	assert.False(t, f.store.HasReservations("alice"))
}

func TestAdminUpdatesReservation(t *testing.T) {
	f := newFixture(t)
	id, err := f.store.Reserve("alice", "123-456-7890", 2, "2025-06-01", "18:00", 0)
	require.NoError(t, err)
	require.Equal(t, "ID 1A", id)

	out := f.run(
		"3",
		"admin", "admin123",
		"4",       // update
		"ID 1A",
		"0",       // keep ID
		"0",       // keep name
		"0",       // keep phone
		"0",       // keep party size
		"0",       // keep date
		"0",       // keep time
		"5",       // move to table 5
		"y",
		"7", "y",
		"4",
	)

	assert.Contains(t, out, "--- Reservation to Update ---")
	assert.Contains(t, out, "Enter new time (HH:MM 24-hour, or 0 to keep current): ",
		"no reference-time hint when the kept date is a future day")
	assert.Contains(t, out, "Reservation updated successfully.")
	r, found := f.store.Find("ID 1A")
	require.True(t, found)
	assert.Equal(t, 4, r.TableIndex)
	assert.True(t, f.store.TableAvailability()[0], "old table released")
	assert.False(t, f.store.TableAvailability()[4], "new table claimed")
}

func TestAdminCreatesReceptionistWhoCanLogIn(t *testing.T) {
	f := newFixture(t)

	out := f.run(
		"3",
		"admin", "admin123",
		"6",
		"rita", "front1",
		"7", "y",
		"1",              // receptionist
		"rita", "front1",
		"2",              // availability
		"3", "y",         // logout
		"4",
	)

	assert.Contains(t, out, "Receptionist account created.")
	assert.Contains(t, out, "[Receptionist Menu - rita]")
	assert.Contains(t, out, "Table 1 is AVAILABLE")
}
