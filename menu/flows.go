package menu

import (
	"fmt"
	"math"
	"strings"

	"github.com/platewise/reservations/auditlog"
	"github.com/platewise/reservations/models"
	"github.com/platewise/reservations/store"
)

// updateFlow walks through the update prompts. The sentinel "0" keeps a
// field. A non-empty filter restricts the update to that customer's
// reservations; only admins are offered an ID change.
func (c *Console) updateFlow(role Role, actor, filter string) bool {
	roleName := role.String()
	clock := c.store.Clock()
	const action = "Failed to update reservation"

	var id string
	var current models.Reservation
	for {
		line, ok := c.prompt("Enter reservation ID to update (e.g., ID 1A): ")
		if !ok {
			return false
		}
		upper := strings.ToUpper(line)
		if !models.ValidReservationID(upper) {
			c.printf("Error: Invalid reservation ID format. Use 'ID <number>A', e.g., ID 1A.\n")
			c.audit.Failure(roleName, actor, action, errInvalidID, nil)
			continue
		}
		res, found := c.store.Find(upper)
		if !found || (filter != "" && res.CustomerName != filter) {
			c.printf("Error: No reservation to update.\n")
			c.audit.Failure(roleName, actor, action, store.ErrNotFound,
				&auditlog.Snapshot{ReservationID: upper, TableIndex: -1})
			continue
		}
		if role == RoleAdmin {
			c.printf("\n--- Reservation to Update ---\n")
			c.printReservations([]models.Reservation{res})
		}
		id = upper
		current = res
		break
	}

	newID := "0"
	if role == RoleAdmin {
		for {
			line, ok := c.prompt("Enter new ID (e.g., ID 2A, or 0 to keep current): ")
			if !ok {
				return false
			}
			if line == "0" {
				break
			}
			upper := strings.ToUpper(line)
			if !models.ValidReservationID(upper) {
				c.printf("Error: Invalid new reservation ID format. Use 'ID <number>A', e.g., ID 1A.\n")
				c.audit.Failure(roleName, actor, action, errInvalidID,
					&auditlog.Snapshot{ReservationID: id, TableIndex: -1})
				continue
			}
			if other, exists := c.store.Find(upper); exists && other.ID != id {
				c.printf("Error: New reservation ID already exists. Choose a different ID.\n")
				c.audit.Failure(roleName, actor, action,
					&store.ConflictError{Resource: "reservation ID", Detail: upper + " already exists"},
					&auditlog.Snapshot{ReservationID: id, TableIndex: -1})
				continue
			}
			newID = upper
			break
		}
	}

	newName, ok := c.prompt("Enter new name (or 0 to keep current): ")
	if !ok {
		return false
	}

	var newPhone string
	for {
		line, lineOK := c.prompt("Enter new phone number (e.g., 123-456-7890, or 0 to keep current): ")
		if !lineOK {
			return false
		}
		if line == "0" || models.ValidPhone(line) {
			newPhone = line
			break
		}
		c.printf("Error: Invalid phone number format. Use XXX-XXX-XXXX.\n")
		c.audit.Failure(roleName, actor, action,
			&store.ValidationError{Field: "phone number", Reason: "use XXX-XXX-XXXX"},
			&auditlog.Snapshot{ReservationID: id, Phone: line, TableIndex: -1})
	}

	var newPartySize int
	for {
		line, lineOK := c.prompt("Enter new party size (at least 1, or 0 to keep current): ")
		if !lineOK {
			return false
		}
		if line == "0" {
			newPartySize = 0
			break
		}
		if n, valid := numericChoice(line, 1, math.MaxInt); valid {
			newPartySize = n
			break
		}
		c.printf("Error: Invalid party size. Must be a single number >= 1 (e.g., 2, not 2a or 2.1).\n")
		c.audit.Failure(roleName, actor, action,
			&store.ValidationError{Field: "party size", Reason: "must be at least 1"},
			&auditlog.Snapshot{ReservationID: id, TableIndex: -1})
	}

	var newDate string
	for {
		line, lineOK := c.prompt(fmt.Sprintf("Enter new date (YYYY-MM-DD, on or after %s, or 0 to keep current): ", clock.Date))
		if !lineOK {
			return false
		}
		if line == "0" || models.ValidDate(line, clock) {
			newDate = line
			break
		}
		c.printf("Error: Invalid date format (use YYYY-MM-DD) or date is in the past.\n")
		c.audit.Failure(roleName, actor, action,
			&store.ValidationError{Field: "date", Reason: "use YYYY-MM-DD on or after " + clock.Date},
			&auditlog.Snapshot{ReservationID: id, Date: line, TableIndex: -1})
	}

	effectiveDate := current.Date
	if newDate != "0" {
		effectiveDate = newDate
	}
	timePrompt := "Enter new time (HH:MM 24-hour, or 0 to keep current): "
	if effectiveDate == clock.Date {
		timePrompt = fmt.Sprintf("Enter new time (HH:MM 24-hour, after %s, or 0 to keep current): ", clock.TimeString())
	}
	var newTime string
	for {
		line, lineOK := c.prompt(timePrompt)
		if !lineOK {
			return false
		}
		if line == "0" || models.ValidTime(line, effectiveDate, clock) {
			newTime = line
			break
		}
		c.printf("Error: Invalid time format (use HH:MM) or time is in the past for today.\n")
		c.audit.Failure(roleName, actor, action,
			&store.ValidationError{Field: "time", Reason: "use HH:MM, after " + clock.TimeString() + " if today"},
			&auditlog.Snapshot{ReservationID: id, Time: line, TableIndex: -1})
	}

	var tableChoice int
	for {
		c.printf("Table options: 0 to keep current, or enter a specific table number (1-%d):\n", models.TableCount)
		c.printAvailability()
		line, lineOK := c.prompt("Choice: ")
		if !lineOK {
			return false
		}
		if n, valid := numericChoice(line, 0, models.TableCount); valid {
			tableChoice = n
			break
		}
		c.printf("Error: Invalid table choice. Must be a single number between 0 and %d.\n", models.TableCount)
		c.audit.Failure(roleName, actor, action,
			&store.ValidationError{Field: "table number", Reason: fmt.Sprintf("must be between 0 and %d", models.TableCount)},
			&auditlog.Snapshot{ReservationID: id, TableIndex: -1})
	}

	yes, ok := c.confirm("Confirm update? (Y/N or Yes/No): ")
	if !ok {
		return false
	}
	if !yes {
		c.printf("Update cancelled.\n")
		return true
	}

	newTable := store.KeepTable
	if tableChoice != 0 {
		newTable = tableChoice - 1
	}
	params := store.UpdateParams{
		NewID:        newID,
		NewName:      newName,
		NewPhone:     newPhone,
		NewPartySize: newPartySize,
		NewDate:      newDate,
		NewTime:      newTime,
		NewTable:     newTable,
	}
	if err := c.store.Update(id, filter, params); err != nil {
		c.printf("Error: %v\n", err)
		c.audit.Failure(roleName, actor, action, err,
			&auditlog.Snapshot{ReservationID: id, Phone: newPhone, PartySize: newPartySize, Date: newDate, Time: newTime, TableIndex: newTable})
		c.printf("Update failed. Returning to menu.\n")
		return true
	}

	lookupID := id
	if newID != "0" {
		lookupID = newID
	}
	updated, _ := c.store.Find(lookupID)
	c.printf("Reservation updated successfully.\n")
	c.audit.Action(roleName, actor, "Updated reservation", id,
		&auditlog.Snapshot{ReservationID: updated.ID, Customer: updated.CustomerName, Phone: updated.PhoneNumber,
			PartySize: updated.PartySize, Date: updated.Date, Time: updated.Time, TableIndex: updated.TableIndex})
	return true
}

// cancelFlow prompts for an ID, shows the reservation and cancels it after
// confirmation. A non-empty filter restricts it to that customer's
// reservations.
func (c *Console) cancelFlow(role Role, actor, filter string) bool {
	roleName := role.String()
	const action = "Failed to cancel reservation"

	for {
		line, ok := c.prompt("Enter reservation ID to cancel (e.g., ID 1A): ")
		if !ok {
			return false
		}
		upper := strings.ToUpper(line)
		if !models.ValidReservationID(upper) {
			c.printf("Error: Invalid reservation ID format. Use 'ID <number>A', e.g., ID 1A.\n")
			c.audit.Failure(roleName, actor, action, errInvalidID, nil)
			c.printf("Please try again.\n")
			continue
		}
		res, found := c.store.Find(upper)
		if !found || (filter != "" && res.CustomerName != filter) {
			c.printf("Error: No reservation to cancel.\n")
			c.audit.Failure(roleName, actor, action, store.ErrNotFound,
				&auditlog.Snapshot{ReservationID: upper, TableIndex: -1})
			c.printf("Please try again.\n")
			continue
		}

		c.printf("\n--- Reservation to Cancel ---\n")
		c.printReservations([]models.Reservation{res})

		yes, ok := c.confirm("Confirm cancellation? (Y/N or Yes/No): ")
		if !ok {
			return false
		}
		if !yes {
			c.printf("Cancellation aborted.\n")
			return true
		}

		if err := c.store.Cancel(upper, filter); err != nil {
			c.printf("Error: %v\n", err)
			c.audit.Failure(roleName, actor, action, err,
				&auditlog.Snapshot{ReservationID: upper, TableIndex: -1})
			c.printf("Please try again.\n")
			continue
		}
		c.printf("Reservation cancelled.\n")
		c.audit.Action(roleName, actor, "Cancelled reservation", upper,
			&auditlog.Snapshot{ReservationID: upper, Customer: res.CustomerName, Phone: res.PhoneNumber,
				PartySize: res.PartySize, Date: res.Date, Time: res.Time, TableIndex: res.TableIndex})
		return true
	}
}
