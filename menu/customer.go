package menu

import (
	"fmt"
	"math"

	"github.com/platewise/reservations/auditlog"
	"github.com/platewise/reservations/models"
	"github.com/platewise/reservations/store"
)

// customerSession handles account creation or login, then runs the
// customer menu. It returns false when input is exhausted.
func (c *Console) customerSession() bool {
	var option int
	for {
		line, ok := c.prompt("\n1. Create Customer Account\n2. Login to Customer Account\nChoice: ")
		if !ok {
			return false
		}
		n, valid := numericChoice(line, 1, 2)
		if !valid {
			c.printf("Invalid choice. Please enter a single number between 1 and 2.\n")
			continue
		}
		option = n
		break
	}

	var username string
	var ok bool
	if option == 1 {
		username, ok = c.createCustomerAccount()
	} else {
		username, ok = c.customerLogin()
	}
	if !ok {
		return false
	}
	return c.customerMenu(username)
}

func (c *Console) createCustomerAccount() (string, bool) {
	for {
		username, ok := c.prompt("Enter username: ")
		if !ok {
			return "", false
		}
		if c.accounts.HasCustomer(username) {
			c.printf("Account already exists. Please choose a different username.\n")
			continue
		}
		password, ok := c.prompt("Enter password: ")
		if !ok {
			return "", false
		}
		if err := c.accounts.RegisterCustomer(username, password); err != nil {
			c.printf("Error: %v\n", err)
			continue
		}
		c.printf("Customer account created.\n")
		c.audit.Login(RoleCustomer.String(), username)
		return username, true
	}
}

func (c *Console) customerLogin() (string, bool) {
	for {
		username, ok := c.prompt("Enter username: ")
		if !ok {
			return "", false
		}
		password, ok := c.prompt("Enter password: ")
		if !ok {
			return "", false
		}
		if err := c.accounts.AuthenticateCustomer(username, password); err != nil {
			c.printf("Invalid credentials. Please try again.\n")
			continue
		}
		c.audit.Login(RoleCustomer.String(), username)
		return username, true
	}
}

func (c *Console) customerMenu(username string) bool {
	for {
		line, ok := c.prompt("\n[Customer Menu - " + username + "]\n" +
			"1. View My Reservations\n2. View Availability\n3. Reserve Table\n" +
			"4. Update Reservation\n5. Cancel Reservation\n6. Exit\nChoice: ")
		if !ok {
			return false
		}
		choice, valid := numericChoice(line, 1, 6)
		if !valid {
			c.printf("Invalid choice. Please enter a single number between 1 and 6.\n")
			continue
		}
		switch choice {
		case 1:
			c.printf("\n--- Your Reservations ---\n")
			list := c.store.ListByCustomer(username)
			if len(list) == 0 {
				c.printf("No reservation to view.\n")
				break
			}
			for _, r := range list {
				c.printf("ID: %s, Name: %s, Contact: %s, Party Size: %d, Date: %s, Time: %s, Table: %d\n",
					r.ID, r.CustomerName, r.PhoneNumber, r.PartySize, r.Date, r.Time, r.TableIndex+1)
			}
		case 2:
			c.printAvailability()
		case 3:
			if !c.reserveFlow(username) {
				return false
			}
		case 4:
			if !c.store.HasReservations(username) {
				c.printf("No reservations.\n")
				break
			}
			if !c.updateFlow(RoleCustomer, username, username) {
				return false
			}
		case 5:
			if !c.store.HasReservations(username) {
				c.printf("No reservations.\n")
				break
			}
			if !c.cancelFlow(RoleCustomer, username, username) {
				return false
			}
		case 6:
			yes, ok := c.confirm("Logout? (Y/N or Yes/No): ")
			if !ok {
				return false
			}
			if yes {
				return true
			}
		}
	}
}

// reserveFlow prompts field by field, re-prompting on every invalid entry,
// then books the table. Entering 0 at the table prompt abandons the
// reservation.
func (c *Console) reserveFlow(username string) bool {
	role := RoleCustomer.String()
	clock := c.store.Clock()
	const action = "Failed to reserve table"

	var phone string
	for {
		line, ok := c.prompt("Enter your phone number (e.g., 123-456-7890): ")
		if !ok {
			return false
		}
		if models.ValidPhone(line) {
			phone = line
			break
		}
		c.printf("Error: Invalid phone number format. Use XXX-XXX-XXXX.\n")
		c.audit.Failure(role, username, action,
			&store.ValidationError{Field: "phone number", Reason: "use XXX-XXX-XXXX"},
			&auditlog.Snapshot{Customer: username, Phone: line, TableIndex: -1})
	}

	var partySize int
	for {
		line, ok := c.prompt("Enter party size (must be at least 1): ")
		if !ok {
			return false
		}
		if n, valid := numericChoice(line, 1, math.MaxInt); valid {
			partySize = n
			break
		}
		c.printf("Error: Invalid party size. Must be a single number >= 1 (e.g., 2, not 2a or 2.1).\n")
		c.audit.Failure(role, username, action,
			&store.ValidationError{Field: "party size", Reason: "must be at least 1"},
			&auditlog.Snapshot{Customer: username, Phone: phone, TableIndex: -1})
	}

	var date string
	for {
		line, ok := c.prompt(fmt.Sprintf("Enter reservation date (YYYY-MM-DD, on or after %s): ", clock.Date))
		if !ok {
			return false
		}
		if models.ValidDate(line, clock) {
			date = line
			break
		}
		c.printf("Error: Invalid date format (use YYYY-MM-DD) or date is in the past.\n")
		c.audit.Failure(role, username, action,
			&store.ValidationError{Field: "date", Reason: "use YYYY-MM-DD on or after " + clock.Date},
			&auditlog.Snapshot{Customer: username, Phone: phone, PartySize: partySize, Date: line, TableIndex: -1})
	}

	timePrompt := "Enter reservation time (HH:MM 24-hour): "
	if date == clock.Date {
		timePrompt = fmt.Sprintf("Enter reservation time (HH:MM 24-hour, after %s): ", clock.TimeString())
	}
	var timeOfDay string
	for {
		line, ok := c.prompt(timePrompt)
		if !ok {
			return false
		}
		if models.ValidTime(line, date, clock) {
			timeOfDay = line
			break
		}
		c.printf("Error: Invalid time format (use HH:MM) or time is in the past for today.\n")
		c.audit.Failure(role, username, action,
			&store.ValidationError{Field: "time", Reason: "use HH:MM, after " + clock.TimeString() + " if today"},
			&auditlog.Snapshot{Customer: username, Phone: phone, PartySize: partySize, Date: date, Time: line, TableIndex: -1})
	}

	for {
		c.printf("Available tables:\n")
		c.printAvailability()
		line, ok := c.prompt(fmt.Sprintf("Enter table number to reserve (1-%d, or 0 to cancel): ", models.TableCount))
		if !ok {
			return false
		}
		if line == "0" {
			c.printf("Reservation cancelled.\n")
			return true
		}
		tableNumber, valid := numericChoice(line, 1, models.TableCount)
		if !valid {
			c.printf("Error: Invalid table number. Must be a single number between 1 and %d.\n", models.TableCount)
			c.audit.Failure(role, username, action,
				&store.ValidationError{Field: "table number", Reason: fmt.Sprintf("must be between 1 and %d", models.TableCount)},
				&auditlog.Snapshot{Customer: username, Phone: phone, PartySize: partySize, Date: date, Time: timeOfDay, TableIndex: -1})
			continue
		}

		id, err := c.store.Reserve(username, phone, partySize, date, timeOfDay, tableNumber-1)
		if err != nil {
			c.printf("Error: %v\n", err)
			c.audit.Failure(role, username, action, err,
				&auditlog.Snapshot{Customer: username, Phone: phone, PartySize: partySize, Date: date, Time: timeOfDay, TableIndex: tableNumber - 1})
			if store.IsConflict(err) {
				c.printf("Please choose a different table.\n")
				continue
			}
			c.printf("Reservation failed. Returning to menu.\n")
			return true
		}

		c.printf("Reserved Table #%d successfully! Your reservation ID is %s.\n", tableNumber, id)
		c.audit.Action(role, username, "Reserved table",
			fmt.Sprintf("#%d for %d on %s at %s", tableNumber, partySize, date, timeOfDay),
			&auditlog.Snapshot{ReservationID: id, Customer: username, Phone: phone, PartySize: partySize, Date: date, Time: timeOfDay, TableIndex: tableNumber - 1})
		return true
	}
}
