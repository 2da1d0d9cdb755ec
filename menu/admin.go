package menu

import (
	"errors"

	"github.com/platewise/reservations/accounts"
)

// adminSession authenticates the built-in admin and runs the admin menu.
// It returns false when input is exhausted.
func (c *Console) adminSession() bool {
	var username string
	for {
		u, ok := c.prompt("Enter Admin username: ")
		if !ok {
			return false
		}
		p, ok := c.prompt("Enter Admin password: ")
		if !ok {
			return false
		}
		if err := c.accounts.AuthenticateAdmin(u, p); err != nil {
			c.printf("Invalid admin credentials. Please try again.\n")
			continue
		}
		username = u
		c.audit.Login(RoleAdmin.String(), username)
		break
	}

	for {
		line, ok := c.prompt("\n[Admin Menu - " + username + "]\n" +
			"1. View Logs\n2. View Customer Reservations\n3. View Table Availability\n" +
			"4. Update Reservation\n5. Cancel Reservation\n6. Create Receptionist Account\n7. Log Out\nChoice: ")
		if !ok {
			return false
		}
		choice, valid := numericChoice(line, 1, 7)
		if !valid {
			c.printf("Invalid choice. Please enter a single number between 1 and 7.\n")
			continue
		}
		switch choice {
		case 1:
			c.printLogs()
		case 2:
			c.printAllReservations()
		case 3:
			c.printAvailability()
		case 4:
			if len(c.store.ListAll()) == 0 {
				c.printf("No reservations.\n")
				break
			}
			if !c.updateFlow(RoleAdmin, username, "") {
				return false
			}
		case 5:
			if len(c.store.ListAll()) == 0 {
				c.printf("No reservations.\n")
				break
			}
			if !c.cancelFlow(RoleAdmin, username, "") {
				return false
			}
		case 6:
			if !c.createReceptionist(username) {
				return false
			}
		case 7:
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

func (c *Console) printLogs() {
	c.printf("--- System Logs ---\n\n")
	entries, err := c.audit.Recent(50)
	if err != nil {
		c.printf("Unable to read the audit log: %v\n", err)
		return
	}
	if len(entries) == 0 {
		c.printf("No log entries.\n")
		return
	}
	for _, e := range entries {
		status := "OK"
		if !e.Success {
			status = "FAILED"
		}
		header := "[" + e.CreatedAt.Format("2006-01-02 15:04:05") + "] " + status + " " + e.Action +
			" by " + e.Role + ": " + e.Actor
		if e.Details != "" {
			header += " | " + e.Details
		}
		c.printf("%s\n", header)
		c.printf("  ID: %s | Name: %s | Contact: %s | Party-Size: %s | Date: %s | Time: %s | Table: %s\n",
			e.ReservationID, e.Customer, e.Phone, e.PartySize, e.Date, e.Time, e.TableNumber)
	}
}

func (c *Console) createReceptionist(admin string) bool {
	for {
		username, ok := c.prompt("Enter new receptionist username: ")
		if !ok {
			return false
		}
		password, ok := c.prompt("Enter password: ")
		if !ok {
			return false
		}
		err := c.accounts.CreateReceptionist(username, password)
		if err != nil {
			if errors.Is(err, accounts.ErrExists) {
				c.printf("Username already exists. Please choose a different username.\n")
			} else {
				c.printf("Error: %v\n", err)
			}
			continue
		}
		c.printf("Receptionist account created.\n")
		c.audit.Action(RoleAdmin.String(), admin, "Created receptionist account", "Username: "+username, nil)
		return true
	}
}
