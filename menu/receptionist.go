package menu

import (
	"errors"

	"github.com/platewise/reservations/accounts"
)

// receptionistSession authenticates a receptionist and runs their read-only
// menu. It returns false when input is exhausted.
func (c *Console) receptionistSession() bool {
	var username string
	for {
		u, ok := c.prompt("Enter Receptionist username: ")
		if !ok {
			return false
		}
		p, ok := c.prompt("Enter password: ")
		if !ok {
			return false
		}
		if err := c.accounts.AuthenticateReceptionist(u, p); err != nil {
			if errors.Is(err, accounts.ErrBadCredential) {
				c.printf("Invalid username or password. Use letters and numbers only (no spaces or special characters).\n")
			} else {
				c.printf("Invalid receptionist credentials. Please try again.\n")
			}
			continue
		}
		username = u
		c.audit.Login(RoleReceptionist.String(), username)
		break
	}

	for {
		line, ok := c.prompt("\n[Receptionist Menu - " + username + "]\n" +
			"1. View Reservations\n2. View Table Availability\n3. Exit\nChoice: ")
		if !ok {
			return false
		}
		choice, valid := numericChoice(line, 1, 3)
		if !valid {
			c.printf("Invalid choice. Please enter a single number between 1 and 3.\n")
			continue
		}
		switch choice {
		case 1:
			c.printAllReservations()
		case 2:
			c.printAvailability()
		case 3:
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
