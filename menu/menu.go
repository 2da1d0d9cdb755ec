package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/platewise/reservations/accounts"
	"github.com/platewise/reservations/auditlog"
	"github.com/platewise/reservations/models"
	"github.com/platewise/reservations/store"
)

// Role selects which menu a session drives.
type Role int

const (
	RoleCustomer Role = iota
	RoleReceptionist
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "Customer"
	case RoleReceptionist:
		return "Receptionist"
	case RoleAdmin:
		return "Admin"
	}
	return "Unknown"
}

var (
	errInvalidID = errors.New("invalid reservation ID format")
)

// Console drives the interactive menus over line-oriented input and output.
// Every invalid entry re-prompts; nothing here is fatal to the process.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	store    *store.ReservationStore
	accounts *accounts.Manager
	audit    *auditlog.Recorder
}

// New builds a Console over the given streams and collaborators.
func New(in io.Reader, out io.Writer, st *store.ReservationStore, acc *accounts.Manager, audit *auditlog.Recorder) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		store:    st,
		accounts: acc,
		audit:    audit,
	}
}

// Run drives the role-selection loop until the user exits or input ends.
func (c *Console) Run() {
	for {
		line, ok := c.prompt("\n[Role Selection]\n1. Receptionist\n2. Customer\n3. Admin\n4. Exit\nChoose role: ")
		if !ok {
			return
		}
		choice, valid := numericChoice(line, 1, 4)
		if !valid {
			c.printf("Invalid choice. Please enter a single number between 1 and 4.\n")
			continue
		}
		switch choice {
		case 1:
			if !c.receptionistSession() {
				return
			}
		case 2:
			if !c.customerSession() {
				return
			}
		case 3:
			if !c.adminSession() {
				return
			}
		case 4:
			return
		}
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	return c.readLine()
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// numericChoice accepts an all-digit selection within [min, max]; partial
// parses like "1a" or "1 1" are rejected.
func numericChoice(input string, min, max int) (int, bool) {
	if input == "" {
		return 0, false
	}
	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

func (c *Console) confirm(label string) (confirmed, ok bool) {
	line, ok := c.prompt(label)
	if !ok {
		return false, false
	}
	switch line {
	case "Y", "y", "Yes", "yes":
		return true, true
	}
	return false, true
}

func (c *Console) printAvailability() {
	board := c.store.TableAvailability()
	for i, available := range board {
		state := "BOOKED"
		if available {
			state = "AVAILABLE"
		}
		c.printf("Table %d is %s\n", i+1, state)
	}
}

func (c *Console) printReservations(list []models.Reservation) {
	w := tabwriter.NewWriter(c.out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCustomer\tParty\tDate\tTime\tContact\tTable")
	for _, r := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%d\n",
			r.ID, r.CustomerName, r.PartySize, r.Date, r.Time, r.PhoneNumber, r.TableIndex+1)
	}
	w.Flush()
}

func (c *Console) printAllReservations() {
	c.printf("\n--- Current Reservations ---\n")
	list := c.store.ListAll()
	if len(list) == 0 {
		c.printf("No reservations found.\n")
		return
	}
	c.printReservations(list)
}
