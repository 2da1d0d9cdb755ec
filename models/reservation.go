package models

// TableCount is the fixed number of tables in the dining room.
const TableCount = 10

// Reservation is one booked table. Date and Time keep the exact strings the
// customer entered (YYYY-MM-DD and HH:MM); TableIndex is 0-based.
type Reservation struct {
	ID           string
	CustomerName string
	PhoneNumber  string
	PartySize    int
	Date         string
	Time         string
	TableIndex   int
}
