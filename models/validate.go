package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	phoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^\d{2}:\d{2}$`)
	idRe    = regexp.MustCompile(`^ID \d+A$`)
)

// Clock is the reference point for date and time validation. Date
// comparisons are lexical on the YYYY-MM-DD string, time comparisons are
// numeric on hour and minute; there are no further calendar semantics.
type Clock struct {
	Date   string
	Hour   int
	Minute int
}

// TimeString renders the reference time as HH:MM.
func (c Clock) TimeString() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ValidPhone reports whether phone has the form NNN-NNN-NNNN.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// ValidDate reports whether date is a YYYY-MM-DD string with a plausible
// month and day that does not precede the reference date.
func ValidDate(date string, clock Clock) bool {
	if !dateRe.MatchString(date) {
		return false
	}
	month, _ := strconv.Atoi(date[5:7])
	day, _ := strconv.Atoi(date[8:10])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	return date >= clock.Date
}

// ValidTime reports whether t is a 24-hour HH:MM string. When date equals
// the reference date, t must also be strictly after the reference time.
func ValidTime(t, date string, clock Clock) bool {
	if !timeRe.MatchString(t) {
		return false
	}
	hour, _ := strconv.Atoi(t[0:2])
	minute, _ := strconv.Atoi(t[3:5])
	if hour > 23 || minute > 59 {
		return false
	}
	if date == clock.Date {
		if hour < clock.Hour || (hour == clock.Hour && minute <= clock.Minute) {
			return false
		}
	}
	return true
}

// ValidPartySize reports whether size seats at least one guest.
func ValidPartySize(size int) bool {
	return size >= 1
}

// ValidReservationID reports whether id matches the "ID <number>A" form,
// case-insensitively.
func ValidReservationID(id string) bool {
	return idRe.MatchString(strings.ToUpper(id))
}

// ReservationIDNumber extracts the numeric part of a reservation ID.
func ReservationIDNumber(id string) (int, bool) {
	upper := strings.ToUpper(id)
	if !idRe.MatchString(upper) {
		return 0, false
	}
	n, err := strconv.Atoi(upper[3 : len(upper)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatReservationID builds the canonical ID string for a counter value.
func FormatReservationID(n int) string {
	return "ID " + strconv.Itoa(n) + "A"
}
