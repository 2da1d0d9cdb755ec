package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/platewise/reservations/models"
)

const (
	reservationsFile = "reservations.txt"
	counterFile      = "next_id.txt"
)

// Files persists the reservation book, the ID counter and the account
// lists as flat text files under one data directory. Every save rewrites
// the whole file.
type Files struct {
	dir string
}

// New creates the data directory if needed and returns a Files rooted at it.
func New(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Files{dir: dir}, nil
}

// Dir returns the data directory path.
func (f *Files) Dir() string {
	return f.dir
}

// LoadReservations reads the reservation file. A missing file means an
// empty book; malformed lines are skipped.
func (f *Files) LoadReservations() ([]models.Reservation, error) {
	file, err := os.Open(filepath.Join(f.dir, reservationsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open reservations: %w", err)
	}
	defer file.Close()

	var out []models.Reservation
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		r, ok := parseReservation(sc.Text())
		if !ok {
			continue
		}
		out = append(out, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read reservations: %w", err)
	}
	return out, nil
}

// SaveReservations rewrites the reservation file and the ID counter.
func (f *Files) SaveReservations(list []models.Reservation, nextID int) error {
	var b strings.Builder
	for _, r := range list {
		fmt.Fprintf(&b, "%s|%s|%s|%d|%s|%s|%d\n",
			r.ID, r.CustomerName, r.PhoneNumber, r.PartySize, r.Date, r.Time, r.TableIndex)
	}
	if err := os.WriteFile(filepath.Join(f.dir, reservationsFile), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write reservations: %w", err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, counterFile), []byte(strconv.Itoa(nextID)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write id counter: %w", err)
	}
	return nil
}

// LoadCounter returns the persisted next-ID value, 0 when absent or
// unreadable.
func (f *Files) LoadCounter() (int, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, counterFile))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read id counter: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// LoadAccounts reads a username|hash file into a map. A missing file means
// no accounts yet.
func (f *Files) LoadAccounts(name string) (map[string]string, error) {
	accounts := make(map[string]string)
	file, err := os.Open(filepath.Join(f.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return accounts, nil
		}
		return nil, fmt.Errorf("open accounts %s: %w", name, err)
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	for sc.Scan() {
		username, hash, ok := strings.Cut(sc.Text(), "|")
		if !ok || username == "" {
			continue
		}
		accounts[username] = hash
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read accounts %s: %w", name, err)
	}
	return accounts, nil
}

// SaveAccounts rewrites an account file, sorted by username so reruns
// produce identical files.
func (f *Files) SaveAccounts(name string, accounts map[string]string) error {
	usernames := make([]string, 0, len(accounts))
	for u := range accounts {
		usernames = append(usernames, u)
	}
	sort.Strings(usernames)

	var b strings.Builder
	for _, u := range usernames {
		fmt.Fprintf(&b, "%s|%s\n", u, accounts[u])
	}
	if err := os.WriteFile(filepath.Join(f.dir, name), []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write accounts %s: %w", name, err)
	}
	return nil
}

func parseReservation(line string) (models.Reservation, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 7 {
		return models.Reservation{}, false
	}
	size, err := strconv.Atoi(parts[3])
	if err != nil {
		return models.Reservation{}, false
	}
	table, err := strconv.Atoi(parts[6])
	if err != nil || table < 0 || table >= models.TableCount {
		return models.Reservation{}, false
	}
	return models.Reservation{
		ID:           strings.ToUpper(parts[0]),
		CustomerName: parts[1],
		PhoneNumber:  parts[2],
		PartySize:    size,
		Date:         parts[4],
		Time:         parts[5],
		TableIndex:   table,
	}, true
}
