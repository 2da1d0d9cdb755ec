package accounts

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Store is the slice of storage the manager needs.
type Store interface {
	LoadAccounts(name string) (map[string]string, error)
	SaveAccounts(name string, accounts map[string]string) error
}

const (
	customerFile     = "customer_accounts.txt"
	receptionistFile = "receptionist_accounts.txt"
)

var (
	// ErrExists reports a duplicate username on registration.
	ErrExists = errors.New("account already exists")
	// ErrInvalidCredentials reports a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrBadCredential reports a username or password that is empty or not
	// purely alphanumeric.
	ErrBadCredential = errors.New("use letters and numbers only, no spaces or special characters")
)

// Manager holds the customer and receptionist account sets plus the single
// built-in admin. Passwords are stored as bcrypt hashes.
type Manager struct {
	store         Store
	customers     map[string]string
	receptionists map[string]string
	adminUser     string
	adminHash     []byte
}

// NewManager loads both account files and hashes the configured admin
// password for the lifetime of the process.
func NewManager(store Store, adminUser, adminPass string) (*Manager, error) {
	customers, err := store.LoadAccounts(customerFile)
	if err != nil {
		return nil, err
	}
	receptionists, err := store.LoadAccounts(receptionistFile)
	if err != nil {
		return nil, err
	}
	adminHash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:         store,
		customers:     customers,
		receptionists: receptionists,
		adminUser:     adminUser,
		adminHash:     adminHash,
	}, nil
}

// HasCustomer reports whether a customer username is taken.
func (m *Manager) HasCustomer(username string) bool {
	_, ok := m.customers[username]
	return ok
}

// HasReceptionist reports whether a receptionist username is taken.
func (m *Manager) HasReceptionist(username string) bool {
	_, ok := m.receptionists[username]
	return ok
}

// RegisterCustomer creates a customer account and persists the set.
func (m *Manager) RegisterCustomer(username, password string) error {
	if m.HasCustomer(username) {
		return ErrExists
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.customers[username] = string(hashed)
	return m.store.SaveAccounts(customerFile, m.customers)
}

// CreateReceptionist creates a receptionist account. Username and password
// must be non-empty and alphanumeric.
func (m *Manager) CreateReceptionist(username, password string) error {
	if !validCredential(username) || !validCredential(password) {
		return ErrBadCredential
	}
	if m.HasReceptionist(username) {
		return ErrExists
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.receptionists[username] = string(hashed)
	return m.store.SaveAccounts(receptionistFile, m.receptionists)
}

// AuthenticateCustomer checks a customer login.
func (m *Manager) AuthenticateCustomer(username, password string) error {
	return authenticate(m.customers, username, password)
}

// AuthenticateReceptionist checks a receptionist login.
func (m *Manager) AuthenticateReceptionist(username, password string) error {
	if !validCredential(username) || !validCredential(password) {
		return ErrBadCredential
	}
	return authenticate(m.receptionists, username, password)
}

// AuthenticateAdmin checks the built-in admin login.
func (m *Manager) AuthenticateAdmin(username, password string) error {
	if username != m.adminUser {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(m.adminHash, []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func authenticate(set map[string]string, username, password string) error {
	hash, ok := set[username]
	if !ok {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func validCredential(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
