package store

import (
	"fmt"
	"sync"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
)

var credentialHeader = []string{"Username", "PasswordHash", "Name", "Mobile", "Email", "Role", "ParentUsername"}

// CSVCredentials keeps users in a CSV file, rewritten on every signup.
type CSVCredentials struct {
	mu   sync.Mutex
	path string
}

// NewCSVCredentials returns a credential store backed by path.
func NewCSVCredentials(path string) *CSVCredentials {
	return &CSVCredentials{path: path}
}

// FindByUsername scans the file for an exact username match.
func (s *CSVCredentials) FindByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// Create appends user unless the username is already present.
func (s *CSVCredentials) Create(user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readAll()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return apperrors.ErrDuplicateUsername
		}
	}
	users = append(users, user)

	records := make([][]string, len(users))
	for i, u := range users {
		records[i] = []string{u.Username, u.PasswordHash, u.Name, u.Mobile, u.Email, string(u.Role), u.ParentUsername}
	}
	return writeTable(s.path, credentialHeader, records)
}

// List returns every user in file order.
func (s *CSVCredentials) List() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVCredentials) readAll() ([]models.User, error) {
	t, err := readTable(s.path, credentialHeader)
	if err != nil {
		return nil, err
	}

	username := t.column("Username")
	secret := t.column("PasswordHash")
	if secret < 0 {
		// older files stored the password as typed
		secret = t.column("Password")
	}
	if username < 0 || secret < 0 {
		return nil, fmt.Errorf("%s: header must contain Username and PasswordHash, got %v", s.path, t.header)
	}
	name, mobile, email := t.column("Name"), t.column("Mobile"), t.column("Email")
	role, parent := t.column("Role"), t.column("ParentUsername")

	users := make([]models.User, 0, len(t.rows))
	for _, row := range t.rows {
		u := models.User{
			Username:       cell(row, username),
			PasswordHash:   cell(row, secret),
			Name:           cell(row, name),
			Mobile:         cell(row, mobile),
			Email:          cell(row, email),
			Role:           models.Role(cell(row, role)),
			ParentUsername: cell(row, parent),
		}
		if u.Role == "" {
			u.Role = models.RoleOwner
		}
		users = append(users, u)
	}
	return users, nil
}
