// Package userstore keeps the demo user fixture in a flat JSON file.
package userstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"storefront-service/helper"
	"storefront-service/model"
)

var (
	ErrUserNotFound = errors.New("user_not_found")
	ErrDuplicate    = errors.New("user_already_exists")
	ErrInvalidUser  = errors.New("invalid_user")

	ErrInvalidCredentials = errors.New("invalid_credentials")
)

const minPasswordLen = 6

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public drops the password hash before the user leaves the service.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// read loads the file; a missing file is an empty fixture.
func (s *Store) read() ([]User, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return []User{}, nil
	}

	var users []User
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return users, nil
}

func (s *Store) write(users []User) error {
	b, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp users file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) List() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *Store) Create(req model.CreateUserReq) (User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	switch {
	case name == "":
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidUser)
	case email == "" && phone == "":
		return User{}, fmt.Errorf("%w: email or phone is required", ErrInvalidUser)
	case len(req.Password) < minPasswordLen:
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, minPasswordLen)
	}

	hash, err := helper.HashPassword(req.Password)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return User{}, err
	}

	nextID := 1
	for _, u := range users {
		if (email != "" && u.Email == email) || (phone != "" && u.Phone == phone) {
			return User{}, ErrDuplicate
		}
		if u.ID >= nextID {
			nextID = u.ID + 1
		}
	}

	u := User{
		ID:           nextID,
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.write(append(users, u)); err != nil {
		return User{}, err
	}
	return u.Public(), nil
}

// FindByEmailOrPhone matches an email when the value contains "@", a phone otherwise.
func (s *Store) FindByEmailOrPhone(v string) (User, error) {
	v = strings.TrimSpace(v)
	byEmail := strings.Contains(v, "@")
	if byEmail {
		v = strings.ToLower(v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.read()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if v == "" {
			break
		}
		if (byEmail && u.Email == v) || (!byEmail && u.Phone == v) {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Authenticate checks the password of the user identified by email or phone.
func (s *Store) Authenticate(emailOrPhone, password string) (User, error) {
	u, err := s.FindByEmailOrPhone(emailOrPhone)
	if err != nil {
		return User{}, err
	}
	if !helper.CheckPasswordHash(password, u.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}
	return u.Public(), nil
}
