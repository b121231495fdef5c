package account

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store manages the user collection and the current session on a Medium.
type Store struct {
	mu     sync.Mutex
	medium Medium
	newID  func() string
}

// NewStore creates a Store over m.
func NewStore(m Medium) *Store {
	return &Store{medium: m, newID: func() string { return uuid.NewString() }}
}

// Login starts a session for the user registered under email. The match is
// case-insensitive. A missing user is reported as ok == false, not an error.
func (s *Store) Login(email string) (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return User{}, false, err
	}
	u, ok := findByEmail(users, email)
	if !ok {
		return User{}, false, nil
	}
	if err := s.writeJSON(sessionKey, u); err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// Signup registers a new user and starts a session for them.
func (s *Store) Signup(name, email string) (User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !validEmail(email) {
		return User{}, fmt.Errorf("%w: %q is not an e-mail address", ErrInvalidInput, email)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return User{}, err
	}
	if _, taken := findByEmail(users, email); taken {
		return User{}, ErrDuplicateEmail
	}

	u := User{ID: s.newID(), Name: name, Email: email, IsFirstLogin: true}
	if err := s.writeJSON(usersKey, append(users, u)); err != nil {
		return User{}, err
	}
	if err := s.writeJSON(sessionKey, u); err != nil {
		if rerr := s.restoreUsers(users); rerr != nil {
			return User{}, fmt.Errorf("%w (rolling back signup: %v)", err, rerr)
		}
		return User{}, err
	}
	return u, nil
}

// restoreUsers puts the collection back to users after a failed signup.
func (s *Store) restoreUsers(users []User) error {
	if len(users) == 0 {
		return s.medium.Delete(usersKey)
	}
	return s.writeJSON(usersKey, users)
}

// Logout ends the session. The user collection is untouched.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.medium.Delete(sessionKey)
}

// Current returns the session user, if any.
func (s *Store) Current() (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u User
	ok, err := s.readJSON(sessionKey, &u)
	if err != nil || !ok {
		return User{}, false, err
	}
	return u, true, nil
}

// MarkOnboardingSeen clears the first-login flag of userID in the
// collection and, when userID is the session user, in the session copy.
func (s *Store) MarkOnboardingSeen(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	changed := false
	for i := range users {
		if users[i].ID == userID && users[i].IsFirstLogin {
			users[i].IsFirstLogin = false
			changed = true
		}
	}
	if changed {
		if err := s.writeJSON(usersKey, users); err != nil {
			return err
		}
	}

	var session User
	ok, err := s.readJSON(sessionKey, &session)
	if err != nil {
		return err
	}
	if ok && session.ID == userID && session.IsFirstLogin {
		session.IsFirstLogin = false
		return s.writeJSON(sessionKey, session)
	}
	return nil
}

// Users returns the registered users.
func (s *Store) Users() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUsers()
}

func (s *Store) loadUsers() ([]User, error) {
	var users []User
	if _, err := s.readJSON(usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) readJSON(key string, v any) (bool, error) {
	data, ok, err := s.medium.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: decoding %s: %v", ErrStorageUnavailable, key, err)
	}
	return true, nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.medium.Set(key, data)
}

func findByEmail(users []User, email string) (User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return User{}, false
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
