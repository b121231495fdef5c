// Package account keeps the lightweight e-mail accounts and the current
// session in a small key-value medium.
package account

import "errors"

var (
	// ErrInvalidInput is returned when a name or e-mail is missing or malformed.
	ErrInvalidInput = errors.New("account: invalid input")
	// ErrDuplicateEmail is returned by Signup when the e-mail is taken.
	ErrDuplicateEmail = errors.New("account: email already registered")
	// ErrStorageExhausted is returned when the medium rejects a write for lack of space.
	ErrStorageExhausted = errors.New("account: storage exhausted")
	// ErrStorageUnavailable is returned when the medium cannot be read or written.
	ErrStorageUnavailable = errors.New("account: storage unavailable")
)

// User is a registered account.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsFirstLogin bool   `json:"isFirstLogin"`
}

const (
	usersKey   = "users"
	sessionKey = "session"
)
