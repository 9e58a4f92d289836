package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the single admin account. The password is hashed once at
// startup so the plaintext never outlives process initialization.
type Credentials struct {
	username string
	hash     []byte
}

func NewCredentials(username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, errors.New("admin username and password must be set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Credentials{username: username, hash: hash}, nil
}

func (c *Credentials) Verify(username, password string) error {
	if strings.TrimSpace(username) != c.username {
		// keep timing in line with the wrong-password path
		_ = bcrypt.CompareHashAndPassword(c.hash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(c.hash, []byte(strings.TrimSpace(password))); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
