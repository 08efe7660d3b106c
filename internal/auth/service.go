// Package auth gates comparison endpoints behind bearer credentials:
// bcrypt-verified users, HS256 tokens, and the enforcing middleware.
package auth

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service issues and validates bearer tokens against a user store.
type Service struct {
	store  UserStore
	secret []byte
	expiry time.Duration
}

func NewService(store UserStore, secret string, expiry time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), expiry: expiry}
}

var (
	usernamePattern = regexp.MustCompile(`[^\w]`)
	passwordPattern = regexp.MustCompile(`[^\w@#$%^&+=]`)
)

// SanitizeUsername strips everything but word characters.
func SanitizeUsername(s string) string {
	return usernamePattern.ReplaceAllString(s, "")
}

// SanitizePassword strips everything outside the allowed symbol set.
func SanitizePassword(s string) string {
	return passwordPattern.ReplaceAllString(s, "")
}

// Register sanitizes the credentials, hashes the password with bcrypt, and
// stores the new user.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = SanitizeUsername(username)
	password = SanitizePassword(password)
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.CreateUser(ctx, username, string(hash))
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) error {
	username = SanitizeUsername(username)
	password = SanitizePassword(password)
	hash, err := s.store.PasswordHash(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
