package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used in production
const DefaultPasswordCost = 12

// maxPasswordLength is bcrypt's input limit; longer input would be truncated silently.
const maxPasswordLength = 72

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooLong    = errors.New("password must be 72 bytes or fewer")
)

// PasswordService hashes and verifies user passwords with bcrypt
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService. Tests pass bcrypt.MinCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost {
		cost = DefaultPasswordCost
	}
	return &PasswordService{cost: cost}
}

// Hash hashes a plaintext password
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns ErrInvalidCredentials when plaintext does not match hash
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("comparing password hash: %w", err)
	}
	return nil
}
