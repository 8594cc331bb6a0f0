package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrPinMismatch = errors.New("pin does not match")

// PinHasher defines how PIN codes are stored and verified.
type PinHasher interface {
	Hash(pin string) (string, error)
	Compare(stored string, pin string) error
	Name() string
}

// PlainHasher keeps PIN codes as entered, matching existing account data.
type PlainHasher struct{}

// NewPlainHasher creates PlainHasher.
func NewPlainHasher() *PlainHasher {
	return &PlainHasher{}
}

func (PlainHasher) Hash(pin string) (string, error) {
	return pin, nil
}

// Compare checks pin against stored in constant time.
func (PlainHasher) Compare(stored string, pin string) error {
	if subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) != 1 {
		return ErrPinMismatch
	}
	return nil
}

func (PlainHasher) Name() string {
	return "plain"
}

// BcryptHasher uses bcrypt to hash PIN codes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided pin.
func (h *BcryptHasher) Hash(pin string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks pin against stored hash.
func (h *BcryptHasher) Compare(stored string, pin string) error {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPinMismatch
	}
	return err
}

func (h *BcryptHasher) Name() string {
	return "bcrypt"
}
