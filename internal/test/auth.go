package test

import (
	pkgAuth "github.com/polkiloo/atmterminal/internal/pkg/auth"
)

// PinHasherStub provides deterministic hashing for tests.
type PinHasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied pin.
func (h PinHasherStub) Hash(pin string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(pin)
	}
	return "hash:" + pin, nil
}

// Compare validates pin against stored hash.
func (h PinHasherStub) Compare(stored string, pin string) error {
	if h.CompareFn != nil {
		return h.CompareFn(stored, pin)
	}
	if stored != "hash:"+pin {
		return pkgAuth.ErrPinMismatch
	}
	return nil
}

func (h PinHasherStub) Name() string {
	return "stub"
}

var _ pkgAuth.PinHasher = PinHasherStub{}
