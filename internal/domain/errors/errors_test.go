package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"not found", ErrNotFound, KindDomain},
		{"invalid credentials", ErrInvalidCredentials, KindDomain},
		{"malformed pin", ErrMalformedPin, KindValidation},
		{"invalid pin", ErrInvalidPin, KindValidation},
		{"invalid login", ErrInvalidLogin, KindValidation},
		{"invalid holder", ErrInvalidHolderName, KindValidation},
		{"invalid amount", ErrInvalidAmount, KindValidation},
		{"invalid balance", ErrInvalidBalance, KindValidation},
		{"invalid status", ErrInvalidStatus, KindValidation},
		{"insufficient funds", ErrInsufficientFunds, KindDomain},
		{"inactive", ErrAccountInactive, KindDomain},
		{"duplicate login", ErrDuplicateLogin, KindDomain},
		{"storage unavailable", ErrStorageUnavailable, KindStorage},
		{"constraint violated", ErrConstraintViolated, KindStorage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
			if got := KindOf(fmt.Errorf("wrapped: %w", tc.err)); got != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, got)
			}
		})
	}
}

func TestKindOfUnknown(t *testing.T) {
	if KindOf(nil) != KindUnknown {
		t.Fatal("nil error must be unknown")
	}
	if KindOf(stdErrors.New("boom")) != KindUnknown {
		t.Fatal("foreign error must be unknown")
	}
}

func TestStorageError(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := NewStorageError("find account", cause)

	if !stdErrors.Is(err, ErrStorageUnavailable) {
		t.Fatal("expected storage unavailable kind")
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to be preserved")
	}
	if stdErrors.Is(err, ErrNotFound) {
		t.Fatal("storage fault must not look like not found")
	}
	if KindOf(err) != KindStorage {
		t.Fatalf("unexpected kind %s", KindOf(err))
	}
	if !strings.Contains(err.Error(), "find account") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	bare := &StorageError{Op: "insert", Kind: ErrConstraintViolated}
	if !stdErrors.Is(bare, ErrConstraintViolated) {
		t.Fatal("expected constraint kind")
	}
	if bare.Error() != "insert: storage constraint violated" {
		t.Fatalf("unexpected message %q", bare.Error())
	}
}

func TestStorageErrorWinsOverWrappedSentinel(t *testing.T) {
	err := &StorageError{Op: "update", Kind: ErrConstraintViolated, Err: ErrInvalidBalance}
	if KindOf(err) != KindStorage {
		t.Fatalf("expected storage kind, got %s", KindOf(err))
	}
}

func TestOperationError(t *testing.T) {
	err := &OperationError{Op: "withdraw", AccountNumber: 42, Amount: decimal.NewFromInt(100), Err: ErrInsufficientFunds}

	if !stdErrors.Is(err, ErrInsufficientFunds) {
		t.Fatal("expected sentinel to be reachable")
	}

	var opErr *OperationError
	if !stdErrors.As(fmt.Errorf("ctx: %w", err), &opErr) {
		t.Fatal("expected operation error")
	}
	if opErr.AccountNumber != 42 || opErr.Op != "withdraw" {
		t.Fatalf("unexpected context %+v", opErr)
	}
	if err.Error() != "withdraw 100 on account 42: insufficient funds" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	noAmount := &OperationError{Op: "delete", AccountNumber: 7, Err: ErrNotFound}
	if noAmount.Error() != "delete account 7: not found" {
		t.Fatalf("unexpected message %q", noAmount.Error())
	}

	noAccount := &OperationError{Op: "create", Err: ErrDuplicateLogin}
	if noAccount.Error() != "create: login already exists" {
		t.Fatalf("unexpected message %q", noAccount.Error())
	}
}
